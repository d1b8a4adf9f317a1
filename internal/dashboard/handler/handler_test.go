package handler

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appmodels "visadesk/internal/application/models"
	appservice "visadesk/internal/application/service"
	"visadesk/internal/catalog"
	clientmodels "visadesk/internal/client/models"
	clientservice "visadesk/internal/client/service"
	"visadesk/internal/compliance"
	"visadesk/internal/dashboard/models"
	"visadesk/internal/dashboard/service"
	docmodels "visadesk/internal/document/models"
	docservice "visadesk/internal/document/service"
	"visadesk/internal/platform/logger"
	"visadesk/internal/seed"
	"visadesk/internal/storage"
	dErrors "visadesk/pkg/domain-errors"
	"visadesk/pkg/testutil"
)

func TestHandleSummary(t *testing.T) {
	now := time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)
	clients := storage.NewCollection[clientmodels.Client]()
	apps := storage.NewCollection[appmodels.Application]()
	docs := storage.NewCollection[docmodels.Document]()
	seed.Collections(now, clients, apps, docs)

	svc := service.New(clientservice.New(clients), appservice.New(apps),
		service.WithDocuments(docservice.New(docs)),
		service.WithDeadlines(compliance.NewService(catalog.Default())),
	)
	r := chi.NewRouter()
	New(svc, logger.Discard()).Register(r)

	testutil.Given(t, "the demonstration practice", func(t *testing.T) {
		testutil.When(t, "the dashboard is requested", func(t *testing.T) {
			rr := testutil.DoRequest(r, testutil.At(testutil.NewJSONRequest(t, http.MethodGet, "/dashboard", nil), now))

			testutil.Then(t, "headline counts come from the fixtures", func(t *testing.T) {
				require.Equal(t, http.StatusOK, rr.Code)
				body := testutil.Decode[models.Summary](t, rr)
				assert.Equal(t, 6, body.Stats.TotalClients)
				assert.Equal(t, 4, body.Stats.ActiveApplications)
				assert.Equal(t, 5, body.Stats.PendingDocuments)
				assert.Equal(t, 1, body.Stats.ApprovalsThisMonth)
				assert.Len(t, body.RecentClients, models.RecentLimit)
				require.Len(t, body.UpcomingTasks, 1)
				assert.Equal(t, models.TaskHealth, body.UpcomingTasks[0].Type)
			})
		})
	})
}

type failingService struct{ err error }

func (f failingService) Summary(context.Context) (models.Summary, error) {
	return models.Summary{}, f.err
}

func TestHandleSummaryFailure(t *testing.T) {
	r := chi.NewRouter()
	New(failingService{err: dErrors.New(dErrors.CodeTimeout, "store timed out")}, logger.Discard()).Register(r)

	rr := testutil.DoRequest(r, testutil.NewJSONRequest(t, http.MethodGet, "/dashboard", nil))
	testutil.AssertError(t, rr, http.StatusGatewayTimeout, string(dErrors.CodeTimeout))
}
