package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks Store,ClientDirectory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"visadesk/internal/application/metrics"
	"visadesk/internal/application/models"
	"visadesk/internal/application/service/mocks"
	clientmodels "visadesk/internal/client/models"
	"visadesk/internal/notify"
	"visadesk/internal/platform/logger"
	"visadesk/internal/storage"
	dErrors "visadesk/pkg/domain-errors"
	"visadesk/pkg/platform/sentinel"
	"visadesk/pkg/requestcontext"
)

// =============================================================================
// Application Service Test Suite
// =============================================================================
// Happy paths run against the in-memory collection; collaborator failures use
// generated mocks.

type recordingNotifier struct {
	events []notify.Event
}

func (r *recordingNotifier) Emit(_ context.Context, e notify.Event) {
	r.events = append(r.events, e)
}

type ServiceSuite struct {
	suite.Suite
	ctrl     *gomock.Controller
	clients  *mocks.MockClientDirectory
	store    *storage.Collection[models.Application]
	metrics  *metrics.Metrics
	notifier *recordingNotifier
	service  *Service
	ctx      context.Context
	now      time.Time
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.clients = mocks.NewMockClientDirectory(s.ctrl)
	s.now = time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	s.ctx = requestcontext.WithTime(context.Background(), s.now)
	s.store = storage.NewCollection[models.Application]()
	s.store.Seed(
		models.Application{ID: 1, ClientID: 1, ClientName: "Sarah Chen", VisaType: "Skilled Independent", VisaSubclass: "189", Status: models.StatusInProgress, ReferenceNumber: "VS-2025-00000001"},
		models.Application{ID: 2, ClientID: 2, ClientName: "Raj Patel", VisaType: "Partner", VisaSubclass: "820/801", Status: models.StatusApproved, ReferenceNumber: "VS-2025-00000002"},
		models.Application{ID: 3, ClientID: 1, ClientName: "Sarah Chen", VisaType: "Student", VisaSubclass: "500", Status: models.StatusProcessing, ReferenceNumber: "VS-2024-00000003"},
	)
	s.metrics = metrics.New(prometheus.NewRegistry())
	s.notifier = &recordingNotifier{}
	s.service = New(s.store,
		WithLogger(logger.Discard()),
		WithMetrics(s.metrics),
		WithNotifier(s.notifier),
		WithClientDirectory(s.clients),
		WithDefaultAgent("Unassigned"),
	)
}

func (s *ServiceSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *ServiceSuite) TestList() {
	s.Run("by client", func() {
		apps, err := s.service.ListByClient(s.ctx, 1)
		s.Require().NoError(err)
		s.Require().Len(apps, 2)
		s.Equal(1, apps[0].ID)
		s.Equal(3, apps[1].ID)
	})

	s.Run("search and status", func() {
		apps, err := s.service.List(s.ctx, models.Filter{Search: "partner", Status: models.StatusApproved})
		s.Require().NoError(err)
		s.Require().Len(apps, 1)
		s.Equal(2, apps[0].ID)
	})
}

func (s *ServiceSuite) TestCreate() {
	s.Run("resolves client name and assigns next id", func() {
		s.clients.EXPECT().Get(gomock.Any(), 2).Return(clientmodels.Client{ID: 2, FirstName: "Raj", LastName: "Patel"}, nil)

		a, err := s.service.Create(s.ctx, models.NewInput{
			ClientID:     2,
			VisaType:     "Employer Sponsored",
			VisaSubclass: "482",
		})
		s.Require().NoError(err)
		s.Equal(4, a.ID)
		s.Equal("Raj Patel", a.ClientName)
		s.Equal(models.StatusInProgress, a.Status)
		s.Equal(s.now, a.LodgementDate)
		s.Equal("Unassigned", a.AssignedAgent)
		s.Equal(1.0, promtest.ToFloat64(s.metrics.Created.WithLabelValues("482")))
	})

	s.Run("authenticated agent is assigned", func() {
		ctx := requestcontext.WithAgent(s.ctx, "Sarah Mitchell")
		a, err := s.service.Create(ctx, models.NewInput{ClientName: "Walk In", VisaType: "Student", VisaSubclass: "500"})
		s.Require().NoError(err)
		s.Equal("Sarah Mitchell", a.AssignedAgent)
	})

	s.Run("unknown client is a validation error", func() {
		s.clients.EXPECT().Get(gomock.Any(), 42).Return(clientmodels.Client{}, dErrors.New(dErrors.CodeNotFound, "client not found"))
		_, err := s.service.Create(s.ctx, models.NewInput{ClientID: 42, VisaType: "Student", VisaSubclass: "500"})
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("missing subclass", func() {
		_, err := s.service.Create(s.ctx, models.NewInput{ClientName: "x", VisaType: "Student"})
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func (s *ServiceSuite) TestCreateStoreFailure() {
	store := mocks.NewMockStore(s.ctrl)
	svc := New(store)
	store.EXPECT().Create(gomock.Any(), gomock.Any()).Return(models.Application{}, errors.New("connection reset"))

	_, err := svc.Create(s.ctx, models.NewInput{ClientName: "x", VisaType: "Student", VisaSubclass: "500"})
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))

	store.EXPECT().Create(gomock.Any(), gomock.Any()).Return(models.Application{}, sentinel.ErrConflict)
	_, err = svc.Create(s.ctx, models.NewInput{ClientName: "x", VisaType: "Student", VisaSubclass: "500"})
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))
}

func (s *ServiceSuite) TestUpdate() {
	s.Run("status change notifies", func() {
		status := models.StatusDocumentReview
		a, err := s.service.Update(s.ctx, 1, models.Patch{Status: &status})
		s.Require().NoError(err)
		s.Equal(models.StatusDocumentReview, a.Status)
		s.Equal(s.now, a.UpdatedAt)
		s.Require().Len(s.notifier.events, 1)
		s.Equal("application:1", s.notifier.events[0].Subject)
		s.Equal(1.0, promtest.ToFloat64(s.metrics.StatusChanged.WithLabelValues("Document Review")))
	})

	s.Run("agent change is silent", func() {
		s.notifier.events = nil
		agent := "Tom"
		_, err := s.service.Update(s.ctx, 2, models.Patch{AssignedAgent: &agent})
		s.Require().NoError(err)
		s.Empty(s.notifier.events)
	})

	s.Run("unknown id", func() {
		_, err := s.service.Update(s.ctx, 404, models.Patch{})
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *ServiceSuite) TestDeleteDoesNotReuseIDs() {
	_, err := s.service.Delete(s.ctx, 3)
	s.Require().NoError(err)

	a, err := s.service.Create(s.ctx, models.NewInput{ClientName: "x", VisaType: "Student", VisaSubclass: "500"})
	s.Require().NoError(err)
	s.Equal(4, a.ID)

	_, err = s.service.Get(s.ctx, 3)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ServiceSuite) TestDocuments() {
	_, err := s.service.Documents(s.ctx, 99)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))

	docs := []models.Document{{Name: "Passport", Required: true}}
	_, err = s.service.Update(s.ctx, 1, models.Patch{Documents: &docs})
	s.Require().NoError(err)
	got, err := s.service.Documents(s.ctx, 1)
	s.Require().NoError(err)
	s.Equal(docs, got)
}
