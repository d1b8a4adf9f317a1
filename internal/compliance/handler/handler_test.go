package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"visadesk/internal/catalog"
	"visadesk/internal/compliance"
	"visadesk/internal/platform/logger"
	"visadesk/pkg/testutil"
)

func TestHandleReport(t *testing.T) {
	h := New(compliance.NewService(catalog.Default()), logger.Discard())
	r := chi.NewRouter()
	h.Register(r)

	now := time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC)
	rr := testutil.DoRequest(r, testutil.At(testutil.NewJSONRequest(t, http.MethodGet, "/compliance", nil), now))

	require.Equal(t, http.StatusOK, rr.Code)
	body := testutil.Decode[struct {
		Indemnity    compliance.Expiry       `json:"indemnity"`
		TrustBalance string                  `json:"trustBalance"`
		Cards        []compliance.StatusCard `json:"cards"`
	}](t, rr)
	assert.True(t, body.Indemnity.ExpiringSoon)
	assert.Equal(t, "$50,000.00", body.TrustBalance)
	assert.Len(t, body.Cards, 4)
}
