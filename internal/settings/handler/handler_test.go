package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	"visadesk/internal/platform/logger"
	"visadesk/internal/settings/models"
	"visadesk/internal/settings/service"
	"visadesk/internal/settings/store"
)

type HandlerSuite struct {
	suite.Suite
	router *chi.Mux
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	s.router = chi.NewRouter()
	New(service.New(store.NewInMemory(models.Default())), logger.Discard()).Register(s.router)
}

func (s *HandlerSuite) do(method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *HandlerSuite) TestGet() {
	w := s.do(http.MethodGet, "/settings", "")
	s.Require().Equal(http.StatusOK, w.Code)
	var body struct {
		Profile       map[string]any `json:"profile"`
		Notifications map[string]any `json:"notifications"`
		Security      map[string]any `json:"security"`
	}
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	s.Equal("1234567", body.Profile["maraNumber"])
	s.Equal(true, body.Notifications["deadlineReminders"])
	s.Equal(float64(30), body.Security["sessionTimeout"])
}

func (s *HandlerSuite) TestUpdate() {
	s.Run("saves the document", func() {
		in := models.Default()
		in.Notifications.SMS = true
		in.Security.SessionTimeout = 120
		payload, err := json.Marshal(in)
		s.Require().NoError(err)

		w := s.do(http.MethodPut, "/settings", string(payload))
		s.Require().Equal(http.StatusOK, w.Code)

		w = s.do(http.MethodGet, "/settings", "")
		var got models.Settings
		s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &got))
		s.True(got.Notifications.SMS)
		s.Equal(120, got.Security.SessionTimeout)
		s.False(got.UpdatedAt.IsZero())
	})

	s.Run("partial document is rejected", func() {
		w := s.do(http.MethodPut, "/settings", `{"security":{"sessionTimeout":60}}`)
		s.Equal(http.StatusUnprocessableEntity, w.Code)
	})

	s.Run("malformed body", func() {
		w := s.do(http.MethodPut, "/settings", `{"profile":`)
		s.Equal(http.StatusBadRequest, w.Code)
	})

	s.Run("missing body", func() {
		w := s.do(http.MethodPut, "/settings", "")
		s.Equal(http.StatusBadRequest, w.Code)
	})
}
