package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	"visadesk/internal/client/models"
	"visadesk/internal/client/service"
	"visadesk/internal/platform/logger"
	"visadesk/internal/storage"
)

type HandlerSuite struct {
	suite.Suite
	router *chi.Mux
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	store := storage.NewCollection[models.Client]()
	store.Seed(
		models.Client{ID: 1, FirstName: "Sarah", LastName: "Chen", Email: "sarah@example.com", Status: models.StatusActive},
		models.Client{ID: 2, FirstName: "Raj", LastName: "Patel", Email: "raj@example.com", Status: models.StatusPending},
	)
	s.router = chi.NewRouter()
	New(service.New(store), logger.Discard()).Register(s.router)
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

func (s *HandlerSuite) TestList() {
	s.Run("filters by status", func() {
		w := s.do(http.MethodGet, "/clients?status=pending", "")
		s.Require().Equal(http.StatusOK, w.Code)
		var body struct {
			Clients []models.Client `json:"clients"`
		}
		s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
		s.Require().Len(body.Clients, 1)
		s.Equal("Raj", body.Clients[0].FirstName)
	})

	s.Run("rejects unknown status", func() {
		w := s.do(http.MethodGet, "/clients?status=archived", "")
		s.Equal(http.StatusBadRequest, w.Code)
	})
}

func (s *HandlerSuite) TestCRUD() {
	s.Run("create", func() {
		w := s.do(http.MethodPost, "/clients", `{"firstName":"Ana","lastName":"Silva","email":"ana@example.com"}`)
		s.Require().Equal(http.StatusCreated, w.Code)
		var c models.Client
		s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &c))
		s.Equal(3, c.ID)
	})

	s.Run("create without last name", func() {
		w := s.do(http.MethodPost, "/clients", `{"firstName":"Ana"}`)
		s.Equal(http.StatusUnprocessableEntity, w.Code)
	})

	s.Run("create with malformed email", func() {
		w := s.do(http.MethodPost, "/clients", `{"firstName":"Ana","lastName":"Silva","email":"ana at example"}`)
		s.Equal(http.StatusUnprocessableEntity, w.Code)
	})

	s.Run("patch with malformed email", func() {
		w := s.do(http.MethodPatch, "/clients/2", `{"email":"raj@"}`)
		s.Equal(http.StatusUnprocessableEntity, w.Code)
	})

	s.Run("patch", func() {
		w := s.do(http.MethodPatch, "/clients/1", `{"status":"Completed"}`)
		s.Require().Equal(http.StatusOK, w.Code)
		var c models.Client
		s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &c))
		s.Equal(models.StatusCompleted, c.Status)
		s.Equal("Sarah", c.FirstName)
	})

	s.Run("get missing", func() {
		w := s.do(http.MethodGet, "/clients/99", "")
		s.Equal(http.StatusNotFound, w.Code)
	})

	s.Run("bad id", func() {
		w := s.do(http.MethodGet, "/clients/abc", "")
		s.Equal(http.StatusBadRequest, w.Code)
	})

	s.Run("delete", func() {
		w := s.do(http.MethodDelete, "/clients/2", "")
		s.Require().Equal(http.StatusOK, w.Code)
		w = s.do(http.MethodGet, "/clients/2", "")
		s.Equal(http.StatusNotFound, w.Code)
	})
}
