package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	"visadesk/internal/application/models"
	"visadesk/internal/application/service"
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
	store := storage.NewCollection[models.Application]()
	store.Seed(
		models.Application{ID: 1, ClientID: 1, ClientName: "Sarah Chen", VisaType: "Skilled Independent", VisaSubclass: "189",
			Status: models.StatusInProgress, ReferenceNumber: "VS-2025-00000001",
			Documents: []models.Document{{Name: "Passport", Verified: true}, {Name: "Birth Certificate"}}},
		models.Application{ID: 2, ClientID: 2, ClientName: "Raj Patel", VisaType: "Partner", VisaSubclass: "820/801",
			Status: models.StatusApproved, ReferenceNumber: "VS-2025-00000002"},
	)
	s.router = chi.NewRouter()
	New(service.New(store, service.WithDefaultAgent("Unassigned")), logger.Discard()).Register(s.router)
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

func (s *HandlerSuite) decodeList(w *httptest.ResponseRecorder) []models.Application {
	var body struct {
		Applications []models.Application `json:"applications"`
	}
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	return body.Applications
}

func (s *HandlerSuite) TestList() {
	s.Run("status filter", func() {
		w := s.do(http.MethodGet, "/applications?status=approved", "")
		s.Require().Equal(http.StatusOK, w.Code)
		apps := s.decodeList(w)
		s.Require().Len(apps, 1)
		s.Equal("Raj Patel", apps[0].ClientName)
	})

	s.Run("by client", func() {
		w := s.do(http.MethodGet, "/clients/1/applications", "")
		s.Require().Equal(http.StatusOK, w.Code)
		apps := s.decodeList(w)
		s.Require().Len(apps, 1)
		s.Equal(1, apps[0].ID)
	})

	s.Run("unknown filter", func() {
		w := s.do(http.MethodGet, "/applications?status=lodged", "")
		s.Equal(http.StatusBadRequest, w.Code)
	})
}

func (s *HandlerSuite) TestDocuments() {
	w := s.do(http.MethodGet, "/applications/1/documents", "")
	s.Require().Equal(http.StatusOK, w.Code)
	var body struct {
		Documents []models.Document `json:"documents"`
	}
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	s.Len(body.Documents, 2)

	w = s.do(http.MethodGet, "/applications/9/documents", "")
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *HandlerSuite) TestCreateUpdateDelete() {
	w := s.do(http.MethodPost, "/applications", `{"clientName":"Ana Silva","visaType":"Student","visaSubclass":"500"}`)
	s.Require().Equal(http.StatusCreated, w.Code)
	var created models.Application
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &created))
	s.Equal(3, created.ID)
	s.Equal(models.StatusInProgress, created.Status)
	s.Equal("Unassigned", created.AssignedAgent)

	w = s.do(http.MethodPatch, "/applications/3", `{"status":"Processing"}`)
	s.Require().Equal(http.StatusOK, w.Code)

	w = s.do(http.MethodPatch, "/applications/3", `{"status":"Lost"}`)
	s.Equal(http.StatusUnprocessableEntity, w.Code)

	w = s.do(http.MethodDelete, "/applications/3", "")
	s.Require().Equal(http.StatusOK, w.Code)
	w = s.do(http.MethodGet, "/applications/3", "")
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *HandlerSuite) TestCreateMalformed() {
	w := s.do(http.MethodPost, "/applications", `{"clientName":`)
	s.Equal(http.StatusBadRequest, w.Code)
}
