// Package wizard implements the multi-step visa application wizard: a linear
// state machine over the catalog steps, the applicant field validator and a
// renderer projecting state into a view.
package wizard

import (
	"maps"
	"time"

	"github.com/google/uuid"

	"visadesk/internal/catalog"
)

type DocumentStatus string

const (
	DocumentPending  DocumentStatus = "pending"
	DocumentUploaded DocumentStatus = "uploaded"
)

// DocumentItem is one row of the wizard's document checklist.
type DocumentItem struct {
	Name     string         `json:"name"`
	Required bool           `json:"required"`
	Status   DocumentStatus `json:"status"`
}

// State is the in-progress application held by one wizard session.
//
// Invariants:
//   - 0 <= StepIndex < catalog step count
//   - ApplicantDetails and Errors are never nil
//   - Documents is seeded from the catalog and not changed by the wizard
type State struct {
	ID               uuid.UUID         `json:"id"`
	ClientID         int               `json:"clientId,omitempty"`
	StepIndex        int               `json:"stepIndex"`
	SelectedVisa     string            `json:"selectedVisa,omitempty"`
	ApplicantDetails map[string]string `json:"applicantDetails"`
	Errors           map[string]string `json:"errors"`
	Documents        []DocumentItem    `json:"documents"`
	CreatedAt        time.Time         `json:"createdAt"`
	UpdatedAt        time.Time         `json:"updatedAt"`
}

// NewState starts a wizard at the first step with empty defaults.
func NewState(c *catalog.Catalog, clientID int, now time.Time) *State {
	s := &State{
		ID:        uuid.New(),
		ClientID:  clientID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.reset(c)
	return s
}

func (s *State) reset(c *catalog.Catalog) {
	s.StepIndex = 0
	s.SelectedVisa = ""
	s.ApplicantDetails = map[string]string{}
	s.Errors = map[string]string{}
	reqs := c.Documents()
	s.Documents = make([]DocumentItem, len(reqs))
	for i, r := range reqs {
		s.Documents[i] = DocumentItem{Name: r.Name, Required: r.Required, Status: DocumentPending}
	}
}

// Clone returns a deep copy.
func (s *State) Clone() *State {
	if s == nil {
		return nil
	}
	out := *s
	out.ApplicantDetails = maps.Clone(s.ApplicantDetails)
	out.Errors = maps.Clone(s.Errors)
	out.Documents = append([]DocumentItem(nil), s.Documents...)
	if out.ApplicantDetails == nil {
		out.ApplicantDetails = map[string]string{}
	}
	if out.Errors == nil {
		out.Errors = map[string]string{}
	}
	return &out
}

// HasErrors reports whether the last gate left field errors behind.
func (s *State) HasErrors() bool {
	return len(s.Errors) > 0
}

// Submission is what a completed wizard hands to the application service.
type Submission struct {
	ClientID         int               `json:"clientId,omitempty"`
	VisaSubclass     string            `json:"visaSubclass"`
	VisaType         string            `json:"visaType"`
	ApplicantDetails map[string]string `json:"applicantDetails"`
	Documents        []DocumentItem    `json:"documents"`
}

// ApplicantName joins given and family names for display.
func (s Submission) ApplicantName() string {
	return joinName(s.ApplicantDetails["givenNames"], s.ApplicantDetails["familyName"])
}

func joinName(given, family string) string {
	switch {
	case given == "":
		return family
	case family == "":
		return given
	default:
		return given + " " + family
	}
}
