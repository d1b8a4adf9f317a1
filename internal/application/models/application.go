package models

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	dErrors "visadesk/pkg/domain-errors"
)

type Status string

const (
	StatusInProgress     Status = "In Progress"
	StatusDocumentReview Status = "Document Review"
	StatusProcessing     Status = "Processing"
	StatusApproved       Status = "Approved"
	StatusRejected       Status = "Rejected"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusInProgress, StatusDocumentReview, StatusProcessing, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// IsActive reports whether the application is still being worked on.
func (s Status) IsActive() bool {
	return s == StatusInProgress || s == StatusDocumentReview || s == StatusProcessing
}

// Document is one checklist entry attached to an application.
type Document struct {
	Name     string `json:"name"`
	Required bool   `json:"required"`
	Status   string `json:"status,omitempty"`
	Verified bool   `json:"verified"`
}

// Application is a lodged visa application.
//
// Invariants:
//   - VisaSubclass, VisaType and ClientName are non-empty
//   - Status is one of the five known statuses
//   - ReferenceNumber is assigned at creation and never changes
//   - ApplicantDetails is never nil
type Application struct {
	ID               int               `json:"Id"`
	ClientID         int               `json:"clientId"`
	ClientName       string            `json:"clientName"`
	VisaType         string            `json:"visaType"`
	VisaSubclass     string            `json:"visaSubclass"`
	Status           Status            `json:"status"`
	ReferenceNumber  string            `json:"referenceNumber"`
	AssignedAgent    string            `json:"assignedAgent"`
	ApplicantDetails map[string]string `json:"applicantDetails"`
	Documents        []Document        `json:"documents"`
	LodgementDate    time.Time         `json:"lodgementDate"`
	CreatedAt        time.Time         `json:"createdAt"`
	UpdatedAt        time.Time         `json:"updatedAt"`
}

func (a Application) Key() int { return a.ID }

func (a Application) WithKey(id int) Application {
	a.ID = id
	return a
}

func (a Application) Clone() Application {
	a.ApplicantDetails = maps.Clone(a.ApplicantDetails)
	if a.ApplicantDetails == nil {
		a.ApplicantDetails = map[string]string{}
	}
	a.Documents = slices.Clone(a.Documents)
	return a
}

// UnverifiedDocuments counts attached documents not yet verified.
func (a Application) UnverifiedDocuments() int {
	n := 0
	for _, d := range a.Documents {
		if !d.Verified {
			n++
		}
	}
	return n
}

// NewInput is what a caller supplies to lodge an application.
type NewInput struct {
	ClientID         int               `json:"clientId"`
	ClientName       string            `json:"clientName"`
	VisaType         string            `json:"visaType"`
	VisaSubclass     string            `json:"visaSubclass"`
	AssignedAgent    string            `json:"assignedAgent"`
	ApplicantDetails map[string]string `json:"applicantDetails"`
	Documents        []Document        `json:"documents"`
}

// NewApplication lodges an application at now with status In Progress.
func NewApplication(in NewInput, now time.Time) (Application, error) {
	a := Application{
		ClientID:         in.ClientID,
		ClientName:       strings.TrimSpace(in.ClientName),
		VisaType:         strings.TrimSpace(in.VisaType),
		VisaSubclass:     strings.TrimSpace(in.VisaSubclass),
		Status:           StatusInProgress,
		ReferenceNumber:  NewReferenceNumber(now),
		AssignedAgent:    strings.TrimSpace(in.AssignedAgent),
		ApplicantDetails: maps.Clone(in.ApplicantDetails),
		Documents:        append([]Document(nil), in.Documents...),
		LodgementDate:    now,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if a.ApplicantDetails == nil {
		a.ApplicantDetails = map[string]string{}
	}
	if a.Documents == nil {
		a.Documents = []Document{}
	}
	if err := a.check(); err != nil {
		return Application{}, err
	}
	return a, nil
}

// NewReferenceNumber formats VS-<year>-<8 upper hex>.
func NewReferenceNumber(now time.Time) string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fmt.Sprintf("VS-%d-%s", now.Year(), strings.ToUpper(raw[:8]))
}

func (a Application) check() error {
	switch {
	case a.VisaSubclass == "":
		return dErrors.New(dErrors.CodeInvariantViolation, "visa subclass is required")
	case a.VisaType == "":
		return dErrors.New(dErrors.CodeInvariantViolation, "visa type is required")
	case a.ClientName == "":
		return dErrors.New(dErrors.CodeInvariantViolation, "client name is required")
	case !a.Status.IsValid():
		return dErrors.New(dErrors.CodeInvariantViolation, "unknown application status")
	}
	return nil
}

// Patch is a partial update. ApplicantDetails entries are merged key by key;
// Documents replaces the list when non-nil.
type Patch struct {
	ClientName       *string           `json:"clientName"`
	Status           *Status           `json:"status"`
	AssignedAgent    *string           `json:"assignedAgent"`
	ApplicantDetails map[string]string `json:"applicantDetails"`
	Documents        *[]Document       `json:"documents"`
}

// Apply merges p into a and stamps UpdatedAt.
func (a Application) Apply(p Patch, now time.Time) (Application, error) {
	if p.ClientName != nil {
		a.ClientName = strings.TrimSpace(*p.ClientName)
	}
	if p.Status != nil {
		a.Status = *p.Status
	}
	if p.AssignedAgent != nil {
		a.AssignedAgent = strings.TrimSpace(*p.AssignedAgent)
	}
	if len(p.ApplicantDetails) > 0 {
		if a.ApplicantDetails == nil {
			a.ApplicantDetails = map[string]string{}
		}
		maps.Copy(a.ApplicantDetails, p.ApplicantDetails)
	}
	if p.Documents != nil {
		a.Documents = append([]Document{}, (*p.Documents)...)
	}
	a.UpdatedAt = now
	if err := a.check(); err != nil {
		return Application{}, err
	}
	return a, nil
}
