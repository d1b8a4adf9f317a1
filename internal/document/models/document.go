package models

import (
	"strings"
	"time"

	dErrors "visadesk/pkg/domain-errors"
)

// Type classifies a supporting document.
type Type string

const (
	TypePassport         Type = "passport"
	TypeBirthCertificate Type = "birth_certificate"
	TypeEnglishTest      Type = "english_test"
	TypeSkillsAssessment Type = "skills_assessment"
	TypeHealthExam       Type = "health_exam"
	TypeCharacterCheck   Type = "character_check"
	TypeFinancial        Type = "financial"
	TypeRelationship     Type = "relationship"
)

var typeLabels = map[Type]string{
	TypePassport:         "Passport",
	TypeBirthCertificate: "Birth Certificate",
	TypeEnglishTest:      "English Test",
	TypeSkillsAssessment: "Skills Assessment",
	TypeHealthExam:       "Health Examination",
	TypeCharacterCheck:   "Character Check",
	TypeFinancial:        "Financial Evidence",
	TypeRelationship:     "Relationship Evidence",
}

func (t Type) IsValid() bool {
	_, ok := typeLabels[t]
	return ok
}

// Label is the display name, or the raw type when unknown.
func (t Type) Label() string {
	if l, ok := typeLabels[t]; ok {
		return l
	}
	return string(t)
}

// Stored lifecycle markers. Verification is tracked separately.
const (
	StatusUploaded = "uploaded"
	StatusMissing  = "missing"
)

// Document is a file held as evidence for an application.
//
// Invariants:
//   - Type is a known document type
//   - FileName is non-empty unless Status is missing
//   - UploadDate is stamped at creation
type Document struct {
	ID             int        `json:"Id"`
	ApplicationID  int        `json:"applicationId"`
	ApplicationRef string     `json:"applicationRef,omitempty"`
	ClientName     string     `json:"clientName"`
	Type           Type       `json:"type"`
	FileName       string     `json:"fileName"`
	UploadDate     time.Time  `json:"uploadDate"`
	ExpiryDate     *time.Time `json:"expiryDate,omitempty"`
	Verified       bool       `json:"verified"`
	Status         string     `json:"status"`
}

func (d Document) Key() int { return d.ID }

func (d Document) WithKey(id int) Document {
	d.ID = id
	return d
}

func (d Document) Clone() Document {
	if d.ExpiryDate != nil {
		t := *d.ExpiryDate
		d.ExpiryDate = &t
	}
	return d
}

// IsExpired reports whether the expiry date is strictly before now.
func (d Document) IsExpired(now time.Time) bool {
	return d.ExpiryDate != nil && d.ExpiryDate.Before(now)
}

// DisplayStatus is Expired, Verified or Pending Review, in that precedence.
func (d Document) DisplayStatus(now time.Time) string {
	switch {
	case d.IsExpired(now):
		return "Expired"
	case d.Verified:
		return "Verified"
	default:
		return "Pending Review"
	}
}

// NewDocument records an upload at now. Verification always starts false.
func NewDocument(in Document, now time.Time) (Document, error) {
	in.ID = 0
	in.FileName = strings.TrimSpace(in.FileName)
	in.UploadDate = now
	in.Verified = false
	if in.Status == "" {
		in.Status = StatusUploaded
	}
	if err := in.check(); err != nil {
		return Document{}, err
	}
	return in, nil
}

func (d Document) check() error {
	if !d.Type.IsValid() {
		return dErrors.New(dErrors.CodeInvariantViolation, "unknown document type: "+string(d.Type))
	}
	if d.Status != StatusUploaded && d.Status != StatusMissing {
		return dErrors.New(dErrors.CodeInvariantViolation, "unknown document status: "+d.Status)
	}
	if d.FileName == "" && d.Status != StatusMissing {
		return dErrors.New(dErrors.CodeInvariantViolation, "file name is required")
	}
	return nil
}

// Patch is a partial update. Verification goes through Verify, not Patch.
type Patch struct {
	FileName   *string    `json:"fileName"`
	Type       *Type      `json:"type"`
	ExpiryDate *time.Time `json:"expiryDate"`
	Status     *string    `json:"status"`
}

func (d Document) Apply(p Patch) (Document, error) {
	if p.FileName != nil {
		d.FileName = strings.TrimSpace(*p.FileName)
	}
	if p.Type != nil {
		d.Type = *p.Type
	}
	if p.ExpiryDate != nil {
		t := *p.ExpiryDate
		d.ExpiryDate = &t
	}
	if p.Status != nil {
		d.Status = *p.Status
	}
	if err := d.check(); err != nil {
		return Document{}, err
	}
	return d, nil
}

// Verify marks the document verified. Missing documents cannot be verified.
func (d Document) Verify() (Document, error) {
	if d.Status == StatusMissing {
		return Document{}, dErrors.New(dErrors.CodeInvalidState, "cannot verify a missing document")
	}
	d.Verified = true
	return d, nil
}
