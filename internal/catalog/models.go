package catalog

import "time"

// StepID names a wizard step. The wizard dispatches behaviour by id, so a
// catalog may reorder or retitle steps but only use these ids.
type StepID string

const (
	StepVisaType         StepID = "visa-type"
	StepApplicantDetails StepID = "applicant-details"
	StepDocuments        StepID = "documents"
	StepReview           StepID = "review"
)

// StepIDs lists every step a catalog must define.
func StepIDs() []StepID {
	return []StepID{StepVisaType, StepApplicantDetails, StepDocuments, StepReview}
}

func (id StepID) IsValid() bool {
	switch id {
	case StepVisaType, StepApplicantDetails, StepDocuments, StepReview:
		return true
	}
	return false
}

// Step is one stage of the application wizard.
type Step struct {
	ID          StepID `yaml:"id" json:"id"`
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description" json:"description"`
	Icon        string `yaml:"icon" json:"icon"`
}

type Category string

const (
	CategoryPermanent          Category = "Permanent"
	CategoryTemporary          Category = "Temporary"
	CategoryTemporaryPermanent Category = "Temporary/Permanent"
)

func (c Category) IsValid() bool {
	switch c {
	case CategoryPermanent, CategoryTemporary, CategoryTemporaryPermanent:
		return true
	}
	return false
}

// VisaType describes a visa subclass an applicant can apply for.
type VisaType struct {
	Code           string   `yaml:"code" json:"code"`
	Name           string   `yaml:"name" json:"name"`
	Category       Category `yaml:"category" json:"category"`
	Description    string   `yaml:"description" json:"description"`
	Requirements   []string `yaml:"requirements" json:"requirements"`
	ProcessingTime string   `yaml:"processingTime" json:"processingTime"`
	// RequiredFields extends the base applicant fields for this subclass.
	RequiredFields []string `yaml:"requiredFields,omitempty" json:"requiredFields,omitempty"`
}

type InputType string

const (
	InputText   InputType = "text"
	InputDate   InputType = "date"
	InputEmail  InputType = "email"
	InputTel    InputType = "tel"
	InputNumber InputType = "number"
)

func (t InputType) IsValid() bool {
	switch t {
	case InputText, InputDate, InputEmail, InputTel, InputNumber:
		return true
	}
	return false
}

// Field is an applicant detail collected by the wizard form.
type Field struct {
	Name        string    `yaml:"name" json:"name"`
	Label       string    `yaml:"label" json:"label"`
	InputType   InputType `yaml:"inputType" json:"inputType"`
	Placeholder string    `yaml:"placeholder,omitempty" json:"placeholder,omitempty"`
	// Format marks fields with a shape check beyond presence.
	Format FieldFormat `yaml:"format,omitempty" json:"format,omitempty"`
}

type FieldFormat string

const (
	FormatNone  FieldFormat = ""
	FormatEmail FieldFormat = "email"
	FormatABN   FieldFormat = "abn"
)

// DocumentRequirement is one entry of the wizard's document checklist.
type DocumentRequirement struct {
	Name     string `yaml:"name" json:"name"`
	Required bool   `yaml:"required" json:"required"`
}

// ComplianceProfile is the practice's regulatory standing.
type ComplianceProfile struct {
	Registration     Registration      `yaml:"maraRegistration" json:"maraRegistration"`
	Indemnity        Indemnity         `yaml:"professionalIndemnity" json:"professionalIndemnity"`
	CPD              CPD               `yaml:"cpd" json:"cpd"`
	ClientFunds      ClientFunds       `yaml:"clientFunds" json:"clientFunds"`
	RecentActivities []ComplianceEvent `yaml:"recentActivities" json:"recentActivities"`
}

type Registration struct {
	Number      string    `yaml:"number" json:"number"`
	Status      string    `yaml:"status" json:"status"`
	ExpiryDate  time.Time `yaml:"expiryDate" json:"expiryDate"`
	LastRenewal time.Time `yaml:"lastRenewal" json:"lastRenewal"`
}

type Indemnity struct {
	Provider     string    `yaml:"provider" json:"provider"`
	PolicyNumber string    `yaml:"policyNumber" json:"policyNumber"`
	Coverage     int64     `yaml:"coverage" json:"coverage"`
	ExpiryDate   time.Time `yaml:"expiryDate" json:"expiryDate"`
}

type CPD struct {
	RequiredHours  int       `yaml:"requiredHours" json:"requiredHours"`
	CompletedHours int       `yaml:"completedHours" json:"completedHours"`
	Deadline       time.Time `yaml:"deadline" json:"deadline"`
}

type ClientFunds struct {
	TrustAccountBalance int64     `yaml:"trustAccountBalance" json:"trustAccountBalance"`
	LastAudit           time.Time `yaml:"lastAudit" json:"lastAudit"`
	NextAudit           time.Time `yaml:"nextAudit" json:"nextAudit"`
}

type ComplianceEvent struct {
	ID          int       `yaml:"id" json:"id"`
	Type        string    `yaml:"type" json:"type"`
	Description string    `yaml:"description" json:"description"`
	Date        time.Time `yaml:"date" json:"date"`
	Hours       int       `yaml:"hours,omitempty" json:"hours,omitempty"`
	Status      string    `yaml:"status,omitempty" json:"status,omitempty"`
}
