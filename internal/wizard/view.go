package wizard

import (
	"maps"

	"github.com/google/uuid"

	"visadesk/internal/catalog"
)

// DeclarationNotice is shown on the review step.
const DeclarationNotice = "By submitting this application, you confirm that all information provided is true and correct. " +
	"False or misleading information may result in visa refusal and future visa restrictions."

// DocumentUploadPath is where checklist uploads are sent.
const DocumentUploadPath = "/documents"

// View is a read-only projection of a State for the current step. Exactly one
// of the step payloads is set.
type View struct {
	SessionID   uuid.UUID         `json:"sessionId"`
	ClientID    int               `json:"clientId,omitempty"`
	StepIndex   int               `json:"stepIndex"`
	StepCount   int               `json:"stepCount"`
	Step        catalog.Step      `json:"step"`
	Indicator   []IndicatorItem   `json:"indicator"`
	CanRetreat  bool              `json:"canRetreat"`
	CanAdvance  bool              `json:"canAdvance"`
	CanComplete bool              `json:"canComplete"`
	Errors      map[string]string `json:"errors"`

	VisaPicker        *VisaPicker        `json:"visaPicker,omitempty"`
	ApplicantForm     *ApplicantForm     `json:"applicantForm,omitempty"`
	DocumentChecklist *DocumentChecklist `json:"documentChecklist,omitempty"`
	Review            *Review            `json:"review,omitempty"`
}

type IndicatorItem struct {
	catalog.Step
	Reached  bool `json:"reached"`
	Current  bool `json:"current"`
	Complete bool `json:"complete"`
}

type VisaPicker struct {
	Options []VisaOption `json:"options"`
}

type VisaOption struct {
	Code           string           `json:"code"`
	Name           string           `json:"name"`
	Category       catalog.Category `json:"category"`
	Description    string           `json:"description"`
	Highlights     []string         `json:"highlights"`
	ProcessingTime string           `json:"processingTime"`
	Selected       bool             `json:"selected"`
}

type ApplicantForm struct {
	VisaSubclass string      `json:"visaSubclass"`
	Fields       []FormField `json:"fields"`
}

type FormField struct {
	catalog.Field
	Value    string `json:"value"`
	Error    string `json:"error,omitempty"`
	Required bool   `json:"required"`
}

type DocumentChecklist struct {
	Items      []DocumentItem `json:"items"`
	UploadPath string         `json:"uploadPath"`
}

type Review struct {
	VisaName       string           `json:"visaName"`
	VisaSubclass   string           `json:"visaSubclass"`
	Category       catalog.Category `json:"category"`
	ProcessingTime string           `json:"processingTime"`
	DocumentCount  int              `json:"documentCount"`
	ApplicantName  string           `json:"applicantName"`
	Declaration    string           `json:"declaration"`
}

const highlightCount = 2

// Render projects s onto the view for its current step.
func Render(c *catalog.Catalog, s *State) View {
	step, _ := c.Step(s.StepIndex)
	last := c.StepCount() - 1

	v := View{
		SessionID:   s.ID,
		ClientID:    s.ClientID,
		StepIndex:   s.StepIndex,
		StepCount:   c.StepCount(),
		Step:        step,
		CanRetreat:  s.StepIndex > 0,
		CanAdvance:  s.StepIndex < last,
		CanComplete: s.StepIndex == last,
		Errors:      maps.Clone(s.Errors),
	}
	if v.Errors == nil {
		v.Errors = map[string]string{}
	}

	for i, st := range c.Steps() {
		v.Indicator = append(v.Indicator, IndicatorItem{
			Step:     st,
			Reached:  i <= s.StepIndex,
			Current:  i == s.StepIndex,
			Complete: i < s.StepIndex,
		})
	}

	switch step.ID {
	case catalog.StepVisaType:
		v.CanAdvance = v.CanAdvance && s.SelectedVisa != ""
		v.VisaPicker = renderPicker(c, s)
	case catalog.StepApplicantDetails:
		v.ApplicantForm = renderForm(c, s)
	case catalog.StepDocuments:
		v.DocumentChecklist = &DocumentChecklist{
			Items:      append([]DocumentItem(nil), s.Documents...),
			UploadPath: DocumentUploadPath,
		}
	case catalog.StepReview:
		v.Review = renderReview(c, s)
	}
	return v
}

func renderPicker(c *catalog.Catalog, s *State) *VisaPicker {
	visas := c.Visas()
	p := &VisaPicker{Options: make([]VisaOption, 0, len(visas))}
	for _, visa := range visas {
		highlights := visa.Requirements
		if len(highlights) > highlightCount {
			highlights = highlights[:highlightCount]
		}
		p.Options = append(p.Options, VisaOption{
			Code:           visa.Code,
			Name:           visa.Name,
			Category:       visa.Category,
			Description:    visa.Description,
			Highlights:     highlights,
			ProcessingTime: visa.ProcessingTime,
			Selected:       visa.Code == s.SelectedVisa,
		})
	}
	return p
}

func renderForm(c *catalog.Catalog, s *State) *ApplicantForm {
	fields := c.Fields(s.SelectedVisa)
	form := &ApplicantForm{VisaSubclass: s.SelectedVisa, Fields: make([]FormField, 0, len(fields))}
	for _, f := range fields {
		form.Fields = append(form.Fields, FormField{
			Field:    f,
			Value:    s.ApplicantDetails[f.Name],
			Error:    s.Errors[f.Name],
			Required: true,
		})
	}
	return form
}

func renderReview(c *catalog.Catalog, s *State) *Review {
	visa, _ := c.Visa(s.SelectedVisa)
	return &Review{
		VisaName:       visa.Name,
		VisaSubclass:   visa.Code,
		Category:       visa.Category,
		ProcessingTime: visa.ProcessingTime,
		DocumentCount:  len(s.Documents),
		ApplicantName:  joinName(s.ApplicantDetails["givenNames"], s.ApplicantDetails["familyName"]),
		Declaration:    DeclarationNotice,
	}
}
