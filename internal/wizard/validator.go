package wizard

import (
	"fmt"
	"strings"

	"github.com/asaskevich/govalidator"

	"visadesk/internal/catalog"
)

// FieldVisaSubclass is the error key used by the visa selection gate.
const FieldVisaSubclass = "visaSubclass"

const (
	msgSelectVisa   = "Please select a visa type"
	msgInvalidEmail = "Please enter a valid email address."
	msgInvalidABN   = "ABN must be 11 digits."
)

// emailPattern matches something@something.something.
const emailPattern = `^\S+@\S+\.\S+$`

// Validate checks applicant details against the subclass's field set: the
// base fields for every subclass plus its catalog extensions. It returns a
// field -> message map, empty when the details pass.
func Validate(c *catalog.Catalog, details map[string]string, visaCode string) map[string]string {
	errs := map[string]string{}
	for _, f := range c.Fields(visaCode) {
		value := strings.TrimSpace(details[f.Name])
		if value == "" {
			errs[f.Name] = requiredMessage(visaCode)
			continue
		}
		if msg, ok := checkFormat(f.Format, value); !ok {
			errs[f.Name] = msg
		}
	}
	return errs
}

// ValidateStep runs the gate of the step the state is on.
func ValidateStep(c *catalog.Catalog, s *State) map[string]string {
	step, ok := c.Step(s.StepIndex)
	if !ok {
		return map[string]string{}
	}
	return validateStepID(c, s, step.ID)
}

func validateStepID(c *catalog.Catalog, s *State, id catalog.StepID) map[string]string {
	switch id {
	case catalog.StepVisaType:
		if _, ok := c.Visa(s.SelectedVisa); !ok {
			return map[string]string{FieldVisaSubclass: msgSelectVisa}
		}
	case catalog.StepApplicantDetails:
		return Validate(c, s.ApplicantDetails, s.SelectedVisa)
	}
	return map[string]string{}
}

func requiredMessage(code string) string {
	return fmt.Sprintf("This field is required for subclass %s", code)
}

func checkFormat(format catalog.FieldFormat, value string) (string, bool) {
	switch format {
	case catalog.FormatEmail:
		if !govalidator.Matches(value, emailPattern) {
			return msgInvalidEmail, false
		}
	case catalog.FormatABN:
		if !isABN(value) {
			return msgInvalidABN, false
		}
	}
	return "", true
}

// isABN accepts exactly 11 decimal digits once whitespace is removed.
func isABN(value string) bool {
	digits := strings.Join(strings.Fields(value), "")
	return govalidator.IsNumeric(digits) && govalidator.StringLength(digits, "11", "11")
}
