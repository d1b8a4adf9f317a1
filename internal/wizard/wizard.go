package wizard

import (
	"fmt"
	"maps"
	"sort"
	"time"

	"visadesk/internal/catalog"
	dErrors "visadesk/pkg/domain-errors"
)

// Machine applies wizard transitions to a State. It holds no per-session
// data and is safe for concurrent use; callers serialize access to each State.
type Machine struct {
	catalog *catalog.Catalog
}

func NewMachine(c *catalog.Catalog) *Machine {
	return &Machine{catalog: c}
}

func (m *Machine) Catalog() *catalog.Catalog {
	return m.catalog
}

// Start returns a fresh state for clientID (0 when not yet linked).
func (m *Machine) Start(clientID int, now time.Time) *State {
	return NewState(m.catalog, clientID, now)
}

// SelectVisa chooses the subclass. Valid on the visa step only. Any selection,
// including the current one, discards entered applicant details and errors
// because required field sets differ per subclass.
func (m *Machine) SelectVisa(s *State, code string) error {
	if err := m.requireStep(s, catalog.StepVisaType, "select a visa"); err != nil {
		return err
	}
	if _, ok := m.catalog.Visa(code); !ok {
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("unknown visa subclass %q", code))
	}
	s.SelectedVisa = code
	clear(s.ApplicantDetails)
	clear(s.Errors)
	return nil
}

// SetField upserts one applicant detail and clears only that field's error.
func (m *Machine) SetField(s *State, name, value string) error {
	return m.SetFields(s, map[string]string{name: value})
}

// SetFields applies a batch of applicant details atomically: if any name is
// not part of the selected subclass's form nothing is written.
func (m *Machine) SetFields(s *State, values map[string]string) error {
	if err := m.requireStep(s, catalog.StepApplicantDetails, "edit applicant details"); err != nil {
		return err
	}
	allowed := make(map[string]bool)
	for _, f := range m.catalog.Fields(s.SelectedVisa) {
		allowed[f.Name] = true
	}
	var unknown []string
	for name := range values {
		if !allowed[name] {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("unknown field %q for subclass %s", unknown[0], s.SelectedVisa))
	}
	for name, value := range values {
		s.ApplicantDetails[name] = value
		delete(s.Errors, name)
	}
	return nil
}

// Advance moves to the next step when the current step's gate passes. On
// refusal the step is unchanged, Errors holds the gate's field errors and a
// CodeValidation error is returned.
func (m *Machine) Advance(s *State) error {
	if s.StepIndex >= m.catalog.StepCount()-1 {
		return dErrors.New(dErrors.CodeInvalidState, "already at the final step")
	}
	errs := ValidateStep(m.catalog, s)
	if len(errs) > 0 {
		s.Errors = errs
		return dErrors.New(dErrors.CodeValidation, "step has validation errors")
	}
	s.StepIndex++
	clear(s.Errors)
	return nil
}

// Retreat moves back one step without validation. It never touches details
// or errors.
func (m *Machine) Retreat(s *State) error {
	if s.StepIndex <= 0 {
		return dErrors.New(dErrors.CodeInvalidState, "already at the first step")
	}
	s.StepIndex--
	return nil
}

// Complete builds the submission. Valid on the last step only. Every gate is
// re-checked so a state restored from an outdated draft cannot slip through.
func (m *Machine) Complete(s *State) (*Submission, error) {
	if s.StepIndex != m.catalog.StepCount()-1 {
		return nil, dErrors.New(dErrors.CodeInvalidState, "complete is only available on the final step")
	}
	for _, step := range m.catalog.Steps() {
		if errs := validateStepID(m.catalog, s, step.ID); len(errs) > 0 {
			s.Errors = errs
			return nil, dErrors.New(dErrors.CodeValidation, fmt.Sprintf("%s has validation errors", step.Title))
		}
	}
	visa, _ := m.catalog.Visa(s.SelectedVisa)
	return &Submission{
		ClientID:         s.ClientID,
		VisaSubclass:     visa.Code,
		VisaType:         visa.Name,
		ApplicantDetails: maps.Clone(s.ApplicantDetails),
		Documents:        append([]DocumentItem(nil), s.Documents...),
	}, nil
}

// Cancel discards everything entered so far. Valid from any step.
func (m *Machine) Cancel(s *State) {
	s.reset(m.catalog)
}

func (m *Machine) requireStep(s *State, id catalog.StepID, action string) error {
	step, ok := m.catalog.Step(s.StepIndex)
	if !ok || step.ID != id {
		want, _ := m.catalog.Step(m.catalog.StepIndex(id))
		return dErrors.New(dErrors.CodeInvalidState, fmt.Sprintf("can only %s on the %s step", action, want.Title))
	}
	return nil
}
