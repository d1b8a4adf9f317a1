// Package catalog holds the static reference data the wizard runs on: steps,
// visa subclasses, applicant fields, the document checklist and the practice
// compliance profile. It is loaded once from YAML and read-only afterwards.
package catalog

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	dErrors "visadesk/pkg/domain-errors"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// Catalog is safe for concurrent reads.
type Catalog struct {
	steps      []Step
	visas      []VisaType
	visaIndex  map[string]int
	baseFields []string
	fields     map[string]Field
	fieldOrder []string
	documents  []DocumentRequirement
	compliance ComplianceProfile
}

type document struct {
	Steps      []Step                `yaml:"steps"`
	Visas      []VisaType            `yaml:"visas"`
	BaseFields []string              `yaml:"baseFields"`
	Fields     []Field               `yaml:"fields"`
	Documents  []DocumentRequirement `yaml:"documents"`
	Compliance ComplianceProfile     `yaml:"compliance"`
}

// Default returns the embedded catalog. It panics only if the embedded file
// is malformed, which the package tests rule out.
func Default() *Catalog {
	c, err := Load(bytes.NewReader(defaultCatalog))
	if err != nil {
		panic(fmt.Sprintf("embedded catalog: %v", err))
	}
	return c
}

// LoadFile reads a catalog from path.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Load decodes and validates a YAML catalog.
func Load(r io.Reader) (*Catalog, error) {
	var doc document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInvalidInput, "decode catalog")
	}

	c := &Catalog{
		steps:      doc.Steps,
		visas:      doc.Visas,
		visaIndex:  make(map[string]int, len(doc.Visas)),
		baseFields: doc.BaseFields,
		fields:     make(map[string]Field, len(doc.Fields)),
		documents:  doc.Documents,
		compliance: doc.Compliance,
	}
	for i, v := range doc.Visas {
		if _, dup := c.visaIndex[v.Code]; dup {
			return nil, dErrors.New(dErrors.CodeInvalidInput, fmt.Sprintf("duplicate visa code %q", v.Code))
		}
		c.visaIndex[v.Code] = i
	}
	for _, f := range doc.Fields {
		if _, dup := c.fields[f.Name]; dup {
			return nil, dErrors.New(dErrors.CodeInvalidInput, fmt.Sprintf("duplicate field %q", f.Name))
		}
		c.fields[f.Name] = f
		c.fieldOrder = append(c.fieldOrder, f.Name)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks catalog integrity.
func (c *Catalog) Validate() error {
	if len(c.steps) == 0 {
		return invalid("catalog defines no steps")
	}
	position := make(map[StepID]int, len(c.steps))
	for i, s := range c.steps {
		if !s.ID.IsValid() {
			return invalid(fmt.Sprintf("unknown step id %q", s.ID))
		}
		if _, dup := position[s.ID]; dup {
			return invalid(fmt.Sprintf("duplicate step id %q", s.ID))
		}
		position[s.ID] = i
	}
	for _, id := range StepIDs() {
		if _, ok := position[id]; !ok {
			return invalid(fmt.Sprintf("missing step %q", id))
		}
	}
	// Selecting a visa resets applicant details.
	if position[StepVisaType] > position[StepApplicantDetails] {
		return invalid("the visa step must come before the applicant details step")
	}
	if c.steps[len(c.steps)-1].ID != StepReview {
		return invalid("the last step must be the review step")
	}

	if len(c.visas) == 0 {
		return invalid("catalog defines no visas")
	}
	for _, v := range c.visas {
		if v.Code == "" || v.Name == "" {
			return invalid("visa code and name are required")
		}
		if !v.Category.IsValid() {
			return invalid(fmt.Sprintf("visa %s has unknown category %q", v.Code, v.Category))
		}
		for _, name := range v.RequiredFields {
			if _, ok := c.fields[name]; !ok {
				return invalid(fmt.Sprintf("visa %s requires unknown field %q", v.Code, name))
			}
		}
	}

	for _, name := range c.baseFields {
		if _, ok := c.fields[name]; !ok {
			return invalid(fmt.Sprintf("unknown base field %q", name))
		}
	}
	for _, f := range c.fields {
		if !f.InputType.IsValid() {
			return invalid(fmt.Sprintf("field %s has unknown input type %q", f.Name, f.InputType))
		}
		switch f.Format {
		case FormatNone, FormatEmail, FormatABN:
		default:
			return invalid(fmt.Sprintf("field %s has unknown format %q", f.Name, f.Format))
		}
	}
	return nil
}

func invalid(msg string) error {
	return dErrors.New(dErrors.CodeInvalidInput, msg)
}

// Steps returns the wizard steps in order.
func (c *Catalog) Steps() []Step {
	return append([]Step(nil), c.steps...)
}

func (c *Catalog) StepCount() int {
	return len(c.steps)
}

// Step returns the step at index i.
func (c *Catalog) Step(i int) (Step, bool) {
	if i < 0 || i >= len(c.steps) {
		return Step{}, false
	}
	return c.steps[i], true
}

// StepIndex returns the index of the step with id, or -1.
func (c *Catalog) StepIndex(id StepID) int {
	for i, s := range c.steps {
		if s.ID == id {
			return i
		}
	}
	return -1
}

// Visas returns every visa subclass in catalog order.
func (c *Catalog) Visas() []VisaType {
	out := make([]VisaType, len(c.visas))
	for i, v := range c.visas {
		out[i] = v.clone()
	}
	return out
}

// Visa looks a subclass up by code.
func (c *Catalog) Visa(code string) (VisaType, bool) {
	i, ok := c.visaIndex[code]
	if !ok {
		return VisaType{}, false
	}
	return c.visas[i].clone(), true
}

// Field returns the definition of a single applicant field.
func (c *Catalog) Field(name string) (Field, bool) {
	f, ok := c.fields[name]
	return f, ok
}

// BaseFields returns the fields required for every subclass.
func (c *Catalog) BaseFields() []Field {
	return c.lookup(c.baseFields)
}

// Fields returns the base fields followed by the extension fields of the
// subclass with code. An unknown code yields only the base fields.
func (c *Catalog) Fields(code string) []Field {
	names := append([]string(nil), c.baseFields...)
	if v, ok := c.Visa(code); ok {
		names = append(names, v.RequiredFields...)
	}
	return c.lookup(names)
}

// AllFields returns every field the catalog knows in declaration order.
func (c *Catalog) AllFields() []Field {
	return c.lookup(c.fieldOrder)
}

func (c *Catalog) lookup(names []string) []Field {
	out := make([]Field, 0, len(names))
	for _, name := range names {
		out = append(out, c.fields[name])
	}
	return out
}

// Documents returns the document checklist seeded into each wizard.
func (c *Catalog) Documents() []DocumentRequirement {
	return append([]DocumentRequirement(nil), c.documents...)
}

// Compliance returns the practice compliance profile.
func (c *Catalog) Compliance() ComplianceProfile {
	p := c.compliance
	p.RecentActivities = append([]ComplianceEvent(nil), c.compliance.RecentActivities...)
	return p
}

func (v VisaType) clone() VisaType {
	v.Requirements = append([]string(nil), v.Requirements...)
	v.RequiredFields = append([]string(nil), v.RequiredFields...)
	return v
}
