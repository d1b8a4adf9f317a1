package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"visadesk/internal/catalog"
)

func TestValidate(t *testing.T) {
	c := catalog.Default()

	t.Run("valid sponsored details pass", func(t *testing.T) {
		assert.Empty(t, Validate(c, validSponsoredDetails(), "482"))
	})

	t.Run("whitespace only counts as missing", func(t *testing.T) {
		d := baseDetails()
		d["familyName"] = " \t "
		errs := Validate(c, d, "190")
		assert.Equal(t, map[string]string{"familyName": "This field is required for subclass 190"}, errs)
	})

	t.Run("required wins over format", func(t *testing.T) {
		d := baseDetails()
		d["email"] = ""
		errs := Validate(c, d, "189")
		assert.Equal(t, "This field is required for subclass 189", errs["email"])
	})

	t.Run("extension fields are ignored for other subclasses", func(t *testing.T) {
		d := baseDetails()
		d["employerABN"] = "bad"
		assert.Empty(t, Validate(c, d, "189"))
	})
}

func TestEmailFormat(t *testing.T) {
	c := catalog.Default()
	cases := map[string]bool{
		"priya@example.com":      true,
		"a@b.c":                  true,
		" padded@example.com  ":  true,
		"no-at-sign.example.com": false,
		"missing@dot":            false,
		"two words@example.com":  false,
		"@example.com":           false,
	}
	for email, ok := range cases {
		t.Run(email, func(t *testing.T) {
			d := baseDetails()
			d["email"] = email
			errs := Validate(c, d, "189")
			if ok {
				assert.NotContains(t, errs, "email")
			} else {
				assert.Equal(t, "Please enter a valid email address.", errs["email"])
			}
		})
	}
}

func TestABNFormat(t *testing.T) {
	cases := map[string]bool{
		"51824753556":    true,
		"51 824 753 556": true,
		"5182475355 6":   true,
		"123":            false,
		"518247535567":   false,
		"5182475355A":    false,
		"51-824-753-556": false,
	}
	for abn, ok := range cases {
		t.Run(abn, func(t *testing.T) {
			assert.Equal(t, ok, isABN(abn))
		})
	}
}

func TestValidateStep(t *testing.T) {
	c := catalog.Default()
	s := NewState(c, 0, fixedNow)

	assert.Equal(t, map[string]string{FieldVisaSubclass: "Please select a visa type"}, ValidateStep(c, s))

	s.SelectedVisa = "189"
	assert.Empty(t, ValidateStep(c, s))

	s.StepIndex = 1
	assert.Len(t, ValidateStep(c, s), 8)

	s.StepIndex = 2
	assert.Empty(t, ValidateStep(c, s))
}
