package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"visadesk/internal/catalog"
)

func TestRenderVisaStep(t *testing.T) {
	c := catalog.Default()
	s := NewState(c, 4, fixedNow)

	v := Render(c, s)
	assert.Equal(t, s.ID, v.SessionID)
	assert.Equal(t, 4, v.ClientID)
	assert.Equal(t, catalog.StepVisaType, v.Step.ID)
	assert.Equal(t, 4, v.StepCount)
	assert.False(t, v.CanRetreat)
	assert.False(t, v.CanAdvance)
	assert.False(t, v.CanComplete)
	require.NotNil(t, v.VisaPicker)
	assert.Nil(t, v.ApplicantForm)
	assert.Len(t, v.VisaPicker.Options, 5)
	assert.Equal(t, []string{"Skills assessment", "English test"}, v.VisaPicker.Options[0].Highlights)

	require.NoError(t, NewMachine(c).SelectVisa(s, "500"))
	v = Render(c, s)
	assert.True(t, v.CanAdvance)
	for _, o := range v.VisaPicker.Options {
		assert.Equal(t, o.Code == "500", o.Selected)
	}

	require.Len(t, v.Indicator, 4)
	assert.True(t, v.Indicator[0].Current)
	assert.False(t, v.Indicator[1].Reached)
}

func TestRenderApplicantForm(t *testing.T) {
	c := catalog.Default()
	m := NewMachine(c)
	s := NewState(c, 0, fixedNow)
	require.NoError(t, m.SelectVisa(s, "482"))
	require.NoError(t, m.Advance(s))
	require.NoError(t, m.SetField(s, "givenNames", "Priya"))
	_ = m.Advance(s)

	v := Render(c, s)
	require.NotNil(t, v.ApplicantForm)
	assert.Equal(t, "482", v.ApplicantForm.VisaSubclass)
	require.Len(t, v.ApplicantForm.Fields, 15)
	assert.Equal(t, "Priya", v.ApplicantForm.Fields[0].Value)
	assert.Empty(t, v.ApplicantForm.Fields[0].Error)
	assert.Equal(t, "This field is required for subclass 482", v.ApplicantForm.Fields[1].Error)
	assert.Len(t, v.Errors, 14)
	assert.True(t, v.Indicator[0].Complete)
	assert.True(t, v.CanRetreat)
}

func TestRenderDocumentsAndReview(t *testing.T) {
	c := catalog.Default()
	m := NewMachine(c)
	s := NewState(c, 0, fixedNow)
	require.NoError(t, m.SelectVisa(s, "820/801"))
	require.NoError(t, m.Advance(s))
	require.NoError(t, m.SetFields(s, baseDetails()))
	require.NoError(t, m.Advance(s))

	v := Render(c, s)
	require.NotNil(t, v.DocumentChecklist)
	assert.Len(t, v.DocumentChecklist.Items, 6)
	assert.Equal(t, DocumentUploadPath, v.DocumentChecklist.UploadPath)

	require.NoError(t, m.Advance(s))
	v = Render(c, s)
	require.NotNil(t, v.Review)
	assert.Equal(t, "Partner visa", v.Review.VisaName)
	assert.Equal(t, "12-24 months", v.Review.ProcessingTime)
	assert.Equal(t, 6, v.Review.DocumentCount)
	assert.Equal(t, "Priya Raman", v.Review.ApplicantName)
	assert.Equal(t, DeclarationNotice, v.Review.Declaration)
	assert.True(t, v.CanComplete)
	assert.False(t, v.CanAdvance)
}

func TestRenderDoesNotAliasState(t *testing.T) {
	c := catalog.Default()
	s := NewState(c, 0, fixedNow)
	s.Errors["x"] = "y"
	v := Render(c, s)
	v.Errors["x"] = "changed"
	assert.Equal(t, "y", s.Errors["x"])
}
