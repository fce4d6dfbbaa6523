package claim

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"certifi/internal/classify"
	"certifi/internal/role"
)

const engagementLetterText = `ENGAGEMENT LETTER

Dear Franco,

This letter certifies that consulting services are provided by EXAMPLE COMPANY ("Service Provider") and requested by Franco (Client).

The Service Provider is engaged as an independent contractor.
Description of Services: software architecture consulting and systems integration
Effective Date: 2025-01-15
Compensation: USD 3,000.00 per month payable in advance
`

func Test_Extract_EngagementLetter(t *testing.T) {
	ex := NewExtractor(nil, nil)
	c := ex.Extract(engagementLetterText, role.Contractor, classify.FamilyContract)

	assert.Equal(t, "EXAMPLE COMPANY", c.Subject)
	assert.Equal(t, "Franco", c.Entity)
	require.NotNil(t, c.StartDate)
	assert.Equal(t, "2025-01-15", c.StartDate.Format("2006-01-02"))
	assert.Nil(t, c.EndDate)
	require.NotNil(t, c.Amount)
	assert.Equal(t, 3000.0, *c.Amount)
	assert.Equal(t, "USD", c.Currency)
	assert.Contains(t, c.Services, "software architecture consulting")
	assert.Equal(t, role.EvidenceHard, c.Evidence)
	assert.Equal(t, 0.85, c.Confidence)
	assert.Equal(t, MethodPattern, c.Method)
}

func Test_Extract_Statement(t *testing.T) {
	ex := NewExtractor(nil, nil)
	c := ex.Extract(engagementLetterText, role.Contractor, classify.FamilyContract)

	assert.Equal(t,
		"EXAMPLE COMPANY is a contractor for Franco from 2025-01-15 (ongoing) (USD 3000.00)",
		c.Statement())
}

func Test_Extract_EmptyText(t *testing.T) {
	ex := NewExtractor(nil, nil)
	c := ex.Extract("   ", role.Unknown, classify.FamilyUnknown)

	assert.Empty(t, c.Subject)
	assert.Empty(t, c.Entity)
	assert.Nil(t, c.StartDate)
	assert.Nil(t, c.Amount)
	assert.Equal(t, role.EvidenceNone, c.Evidence)
	assert.Equal(t, 0.30, c.Confidence)
}

func Test_Extract_StatementWithoutFields(t *testing.T) {
	c := Claim{Role: role.Unknown}
	assert.Equal(t, "[Subject] is a unknown", c.Statement())
}

type stubRecognizer struct {
	entities []Entity
	err      error
	panics   bool
}

func (s stubRecognizer) Recognize(string) ([]Entity, error) {
	if s.panics {
		panic("model not loaded")
	}
	return s.entities, s.err
}

func Test_Extract_RecognizerFillsEmptyFields(t *testing.T) {
	ex := NewExtractor(stubRecognizer{entities: []Entity{
		{Text: "Acme Corp", Label: LabelOrganization},
		{Text: "Jane Smith", Label: LabelPerson},
		{Text: "2025-03-01", Label: LabelDate},
	}}, nil)

	c := ex.Extract("plain prose with no recognizable structure at all", role.Contractor, classify.FamilyContract)

	assert.Equal(t, "Acme Corp", c.Subject)
	assert.Equal(t, "Jane Smith", c.Entity)
	require.NotNil(t, c.StartDate)
	assert.Equal(t, "2025-03-01", c.StartDate.Format("2006-01-02"))
	assert.Equal(t, MethodNER, c.Method)
	assert.Equal(t, 0.85, c.Confidence)
}

func Test_Extract_RecognizerNeverOverwritesPatternFields(t *testing.T) {
	ex := NewExtractor(stubRecognizer{entities: []Entity{
		{Text: "Other Org", Label: LabelOrganization},
		{Text: "Someone Else", Label: LabelPerson},
	}}, nil)

	c := ex.Extract(engagementLetterText, role.Contractor, classify.FamilyContract)

	assert.Equal(t, "EXAMPLE COMPANY", c.Subject)
	assert.Equal(t, "Franco", c.Entity)
	assert.Equal(t, MethodPattern, c.Method)
}

func Test_Extract_RecognizerFailureDegradesToPatterns(t *testing.T) {
	partial := `Consulting services are provided by EXAMPLE COMPANY ("Service Provider").`

	for name, rec := range map[string]EntityRecognizer{
		"error": stubRecognizer{err: errors.New("model unavailable")},
		"panic": stubRecognizer{panics: true},
	} {
		t.Run(name, func(t *testing.T) {
			ex := NewExtractor(rec, nil)
			c := ex.Extract(partial, role.Contractor, classify.FamilyContract)

			assert.Equal(t, "EXAMPLE COMPANY", c.Subject)
			assert.Empty(t, c.Entity)
			assert.Equal(t, MethodPattern, c.Method)
			assert.Equal(t, role.EvidenceSoft, c.Evidence)
		})
	}
}
