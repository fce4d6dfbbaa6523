package classify

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const engagementLetterText = `ENGAGEMENT LETTER

Dear Franco,

This Engagement Letter, dated 21 January 2026, confirms the services requested
by Franco Rossi (Client) and provided by ACME CONSULTING FZ-LLC (Service
Provider). Franco Rossi is engaged as an independent contractor. The fees
charged by the Service Provider shall be USD 3,000.00 per month, starting
from 2026-02-01.`

const invoiceText = `FATTURA N° 2024-001
Data: 15/03/2024
Importo imponibile: € 1.000,00
IVA 22%: € 220,00
Totale: € 1.220,00
Pagamento: bonifico bancario`

const idCardText = `CARTA D'IDENTITÀ
Nome: MARIO
Cognome: ROSSI
Data di nascita: 01/01/1990
P<ITAROSSI<<MARIO<<<<<<<<<<<<<<<<<<<<<<<<<<<`

func Test_Classify_EngagementLetter(t *testing.T) {
	c := New()

	res := c.Classify(engagementLetterText)

	assert.Equal(t, FamilyContract, res.Family)
	assert.Equal(t, SubtypeEngagementLetter, res.Subtype)
	assert.Equal(t, SourceLayout, res.Source)
	assert.GreaterOrEqual(t, res.Confidence, 0.6)
	assert.Greater(t, res.CoOccurrenceBoost, 0.0)
	assert.NotEmpty(t, res.Signals)
}

func Test_Classify_Invoice(t *testing.T) {
	c := New()

	res := c.Classify(invoiceText)

	assert.Equal(t, FamilyFinancial, res.Family)
	assert.Equal(t, SubtypeInvoice, res.Subtype)
	assert.Equal(t, SourceLayout, res.Source)
	assert.Greater(t, res.Confidence, 0.5)
}

func Test_Classify_IdentityWithMRZ(t *testing.T) {
	c := New()

	res := c.Classify(idCardText)

	assert.Equal(t, FamilyIdentity, res.Family)
	assert.Equal(t, SubtypeIDCard, res.Subtype)
	assert.Equal(t, SourceLayout, res.Source)
	assert.Greater(t, res.StructuralMatches, 0)
}

func Test_Classify_ShortTextIsUnknown(t *testing.T) {
	c := New()

	for _, text := range []string{"", "   ", "abc", "\n\n\t  x"} {
		res := c.Classify(text)

		assert.Equal(t, FamilyUnknown, res.Family)
		assert.Equal(t, SubtypeUnknown, res.Subtype)
		assert.Equal(t, SourceNone, res.Source)
		assert.Zero(t, res.Confidence)
	}
}

func Test_Classify_UnrecognizableTextIsUnknown(t *testing.T) {
	c := New()

	res := c.Classify("zzzz wwww qqqq xxxx yyyy rrrr tttt ssss")

	assert.Equal(t, FamilyUnknown, res.Family)
	assert.Zero(t, res.Confidence)
}

func Test_Classify_ConfidenceNeverExceedsCap(t *testing.T) {
	c := New()

	// Stuff every contract signal into one document; the cap must hold.
	stuffed := strings.Repeat(engagementLetterText+"\nstatement of work (sow) client: A contractor: B effective date agreement signed\n", 10)

	res := c.Classify(stuffed)

	assert.LessOrEqual(t, res.Confidence, MaxConfidence)
	assert.GreaterOrEqual(t, res.Confidence, 0.0)
}

func Test_Classify_CoOccurrenceBoostIsMonotonic(t *testing.T) {
	c := New()

	// Without the full companion keyword set the bundle must not fire.
	partial := `ENGAGEMENT LETTER

Dear Franco, this Engagement Letter confirms the services requested by the
Client and performed for the Service Provider relationship described above.`
	full := partial + "\nThe fees charged by the Service Provider are listed in Annex A."

	weak := c.Classify(partial)
	strong := c.Classify(full)

	assert.Zero(t, weak.CoOccurrenceBoost)
	assert.Greater(t, strong.CoOccurrenceBoost, 0.0)
	assert.GreaterOrEqual(t, strong.Confidence, weak.Confidence)
}

func Test_Classify_Deterministic(t *testing.T) {
	c := New()

	first := c.Classify(engagementLetterText)
	for range 50 {
		require.Equal(t, first, c.Classify(engagementLetterText))
	}
}
