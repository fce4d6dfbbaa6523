package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"certifi/internal/classify"
)

func Test_Resolve_Totality(t *testing.T) {
	families := []classify.Family{
		classify.FamilyIdentity,
		classify.FamilyDrivingLicense,
		classify.FamilyContract,
		classify.FamilyCertificate,
		classify.FamilyFinancial,
		classify.FamilyCorporate,
		classify.FamilyUnknown,
		classify.Family("garbage"),
	}
	confidences := []float64{0.0, 0.3, 0.5, 0.85, 0.98}

	for _, f := range families {
		for _, c := range confidences {
			for _, claimBased := range []bool{false, true} {
				p := Resolve(f, c, claimBased)
				assert.NotEmpty(t, p.ID, "family %s conf %v", f, c)
			}
		}
	}
}

func Test_Resolve_ContractIsHashOnlyStructurally(t *testing.T) {
	p := Resolve(classify.FamilyContract, 0.6, false)

	assert.Equal(t, HashOnly, p.ID)
	assert.True(t, p.Certifiable)
	assert.False(t, p.RequiresExtraction)
	assert.Empty(t, p.RequiredFields)
}

func Test_Resolve_SemanticFamiliesSwitchToClaimBased(t *testing.T) {
	for _, f := range []classify.Family{
		classify.FamilyContract,
		classify.FamilyCertificate,
		classify.FamilyFinancial,
		classify.FamilyCorporate,
	} {
		p := Resolve(f, 0.1, true)

		assert.Equal(t, ClaimBased, p.ID, "family %s", f)
		assert.True(t, p.Certifiable)
		assert.InDelta(t, 0.70, p.MinConfidence, 1e-9)
	}
}

func Test_Resolve_StructuredFamiliesIgnoreClaimBasedFlag(t *testing.T) {
	p := Resolve(classify.FamilyIdentity, 0.9, true)

	assert.Equal(t, IdentityMinimal, p.ID)
	assert.True(t, p.RequiresExtraction)
	assert.Equal(t, []string{"first_name", "last_name", "date_of_birth"}, p.RequiredFields)
}

func Test_Resolve_UnknownIsNonCertifiable(t *testing.T) {
	p := Resolve(classify.FamilyUnknown, 0.99, false)

	assert.Equal(t, NonCertifiable, p.ID)
	assert.False(t, p.Certifiable)
	assert.Zero(t, p.MinConfidence)
}

func Test_TrustsSource(t *testing.T) {
	identity := Resolve(classify.FamilyIdentity, 0.9, false)

	assert.True(t, identity.TrustsSource("mrz"))
	assert.True(t, identity.TrustsSource("layout_rules"))
	assert.False(t, identity.TrustsSource("ocr"))

	open := Resolve(classify.FamilyContract, 0.9, true)
	assert.True(t, open.TrustsSource("anything"))
}
