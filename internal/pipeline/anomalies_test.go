package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"certifi/internal/claim"
	"certifi/internal/role"
)

func Test_ClaimAnomalies_RoleMismatch(t *testing.T) {
	rec := CertificationRecord{
		Role:  role.Inference{Role: role.Employee, Confidence: 0.8, Evidence: role.EvidenceHard},
		Claim: claim.Claim{Subject: "John Smith", Role: role.Contractor},
	}

	got := claimAnomalies(rec)

	assert.Contains(t, got, "role mismatch: inferred=employee, claim=contractor")
}

func Test_ClaimAnomalies_AgreeingRolesAreClean(t *testing.T) {
	rec := CertificationRecord{
		Role:  role.Inference{Role: role.Contractor, Confidence: 0.9, Evidence: role.EvidenceHard},
		Claim: claim.Claim{Subject: "John Smith", Role: role.Contractor},
	}

	assert.Empty(t, claimAnomalies(rec))
}

func Test_ClaimAnomalies_UnknownRoleSkipsMismatch(t *testing.T) {
	rec := CertificationRecord{
		Role:  role.Unresolved(),
		Claim: claim.Claim{Subject: "John Smith", Role: role.Contractor},
	}
	assert.Empty(t, claimAnomalies(rec))

	rec = CertificationRecord{
		Role:  role.Inference{Role: role.Employee, Evidence: role.EvidenceSoft},
		Claim: claim.Claim{Subject: "John Smith"},
	}
	assert.Empty(t, claimAnomalies(rec))
}
