// Package policy maps a document family to its certification policy.
// The gateway certifies policies, not documents: a policy names what must
// be extracted, which evidence sources are trusted, and the confidence
// floor the final decision must clear.
package policy

import "certifi/internal/classify"

// ID identifies a certification policy.
type ID string

const (
	HashOnly              ID = "hash_only"
	IdentityMinimal       ID = "identity_minimal"
	DrivingLicenseMinimal ID = "driving_license_minimal"
	FinancialMinimal      ID = "financial_minimal"
	CertificateMinimal    ID = "certificate_minimal"
	CorporateMinimal      ID = "corporate_minimal"
	ClaimBased            ID = "claim_based"
	NonCertifiable        ID = "unknown"
)

// Policy describes how a document family is certified.
type Policy struct {
	ID                 ID
	Certifiable        bool
	RequiresExtraction bool
	MinConfidence      float64
	TrustedSources     []string
	RequiredFields     []string
}

// TrustsSource reports whether src is an accepted evidence source for the
// policy. Policies with no listed sources accept anything.
func (p Policy) TrustsSource(src string) bool {
	if len(p.TrustedSources) == 0 {
		return true
	}
	for _, s := range p.TrustedSources {
		if s == src {
			return true
		}
	}
	return false
}

// familyPolicies is the per-family policy table. MinConfidence is the floor
// the decision engine compares final confidence against; classification
// confidence is not gated here.
var familyPolicies = map[classify.Family]Policy{
	classify.FamilyIdentity: {
		ID:                 IdentityMinimal,
		Certifiable:        true,
		RequiresExtraction: true,
		MinConfidence:      0.85,
		TrustedSources:     []string{"mrz", "layout_rules"},
		RequiredFields:     []string{"first_name", "last_name", "date_of_birth"},
	},
	classify.FamilyDrivingLicense: {
		ID:                 DrivingLicenseMinimal,
		Certifiable:        true,
		RequiresExtraction: true,
		MinConfidence:      0.85,
		TrustedSources:     []string{"layout_rules"},
		RequiredFields:     []string{"first_name", "last_name", "license_number", "expiry_date"},
	},
	classify.FamilyContract: {
		ID:                 HashOnly,
		Certifiable:        true,
		RequiresExtraction: false,
		MinConfidence:      0.60,
		TrustedSources:     []string{"file_integrity"},
	},
	classify.FamilyCertificate: {
		ID:                 CertificateMinimal,
		Certifiable:        true,
		RequiresExtraction: true,
		MinConfidence:      0.80,
		TrustedSources:     []string{"ocr", "layout_rules"},
		RequiredFields:     []string{"student_name", "university_name", "degree_type"},
	},
	classify.FamilyFinancial: {
		ID:                 FinancialMinimal,
		Certifiable:        true,
		RequiresExtraction: true,
		MinConfidence:      0.80,
		TrustedSources:     []string{"ocr"},
		RequiredFields:     []string{"invoice_number", "total_amount", "invoice_date"},
	},
	classify.FamilyCorporate: {
		ID:                 CorporateMinimal,
		Certifiable:        true,
		RequiresExtraction: true,
		MinConfidence:      0.80,
		TrustedSources:     []string{"ocr"},
	},
}

// semanticFamilies certify through claim evaluation rather than structured
// field extraction when claim-based certification is enabled.
var semanticFamilies = map[classify.Family]bool{
	classify.FamilyContract:    true,
	classify.FamilyCertificate: true,
	classify.FamilyFinancial:   true,
	classify.FamilyCorporate:   true,
}

// Resolve returns the certification policy for a family. It is pure and
// total: unknown families map to the non-certifiable default, and a low
// classification confidence never suppresses resolution (eligibility is the
// decision engine's concern, kept separate on purpose).
func Resolve(family classify.Family, confidence float64, claimBasedEnabled bool) Policy {
	_ = confidence

	p, ok := familyPolicies[family]
	if !ok {
		return Policy{ID: NonCertifiable}
	}

	if claimBasedEnabled && semanticFamilies[family] {
		return Policy{
			ID:            ClaimBased,
			Certifiable:   true,
			MinConfidence: 0.70,
		}
	}
	return p
}

// IsSemantic reports whether the family is certified through claims when
// claim-based certification is requested.
func IsSemantic(family classify.Family) bool {
	return semanticFamilies[family]
}
