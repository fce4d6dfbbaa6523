package pipeline

import (
	"certifi/internal/canonical"
	"certifi/internal/claim"
	"certifi/internal/classify"
	"certifi/internal/role"
)

// holderFor derives the certified party reference from the claim. The
// reference is a truncated fingerprint of the identifying subset, so
// the record carries no personal data beyond what the claim already
// states.
func holderFor(c claim.Claim, inferred role.Role, family classify.Family) *Holder {
	if c.Subject == "" && c.Entity == "" {
		return nil
	}

	subset := map[string]any{
		"subject": orNil(c.Subject),
		"entity":  orNil(c.Entity),
		"role":    string(c.Role),
	}
	if c.StartDate != nil {
		subset["start_date"] = c.StartDate.Format("2006-01-02")
	}
	ref := canonical.Hash(subset)

	confidence := c.Confidence
	if c.Subject != "" && c.Entity != "" {
		confidence = min(0.95, confidence+0.10)
	}
	if inferred != role.Unknown {
		confidence = min(0.95, confidence+0.05)
	}

	return &Holder{
		Type:       holderType(family, inferred),
		Ref:        "rel:sha256(" + ref[:16] + "...)",
		Confidence: min(0.98, confidence),
	}
}

func holderType(family classify.Family, inferred role.Role) HolderType {
	switch family {
	case classify.FamilyContract, classify.FamilyCertificate:
		return HolderRelationship
	case classify.FamilyIdentity, classify.FamilyDrivingLicense:
		return HolderIndividual
	case classify.FamilyFinancial, classify.FamilyCorporate:
		return HolderEntity
	}
	switch inferred {
	case role.Contractor, role.Employee, role.Student:
		return HolderIndividual
	case role.Supplier, role.Director:
		return HolderEntity
	default:
		return HolderRelationship
	}
}

func orNil(s string) any {
	if s == "" {
		return nil
	}
	return s
}
