// Package pipeline chains the analysis stages into one certification
// verdict per document: classify, evaluate claims, resolve policy,
// infer role, extract, decide, fingerprint. Processing is total; every
// failure mode is data on the record, never an error.
package pipeline

import (
	"time"

	"certifi/internal/claim"
	"certifi/internal/classify"
	"certifi/internal/decision"
	"certifi/internal/extract"
	"certifi/internal/policy"
	"certifi/internal/role"
)

// HolderType buckets who or what the certification is about.
type HolderType string

const (
	HolderRelationship HolderType = "relationship"
	HolderIndividual   HolderType = "individual"
	HolderEntity       HolderType = "entity"
)

// Holder is the certified party reference. Ref is a truncated
// fingerprint, not personal data.
type Holder struct {
	Type       HolderType `json:"type"`
	Ref        string     `json:"ref"`
	Confidence float64    `json:"confidence"`
}

// CertificationRecord is the complete outcome for one document.
type CertificationRecord struct {
	ID          string
	ProcessedAt time.Time

	Family                   classify.Family
	Subtype                  classify.Subtype
	ClassificationConfidence float64
	ClassificationSource     classify.Source
	FamilyOverridden         bool
	AdaptiveBoost            float64

	Policy          policy.Policy
	Role            role.Inference
	Claim           claim.Claim
	ClaimEvaluation claim.Evaluation
	Document        *extract.Document
	Decision        decision.Decision

	CanonicalHash   string
	ClaimHash       string
	Holder          *Holder
	ComplianceScore float64
	Anomalies       []string
}

// ClaimsInfo is the wire shape of the claim block.
type ClaimsInfo struct {
	IsContractor      bool     `json:"is_contractor"`
	Subject           string   `json:"subject,omitempty"`
	Entity            string   `json:"entity,omitempty"`
	Amount            *float64 `json:"amount,omitempty"`
	Currency          string   `json:"currency,omitempty"`
	SecondaryAmount   *float64 `json:"secondary_amount,omitempty"`
	SecondaryCurrency string   `json:"secondary_currency,omitempty"`
	StartDate         string   `json:"start_date,omitempty"`
	EndDate           string   `json:"end_date,omitempty"`
	Statement         string   `json:"statement,omitempty"`
}

// Projection is the external response shape.
type Projection struct {
	DocumentID          string      `json:"document_id,omitempty"`
	DocumentFamily      string      `json:"document_family"`
	DocumentType        string      `json:"document_type"`
	Holder              *Holder     `json:"holder,omitempty"`
	Claims              *ClaimsInfo `json:"claims,omitempty"`
	ComplianceScore     float64     `json:"compliance_score"`
	Anomalies           []string    `json:"anomalies"`
	CertificationReady  bool        `json:"certification_ready"`
	HumanReviewRequired bool        `json:"human_review_required"`
	RiskLevel           string      `json:"risk_level"`
	FinalConfidence     float64     `json:"final_confidence"`
	CanonicalHash       string      `json:"canonical_hash,omitempty"`
	ClaimHash           string      `json:"claim_hash,omitempty"`
	Policy              string      `json:"certification_policy"`
}

// Projection renders the record for the wire. The document type is the
// subtype when one resolved, else the family.
func (r CertificationRecord) Projection() Projection {
	docType := string(r.Subtype)
	if r.Subtype == classify.SubtypeUnknown || docType == "" {
		docType = string(r.Family)
	}

	p := Projection{
		DocumentID:          r.ID,
		DocumentFamily:      string(r.Family),
		DocumentType:        docType,
		Holder:              r.Holder,
		ComplianceScore:     r.ComplianceScore,
		Anomalies:           r.Anomalies,
		CertificationReady:  r.Decision.Ready,
		HumanReviewRequired: r.Decision.ReviewRequired,
		RiskLevel:           string(r.Decision.Risk),
		FinalConfidence:     r.Decision.FinalConfidence,
		CanonicalHash:       r.CanonicalHash,
		ClaimHash:           r.ClaimHash,
		Policy:              string(r.Policy.ID),
	}
	if p.Anomalies == nil {
		p.Anomalies = []string{}
	}
	if r.hasClaim() {
		p.Claims = r.claimsInfo()
	}
	return p
}

func (r CertificationRecord) hasClaim() bool {
	c := r.Claim
	return c.Subject != "" || c.Entity != "" || c.StartDate != nil || c.Amount != nil
}

func (r CertificationRecord) claimsInfo() *ClaimsInfo {
	c := r.Claim
	info := &ClaimsInfo{
		IsContractor:      c.Role == role.Contractor,
		Subject:           c.Subject,
		Entity:            c.Entity,
		Amount:            c.Amount,
		Currency:          c.Currency,
		SecondaryAmount:   c.SecondaryAmount,
		SecondaryCurrency: c.SecondaryCurrency,
		Statement:         c.Statement(),
	}
	if c.StartDate != nil {
		info.StartDate = c.StartDate.Format("2006-01-02")
	}
	if c.EndDate != nil {
		info.EndDate = c.EndDate.Format("2006-01-02")
	}
	return info
}
