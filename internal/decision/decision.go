// Package decision turns classification, extraction, and claim results
// into the final certification verdict. This is pure domain logic - no
// I/O, no side effects. Every input path produces a decision; nothing
// here can fail.
package decision

import (
	"certifi/internal/claim"
	"certifi/internal/extract"
	"certifi/internal/policy"
)

const (
	// MaxConfidence caps every final confidence; extraction is never
	// perfect, so 1.0 is unreachable.
	MaxConfidence = 0.98

	// ReviewThreshold flags any decision below it for a human,
	// independently of readiness.
	ReviewThreshold = 0.85

	missingFieldPenalty = 0.05

	adaptiveBoostThreshold = 0.70
	adaptiveBoostCap       = 0.15
	adaptiveBoostRate      = 0.3
)

type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// Reasons recorded on not-ready decisions.
const (
	ReasonNotCertifiable   = "policy_not_certifiable"
	ReasonBelowPolicyFloor = "confidence_below_policy_floor"
	ReasonMissingFields    = "missing_critical_fields"
	ReasonUntrustedSource  = "untrusted_source"
	ReasonNoRelationship   = "relationship_not_established"
	ReasonMissingClaims    = "critical_claims_missing"
)

// Decision is the terminal verdict for one document.
type Decision struct {
	Ready           bool
	FinalConfidence float64
	Risk            RiskLevel
	ReviewRequired  bool
	Reasons         []string
}

// Input carries everything the verdict depends on. Document is set for
// structure-based policies, Claims for claim-based ones; with neither,
// the classification confidence alone decides (hash-only policies).
type Input struct {
	Policy                   policy.Policy
	ClassificationConfidence float64
	Document                 *extract.Document
	Claims                   *claim.Evaluation
}

// AdaptiveBoost is the additive reward for strong claim evidence:
// nothing below the threshold, then a fraction of the margin, capped.
func AdaptiveBoost(claimsConfidence float64) float64 {
	if claimsConfidence < adaptiveBoostThreshold {
		return 0
	}
	return min(adaptiveBoostCap, (claimsConfidence-adaptiveBoostThreshold)*adaptiveBoostRate)
}

// Decide produces the verdict. Rule priority (fail-fast):
//  1. Non-certifiable policy - terminal not-ready
//  2. Path-specific confidence and evidence checks
//  3. Risk bucketing and the unconditional review threshold
func Decide(in Input) Decision {
	if !in.Policy.Certifiable {
		return finish(Decision{
			FinalConfidence: clamp(in.ClassificationConfidence),
			Reasons:         []string{ReasonNotCertifiable},
		}, nil)
	}

	switch {
	case in.Claims != nil:
		return decideClaims(in)
	case in.Document != nil:
		return decideStructured(in)
	default:
		return decideHashOnly(in)
	}
}

// decideStructured applies the weakest-link rule: the minimum of the
// critical field confidences and the source-aligned classification
// confidence, penalized per missing critical field.
func decideStructured(in Input) Decision {
	doc := in.Document
	required := extract.RequiredFields(doc.Family)

	classConf := alignWithTrustedSource(doc.TrustedSource, in.ClassificationConfidence)
	final := min(doc.CriticalConfidence(required), classConf)
	final -= float64(len(doc.MissingFields)) * missingFieldPenalty
	final = clamp(final)

	var reasons []string
	if final < in.Policy.MinConfidence {
		reasons = append(reasons, ReasonBelowPolicyFloor)
	}
	if len(doc.MissingFields) > 0 {
		reasons = append(reasons, ReasonMissingFields)
	}
	if !in.Policy.TrustsSource(string(doc.TrustedSource)) {
		reasons = append(reasons, ReasonUntrustedSource)
	}

	return finish(Decision{
		Ready:           len(reasons) == 0,
		FinalConfidence: final,
		Reasons:         reasons,
	}, doc.MissingFields)
}

// decideClaims scores the claim-based path: claims confidence plus the
// adaptive boost, gated on the relationship predicate and the critical
// claims.
func decideClaims(in Input) Decision {
	ev := in.Claims
	final := clamp(ev.Score + AdaptiveBoost(ev.Score))

	// A master agreement reference stands in for the critical claims:
	// the relationship is established contractually elsewhere.
	missingCriticals := !ev.CriticalPresent && !ev.MasterAgreement

	var reasons []string
	if !ev.Relationship {
		reasons = append(reasons, ReasonNoRelationship)
	}
	if missingCriticals {
		reasons = append(reasons, ReasonMissingClaims)
	}
	if final < in.Policy.MinConfidence {
		reasons = append(reasons, ReasonBelowPolicyFloor)
	}

	var missing []string
	if missingCriticals {
		missing = []string{ReasonMissingClaims}
	}
	return finish(Decision{
		Ready:           len(reasons) == 0,
		FinalConfidence: final,
		Reasons:         reasons,
	}, missing)
}

// decideHashOnly covers policies that certify a fingerprint rather than
// extracted content: the classification confidence is all there is.
func decideHashOnly(in Input) Decision {
	final := clamp(in.ClassificationConfidence)

	var reasons []string
	if final < in.Policy.MinConfidence {
		reasons = append(reasons, ReasonBelowPolicyFloor)
	}
	return finish(Decision{
		Ready:           len(reasons) == 0,
		FinalConfidence: final,
		Reasons:         reasons,
	}, nil)
}

// alignWithTrustedSource compensates for weak text classification when
// the document carries a machine readable zone: the zone itself is
// strong evidence of an identity document.
func alignWithTrustedSource(source extract.Source, classificationConf float64) float64 {
	if source == extract.SourceMRZ && classificationConf < 0.8 {
		return 0.90
	}
	return classificationConf
}

// finish applies the risk bucket and the unconditional review rule.
func finish(d Decision, missing []string) Decision {
	switch {
	case d.FinalConfidence >= 0.90 && len(missing) == 0:
		d.Risk = RiskLow
	case d.FinalConfidence < 0.70 || len(missing) > 0:
		d.Risk = RiskHigh
	default:
		d.Risk = RiskMedium
	}
	d.ReviewRequired = d.FinalConfidence < ReviewThreshold
	return d
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > MaxConfidence {
		return MaxConfidence
	}
	return v
}
