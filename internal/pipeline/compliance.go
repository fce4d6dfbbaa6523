package pipeline

import (
	"certifi/internal/decision"
	"certifi/internal/extract"
)

// complianceScore folds the verdict into a single [0,1] triage number:
// readiness base, averaged with the final confidence, discounted by
// risk and missing fields, with a small boost for high-quality
// evidence.
func complianceScore(rec CertificationRecord) float64 {
	var score float64
	switch {
	case rec.Decision.Ready:
		score = 0.8
	case rec.Decision.ReviewRequired:
		score = 0.5
	default:
		score = 0.2
	}

	if rec.Decision.FinalConfidence > 0 {
		score = (score + rec.Decision.FinalConfidence) / 2
	}

	score *= riskMultiplier(rec.Decision.Risk)

	if rec.Document != nil {
		penalty := min(0.3, float64(len(rec.Document.MissingFields))*0.05)
		score *= 1.0 - penalty
	}

	score += qualityBoost(rec)

	return max(0.0, min(1.0, score))
}

func riskMultiplier(risk decision.RiskLevel) float64 {
	switch risk {
	case decision.RiskLow:
		return 1.0
	case decision.RiskMedium:
		return 0.9
	default:
		return 0.7
	}
}

func qualityBoost(rec CertificationRecord) float64 {
	var boost float64
	if rec.Document != nil {
		switch rec.Document.TrustedSource {
		case extract.SourceMRZ:
			boost += 0.10
		case extract.SourceLayoutRules:
			boost += 0.05
		}
	}
	if rec.ClassificationConfidence >= 0.9 {
		boost += 0.05
	}
	if rec.ClaimEvaluation.Score >= 0.85 {
		boost += 0.05
	}
	return min(0.2, boost)
}
