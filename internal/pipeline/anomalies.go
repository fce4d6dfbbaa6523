package pipeline

import (
	"fmt"
	"strings"

	"certifi/internal/classify"
	"certifi/internal/decision"
	"certifi/internal/role"
)

const (
	shortTextThreshold   = 50
	largeAmountThreshold = 1_000_000
)

// detectAnomalies flags everything a human triager should see. The
// list is always non-nil; an empty slice means a clean document.
func detectAnomalies(textLen int, rec CertificationRecord) []string {
	anomalies := []string{}

	if textLen < shortTextThreshold {
		anomalies = append(anomalies, "very short document text, possible extraction failure")
	}
	if rec.Family == classify.FamilyUnknown {
		anomalies = append(anomalies, "document family could not be classified")
	}
	if rec.Decision.FinalConfidence < 0.5 {
		anomalies = append(anomalies, fmt.Sprintf("low confidence score: %.2f", rec.Decision.FinalConfidence))
	}
	if rec.ClassificationConfidence < 0.5 && rec.Family != classify.FamilyUnknown {
		anomalies = append(anomalies, fmt.Sprintf("low family classification confidence: %.2f", rec.ClassificationConfidence))
	}
	if rec.Document != nil && len(rec.Document.MissingFields) > 0 {
		anomalies = append(anomalies, "missing critical fields: "+strings.Join(rec.Document.MissingFields, ", "))
	}
	if rec.Decision.Risk == decision.RiskHigh {
		anomalies = append(anomalies, "high risk level detected")
	}

	anomalies = append(anomalies, claimAnomalies(rec)...)

	if rec.Decision.Ready && rec.Document == nil && !rec.hasClaim() {
		anomalies = append(anomalies, "certification ready but no data or claim extracted")
	}
	return anomalies
}

func claimAnomalies(rec CertificationRecord) []string {
	var anomalies []string
	c := rec.Claim

	if inferred, claimed := rec.Role.Role, c.Role; roleKnown(inferred) && roleKnown(claimed) && inferred != claimed {
		anomalies = append(anomalies, fmt.Sprintf("role mismatch: inferred=%s, claim=%s", inferred, claimed))
	}
	if c.StartDate != nil && c.EndDate != nil && c.EndDate.Before(*c.StartDate) {
		anomalies = append(anomalies, "end date is before start date")
	}
	if c.Amount != nil {
		switch {
		case *c.Amount < 0:
			anomalies = append(anomalies, "negative amount detected")
		case *c.Amount > largeAmountThreshold:
			anomalies = append(anomalies, fmt.Sprintf("unusually large amount: %.2f", *c.Amount))
		}
	}
	return anomalies
}

func roleKnown(r role.Role) bool {
	return r != "" && r != role.Unknown
}
