package extract

import (
	"regexp"
	"strings"
	"time"

	"certifi/internal/classify"
)

// RequiredFields returns the critical field list for a family, or nil
// when the family has no structured extraction.
func RequiredFields(family classify.Family) []string {
	switch family {
	case classify.FamilyIdentity:
		return IdentityRequiredFields
	case classify.FamilyDrivingLicense:
		return LicenseRequiredFields
	case classify.FamilyFinancial:
		return FinancialRequiredFields
	case classify.FamilyCertificate:
		return CertificateRequiredFields
	default:
		return nil
	}
}

// Extract runs the family's structured extractor. Total: families
// without one get an empty document with zero confidence.
func Extract(text string, family classify.Family) Document {
	switch family {
	case classify.FamilyIdentity:
		return extractIdentity(text)
	case classify.FamilyDrivingLicense:
		return extractLicense(text)
	case classify.FamilyFinancial:
		return extractFinancial(text)
	case classify.FamilyCertificate:
		return extractCertificate(text)
	default:
		return Document{Family: family, TrustedSource: SourceNone}
	}
}

// addMatch adds a field from the first submatch if the field is still
// unresolved.
func addMatch(doc *Document, name string, re *regexp.Regexp, text string, confidence float64) {
	if _, ok := doc.Field(name); ok {
		return
	}
	if m := re.FindStringSubmatch(text); m != nil {
		doc.add(name, strings.TrimSpace(m[1]), confidence)
	}
}

// overallConfidence is the weakest-link rule: minimum confidence across
// required fields (missing counts as zero), plus a small bonus when the
// document yielded more than just the required fields, capped.
func overallConfidence(doc Document, required []string, limit, bonus float64) float64 {
	if len(doc.Fields) == 0 {
		return 0
	}
	lowest := 1.0
	for _, name := range required {
		f, ok := doc.Field(name)
		if !ok {
			lowest = 0
			break
		}
		if f.Confidence < lowest {
			lowest = f.Confidence
		}
	}
	if len(doc.Fields) > len(required) {
		return min(limit, lowest+bonus)
	}
	return lowest
}

var numericDateLayouts = []string{
	"2006-01-02",
	"2/1/2006",
	"2-1-2006",
	"2/1/06",
	"2-1-06",
	"1/2/2006",
}

// normalizeNumericDate converts day-first numeric dates (and ISO
// passthrough) to YYYY-MM-DD; unparseable input is kept raw rather
// than dropped.
func normalizeNumericDate(raw string) string {
	raw = strings.TrimSpace(raw)
	for _, layout := range numericDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return raw
}

func firstWord(s string) string {
	if fields := strings.Fields(s); len(fields) > 0 {
		return fields[0]
	}
	return ""
}
