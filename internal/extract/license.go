package extract

import (
	"regexp"
	"sort"
	"strings"

	"certifi/internal/classify"
)

// LicenseRequiredFields are the critical fields for a driving licence.
var LicenseRequiredFields = []string{"first_name", "last_name", "license_number", "expiry_date"}

// Driving licences carry no MRZ; the numbered layout fields defined by
// the EU licence model are the trusted channel instead.
var (
	dlSurnameRe   = regexp.MustCompile(`(?i)1\.\s*([A-Z][A-Z\s]+)`)
	dlFirstNameRe = regexp.MustCompile(`(?i)2\.\s*([A-Z][A-Z\s]+)`)
	dlBirthRe     = regexp.MustCompile(`(?i)3\.\s*(.+)`)
	dlIssueRe     = regexp.MustCompile(`(?i)4a\.\s*(.+)`)
	dlExpiryRe    = regexp.MustCompile(`(?i)4b\.\s*(.+)`)
	dlNumberRe    = regexp.MustCompile(`(?i)5\.\s*([A-Z0-9]+)`)

	dlNumericDateRe = regexp.MustCompile(`\d{1,2}[/-]\d{1,2}[/-]\d{2,4}`)
	dlPlaceRe       = regexp.MustCompile(`\d{1,2}[/-]\d{1,2}[/-]\d{2,4}\s+(.+)`)
	dlCategoryRe    = regexp.MustCompile(`\b([A-Z]\d?E?)\b`)

	dlAltNumberRe  = regexp.MustCompile(`(?i)(?:licen[cs]e|patente)\s*(?:no|number|n[°º])?\s*\.?\s*:?\s*([A-Z0-9]{5,})`)
	dlOCRNameRe    = regexp.MustCompile(`(?i)(?:first\s+name|nome)\s*:?\s+([A-Z][a-z]+)`)
	dlOCRSurnameRe = regexp.MustCompile(`(?i)(?:surname|cognome)\s*:?\s+([A-Z][a-z]+)`)
)

var dlValidCategories = map[string]bool{
	"A1": true, "A2": true, "A": true, "B": true, "BE": true,
	"C1": true, "C": true, "CE": true, "D1": true, "D": true, "DE": true,
}

// extractLicense reads the numbered layout fields (surname 1., first
// name 2., birth 3., issue 4a., expiry 4b., number 5.), then falls back
// to labelled OCR patterns at lower confidence.
func extractLicense(text string) Document {
	doc := Document{Family: classify.FamilyDrivingLicense, TrustedSource: SourceLayoutRules}

	if m := dlSurnameRe.FindStringSubmatch(text); m != nil {
		doc.add("last_name", strings.TrimSpace(firstLine(m[1])), 0.90)
	}
	if m := dlFirstNameRe.FindStringSubmatch(text); m != nil {
		doc.add("first_name", strings.TrimSpace(firstLine(m[1])), 0.90)
	}
	if m := dlBirthRe.FindStringSubmatch(text); m != nil {
		birth := strings.TrimSpace(firstLine(m[1]))
		if d := dlNumericDateRe.FindString(birth); d != "" {
			doc.add("date_of_birth", normalizeNumericDate(d), 0.85)
		}
		if p := dlPlaceRe.FindStringSubmatch(birth); p != nil {
			doc.add("place_of_birth", strings.TrimSpace(p[1]), 0.80)
		}
	}
	if m := dlIssueRe.FindStringSubmatch(text); m != nil {
		if d := dlNumericDateRe.FindString(firstLine(m[1])); d != "" {
			doc.add("issue_date", normalizeNumericDate(d), 0.85)
		}
	}
	if m := dlExpiryRe.FindStringSubmatch(text); m != nil {
		if d := dlNumericDateRe.FindString(firstLine(m[1])); d != "" {
			doc.add("expiry_date", normalizeNumericDate(d), 0.90)
		}
	}
	if m := dlNumberRe.FindStringSubmatch(text); m != nil {
		doc.add("license_number", m[1], 0.90)
	}

	if cats := extractCategories(text); cats != "" {
		doc.add("categories", cats, 0.85)
	}

	addMatch(&doc, "first_name", dlOCRNameRe, text, 0.60)
	addMatch(&doc, "last_name", dlOCRSurnameRe, text, 0.60)
	addMatch(&doc, "license_number", dlAltNumberRe, text, 0.70)

	doc.markMissing(LicenseRequiredFields)
	doc.Confidence = overallConfidence(doc, LicenseRequiredFields, 0.95, 0.05)
	return doc
}

// extractCategories collects licence categories, deduplicated and
// sorted so the result is stable for hashing.
func extractCategories(text string) string {
	found := map[string]bool{}
	for _, m := range dlCategoryRe.FindAllStringSubmatch(text, -1) {
		if dlValidCategories[m[1]] {
			found[m[1]] = true
		}
	}
	if len(found) == 0 {
		return ""
	}
	cats := make([]string, 0, len(found))
	for c := range found {
		cats = append(cats, c)
	}
	sort.Strings(cats)
	return strings.Join(cats, ",")
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
