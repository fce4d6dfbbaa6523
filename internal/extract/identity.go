package extract

import (
	"regexp"

	"certifi/internal/classify"
)

// IdentityRequiredFields are the critical fields an identity document
// must resolve before it can certify.
var IdentityRequiredFields = []string{"first_name", "last_name", "date_of_birth"}

var (
	idFirstNameRe = regexp.MustCompile(`(?i)(?:first\s+name|given\s+names?|nome)\s*:?\s+([A-Z][a-z]+)`)
	idSurnameRe   = regexp.MustCompile(`(?i)(?:surname|last\s+name|family\s+name|cognome)\s*:?\s+([A-Z][a-z]+)`)
	idDOBRe       = regexp.MustCompile(`(?i)(?:date\s+of\s+birth|born|data\s+di\s+nascita)\s*:?\s+(\d{1,2}[/-]\d{1,2}[/-]\d{4})`)
	idDocNumRe    = regexp.MustCompile(`(?i)(?:document|card|id)\s*(?:no|number|n[°º])\s*\.?\s*:?\s*([A-Z0-9]{5,})`)
	idTaxCodeRe   = regexp.MustCompile(`(?i)codice\s+fiscale\s*:?\s*([A-Z]{6}\d{2}[A-Z]\d{2}[A-Z]\d{3}[A-Z])`)
)

// extractIdentity reads the MRZ first; OCR label patterns only fill
// fields the zone did not supply, at reduced confidence.
func extractIdentity(text string) Document {
	doc := Document{Family: classify.FamilyIdentity, TrustedSource: SourceOCR}

	mrz := parseMRZ(text)
	if mrz.found && mrz.confidence > 0.8 {
		doc.TrustedSource = SourceMRZ
		if surname := mrz.data["surname"]; surname != "" {
			doc.add("last_name", surname, mrzFieldConfidence)
		}
		if given := mrz.data["given_names"]; given != "" {
			doc.add("first_name", firstWord(given), mrzFieldConfidence)
		}
		doc.add("date_of_birth", mrz.data["date_of_birth"], mrzFieldConfidence)
		doc.add("document_number", mrz.data["document_number"], mrzFieldConfidence)
		doc.add("nationality", mrz.data["nationality"], mrzFieldConfidence)
		doc.add("expiry_date", mrz.data["expiry_date"], mrzFieldConfidence)
	}

	addMatch(&doc, "first_name", idFirstNameRe, text, 0.6)
	addMatch(&doc, "last_name", idSurnameRe, text, 0.6)
	if _, ok := doc.Field("date_of_birth"); !ok {
		if m := idDOBRe.FindStringSubmatch(text); m != nil {
			doc.add("date_of_birth", normalizeNumericDate(m[1]), 0.7)
		}
	}
	addMatch(&doc, "tax_code", idTaxCodeRe, text, 0.8)
	addMatch(&doc, "document_number", idDocNumRe, text, 0.6)

	doc.markMissing(IdentityRequiredFields)
	doc.Confidence = overallConfidence(doc, IdentityRequiredFields, 0.98, 0.10)
	return doc
}
