package extract

import (
	"regexp"

	"certifi/internal/classify"
)

// CertificateRequiredFields are the critical fields for a degree
// certificate.
var CertificateRequiredFields = []string{"student_name", "university_name", "degree_type"}

var (
	certStudentRe  = regexp.MustCompile(`(?i)(?:student|candidate|studente|candidato|awarded\s+to|conferred\s+(?:up)?on)\s*:?\s+([A-Z][a-z]+\s+[A-Z][a-z]+)`)
	certUniRe      = regexp.MustCompile(`(?i)(university\s+of\s+[A-Z][A-Za-z\s]+?|universit[àa]\s+(?:degli?\s+)?studi\s+di\s+[A-Z][A-Za-z]+|[A-Z][A-Za-z]+\s+university)(?:[,.\n]|\s{2}|$)`)
	certDegreeRe   = regexp.MustCompile(`(?i)(bachelor\s+of\s+[A-Za-z\s]{2,30}?|master\s+of\s+[A-Za-z\s]{2,30}?|doctor\s+of\s+[A-Za-z\s]{2,30}?|laurea\s+(?:triennale|magistrale|specialistica))(?:[,.\n]|$)`)
	certCreditsRe  = regexp.MustCompile(`(?i)(?:credits?|cfu|ects)\s*:?\s*(\d+)`)
	certGradDateRe = regexp.MustCompile(`(?i)(?:graduation\s+date|graduated\s+on|conseguito\s+il|data\s+di\s+laurea)\s*:?\s*(\d{1,2}[/-]\d{1,2}[/-]\d{4}|\d{4}-\d{2}-\d{2})`)
)

// extractCertificate reads labelled degree-certificate fields.
func extractCertificate(text string) Document {
	doc := Document{Family: classify.FamilyCertificate, TrustedSource: SourceOCR}

	addMatch(&doc, "student_name", certStudentRe, text, 0.75)
	addMatch(&doc, "university_name", certUniRe, text, 0.75)
	addMatch(&doc, "degree_type", certDegreeRe, text, 0.75)
	addMatch(&doc, "credits", certCreditsRe, text, 0.70)
	if m := certGradDateRe.FindStringSubmatch(text); m != nil {
		doc.add("graduation_date", normalizeNumericDate(m[1]), 0.75)
	}

	doc.markMissing(CertificateRequiredFields)
	doc.Confidence = overallConfidence(doc, CertificateRequiredFields, 0.95, 0.05)
	return doc
}
