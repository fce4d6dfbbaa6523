package extract

import (
	"regexp"
	"strings"

	"certifi/internal/classify"
)

// FinancialRequiredFields are the critical fields for an invoice.
var FinancialRequiredFields = []string{"invoice_number", "total_amount", "invoice_date"}

var (
	invNumberRe  = regexp.MustCompile(`(?i)(?:invoice|fattura)\s*(?:no|n[°º])?\s*\.?\s*:?\s*#?\s*([A-Z0-9/-]+)`)
	invDateRe    = regexp.MustCompile(`(?i)(?:invoice\s+date|date|data)\s*:?\s*(\d{1,2}[/-]\d{1,2}[/-]\d{2,4})`)
	invISODateRe = regexp.MustCompile(`(?i)(?:invoice\s+date|date|data)\s*:?\s*(\d{4}-\d{2}-\d{2})`)
	invTotalRe   = regexp.MustCompile(`(?i)(?:total(?:\s+due)?|totale|amount\s+due)\s*:?\s*(?:USD|EUR|GBP|AED)?\s*[$€£]?\s*([\d.,]+)`)
	invVATRe     = regexp.MustCompile(`(?i)(?:vat|iva|tax)\s*:?\s*[$€£]?\s*([\d.,]+)`)
	invVATRateRe = regexp.MustCompile(`(?i)(?:vat|iva|tax)\s*(?:rate)?\s*:?\s*(\d+[.,]?\d*)\s*%`)
	invSellerRe  = regexp.MustCompile(`(?i)(?:seller|supplier|from|venditore|fornitore|emittente)\s*:\s*([A-Z][^,\n]+)`)
	invBuyerRe   = regexp.MustCompile(`(?i)(?:bill(?:ed)?\s+to|buyer|customer|cliente|destinatario)\s*:\s*([A-Z][^,\n]+)`)
)

// extractFinancial reads labelled invoice fields. There is no trusted
// layout channel for invoices; everything is OCR-grade.
func extractFinancial(text string) Document {
	doc := Document{Family: classify.FamilyFinancial, TrustedSource: SourceOCR}

	addMatch(&doc, "invoice_number", invNumberRe, text, 0.80)
	if m := invISODateRe.FindStringSubmatch(text); m != nil {
		doc.add("invoice_date", m[1], 0.80)
	} else if m := invDateRe.FindStringSubmatch(text); m != nil {
		doc.add("invoice_date", normalizeNumericDate(m[1]), 0.75)
	}
	if m := invVATRateRe.FindStringSubmatch(text); m != nil {
		doc.add("vat_rate", strings.ReplaceAll(m[1], ",", "."), 0.75)
	}
	if m := invTotalRe.FindStringSubmatch(text); m != nil {
		doc.add("total_amount", normalizeDecimal(m[1]), 0.75)
	}
	if m := invVATRe.FindStringSubmatch(text); m != nil {
		doc.add("vat_amount", normalizeDecimal(m[1]), 0.70)
	}
	addMatch(&doc, "seller_name", invSellerRe, text, 0.70)
	addMatch(&doc, "buyer_name", invBuyerRe, text, 0.70)

	doc.markMissing(FinancialRequiredFields)
	doc.Confidence = overallConfidence(doc, FinancialRequiredFields, 0.95, 0.05)
	return doc
}

// normalizeDecimal turns European decimal notation into dot-decimal:
// "1.234,56" and "1,234.56" both become "1234.56".
func normalizeDecimal(raw string) string {
	raw = strings.TrimSpace(raw)
	lastComma := strings.LastIndexByte(raw, ',')
	lastDot := strings.LastIndexByte(raw, '.')
	switch {
	case lastComma > lastDot:
		raw = strings.ReplaceAll(raw, ".", "")
		raw = strings.Replace(raw, ",", ".", 1)
	default:
		raw = strings.ReplaceAll(raw, ",", "")
	}
	return raw
}
