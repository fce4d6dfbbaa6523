package classify

import (
	"regexp"
	"strings"
)

// titleWindow bounds how much leading text counts as the document title.
const titleWindow = 500

var (
	whitespaceRe = regexp.MustCompile(`\s+`)

	titlePSA = regexp.MustCompile(`PROFESSIONAL\s+SERVICES\s+AGREEMENT`)
	titleICA = regexp.MustCompile(`INDEPENDENT\s+CONTRACTOR\s+AGREEMENT`)
	titleSOW = regexp.MustCompile(`STATEMENT\s+OF\s+WORK`)
	titleEL  = regexp.MustCompile(`ENGAGEMENT\s+LETTER`)
	titleSA  = regexp.MustCompile(`SERVICE\s+AGREEMENT`)
	titleNDA = regexp.MustCompile(`NON[-\s]?DISCLOSURE\s+AGREEMENT|NDA`)

	engagementContextRe = regexp.MustCompile(`(?i)(?:service\s+provider|dear\s+[A-Z])`)

	paymentTermsRe = regexp.MustCompile(`(?i)payment\s+terms|fees?\s+(?:charged|payable|due)|compensation|invoice|per\s+(?:hour|day|month|annum)|monthly\s+fee`)
	deliverablesRe = regexp.MustCompile(`(?i)deliverables?`)
	milestonesRe   = regexp.MustCompile(`(?i)milestones?`)
)

// classifySubtype refines a family using staged matching: title first,
// then document structure, then plain keywords as a fallback. NDA only
// wins when the document carries no payment terms, since priced work is
// a service engagement even if it embeds confidentiality language.
func classifySubtype(text, textLower string, family Family) Subtype {
	switch family {
	case FamilyContract:
		return contractSubtype(text, textLower)
	case FamilyCertificate:
		switch {
		case strings.Contains(textLower, "diploma"), strings.Contains(textLower, "laurea"):
			return SubtypeDiploma
		case strings.Contains(textLower, "certificate of engagement"):
			return SubtypeCertificateOfEngagement
		default:
			return SubtypeCertificateGeneric
		}
	case FamilyFinancial:
		switch {
		case strings.Contains(textLower, "invoice"), strings.Contains(textLower, "fattura"):
			return SubtypeInvoice
		case strings.Contains(textLower, "payslip"), strings.Contains(textLower, "busta paga"):
			return SubtypePayslip
		case strings.Contains(textLower, "bank statement"), strings.Contains(textLower, "estratto conto"):
			return SubtypeBankStatement
		default:
			return SubtypeUnknown
		}
	case FamilyIdentity:
		switch {
		case strings.Contains(textLower, "carta d'identit"), strings.Contains(textLower, "carta di identit"), strings.Contains(textLower, "id card"):
			return SubtypeIDCard
		case strings.Contains(textLower, "passport"), strings.Contains(textLower, "passaporto"):
			return SubtypePassport
		default:
			return SubtypeUnknown
		}
	default:
		return SubtypeUnknown
	}
}

func contractSubtype(text, textLower string) Subtype {
	title := titleSection(text)

	// Stage 1: title matching.
	switch {
	case titlePSA.MatchString(title):
		return SubtypeProfessionalServicesAgreement
	case titleICA.MatchString(title):
		return SubtypeIndependentContractorAgreement
	case titleSOW.MatchString(title):
		return SubtypeStatementOfWork
	case titleEL.MatchString(title) && engagementContextRe.MatchString(text):
		return SubtypeEngagementLetter
	case titleSA.MatchString(title):
		return SubtypeServiceAgreement
	}

	hasPayment := paymentTermsRe.MatchString(text)
	if titleNDA.MatchString(title) && !hasPayment {
		return SubtypeNDA
	}

	// Stage 2: structure. Payment terms, deliverables, or milestones mean
	// priced work, which rules out NDA.
	if hasPayment || deliverablesRe.MatchString(text) || milestonesRe.MatchString(text) {
		switch {
		case strings.Contains(textLower, "independent contractor"):
			return SubtypeIndependentContractorAgreement
		case strings.Contains(textLower, "statement of work"):
			return SubtypeStatementOfWork
		case strings.Contains(textLower, "professional services"):
			return SubtypeProfessionalServicesAgreement
		default:
			return SubtypeServiceAgreement
		}
	}

	// Stage 3: keyword fallback.
	switch {
	case strings.Contains(textLower, "engagement letter") && engagementContextRe.MatchString(text):
		return SubtypeEngagementLetter
	case strings.Contains(textLower, "statement of work"):
		return SubtypeStatementOfWork
	case strings.Contains(textLower, "independent contractor agreement"):
		return SubtypeIndependentContractorAgreement
	case strings.Contains(textLower, "service agreement"):
		return SubtypeServiceAgreement
	default:
		return SubtypeContractGeneric
	}
}

func titleSection(text string) string {
	window := text
	if len(window) > titleWindow {
		window = window[:titleWindow]
	}
	return whitespaceRe.ReplaceAllString(strings.TrimSpace(strings.ToUpper(window)), " ")
}
