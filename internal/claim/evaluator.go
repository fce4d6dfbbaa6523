package claim

import "regexp"

// Evaluator scores how strongly a document's language supports a
// certifiable business relationship. Each claim scores the number of
// its patterns that matched at least once, folded into a confidence
// with fixed steps so the result is deterministic for identical text.

// Claim names, used as keys in Evaluation.ClaimScores.
const (
	ClaimHasClient       = "has_client"
	ClaimHasContractor   = "has_contractor"
	ClaimMasterAgreement = "references_master_agreement"
	ClaimScopeOfWork     = "defines_scope_of_work"
	ClaimEffectiveDate   = "has_effective_date"
	ClaimDefinesServices = "defines_services"
)

// criticalClaims anchor the relationship; supportingClaims only boost.
// defines_services is scored for visibility but boosts nothing.
var criticalClaims = []string{ClaimHasClient, ClaimHasContractor}

var supportingClaims = []string{ClaimMasterAgreement, ClaimScopeOfWork, ClaimEffectiveDate}

var claimPatterns = map[string][]*regexp.Regexp{
	ClaimHasClient: {
		regexp.MustCompile(`(?i)\(\s*["']?(?:the\s+)?client["']?\s*\)`),
		regexp.MustCompile(`(?i)client(?:\s+name)?\s*:`),
		regexp.MustCompile(`(?i)services\s+requested\s+by`),
		regexp.MustCompile(`(?i)on\s+behalf\s+of\s+(?:the\s+)?client`),
		regexp.MustCompile(`(?i)\bthe\s+client\s+(?:shall|will|agrees)`),
	},
	ClaimHasContractor: {
		regexp.MustCompile(`(?i)independent\s+contractor`),
		regexp.MustCompile(`(?i)\(\s*["']?(?:the\s+)?(?:contractor|service\s+provider)["']?\s*\)`),
		regexp.MustCompile(`(?i)contractor(?:\s+name)?\s*:`),
		regexp.MustCompile(`(?i)engaged\s+as\s+(?:an?\s+)?(?:contractor|consultant|service\s+provider)`),
		regexp.MustCompile(`(?i)\b(?:consultant|freelancer)\b`),
	},
	ClaimMasterAgreement: {
		regexp.MustCompile(`(?i)master\s+(?:services?\s+)?agreement`),
		regexp.MustCompile(`(?i)framework\s+agreement`),
		regexp.MustCompile(`\bMSA\b`),
	},
	ClaimScopeOfWork: {
		regexp.MustCompile(`(?i)scope\s+of\s+(?:work|services)`),
		regexp.MustCompile(`(?i)statement\s+of\s+work`),
		regexp.MustCompile(`(?i)\bdeliverables\b`),
	},
	ClaimEffectiveDate: {
		regexp.MustCompile(`(?i)effective\s+date`),
		regexp.MustCompile(`(?i)commencement\s+date`),
		regexp.MustCompile(`(?i)shall\s+commence`),
	},
	ClaimDefinesServices: {
		regexp.MustCompile(`(?i)services\s+(?:provided|rendered|performed)`),
		regexp.MustCompile(`(?i)description\s+of\s+services`),
	},
}

// engagementLetterRe accepts letter-form documents that certify a
// relationship without contract boilerplate.
var engagementLetterRe = regexp.MustCompile(`(?i:engagement\s+letter|this\s+letter\s+certifies)|[Dd]ear\s+[A-Z]`)

// Evaluation is the outcome of scoring one document's claims.
type Evaluation struct {
	Score           float64
	Relationship    bool
	CriticalPresent bool
	Certifiable     bool
	MasterAgreement bool
	ClaimScores     map[string]int
}

// Evaluate scores the text. The steps: mark which patterns match per
// claim, derive a base confidence from how many critical claims are
// present, add supporting boosts, then apply the master-agreement
// override. A claim repeated ten times scores the same as once; only
// distinct claims move the confidence.
func Evaluate(text string) Evaluation {
	scores := make(map[string]int, len(claimPatterns))
	for name, patterns := range claimPatterns {
		n := 0
		for _, re := range patterns {
			if re.MatchString(text) {
				n++
			}
		}
		scores[name] = n
	}

	criticalFound := 0
	for _, name := range criticalClaims {
		if scores[name] > 0 {
			criticalFound++
		}
	}
	master := scores[ClaimMasterAgreement] > 0
	letterForm := engagementLetterRe.MatchString(text)

	var base float64
	switch {
	case criticalFound == 2:
		base = 0.85
	case criticalFound == 1 && master:
		base = 0.70
	case criticalFound == 1:
		base = 0.50
	case master && letterForm:
		base = 0.65
	default:
		base = 0.0
	}

	supportingScore := 0
	for _, name := range supportingClaims {
		if scores[name] > 0 {
			supportingScore++
		}
	}
	if supportingScore > 0 {
		base = min(0.95, base+float64(supportingScore)*0.10)
	}

	relationship := (scores[ClaimHasClient] > 0 && scores[ClaimHasContractor] > 0) ||
		(master && letterForm)
	if master {
		relationship = true
		base = min(0.95, base+0.20)
	}

	threshold := 0.70
	if master {
		threshold = 0.65
	}

	return Evaluation{
		Score:           base,
		Relationship:    relationship,
		CriticalPresent: criticalFound == 2,
		Certifiable:     relationship && base >= threshold,
		MasterAgreement: master,
		ClaimScores:     scores,
	}
}
