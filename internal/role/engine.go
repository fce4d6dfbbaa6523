package role

import (
	"math"
	"strings"

	"certifi/internal/classify"
)

const maxConfidence = classify.MaxConfidence

// Engine scores text against the compiled role evidence tables.
type Engine struct {
	rules []roleRule
}

// NewEngine returns an Engine over the built-in evidence tables.
func NewEngine() *Engine {
	return &Engine{rules: roleRules}
}

type roleScore struct {
	rule  roleRule
	score int
	hard  []string
	soft  []string
}

// Infer determines the subject's role in the text. It is total: empty or
// signal-free text yields Unknown with zero confidence. When two roles tie
// on score the result is Unknown, a deliberate conservative default.
func (e *Engine) Infer(text string, family classify.Family) Inference {
	if strings.TrimSpace(text) == "" {
		return Unresolved()
	}

	var scores []roleScore
	for _, rule := range e.rules {
		s := scoreRole(rule, text)
		if s.score > 0 {
			scores = append(scores, s)
		}
	}
	if len(scores) == 0 {
		return Unresolved()
	}

	best := scores[0]
	tied := false
	for _, s := range scores[1:] {
		switch {
		case s.score > best.score:
			best = s
			tied = false
		case s.score == best.score:
			tied = true
		}
	}
	if tied {
		return Unresolved()
	}

	var confidence float64
	var evidence EvidenceType
	switch {
	case len(best.hard) > 0:
		confidence = math.Min(0.95, 0.70+float64(len(best.hard))*0.10)
		evidence = EvidenceHard
	case len(best.soft) > 0:
		confidence = math.Min(0.75, 0.50+float64(len(best.soft))*0.05)
		evidence = EvidenceSoft
	default:
		return Unresolved()
	}

	// Families that exist to document contractor work corroborate a
	// contractor inference.
	if best.rule.Role == Contractor && contractorFamilies[family] {
		confidence = math.Min(maxConfidence, confidence+0.10)
	}

	return Inference{
		Role:       best.rule.Role,
		Confidence: confidence,
		Evidence:   evidence,
		Signals:    append(best.hard, best.soft...),
		HardCount:  len(best.hard),
		SoftCount:  len(best.soft),
	}
}

var contractorFamilies = map[classify.Family]bool{
	classify.FamilyContract:    true,
	classify.FamilyCertificate: true,
	classify.FamilyFinancial:   true,
}

func scoreRole(rule roleRule, text string) roleScore {
	s := roleScore{rule: rule}
	for _, pat := range rule.Hard {
		if matchesWithoutNegation(pat, text) {
			s.hard = append(s.hard, pat.Name)
		}
	}
	for _, pat := range rule.Soft {
		if pat.Re.MatchString(text) {
			s.soft = append(s.soft, pat.Name)
		}
	}
	s.score = len(s.hard)*3 + len(s.soft)
	return s
}

// matchesWithoutNegation reports whether pat matches anywhere in text with
// no negating phrase immediately before the match.
func matchesWithoutNegation(pat signal, text string) bool {
	for _, loc := range pat.Re.FindAllStringIndex(text, -1) {
		start := loc[0] - negationWindow
		if start < 0 {
			start = 0
		}
		if !negationRe.MatchString(text[start:loc[0]]) {
			return true
		}
	}
	return false
}
