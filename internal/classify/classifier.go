package classify

import (
	"math"
	"strings"
)

const (
	keywordWeight = 3

	// contractFloor is the minimum confidence granted to any text that
	// clears the contract family's match threshold. Semantic documents
	// carry weak layout signals, so raw normalized scores undercount them.
	contractFloor = 0.6

	// coOccurrenceKeywordRatio is the share of companion keywords that must
	// be present for a co-occurrence boost to fire.
	coOccurrenceKeywordRatio = 0.7

	minSignificantChars = 10
)

// Classifier scores text against the compiled family rule tables.
// The zero value is not usable; construct with New.
type Classifier struct {
	rules []familyRule
}

// New returns a Classifier over the built-in rule tables.
func New() *Classifier {
	return &Classifier{rules: familyRules}
}

type candidate struct {
	rule    familyRule
	result  Result
	matched int
}

// Classify assigns text to a document family and subtype. It is total: any
// input yields a Result, with unrecognizable text mapping to FamilyUnknown
// at zero confidence.
func (c *Classifier) Classify(text string) Result {
	if len(strings.TrimSpace(text)) < minSignificantChars {
		return Unclassified()
	}

	textLower := strings.ToLower(text)

	var best *candidate
	for _, rule := range c.rules {
		cand, ok := c.score(rule, text, textLower)
		if !ok {
			continue
		}
		if best == nil || cand.result.Confidence > best.result.Confidence ||
			(cand.result.Confidence == best.result.Confidence && cand.matched > best.matched) {
			best = &cand
		}
	}
	if best == nil {
		return Unclassified()
	}

	res := best.result
	res.Subtype = classifySubtype(text, textLower, res.Family)
	res.Source = sourceFor(res)
	return res
}

func (c *Classifier) score(rule familyRule, text, textLower string) (candidate, bool) {
	var signals []string

	keywordMatches := 0
	for _, kw := range rule.Keywords {
		if strings.Contains(textLower, kw) {
			keywordMatches++
			signals = append(signals, "kw:"+kw)
		}
	}

	structuralMatches := 0
	for _, pat := range rule.Structural {
		if pat.Re.MatchString(text) {
			structuralMatches++
			signals = append(signals, "re:"+pat.Name)
		}
	}

	boost := 0.0
	for _, pat := range rule.CoOccurrence {
		if !pat.Guard.MatchString(text) {
			continue
		}
		found := 0
		for _, kw := range pat.Keywords {
			if strings.Contains(textLower, kw) {
				found++
			}
		}
		if float64(found) >= float64(len(pat.Keywords))*coOccurrenceKeywordRatio {
			boost += pat.Boost
			signals = append(signals, "co:"+pat.Name)
		}
	}

	if keywordMatches+structuralMatches < rule.MinMatches {
		return candidate{}, false
	}

	score := float64(keywordMatches*keywordWeight + structuralMatches*rule.StructuralWeight)
	totalPossible := float64((len(rule.Keywords) + len(rule.Structural)) * keywordWeight)
	var normalized float64
	if totalPossible > 0 {
		normalized = math.Min(score/totalPossible, MaxConfidence)
	}
	normalized = math.Min(MaxConfidence, normalized+boost)
	if rule.Family == FamilyContract {
		normalized = math.Max(normalized, contractFloor)
	}

	return candidate{
		rule: rule,
		result: Result{
			Family:            rule.Family,
			Confidence:        normalized,
			Signals:           signals,
			KeywordMatches:    keywordMatches,
			StructuralMatches: structuralMatches,
			CoOccurrenceBoost: boost,
		},
		matched: keywordMatches + structuralMatches,
	}, true
}

func sourceFor(res Result) Source {
	switch {
	case res.StructuralMatches > 0:
		return SourceLayout
	case res.KeywordMatches > 0:
		return SourceKeywords
	case res.CoOccurrenceBoost > 0:
		return SourceSemantic
	default:
		return SourceNone
	}
}
