package claim

import (
	"regexp"
	"strings"
)

// companySuffixes anchors company-name extraction so that arbitrary
// capitalised prose is not mistaken for a party.
const companySuffixes = `COMPANY|CORPORATION|CORP|INCORPORATED|INC|LIMITED|LTD|LLC|LLP|GMBH|AG|PLC|SA|BV|FZE|FZCO|DMCC`

// subjectPatterns resolve what is being provided or who provides it.
// Service-description patterns come first: a scope of work is stronger
// evidence than a name on a letterhead. Order matters.
var subjectPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)scope\s+of\s+(?:services|work)[:\s]+([^\n.]{10,150})`),
	regexp.MustCompile(`(?i)services\s+(?:provided|rendered|performed)[:\s]+([^\n.]{10,150})`),
	regexp.MustCompile(`(?i)(?:shall|will|agrees?\s+to)\s+provide\s+([^\n.]{10,150})`),
	regexp.MustCompile(`(?i)providing\s+([A-Za-z][^\n.]{8,150}?)\s+services`),
	regexp.MustCompile(`(?i)(?:independent\s+)?contractor(?:\s+name)?[:\s]+([A-Z][^\n,.]{4,100})`),
	regexp.MustCompile(`(?i)provided\s+by\s+([A-Z][A-Z\s&.]+?(?:` + companySuffixes + `))\s*\(\s*["']?service\s+provider["']?\s*\)`),
	regexp.MustCompile(`(?i)^([A-Z][A-Z\s&.]+(?:` + companySuffixes + `))\s*$`),
}

// subjectStoplist rejects captures that describe the agreement itself
// rather than a party or a service.
var subjectStoplist = []string{
	"this agreement", "the parties", "the terms", "the services",
	"hereinafter", "whereas", "signature", "witness",
}

// entityPatterns resolve the counterparty the subject works for,
// highest-precision forms first.
var entityPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)([A-Z][A-Za-z\s&.]+?(?:` + companySuffixes + `))\s*\(\s*["']?(?:the\s+)?client["']?\s*\)`),
	regexp.MustCompile(`(?i)client(?:\s+name)?[:\s]+([A-Z][^\n,.]{4,100})`),
	regexp.MustCompile(`(?i)(?:services\s+)?requested\s+by\s+([A-Z][A-Za-z\s&.]{1,80}?)\s*\(\s*["']?client["']?\s*\)`),
	regexp.MustCompile(`(?i)on\s+behalf\s+of\s+([A-Z][A-Za-z\s&.]{4,80}?)(?:[,.\n]|$)`),
	regexp.MustCompile(`[Dd]ear\s+([A-Z][a-z]+)`),
}

// entityInvalidStarts and entityVerbs filter captures that begin a
// sentence rather than name a party.
var entityInvalidStarts = []string{"the ", "a ", "an ", "this ", "any ", "all ", "po box", "p.o."}

var entityVerbs = []string{" shall ", " will ", " agrees ", " hereby ", " must "}

// servicePatterns pull the free-text description of what is delivered.
var servicePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)description\s+of\s+services[:\s]+([^\n]{5,200})`),
	regexp.MustCompile(`(?i)services[:\s]+([^\n]{5,200})`),
	regexp.MustCompile(`(?i)engaged\s+to\s+(?:provide|perform)\s+([^\n.]{5,200})`),
}

// cleanCapture normalises a regex capture into a usable field value.
func cleanCapture(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, `"'`)
	s = strings.TrimLeft(s, "-*• \t")
	s = strings.TrimRight(s, " ,;:")
	if len(s) > 150 {
		s = strings.TrimSpace(s[:150])
	}
	return s
}

func validSubject(s string) bool {
	if len(s) < 10 {
		return false
	}
	lower := strings.ToLower(s)
	for _, stop := range subjectStoplist {
		if strings.Contains(lower, stop) {
			return false
		}
	}
	return true
}

func validEntity(s string) bool {
	if len(s) < 5 {
		return false
	}
	lower := strings.ToLower(s)
	for _, prefix := range entityInvalidStarts {
		if strings.HasPrefix(lower, prefix) {
			return false
		}
	}
	padded := " " + lower + " "
	for _, verb := range entityVerbs {
		if strings.Contains(padded, verb) {
			return false
		}
	}
	return true
}

// extractSubject walks subjectPatterns in order on raw text so that
// description captures stay line-bounded; the header pattern is tried
// line by line.
func extractSubject(text string) string {
	for _, re := range subjectPatterns[:len(subjectPatterns)-1] {
		if m := re.FindStringSubmatch(text); m != nil {
			if s := cleanCapture(m[1]); validSubject(s) {
				return s
			}
		}
	}
	header := subjectPatterns[len(subjectPatterns)-1]
	for line := range strings.SplitSeq(headOf(text, 400), "\n") {
		if m := header.FindStringSubmatch(strings.TrimSpace(line)); m != nil {
			if s := cleanCapture(m[1]); validSubject(s) {
				return s
			}
		}
	}
	return ""
}

func extractEntity(text, subject string) string {
	for _, re := range entityPatterns {
		for _, m := range re.FindAllStringSubmatch(text, 5) {
			s := cleanCapture(m[1])
			if !validEntity(s) && !isPersonName(s) {
				continue
			}
			// The subject never certifies a relationship with itself.
			if subject != "" && strings.EqualFold(s, subject) {
				continue
			}
			return s
		}
	}
	return ""
}

// isPersonName admits short single-token names that validEntity's
// five-character minimum would reject, such as a salutation target.
func isPersonName(s string) bool {
	return len(s) >= 3 && personNameRe.MatchString(s)
}

// extractServices runs on raw text so captures stay line-bounded.
func extractServices(text string) string {
	for _, re := range servicePatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			if s := cleanCapture(m[1]); len(s) > 5 {
				return s
			}
		}
	}
	return ""
}

func headOf(text string, n int) string {
	if len(text) > n {
		return text[:n]
	}
	return text
}

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	personNameRe = regexp.MustCompile(`^[A-Z][a-z]+$`)
)
