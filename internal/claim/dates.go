package claim

import (
	"regexp"
	"strings"
	"time"
)

// startDatePatterns are ordered ISO-labelled forms first: an explicit
// "Effective Date: 2025-01-15" beats a date buried in prose.
var startDatePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:effective|start|commencement)\s+date[:\s]+(\d{4}[-/]\d{1,2}[-/]\d{1,2})`),
	regexp.MustCompile(`(?i)(?:effective|commencing|starting)\s+(?:as\s+of\s+|on\s+|from\s+)?(\d{4}[-/]\d{1,2}[-/]\d{1,2})`),
	regexp.MustCompile(`(?i)dated\s+(\d{4}-\d{2}-\d{2})`),
	regexp.MustCompile(`(?i)(?:effective|start|commencement)\s+date[:\s]+([A-Z][a-z]+\s+\d{1,2},?\s+\d{4})`),
	regexp.MustCompile(`(?i)(?:effective|commencing|starting)\s+(?:as\s+of\s+|on\s+|from\s+)?([A-Z][a-z]+\s+\d{1,2},?\s+\d{4})`),
	regexp.MustCompile(`(?i)from\s+(\d{4}[-/]\d{1,2}[-/]\d{1,2})`),
	regexp.MustCompile(`(?i)(?:effective|start|commencement)\s+date[:\s]+(\d{1,2}[-/]\d{1,2}[-/]\d{2,4})`),
}

// endDatePatterns put written-month forms first since termination terms
// are commonly spelled out, then ISO, then numeric fallbacks.
var endDatePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:until|through|expires?\s+on|expiry|expiration\s+date[:\s]|end(?:ing)?\s+date[:\s]|terminat(?:es|ion)\s+(?:date[:\s]|on\s+))\s*([A-Z][a-z]+\s+\d{1,2},?\s+\d{4})`),
	regexp.MustCompile(`(?i)(?:until|through|expires?\s+on|valid\s+until)\s+(\d{4}[-/]\d{1,2}[-/]\d{1,2})`),
	regexp.MustCompile(`(?i)(?:expiry|expiration|end(?:ing)?|termination)\s+date[:\s]+(\d{4}[-/]\d{1,2}[-/]\d{1,2})`),
	regexp.MustCompile(`(?i)(?:until|through|expires?\s+on|valid\s+until)\s+(\d{1,2}[-/]\d{1,2}[-/]\d{2,4})`),
}

// dateLayouts are tried in order. Numeric month/day forms resolve
// month-first; day-first input only parses when the month slot overflows.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"2006-1-2",
	"2006/1/2",
	"January 2, 2006",
	"January 2 2006",
	"1/2/2006",
	"1-2-2006",
	"2/1/2006",
	"1/2/06",
}

func parseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

func extractDate(text string, patterns []*regexp.Regexp) *time.Time {
	normalized := whitespaceRe.ReplaceAllString(text, " ")
	for _, re := range patterns {
		if m := re.FindStringSubmatch(normalized); m != nil {
			if t, ok := parseDate(m[1]); ok {
				return &t
			}
		}
	}
	return nil
}
