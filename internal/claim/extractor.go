package claim

import (
	"log/slog"
	"strings"

	"certifi/internal/classify"
	"certifi/internal/role"
)

// Extractor turns raw document text into a Claim. The pattern pass runs
// first and always; a recognizer, when configured, only fills fields the
// pattern pass left empty.
type Extractor struct {
	recognizer EntityRecognizer
	logger     *slog.Logger
}

func NewExtractor(recognizer EntityRecognizer, logger *slog.Logger) *Extractor {
	return &Extractor{recognizer: recognizer, logger: logger}
}

// Extract never fails: unresolved fields stay empty and the confidence
// reflects how much was found.
func (e *Extractor) Extract(text string, inferred role.Role, family classify.Family) Claim {
	c := Claim{Role: inferred, Method: MethodPattern}
	if strings.TrimSpace(text) == "" {
		c.Confidence = 0.30
		c.Evidence = role.EvidenceNone
		return c
	}

	c.Subject = extractSubject(text)
	c.Entity = extractEntity(text, c.Subject)
	c.StartDate = extractDate(text, startDatePatterns)
	c.EndDate = extractDate(text, endDatePatterns)
	c.Amount, c.Currency, c.SecondaryAmount, c.SecondaryCurrency = extractAmount(text)
	c.Services = extractServices(text)

	patternCritical := c.criticalFieldsResolved()
	if e.recognizer != nil && patternCritical < 3 {
		e.fillFromRecognizer(text, &c)
		if c.criticalFieldsResolved()-patternCritical > patternCritical {
			c.Method = MethodNER
		}
	}

	c.Confidence = componentConfidence(c)
	c.Evidence = evidenceType(c)
	return c
}

// fillFromRecognizer merges recognizer entities into empty fields only.
// A panicking or failing recognizer degrades to the pattern-only result.
func (e *Extractor) fillFromRecognizer(text string, c *Claim) {
	defer func() {
		if r := recover(); r != nil && e.logger != nil {
			e.logger.Warn("entity recognizer panicked, keeping pattern results", "panic", r)
		}
	}()

	entities, err := e.recognizer.Recognize(text)
	if err != nil {
		if e.logger != nil {
			e.logger.Warn("entity recognizer failed, keeping pattern results", "error", err)
		}
		return
	}

	for _, ent := range entities {
		switch ent.Label {
		case LabelOrganization:
			if c.Subject == "" {
				c.Subject = cleanCapture(ent.Text)
			} else if c.Entity == "" && !strings.EqualFold(ent.Text, c.Subject) {
				c.Entity = cleanCapture(ent.Text)
			}
		case LabelPerson:
			if c.Entity == "" {
				c.Entity = cleanCapture(ent.Text)
			}
		case LabelDate:
			if c.StartDate == nil {
				if t, ok := parseDate(ent.Text); ok {
					c.StartDate = &t
				}
			}
		case LabelMoney:
			if c.Amount == nil {
				if amt, cur, _, _ := extractAmount(ent.Text); amt != nil {
					c.Amount, c.Currency = amt, cur
				}
			}
		}
	}
}

// componentConfidence scores how complete the claim is. Subject, entity
// and start date each count 1, an amount counts a half.
func componentConfidence(c Claim) float64 {
	score := float64(c.criticalFieldsResolved())
	if c.Amount != nil {
		score += 0.5
	}
	switch {
	case score >= 3:
		return 0.85
	case score >= 2:
		return 0.70
	case score >= 1:
		return 0.50
	default:
		return 0.30
	}
}

func evidenceType(c Claim) role.EvidenceType {
	switch {
	case c.Subject != "" && c.Entity != "" && c.StartDate != nil:
		return role.EvidenceHard
	case c.Subject != "" || c.Entity != "":
		return role.EvidenceSoft
	default:
		return role.EvidenceNone
	}
}
