// Package claim extracts and evaluates certifiable claims from semantic
// documents. A claim is a structured statement of the form
// "X is a contractor for Y from date A to B (CUR amount)"; the package
// certifies what a document demonstrates rather than what it is.
package claim

import (
	"fmt"
	"strings"
	"time"

	"certifi/internal/role"
)

// Method records which extraction pass supplied the majority of resolved
// critical fields.
type Method string

const (
	MethodPattern Method = "pattern"
	MethodNER     Method = "ner"
)

// Claim is the structured statement extracted from one document.
// Unresolved fields are nil or empty, never an error.
type Claim struct {
	Subject           string
	Role              role.Role
	Entity            string
	StartDate         *time.Time
	EndDate           *time.Time
	Amount            *float64
	Currency          string
	SecondaryAmount   *float64
	SecondaryCurrency string
	Services          string
	Evidence          role.EvidenceType
	Confidence        float64
	Method            Method
}

// Statement renders the claim as the canonical human-readable sentence.
// The format is stable: it feeds the claim hash.
func (c Claim) Statement() string {
	parts := make([]string, 0, 8)

	if c.Subject != "" {
		parts = append(parts, c.Subject)
	} else {
		parts = append(parts, "[Subject]")
	}
	parts = append(parts, "is a", string(c.Role))

	if c.Entity != "" {
		parts = append(parts, "for", c.Entity)
	}
	if c.StartDate != nil {
		parts = append(parts, "from", c.StartDate.Format("2006-01-02"))
	}
	if c.EndDate != nil {
		parts = append(parts, "until", c.EndDate.Format("2006-01-02"))
	} else if c.StartDate != nil {
		parts = append(parts, "(ongoing)")
	}
	if c.Amount != nil {
		currency := c.Currency
		if currency == "" {
			currency = "USD"
		}
		parts = append(parts, fmt.Sprintf("(%s %.2f)", currency, *c.Amount))
	}

	return strings.Join(parts, " ")
}

// criticalFieldsResolved counts the fields that anchor a claim: subject,
// entity, and start date.
func (c Claim) criticalFieldsResolved() int {
	n := 0
	if c.Subject != "" {
		n++
	}
	if c.Entity != "" {
		n++
	}
	if c.StartDate != nil {
		n++
	}
	return n
}
