// Package extract pulls structured fields out of layout-bearing
// documents: identity cards and passports (machine readable zone),
// driving licences (numbered layout fields), invoices and degree
// certificates (labelled fields). Free-text semantic documents are the
// claim package's job, not this one's.
package extract

import "certifi/internal/classify"

// Source names the evidence channel a document's fields came from.
// MRZ and layout rules outrank free-text OCR patterns.
type Source string

const (
	SourceMRZ         Source = "mrz"
	SourceLayoutRules Source = "layout_rules"
	SourceOCR         Source = "ocr"
	SourceNone        Source = ""
)

// Field is one extracted value with its own confidence. Dates are
// normalized to YYYY-MM-DD; everything else keeps its captured form.
type Field struct {
	Name       string
	Value      string
	Confidence float64
}

// Document is the structured extraction result. Extraction is total:
// unmatched fields land in MissingFields, never in an error.
type Document struct {
	Family        classify.Family
	Fields        []Field
	Confidence    float64
	TrustedSource Source
	MissingFields []string
}

// Field returns the named field, if extracted.
func (d Document) Field(name string) (Field, bool) {
	for _, f := range d.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Value returns the named field's value, or empty.
func (d Document) Value(name string) string {
	f, _ := d.Field(name)
	return f.Value
}

// CriticalConfidence is the weakest-link confidence across the given
// required field names; absent fields count as zero.
func (d Document) CriticalConfidence(required []string) float64 {
	if len(required) == 0 {
		return 0
	}
	lowest := 1.0
	for _, name := range required {
		f, ok := d.Field(name)
		if !ok {
			return 0
		}
		if f.Confidence < lowest {
			lowest = f.Confidence
		}
	}
	return lowest
}

func (d *Document) add(name, value string, confidence float64) {
	if value == "" {
		return
	}
	if _, ok := d.Field(name); ok {
		return
	}
	d.Fields = append(d.Fields, Field{Name: name, Value: value, Confidence: confidence})
}

func (d *Document) markMissing(required []string) {
	for _, name := range required {
		if _, ok := d.Field(name); !ok {
			d.MissingFields = append(d.MissingFields, name)
		}
	}
}
