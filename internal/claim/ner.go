package claim

// Entity is a single span returned by a named-entity recognizer.
type Entity struct {
	Text  string
	Label string
	Start int
	End   int
}

// Common labels emitted by recognizers. Unknown labels are ignored.
const (
	LabelOrganization = "ORG"
	LabelPerson       = "PERSON"
	LabelDate         = "DATE"
	LabelMoney        = "MONEY"
)

// EntityRecognizer supplies a second extraction pass for fields the
// pattern pass leaves empty. Implementations may be arbitrarily slow or
// flaky: the extractor degrades to pattern-only results on any error or
// panic.
type EntityRecognizer interface {
	Recognize(text string) ([]Entity, error)
}
