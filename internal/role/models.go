// Package role infers the subject's role in a document from semantic
// signals rather than document titles. Certification is about claims
// ("X is a contractor for Y"), so the role is the claim's predicate.
package role

// Role is the closed set of inferable subject roles.
type Role string

const (
	Contractor Role = "contractor"
	Employee   Role = "employee"
	Student    Role = "student"
	Supplier   Role = "supplier"
	Director   Role = "director"
	Unknown    Role = "unknown"
)

// EvidenceType grades the strength of the signals behind an inference.
type EvidenceType string

const (
	EvidenceHard EvidenceType = "hard"
	EvidenceSoft EvidenceType = "soft"
	EvidenceNone EvidenceType = "none"
)

// Inference is the outcome of role inference over one document.
type Inference struct {
	Role       Role
	Confidence float64
	Evidence   EvidenceType
	Signals    []string
	HardCount  int
	SoftCount  int
}

// Unresolved is returned when no role signal matches, or when the top
// candidates tie and picking one would be arbitrary.
func Unresolved() Inference {
	return Inference{Role: Unknown, Evidence: EvidenceNone}
}
