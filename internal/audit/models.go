package audit

import "time"

// Actions recorded on the audit trail.
const (
	ActionProcessed  = "document_processed"
	ActionDuplicate  = "duplicate_detected"
	ActionRetrieved  = "record_retrieved"
	ActionSaveFailed = "record_save_failed"
)

// Event captures one pipeline action. Keep it transport-agnostic so
// stores and sinks can fan out.
type Event struct {
	Timestamp  time.Time `json:"timestamp"`
	Action     string    `json:"action"`
	RecordID   string    `json:"record_id"`
	DocumentID string    `json:"document_id,omitempty"`
	Family     string    `json:"family,omitempty"`
	Policy     string    `json:"policy,omitempty"`
	Verdict    string    `json:"verdict,omitempty"`
	Risk       string    `json:"risk,omitempty"`
	Hash       string    `json:"canonical_hash,omitempty"`
	Detail     string    `json:"detail,omitempty"`
}
