// Package records persists certification records and enforces
// fingerprint-level deduplication: one canonical hash, one certified
// record, regardless of how many times the same document is submitted.
package records

import (
	"context"

	"certifi/internal/pipeline"
	domainerrors "certifi/pkg/domain-errors"
)

// ErrNotFound is returned by Get when no record has the given ID.
var ErrNotFound = domainerrors.New(domainerrors.CodeNotFound, "certification record not found")

// SaveResult reports where a record landed. When the canonical hash is
// already certified, Duplicate is true and ExistingID names the record
// that owns the fingerprint; the new record is not stored.
type SaveResult struct {
	ID         string
	Duplicate  bool
	ExistingID string
}

// Store persists certification records. Only ready records reserve
// their canonical hash: not-ready records share coarse fingerprints by
// construction and are always stored.
type Store interface {
	Save(ctx context.Context, rec pipeline.CertificationRecord) (SaveResult, error)
	Get(ctx context.Context, id string) (pipeline.CertificationRecord, error)
	ListRecent(ctx context.Context, limit int) ([]pipeline.CertificationRecord, error)
}

func dedupes(rec pipeline.CertificationRecord) bool {
	return rec.Decision.Ready && rec.CanonicalHash != ""
}
