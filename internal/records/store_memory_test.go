package records

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"certifi/internal/classify"
	"certifi/internal/decision"
	"certifi/internal/pipeline"
)

func readyRecord(id, hash string, at time.Time) pipeline.CertificationRecord {
	return pipeline.CertificationRecord{
		ID:            id,
		ProcessedAt:   at,
		Family:        classify.FamilyContract,
		CanonicalHash: hash,
		Decision:      decision.Decision{Ready: true, FinalConfidence: 0.9, Risk: decision.RiskLow},
	}
}

func Test_MemoryStore_SaveAndGet(t *testing.T) {
	store := NewMemory()
	rec := readyRecord("rec-1", "aaa", time.Now())

	res, err := store.Save(context.Background(), rec)
	require.NoError(t, err)
	assert.Equal(t, SaveResult{ID: "rec-1"}, res)

	got, err := store.Get(context.Background(), "rec-1")
	require.NoError(t, err)
	assert.Equal(t, rec.CanonicalHash, got.CanonicalHash)
}

func Test_MemoryStore_GetUnknownID(t *testing.T) {
	store := NewMemory()

	_, err := store.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func Test_MemoryStore_DuplicateHashReturnsOwner(t *testing.T) {
	store := NewMemory()
	at := time.Now()

	_, err := store.Save(context.Background(), readyRecord("rec-1", "same-hash", at))
	require.NoError(t, err)

	res, err := store.Save(context.Background(), readyRecord("rec-2", "same-hash", at))
	require.NoError(t, err)
	assert.True(t, res.Duplicate)
	assert.Equal(t, "rec-1", res.ExistingID)

	// The duplicate is not stored.
	_, err = store.Get(context.Background(), "rec-2")
	assert.ErrorIs(t, err, ErrNotFound)
}

func Test_MemoryStore_NotReadyRecordsNeverDedupe(t *testing.T) {
	store := NewMemory()

	notReady := pipeline.CertificationRecord{ID: "rec-1", CanonicalHash: "shared"}
	_, err := store.Save(context.Background(), notReady)
	require.NoError(t, err)

	notReady.ID = "rec-2"
	res, err := store.Save(context.Background(), notReady)
	require.NoError(t, err)
	assert.False(t, res.Duplicate)

	_, err = store.Get(context.Background(), "rec-2")
	assert.NoError(t, err)
}

func Test_MemoryStore_ListRecent(t *testing.T) {
	store := NewMemory()
	base := time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC)

	for i, id := range []string{"old", "mid", "new"} {
		_, err := store.Save(context.Background(), readyRecord(id, "hash-"+id, base.Add(time.Duration(i)*time.Hour)))
		require.NoError(t, err)
	}

	got, err := store.ListRecent(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "new", got[0].ID)
	assert.Equal(t, "mid", got[1].ID)
}
