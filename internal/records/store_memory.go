package records

import (
	"context"
	"sort"
	"sync"

	"certifi/internal/pipeline"
)

// MemoryStore is an in-memory Store for tests and single-node runs.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]pipeline.CertificationRecord
	byHash  map[string]string
}

func NewMemory() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]pipeline.CertificationRecord),
		byHash:  make(map[string]string),
	}
}

func (s *MemoryStore) Save(_ context.Context, rec pipeline.CertificationRecord) (SaveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if dedupes(rec) {
		if existing, ok := s.byHash[rec.CanonicalHash]; ok {
			return SaveResult{ID: rec.ID, Duplicate: true, ExistingID: existing}, nil
		}
		s.byHash[rec.CanonicalHash] = rec.ID
	}
	s.records[rec.ID] = rec
	return SaveResult{ID: rec.ID}, nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (pipeline.CertificationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[id]
	if !ok {
		return pipeline.CertificationRecord{}, ErrNotFound
	}
	return rec, nil
}

func (s *MemoryStore) ListRecent(_ context.Context, limit int) ([]pipeline.CertificationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]pipeline.CertificationRecord, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].ProcessedAt.Equal(out[j].ProcessedAt) {
			return out[i].ProcessedAt.After(out[j].ProcessedAt)
		}
		return out[i].ID < out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
