package records

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"certifi/internal/pipeline"
)

const hashKeyPrefix = "certifi:hash:"

// HashIndex reserves canonical hashes in Redis with SETNX so multiple
// gateway instances agree on the first certifier of a fingerprint.
type HashIndex struct {
	rdb redis.UniversalClient
	ttl time.Duration
}

// NewHashIndex builds an index over rdb. A zero ttl keeps reservations
// forever.
func NewHashIndex(rdb redis.UniversalClient, ttl time.Duration) *HashIndex {
	return &HashIndex{rdb: rdb, ttl: ttl}
}

// Reserve claims hash for id. It returns the owning record ID and
// whether the claim is fresh; a false second value means another record
// already owns the fingerprint.
func (i *HashIndex) Reserve(ctx context.Context, hash, id string) (string, bool, error) {
	ok, err := i.rdb.SetNX(ctx, hashKeyPrefix+hash, id, i.ttl).Result()
	if err != nil {
		return "", false, fmt.Errorf("reserve canonical hash: %w", err)
	}
	if ok {
		return id, true, nil
	}

	existing, err := i.rdb.Get(ctx, hashKeyPrefix+hash).Result()
	if errors.Is(err, redis.Nil) {
		// Reservation expired between the two calls; treat as fresh.
		return id, true, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("resolve canonical hash owner: %w", err)
	}
	return existing, false, nil
}

// Release drops a reservation, used to roll back when the underlying
// save fails.
func (i *HashIndex) Release(ctx context.Context, hash string) error {
	if err := i.rdb.Del(ctx, hashKeyPrefix+hash).Err(); err != nil {
		return fmt.Errorf("release canonical hash: %w", err)
	}
	return nil
}

// DedupStore fronts a Store with a shared HashIndex, so deduplication
// holds across processes that do not share the backing store's
// transactional guarantees.
type DedupStore struct {
	inner Store
	index *HashIndex
}

func NewDedup(inner Store, index *HashIndex) *DedupStore {
	return &DedupStore{inner: inner, index: index}
}

func (s *DedupStore) Save(ctx context.Context, rec pipeline.CertificationRecord) (SaveResult, error) {
	if !dedupes(rec) {
		return s.inner.Save(ctx, rec)
	}

	owner, fresh, err := s.index.Reserve(ctx, rec.CanonicalHash, rec.ID)
	if err != nil {
		return SaveResult{}, err
	}
	if !fresh {
		return SaveResult{ID: rec.ID, Duplicate: true, ExistingID: owner}, nil
	}

	res, err := s.inner.Save(ctx, rec)
	if err != nil {
		if relErr := s.index.Release(ctx, rec.CanonicalHash); relErr != nil {
			err = errors.Join(err, relErr)
		}
		return SaveResult{}, err
	}
	return res, nil
}

func (s *DedupStore) Get(ctx context.Context, id string) (pipeline.CertificationRecord, error) {
	return s.inner.Get(ctx, id)
}

func (s *DedupStore) ListRecent(ctx context.Context, limit int) ([]pipeline.CertificationRecord, error) {
	return s.inner.ListRecent(ctx, limit)
}
