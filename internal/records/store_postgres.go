package records

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"certifi/internal/pipeline"
)

// PostgresStore persists certification records as JSONB. A partial
// unique index on the canonical hash of ready records makes the
// database the arbiter of duplicates under concurrent submissions.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const schema = `
CREATE TABLE IF NOT EXISTS certification_records (
	id             UUID PRIMARY KEY,
	canonical_hash TEXT,
	ready          BOOLEAN NOT NULL,
	processed_at   TIMESTAMPTZ NOT NULL,
	record         JSONB NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS certification_records_hash_idx
	ON certification_records (canonical_hash) WHERE ready;
CREATE INDEX IF NOT EXISTS certification_records_processed_idx
	ON certification_records (processed_at DESC);`

// Migrate creates the records schema if it does not exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("migrate certification records: %w", err)
	}
	return nil
}

const insertRecordSQL = `
INSERT INTO certification_records (id, canonical_hash, ready, processed_at, record)
VALUES ($1, NULLIF($2, ''), $3, $4, $5)
ON CONFLICT (canonical_hash) WHERE ready DO NOTHING`

const selectOwnerSQL = `
SELECT id FROM certification_records WHERE canonical_hash = $1 AND ready`

func (s *PostgresStore) Save(ctx context.Context, rec pipeline.CertificationRecord) (SaveResult, error) {
	payload, err := json.Marshal(rec)
	if err != nil {
		return SaveResult{}, fmt.Errorf("encode certification record: %w", err)
	}

	tag, err := s.pool.Exec(ctx, insertRecordSQL,
		rec.ID, rec.CanonicalHash, rec.Decision.Ready, rec.ProcessedAt, payload)
	if err != nil {
		return SaveResult{}, fmt.Errorf("save certification record: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return SaveResult{ID: rec.ID}, nil
	}

	var existing string
	if err := s.pool.QueryRow(ctx, selectOwnerSQL, rec.CanonicalHash).Scan(&existing); err != nil {
		return SaveResult{}, fmt.Errorf("resolve duplicate record owner: %w", err)
	}
	return SaveResult{ID: rec.ID, Duplicate: true, ExistingID: existing}, nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (pipeline.CertificationRecord, error) {
	var payload []byte
	err := s.pool.QueryRow(ctx, `SELECT record FROM certification_records WHERE id = $1`, id).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return pipeline.CertificationRecord{}, ErrNotFound
	}
	if err != nil {
		return pipeline.CertificationRecord{}, fmt.Errorf("get certification record: %w", err)
	}
	return decodeRecord(payload)
}

func (s *PostgresStore) ListRecent(ctx context.Context, limit int) ([]pipeline.CertificationRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.pool.Query(ctx,
		`SELECT record FROM certification_records ORDER BY processed_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list certification records: %w", err)
	}
	defer rows.Close()

	var out []pipeline.CertificationRecord
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan certification record: %w", err)
		}
		rec, err := decodeRecord(payload)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list certification records: %w", err)
	}
	return out, nil
}

func decodeRecord(payload []byte) (pipeline.CertificationRecord, error) {
	var rec pipeline.CertificationRecord
	if err := json.Unmarshal(payload, &rec); err != nil {
		return pipeline.CertificationRecord{}, fmt.Errorf("decode certification record: %w", err)
	}
	return rec, nil
}
