package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"teranga/internal/fusion"
	"teranga/pkg/domain"
)

// PostgresStore persists evidence history in PostgreSQL. The
// evidence_entries table is append-only; compensating entries supersede,
// they never overwrite.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Append(ctx context.Context, subjectID domain.SubjectID, entries []fusion.DataSourceInfo) error {
	batch := &pgx.Batch{}
	for _, e := range entries {
		batch.Queue(`
			INSERT INTO evidence_entries (
				id, subject_id, source_id, source_name, source_type, status,
				field, confidence, verification_method, verified_at, verified_by,
				raw_value, normalized_value, discrepancy_notes
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
			uuid.New(), subjectID.String(), e.SourceID, e.SourceName, string(e.SourceType), string(e.Status),
			e.Field.String(), e.Confidence, e.VerificationMethod, e.VerifiedAt, e.VerifiedBy,
			e.RawValue, e.NormalizedValue, e.DiscrepancyNotes,
		)
	}
	results := s.pool.SendBatch(ctx, batch)
	defer results.Close()
	for range entries {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("append evidence entry: %w", err)
		}
	}
	return nil
}

func (s *PostgresStore) History(ctx context.Context, subjectID domain.SubjectID) ([]fusion.DataSourceInfo, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT source_id, source_name, source_type, status, field, confidence,
		       verification_method, verified_at, verified_by,
		       raw_value, normalized_value, discrepancy_notes
		FROM evidence_entries
		WHERE subject_id = $1
		ORDER BY created_at, id`,
		subjectID.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("load evidence history: %w", err)
	}
	defer rows.Close()

	var history []fusion.DataSourceInfo
	for rows.Next() {
		var e fusion.DataSourceInfo
		var sourceType, status, field string
		if err := rows.Scan(
			&e.SourceID, &e.SourceName, &sourceType, &status, &field, &e.Confidence,
			&e.VerificationMethod, &e.VerifiedAt, &e.VerifiedBy,
			&e.RawValue, &e.NormalizedValue, &e.DiscrepancyNotes,
		); err != nil {
			return nil, fmt.Errorf("scan evidence entry: %w", err)
		}
		e.SourceType = fusion.SourceType(sourceType)
		e.Status = fusion.SourceStatus(status)
		f, err := domain.ParseFieldName(field)
		if err != nil {
			return nil, fmt.Errorf("stored evidence has unknown field %q: %w", field, err)
		}
		e.Field = f
		history = append(history, e)
	}
	return history, rows.Err()
}
