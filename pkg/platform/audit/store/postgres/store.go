package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	audit "teranga/pkg/platform/audit"
)

// Store implements audit.Store on PostgreSQL. The audit_events table is
// append-only; retention is enforced by an external archival job.
type Store struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) Append(ctx context.Context, event audit.Event) error {
	// Category is always derived from the action so the eventCategories map
	// stays the single source of truth.
	category := audit.AuditEvent(event.Action).Category()

	_, err := s.pool.Exec(ctx, `
		INSERT INTO audit_events (
			id, category, occurred_at, audit_ref, action,
			subject_hash, name_hash, decision, reason, list_version,
			request_id, detail
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		uuid.New(), string(category), event.Timestamp, event.AuditRef, event.Action,
		event.SubjectHash, event.NameHash, event.Decision, event.Reason, event.ListVersion,
		event.RequestID, event.Detail,
	)
	if err != nil {
		return fmt.Errorf("append audit event: %w", err)
	}
	return nil
}

func (s *Store) FindByRef(ctx context.Context, auditRef string) ([]audit.Event, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT category, occurred_at, audit_ref, action,
		       subject_hash, name_hash, decision, reason, list_version,
		       request_id, detail
		FROM audit_events
		WHERE audit_ref = $1
		ORDER BY occurred_at, seq`,
		auditRef,
	)
	if err != nil {
		return nil, fmt.Errorf("find audit events: %w", err)
	}
	defer rows.Close()

	var events []audit.Event
	for rows.Next() {
		var e audit.Event
		var category string
		if err := rows.Scan(
			&category, &e.Timestamp, &e.AuditRef, &e.Action,
			&e.SubjectHash, &e.NameHash, &e.Decision, &e.Reason, &e.ListVersion,
			&e.RequestID, &e.Detail,
		); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		e.Category = audit.EventCategory(category)
		events = append(events, e)
	}
	return events, rows.Err()
}
