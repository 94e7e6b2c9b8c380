package audit

import "context"

// Store persists audit events keyed by audit ref. Append-only: events are
// never updated or deleted inside retention.
type Store interface {
	Append(ctx context.Context, event Event) error
	FindByRef(ctx context.Context, auditRef string) ([]Event, error)
}
