//go:build integration

package containers

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
)

// Schema bootstraps the tables the postgres-backed stores expect. Kept in
// one place so every integration suite runs against the same shape.
const Schema = `
CREATE TABLE IF NOT EXISTS evidence_entries (
	id UUID PRIMARY KEY,
	subject_id TEXT NOT NULL,
	source_id TEXT NOT NULL,
	source_name TEXT NOT NULL DEFAULT '',
	source_type TEXT NOT NULL,
	status TEXT NOT NULL,
	field TEXT NOT NULL,
	confidence DOUBLE PRECISION NOT NULL,
	verification_method TEXT NOT NULL DEFAULT '',
	verified_at TIMESTAMPTZ,
	verified_by TEXT NOT NULL DEFAULT '',
	raw_value TEXT NOT NULL DEFAULT '',
	normalized_value TEXT NOT NULL DEFAULT '',
	discrepancy_notes TEXT[],
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_evidence_subject ON evidence_entries (subject_id, created_at);

CREATE TABLE IF NOT EXISTS attestations (
	id TEXT PRIMARY KEY,
	type_id TEXT NOT NULL,
	partner_id TEXT NOT NULL,
	partner_name TEXT NOT NULL DEFAULT '',
	partner_type TEXT NOT NULL,
	beneficiary_id TEXT NOT NULL,
	beneficiary_name TEXT NOT NULL DEFAULT '',
	attested_data JSONB NOT NULL,
	signature_hash TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	expires_at TIMESTAMPTZ NOT NULL,
	revoked_at TIMESTAMPTZ,
	revocation_reason TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS audit_events (
	id UUID PRIMARY KEY,
	seq BIGSERIAL,
	category TEXT NOT NULL,
	occurred_at TIMESTAMPTZ NOT NULL,
	audit_ref TEXT NOT NULL,
	action TEXT NOT NULL,
	subject_hash TEXT NOT NULL DEFAULT '',
	name_hash TEXT NOT NULL DEFAULT '',
	decision TEXT NOT NULL DEFAULT '',
	reason TEXT NOT NULL DEFAULT '',
	list_version TEXT NOT NULL DEFAULT '',
	request_id TEXT NOT NULL DEFAULT '',
	detail TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_audit_ref ON audit_events (audit_ref, occurred_at, seq);
`

// PostgresContainer wraps a testcontainers PostgreSQL instance with a
// pgx pool connected to a schema-initialized database.
type PostgresContainer struct {
	Container *tcpostgres.PostgresContainer
	Pool      *pgxpool.Pool
}

// NewPostgresContainer starts a PostgreSQL container and applies the
// schema. The container is cleaned up with the test.
func NewPostgresContainer(t *testing.T) *PostgresContainer {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("scoring"),
		tcpostgres.WithUsername("scoring"),
		tcpostgres.WithPassword("scoring"),
		tcpostgres.BasicWaitStrategies(),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get postgres connection string: %v", err)
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("failed to open pgx pool: %v", err)
	}
	t.Cleanup(pool.Close)

	if _, err := pool.Exec(ctx, Schema); err != nil {
		t.Fatalf("failed to apply schema: %v", err)
	}

	return &PostgresContainer{Container: container, Pool: pool}
}

// TruncateTables empties the given tables. Use between tests for
// isolation.
func (p *PostgresContainer) TruncateTables(ctx context.Context, tables ...string) error {
	if len(tables) == 0 {
		return nil
	}
	_, err := p.Pool.Exec(ctx, fmt.Sprintf("TRUNCATE %s", strings.Join(tables, ", ")))
	return err
}
