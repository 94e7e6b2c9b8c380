package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"teranga/internal/attestation"
	"teranga/pkg/domain"
	"teranga/pkg/platform/sentinel"
)

// PostgresStore persists attestations in PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Save(ctx context.Context, att attestation.Attestation) error {
	data, err := json.Marshal(att.AttestedData)
	if err != nil {
		return fmt.Errorf("marshal attested data: %w", err)
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO attestations (
			id, type_id, partner_id, partner_name, partner_type,
			beneficiary_id, beneficiary_name, attested_data, signature_hash,
			created_at, expires_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		att.ID, att.TypeID, att.PartnerID.String(), att.PartnerName, string(att.PartnerType),
		att.BeneficiaryID.String(), att.BeneficiaryName, data, att.SignatureHash,
		att.CreatedAt, att.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("save attestation: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id string) (*attestation.Attestation, error) {
	var att attestation.Attestation
	var partnerID, beneficiaryID, partnerType string
	var data []byte

	err := s.pool.QueryRow(ctx, `
		SELECT id, type_id, partner_id, partner_name, partner_type,
		       beneficiary_id, beneficiary_name, attested_data, signature_hash,
		       created_at, expires_at, revoked_at, revocation_reason
		FROM attestations WHERE id = $1`, id,
	).Scan(
		&att.ID, &att.TypeID, &partnerID, &att.PartnerName, &partnerType,
		&beneficiaryID, &att.BeneficiaryName, &data, &att.SignatureHash,
		&att.CreatedAt, &att.ExpiresAt, &att.RevokedAt, &att.RevocationReason,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find attestation: %w", err)
	}

	if err := json.Unmarshal(data, &att.AttestedData); err != nil {
		return nil, fmt.Errorf("unmarshal attested data: %w", err)
	}
	att.PartnerType = attestation.PartnerType(partnerType)
	if att.PartnerID, err = domain.ParsePartnerID(partnerID); err != nil {
		return nil, fmt.Errorf("stored attestation has invalid partner id: %w", err)
	}
	if att.BeneficiaryID, err = domain.ParseSubjectID(beneficiaryID); err != nil {
		return nil, fmt.Errorf("stored attestation has invalid beneficiary id: %w", err)
	}
	return &att, nil
}

func (s *PostgresStore) Revoke(ctx context.Context, id string, revokedAt time.Time, reason string) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE attestations
		SET revoked_at = $2, revocation_reason = $3
		WHERE id = $1 AND revoked_at IS NULL`,
		id, revokedAt, reason,
	)
	if err != nil {
		return fmt.Errorf("revoke attestation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// Either missing or already revoked; disambiguate for the caller.
		if _, ferr := s.FindByID(ctx, id); errors.Is(ferr, sentinel.ErrNotFound) {
			return sentinel.ErrNotFound
		}
		return sentinel.ErrInvalidState
	}
	return nil
}
