//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"teranga/internal/attestation"
	"teranga/internal/attestation/store"
	"teranga/pkg/domain"
	"teranga/pkg/platform/sentinel"
	"teranga/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.store = store.NewPostgresStore(s.postgres.Pool)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "attestations"))
}

func newAttestation() attestation.Attestation {
	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return attestation.Attestation{
		ID:            uuid.NewString(),
		TypeID:        "mfi_income",
		PartnerID:     domain.MustPartnerID("mfi-001"),
		PartnerName:   "Caisse Mutuelle",
		PartnerType:   attestation.PartnerMFI,
		BeneficiaryID: domain.MustSubjectID("subj-0001"),
		AttestedData:  map[string]string{"monthly_income": "150000"},
		SignatureHash: "deadbeef",
		CreatedAt:     created,
		ExpiresAt:     created.AddDate(0, 0, 90),
	}
}

func (s *PostgresStoreSuite) TestSaveAndFindRoundTrip() {
	ctx := context.Background()
	att := newAttestation()
	s.Require().NoError(s.store.Save(ctx, att))

	found, err := s.store.FindByID(ctx, att.ID)
	s.Require().NoError(err)
	s.Equal(att.ID, found.ID)
	s.Equal(att.PartnerID, found.PartnerID)
	s.Equal(att.BeneficiaryID, found.BeneficiaryID)
	s.Equal(att.AttestedData, found.AttestedData)
	s.True(found.CreatedAt.Equal(att.CreatedAt))
	s.True(found.ExpiresAt.Equal(att.ExpiresAt))
	s.Nil(found.RevokedAt)
}

func (s *PostgresStoreSuite) TestFindUnknownReturnsNotFound() {
	_, err := s.store.FindByID(context.Background(), "no-such-id")
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestRevokeIsOneWay() {
	ctx := context.Background()
	att := newAttestation()
	s.Require().NoError(s.store.Save(ctx, att))

	revokedAt := att.CreatedAt.AddDate(0, 0, 30)
	s.Require().NoError(s.store.Revoke(ctx, att.ID, revokedAt, "member defaulted"))

	found, err := s.store.FindByID(ctx, att.ID)
	s.Require().NoError(err)
	s.Require().NotNil(found.RevokedAt)
	s.True(found.RevokedAt.Equal(revokedAt))
	s.Equal("member defaulted", found.RevocationReason)

	// Second revocation must not move the timestamp.
	err = s.store.Revoke(ctx, att.ID, revokedAt.AddDate(0, 0, 1), "again")
	s.ErrorIs(err, sentinel.ErrInvalidState)
}

func (s *PostgresStoreSuite) TestRevokeUnknownReturnsNotFound() {
	err := s.store.Revoke(context.Background(), "no-such-id", time.Now(), "x")
	s.ErrorIs(err, sentinel.ErrNotFound)
}
