//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"teranga/internal/fusion"
	"teranga/internal/fusion/store"
	"teranga/pkg/domain"
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
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "evidence_entries"))
}

func (s *PostgresStoreSuite) TestAppendAndHistoryRoundTrip() {
	ctx := context.Background()
	subject := domain.MustSubjectID("subj-0001")
	verifiedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	entries := []fusion.DataSourceInfo{
		{
			SourceID: "api-telco", SourceName: "telco", SourceType: fusion.SourceAPI,
			Status: fusion.StatusVerified, Field: domain.MustFieldName("phone_number"),
			Confidence: 95, VerificationMethod: "carrier_lookup",
			VerifiedAt: &verifiedAt, VerifiedBy: "telco-sn",
			RawValue: "+221771234567", NormalizedValue: "+221771234567",
		},
		{
			SourceID: "user-form", SourceName: "self declaration", SourceType: fusion.SourceUserInput,
			Status: fusion.StatusDeclared, Field: domain.MustFieldName("monthly_income"),
			Confidence: 50, RawValue: "150000 FCFA", NormalizedValue: "150000",
			DiscrepancyNotes: []string{"declared without supporting document"},
		},
	}
	s.Require().NoError(s.store.Append(ctx, subject, entries))

	history, err := s.store.History(ctx, subject)
	s.Require().NoError(err)
	s.Require().Len(history, 2)

	s.Equal("api-telco", history[0].SourceID)
	s.Equal(fusion.StatusVerified, history[0].Status)
	s.Require().NotNil(history[0].VerifiedAt)
	s.True(history[0].VerifiedAt.Equal(verifiedAt))

	s.Equal("user-form", history[1].SourceID)
	s.Equal([]string{"declared without supporting document"}, history[1].DiscrepancyNotes)
}

func (s *PostgresStoreSuite) TestHistoryIsolatedPerSubject() {
	ctx := context.Background()
	entry := fusion.DataSourceInfo{
		SourceID: "registry", SourceType: fusion.SourcePublicRegistry,
		Status: fusion.StatusVerified, Field: domain.MustFieldName("business_name"),
		Confidence: 80, RawValue: "Boutique Awa", NormalizedValue: "boutique awa",
	}
	s.Require().NoError(s.store.Append(ctx, domain.MustSubjectID("subj-0001"), []fusion.DataSourceInfo{entry}))

	history, err := s.store.History(ctx, domain.MustSubjectID("subj-0002"))
	s.Require().NoError(err)
	s.Empty(history)
}

func (s *PostgresStoreSuite) TestAppendIsAppendOnly() {
	ctx := context.Background()
	subject := domain.MustSubjectID("subj-0001")
	entry := fusion.DataSourceInfo{
		SourceID: "user-form", SourceType: fusion.SourceUserInput,
		Status: fusion.StatusDeclared, Field: domain.MustFieldName("monthly_income"),
		Confidence: 50, RawValue: "150000", NormalizedValue: "150000",
	}

	// The same evidence appended twice yields two history rows; corrections
	// supersede, they never overwrite.
	s.Require().NoError(s.store.Append(ctx, subject, []fusion.DataSourceInfo{entry}))
	s.Require().NoError(s.store.Append(ctx, subject, []fusion.DataSourceInfo{entry}))

	history, err := s.store.History(ctx, subject)
	s.Require().NoError(err)
	s.Len(history, 2)
}
