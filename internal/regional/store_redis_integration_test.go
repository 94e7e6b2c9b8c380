//go:build integration

package regional_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"teranga/internal/regional"
	"teranga/pkg/domain"
	"teranga/pkg/testutil/containers"
)

type RedisSnapshotStoreSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	store *regional.RedisSnapshotStore
}

func TestRedisSnapshotStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisSnapshotStoreSuite))
}

func (s *RedisSnapshotStoreSuite) SetupSuite() {
	s.redis = containers.NewRedisContainer(s.T())
	s.store = regional.NewRedisSnapshotStore(s.redis.Client, time.Hour)
}

func (s *RedisSnapshotStoreSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisSnapshotStoreSuite) TestSaveAndFindRoundTrip() {
	ctx := context.Background()
	snap := regional.Snapshot{
		Country:   domain.MustCountryCode("SN"),
		Year:      2024,
		Version:   "SN-2024-20250615T100000Z",
		FetchedAt: time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC),
		Context: regional.EconomicContext{
			Country:                domain.MustCountryCode("SN"),
			GDPPerCapita:           1600,
			InflationRate:          3.0,
			FinancialInclusionRate: 50,
			MobileMoneyPenetration: 60,
			RiskAdjustment:         1.86,
			DataYear:               2024,
			Sources:                []string{"open_data_portal"},
		},
	}
	s.Require().NoError(s.store.Save(ctx, snap))

	found, err := s.store.Find(ctx, domain.MustCountryCode("SN"), 2024)
	s.Require().NoError(err)
	s.Require().NotNil(found)
	s.Equal(snap.Version, found.Version)
	s.Equal(snap.Context.RiskAdjustment, found.Context.RiskAdjustment)
	s.True(found.FetchedAt.Equal(snap.FetchedAt))
}

func (s *RedisSnapshotStoreSuite) TestFindMissReturnsNil() {
	found, err := s.store.Find(context.Background(), domain.MustCountryCode("ML"), 2024)
	s.Require().NoError(err)
	s.Nil(found)
}

func (s *RedisSnapshotStoreSuite) TestSnapshotsKeyedPerCountryAndYear() {
	ctx := context.Background()
	base := regional.Snapshot{
		Country: domain.MustCountryCode("SN"), Year: 2024,
		Version: "SN-2024-a", FetchedAt: time.Now().UTC(),
	}
	other := base
	other.Year = 2023
	other.Version = "SN-2023-a"

	s.Require().NoError(s.store.Save(ctx, base))
	s.Require().NoError(s.store.Save(ctx, other))

	found, err := s.store.Find(ctx, domain.MustCountryCode("SN"), 2023)
	s.Require().NoError(err)
	s.Require().NotNil(found)
	s.Equal("SN-2023-a", found.Version)
}
