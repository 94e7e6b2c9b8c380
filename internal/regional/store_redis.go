package regional

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"teranga/pkg/domain"
)

// RedisSnapshotStore persists snapshots in redis so restarts keep the last
// valid regional context even if the feed is down.
type RedisSnapshotStore struct {
	client *goredis.Client
	ttl    time.Duration
}

// NewRedisSnapshotStore creates a snapshot store. Entries live for twice
// the refresh TTL so a stale-but-servable snapshot survives one missed
// refresh cycle.
func NewRedisSnapshotStore(client *goredis.Client, refreshTTL time.Duration) *RedisSnapshotStore {
	return &RedisSnapshotStore{client: client, ttl: 2 * refreshTTL}
}

func redisKey(country domain.CountryCode, year int) string {
	return fmt.Sprintf("regional:snapshot:%s:%d", country, year)
}

type redisSnapshot struct {
	Country   string          `json:"country"`
	Year      int             `json:"year"`
	Version   string          `json:"version"`
	FetchedAt time.Time       `json:"fetched_at"`
	Context   EconomicContext `json:"context"`
}

func (s *RedisSnapshotStore) Save(ctx context.Context, snap Snapshot) error {
	payload, err := json.Marshal(redisSnapshot{
		Country:   snap.Country.String(),
		Year:      snap.Year,
		Version:   snap.Version,
		FetchedAt: snap.FetchedAt,
		Context:   snap.Context,
	})
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := s.client.Set(ctx, redisKey(snap.Country, snap.Year), payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

func (s *RedisSnapshotStore) Find(ctx context.Context, country domain.CountryCode, year int) (*Snapshot, error) {
	raw, err := s.client.Get(ctx, redisKey(country, year)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("find snapshot: %w", err)
	}
	var rs redisSnapshot
	if err := json.Unmarshal(raw, &rs); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	cc, err := domain.ParseCountryCode(rs.Country)
	if err != nil {
		return nil, fmt.Errorf("stored snapshot has invalid country: %w", err)
	}
	return &Snapshot{
		Country:   cc,
		Year:      rs.Year,
		Version:   rs.Version,
		FetchedAt: rs.FetchedAt,
		Context:   rs.Context,
	}, nil
}
