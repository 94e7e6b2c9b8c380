package regional

import (
	"context"
	"time"

	"teranga/pkg/domain"
	"teranga/pkg/platform/sentinel"
)

// Client fetches raw indicators from the open-data feed. The interface is
// kept small so tests can stub quickly; retry/backoff belongs to the feed
// collaborator, not the provider.
type Client interface {
	Fetch(ctx context.Context, country domain.CountryCode, year int) ([]Indicator, error)
}

// StaticClient serves a fixed indicator set, optionally simulating latency
// or failure. Used in tests and local development.
type StaticClient struct {
	Latency    time.Duration
	Fail       bool
	Indicators map[string][]Indicator // keyed by country code
}

func (c StaticClient) Fetch(ctx context.Context, country domain.CountryCode, year int) ([]Indicator, error) {
	if c.Latency > 0 {
		select {
		case <-time.After(c.Latency):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if c.Fail {
		return nil, sentinel.ErrUnavailable
	}
	inds, ok := c.Indicators[country.String()]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	out := make([]Indicator, 0, len(inds))
	for _, ind := range inds {
		if ind.Year == year || ind.Year == 0 {
			ind.Country = country
			if ind.Year == 0 {
				ind.Year = year
			}
			out = append(out, ind)
		}
	}
	return out, nil
}
