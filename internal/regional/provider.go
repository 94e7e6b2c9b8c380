package regional

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"teranga/pkg/domain"
	dErrors "teranga/pkg/domain-errors"
)

// SnapshotStore optionally persists snapshots across restarts (redis).
// The in-process map is always authoritative once warm.
type SnapshotStore interface {
	Save(ctx context.Context, snap Snapshot) error
	Find(ctx context.Context, country domain.CountryCode, year int) (*Snapshot, error)
}

// Provider maintains per-(country, year) snapshots of economic context.
// Snapshots are immutable once built and replaced wholesale on refresh, so
// concurrent readers need no locking beyond the map guard.
type Provider struct {
	client   Client
	baseline Baseline
	ttl      time.Duration
	store    SnapshotStore
	logger   *slog.Logger
	metrics  *Metrics

	mu        sync.RWMutex
	snapshots map[string]*Snapshot
}

type Option func(*Provider)

func WithLogger(logger *slog.Logger) Option {
	return func(p *Provider) { p.logger = logger }
}

func WithSnapshotStore(store SnapshotStore) Option {
	return func(p *Provider) { p.store = store }
}

func WithBaseline(b Baseline) Option {
	return func(p *Provider) { p.baseline = b }
}

func WithMetrics(m *Metrics) Option {
	return func(p *Provider) { p.metrics = m }
}

func New(client Client, ttl time.Duration, opts ...Option) (*Provider, error) {
	if client == nil {
		return nil, fmt.Errorf("regional client is required")
	}
	p := &Provider{
		client:    client,
		baseline:  DefaultBaseline(),
		ttl:       ttl,
		snapshots: make(map[string]*Snapshot),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

func snapKey(country domain.CountryCode, year int) string {
	return fmt.Sprintf("%s:%d", country, year)
}

// Context returns the economic context for a country at asOf, refreshing
// the snapshot when stale. Failure policy is fail-open: a dead feed serves
// the last valid snapshot with a staleness warning, and with no snapshot at
// all the context degrades to a zero risk adjustment.
func (p *Provider) Context(ctx context.Context, country domain.CountryCode, asOf time.Time) (EconomicContext, []string, error) {
	if country.IsZero() {
		return EconomicContext{}, nil, dErrors.New(dErrors.CodeValidation, "country is required")
	}
	year := asOf.Year() - 1 // indicators for a year consolidate the year after

	key := snapKey(country, year)
	p.mu.RLock()
	snap := p.snapshots[key]
	p.mu.RUnlock()

	if snap == nil && p.store != nil {
		if persisted, err := p.store.Find(ctx, country, year); err == nil && persisted != nil {
			p.mu.Lock()
			p.snapshots[key] = persisted
			p.mu.Unlock()
			snap = persisted
		}
	}

	if snap != nil && asOf.Sub(snap.FetchedAt) < p.ttl {
		p.metrics.observeLookup(lookupHit)
		return snap.Context, nil, nil
	}

	fresh, err := p.refresh(ctx, country, year, asOf)
	if err != nil {
		if snap != nil {
			p.metrics.observeLookup(lookupStale)
			if p.logger != nil {
				p.logger.WarnContext(ctx, "regional refresh failed, serving stale snapshot",
					"country", country.String(),
					"snapshot_version", snap.Version,
					"error", err,
				)
			}
			return snap.Context, []string{fmt.Sprintf("regional data for %s is stale (version %s)", country, snap.Version)}, nil
		}
		p.metrics.observeLookup(lookupDegraded)
		if p.logger != nil {
			p.logger.WarnContext(ctx, "regional data unavailable, defaulting risk adjustment to 0",
				"country", country.String(),
				"error", err,
			)
		}
		return EconomicContext{Country: country, DataYear: year},
			[]string{fmt.Sprintf("regional data unavailable for %s, risk adjustment defaulted to 0", country)}, nil
	}
	p.metrics.observeLookup(lookupRefresh)
	return fresh.Context, nil, nil
}

func (p *Provider) refresh(ctx context.Context, country domain.CountryCode, year int, asOf time.Time) (*Snapshot, error) {
	indicators, err := p.client.Fetch(ctx, country, year)
	if err != nil {
		return nil, err
	}
	if len(indicators) == 0 {
		return nil, fmt.Errorf("feed returned no indicators for %s/%d", country, year)
	}

	ec, err := p.buildContext(country, year, indicators)
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{
		Country:   country,
		Year:      year,
		Version:   fmt.Sprintf("%s-%d-%s", country, year, asOf.UTC().Format("20060102T150405Z")),
		FetchedAt: asOf,
		Context:   ec,
	}

	p.mu.Lock()
	p.snapshots[snapKey(country, year)] = snap
	p.mu.Unlock()

	if p.store != nil {
		if err := p.store.Save(ctx, *snap); err != nil && p.logger != nil {
			p.logger.WarnContext(ctx, "snapshot persistence failed", "error", err)
		}
	}
	return snap, nil
}

// buildContext folds indicators into an EconomicContext and computes the
// risk adjustment: weighted relative deviation from the regional baseline,
// summed and clamped to [-10, 10]. Clamping here is the documented policy
// bound, not an invariant violation.
func (p *Provider) buildContext(country domain.CountryCode, year int, indicators []Indicator) (EconomicContext, error) {
	ec := EconomicContext{Country: country, DataYear: year}
	seen := make(map[string]float64)
	sources := make(map[string]bool)

	for _, ind := range indicators {
		seen[ind.Indicator] = ind.Value
		if ind.Source != "" {
			sources[ind.Source] = true
		}
		switch ind.Indicator {
		case IndGDPPerCapita:
			ec.GDPPerCapita = ind.Value
		case IndInflationRate:
			ec.InflationRate = ind.Value
		case IndUnemploymentRate:
			ec.UnemploymentRate = ind.Value
		case IndPovertyRate:
			ec.PovertyRate = ind.Value
		case IndFinancialInclusion:
			ec.FinancialInclusionRate = ind.Value
		case IndMobileMoney:
			ec.MobileMoneyPenetration = ind.Value
		case IndBankingPenetration:
			ec.BankingPenetration = ind.Value
		}
	}

	var adjustment float64
	for name, weight := range p.baseline.Weights {
		base, hasBase := p.baseline.Values[name]
		value, hasValue := seen[name]
		if !hasBase || !hasValue || base == 0 {
			continue
		}
		adjustment += weight * (value - base) / base
	}
	if adjustment > 10 {
		adjustment = 10
	} else if adjustment < -10 {
		adjustment = -10
	}
	ec.RiskAdjustment = adjustment

	for src := range sources {
		ec.Sources = append(ec.Sources, src)
	}
	sort.Strings(ec.Sources)
	return ec, nil
}
