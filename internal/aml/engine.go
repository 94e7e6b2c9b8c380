package aml

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync/atomic"
	"time"

	"teranga/pkg/domain"
	dErrors "teranga/pkg/domain-errors"
	"teranga/pkg/platform/privacy"
)

// Engine screens names against the loaded sanctions snapshot. The snapshot
// is held behind an atomic pointer: unbounded concurrent reads, wholesale
// replacement on refresh, no locks on the screening path.
type Engine struct {
	cfg      Config
	client   ListClient
	logger   *slog.Logger
	snapshot atomic.Pointer[Snapshot]
}

type Option func(*Engine)

func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

func New(cfg Config, client ListClient, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("aml config: %w", err)
	}
	if client == nil {
		return nil, fmt.Errorf("list client is required")
	}
	e := &Engine{cfg: cfg, client: client}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Refresh fetches the current list and swaps in a new snapshot. On failure
// the previous snapshot stays active; with no snapshot at all, screening
// fails closed to REVIEW.
func (e *Engine) Refresh(ctx context.Context, asOf time.Time) error {
	version, entries, err := e.client.Fetch(ctx)
	if err != nil {
		if e.logger != nil {
			e.logger.WarnContext(ctx, "sanctions list refresh failed",
				"error", err,
				"active_version", e.activeVersion(),
			)
		}
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "sanctions list fetch failed")
	}
	snap := BuildSnapshot(version, asOf, entries)
	e.snapshot.Store(snap)
	if e.logger != nil {
		e.logger.InfoContext(ctx, "sanctions list refreshed",
			"version", version,
			"entries", snap.Len(),
		)
	}
	return nil
}

func (e *Engine) activeVersion() string {
	if snap := e.snapshot.Load(); snap != nil {
		return snap.Version
	}
	return ""
}

// Screen matches the subject name against the active snapshot and returns
// the decision with an anonymized audit-safe outcome. Never returns the
// matched plaintext of the subject; the raw name stays in memory only.
func (e *Engine) Screen(ctx context.Context, name domain.PersonName, asOf time.Time) (Outcome, error) {
	if name.IsZero() {
		return Outcome{}, dErrors.New(dErrors.CodeValidation, "subject name is required for screening")
	}

	normalized := NormalizeName(name.String())
	outcome := Outcome{
		Decision:   DecisionClear,
		NameHash:   privacy.HashName(normalized),
		ScreenedAt: asOf,
	}

	snap := e.snapshot.Load()
	if snap == nil || snap.Len() == 0 {
		// Fail closed: no list means no clearance.
		outcome.Decision = DecisionReview
		outcome.Warnings = append(outcome.Warnings, "sanctions list unavailable, screening defaulted to review")
		if e.logger != nil {
			e.logger.WarnContext(ctx, "screening without sanctions snapshot, failing closed",
				"name_hash", outcome.NameHash,
			)
		}
		return outcome, nil
	}
	outcome.ListVersion = snap.Version

	sorted := TokenSort(normalized)
	best := 0.0
	for _, entry := range snap.entries {
		sim := e.cfg.similarity(normalized, sorted, entry)
		if sim >= e.cfg.LowThreshold {
			outcome.Matches = append(outcome.Matches, Match{Entry: entry.ListEntry, Similarity: sim})
		}
		if sim > best {
			best = sim
		}
	}
	if best < 0 || best > 1 {
		return Outcome{}, dErrors.Invariantf("similarity %.6f outside [0,1]", best)
	}

	// Strongest candidates first, stable for identical scores.
	sort.SliceStable(outcome.Matches, func(i, j int) bool {
		return outcome.Matches[i].Similarity > outcome.Matches[j].Similarity
	})
	outcome.Decision = e.cfg.Decide(best)

	if e.logger != nil {
		e.logger.InfoContext(ctx, "subject screened",
			"name_hash", outcome.NameHash,
			"decision", string(outcome.Decision),
			"candidates", len(outcome.Matches),
			"list_version", snap.Version,
		)
	}
	return outcome, nil
}
