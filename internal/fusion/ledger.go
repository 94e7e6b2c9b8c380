package fusion

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"teranga/pkg/domain"
	dErrors "teranga/pkg/domain-errors"
)

// Store is the append-only evidence history for a subject. The ledger only
// ever appends and re-reads; summaries are derived, never stored.
type Store interface {
	Append(ctx context.Context, subjectID domain.SubjectID, entries []DataSourceInfo) error
	History(ctx context.Context, subjectID domain.SubjectID) ([]DataSourceInfo, error)
}

// Ledger fuses evidence into verified summaries.
type Ledger struct {
	store      Store
	thresholds QualityThresholds
	logger     *slog.Logger
}

type Option func(*Ledger)

func WithLogger(logger *slog.Logger) Option {
	return func(l *Ledger) { l.logger = logger }
}

func WithQualityThresholds(t QualityThresholds) Option {
	return func(l *Ledger) { l.thresholds = t }
}

func New(store Store, opts ...Option) (*Ledger, error) {
	if store == nil {
		return nil, fmt.Errorf("evidence store is required")
	}
	l := &Ledger{
		store:      store,
		thresholds: DefaultQualityThresholds(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Ingest validates and normalizes new evidence, appends it to the
// subject's history, and recomputes the summary over the full set.
func (l *Ledger) Ingest(ctx context.Context, subjectID domain.SubjectID, entries []DataSourceInfo, boosts []Boost, asOf time.Time) (VerifiedDataSummary, error) {
	prepared, err := prepareEntries(entries)
	if err != nil {
		return VerifiedDataSummary{}, err
	}

	if len(prepared) > 0 {
		if err := l.store.Append(ctx, subjectID, prepared); err != nil {
			return VerifiedDataSummary{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to append evidence")
		}
	}

	history, err := l.store.History(ctx, subjectID)
	if err != nil {
		return VerifiedDataSummary{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load evidence history")
	}

	summary, err := Aggregate(history, boosts, l.thresholds, asOf)
	if err != nil {
		return VerifiedDataSummary{}, err
	}

	if l.logger != nil {
		l.logger.InfoContext(ctx, "evidence aggregated",
			"subject_fields", summary.TotalFields,
			"verified", summary.VerifiedCount,
			"overall_confidence", summary.OverallConfidence,
			"quality", summary.DataQuality,
		)
	}
	return summary, nil
}

// prepareEntries validates each entry and fills NormalizedValue. A failed
// normalization downgrades confidence and records a warning note rather
// than rejecting the evidence outright.
func prepareEntries(entries []DataSourceInfo) ([]DataSourceInfo, error) {
	prepared := make([]DataSourceInfo, 0, len(entries))
	for _, e := range entries {
		if e.Field.IsZero() {
			return nil, dErrors.New(dErrors.CodeValidation, "evidence entry missing field name")
		}
		if !e.SourceType.IsValid() {
			return nil, dErrors.New(dErrors.CodeValidation, fmt.Sprintf("unknown source type %q", e.SourceType))
		}
		if !e.Status.IsValid() {
			return nil, dErrors.New(dErrors.CodeValidation, fmt.Sprintf("unknown source status %q", e.Status))
		}
		if e.Confidence < 0 || e.Confidence > 100 {
			return nil, dErrors.New(dErrors.CodeValidation, fmt.Sprintf("confidence %.2f outside [0,100] for field %s", e.Confidence, e.Field))
		}

		if e.NormalizedValue == "" {
			normalized, err := Normalize(e.Field, e.RawValue)
			if err != nil {
				e.NormalizedValue = normalizeText(e.RawValue)
				e.Confidence = e.Confidence / 2
				e.DiscrepancyNotes = append(e.DiscrepancyNotes, fmt.Sprintf("normalization failed: %v", err))
			} else {
				e.NormalizedValue = normalized
			}
		}
		prepared = append(prepared, e)
	}
	return prepared, nil
}

// Aggregate is the pure fusion function: full evidence set in, summary
// out. Deterministic regardless of arrival order, idempotent on unchanged
// input. Attestation boosts are applied before arbitration so an upgraded
// entry competes at its boosted tier.
func Aggregate(history []DataSourceInfo, boosts []Boost, thresholds QualityThresholds, asOf time.Time) (VerifiedDataSummary, error) {
	boosted := applyBoosts(history, boosts)

	byField := make(map[domain.FieldName][]DataSourceInfo)
	var fields []domain.FieldName
	for _, e := range boosted {
		if _, seen := byField[e.Field]; !seen {
			fields = append(fields, e.Field)
		}
		byField[e.Field] = append(byField[e.Field], e)
	}
	// Field iteration order must not depend on map or arrival order.
	sort.Slice(fields, func(i, j int) bool { return fields[i].String() < fields[j].String() })

	summary := VerifiedDataSummary{TotalFields: len(fields)}
	var weightedSum, weightTotal float64

	for _, field := range fields {
		winner, notes := arbitrate(field, byField[field])
		winner.DiscrepancyNotes = append(winner.DiscrepancyNotes, notes...)

		if winner.Confidence < 0 || winner.Confidence > 100 {
			return VerifiedDataSummary{}, dErrors.Invariantf("fused confidence %.4f for field %s", winner.Confidence, field)
		}

		switch winner.Status {
		case StatusVerified:
			summary.VerifiedCount++
		case StatusPartiallyVerified:
			summary.PartiallyVerifiedCount++
		case StatusDeclared:
			summary.DeclaredCount++
		}

		w := field.Importance()
		weightedSum += winner.Confidence * w
		weightTotal += w

		if len(notes) > 0 {
			summary.Warnings = append(summary.Warnings, fmt.Sprintf("field %s has conflicting sources", field))
		}
		summary.Sources = append(summary.Sources, winner)
	}

	if weightTotal > 0 {
		summary.OverallConfidence = weightedSum / weightTotal
	}
	if summary.TotalFields > 0 {
		summary.VerificationRate = float64(summary.VerifiedCount) / float64(summary.TotalFields) * 100
	}
	if summary.OverallConfidence < 0 || summary.OverallConfidence > 100 {
		return VerifiedDataSummary{}, dErrors.Invariantf("overall confidence %.4f", summary.OverallConfidence)
	}
	summary.DataQuality = thresholds.Bucket(summary.OverallConfidence)
	if summary.TotalFields == 0 {
		summary.DataQuality = QualityInsufficient
		summary.Warnings = append(summary.Warnings, "no evidence on record")
	}
	_ = asOf // reserved for recency-weighted policies; arbitration uses VerifiedAt directly
	return summary, nil
}

// applyBoosts raises confidence (capped at 100) and upgrades status by one
// tier for the best-matching entry of each boosted field. The cap is a
// documented operation, not an invariant clamp.
func applyBoosts(history []DataSourceInfo, boosts []Boost) []DataSourceInfo {
	if len(boosts) == 0 {
		return history
	}
	out := make([]DataSourceInfo, len(history))
	copy(out, history)

	for _, b := range boosts {
		best := -1
		for i, e := range out {
			if e.Field != b.Field {
				continue
			}
			if best == -1 || entryLess(out[best], out[i]) {
				best = i
			}
		}
		if best == -1 {
			continue
		}
		out[best].Confidence = min(out[best].Confidence+b.Amount, 100)
		out[best].Status = out[best].Status.Upgrade()
		out[best].DiscrepancyNotes = append(out[best].DiscrepancyNotes,
			fmt.Sprintf("boosted +%.0f by attestation %s", b.Amount, b.AttestationID))
	}
	return out
}

// arbitrate picks the winning entry for a field and produces discrepancy
// notes for retained losers that disagree beyond tolerance.
func arbitrate(field domain.FieldName, entries []DataSourceInfo) (DataSourceInfo, []string) {
	sorted := make([]DataSourceInfo, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool { return entryLess(sorted[j], sorted[i]) })

	winner := sorted[0]
	var notes []string
	for _, other := range sorted[1:] {
		if !valuesAgree(field, winner.NormalizedValue, other.NormalizedValue) {
			notes = append(notes, fmt.Sprintf(
				"%s source %s (%s, confidence %.0f) reported %q, kept %q from %s",
				other.Status, other.SourceID, other.SourceType, other.Confidence,
				other.NormalizedValue, winner.NormalizedValue, winner.SourceID,
			))
		}
	}
	return winner, notes
}

// entryLess orders a below b: lower status rank, then lower confidence,
// then older verification, then source ID as the deterministic tie-break.
func entryLess(a, b DataSourceInfo) bool {
	if a.Status.Rank() != b.Status.Rank() {
		return a.Status.Rank() < b.Status.Rank()
	}
	if a.Confidence != b.Confidence {
		return a.Confidence < b.Confidence
	}
	at, bt := timeOrZero(a.VerifiedAt), timeOrZero(b.VerifiedAt)
	if !at.Equal(bt) {
		return at.Before(bt)
	}
	return a.SourceID > b.SourceID
}

func timeOrZero(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
