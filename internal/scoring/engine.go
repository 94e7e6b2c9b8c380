package scoring

import (
	"context"
	"fmt"
	"log/slog"

	"teranga/internal/aml"
	"teranga/internal/features"
	dErrors "teranga/pkg/domain-errors"
)

// maxRiskAdjustment bounds the regional adjustment in either direction.
// The regional provider clamps before handing the value over; a value
// outside the bound here means a bug upstream, not bad input.
const maxRiskAdjustment = 10

// Engine computes and gates scores. Compute is deterministic in its
// inputs; the engine itself holds only policy.
type Engine struct {
	weights Weights
	bands   Bands
	logger  *slog.Logger
}

type Option func(*Engine)

func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

func New(weights Weights, bands Bands, opts ...Option) (*Engine, error) {
	if err := weights.Validate(); err != nil {
		return nil, fmt.Errorf("scoring weights: %w", err)
	}
	if err := bands.Validate(); err != nil {
		return nil, fmt.Errorf("scoring bands: %w", err)
	}
	e := &Engine{weights: weights, bands: bands}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Compute scores the vector, applies the regional adjustment, and gates
// the release on the screening decision.
//
// The adjusted score is clamped into [0, 100]. Clamping after adjustment
// is a documented operation of the score, not an invariant repair: a poor
// base score in a favorable region must not exceed 100, nor drop below 0
// in a stressed one.
func (e *Engine) Compute(ctx context.Context, vec features.Vector, riskAdjustment float64, screening aml.Outcome) (Result, error) {
	if riskAdjustment < -maxRiskAdjustment || riskAdjustment > maxRiskAdjustment {
		return Result{}, dErrors.Invariantf("risk adjustment %.2f outside [%d, %d]", riskAdjustment, -maxRiskAdjustment, maxRiskAdjustment)
	}

	result := Result{
		RiskAdjustment: riskAdjustment,
		AMLDecision:    screening.Decision,
		Warnings:       append([]string(nil), screening.Warnings...),
	}

	// Screening gates release. Score, band, and explanation are withheld
	// so a blocked subject learns nothing about their would-be score.
	switch screening.Decision {
	case aml.DecisionHit:
		result.Status = StatusBlocked
		return result, nil
	case aml.DecisionReview:
		result.Status = StatusReview
		return result, nil
	case aml.DecisionClear:
		// fall through to scoring
	default:
		return Result{}, dErrors.Invariantf("unknown screening decision %q", screening.Decision)
	}

	base, explanation, err := e.baseScore(vec)
	if err != nil {
		return Result{}, err
	}

	score := clamp(base+riskAdjustment, 0, 100)
	band := e.bands.Band(score)

	result.Status = StatusScored
	result.Score = &score
	result.Band = &band
	result.Explanation = explanation

	if e.logger != nil {
		e.logger.InfoContext(ctx, "score computed",
			"base", base,
			"risk_adjustment", riskAdjustment,
			"score", score,
			"band", string(band),
		)
	}
	return result, nil
}

// baseScore is the normalized weighted sum of the vector, scaled to
// [0, 100]. Contributions are emitted in vector order.
func (e *Engine) baseScore(vec features.Vector) (float64, []Contribution, error) {
	if len(vec) == 0 {
		return 0, nil, dErrors.Invariantf("empty feature vector")
	}
	scale := 100 / e.weights.total()

	base := 0.0
	explanation := make([]Contribution, 0, len(vec))
	for _, f := range vec {
		if f.Value < 0 || f.Value > 1 {
			return 0, nil, dErrors.Invariantf("feature %q value %.6f outside [0,1]", f.Name, f.Value)
		}
		weight, ok := e.weights[f.Name]
		if !ok {
			return 0, nil, dErrors.Invariantf("no weight configured for feature %q", f.Name)
		}
		points := weight * f.Value * scale
		base += points
		explanation = append(explanation, Contribution{
			Feature:      f.Name,
			Value:        f.Value,
			Weight:       weight,
			Contribution: points,
		})
	}
	if base < 0 || base > 100+1e-9 {
		return 0, nil, dErrors.Invariantf("base score %.6f outside [0,100]", base)
	}
	return base, explanation, nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
