package scoring

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"teranga/internal/aml"
	"teranga/internal/features"
	dErrors "teranga/pkg/domain-errors"
)

type EngineSuite struct {
	suite.Suite
	ctx    context.Context
	engine *Engine
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineSuite))
}

func (s *EngineSuite) SetupTest() {
	s.ctx = context.Background()
	engine, err := New(DefaultWeights(), DefaultBands())
	s.Require().NoError(err)
	s.engine = engine
}

func clearOutcome() aml.Outcome {
	return aml.Outcome{
		Decision:    aml.DecisionClear,
		ListVersion: "un-2025-06-01",
		ScreenedAt:  time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC),
	}
}

// fullVector builds a vector carrying the same value for every feature.
func fullVector(value float64) features.Vector {
	return features.Vector{
		{Name: features.FeatVerificationRate, Value: value},
		{Name: features.FeatOverallConfidence, Value: value},
		{Name: features.FeatIncomeStability, Value: value},
		{Name: features.FeatMobileMoneyActivity, Value: value},
		{Name: features.FeatAttestationCoverage, Value: value},
		{Name: features.FeatDataQuality, Value: value},
		{Name: features.FeatVerificationRecency, Value: value},
		{Name: features.FeatFinancialInclusion, Value: value},
	}
}

// ---------------------------------------------------------------------------
// Released scores
// ---------------------------------------------------------------------------

func (s *EngineSuite) TestComputeReleasesClearedScore() {
	result, err := s.engine.Compute(s.ctx, fullVector(0.5), 0, clearOutcome())
	s.Require().NoError(err)

	s.Equal(StatusScored, result.Status)
	s.Require().NotNil(result.Score)
	s.InDelta(50.0, *result.Score, 1e-9)
	s.Require().NotNil(result.Band)
	s.Equal(BandFair, *result.Band)
	s.Len(result.Explanation, 8)
}

func (s *EngineSuite) TestComputeIsDeterministic() {
	vec := fullVector(0.73)
	first, err := s.engine.Compute(s.ctx, vec, 2.5, clearOutcome())
	s.Require().NoError(err)
	second, err := s.engine.Compute(s.ctx, vec, 2.5, clearOutcome())
	s.Require().NoError(err)

	s.Equal(first, second)
}

func (s *EngineSuite) TestRiskAdjustmentShiftsScore() {
	base, err := s.engine.Compute(s.ctx, fullVector(0.5), 0, clearOutcome())
	s.Require().NoError(err)
	up, err := s.engine.Compute(s.ctx, fullVector(0.5), 4, clearOutcome())
	s.Require().NoError(err)
	down, err := s.engine.Compute(s.ctx, fullVector(0.5), -4, clearOutcome())
	s.Require().NoError(err)

	s.InDelta(*base.Score+4, *up.Score, 1e-9)
	s.InDelta(*base.Score-4, *down.Score, 1e-9)
}

func (s *EngineSuite) TestAdjustedScoreClampedToRange() {
	s.Run("ceiling", func() {
		result, err := s.engine.Compute(s.ctx, fullVector(1.0), 10, clearOutcome())
		s.Require().NoError(err)
		s.InDelta(100.0, *result.Score, 1e-9)
		s.Equal(BandExcellent, *result.Band)
	})
	s.Run("floor", func() {
		result, err := s.engine.Compute(s.ctx, fullVector(0.0), -10, clearOutcome())
		s.Require().NoError(err)
		s.InDelta(0.0, *result.Score, 1e-9)
		s.Equal(BandPoor, *result.Band)
	})
}

func (s *EngineSuite) TestExplanationSumsToBaseScore() {
	vec := features.Vector{
		{Name: features.FeatVerificationRate, Value: 1.0},
		{Name: features.FeatOverallConfidence, Value: 0.8},
		{Name: features.FeatIncomeStability, Value: 0.6},
		{Name: features.FeatMobileMoneyActivity, Value: 0.4},
		{Name: features.FeatAttestationCoverage, Value: 0.2},
		{Name: features.FeatDataQuality, Value: 1.0},
		{Name: features.FeatVerificationRecency, Value: 0.5},
		{Name: features.FeatFinancialInclusion, Value: 0.5},
	}
	result, err := s.engine.Compute(s.ctx, vec, 0, clearOutcome())
	s.Require().NoError(err)

	total := 0.0
	for i, c := range result.Explanation {
		s.Equal(vec[i].Name, c.Feature)
		total += c.Contribution
	}
	s.InDelta(*result.Score, total, 1e-9)
}

func (s *EngineSuite) TestBandCutoffs() {
	bands := DefaultBands()
	cases := []struct {
		score float64
		want  Band
	}{
		{100, BandExcellent},
		{80, BandExcellent},
		{79.999, BandGood},
		{60, BandGood},
		{59.999, BandFair},
		{40, BandFair},
		{39.999, BandPoor},
		{0, BandPoor},
	}
	for _, tc := range cases {
		s.Equal(tc.want, bands.Band(tc.score), "score %.3f", tc.score)
	}
}

// ---------------------------------------------------------------------------
// Screening gate
// ---------------------------------------------------------------------------

func (s *EngineSuite) TestHitBlocksAndWithholdsScore() {
	outcome := clearOutcome()
	outcome.Decision = aml.DecisionHit

	result, err := s.engine.Compute(s.ctx, fullVector(0.9), 0, outcome)
	s.Require().NoError(err)

	s.Equal(StatusBlocked, result.Status)
	s.Nil(result.Score)
	s.Nil(result.Band)
	s.Nil(result.Explanation)
	s.Equal(aml.DecisionHit, result.AMLDecision)
}

func (s *EngineSuite) TestReviewHoldsScore() {
	outcome := clearOutcome()
	outcome.Decision = aml.DecisionReview
	outcome.Warnings = []string{"sanctions list unavailable, screening defaulted to review"}

	result, err := s.engine.Compute(s.ctx, fullVector(0.9), 0, outcome)
	s.Require().NoError(err)

	s.Equal(StatusReview, result.Status)
	s.Nil(result.Score)
	s.Nil(result.Band)
	s.Contains(result.Warnings[0], "unavailable")
}

// ---------------------------------------------------------------------------
// Invariants
// ---------------------------------------------------------------------------

func (s *EngineSuite) TestOutOfRangeFeatureIsInvariantViolation() {
	vec := fullVector(0.5)
	vec[0].Value = 1.5

	_, err := s.engine.Compute(s.ctx, vec, 0, clearOutcome())
	s.Require().Error(err)
	s.ErrorIs(err, dErrors.ErrInvariant)
}

func (s *EngineSuite) TestUnknownFeatureIsInvariantViolation() {
	vec := fullVector(0.5)
	vec[0].Name = "astrology_sign"

	_, err := s.engine.Compute(s.ctx, vec, 0, clearOutcome())
	s.Require().Error(err)
	s.ErrorIs(err, dErrors.ErrInvariant)
}

func (s *EngineSuite) TestOutOfRangeAdjustmentIsInvariantViolation() {
	_, err := s.engine.Compute(s.ctx, fullVector(0.5), 11, clearOutcome())
	s.Require().Error(err)
	s.ErrorIs(err, dErrors.ErrInvariant)
}

func (s *EngineSuite) TestWeightsValidation() {
	s.Run("negative weight rejected", func() {
		w := DefaultWeights()
		w[features.FeatDataQuality] = -1
		s.Error(w.Validate())
	})
	s.Run("all-zero weights rejected", func() {
		s.Error(Weights{features.FeatDataQuality: 0}.Validate())
	})
}
