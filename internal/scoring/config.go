package scoring

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"teranga/internal/features"
)

// Weights maps feature names to scoring weights. Weights are relative; the
// engine normalizes by the total, so {a: 2, b: 1} and {a: 40, b: 20} score
// identically.
type Weights map[string]float64

// DefaultWeights returns the default scoring policy. The weights sum to
// 100 so contributions read directly as points.
func DefaultWeights() Weights {
	return Weights{
		features.FeatVerificationRate:    20,
		features.FeatOverallConfidence:   15,
		features.FeatIncomeStability:     20,
		features.FeatMobileMoneyActivity: 10,
		features.FeatAttestationCoverage: 15,
		features.FeatDataQuality:         10,
		features.FeatVerificationRecency: 5,
		features.FeatFinancialInclusion:  5,
	}
}

// Validate checks every known feature carries a non-negative weight and at
// least one is positive.
func (w Weights) Validate() error {
	total := 0.0
	for name, weight := range w {
		if weight < 0 {
			return fmt.Errorf("weight for %q is negative", name)
		}
		total += weight
	}
	if total <= 0 {
		return fmt.Errorf("weights must sum to a positive total")
	}
	return nil
}

func (w Weights) total() float64 {
	total := 0.0
	for _, weight := range w {
		total += weight
	}
	return total
}

// Bands holds the lower cutoffs of the released-score tiers. Scores at or
// above Excellent band excellent, and so on down; below Fair is poor.
type Bands struct {
	Excellent float64 `yaml:"excellent"`
	Good      float64 `yaml:"good"`
	Fair      float64 `yaml:"fair"`
}

// DefaultBands returns the default banding policy.
func DefaultBands() Bands {
	return Bands{Excellent: 80, Good: 60, Fair: 40}
}

// Validate checks the cutoffs are strictly descending within [0, 100].
func (b Bands) Validate() error {
	if b.Excellent > 100 || b.Fair < 0 {
		return fmt.Errorf("band cutoffs must lie within [0, 100]")
	}
	if !(b.Excellent > b.Good && b.Good > b.Fair) {
		return fmt.Errorf("band cutoffs must be strictly descending")
	}
	return nil
}

// Band maps a released score onto its tier.
func (b Bands) Band(score float64) Band {
	switch {
	case score >= b.Excellent:
		return BandExcellent
	case score >= b.Good:
		return BandGood
	case score >= b.Fair:
		return BandFair
	default:
		return BandPoor
	}
}

type policyFile struct {
	Weights Weights `yaml:"weights"`
	Bands   *Bands  `yaml:"bands"`
}

// LoadPolicy reads weights and band cutoffs from a YAML file. Missing
// sections fall back to the defaults.
func LoadPolicy(path string) (Weights, Bands, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, Bands{}, fmt.Errorf("read scoring policy: %w", err)
	}
	var pf policyFile
	if err := yaml.Unmarshal(raw, &pf); err != nil {
		return nil, Bands{}, fmt.Errorf("parse scoring policy: %w", err)
	}
	weights := pf.Weights
	if len(weights) == 0 {
		weights = DefaultWeights()
	}
	bands := DefaultBands()
	if pf.Bands != nil {
		bands = *pf.Bands
	}
	if err := weights.Validate(); err != nil {
		return nil, Bands{}, err
	}
	if err := bands.Validate(); err != nil {
		return nil, Bands{}, err
	}
	return weights, bands, nil
}
