package regional

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Baseline is the regional reference each country's indicators are
// compared against, with the signed weight each deviation carries. Weights
// and baseline values are configuration, not computed.
type Baseline struct {
	// Values are the regional baseline per indicator, in the indicator's
	// native unit (USD for GDP per capita, percentage points otherwise).
	Values map[string]float64 `yaml:"values"`
	// Weights translate relative deviation into risk-adjustment points.
	// Positive weight: above baseline improves the adjustment (e.g. mobile
	// money penetration). Negative weight: above baseline worsens it
	// (e.g. inflation).
	Weights map[string]float64 `yaml:"weights"`
}

// DefaultBaseline returns the compiled-in regional baseline policy.
func DefaultBaseline() Baseline {
	return Baseline{
		Values: map[string]float64{
			IndGDPPerCapita:       1450,
			IndInflationRate:      3.5,
			IndUnemploymentRate:   6.0,
			IndPovertyRate:        40.0,
			IndFinancialInclusion: 45.0,
			IndMobileMoney:        55.0,
			IndBankingPenetration: 20.0,
		},
		Weights: map[string]float64{
			IndGDPPerCapita:       4.0,
			IndInflationRate:      -3.0,
			IndUnemploymentRate:   -2.0,
			IndPovertyRate:        -3.0,
			IndFinancialInclusion: 2.5,
			IndMobileMoney:        2.5,
			IndBankingPenetration: 2.0,
		},
	}
}

// LoadBaseline reads a baseline policy file, falling back to nothing: a
// missing or malformed file is a startup error, not a silent default.
func LoadBaseline(path string) (Baseline, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Baseline{}, fmt.Errorf("read baseline file: %w", err)
	}
	var b Baseline
	if err := yaml.Unmarshal(raw, &b); err != nil {
		return Baseline{}, fmt.Errorf("parse baseline file: %w", err)
	}
	if len(b.Values) == 0 || len(b.Weights) == 0 {
		return Baseline{}, fmt.Errorf("baseline file %s missing values or weights", path)
	}
	return b, nil
}
