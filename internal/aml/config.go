package aml

import "fmt"

// Config holds the screening policy. Threshold values are named, auditable
// configuration; the defaults below are the documented default policy, not
// a claim of a single correct value.
type Config struct {
	// LowThreshold is the minimum similarity to emit a candidate; at or
	// above it the decision is at least REVIEW.
	LowThreshold float64
	// HighThreshold is the similarity at or above which the decision is
	// HIT and scoring is blocked pending manual review.
	HighThreshold float64
	// BoostThreshold and PrefixSize tune the Jaro-Winkler prefix bonus.
	// The bonus rewards matching leading characters, which suits short
	// name tokens where transliteration noise clusters at the tail.
	BoostThreshold float64
	PrefixSize     int
}

// DefaultConfig returns the default screening policy.
func DefaultConfig() Config {
	return Config{
		LowThreshold:   0.85,
		HighThreshold:  0.96,
		BoostThreshold: 0.7,
		PrefixSize:     4,
	}
}

// Validate checks the thresholds partition [0,1] with no gap or overlap.
func (c Config) Validate() error {
	if c.LowThreshold <= 0 || c.LowThreshold >= 1 {
		return fmt.Errorf("low_threshold %.3f must be in (0,1)", c.LowThreshold)
	}
	if c.HighThreshold <= c.LowThreshold || c.HighThreshold > 1 {
		return fmt.Errorf("high_threshold %.3f must be in (low_threshold, 1]", c.HighThreshold)
	}
	if c.PrefixSize < 0 {
		return fmt.Errorf("prefix_size must be non-negative")
	}
	return nil
}

// Decide maps a similarity onto the decision partition.
func (c Config) Decide(similarity float64) Decision {
	switch {
	case similarity >= c.HighThreshold:
		return DecisionHit
	case similarity >= c.LowThreshold:
		return DecisionReview
	default:
		return DecisionClear
	}
}
