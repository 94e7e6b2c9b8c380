// Package scoring turns a feature vector, the regional risk adjustment,
// and the screening outcome into a released, blocked, or held score.
//
// The score is only released when screening cleared the subject. BLOCKED
// and REVIEW results withhold the numeric score, the band, and the
// per-feature explanation so no partial signal leaks around the gate.
package scoring

import "teranga/internal/aml"

// Status is the release state of a scoring run.
type Status string

const (
	// StatusScored means screening cleared and the score is released.
	StatusScored Status = "SCORED"
	// StatusBlocked means a screening hit blocked the release.
	StatusBlocked Status = "BLOCKED"
	// StatusReview means screening needs manual review before release.
	StatusReview Status = "REVIEW"
)

// Band is the qualitative tier of a released score.
type Band string

const (
	BandExcellent Band = "excellent"
	BandGood      Band = "good"
	BandFair      Band = "fair"
	BandPoor      Band = "poor"
)

// Contribution explains how one feature moved the score. Contribution is
// the points the feature added, already scaled to the 0-100 score space.
type Contribution struct {
	Feature      string  `json:"feature"`
	Value        float64 `json:"value"`
	Weight       float64 `json:"weight"`
	Contribution float64 `json:"contribution"`
}

// Result is the outcome of one scoring run. Score and Band are nil unless
// Status is SCORED.
type Result struct {
	Status         Status         `json:"status"`
	Score          *float64       `json:"score,omitempty"`
	Band           *Band          `json:"band,omitempty"`
	Explanation    []Contribution `json:"explanation,omitempty"`
	RiskAdjustment float64        `json:"risk_adjustment"`
	AMLDecision    aml.Decision   `json:"aml_decision"`
	Warnings       []string       `json:"warnings,omitempty"`
}
