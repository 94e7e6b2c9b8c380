// Package features maps a verified data summary and economic context onto
// the fixed-length numeric vector the scoring engine consumes.
//
// This is pure domain logic: no I/O, no side effects, and no wall-clock
// reads. Every time-dependent feature is computed against the explicitly
// supplied as-of instant, so identical inputs always yield identical
// output.
package features

import (
	"math"
	"time"

	"teranga/internal/fusion"
	"teranga/internal/regional"
	"teranga/pkg/domain"
)

// Feature is one named entry of the vector. All values are normalized to
// [0, 1] so scoring weights compare like with like.
type Feature struct {
	Name  string
	Value float64
}

// Feature names, in vector order. The order is part of the scoring
// contract: explanations list contributions in this order.
const (
	FeatVerificationRate    = "verification_rate"
	FeatOverallConfidence   = "overall_confidence"
	FeatIncomeStability     = "income_stability"
	FeatMobileMoneyActivity = "mobile_money_activity"
	FeatAttestationCoverage = "attestation_coverage"
	FeatDataQuality         = "data_quality"
	FeatVerificationRecency = "verification_recency"
	FeatFinancialInclusion  = "financial_inclusion"
)

// Vector is the fixed-length, fixed-order feature vector.
type Vector []Feature

// Compute derives the vector. Deterministic in (summary, econ, asOf).
func Compute(summary fusion.VerifiedDataSummary, econ regional.EconomicContext, asOf time.Time) Vector {
	return Vector{
		{FeatVerificationRate, summary.VerificationRate / 100},
		{FeatOverallConfidence, summary.OverallConfidence / 100},
		{FeatIncomeStability, incomeStability(summary)},
		{FeatMobileMoneyActivity, mobileMoneyActivity(summary, econ)},
		{FeatAttestationCoverage, attestationCoverage(summary)},
		{FeatDataQuality, qualityLevel(summary.DataQuality)},
		{FeatVerificationRecency, verificationRecency(summary, asOf)},
		{FeatFinancialInclusion, clamp01(econ.FinancialInclusionRate / 100)},
	}
}

// incomeStability proxies income reliability from the confidence and tier
// of the fused income evidence.
func incomeStability(summary fusion.VerifiedDataSummary) float64 {
	income, ok := summary.WinningSource(domain.MustFieldName("monthly_income"))
	if !ok {
		return 0
	}
	base := income.Confidence / 100
	switch income.Status {
	case fusion.StatusVerified:
		return base
	case fusion.StatusPartiallyVerified:
		return base * 0.85
	case fusion.StatusDeclared:
		return base * 0.6
	default:
		return base * 0.3
	}
}

// mobileMoneyActivity blends the subject's own mobile-money evidence with
// the country's penetration so thin-file subjects in high-penetration
// markets are not flattened to zero.
func mobileMoneyActivity(summary fusion.VerifiedDataSummary, econ regional.EconomicContext) float64 {
	penetration := clamp01(econ.MobileMoneyPenetration / 100)
	mm, ok := summary.WinningSource(domain.MustFieldName("mobile_money_id"))
	if !ok {
		return penetration * 0.3
	}
	return clamp01(0.7*(mm.Confidence/100) + 0.3*penetration)
}

// attestationCoverage is the share of fields carrying partner-attested
// evidence.
func attestationCoverage(summary fusion.VerifiedDataSummary) float64 {
	if summary.TotalFields == 0 {
		return 0
	}
	covered := 0
	for _, src := range summary.Sources {
		if src.SourceType == fusion.SourceAttestation || hasBoostNote(src) {
			covered++
		}
	}
	return float64(covered) / float64(summary.TotalFields)
}

func hasBoostNote(src fusion.DataSourceInfo) bool {
	for _, note := range src.DiscrepancyNotes {
		if len(note) > 7 && note[:7] == "boosted" {
			return true
		}
	}
	return false
}

func qualityLevel(q fusion.DataQuality) float64 {
	switch q {
	case fusion.QualityHigh:
		return 1
	case fusion.QualityMedium:
		return 2.0 / 3
	case fusion.QualityLow:
		return 1.0 / 3
	default:
		return 0
	}
}

// verificationRecency decays from 1 toward 0 with the age of the most
// recent verification, halving roughly every 180 days. No verification at
// all scores 0.
func verificationRecency(summary fusion.VerifiedDataSummary, asOf time.Time) float64 {
	var latest time.Time
	for _, src := range summary.Sources {
		if src.VerifiedAt != nil && src.VerifiedAt.After(latest) {
			latest = *src.VerifiedAt
		}
	}
	if latest.IsZero() {
		return 0
	}
	days := asOf.Sub(latest).Hours() / 24
	if days < 0 {
		days = 0
	}
	return math.Exp2(-days / 180)
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
