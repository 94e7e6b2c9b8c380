// Package regional supplies cached, versioned macroeconomic indicators per
// member state and derives the bounded risk adjustment applied to scores.
package regional

import (
	"time"

	"teranga/pkg/domain"
)

// Indicator is one macroeconomic measurement from the open-data feed.
type Indicator struct {
	Country    domain.CountryCode
	Indicator  string
	Value      float64
	Year       int
	Source     string
	Confidence float64
}

// Indicator names the provider understands. Unknown indicators in a feed
// are ignored with a warning rather than failing the refresh.
const (
	IndGDPPerCapita       = "gdp_per_capita"
	IndInflationRate      = "inflation_rate"
	IndUnemploymentRate   = "unemployment_rate"
	IndPovertyRate        = "poverty_rate"
	IndFinancialInclusion = "financial_inclusion_rate"
	IndMobileMoney        = "mobile_money_penetration"
	IndBankingPenetration = "banking_penetration"
)

// EconomicContext is the derived per-country view handed to feature
// engineering and scoring.
type EconomicContext struct {
	Country                domain.CountryCode
	GDPPerCapita           float64
	InflationRate          float64
	UnemploymentRate       float64
	PovertyRate            float64
	FinancialInclusionRate float64
	MobileMoneyPenetration float64
	BankingPenetration     float64
	RiskAdjustment         float64 // clamped to [-10, 10]
	DataYear               int
	Sources                []string
}

// Snapshot is an immutable, versioned cache entry. Once built it is only
// ever read; refresh replaces the whole snapshot atomically.
type Snapshot struct {
	Country   domain.CountryCode
	Year      int
	Version   string
	FetchedAt time.Time
	Context   EconomicContext
}
