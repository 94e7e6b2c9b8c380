// Package pipeline orchestrates one scoring run end to end: document
// extraction, attestation boosts, evidence fusion, regional context,
// feature derivation, screening, scoring, and the audit trail.
package pipeline

import (
	"time"

	"teranga/internal/aml"
	"teranga/internal/extraction"
	"teranga/internal/fusion"
	"teranga/internal/scoring"
	"teranga/pkg/domain"
)

// DocumentInput is one OCR-processed document submitted with a scoring
// request. Image handling happens upstream; only the text arrives here.
type DocumentInput struct {
	Type    extraction.DocumentType
	OCRText string
}

// ScoreRequest is a fully parsed scoring submission. All values are
// validated domain types; the HTTP layer owns raw-input validation.
type ScoreRequest struct {
	SubjectID      domain.SubjectID
	FullName       domain.PersonName
	Country        domain.CountryCode
	Documents      []DocumentInput
	Evidence       []fusion.DataSourceInfo
	AttestationIDs []string
	AsOf           time.Time
}

// ScoreResult is the outcome of one pipeline run. Score, Band, and
// Explanation are nil unless Status is SCORED.
type ScoreResult struct {
	SubjectID         domain.SubjectID
	Status            scoring.Status
	Score             *float64
	Band              *scoring.Band
	Explanation       []scoring.Contribution
	RiskAdjustment    float64
	AMLDecision       aml.Decision
	ListVersion       string
	DataQuality       fusion.DataQuality
	VerificationRate  float64
	OverallConfidence float64
	AuditRef          string
	Warnings          []string
	ScoredAt          time.Time
}
