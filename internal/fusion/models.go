// Package fusion aggregates per-field evidence (extracted documents,
// partner attestations, user declarations, API verifications, public
// registries) into one verified summary per subject.
//
// Aggregation is a pure function over the full evidence set: re-running it
// on unchanged evidence yields an identical summary, so the ledger can be
// recomputed at any time without drift.
package fusion

import (
	"time"

	"teranga/pkg/domain"
)

// SourceType identifies the channel a piece of evidence arrived through.
type SourceType string

const (
	SourceDocument       SourceType = "document"
	SourceAPI            SourceType = "api"
	SourceUserInput      SourceType = "user_input"
	SourceOCR            SourceType = "ocr"
	SourceAttestation    SourceType = "partner_attestation"
	SourcePublicRegistry SourceType = "public_registry"
)

// IsValid reports whether t is a known source type.
func (t SourceType) IsValid() bool {
	switch t {
	case SourceDocument, SourceAPI, SourceUserInput, SourceOCR, SourceAttestation, SourcePublicRegistry:
		return true
	}
	return false
}

// SourceStatus is the verification tier of an evidence entry. The ordering
// below is total and drives both conflict arbitration and the one-tier
// attestation upgrade.
type SourceStatus string

const (
	StatusUnverified        SourceStatus = "unverified"
	StatusDeclared          SourceStatus = "declared"
	StatusPartiallyVerified SourceStatus = "partially_verified"
	StatusVerified          SourceStatus = "verified"
)

// statusRank gives the total precedence ordering:
// verified > partially_verified > declared > unverified.
var statusRank = map[SourceStatus]int{
	StatusUnverified:        0,
	StatusDeclared:          1,
	StatusPartiallyVerified: 2,
	StatusVerified:          3,
}

// IsValid reports whether s is a known status.
func (s SourceStatus) IsValid() bool {
	_, ok := statusRank[s]
	return ok
}

// Rank returns the precedence rank. Unknown statuses rank lowest.
func (s SourceStatus) Rank() int { return statusRank[s] }

// Upgrade moves the status up exactly one tier. Already-verified entries
// stay verified; the operation is monotonic and never downgrades.
func (s SourceStatus) Upgrade() SourceStatus {
	switch s {
	case StatusUnverified:
		return StatusDeclared
	case StatusDeclared:
		return StatusPartiallyVerified
	case StatusPartiallyVerified, StatusVerified:
		return StatusVerified
	}
	return s
}

// DataSourceInfo is one piece of evidence for one field of one subject.
// Entries are append-only: corrections arrive as new entries, never as
// mutations, except for the discrepancy notes the ledger writes during
// arbitration.
type DataSourceInfo struct {
	SourceID           string
	SourceName         string
	SourceType         SourceType
	Status             SourceStatus
	Field              domain.FieldName
	Confidence         float64 // 0-100
	VerificationMethod string
	VerifiedAt         *time.Time
	VerifiedBy         string
	RawValue           string
	NormalizedValue    string
	DiscrepancyNotes   []string
}

// Boost is a confidence uplift earned by a valid partner attestation
// covering a field. Produced by the attestation service, consumed here.
type Boost struct {
	Field         domain.FieldName
	Amount        float64
	AttestationID string
	PartnerID     domain.PartnerID
}

// DataQuality buckets the aggregate confidence of a summary.
type DataQuality string

const (
	QualityHigh         DataQuality = "high"
	QualityMedium       DataQuality = "medium"
	QualityLow          DataQuality = "low"
	QualityInsufficient DataQuality = "insufficient"
)

// QualityThresholds define the bucket cutoffs. These are policy, not
// derived values; defaults follow the documented default policy.
type QualityThresholds struct {
	High   float64
	Medium float64
	Low    float64
}

// DefaultQualityThresholds returns the default bucket policy:
// high >= 85, medium >= 60, low >= 30, else insufficient.
func DefaultQualityThresholds() QualityThresholds {
	return QualityThresholds{High: 85, Medium: 60, Low: 30}
}

// Bucket maps an overall confidence onto a quality bucket.
func (q QualityThresholds) Bucket(confidence float64) DataQuality {
	switch {
	case confidence >= q.High:
		return QualityHigh
	case confidence >= q.Medium:
		return QualityMedium
	case confidence >= q.Low:
		return QualityLow
	default:
		return QualityInsufficient
	}
}

// VerifiedDataSummary is the fused view of a subject's evidence. It is
// recomputed from scratch on every aggregation pass.
type VerifiedDataSummary struct {
	TotalFields            int
	VerifiedCount          int
	DeclaredCount          int
	PartiallyVerifiedCount int
	OverallConfidence      float64 // 0-100, field-importance weighted
	DataQuality            DataQuality
	VerificationRate       float64 // verified/total * 100
	Sources                []DataSourceInfo
	Warnings               []string
}

// WinningSource returns the arbitration winner for a field, if present.
func (s VerifiedDataSummary) WinningSource(field domain.FieldName) (DataSourceInfo, bool) {
	for _, src := range s.Sources {
		if src.Field == field {
			return src, true
		}
	}
	return DataSourceInfo{}, false
}
