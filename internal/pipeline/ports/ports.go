// Package ports declares the narrow interfaces the scoring pipeline
// depends on. The concrete implementations live in their own modules;
// the pipeline only sees these contracts, which keeps the orchestration
// testable with in-memory stubs.
package ports

import (
	"context"
	"time"

	"teranga/internal/aml"
	"teranga/internal/attestation"
	"teranga/internal/extraction"
	"teranga/internal/fusion"
	"teranga/internal/regional"
	"teranga/pkg/domain"
)

// Screener runs sanctions/PEP screening for a subject name.
type Screener interface {
	Screen(ctx context.Context, name domain.PersonName, asOf time.Time) (aml.Outcome, error)
}

// Extractor turns OCR text into structured fields.
type Extractor interface {
	Extract(ctx context.Context, docType extraction.DocumentType, ocrText string, asOf time.Time) extraction.Result
}

// EvidenceLedger ingests evidence and returns the fused summary.
type EvidenceLedger interface {
	Ingest(ctx context.Context, subjectID domain.SubjectID, entries []fusion.DataSourceInfo, boosts []fusion.Boost, asOf time.Time) (fusion.VerifiedDataSummary, error)
}

// AttestationDirectory resolves attestation IDs and derives fusion boosts
// from the valid ones.
type AttestationDirectory interface {
	FindByID(ctx context.Context, id string) (*attestation.Attestation, error)
	Boosts(ctx context.Context, atts []attestation.Attestation, asOf time.Time) []fusion.Boost
}

// RegionalContext supplies the macro-economic context for a country.
type RegionalContext interface {
	Context(ctx context.Context, country domain.CountryCode, asOf time.Time) (regional.EconomicContext, []string, error)
}
