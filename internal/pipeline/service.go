package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"teranga/internal/aml"
	"teranga/internal/attestation"
	"teranga/internal/extraction"
	"teranga/internal/features"
	"teranga/internal/fusion"
	"teranga/internal/pipeline/metrics"
	"teranga/internal/pipeline/ports"
	"teranga/internal/regional"
	"teranga/internal/scoring"
	"teranga/pkg/domain"
	dErrors "teranga/pkg/domain-errors"
	"teranga/pkg/platform/audit"
	"teranga/pkg/platform/privacy"
	"teranga/pkg/requestcontext"
)

// Service runs the scoring pipeline. Screening and evidence gathering run
// concurrently; scoring joins them and the audit trail seals the run.
type Service struct {
	screener     ports.Screener
	extractor    ports.Extractor
	ledger       ports.EvidenceLedger
	attestations ports.AttestationDirectory
	regional     ports.RegionalContext
	scorer       *scoring.Engine
	auditStore   audit.Store
	logger       *slog.Logger
	metrics      *metrics.Metrics
	newRef       func() string
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithRefGenerator overrides audit ref generation (tests).
func WithRefGenerator(gen func() string) Option {
	return func(s *Service) { s.newRef = gen }
}

func New(
	screener ports.Screener,
	extractor ports.Extractor,
	ledger ports.EvidenceLedger,
	attestations ports.AttestationDirectory,
	regionalCtx ports.RegionalContext,
	scorer *scoring.Engine,
	auditStore audit.Store,
	opts ...Option,
) (*Service, error) {
	if screener == nil || extractor == nil || ledger == nil || attestations == nil || regionalCtx == nil || scorer == nil {
		return nil, fmt.Errorf("all pipeline ports are required")
	}
	if auditStore == nil {
		return nil, fmt.Errorf("audit store is required")
	}
	svc := &Service{
		screener:     screener,
		extractor:    extractor,
		ledger:       ledger,
		attestations: attestations,
		regional:     regionalCtx,
		scorer:       scorer,
		auditStore:   auditStore,
		newRef:       uuid.NewString,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Score runs one scoring request end to end and appends the compliance
// audit trail. Screening failures degrade to REVIEW rather than CLEAR;
// regional failures degrade to a zero adjustment rather than an error.
func (s *Service) Score(ctx context.Context, req ScoreRequest) (ScoreResult, error) {
	if req.SubjectID.IsZero() || req.FullName.IsZero() || req.Country.IsZero() {
		return ScoreResult{}, dErrors.New(dErrors.CodeValidation, "subject_id, full_name, and country are required")
	}
	if req.AsOf.IsZero() {
		req.AsOf = requestcontext.Now(ctx)
	}
	started := time.Now()
	auditRef := s.newRef()

	var (
		screening aml.Outcome
		summary   fusion.VerifiedDataSummary
		econ      regional.EconomicContext
		warnings  []string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		screening, err = s.screen(gctx, req.FullName, req.AsOf)
		return err
	})
	g.Go(func() error {
		var err error
		summary, econ, warnings, err = s.gatherEvidence(gctx, req)
		return err
	})
	if err := g.Wait(); err != nil {
		return ScoreResult{}, err
	}
	s.metrics.ObserveScreening(string(screening.Decision))

	scored, err := s.scorer.Compute(ctx, features.Compute(summary, econ, req.AsOf), econ.RiskAdjustment, screening)
	if err != nil {
		return ScoreResult{}, err
	}

	result := ScoreResult{
		SubjectID:         req.SubjectID,
		Status:            scored.Status,
		Score:             scored.Score,
		Band:              scored.Band,
		Explanation:       scored.Explanation,
		RiskAdjustment:    scored.RiskAdjustment,
		AMLDecision:       screening.Decision,
		ListVersion:       screening.ListVersion,
		DataQuality:       summary.DataQuality,
		VerificationRate:  summary.VerificationRate,
		OverallConfidence: summary.OverallConfidence,
		AuditRef:          auditRef,
		ScoredAt:          req.AsOf,
	}
	result.Warnings = append(result.Warnings, warnings...)
	result.Warnings = append(result.Warnings, summary.Warnings...)
	result.Warnings = append(result.Warnings, scored.Warnings...)

	if err := s.appendAudit(ctx, req, screening, scored, auditRef); err != nil {
		return ScoreResult{}, err
	}

	s.metrics.ObserveRequest(string(scored.Status), time.Since(started).Seconds())
	if s.logger != nil {
		s.logger.InfoContext(ctx, "scoring run complete",
			"audit_ref", auditRef,
			"status", string(scored.Status),
			"aml_decision", string(screening.Decision),
			"data_quality", string(summary.DataQuality),
			"warnings", len(result.Warnings),
		)
	}
	return result, nil
}

// screen delegates to the screener and fails closed: any screener failure
// other than bad input becomes a REVIEW outcome, never a CLEAR.
func (s *Service) screen(ctx context.Context, name domain.PersonName, asOf time.Time) (aml.Outcome, error) {
	outcome, err := s.screener.Screen(ctx, name, asOf)
	if err == nil {
		return outcome, nil
	}
	if dErrors.CodeOf(err) == dErrors.CodeValidation {
		return aml.Outcome{}, err
	}
	if s.logger != nil {
		s.logger.WarnContext(ctx, "screening failed, defaulting to review", "error", err)
	}
	return aml.Outcome{
		Decision:   aml.DecisionReview,
		NameHash:   privacy.HashName(aml.NormalizeName(name.String())),
		ScreenedAt: asOf,
		Warnings:   []string{"screening unavailable, decision defaulted to review"},
	}, nil
}

// gatherEvidence extracts documents, resolves attestation boosts, fuses
// the evidence, and loads the regional context.
func (s *Service) gatherEvidence(ctx context.Context, req ScoreRequest) (fusion.VerifiedDataSummary, regional.EconomicContext, []string, error) {
	var warnings []string

	entries, docWarnings := s.extractDocuments(ctx, req)
	warnings = append(warnings, docWarnings...)
	entries = append(entries, req.Evidence...)

	boosts, attWarnings := s.resolveBoosts(ctx, req)
	warnings = append(warnings, attWarnings...)

	summary, err := s.ledger.Ingest(ctx, req.SubjectID, entries, boosts, req.AsOf)
	if err != nil {
		return fusion.VerifiedDataSummary{}, regional.EconomicContext{}, nil, err
	}

	econ, regWarnings, err := s.regional.Context(ctx, req.Country, req.AsOf)
	if err != nil {
		return fusion.VerifiedDataSummary{}, regional.EconomicContext{}, nil, err
	}
	warnings = append(warnings, regWarnings...)
	return summary, econ, warnings, nil
}

// extractDocuments runs all documents through extraction concurrently and
// converts the results into evidence entries. Extraction never fails hard,
// so the only errors surfacing here are context cancellations.
func (s *Service) extractDocuments(ctx context.Context, req ScoreRequest) ([]fusion.DataSourceInfo, []string) {
	if len(req.Documents) == 0 {
		return nil, nil
	}
	results := make([]extraction.Result, len(req.Documents))

	g, gctx := errgroup.WithContext(ctx)
	for i, doc := range req.Documents {
		g.Go(func() error {
			results[i] = s.extractor.Extract(gctx, doc.Type, doc.OCRText, req.AsOf)
			return nil
		})
	}
	_ = g.Wait()
	s.metrics.ObserveDocuments(len(req.Documents))

	var entries []fusion.DataSourceInfo
	var warnings []string
	for i, res := range results {
		status := fusion.StatusDeclared
		if res.CrossValidationPassed {
			status = fusion.StatusPartiallyVerified
		}
		for _, f := range res.Fields {
			entries = append(entries, fusion.DataSourceInfo{
				SourceID:           fmt.Sprintf("doc-%d-%s", i, res.DocumentType),
				SourceName:         string(res.DocumentType),
				SourceType:         fusion.SourceOCR,
				Status:             status,
				Field:              f.Field,
				Confidence:         f.Confidence,
				VerificationMethod: "ocr_extraction",
				RawValue:           f.Value,
			})
		}
		for _, w := range res.ValidationWarnings {
			warnings = append(warnings, fmt.Sprintf("document %d (%s): %s", i, res.DocumentType, w))
		}
	}
	return entries, warnings
}

// resolveBoosts loads the referenced attestations and derives boosts from
// the valid ones. Unknown IDs and attestations for other beneficiaries are
// skipped with a warning rather than failing the run.
func (s *Service) resolveBoosts(ctx context.Context, req ScoreRequest) ([]fusion.Boost, []string) {
	if len(req.AttestationIDs) == 0 {
		return nil, nil
	}
	var loaded []attestation.Attestation
	var warnings []string
	for _, id := range req.AttestationIDs {
		att, err := s.attestations.FindByID(ctx, id)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("attestation %s could not be loaded", id))
			continue
		}
		if att.BeneficiaryID != req.SubjectID {
			warnings = append(warnings, fmt.Sprintf("attestation %s does not cover this subject", id))
			continue
		}
		loaded = append(loaded, *att)
	}
	return s.attestations.Boosts(ctx, loaded, req.AsOf), warnings
}

// appendAudit writes the compliance trail for the run. A failed append
// fails the request: a score must never be released without its record.
func (s *Service) appendAudit(ctx context.Context, req ScoreRequest, screening aml.Outcome, scored scoring.Result, auditRef string) error {
	requestID := requestcontext.RequestID(ctx)
	subjectHash := privacy.HashSubject(req.SubjectID.String())

	events := []audit.Event{{
		Category:    audit.EventAMLScreened.Category(),
		Timestamp:   req.AsOf,
		AuditRef:    auditRef,
		Action:      string(audit.EventAMLScreened),
		SubjectHash: subjectHash,
		NameHash:    screening.NameHash,
		Decision:    string(screening.Decision),
		ListVersion: screening.ListVersion,
		RequestID:   requestID,
	}}

	scoreEvent := audit.Event{
		Timestamp:   req.AsOf,
		AuditRef:    auditRef,
		SubjectHash: subjectHash,
		Decision:    string(scored.Status),
		RequestID:   requestID,
	}
	switch scored.Status {
	case scoring.StatusScored:
		scoreEvent.Action = string(audit.EventScoreIssued)
		scoreEvent.Category = audit.EventScoreIssued.Category()
		if detail, err := json.Marshal(scored.Explanation); err == nil {
			scoreEvent.Detail = string(detail)
		}
	case scoring.StatusBlocked:
		scoreEvent.Action = string(audit.EventScoreBlocked)
		scoreEvent.Category = audit.EventScoreBlocked.Category()
		scoreEvent.Reason = "sanctions screening hit"
	case scoring.StatusReview:
		scoreEvent.Action = string(audit.EventScoreReview)
		scoreEvent.Category = audit.EventScoreReview.Category()
		scoreEvent.Reason = "sanctions screening requires manual review"
	}
	events = append(events, scoreEvent)

	for _, event := range events {
		if err := s.auditStore.Append(ctx, event); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to append audit event")
		}
	}
	return nil
}
