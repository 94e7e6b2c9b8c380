package extraction

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"teranga/pkg/domain"
)

// Service applies the rule catalogue to OCR text.
type Service struct {
	logger *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func New(opts ...Option) *Service {
	svc := &Service{}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// Extract runs the ordered rule set for the document type over the OCR
// text. First matching rule per field wins. Never fails hard: empty or
// malformed input yields a low-confidence result with warnings.
func (s *Service) Extract(ctx context.Context, docType DocumentType, ocrText string, asOf time.Time) Result {
	result := Result{DocumentType: docType}

	rules, ok := ruleSets[docType]
	if !ok {
		result.ValidationWarnings = append(result.ValidationWarnings,
			fmt.Sprintf("unknown document type %q", docType))
		return result
	}
	if strings.TrimSpace(ocrText) == "" {
		result.ValidationWarnings = append(result.ValidationWarnings, "empty OCR text")
		for _, r := range rules {
			if r.mandatory {
				result.ValidationWarnings = append(result.ValidationWarnings,
					fmt.Sprintf("mandatory field %s not found", r.field))
			}
		}
		return result
	}

	extracted := make(map[domain.FieldName]ExtractedField)
	mandatoryFailed := false

	for _, rule := range rules {
		if _, done := extracted[rule.field]; done {
			continue // first matching rule per field wins
		}
		match := rule.pattern.FindStringSubmatch(ocrText)
		if match == nil {
			if rule.mandatory {
				mandatoryFailed = true
				result.ValidationWarnings = append(result.ValidationWarnings,
					fmt.Sprintf("mandatory field %s not found", rule.field))
			}
			continue
		}
		value := strings.TrimSpace(match[1])
		if rule.check != nil {
			if err := rule.check(value, asOf); err != nil {
				if rule.mandatory {
					mandatoryFailed = true
				}
				result.ValidationWarnings = append(result.ValidationWarnings,
					fmt.Sprintf("field %s failed validation: %v", rule.field, err))
				continue
			}
		}
		extracted[rule.field] = ExtractedField{
			Field:      rule.field,
			Value:      value,
			Confidence: rule.confidence,
			SourceText: strings.TrimSpace(match[0]),
		}
	}

	// Emit in rule order so results are deterministic.
	var weightedSum, weightTotal float64
	for _, rule := range rules {
		f, ok := extracted[rule.field]
		if !ok {
			continue
		}
		result.Fields = append(result.Fields, f)
		w := rule.field.Importance()
		weightedSum += f.Confidence * w
		weightTotal += w
	}
	if weightTotal > 0 {
		result.OverallConfidence = weightedSum / weightTotal
	}
	result.CrossValidationPassed = !mandatoryFailed && len(result.Fields) > 0

	if s.logger != nil {
		s.logger.DebugContext(ctx, "document extracted",
			"document_type", string(docType),
			"fields", len(result.Fields),
			"overall_confidence", result.OverallConfidence,
			"cross_validation", result.CrossValidationPassed,
		)
	}
	return result
}
