package handler

import (
	"fmt"
	"time"

	"teranga/internal/extraction"
	"teranga/internal/fusion"
	"teranga/internal/pipeline"
	"teranga/pkg/domain"
	dErrors "teranga/pkg/domain-errors"
)

// DocumentPayload is one OCR-processed document in the request body.
type DocumentPayload struct {
	Type    string `json:"type"`
	OCRText string `json:"ocr_text"`
}

// EvidencePayload is one pre-structured evidence entry, used by callers
// that already hold verified data from API or registry channels.
type EvidencePayload struct {
	SourceID           string  `json:"source_id"`
	SourceName         string  `json:"source_name"`
	SourceType         string  `json:"source_type"`
	Status             string  `json:"status"`
	Field              string  `json:"field"`
	Confidence         float64 `json:"confidence"`
	VerificationMethod string  `json:"verification_method,omitempty"`
	VerifiedAt         string  `json:"verified_at,omitempty"`
	VerifiedBy         string  `json:"verified_by,omitempty"`
	Value              string  `json:"value"`
}

// ScoreRequest is the POST /score body.
type ScoreRequest struct {
	SubjectID      string            `json:"subject_id"`
	FullName       string            `json:"full_name"`
	Country        string            `json:"country"`
	AsOf           string            `json:"as_of,omitempty"` // RFC 3339; defaults to request time
	Documents      []DocumentPayload `json:"documents,omitempty"`
	Evidence       []EvidencePayload `json:"evidence,omitempty"`
	AttestationIDs []string          `json:"attestation_ids,omitempty"`

	parsed pipeline.ScoreRequest
}

// Validate parses the raw payload into domain types.
func (r *ScoreRequest) Validate() error {
	subjectID, err := domain.ParseSubjectID(r.SubjectID)
	if err != nil {
		return dErrors.New(dErrors.CodeValidation, err.Error())
	}
	fullName, err := domain.ParsePersonName(r.FullName)
	if err != nil {
		return dErrors.New(dErrors.CodeValidation, err.Error())
	}
	country, err := domain.ParseCountryCode(r.Country)
	if err != nil {
		return dErrors.New(dErrors.CodeValidation, err.Error())
	}

	var asOf time.Time
	if r.AsOf != "" {
		asOf, err = time.Parse(time.RFC3339, r.AsOf)
		if err != nil {
			return dErrors.New(dErrors.CodeValidation, "as_of must be RFC 3339")
		}
	}

	docs := make([]pipeline.DocumentInput, 0, len(r.Documents))
	for i, d := range r.Documents {
		docType := extraction.DocumentType(d.Type)
		if !docType.IsValid() {
			return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("documents[%d]: unknown document type %q", i, d.Type))
		}
		docs = append(docs, pipeline.DocumentInput{Type: docType, OCRText: d.OCRText})
	}

	evidence := make([]fusion.DataSourceInfo, 0, len(r.Evidence))
	for i, e := range r.Evidence {
		field, err := domain.ParseFieldName(e.Field)
		if err != nil {
			return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("evidence[%d]: %v", i, err))
		}
		entry := fusion.DataSourceInfo{
			SourceID:           e.SourceID,
			SourceName:         e.SourceName,
			SourceType:         fusion.SourceType(e.SourceType),
			Status:             fusion.SourceStatus(e.Status),
			Field:              field,
			Confidence:         e.Confidence,
			VerificationMethod: e.VerificationMethod,
			VerifiedBy:         e.VerifiedBy,
			RawValue:           e.Value,
		}
		if e.VerifiedAt != "" {
			verifiedAt, err := time.Parse(time.RFC3339, e.VerifiedAt)
			if err != nil {
				return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("evidence[%d]: verified_at must be RFC 3339", i))
			}
			entry.VerifiedAt = &verifiedAt
		}
		evidence = append(evidence, entry)
	}

	r.parsed = pipeline.ScoreRequest{
		SubjectID:      subjectID,
		FullName:       fullName,
		Country:        country,
		Documents:      docs,
		Evidence:       evidence,
		AttestationIDs: r.AttestationIDs,
		AsOf:           asOf,
	}
	return nil
}

// Parsed returns the domain request. Valid only after Validate succeeded.
func (r *ScoreRequest) Parsed() pipeline.ScoreRequest { return r.parsed }
