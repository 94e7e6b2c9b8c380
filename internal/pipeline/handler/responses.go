package handler

import (
	"time"

	"teranga/internal/pipeline"
	"teranga/internal/scoring"
	"teranga/pkg/platform/audit"
)

// ScoreResponse is the POST /score response body.
type ScoreResponse struct {
	SubjectID         string                 `json:"subject_id"`
	Status            string                 `json:"status"`
	Score             *float64               `json:"score,omitempty"`
	Band              *string                `json:"band,omitempty"`
	Explanation       []scoring.Contribution `json:"explanation,omitempty"`
	RiskAdjustment    float64                `json:"risk_adjustment"`
	AMLDecision       string                 `json:"aml_decision"`
	ListVersion       string                 `json:"list_version,omitempty"`
	DataQuality       string                 `json:"data_quality"`
	VerificationRate  float64                `json:"verification_rate"`
	OverallConfidence float64                `json:"overall_confidence"`
	AuditRef          string                 `json:"audit_ref"`
	Warnings          []string               `json:"warnings,omitempty"`
	ScoredAt          time.Time              `json:"scored_at"`
}

// FromResult maps a pipeline result onto the wire shape.
func FromResult(result pipeline.ScoreResult) ScoreResponse {
	resp := ScoreResponse{
		SubjectID:         result.SubjectID.String(),
		Status:            string(result.Status),
		Score:             result.Score,
		Explanation:       result.Explanation,
		RiskAdjustment:    result.RiskAdjustment,
		AMLDecision:       string(result.AMLDecision),
		ListVersion:       result.ListVersion,
		DataQuality:       string(result.DataQuality),
		VerificationRate:  result.VerificationRate,
		OverallConfidence: result.OverallConfidence,
		AuditRef:          result.AuditRef,
		Warnings:          result.Warnings,
		ScoredAt:          result.ScoredAt,
	}
	if result.Band != nil {
		band := string(*result.Band)
		resp.Band = &band
	}
	return resp
}

// AuditEventResponse is one audit trail entry in the GET /audit response.
type AuditEventResponse struct {
	Category    string    `json:"category"`
	Timestamp   time.Time `json:"timestamp"`
	AuditRef    string    `json:"audit_ref"`
	Action      string    `json:"action"`
	SubjectHash string    `json:"subject_hash"`
	NameHash    string    `json:"name_hash,omitempty"`
	Decision    string    `json:"decision,omitempty"`
	Reason      string    `json:"reason,omitempty"`
	ListVersion string    `json:"list_version,omitempty"`
	RequestID   string    `json:"request_id,omitempty"`
	Detail      string    `json:"detail,omitempty"`
}

// FromAuditEvents maps stored events onto the wire shape.
func FromAuditEvents(events []audit.Event) []AuditEventResponse {
	out := make([]AuditEventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, AuditEventResponse{
			Category:    string(e.Category),
			Timestamp:   e.Timestamp,
			AuditRef:    e.AuditRef,
			Action:      e.Action,
			SubjectHash: e.SubjectHash,
			NameHash:    e.NameHash,
			Decision:    e.Decision,
			Reason:      e.Reason,
			ListVersion: e.ListVersion,
			RequestID:   e.RequestID,
			Detail:      e.Detail,
		})
	}
	return out
}
