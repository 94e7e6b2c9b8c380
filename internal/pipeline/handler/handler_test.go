package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	"teranga/internal/aml"
	"teranga/internal/fusion"
	"teranga/internal/pipeline"
	"teranga/internal/scoring"
	"teranga/pkg/domain"
	dErrors "teranga/pkg/domain-errors"
	"teranga/pkg/platform/audit"
	auditmem "teranga/pkg/platform/audit/store/memory"
)

type stubService struct {
	result pipeline.ScoreResult
	err    error
	gotReq pipeline.ScoreRequest
}

func (s *stubService) Score(_ context.Context, req pipeline.ScoreRequest) (pipeline.ScoreResult, error) {
	s.gotReq = req
	if s.err != nil {
		return pipeline.ScoreResult{}, s.err
	}
	return s.result, nil
}

type HandlerSuite struct {
	suite.Suite
	service    *stubService
	auditStore *auditmem.InMemoryStore
	router     chi.Router
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	score := 72.5
	band := scoring.BandGood
	s.service = &stubService{result: pipeline.ScoreResult{
		SubjectID:   domain.MustSubjectID("subj-0001"),
		Status:      scoring.StatusScored,
		Score:       &score,
		Band:        &band,
		AMLDecision: aml.DecisionClear,
		DataQuality: fusion.QualityMedium,
		AuditRef:    "ref-0001",
		ScoredAt:    time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC),
	}}
	s.auditStore = auditmem.NewInMemoryStore()

	logger := slog.New(slog.DiscardHandler)
	s.router = chi.NewRouter()
	New(s.service, s.auditStore, logger).Register(s.router)
}

func (s *HandlerSuite) postScore(body any) *httptest.ResponseRecorder {
	raw, err := json.Marshal(body)
	s.Require().NoError(err)
	req := httptest.NewRequest(http.MethodPost, "/score", bytes.NewReader(raw))
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *HandlerSuite) TestScoreSuccess() {
	rec := s.postScore(map[string]any{
		"subject_id": "subj-0001",
		"full_name":  "Awa Ndiaye",
		"country":    "SN",
		"as_of":      "2025-06-15T10:00:00Z",
		"evidence": []map[string]any{{
			"source_id":   "api-telco",
			"source_type": "api",
			"status":      "verified",
			"field":       "phone_number",
			"confidence":  95,
			"value":       "+221771234567",
		}},
	})

	s.Equal(http.StatusOK, rec.Code)

	var resp ScoreResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Equal("SCORED", resp.Status)
	s.Require().NotNil(resp.Score)
	s.InDelta(72.5, *resp.Score, 1e-9)
	s.Equal("ref-0001", resp.AuditRef)

	// Parsed domain request reached the service intact.
	s.Equal("subj-0001", s.service.gotReq.SubjectID.String())
	s.Equal("SN", s.service.gotReq.Country.String())
	s.Require().Len(s.service.gotReq.Evidence, 1)
	s.Equal(fusion.StatusVerified, s.service.gotReq.Evidence[0].Status)
}

func (s *HandlerSuite) TestScoreValidationErrors() {
	cases := []struct {
		name string
		body map[string]any
	}{
		{"missing subject", map[string]any{"full_name": "Awa Ndiaye", "country": "SN"}},
		{"bad country", map[string]any{"subject_id": "subj-0001", "full_name": "Awa Ndiaye", "country": "FR"}},
		{"bad as_of", map[string]any{"subject_id": "subj-0001", "full_name": "Awa Ndiaye", "country": "SN", "as_of": "yesterday"}},
		{"unknown document type", map[string]any{
			"subject_id": "subj-0001", "full_name": "Awa Ndiaye", "country": "SN",
			"documents": []map[string]any{{"type": "passport_scan", "ocr_text": "x"}},
		}},
		{"unknown evidence field", map[string]any{
			"subject_id": "subj-0001", "full_name": "Awa Ndiaye", "country": "SN",
			"evidence": []map[string]any{{"source_id": "x", "source_type": "api", "status": "verified", "field": "shoe_size", "value": "42"}},
		}},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			rec := s.postScore(tc.body)
			s.Equal(http.StatusBadRequest, rec.Code)

			var body map[string]string
			s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
			s.Equal(string(dErrors.CodeValidation), body["error"])
		})
	}
}

func (s *HandlerSuite) TestScoreMalformedBody() {
	req := httptest.NewRequest(http.MethodPost, "/score", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *HandlerSuite) TestScoreServiceError() {
	s.service.err = dErrors.New(dErrors.CodeInternal, "audit backend down")

	rec := s.postScore(map[string]any{
		"subject_id": "subj-0001", "full_name": "Awa Ndiaye", "country": "SN",
	})

	s.Equal(http.StatusInternalServerError, rec.Code)
	var body map[string]string
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	s.Empty(body["error_description"], "internal detail must not leak")
}

func (s *HandlerSuite) TestAuditTrailFound() {
	event := audit.Event{
		Category:  audit.CategoryCompliance,
		Timestamp: time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC),
		AuditRef:  "ref-0001",
		Action:    string(audit.EventScoreIssued),
		Decision:  "SCORED",
	}
	s.Require().NoError(s.auditStore.Append(context.Background(), event))

	req := httptest.NewRequest(http.MethodGet, "/audit/ref-0001", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	s.Equal(http.StatusOK, rec.Code)
	var body struct {
		AuditRef string               `json:"audit_ref"`
		Events   []AuditEventResponse `json:"events"`
	}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	s.Equal("ref-0001", body.AuditRef)
	s.Require().Len(body.Events, 1)
	s.Equal(string(audit.EventScoreIssued), body.Events[0].Action)
}

func (s *HandlerSuite) TestAuditTrailNotFound() {
	req := httptest.NewRequest(http.MethodGet, "/audit/ref-missing", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	s.Equal(http.StatusNotFound, rec.Code)
}
