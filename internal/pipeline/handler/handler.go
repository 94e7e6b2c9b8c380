package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"teranga/internal/pipeline"
	dErrors "teranga/pkg/domain-errors"
	"teranga/pkg/platform/audit"
	"teranga/pkg/platform/httputil"
	"teranga/pkg/requestcontext"
)

// Service defines the interface for scoring operations.
type Service interface {
	Score(ctx context.Context, req pipeline.ScoreRequest) (pipeline.ScoreResult, error)
}

// Handler wires the scoring and audit-trail endpoints to the pipeline.
type Handler struct {
	service    Service
	auditStore audit.Store
	logger     *slog.Logger
}

// New constructs a pipeline handler with its dependencies.
func New(service Service, auditStore audit.Store, logger *slog.Logger) *Handler {
	return &Handler{
		service:    service,
		auditStore: auditStore,
		logger:     logger,
	}
}

// Register mounts pipeline endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/score", h.HandleScore)
	r.Get("/audit/{auditRef}", h.HandleAuditTrail)
}

// HandleScore handles POST /score requests.
func (h *Handler) HandleScore(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[ScoreRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, err := h.service.Score(ctx, req.Parsed())
	if err != nil {
		h.logger.ErrorContext(ctx, "scoring request failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "scoring request served",
		"request_id", requestID,
		"status", string(result.Status),
		"audit_ref", result.AuditRef,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, FromResult(result))
}

// HandleAuditTrail handles GET /audit/{auditRef} requests.
func (h *Handler) HandleAuditTrail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	auditRef := chi.URLParam(r, "auditRef")
	if auditRef == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "audit ref is required"))
		return
	}

	events, err := h.auditStore.FindByRef(ctx, auditRef)
	if err != nil {
		h.logger.ErrorContext(ctx, "audit trail lookup failed",
			"request_id", requestID,
			"audit_ref", auditRef,
			"error", err,
		)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load audit trail"))
		return
	}
	if len(events) == 0 {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "no audit trail for ref"))
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"audit_ref": auditRef,
		"events":    FromAuditEvents(events),
	})
}
