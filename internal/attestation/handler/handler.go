// Package handler exposes the partner attestation lifecycle over HTTP:
// issuance, lookup, and revocation.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"teranga/internal/attestation"
	dErrors "teranga/pkg/domain-errors"
	"teranga/pkg/platform/httputil"
	"teranga/pkg/requestcontext"
)

// Service defines the interface for attestation operations.
type Service interface {
	Issue(ctx context.Context, req attestation.IssueRequest, asOf time.Time) (*attestation.Attestation, error)
	FindByID(ctx context.Context, id string) (*attestation.Attestation, error)
	Revoke(ctx context.Context, id string, reason string, asOf time.Time) error
}

// Handler wires attestation endpoints to the attestation service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs an attestation handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts attestation endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/attestations", h.HandleIssue)
	r.Get("/attestations/{attestationID}", h.HandleGet)
	r.Post("/attestations/{attestationID}/revoke", h.HandleRevoke)
}

// HandleIssue handles POST /attestations requests.
func (h *Handler) HandleIssue(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[IssueRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	att, err := h.service.Issue(ctx, req.Parsed(), requestcontext.Now(ctx))
	if err != nil {
		h.logger.ErrorContext(ctx, "attestation issuance failed",
			"request_id", requestID,
			"type", req.TypeID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "attestation issued",
		"request_id", requestID,
		"attestation_id", att.ID,
		"type", att.TypeID,
	)
	httputil.WriteJSON(w, http.StatusCreated, FromAttestation(att))
}

// HandleGet handles GET /attestations/{attestationID} requests.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id := chi.URLParam(r, "attestationID")
	if id == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "attestation ID is required"))
		return
	}

	att, err := h.service.FindByID(ctx, id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromAttestation(att))
}

// HandleRevoke handles POST /attestations/{attestationID}/revoke requests.
func (h *Handler) HandleRevoke(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	id := chi.URLParam(r, "attestationID")
	if id == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "attestation ID is required"))
		return
	}

	req, ok := httputil.DecodeAndPrepare[RevokeRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	if err := h.service.Revoke(ctx, id, req.Reason, requestcontext.Now(ctx)); err != nil {
		h.logger.ErrorContext(ctx, "attestation revocation failed",
			"request_id", requestID,
			"attestation_id", id,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "attestation revoked",
		"request_id", requestID,
		"attestation_id", id,
	)
	w.WriteHeader(http.StatusNoContent)
}
