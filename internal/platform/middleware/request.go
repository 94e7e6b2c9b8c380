// Package middleware provides the small request-scoped middleware the
// scoring API needs: a correlation ID and a single per-request timestamp.
// All operations within one request see the same "now", which keeps audit
// timestamps and expiry checks consistent.
package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"teranga/pkg/requestcontext"
)

// Request captures a request ID (honoring X-Request-ID when present) and
// the request time, and stores both in the context.
func Request(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}

		ctx := requestcontext.WithRequestID(r.Context(), requestID)
		ctx = requestcontext.WithTime(ctx, time.Now().UTC())

		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
