// Package requestid assigns each request a correlation ID used across logs
// and audit events.
package requestid

import (
	"net/http"

	"github.com/google/uuid"

	"certifi/pkg/requestcontext"
)

// Header is the inbound/outbound header carrying the request ID.
const Header = "X-Request-ID"

// Middleware reuses the caller-supplied X-Request-ID when present, otherwise
// generates one, and stores it in the context and response header.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(Header)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		ctx := requestcontext.WithRequestID(r.Context(), requestID)
		w.Header().Set(Header, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
