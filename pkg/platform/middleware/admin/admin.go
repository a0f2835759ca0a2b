// Package admin guards operator-only endpoints with a shared secret.
package admin

import (
	"log/slog"
	"net/http"

	"github.com/provenance-io/hastra-sol-vault-mint/pkg/requestcontext"
	"github.com/provenance-io/hastra-sol-vault-mint/pkg/secrets"
)

// RequireSecret returns middleware that checks the X-Admin-Secret header
// against a bcrypt hash of the operator secret. Requests without a matching
// secret are rejected. An empty hash disables the guarded routes entirely.
func RequireSecret(secretHash string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if secretHash == "" {
				logger.WarnContext(ctx, "admin endpoint hit with no operator secret configured",
					"request_id", requestcontext.RequestID(ctx),
				)
				writeUnauthorized(w)
				return
			}

			if err := secrets.Verify(r.Header.Get("X-Admin-Secret"), secretHash); err != nil {
				logger.WarnContext(ctx, "admin secret mismatch",
					"request_id", requestcontext.RequestID(ctx),
				)
				writeUnauthorized(w)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"unauthorized","error_description":"operator secret required"}`))
}
