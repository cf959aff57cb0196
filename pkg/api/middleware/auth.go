package middleware

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"
)

// NewAuth creates a middleware that guards the operator routes with API keys
// sent as "Authorization: Bearer <key>". With no keys configured every
// request is rejected.
func NewAuth(validKeys []string) Middleware {
	keys := make([][]byte, 0, len(validKeys))

	for _, k := range validKeys {
		if k != "" {
			keys = append(keys, []byte(k))
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, found := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !found || token == "" {
				slog.WarnContext(r.Context(), "Unauthenticated request", "path", r.URL.Path, "req_id", ReqID(r.Context()))
				http.Error(w, "missing or malformed authorization header", http.StatusUnauthorized)

				return
			}

			if !isValidKey([]byte(token), keys) {
				slog.WarnContext(r.Context(), "Invalid API key", "path", r.URL.Path, "req_id", ReqID(r.Context()))
				http.Error(w, "invalid API key", http.StatusUnauthorized)

				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func isValidKey(token []byte, keys [][]byte) bool {
	valid := false

	for _, key := range keys {
		if subtle.ConstantTimeCompare(token, key) == 1 {
			valid = true
		}
	}

	return valid
}
