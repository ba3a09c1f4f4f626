package chi

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// AuthOptions configures BearerAuthMiddleware.
type AuthOptions struct {
	// APIKeys are the accepted bearer tokens. Empty keys are ignored; with no
	// keys left, authentication is off.
	APIKeys []string
	// PublicSearch lets anyone render a view's search widget (GET
	// /views/{id}/search and its legacy shape); configuration stays protected.
	PublicSearch bool
}

// BearerAuthMiddleware rejects requests without a known bearer token.
// /health and /metrics are always open.
func BearerAuthMiddleware(opts AuthOptions) func(http.Handler) http.Handler {
	keys := make([][]byte, 0, len(opts.APIKeys))
	for _, k := range opts.APIKeys {
		if k != "" {
			keys = append(keys, []byte(k))
		}
	}

	return func(next http.Handler) http.Handler {
		if len(keys) == 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isOpen(r, opts.PublicSearch) {
				next.ServeHTTP(w, r)
				return
			}

			token, ok := bearerToken(r)
			if !ok {
				writeError(w, http.StatusUnauthorized, ErrorCodeUnauthorized,
					"authorization header must carry a Bearer token")
				return
			}
			if !knownKey(keys, token) {
				writeError(w, http.StatusUnauthorized, ErrorCodeUnauthorized, "invalid api key")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func isOpen(r *http.Request, publicSearch bool) bool {
	switch r.URL.Path {
	case "/health", "/metrics":
		return true
	}
	if !publicSearch || r.Method != http.MethodGet {
		return false
	}
	// /views/{id}/search or /views/{id}/search/legacy
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) < 3 || parts[0] != "views" || parts[2] != "search" {
		return false
	}
	return len(parts) == 3 || (len(parts) == 4 && parts[3] == "legacy")
}

func bearerToken(r *http.Request) ([]byte, bool) {
	const prefix = "Bearer "
	auth := r.Header.Get("Authorization")
	if !strings.HasPrefix(auth, prefix) || len(auth) == len(prefix) {
		return nil, false
	}
	return []byte(auth[len(prefix):]), true
}

func knownKey(keys [][]byte, token []byte) bool {
	found := 0
	for _, k := range keys {
		found |= subtle.ConstantTimeCompare(k, token)
	}
	return found == 1
}
