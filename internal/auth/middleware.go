package auth

import (
	"net/http"
	"strings"
)

// ScopeRosterWrite is required to mutate rosters when auth is enabled.
const ScopeRosterWrite = "roster:write"

// Middleware enforces bearer-token authentication on roster mutations.
// Reads, static assets, and health checks stay open: students browse the
// catalog anonymously, only signup/unregister need a token.
type Middleware struct {
	cfg Config
}

// NewMiddleware constructs Middleware with validation config.
func NewMiddleware(cfg Config) Middleware {
	return Middleware{cfg: cfg}
}

// Wrap attaches authentication handling to an http.Handler. With no
// secret configured the handler is returned unchanged.
func (m Middleware) Wrap(next http.Handler) http.Handler {
	if !m.cfg.Enabled() {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || !strings.HasPrefix(r.URL.Path, "/activities/") {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := m.parseRequest(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}
		if !claims.HasScope(ScopeRosterWrite) {
			http.Error(w, "scope roster:write required", http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
	})
}

func (m Middleware) parseRequest(r *http.Request) (*Claims, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return nil, ErrMissingToken
	}
	if !strings.HasPrefix(strings.ToLower(header), "bearer ") {
		return nil, ErrInvalidToken
	}
	token := strings.TrimSpace(header[len("Bearer "):])
	return Parse(token, m.cfg)
}
