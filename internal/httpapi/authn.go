package httpapi

import (
	"net/http"
	"strings"

	"aegis.gg/internal/auth"
)

const (
	authHeader  = "Authorization"
	bearer      = "Bearer "
	tokenCookie = "token"
)

// Always reachable regardless of the permission table.
var infraPaths = []string{
	"/healthz",
	"/readyz",
	"/metrics",
}

// Session management endpoints need a valid token but are not gated by the
// permission table: a pending organization must still be able to log out.
var sessionPaths = []string{
	"/auth/logout",
	"/auth/revoke-sessions",
}

// withAuth runs the two-stage verification pipeline (token decode, then
// session lookup) followed by path-based authorization. Public paths skip
// both; no partial-trust shortcut exists for anything else.
func (a *API) withAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}
		path := r.URL.Path
		if isInfraPath(path) || a.resolver.IsPublic(path) {
			next.ServeHTTP(w, r)
			return
		}

		token, ok := extractToken(r)
		if !ok {
			writeError(w, r, http.StatusUnauthorized, "missing bearer token")
			return
		}
		claims, err := a.auth.AuthenticateRequest(r.Context(), token)
		if err != nil {
			handleAuthError(w, r, err)
			return
		}

		if !isSessionPath(path) {
			if err := a.resolver.Authorize(path, claims); err != nil {
				handleAuthError(w, r, err)
				return
			}
		}

		ctx := auth.ContextWithClaims(r.Context(), claims)
		ctx = auth.ContextWithToken(ctx, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// extractToken prefers the Authorization header; the token cookie is the
// fallback. Header and cookie are never mixed per request.
func extractToken(r *http.Request) (string, bool) {
	header := strings.TrimSpace(r.Header.Get(authHeader))
	if header != "" {
		if !strings.HasPrefix(header, bearer) {
			return "", false
		}
		token := strings.TrimSpace(header[len(bearer):])
		return token, token != ""
	}
	if c, err := r.Cookie(tokenCookie); err == nil {
		token := strings.TrimSpace(c.Value)
		return token, token != ""
	}
	return "", false
}

func isInfraPath(path string) bool {
	for _, p := range infraPaths {
		if path == p {
			return true
		}
	}
	return false
}

func isSessionPath(path string) bool {
	for _, p := range sessionPaths {
		if path == p {
			return true
		}
	}
	return false
}
