package httpapi

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"aegis.gg/internal/auth"
	"aegis.gg/internal/obs"
)

// ReadyProbe checks backing-store readiness for /readyz.
type ReadyProbe struct {
	DB *sql.DB
}

func (rp ReadyProbe) Check(ctx context.Context) error {
	if rp.DB == nil {
		return nil
	}
	return rp.DB.PingContext(ctx)
}

// API is the HTTP layer. Downstream resource handlers (players, tournaments,
// chat and the rest) mount through Handle and inherit the middleware chain,
// including path-based authorization.
type API struct {
	mux        *http.ServeMux
	auth       *auth.Service
	resolver   *auth.PermissionResolver
	readyProbe ReadyProbe
	version    string
	cookieTTL  time.Duration
}

func New(svc *auth.Service, resolver *auth.PermissionResolver, rp ReadyProbe, version string, cookieTTL time.Duration) *API {
	a := &API{
		mux:        http.NewServeMux(),
		auth:       svc,
		resolver:   resolver,
		readyProbe: rp,
		version:    version,
		cookieTTL:  cookieTTL,
	}

	a.mux.HandleFunc("/auth/login", a.handleLogin)
	a.mux.HandleFunc("/auth/register", a.handleRegister)
	a.mux.HandleFunc("/auth/refresh", a.handleRefresh)
	a.mux.HandleFunc("/auth/logout", a.handleLogout)
	a.mux.HandleFunc("/auth/revoke-sessions", a.handleRevokeSessions)

	a.mux.HandleFunc("/healthz", a.Healthz)
	a.mux.HandleFunc("/readyz", a.Ready)
	a.mux.Handle("/metrics", obs.Handler())

	a.mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	return a
}

// Handle mounts a downstream resource handler behind the middleware chain.
func (a *API) Handle(pattern string, handler http.Handler) {
	a.mux.Handle(pattern, handler)
}

// Handler returns the fully wrapped http.Handler for the server.
func (a *API) Handler() http.Handler {
	var h http.Handler = a.mux
	h = a.withAuth(h)
	h = MaxBodyBytes(h, 1<<20)
	h = CORS(h)
	h = SecurityHeaders(h)
	h = LoggingJSON(h)
	h = RequestID(h)
	return obs.Instrument(h)
}

func (a *API) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "aegis-api",
		"version": a.version,
	})
}

func (a *API) Ready(w http.ResponseWriter, r *http.Request) {
	if err := a.readyProbe.Check(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status": "not_ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ready",
	})
}
