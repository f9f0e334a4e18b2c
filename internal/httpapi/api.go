package httpapi

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"creatorlabs.app/internal/access"
	"creatorlabs.app/internal/audit"
	"creatorlabs.app/internal/auth"
	"creatorlabs.app/internal/content"
	"creatorlabs.app/internal/genai"
	"creatorlabs.app/internal/obs"
	"creatorlabs.app/internal/stream"
	"creatorlabs.app/internal/youtube"
)

// ReadyProbe checks downstream readiness (for now, a DB ping).
type ReadyProbe struct {
	DB *sql.DB
}

func (rp ReadyProbe) Check(ctx context.Context) error {
	if rp.DB == nil {
		return nil
	}
	return rp.DB.PingContext(ctx)
}

// API is the HTTP layer.
type API struct {
	mux        *http.ServeMux
	readyProbe ReadyProbe
	version    string

	auth    *auth.Service
	access  *access.Manager
	content *content.Service
	gen     *genai.Client
	yt      *youtube.Client
	hub     *stream.Hub
}

// Deps bundles the services the API serves.
type Deps struct {
	Auth    *auth.Service
	Access  *access.Manager
	Content *content.Service
	Gen     *genai.Client
	YouTube *youtube.Client
	Hub     *stream.Hub
}

func New(rp ReadyProbe, version string, deps Deps) *API {
	a := &API{
		mux:        http.NewServeMux(),
		readyProbe: rp,
		version:    version,
		auth:       deps.Auth,
		access:     deps.Access,
		content:    deps.Content,
		gen:        deps.Gen,
		yt:         deps.YouTube,
		hub:        deps.Hub,
	}

	// health/ready/info
	a.mux.HandleFunc("/healthz", a.Healthz)
	a.mux.HandleFunc("/readyz", a.Ready)
	a.mux.HandleFunc("/v1/info", a.Info)

	// Prometheus metrics
	a.mux.Handle("/metrics", obs.Handler())

	// auth
	a.mux.HandleFunc("/v1/auth/signup", a.handleSignup)
	a.mux.HandleFunc("/v1/auth/login", a.handleLogin)

	// tool access + generation
	a.mux.HandleFunc("/v1/access", a.handleAccess)
	a.mux.HandleFunc("/v1/tools/", a.handleTools)
	a.mux.HandleFunc("/v1/channel/inspect", a.handleChannelInspect)

	// creator records
	a.mux.HandleFunc("/v1/content", a.handleContentCollection)
	a.mux.HandleFunc("/v1/content/", a.handleContentResource)
	a.mux.HandleFunc("/v1/stats", a.handleStats)
	a.mux.HandleFunc("/v1/calendar", a.handleCalendar)
	a.mux.HandleFunc("/v1/tutorials", a.handleTutorials)
	a.mux.HandleFunc("/v1/activity", a.handleActivity)
	a.mux.HandleFunc("/v1/activity/stream", a.handleActivityStream)

	// admin surface
	a.mux.HandleFunc("/v1/admin/access/", a.handleAdminAccess)
	a.mux.HandleFunc("/v1/admin/settings/tools-locked", a.handleToolsLocked)
	a.mux.HandleFunc("/v1/admin/team", a.handleAdminTeam)
	a.mux.HandleFunc("/v1/admin/team/", a.handleAdminTeamResource)
	a.mux.HandleFunc("/v1/admin/tutorials", a.handleAdminTutorials)
	a.mux.HandleFunc("/v1/admin/tutorials/", a.handleAdminTutorialResource)

	a.mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	return a
}

// Handler returns the complete handler chain for the server.
func (a *API) Handler() http.Handler {
	return obs.Instrument(a.withAuth(a.mux))
}

// --- Handlers ---

func (a *API) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "creatorlabs-api",
		"version": a.version,
	})
}

func (a *API) Ready(w http.ResponseWriter, r *http.Request) {
	if err := a.readyProbe.Check(r.Context()); err != nil {
		obs.SetReady(false)
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status": "not_ready",
			"error":  err.Error(),
		})
		return
	}
	obs.SetReady(true)
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ready",
	})
}

func (a *API) Info(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":    "creatorlabs-api",
		"time":    time.Now().UTC().Format(time.RFC3339),
		"version": a.version,
		"tools":   access.Catalog,
	})
}

func (a *API) audit(ctx context.Context, event, entity, id string, meta map[string]string) {
	fields := map[string]any{
		"entity":    entity,
		"entity_id": id,
	}
	for k, v := range meta {
		fields[k] = v
	}
	_ = audit.LogEvent(ctx, event, fields)
}

// --- helpers ---

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, code int, msg string) {
	writeJSON(w, code, map[string]any{
		"error": msg,
	})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	reader := http.MaxBytesReader(w, r.Body, 1<<20)
	defer reader.Close()
	dec := json.NewDecoder(reader)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is required")
		}
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		if err == nil {
			return errors.New("unexpected data after JSON body")
		}
		return err
	}
	return nil
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
}

// handleServiceError maps domain sentinel errors to HTTP responses.
func handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, access.ErrInvalidInput),
		errors.Is(err, auth.ErrInvalidInput),
		errors.Is(err, content.ErrInvalidInput):
		writeError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, auth.ErrConflict), errors.Is(err, access.ErrConflict):
		writeError(w, r, http.StatusConflict, err.Error())
	case errors.Is(err, access.ErrNotFound),
		errors.Is(err, auth.ErrNotFound),
		errors.Is(err, content.ErrNotFound):
		writeError(w, r, http.StatusNotFound, err.Error())
	case errors.Is(err, auth.ErrUnauthorized), errors.Is(err, auth.ErrInvalidToken):
		writeError(w, r, http.StatusUnauthorized, "unauthorized")
	default:
		writeError(w, r, http.StatusInternalServerError, "internal error")
	}
}
