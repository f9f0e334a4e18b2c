package httpapi

import (
	"net/http"
	"strings"
	"time"

	"creatorlabs.app/internal/access"
)

type accessResponse struct {
	IsAdmin     bool            `json:"is_admin"`
	ToolsLocked bool            `json:"tools_locked"`
	HasAny      bool            `json:"has_any"`
	Usable      map[string]bool `json:"usable"`
	Grants      []access.Grant  `json:"grants"`
}

type grantRequest struct {
	UserID    string     `json:"user_id"`
	ToolIDs   []string   `json:"tool_ids,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

type revokeRequest struct {
	UserID string `json:"user_id"`
	ToolID string `json:"tool_id,omitempty"`
}

type toolsLockedRequest struct {
	Locked bool `json:"locked"`
}

// handleAccess reports the caller's gating inputs and per-tool verdicts so
// the web app can decide what to render without re-deriving the rules.
func (a *API) handleAccess(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	identity, ok := a.identity(w, r)
	if !ok {
		return
	}

	eval, err := a.access.EvaluatorFor(r.Context(), identity)
	if err != nil {
		// Fail closed but keep serving: the evaluator already carries
		// locked=true, the client keeps its last known state.
		a.audit(r.Context(), "access.read.degraded", "user", identity.UserID, map[string]string{
			"error": err.Error(),
		})
	}

	usable := make(map[string]bool, len(access.Catalog))
	for _, tool := range access.Catalog {
		usable[tool] = eval.CanUse(tool)
	}
	_, locked, grants := eval.Snapshot()
	writeJSON(w, http.StatusOK, accessResponse{
		IsAdmin:     identity.Admin,
		ToolsLocked: locked,
		HasAny:      eval.HasAny(),
		Usable:      usable,
		Grants:      grants,
	})
}

// handleAdminAccess dispatches /v1/admin/access/{grant,grant-all,revoke,revoke-all}.
func (a *API) handleAdminAccess(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	admin, ok := a.requireAdmin(w, r)
	if !ok {
		return
	}

	action := strings.TrimPrefix(r.URL.Path, "/v1/admin/access/")
	switch action {
	case "grant":
		a.adminGrant(w, r, admin, false)
	case "grant-all":
		a.adminGrant(w, r, admin, true)
	case "revoke":
		a.adminRevoke(w, r, admin)
	case "revoke-all":
		a.adminRevokeAll(w, r, admin)
	default:
		writeError(w, r, http.StatusNotFound, "resource not found")
	}
}

func (a *API) adminGrant(w http.ResponseWriter, r *http.Request, admin access.Identity, all bool) {
	var req grantRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	var (
		grants []access.Grant
		err    error
	)
	if all {
		grants, err = a.access.GrantAll(r.Context(), req.UserID, req.ExpiresAt, admin.UserID)
	} else {
		grants, err = a.access.Grant(r.Context(), req.UserID, req.ToolIDs, req.ExpiresAt, admin.UserID)
	}
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	event := "access.grant"
	if all {
		event = "access.grant_all"
	}
	a.audit(r.Context(), event, "user", req.UserID, map[string]string{
		"tools": strings.Join(req.ToolIDs, ","),
	})
	a.logAdmin(r, admin.UserID, event, req.UserID, strings.Join(req.ToolIDs, ","))
	writeJSON(w, http.StatusOK, map[string]any{"grants": grants})
}

func (a *API) adminRevoke(w http.ResponseWriter, r *http.Request, admin access.Identity) {
	var req revokeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	grants, err := a.access.Revoke(r.Context(), req.UserID, req.ToolID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	a.audit(r.Context(), "access.revoke", "user", req.UserID, map[string]string{
		"tool": req.ToolID,
	})
	a.logAdmin(r, admin.UserID, "access.revoke", req.UserID, req.ToolID)
	writeJSON(w, http.StatusOK, map[string]any{"grants": grants})
}

func (a *API) adminRevokeAll(w http.ResponseWriter, r *http.Request, admin access.Identity) {
	var req revokeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := a.access.RevokeAll(r.Context(), req.UserID); err != nil {
		handleServiceError(w, r, err)
		return
	}
	a.audit(r.Context(), "access.revoke_all", "user", req.UserID, nil)
	a.logAdmin(r, admin.UserID, "access.revoke_all", req.UserID, "")
	writeJSON(w, http.StatusOK, map[string]any{"grants": []access.Grant{}})
}

// handleToolsLocked reads or flips the global lock flag.
func (a *API) handleToolsLocked(w http.ResponseWriter, r *http.Request) {
	admin, ok := a.requireAdmin(w, r)
	if !ok {
		return
	}
	switch r.Method {
	case http.MethodGet:
		locked, err := a.access.ToolsLocked(r.Context())
		if err != nil {
			handleServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"locked": locked})
	case http.MethodPut:
		var req toolsLockedRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		if err := a.access.SetToolsLocked(r.Context(), req.Locked); err != nil {
			handleServiceError(w, r, err)
			return
		}
		a.audit(r.Context(), "access.tools_locked.set", "setting", access.SettingToolsLocked, map[string]string{
			"locked": boolString(req.Locked),
		})
		a.logAdmin(r, admin.UserID, "access.tools_locked.set", "", boolString(req.Locked))
		writeJSON(w, http.StatusOK, map[string]any{"locked": req.Locked})
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPut)
	}
}

func (a *API) logAdmin(r *http.Request, adminID, action, target, detail string) {
	if a.content == nil {
		return
	}
	_ = a.content.LogAdminAction(r.Context(), adminID, action, target, detail)
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
