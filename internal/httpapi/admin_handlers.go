package httpapi

import (
	"net/http"
	"strings"
)

type addTeamMemberRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type addTutorialRequest struct {
	Title    string `json:"title"`
	URL      string `json:"url"`
	Category string `json:"category"`
}

func (a *API) handleAdminTeam(w http.ResponseWriter, r *http.Request) {
	admin, ok := a.requireAdmin(w, r)
	if !ok {
		return
	}
	switch r.Method {
	case http.MethodGet:
		team, err := a.content.Team(r.Context())
		if err != nil {
			handleServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"team": team})
	case http.MethodPost:
		var req addTeamMemberRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		member, err := a.content.AddTeamMember(r.Context(), req.Name, req.Email, req.Role)
		if err != nil {
			handleServiceError(w, r, err)
			return
		}
		a.audit(r.Context(), "team.member.add", "team_member", member.ID, map[string]string{
			"email": member.Email,
		})
		a.logAdmin(r, admin.UserID, "team.member.add", "", member.Email)
		w.Header().Set("Location", "/v1/admin/team/"+member.ID)
		writeJSON(w, http.StatusCreated, member)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

func (a *API) handleAdminTeamResource(w http.ResponseWriter, r *http.Request) {
	admin, ok := a.requireAdmin(w, r)
	if !ok {
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/v1/admin/team/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}
	if r.Method != http.MethodDelete {
		methodNotAllowed(w, r, http.MethodDelete)
		return
	}
	if err := a.content.RemoveTeamMember(r.Context(), id); err != nil {
		handleServiceError(w, r, err)
		return
	}
	a.audit(r.Context(), "team.member.remove", "team_member", id, nil)
	a.logAdmin(r, admin.UserID, "team.member.remove", "", id)
	writeJSON(w, http.StatusOK, map[string]any{"deleted": id})
}

func (a *API) handleAdminTutorials(w http.ResponseWriter, r *http.Request) {
	admin, ok := a.requireAdmin(w, r)
	if !ok {
		return
	}
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	var req addTutorialRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	tut, err := a.content.AddTutorial(r.Context(), req.Title, req.URL, req.Category)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	a.audit(r.Context(), "tutorial.add", "tutorial", tut.ID, map[string]string{
		"title": tut.Title,
	})
	a.logAdmin(r, admin.UserID, "tutorial.add", "", tut.Title)
	w.Header().Set("Location", "/v1/admin/tutorials/"+tut.ID)
	writeJSON(w, http.StatusCreated, tut)
}

func (a *API) handleAdminTutorialResource(w http.ResponseWriter, r *http.Request) {
	admin, ok := a.requireAdmin(w, r)
	if !ok {
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/v1/admin/tutorials/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}
	if r.Method != http.MethodDelete {
		methodNotAllowed(w, r, http.MethodDelete)
		return
	}
	if err := a.content.RemoveTutorial(r.Context(), id); err != nil {
		handleServiceError(w, r, err)
		return
	}
	a.audit(r.Context(), "tutorial.remove", "tutorial", id, nil)
	a.logAdmin(r, admin.UserID, "tutorial.remove", "", id)
	writeJSON(w, http.StatusOK, map[string]any{"deleted": id})
}
