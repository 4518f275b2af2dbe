package api

import (
	"net/http"

	"healia/clinic/domain"
	"healia/clinic/internal/repo"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	token, user, err := h.auth.Login(req.Username, req.Password)
	if err != nil {
		h.fail(w, err, "unable to log in")
		return
	}
	respondJSON(w, http.StatusOK, loginResponse{Token: token, User: user})
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	claims, token, err := h.bearerClaims(r)
	if err != nil {
		respondError(w, http.StatusUnauthorized, err.Error())
		return
	}
	if err := h.auth.Logout(claims, token); err != nil {
		h.fail(w, err, "unable to log out")
		return
	}
	// A guest logout resets the whole store, so every collection changed.
	if claims.Role == domain.RoleGuest {
		h.notifyAll()
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

// session resolves the bearer token back to its persisted user so a desk can
// restore a login across restarts. Guest logins are never persisted, so a
// guest token cannot be restored.
func (h *Handler) session(w http.ResponseWriter, r *http.Request) {
	_, token, err := h.bearerClaims(r)
	if err != nil {
		respondError(w, http.StatusUnauthorized, err.Error())
		return
	}
	user, err := h.auth.SessionUser(token)
	if err != nil {
		h.fail(w, err, "unable to restore session")
		return
	}
	respondJSON(w, http.StatusOK, user)
}

func (h *Handler) notifyAll() {
	if h.bus == nil {
		return
	}
	for _, col := range repo.Collections() {
		h.bus.Notify(col)
	}
}
