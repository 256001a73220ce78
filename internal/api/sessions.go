// ABOUTME: Login, logout, and identity endpoints for the JSON API
// ABOUTME: Login sets a session cookie and also mints a bearer token for API clients

package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/2389/inkwell/internal/auth"
	"github.com/2389/inkwell/internal/store"
)

// loginPayload is the JSON request body for POST /api/login.
type loginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse is the JSON shape of the current user. The password hash
// never leaves the store layer.
type UserResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func makeUserResponse(v *auth.Viewer) UserResponse {
	return UserResponse{
		ID:    v.ID,
		Name:  v.Name,
		Email: v.Email,
		Role:  string(v.Role),
	}
}

// handleLogin handles POST /api/login. Failures are always the same 422 with
// a generic message; an unknown email burns a bcrypt comparison so timing
// does not reveal whether the account exists.
func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var payload loginPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.store.GetUserByEmail(r.Context(), payload.Email)
	if err != nil {
		auth.DummyCompare(payload.Password)
		h.writeError(w, http.StatusUnprocessableEntity, auth.ErrInvalidCredentials.Error())
		return
	}
	if err := auth.VerifyPassword(user.PasswordHash, payload.Password); err != nil {
		h.writeError(w, http.StatusUnprocessableEntity, auth.ErrInvalidCredentials.Error())
		return
	}

	token, err := auth.GenerateSessionToken()
	if err != nil {
		h.logger.Error("failed to generate session token", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	now := time.Now()
	session := &store.Session{
		ID:        token,
		UserID:    user.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(h.sessionTTL),
	}
	if err := h.store.CreateSession(r.Context(), session); err != nil {
		h.logger.Error("failed to create session", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	response := map[string]any{"user": makeUserResponse(auth.ViewerForUser(user))}
	if h.verifier != nil {
		bearer, err := h.verifier.Generate(user.ID, h.sessionTTL)
		if err != nil {
			h.logger.Error("failed to mint bearer token", "error", err)
		} else {
			response["token"] = bearer
		}
	}

	h.logger.Info("user logged in", "user_id", user.ID)
	h.writeJSON(w, http.StatusOK, response)
}

// handleLogout handles DELETE /api/logout. It destroys the server-side
// session and expires the cookie. Logging out without a session is fine.
func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(auth.SessionCookieName); err == nil && cookie.Value != "" {
		// DeleteSession treats a missing row as a no-op, so any error here
		// is a real storage failure.
		if err := h.store.DeleteSession(r.Context(), cookie.Value); err != nil {
			h.logger.Error("failed to delete session", "error", err)
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	h.writeJSON(w, http.StatusOK, map[string]any{})
}

// handleMe handles GET /api/me.
func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	viewer := auth.ViewerFromContext(r.Context())
	h.writeJSON(w, http.StatusOK, map[string]any{"user": makeUserResponse(viewer)})
}
