package handlers

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/devverse/devverse/server/internal/http/middleware"
)

type registerRequest struct {
	Email           string `json:"email"`
	Username        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type githubCallbackRequest struct {
	Code        string `json:"code,omitempty"`
	State       string `json:"state,omitempty"`
	AccessToken string `json:"access_token,omitempty"`
}

// Register handles POST /api/auth/register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := h.decodeJSON(r, &req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	result := h.authSvc.Register(r.Context(), req.Email, req.Username, req.Password, req.ConfirmPassword)
	if result.Success {
		if err := h.sessions.SetToken(r, w, result.Token); err != nil {
			h.log.Warn("failed to persist session", slog.String("error", err.Error()))
		}
	}
	h.writeAuthResult(w, result, http.StatusBadRequest)
}

// Login handles POST /api/auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := h.decodeJSON(r, &req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	result := h.authSvc.Login(r.Context(), req.Email, req.Password)
	if result.Success {
		if err := h.sessions.SetToken(r, w, result.Token); err != nil {
			h.log.Warn("failed to persist session", slog.String("error", err.Error()))
		}
	}
	h.writeAuthResult(w, result, http.StatusUnauthorized)
}

// Logout handles POST /api/auth/logout. Tokens are not revoked server
// side; the session cookie is cleared and the client drops its copy.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.ClearToken(r, w); err != nil {
		h.log.Warn("failed to clear session", slog.String("error", err.Error()))
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Logged out.",
	})
}

// Verify handles GET /api/auth/verify. The auth middleware has already
// validated the token; this returns the current profile for it.
func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		h.writeError(w, http.StatusUnauthorized, "Missing authentication token.")
		return
	}

	view, err := h.userSvc.GetByID(r.Context(), claims.Subject)
	if err != nil {
		h.writeError(w, http.StatusUnauthorized, "Invalid or expired token.")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"user":    view,
	})
}

// GitHubAuthorize handles GET /api/auth/github. It generates the
// anti-forgery state, stores it in the cookie session and returns the
// provider authorization URL for the client to redirect to.
func (h *Handler) GitHubAuthorize(w http.ResponseWriter, r *http.Request) {
	state := uuid.NewString()
	if err := h.sessions.SetState(r, w, state); err != nil {
		h.writeError(w, http.StatusInternalServerError, "Failed to start GitHub authentication.")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"authUrl": h.githubSvc.AuthorizationURL(state),
		"state":   state,
	})
}

// GitHubCallback handles POST /api/auth/github/callback. Clients send
// either a fresh authorization code with its state, or an access token
// they already hold, as distinct fields.
func (h *Handler) GitHubCallback(w http.ResponseWriter, r *http.Request) {
	var req githubCallbackRequest
	if err := h.decodeJSON(r, &req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	switch {
	case req.AccessToken != "":
		result := h.githubSvc.AuthenticateWithAccessToken(r.Context(), req.AccessToken)
		if result.Success {
			if err := h.sessions.SetToken(r, w, result.Token); err != nil {
				h.log.Warn("failed to persist session", slog.String("error", err.Error()))
			}
		}
		h.writeAuthResult(w, result, http.StatusUnauthorized)

	case req.Code != "":
		// Verify the state round trip when this browser started the
		// flow here. Sessions from other clients carry no state and
		// skip the check.
		if stored, err := h.sessions.ConsumeState(r, w); err == nil && stored != req.State {
			h.writeError(w, http.StatusUnauthorized, "OAuth state mismatch.")
			return
		}

		result := h.githubSvc.AuthenticateWithCode(r.Context(), req.Code, req.State)
		if result.Success {
			if err := h.sessions.SetToken(r, w, result.Token); err != nil {
				h.log.Warn("failed to persist session", slog.String("error", err.Error()))
			}
		}
		h.writeAuthResult(w, result, http.StatusUnauthorized)

	default:
		h.writeError(w, http.StatusBadRequest, "Either code or access_token is required.")
	}
}
