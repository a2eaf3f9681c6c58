package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/devverse/devverse/internal/domain/repositories"
	"github.com/devverse/devverse/internal/domain/services"
	"github.com/devverse/devverse/server/internal/session"
)

// Handler holds dependencies for all API handlers
type Handler struct {
	authSvc   *services.AuthService
	githubSvc *services.GitHubService
	userSvc   *services.UserService
	userRepo  repositories.UserRepository
	follows   repositories.FollowerRepository
	techs     repositories.TechRepository
	posts     repositories.PostRepository
	sessions  *session.Manager
	log       *slog.Logger
}

// New creates a new handler with dependencies
func New(
	authSvc *services.AuthService,
	githubSvc *services.GitHubService,
	userSvc *services.UserService,
	userRepo repositories.UserRepository,
	follows repositories.FollowerRepository,
	techs repositories.TechRepository,
	posts repositories.PostRepository,
	sessions *session.Manager,
) *Handler {
	return &Handler{
		authSvc:   authSvc,
		githubSvc: githubSvc,
		userSvc:   userSvc,
		userRepo:  userRepo,
		follows:   follows,
		techs:     techs,
		posts:     posts,
		sessions:  sessions,
		log:       slog.Default().With(slog.String("component", "handlers")),
	}
}

// writeJSON writes a JSON response with the given status code
func (h *Handler) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.log.Error("failed to encode response", slog.String("error", err.Error()))
	}
}

// writeError writes a failure envelope in the same shape the auth flows
// return, so clients handle every error uniformly
func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]interface{}{
		"success": false,
		"message": message,
	})
}

// decodeJSON decodes the request body into dst, rejecting unknown fields
func (h *Handler) decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// writeAuthResult maps an AuthResult onto the HTTP response. Failed
// results use the given failure status, successful ones 200.
func (h *Handler) writeAuthResult(w http.ResponseWriter, result *services.AuthResult, failStatus int) {
	if result.Success {
		h.writeJSON(w, http.StatusOK, result)
		return
	}
	h.writeJSON(w, failStatus, result)
}
