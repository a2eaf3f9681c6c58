package handlers

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/devverse/devverse/internal/domain/repositories"
	"github.com/devverse/devverse/server/internal/http/middleware"
)

type setTechsRequest struct {
	TechStack []string `json:"techStack"`
}

// GetProfile handles GET /api/users/{username}
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]

	view, err := h.userSvc.GetProfile(r.Context(), username)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			h.writeError(w, http.StatusNotFound, "User not found.")
			return
		}
		h.writeError(w, http.StatusInternalServerError, "Failed to load profile.")
		return
	}

	h.writeJSON(w, http.StatusOK, view)
}

// Follow handles POST /api/users/{username}/follow
func (h *Handler) Follow(w http.ResponseWriter, r *http.Request) {
	h.setFollow(w, r, true)
}

// Unfollow handles DELETE /api/users/{username}/follow
func (h *Handler) Unfollow(w http.ResponseWriter, r *http.Request) {
	h.setFollow(w, r, false)
}

func (h *Handler) setFollow(w http.ResponseWriter, r *http.Request, follow bool) {
	claims := middleware.ClaimsFromContext(r.Context())
	username := mux.Vars(r)["username"]

	target, err := h.userRepo.GetByUsername(r.Context(), username)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			h.writeError(w, http.StatusNotFound, "User not found.")
			return
		}
		h.writeError(w, http.StatusInternalServerError, "Failed to look up user.")
		return
	}

	if target.ID == claims.Subject {
		h.writeError(w, http.StatusBadRequest, "You cannot follow yourself.")
		return
	}

	if follow {
		err = h.follows.Follow(r.Context(), claims.Subject, target.ID)
	} else {
		err = h.follows.Unfollow(r.Context(), claims.Subject, target.ID)
	}
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "Failed to update follow state.")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
	})
}

// SetTechStack handles PUT /api/users/me/techs, replacing the caller's
// tech stack wholesale
func (h *Handler) SetTechStack(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())

	var req setTechsRequest
	if err := h.decodeJSON(r, &req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	if err := h.techs.SetUserTechs(r.Context(), claims.Subject, dedupeNames(req.TechStack)); err != nil {
		h.writeError(w, http.StatusInternalServerError, "Failed to update tech stack.")
		return
	}

	names, err := h.techs.ListNamesByUserID(r.Context(), claims.Subject)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "Failed to load tech stack.")
		return
	}
	if names == nil {
		names = []string{}
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"techStack": names,
	})
}

// dedupeNames drops empty and repeated entries, preserving order
func dedupeNames(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}
