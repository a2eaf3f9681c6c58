package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/devverse/devverse/internal/domain/entities"
	"github.com/devverse/devverse/internal/domain/repositories"
	"github.com/devverse/devverse/server/internal/http/middleware"
	"github.com/devverse/devverse/server/internal/render"
)

type createPostRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// postResponse carries a post plus its body rendered to sanitized HTML
type postResponse struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	ContentHTML string    `json:"contentHtml"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func toPostResponse(post *entities.Post) *postResponse {
	return &postResponse{
		ID:          post.ID,
		UserID:      post.UserID,
		Title:       post.Title,
		Content:     post.Content,
		ContentHTML: render.Markdown(post.Content),
		CreatedAt:   post.CreatedAt,
		UpdatedAt:   post.UpdatedAt,
	}
}

// CreatePost handles POST /api/posts
func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())

	var req createPostRequest
	if err := h.decodeJSON(r, &req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if req.Title == "" || req.Content == "" {
		h.writeError(w, http.StatusBadRequest, "Title and content are required.")
		return
	}

	now := time.Now()
	post := &entities.Post{
		UserID:    claims.Subject,
		Title:     req.Title,
		Content:   req.Content,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := h.posts.Create(r.Context(), post); err != nil {
		h.writeError(w, http.StatusInternalServerError, "Failed to create post.")
		return
	}

	h.writeJSON(w, http.StatusCreated, toPostResponse(post))
}

// ListPosts handles GET /api/posts. An optional username query
// parameter restricts the listing to one author.
func (h *Handler) ListPosts(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 0)
	offset := queryInt(r, "offset", 0)

	var (
		posts []*entities.Post
		err   error
	)

	if username := r.URL.Query().Get("username"); username != "" {
		var user *entities.User
		user, err = h.userRepo.GetByUsername(r.Context(), username)
		if err != nil {
			if errors.Is(err, repositories.ErrUserNotFound) {
				h.writeError(w, http.StatusNotFound, "User not found.")
				return
			}
			h.writeError(w, http.StatusInternalServerError, "Failed to look up user.")
			return
		}
		posts, err = h.posts.ListByUserID(r.Context(), user.ID, limit, offset)
	} else {
		posts, err = h.posts.List(r.Context(), limit, offset)
	}
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "Failed to list posts.")
		return
	}

	out := make([]*postResponse, 0, len(posts))
	for _, post := range posts {
		out = append(out, toPostResponse(post))
	}

	h.writeJSON(w, http.StatusOK, out)
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
