package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/devverse/devverse/internal/domain/entities"
	"github.com/devverse/devverse/internal/domain/repositories"
	"github.com/devverse/devverse/internal/pkg/idgen"
	"github.com/devverse/devverse/internal/pkg/metrics"
)

// PostRepository implements the PostRepository interface for PostgreSQL
type PostRepository struct {
	db *sqlx.DB
}

// NewPostRepository creates a new PostgreSQL post repository
func NewPostRepository(db *sqlx.DB) repositories.PostRepository {
	return &PostRepository{db: db}
}

// Create a new post
func (r *PostRepository) Create(ctx context.Context, post *entities.Post) error {
	start := time.Now()
	var err error
	defer func() {
		metrics.RecordDBOperation("post", "create", time.Since(start), err)
	}()

	if post.ID == "" {
		post.ID = idgen.GenerateID()
	}

	query := `
		INSERT INTO posts (id, user_id, title, content, created_at, updated_at)
		VALUES (:id, :user_id, :title, :content, :created_at, :updated_at)`

	_, err = r.db.NamedExecContext(ctx, query, post)
	if err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}

	return nil
}

// GetByID retrieves a post by its ID
func (r *PostRepository) GetByID(ctx context.Context, id string) (*entities.Post, error) {
	start := time.Now()
	var err error
	defer func() {
		metrics.RecordDBOperation("post", "get_by_id", time.Since(start), err)
	}()

	var post entities.Post
	query := `SELECT id, user_id, title, content, created_at, updated_at FROM posts WHERE id = $1`

	err = r.db.GetContext(ctx, &post, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			err = repositories.ErrPostNotFound
			return nil, err
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}

	return &post, nil
}

// ListByUserID lists a user's posts, newest first
func (r *PostRepository) ListByUserID(ctx context.Context, userID string, limit, offset int) ([]*entities.Post, error) {
	query := `
		SELECT id, user_id, title, content, created_at, updated_at
		FROM posts
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	return r.list(ctx, "list_by_user", query, userID, normalizeLimit(limit), normalizeOffset(offset))
}

// List lists recent posts across all users, newest first
func (r *PostRepository) List(ctx context.Context, limit, offset int) ([]*entities.Post, error) {
	query := `
		SELECT id, user_id, title, content, created_at, updated_at
		FROM posts
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`

	return r.list(ctx, "list", query, normalizeLimit(limit), normalizeOffset(offset))
}

func (r *PostRepository) list(ctx context.Context, operation, query string, args ...interface{}) ([]*entities.Post, error) {
	start := time.Now()
	var err error
	defer func() {
		metrics.RecordDBOperation("post", operation, time.Since(start), err)
	}()

	var posts []*entities.Post
	err = r.db.SelectContext(ctx, &posts, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}

	return posts, nil
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return 20
	}
	return limit
}

func normalizeOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}
