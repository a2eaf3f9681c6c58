package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/devverse/devverse/internal/domain/repositories"
	"github.com/devverse/devverse/internal/pkg/metrics"
)

// FollowerRepository implements the FollowerRepository interface for PostgreSQL
type FollowerRepository struct {
	db *sqlx.DB
}

// NewFollowerRepository creates a new PostgreSQL follower repository
func NewFollowerRepository(db *sqlx.DB) repositories.FollowerRepository {
	return &FollowerRepository{db: db}
}

// Follow creates a follow edge from follower to following
func (r *FollowerRepository) Follow(ctx context.Context, followerID, followingID string) error {
	start := time.Now()
	var err error
	defer func() {
		metrics.RecordDBOperation("follower", "follow", time.Since(start), err)
	}()

	query := `
		INSERT INTO user_followers (follower_id, following_id, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (follower_id, following_id) DO NOTHING`

	_, err = r.db.ExecContext(ctx, query, followerID, followingID, time.Now())
	if err != nil {
		return fmt.Errorf("failed to create follow edge: %w", err)
	}

	return nil
}

// Unfollow removes a follow edge; removing a missing edge is not an error
func (r *FollowerRepository) Unfollow(ctx context.Context, followerID, followingID string) error {
	start := time.Now()
	var err error
	defer func() {
		metrics.RecordDBOperation("follower", "unfollow", time.Since(start), err)
	}()

	query := `DELETE FROM user_followers WHERE follower_id = $1 AND following_id = $2`

	_, err = r.db.ExecContext(ctx, query, followerID, followingID)
	if err != nil {
		return fmt.Errorf("failed to remove follow edge: %w", err)
	}

	return nil
}

// CountFollowers returns how many users follow the given user
func (r *FollowerRepository) CountFollowers(ctx context.Context, userID string) (int, error) {
	return r.count(ctx, "count_followers", `SELECT COUNT(*) FROM user_followers WHERE following_id = $1`, userID)
}

// CountFollowing returns how many users the given user follows
func (r *FollowerRepository) CountFollowing(ctx context.Context, userID string) (int, error) {
	return r.count(ctx, "count_following", `SELECT COUNT(*) FROM user_followers WHERE follower_id = $1`, userID)
}

func (r *FollowerRepository) count(ctx context.Context, operation, query, userID string) (int, error) {
	start := time.Now()
	var err error
	defer func() {
		metrics.RecordDBOperation("follower", operation, time.Since(start), err)
	}()

	var count int
	err = r.db.GetContext(ctx, &count, query, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to count follow edges: %w", err)
	}

	return count, nil
}
