package repositories

import (
	"context"

	"github.com/devverse/devverse/internal/domain/entities"
)

// FollowerRepository defines data access for the follow graph
type FollowerRepository interface {
	// Follow creates a follow edge from follower to following
	Follow(ctx context.Context, followerID, followingID string) error

	// Unfollow removes a follow edge; removing a missing edge is not an error
	Unfollow(ctx context.Context, followerID, followingID string) error

	// CountFollowers returns how many users follow the given user
	CountFollowers(ctx context.Context, userID string) (int, error)

	// CountFollowing returns how many users the given user follows
	CountFollowing(ctx context.Context, userID string) (int, error)
}

// TechRepository defines data access for user tech stacks
type TechRepository interface {
	// ListNamesByUserID returns the tech stack names for a user, ordered by name
	ListNamesByUserID(ctx context.Context, userID string) ([]string, error)

	// SetUserTechs replaces the user's tech stack with the given names,
	// creating tech stack entries as needed
	SetUserTechs(ctx context.Context, userID string, names []string) error
}

// PostRepository defines data access for posts
type PostRepository interface {
	// Create a new post
	Create(ctx context.Context, post *entities.Post) error

	// GetByID retrieves a post by its ID
	GetByID(ctx context.Context, id string) (*entities.Post, error)

	// ListByUserID lists a user's posts, newest first
	ListByUserID(ctx context.Context, userID string, limit, offset int) ([]*entities.Post, error)

	// List lists recent posts across all users, newest first
	List(ctx context.Context, limit, offset int) ([]*entities.Post, error)
}
