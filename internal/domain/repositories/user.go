package repositories

import (
	"context"

	"github.com/devverse/devverse/internal/domain/entities"
)

// UserRepository defines the interface for user data access.
// Uniqueness of email, username and github_id is enforced by the storage
// layer; implementations must surface unique-constraint rejections as the
// ErrDuplicate* sentinels so concurrent writers resolve to the same
// conflict the pre-checks report.
type UserRepository interface {
	// Create a new user
	Create(ctx context.Context, user *entities.User) error

	// GetByID retrieves a user by their ID
	GetByID(ctx context.Context, id string) (*entities.User, error)

	// GetByEmail retrieves a user by their email address
	GetByEmail(ctx context.Context, email string) (*entities.User, error)

	// GetByUsername retrieves a user by their username
	GetByUsername(ctx context.Context, username string) (*entities.User, error)

	// GetByGitHubID retrieves a user by their linked GitHub identity
	GetByGitHubID(ctx context.Context, githubID string) (*entities.User, error)

	// Update an existing user
	Update(ctx context.Context, user *entities.User) error

	// ExistsByEmail checks if a user exists by email
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// ExistsByUsername checks if a user exists by username
	ExistsByUsername(ctx context.Context, username string) (bool, error)
}
