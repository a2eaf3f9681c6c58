package repositories

import "errors"

// Domain-specific repository errors
var (
	// ErrUserNotFound is returned when a user cannot be found
	ErrUserNotFound = errors.New("user not found")

	// ErrDuplicateEmail is returned when a user with the same email already exists
	ErrDuplicateEmail = errors.New("email already in use")

	// ErrDuplicateUsername is returned when a user with the same username already exists
	ErrDuplicateUsername = errors.New("username already in use")

	// ErrDuplicateGitHubID is returned when a user with the same GitHub identity already exists
	ErrDuplicateGitHubID = errors.New("github identity already linked")

	// ErrPostNotFound is returned when a post cannot be found
	ErrPostNotFound = errors.New("post not found")

	// ErrTechNotFound is returned when a tech stack entry cannot be found
	ErrTechNotFound = errors.New("tech stack entry not found")
)
