package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/devverse/devverse/internal/domain/entities"
	"github.com/devverse/devverse/internal/domain/repositories"
	"github.com/devverse/devverse/internal/pkg/idgen"
	"github.com/devverse/devverse/internal/pkg/metrics"
)

// UserRepository implements the UserRepository interface for PostgreSQL
type UserRepository struct {
	db  *sqlx.DB
	log *slog.Logger
}

// NewUserRepository creates a new PostgreSQL user repository
func NewUserRepository(db *sqlx.DB) repositories.UserRepository {
	return &UserRepository{
		db:  db,
		log: slog.Default().With(slog.String("repo", "user")),
	}
}

const userColumns = `id, email, username, name, bio, location, profile_image_url,
	password_hash, github_id, github_profile, linkedin_profile, portfolio_url,
	email_verified, is_active, created_at, updated_at`

// userRow represents a user as stored in the database
type userRow struct {
	ID            string         `db:"id"`
	Email         string         `db:"email"`
	Username      string         `db:"username"`
	Name          sql.NullString `db:"name"`
	Bio           sql.NullString `db:"bio"`
	Location      sql.NullString `db:"location"`
	AvatarURL     sql.NullString `db:"profile_image_url"`
	PasswordHash  sql.NullString `db:"password_hash"`
	GitHubID      sql.NullString `db:"github_id"`
	GitHubURL     sql.NullString `db:"github_profile"`
	LinkedInURL   sql.NullString `db:"linkedin_profile"`
	PortfolioURL  sql.NullString `db:"portfolio_url"`
	EmailVerified bool           `db:"email_verified"`
	IsActive      bool           `db:"is_active"`
	CreatedAt     time.Time      `db:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at"`
}

// toEntity converts a userRow to a domain entity
func (r *userRow) toEntity() *entities.User {
	user := &entities.User{
		ID:            r.ID,
		Email:         r.Email,
		Username:      r.Username,
		EmailVerified: r.EmailVerified,
		IsActive:      r.IsActive,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}

	user.Name = fromNull(r.Name)
	user.Bio = fromNull(r.Bio)
	user.Location = fromNull(r.Location)
	user.AvatarURL = fromNull(r.AvatarURL)
	user.PasswordHash = fromNull(r.PasswordHash)
	user.GitHubID = fromNull(r.GitHubID)
	user.GitHubURL = fromNull(r.GitHubURL)
	user.LinkedInURL = fromNull(r.LinkedInURL)
	user.PortfolioURL = fromNull(r.PortfolioURL)

	return user
}

// userRowFromEntity converts a domain entity to a userRow
func userRowFromEntity(user *entities.User) *userRow {
	return &userRow{
		ID:            user.ID,
		Email:         user.Email,
		Username:      user.Username,
		Name:          toNull(user.Name),
		Bio:           toNull(user.Bio),
		Location:      toNull(user.Location),
		AvatarURL:     toNull(user.AvatarURL),
		PasswordHash:  toNull(user.PasswordHash),
		GitHubID:      toNull(user.GitHubID),
		GitHubURL:     toNull(user.GitHubURL),
		LinkedInURL:   toNull(user.LinkedInURL),
		PortfolioURL:  toNull(user.PortfolioURL),
		EmailVerified: user.EmailVerified,
		IsActive:      user.IsActive,
		CreatedAt:     user.CreatedAt,
		UpdatedAt:     user.UpdatedAt,
	}
}

func fromNull(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}

func toNull(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// mapUniqueViolation maps a pq unique-constraint rejection to the
// matching duplicate sentinel so concurrent check-then-act races
// surface as the same conflicts the pre-checks report.
func mapUniqueViolation(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || pqErr.Code != "23505" {
		return err
	}

	switch {
	case strings.Contains(pqErr.Constraint, "email"):
		return repositories.ErrDuplicateEmail
	case strings.Contains(pqErr.Constraint, "username"):
		return repositories.ErrDuplicateUsername
	case strings.Contains(pqErr.Constraint, "github"):
		return repositories.ErrDuplicateGitHubID
	default:
		return err
	}
}

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, user *entities.User) error {
	start := time.Now()
	var err error
	defer func() {
		metrics.RecordDBOperation("user", "create", time.Since(start), err)
	}()

	if user.ID == "" {
		user.ID = idgen.GenerateID()
	}

	r.log.Debug("creating user",
		slog.String("id", user.ID),
		slog.String("email", user.Email),
		slog.String("username", user.Username))

	row := userRowFromEntity(user)

	query := `INSERT INTO users (
			id, email, username, name, bio, location, profile_image_url,
			password_hash, github_id, github_profile, linkedin_profile, portfolio_url,
			email_verified, is_active, created_at, updated_at
		) VALUES (
			:id, :email, :username, :name, :bio, :location, :profile_image_url,
			:password_hash, :github_id, :github_profile, :linkedin_profile, :portfolio_url,
			:email_verified, :is_active, :created_at, :updated_at
		)`

	_, err = r.db.NamedExecContext(ctx, query, row)
	if err != nil {
		if mapped := mapUniqueViolation(err); mapped != err {
			err = mapped
			return err
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by their ID
func (r *UserRepository) GetByID(ctx context.Context, id string) (*entities.User, error) {
	return r.getBy(ctx, "get_by_id", "id", id)
}

// GetByEmail retrieves a user by their email address
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	return r.getBy(ctx, "get_by_email", "email", email)
}

// GetByUsername retrieves a user by their username
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*entities.User, error) {
	return r.getBy(ctx, "get_by_username", "username", username)
}

// GetByGitHubID retrieves a user by their linked GitHub identity
func (r *UserRepository) GetByGitHubID(ctx context.Context, githubID string) (*entities.User, error) {
	return r.getBy(ctx, "get_by_github_id", "github_id", githubID)
}

func (r *UserRepository) getBy(ctx context.Context, operation, column, value string) (*entities.User, error) {
	start := time.Now()
	var err error
	defer func() {
		metrics.RecordDBOperation("user", operation, time.Since(start), err)
	}()

	var row userRow
	query := fmt.Sprintf(`SELECT %s FROM users WHERE %s = $1`, userColumns, column)

	err = r.db.GetContext(ctx, &row, query, value)
	if err != nil {
		if err == sql.ErrNoRows {
			err = repositories.ErrUserNotFound
			return nil, err
		}
		return nil, fmt.Errorf("failed to get user by %s: %w", column, err)
	}

	return row.toEntity(), nil
}

// Update an existing user
func (r *UserRepository) Update(ctx context.Context, user *entities.User) error {
	start := time.Now()
	var err error
	defer func() {
		metrics.RecordDBOperation("user", "update", time.Since(start), err)
	}()

	r.log.Debug("updating user",
		slog.String("id", user.ID),
		slog.String("email", user.Email))

	row := userRowFromEntity(user)

	query := `
		UPDATE users SET
			email = :email,
			username = :username,
			name = :name,
			bio = :bio,
			location = :location,
			profile_image_url = :profile_image_url,
			password_hash = :password_hash,
			github_id = :github_id,
			github_profile = :github_profile,
			linkedin_profile = :linkedin_profile,
			portfolio_url = :portfolio_url,
			email_verified = :email_verified,
			is_active = :is_active,
			updated_at = :updated_at
		WHERE id = :id`

	result, err := r.db.NamedExecContext(ctx, query, row)
	if err != nil {
		if mapped := mapUniqueViolation(err); mapped != err {
			err = mapped
			return err
		}
		return fmt.Errorf("failed to update user: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		err = repositories.ErrUserNotFound
		return err
	}

	return nil
}

// ExistsByEmail checks if a user exists by email
func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.existsBy(ctx, "exists_by_email", "email", email)
}

// ExistsByUsername checks if a user exists by username
func (r *UserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return r.existsBy(ctx, "exists_by_username", "username", username)
}

func (r *UserRepository) existsBy(ctx context.Context, operation, column, value string) (bool, error) {
	start := time.Now()
	var err error
	defer func() {
		metrics.RecordDBOperation("user", operation, time.Since(start), err)
	}()

	var count int
	query := fmt.Sprintf(`SELECT COUNT(*) FROM users WHERE %s = $1`, column)

	err = r.db.GetContext(ctx, &count, query, value)
	if err != nil {
		return false, fmt.Errorf("failed to check user existence by %s: %w", column, err)
	}

	return count > 0, nil
}
