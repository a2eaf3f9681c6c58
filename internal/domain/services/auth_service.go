package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/devverse/devverse/internal/auth"
	"github.com/devverse/devverse/internal/domain/entities"
	"github.com/devverse/devverse/internal/domain/repositories"
	"github.com/devverse/devverse/internal/pkg/metrics"
)

// AuthService provides registration and password login. Each call is a
// single transaction: validation, storage reads/writes, token issuance.
// No state is kept between calls.
type AuthService struct {
	userRepo repositories.UserRepository
	userSvc  *UserService
	tokenSvc *auth.TokenService
	log      *slog.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo repositories.UserRepository,
	userSvc *UserService,
	tokenSvc *auth.TokenService,
) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		userSvc:  userSvc,
		tokenSvc: tokenSvc,
		log:      slog.Default().With(slog.String("service", "auth")),
	}
}

// Register creates a new local account and issues a token for it
func (s *AuthService) Register(ctx context.Context, email, username, password, confirmPassword string) *AuthResult {
	start := time.Now()
	result := s.register(ctx, email, username, password, confirmPassword)
	metrics.RecordAuthAttempt("register", result.Success, time.Since(start))
	return result
}

func (s *AuthService) register(ctx context.Context, email, username, password, confirmPassword string) *AuthResult {
	if email == "" || username == "" || password == "" {
		return failure("Email, username and password are required.")
	}
	if password != confirmPassword {
		return failure(MsgPasswordMismatch)
	}

	// Pre-check uniqueness; the unique indexes remain the authority for
	// concurrent registrations and their rejections map to the same
	// conflict messages below.
	exists, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return failure("Error registering user: " + err.Error())
	}
	if exists {
		return failure(MsgEmailTaken)
	}

	exists, err = s.userRepo.ExistsByUsername(ctx, username)
	if err != nil {
		return failure("Error registering user: " + err.Error())
	}
	if exists {
		return failure(MsgUsernameTaken)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return failure("Error registering user: " + err.Error())
	}

	now := time.Now()
	user := &entities.User{
		Email:        email,
		Username:     username,
		PasswordHash: &hash,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		switch {
		case errors.Is(err, repositories.ErrDuplicateEmail):
			return failure(MsgEmailTaken)
		case errors.Is(err, repositories.ErrDuplicateUsername):
			return failure(MsgUsernameTaken)
		}
		s.log.Error("failed to create user",
			slog.String("email", email),
			slog.String("error", err.Error()))
		return failure("Error registering user: " + err.Error())
	}

	return s.finish(ctx, user, MsgRegistered, "Error registering user: ")
}

// Login authenticates a local account by email and password. Unknown
// email and wrong password produce the same failure message.
func (s *AuthService) Login(ctx context.Context, email, password string) *AuthResult {
	start := time.Now()
	result := s.login(ctx, email, password)
	metrics.RecordAuthAttempt("login", result.Success, time.Since(start))
	return result
}

func (s *AuthService) login(ctx context.Context, email, password string) *AuthResult {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return failure(MsgInvalidCredentials)
		}
		s.log.Error("failed to look up user",
			slog.String("email", email),
			slog.String("error", err.Error()))
		return failure("Error logging in user: " + err.Error())
	}

	if !user.VerifyPassword(password) {
		return failure(MsgInvalidCredentials)
	}

	return s.finish(ctx, user, MsgLoggedIn, "Error logging in user: ")
}

// finish issues a token and projects the public view for a resolved user
func (s *AuthService) finish(ctx context.Context, user *entities.User, message, errPrefix string) *AuthResult {
	token, _, err := s.tokenSvc.Issue(user.ID, user.Email, user.Username)
	if err != nil {
		s.log.Error("failed to issue token",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()))
		return failure(errPrefix + err.Error())
	}

	view, err := s.userSvc.PublicView(ctx, user)
	if err != nil {
		s.log.Error("failed to project public view",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()))
		return failure(errPrefix + err.Error())
	}

	return success(message, token, view)
}

// Verify validates a bearer token and returns its claims
func (s *AuthService) Verify(tokenString string) (*auth.Claims, error) {
	claims, err := s.tokenSvc.Validate(tokenString)
	if err != nil {
		return nil, fmt.Errorf("token verification failed: %w", err)
	}
	return claims, nil
}
