package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gosimple/slug"

	"github.com/devverse/devverse/internal/auth"
	"github.com/devverse/devverse/internal/auth/github"
	"github.com/devverse/devverse/internal/domain/entities"
	"github.com/devverse/devverse/internal/domain/repositories"
	"github.com/devverse/devverse/internal/pkg/metrics"
)

// maxUsernameAttempts bounds unique-username resolution so a
// pathological storage state cannot loop forever.
const maxUsernameAttempts = 100

// GitHubService orchestrates the GitHub OAuth exchange, account
// linking/creation and token issuance. Exchange and identity fetch are
// single-attempt network calls; any failure is terminal for the attempt
// and no partial record is committed.
type GitHubService struct {
	userRepo repositories.UserRepository
	userSvc  *UserService
	tokenSvc *auth.TokenService
	github   *github.Client
	log      *slog.Logger
}

// NewGitHubService creates a new GitHub authentication service
func NewGitHubService(
	userRepo repositories.UserRepository,
	userSvc *UserService,
	tokenSvc *auth.TokenService,
	githubClient *github.Client,
) *GitHubService {
	return &GitHubService{
		userRepo: userRepo,
		userSvc:  userSvc,
		tokenSvc: tokenSvc,
		github:   githubClient,
		log:      slog.Default().With(slog.String("service", "github")),
	}
}

// AuthorizationURL builds the GitHub authorization URL for the given
// anti-forgery state. The caller persists the state and compares it on
// callback; this service only generates the URL.
func (s *GitHubService) AuthorizationURL(state string) string {
	return s.github.AuthCodeURL(state)
}

// AuthenticateWithCode exchanges a fresh authorization code and
// resolves the federated identity to a local account. State round-trip
// verification happens at the HTTP boundary, not here.
func (s *GitHubService) AuthenticateWithCode(ctx context.Context, code, state string) *AuthResult {
	start := time.Now()
	result := s.authenticateWithCode(ctx, code)
	metrics.RecordAuthAttempt("github_code", result.Success, time.Since(start))
	return result
}

func (s *GitHubService) authenticateWithCode(ctx context.Context, code string) *AuthResult {
	accessToken, err := s.github.ExchangeCode(ctx, code)
	if err != nil {
		s.log.Warn("github code exchange failed", slog.String("error", err.Error()))
		return failure("Failed to exchange code for access token: " + err.Error())
	}
	return s.authenticate(ctx, accessToken)
}

// AuthenticateWithAccessToken resolves a federated identity from an
// access token obtained by a caller that already performed the code
// exchange externally.
func (s *GitHubService) AuthenticateWithAccessToken(ctx context.Context, accessToken string) *AuthResult {
	start := time.Now()
	result := s.authenticate(ctx, accessToken)
	metrics.RecordAuthAttempt("github_token", result.Success, time.Since(start))
	return result
}

func (s *GitHubService) authenticate(ctx context.Context, accessToken string) *AuthResult {
	identity, err := s.github.FetchUser(ctx, accessToken)
	if err != nil {
		s.log.Warn("github user fetch failed", slog.String("error", err.Error()))
		return failure("Failed to get GitHub user information: " + err.Error())
	}

	user, err := s.resolveUser(ctx, identity)
	if err != nil {
		s.log.Error("github identity resolution failed",
			slog.String("external_id", identity.ExternalID()),
			slog.String("error", err.Error()))
		return failure("GitHub authentication failed: " + err.Error())
	}

	token, _, err := s.tokenSvc.Issue(user.ID, user.Email, user.Username)
	if err != nil {
		return failure("GitHub authentication failed: " + err.Error())
	}

	view, err := s.userSvc.PublicView(ctx, user)
	if err != nil {
		return failure("GitHub authentication failed: " + err.Error())
	}

	return success(MsgGitHubSuccess, token, view)
}

// resolveUser links the federated identity to an existing account or
// creates a new one. Every successful federated login re-syncs the
// profile fields from the provider wholesale.
func (s *GitHubService) resolveUser(ctx context.Context, identity *github.User) (*entities.User, error) {
	externalID := identity.ExternalID()

	user, err := s.userRepo.GetByGitHubID(ctx, externalID)
	switch {
	case err == nil:
		user.Name = optional(identity.Name)
		user.AvatarURL = optional(identity.AvatarURL)
		user.Bio = optional(identity.Bio)
		user.Location = optional(identity.Location)
		user.GitHubURL = optional(identity.HTMLURL)
		user.UpdatedAt = time.Now()

		if err := s.userRepo.Update(ctx, user); err != nil {
			return nil, fmt.Errorf("failed to update user: %w", err)
		}
		return user, nil

	case errors.Is(err, repositories.ErrUserNotFound):
		return s.createUser(ctx, identity)

	default:
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
}

func (s *GitHubService) createUser(ctx context.Context, identity *github.User) (*entities.User, error) {
	// GitHub may withhold the email; the placeholder keeps the record
	// valid but is not a deliverable address.
	email := identity.Email
	if email == "" {
		email = identity.Login + "@github.local"
	}

	username, err := s.uniqueUsername(ctx, identity.Login)
	if err != nil {
		return nil, err
	}

	name := identity.Name
	if name == "" {
		name = identity.Login
	}

	now := time.Now()
	user := &entities.User{
		Email:         email,
		Username:      username,
		Name:          optional(name),
		AvatarURL:     optional(identity.AvatarURL),
		Bio:           optional(identity.Bio),
		Location:      optional(identity.Location),
		GitHubID:      optional(identity.ExternalID()),
		GitHubURL:     optional(identity.HTMLURL),
		EmailVerified: identity.Email != "",
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.log.Info("created federated user",
		slog.String("user_id", user.ID),
		slog.String("username", user.Username))

	return user, nil
}

// uniqueUsername lowercases and normalizes the provider login handle,
// then appends integer suffixes until an unused username is found. The
// loop is capped at maxUsernameAttempts.
func (s *GitHubService) uniqueUsername(ctx context.Context, login string) (string, error) {
	base := slug.Make(login)

	for i := 0; i < maxUsernameAttempts; i++ {
		candidate := base
		if i > 0 {
			candidate = fmt.Sprintf("%s%d", base, i)
		}

		taken, err := s.userRepo.ExistsByUsername(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("failed to check username availability: %w", err)
		}
		if !taken {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("%w: base %q", ErrUsernameResolutionExhausted, base)
}

// optional converts an empty string to a nil pointer
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
