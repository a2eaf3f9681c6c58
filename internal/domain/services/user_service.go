package services

import (
	"context"
	"fmt"

	"github.com/devverse/devverse/internal/domain/entities"
	"github.com/devverse/devverse/internal/domain/repositories"
)

// UserService projects user records into their public view
type UserService struct {
	userRepo     repositories.UserRepository
	followerRepo repositories.FollowerRepository
	techRepo     repositories.TechRepository
}

// NewUserService creates a new user service
func NewUserService(
	userRepo repositories.UserRepository,
	followerRepo repositories.FollowerRepository,
	techRepo repositories.TechRepository,
) *UserService {
	return &UserService{
		userRepo:     userRepo,
		followerRepo: followerRepo,
		techRepo:     techRepo,
	}
}

// PublicView projects a user record plus its related collections into
// the shape safe to return to clients. The password hash never appears
// in the result.
func (s *UserService) PublicView(ctx context.Context, user *entities.User) (*entities.PublicUser, error) {
	followers, err := s.followerRepo.CountFollowers(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count followers: %w", err)
	}

	following, err := s.followerRepo.CountFollowing(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count following: %w", err)
	}

	techs, err := s.techRepo.ListNamesByUserID(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tech stack: %w", err)
	}
	if techs == nil {
		techs = []string{}
	}

	return &entities.PublicUser{
		ID:             user.ID,
		Email:          user.Email,
		Username:       user.Username,
		Name:           user.Name,
		Bio:            user.Bio,
		Location:       user.Location,
		GitHubURL:      user.GitHubURL,
		LinkedInURL:    user.LinkedInURL,
		PortfolioURL:   user.PortfolioURL,
		AvatarURL:      user.AvatarURL,
		EmailVerified:  user.EmailVerified,
		FollowersCount: followers,
		FollowingCount: following,
		TechStack:      techs,
		CreatedAt:      user.CreatedAt,
		UpdatedAt:      user.UpdatedAt,
	}, nil
}

// GetProfile retrieves a user's public profile by username
func (s *UserService) GetProfile(ctx context.Context, username string) (*entities.PublicUser, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return s.PublicView(ctx, user)
}

// GetByID retrieves a user's public profile by id
func (s *UserService) GetByID(ctx context.Context, id string) (*entities.PublicUser, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return s.PublicView(ctx, user)
}
