package entities

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// User represents a user in the system
type User struct {
	ID           string    `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	Username     string    `json:"username" db:"username"`
	Name         *string   `json:"name,omitempty" db:"name"`
	Bio          *string   `json:"bio,omitempty" db:"bio"`
	Location     *string   `json:"location,omitempty" db:"location"`
	AvatarURL    *string   `json:"profile_image_url,omitempty" db:"profile_image_url"`
	PasswordHash *string   `json:"-" db:"password_hash"` // never serialize to JSON
	GitHubID     *string   `json:"github_id,omitempty" db:"github_id"`
	GitHubURL    *string   `json:"github_profile,omitempty" db:"github_profile"`
	LinkedInURL  *string   `json:"linkedin_profile,omitempty" db:"linkedin_profile"`
	PortfolioURL *string   `json:"portfolio_url,omitempty" db:"portfolio_url"`

	EmailVerified bool `json:"email_verified" db:"email_verified"`
	IsActive      bool `json:"is_active" db:"is_active"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// IsFederated returns true if the account is linked to a GitHub identity
func (u *User) IsFederated() bool {
	return u.GitHubID != nil && *u.GitHubID != ""
}

// HasPassword returns true if the account can authenticate with a local password.
// Accounts created purely via federated login carry no password hash.
func (u *User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}

// VerifyPassword checks if the provided password matches the hashed password
func (u *User) VerifyPassword(password string) bool {
	if !u.HasPassword() {
		return false
	}
	err := bcrypt.CompareHashAndPassword([]byte(*u.PasswordHash), []byte(password))
	return err == nil
}

// PublicUser is the subset of a user record safe to return to clients.
// It never includes the password hash.
type PublicUser struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	Username       string    `json:"username"`
	Name           *string   `json:"name,omitempty"`
	Bio            *string   `json:"bio,omitempty"`
	Location       *string   `json:"location,omitempty"`
	GitHubURL      *string   `json:"githubProfile,omitempty"`
	LinkedInURL    *string   `json:"linkedInProfile,omitempty"`
	PortfolioURL   *string   `json:"portfolioUrl,omitempty"`
	AvatarURL      *string   `json:"profileImageUrl,omitempty"`
	EmailVerified  bool      `json:"emailVerified"`
	FollowersCount int       `json:"followersCount"`
	FollowingCount int       `json:"followingCount"`
	TechStack      []string  `json:"techStack"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}
