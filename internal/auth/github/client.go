package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"

	"github.com/devverse/devverse/internal/config"
)

const userAgent = "DevVerse-App"

var (
	// ErrTokenExchange is returned when the authorization code cannot be
	// exchanged for an access token
	ErrTokenExchange = errors.New("failed to exchange code for access token")

	// ErrUserFetch is returned when the GitHub user endpoint rejects the
	// access token or the response cannot be decoded
	ErrUserFetch = errors.New("failed to get GitHub user information")
)

// User is the identity data returned by GitHub's user endpoint.
// Field names map GitHub's snake_case JSON; fields other than id and
// login are optional and stay zero when the provider withholds them.
type User struct {
	ID        int64  `json:"id"`
	Login     string `json:"login"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url"`
	Bio       string `json:"bio"`
	Location  string `json:"location"`
	HTMLURL   string `json:"html_url"`

	PublicRepos int `json:"public_repos"`
	Followers   int `json:"followers"`
	Following   int `json:"following"`
}

// ExternalID returns GitHub's numeric user id as the opaque external id
// stored on linked accounts
func (u *User) ExternalID() string {
	return fmt.Sprintf("%d", u.ID)
}

// Client talks to GitHub's OAuth and user endpoints. Both network calls
// are single attempt with the transport's default timeouts; any failure
// is terminal for the authentication attempt.
type Client struct {
	oauth      oauth2.Config
	userAPIURL string
	httpClient *http.Client
}

// NewClient creates a GitHub OAuth client from configuration
func NewClient(cfg config.GitHubConfig) *Client {
	return &Client{
		oauth: oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURI,
			Scopes:       []string{"user:email"},
			Endpoint: oauth2.Endpoint{
				AuthURL:  cfg.AuthURL,
				TokenURL: cfg.TokenURL,
			},
		},
		userAPIURL: cfg.UserAPIURL,
		httpClient: http.DefaultClient,
	}
}

// AuthCodeURL builds the authorization URL for the given anti-forgery
// state. Persisting and verifying the state across the redirect is the
// caller's responsibility.
func (c *Client) AuthCodeURL(state string) string {
	return c.oauth.AuthCodeURL(state)
}

// ExchangeCode exchanges an authorization code for an access token
func (c *Client) ExchangeCode(ctx context.Context, code string) (string, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)

	token, err := c.oauth.Exchange(ctx, code)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTokenExchange, err)
	}
	if token.AccessToken == "" {
		return "", ErrTokenExchange
	}

	return token.AccessToken, nil
}

// FetchUser fetches the authenticated user's identity from GitHub
func (c *Client) FetchUser(ctx context.Context, accessToken string) (*User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.userAPIURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUserFetch, err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUserFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrUserFetch, resp.StatusCode)
	}

	var user User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUserFetch, err)
	}

	// id and login are required for identity resolution
	if user.ID == 0 || user.Login == "" {
		return nil, fmt.Errorf("%w: response missing id or login", ErrUserFetch)
	}

	return &user, nil
}
