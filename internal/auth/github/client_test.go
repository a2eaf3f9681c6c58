package github

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/devverse/devverse/internal/config"
)

func newTestClient(tokenURL, userAPIURL string) *Client {
	return NewClient(config.GitHubConfig{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		RedirectURI:  "http://localhost:3000/auth/github/callback",
		AuthURL:      "https://github.example/login/oauth/authorize",
		TokenURL:     tokenURL,
		UserAPIURL:   userAPIURL,
	})
}

func TestAuthCodeURL(t *testing.T) {
	client := newTestClient("https://github.example/token", "https://api.github.example/user")

	raw := client.AuthCodeURL("random-state")
	parsed, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("expected a parseable URL, got %v", err)
	}

	q := parsed.Query()
	if q.Get("client_id") != "client-id" {
		t.Errorf("expected client_id=client-id, got %q", q.Get("client_id"))
	}
	if q.Get("state") != "random-state" {
		t.Errorf("expected state=random-state, got %q", q.Get("state"))
	}
	if q.Get("scope") != "user:email" {
		t.Errorf("expected scope=user:email, got %q", q.Get("scope"))
	}
	if q.Get("redirect_uri") == "" {
		t.Error("expected redirect_uri to be set")
	}
}

func TestExchangeCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("failed to parse form: %v", err)
		}
		if r.Form.Get("code") != "auth-code" {
			t.Errorf("expected code=auth-code, got %q", r.Form.Get("code"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"gho_token123","token_type":"bearer","scope":"user:email"}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, "https://api.github.example/user")

	token, err := client.ExchangeCode(context.Background(), "auth-code")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if token != "gho_token123" {
		t.Errorf("expected access token gho_token123, got %q", token)
	}
}

func TestExchangeCode_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"bad_verification_code"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, "https://api.github.example/user")

	if _, err := client.ExchangeCode(context.Background(), "bad-code"); !errors.Is(err, ErrTokenExchange) {
		t.Errorf("expected ErrTokenExchange, got %v", err)
	}
}

func TestExchangeCode_EmptyToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"","token_type":"bearer"}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, "https://api.github.example/user")

	if _, err := client.ExchangeCode(context.Background(), "auth-code"); !errors.Is(err, ErrTokenExchange) {
		t.Errorf("expected ErrTokenExchange, got %v", err)
	}
}

func TestFetchUser(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer gho_token123" {
			t.Errorf("expected bearer header, got %q", got)
		}
		if !strings.Contains(r.Header.Get("User-Agent"), "DevVerse") {
			t.Errorf("expected DevVerse user agent, got %q", r.Header.Get("User-Agent"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": 583231,
			"login": "octocat",
			"name": "The Octocat",
			"email": "octocat@github.com",
			"avatar_url": "https://avatars.githubusercontent.com/u/583231",
			"bio": "There once was...",
			"location": "San Francisco",
			"html_url": "https://github.com/octocat",
			"public_repos": 8,
			"followers": 9999,
			"following": 9
		}`))
	}))
	defer srv.Close()

	client := newTestClient("https://github.example/token", srv.URL)

	user, err := client.FetchUser(context.Background(), "gho_token123")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if user.ExternalID() != "583231" {
		t.Errorf("expected external id 583231, got %q", user.ExternalID())
	}
	if user.Login != "octocat" {
		t.Errorf("expected login octocat, got %q", user.Login)
	}
	if user.AvatarURL == "" || user.HTMLURL == "" {
		t.Error("expected snake_case profile fields to be mapped")
	}
}

func TestFetchUser_MissingOptionalFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id": 1, "login": "ghost", "email": null, "name": null}`))
	}))
	defer srv.Close()

	client := newTestClient("https://github.example/token", srv.URL)

	user, err := client.FetchUser(context.Background(), "gho_token123")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if user.Email != "" || user.Name != "" {
		t.Error("expected missing optional fields to stay empty")
	}
}

func TestFetchUser_Unauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"Bad credentials"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := newTestClient("https://github.example/token", srv.URL)

	if _, err := client.FetchUser(context.Background(), "bad-token"); !errors.Is(err, ErrUserFetch) {
		t.Errorf("expected ErrUserFetch, got %v", err)
	}
}

func TestFetchUser_MissingIdentity(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"name": "No Identity"}`))
	}))
	defer srv.Close()

	client := newTestClient("https://github.example/token", srv.URL)

	if _, err := client.FetchUser(context.Background(), "gho_token123"); !errors.Is(err, ErrUserFetch) {
		t.Errorf("expected ErrUserFetch, got %v", err)
	}
}
