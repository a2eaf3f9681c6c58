package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"github.com/devverse/devverse/internal/auth"
	"github.com/devverse/devverse/internal/auth/github"
	"github.com/devverse/devverse/internal/config"
	"github.com/devverse/devverse/internal/domain/entities"
	"github.com/devverse/devverse/internal/domain/repositories"
	"github.com/devverse/devverse/internal/domain/services"
	"github.com/devverse/devverse/server/internal/http/middleware"
	"github.com/devverse/devverse/server/internal/session"
)

type fakeUsers struct {
	mu     sync.Mutex
	users  map[string]*entities.User
	nextID int
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{users: make(map[string]*entities.User)}
}

func (r *fakeUsers) Create(ctx context.Context, user *entities.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.Email == user.Email {
			return repositories.ErrDuplicateEmail
		}
		if existing.Username == user.Username {
			return repositories.ErrDuplicateUsername
		}
	}

	if user.ID == "" {
		r.nextID++
		user.ID = fmt.Sprintf("user-%d", r.nextID)
	}
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUsers) find(match func(*entities.User) bool) (*entities.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if match(u) {
			clone := *u
			return &clone, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUsers) GetByID(ctx context.Context, id string) (*entities.User, error) {
	return r.find(func(u *entities.User) bool { return u.ID == id })
}

func (r *fakeUsers) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	return r.find(func(u *entities.User) bool { return u.Email == email })
}

func (r *fakeUsers) GetByUsername(ctx context.Context, username string) (*entities.User, error) {
	return r.find(func(u *entities.User) bool { return u.Username == username })
}

func (r *fakeUsers) GetByGitHubID(ctx context.Context, githubID string) (*entities.User, error) {
	return r.find(func(u *entities.User) bool {
		return u.GitHubID != nil && *u.GitHubID == githubID
	})
}

func (r *fakeUsers) Update(ctx context.Context, user *entities.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.ID]; !ok {
		return repositories.ErrUserNotFound
	}
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUsers) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(ctx, email)
	if err == repositories.ErrUserNotFound {
		return false, nil
	}
	return err == nil, err
}

func (r *fakeUsers) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, err := r.GetByUsername(ctx, username)
	if err == repositories.ErrUserNotFound {
		return false, nil
	}
	return err == nil, err
}

type fakeFollows struct {
	mu    sync.Mutex
	edges map[string]bool // follower|following
}

func newFakeFollows() *fakeFollows {
	return &fakeFollows{edges: make(map[string]bool)}
}

func (r *fakeFollows) Follow(ctx context.Context, followerID, followingID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.edges[followerID+"|"+followingID] = true
	return nil
}

func (r *fakeFollows) Unfollow(ctx context.Context, followerID, followingID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.edges, followerID+"|"+followingID)
	return nil
}

func (r *fakeFollows) CountFollowers(ctx context.Context, userID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for edge := range r.edges {
		if strings.HasSuffix(edge, "|"+userID) {
			count++
		}
	}
	return count, nil
}

func (r *fakeFollows) CountFollowing(ctx context.Context, userID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for edge := range r.edges {
		if strings.HasPrefix(edge, userID+"|") {
			count++
		}
	}
	return count, nil
}

type fakeTechs struct {
	mu    sync.Mutex
	techs map[string][]string
}

func newFakeTechs() *fakeTechs {
	return &fakeTechs{techs: make(map[string][]string)}
}

func (r *fakeTechs) ListNamesByUserID(ctx context.Context, userID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.techs[userID], nil
}

func (r *fakeTechs) SetUserTechs(ctx context.Context, userID string, names []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.techs[userID] = names
	return nil
}

type fakePosts struct {
	mu     sync.Mutex
	posts  []*entities.Post
	nextID int
}

func newFakePosts() *fakePosts {
	return &fakePosts{}
}

func (r *fakePosts) Create(ctx context.Context, post *entities.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if post.ID == "" {
		r.nextID++
		post.ID = fmt.Sprintf("post-%d", r.nextID)
	}
	clone := *post
	r.posts = append(r.posts, &clone)
	return nil
}

func (r *fakePosts) GetByID(ctx context.Context, id string) (*entities.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.posts {
		if p.ID == id {
			clone := *p
			return &clone, nil
		}
	}
	return nil, repositories.ErrPostNotFound
}

func (r *fakePosts) ListByUserID(ctx context.Context, userID string, limit, offset int) ([]*entities.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entities.Post
	for i := len(r.posts) - 1; i >= 0; i-- {
		if r.posts[i].UserID == userID {
			clone := *r.posts[i]
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *fakePosts) List(ctx context.Context, limit, offset int) ([]*entities.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entities.Post
	for i := len(r.posts) - 1; i >= 0; i-- {
		clone := *r.posts[i]
		out = append(out, &clone)
	}
	return out, nil
}

// newTestRouter wires the full API surface over in-memory fakes, the
// same way the server binary does
func newTestRouter() (*mux.Router, *fakeUsers) {
	users := newFakeUsers()
	follows := newFakeFollows()
	techs := newFakeTechs()
	posts := newFakePosts()

	tokenSvc := auth.NewTokenService("test-signing-key", "devverse-api", "devverse-client", time.Hour)
	userSvc := services.NewUserService(users, follows, techs)
	authSvc := services.NewAuthService(users, userSvc, tokenSvc)
	githubSvc := services.NewGitHubService(users, userSvc, tokenSvc, github.NewClient(config.GitHubConfig{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		RedirectURI:  "http://localhost:3000/auth/github/callback",
		AuthURL:      "https://github.example/login/oauth/authorize",
		TokenURL:     "https://github.example/login/oauth/access_token",
		UserAPIURL:   "https://api.github.example/user",
	}))

	sessions := session.NewManager([]byte("test-session-secret"))
	authMw := middleware.NewAuthMiddleware(tokenSvc, sessions)
	h := New(authSvc, githubSvc, userSvc, users, follows, techs, posts, sessions)

	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/auth/register", h.Register).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", h.Login).Methods(http.MethodPost)
	api.HandleFunc("/auth/logout", h.Logout).Methods(http.MethodPost)
	api.HandleFunc("/auth/github", h.GitHubAuthorize).Methods(http.MethodGet)
	api.HandleFunc("/auth/github/callback", h.GitHubCallback).Methods(http.MethodPost)
	api.HandleFunc("/users/{username}", h.GetProfile).Methods(http.MethodGet)
	api.HandleFunc("/posts", h.ListPosts).Methods(http.MethodGet)
	api.Handle("/auth/verify", authMw.RequireAuth(http.HandlerFunc(h.Verify))).Methods(http.MethodGet)
	api.Handle("/users/me/techs", authMw.RequireAuth(http.HandlerFunc(h.SetTechStack))).Methods(http.MethodPut)
	api.Handle("/users/{username}/follow", authMw.RequireAuth(http.HandlerFunc(h.Follow))).Methods(http.MethodPost)
	api.Handle("/users/{username}/follow", authMw.RequireAuth(http.HandlerFunc(h.Unfollow))).Methods(http.MethodDelete)
	api.Handle("/posts", authMw.RequireAuth(http.HandlerFunc(h.CreatePost))).Methods(http.MethodPost)

	return r, users
}
