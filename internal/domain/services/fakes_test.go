package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/devverse/devverse/internal/domain/entities"
	"github.com/devverse/devverse/internal/domain/repositories"
)

// fakeUserRepo is an in-memory UserRepository that enforces the same
// uniqueness constraints the postgres schema does.
type fakeUserRepo struct {
	mu      sync.Mutex
	users   map[string]*entities.User
	nextID  int
	failAll error // when set, every call fails with this error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*entities.User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *entities.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failAll != nil {
		return r.failAll
	}

	for _, existing := range r.users {
		if existing.Email == user.Email {
			return repositories.ErrDuplicateEmail
		}
		if existing.Username == user.Username {
			return repositories.ErrDuplicateUsername
		}
		if user.GitHubID != nil && existing.GitHubID != nil && *existing.GitHubID == *user.GitHubID {
			return repositories.ErrDuplicateGitHubID
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

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*entities.User, error) {
	return r.find(func(u *entities.User) bool { return u.ID == id })
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	return r.find(func(u *entities.User) bool { return u.Email == email })
}

func (r *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*entities.User, error) {
	return r.find(func(u *entities.User) bool { return u.Username == username })
}

func (r *fakeUserRepo) GetByGitHubID(ctx context.Context, githubID string) (*entities.User, error) {
	return r.find(func(u *entities.User) bool {
		return u.GitHubID != nil && *u.GitHubID == githubID
	})
}

func (r *fakeUserRepo) find(match func(*entities.User) bool) (*entities.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failAll != nil {
		return nil, r.failAll
	}

	for _, u := range r.users {
		if match(u) {
			clone := *u
			return &clone, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) Update(ctx context.Context, user *entities.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failAll != nil {
		return r.failAll
	}

	if _, ok := r.users[user.ID]; !ok {
		return repositories.ErrUserNotFound
	}

	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(ctx, email)
	if err == repositories.ErrUserNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *fakeUserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, err := r.GetByUsername(ctx, username)
	if err == repositories.ErrUserNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *fakeUserRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users)
}

// fakeFollowerRepo returns fixed counts
type fakeFollowerRepo struct {
	followers map[string]int
	following map[string]int
}

func newFakeFollowerRepo() *fakeFollowerRepo {
	return &fakeFollowerRepo{
		followers: make(map[string]int),
		following: make(map[string]int),
	}
}

func (r *fakeFollowerRepo) Follow(ctx context.Context, followerID, followingID string) error {
	r.followers[followingID]++
	r.following[followerID]++
	return nil
}

func (r *fakeFollowerRepo) Unfollow(ctx context.Context, followerID, followingID string) error {
	return nil
}

func (r *fakeFollowerRepo) CountFollowers(ctx context.Context, userID string) (int, error) {
	return r.followers[userID], nil
}

func (r *fakeFollowerRepo) CountFollowing(ctx context.Context, userID string) (int, error) {
	return r.following[userID], nil
}

// fakeTechRepo returns fixed tech stack names
type fakeTechRepo struct {
	techs map[string][]string
}

func newFakeTechRepo() *fakeTechRepo {
	return &fakeTechRepo{techs: make(map[string][]string)}
}

func (r *fakeTechRepo) ListNamesByUserID(ctx context.Context, userID string) ([]string, error) {
	return r.techs[userID], nil
}

func (r *fakeTechRepo) SetUserTechs(ctx context.Context, userID string, names []string) error {
	r.techs[userID] = names
	return nil
}

// newTestUserService wires a UserService over the fakes
func newTestUserService(users *fakeUserRepo) *UserService {
	return NewUserService(users, newFakeFollowerRepo(), newFakeTechRepo())
}
