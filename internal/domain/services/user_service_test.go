package services

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/devverse/devverse/internal/domain/entities"
	"github.com/devverse/devverse/internal/domain/repositories"
)

func TestPublicView(t *testing.T) {
	ctx := context.Background()
	users := newFakeUserRepo()
	followers := newFakeFollowerRepo()
	techs := newFakeTechRepo()
	svc := NewUserService(users, followers, techs)

	hash := "$2a$10$notarealhashnotarealhashnotarealhashnotarealhashxx"
	bio := "Builds things"
	user := &entities.User{
		Email:        "dev@example.com",
		Username:     "dev",
		Bio:          &bio,
		PasswordHash: &hash,
		IsActive:     true,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	if err := users.Create(ctx, user); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	for _, followerID := range []string{"a", "b", "c"} {
		if err := followers.Follow(ctx, followerID, user.ID); err != nil {
			t.Fatalf("failed to follow: %v", err)
		}
	}
	if err := followers.Follow(ctx, user.ID, "a"); err != nil {
		t.Fatalf("failed to follow: %v", err)
	}
	if err := techs.SetUserTechs(ctx, user.ID, []string{"Go", "PostgreSQL"}); err != nil {
		t.Fatalf("failed to set techs: %v", err)
	}

	view, err := svc.PublicView(ctx, user)
	if err != nil {
		t.Fatalf("PublicView failed: %v", err)
	}

	if view.FollowersCount != 3 {
		t.Errorf("expected 3 followers, got %d", view.FollowersCount)
	}
	if view.FollowingCount != 1 {
		t.Errorf("expected 1 following, got %d", view.FollowingCount)
	}
	if len(view.TechStack) != 2 || view.TechStack[0] != "Go" {
		t.Errorf("unexpected tech stack: %v", view.TechStack)
	}
	if view.Bio == nil || *view.Bio != bio {
		t.Errorf("expected bio to carry over, got %v", view.Bio)
	}

	raw, err := json.Marshal(view)
	if err != nil {
		t.Fatalf("failed to marshal view: %v", err)
	}
	if strings.Contains(string(raw), "notarealhash") {
		t.Error("public view serialization leaked the password hash")
	}
}

func TestPublicView_NoTechsYieldsEmptySlice(t *testing.T) {
	ctx := context.Background()
	users := newFakeUserRepo()
	svc := newTestUserService(users)

	user := &entities.User{Email: "new@example.com", Username: "new", IsActive: true}
	if err := users.Create(ctx, user); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	view, err := svc.PublicView(ctx, user)
	if err != nil {
		t.Fatalf("PublicView failed: %v", err)
	}
	if view.TechStack == nil {
		t.Error("expected empty slice, got nil tech stack")
	}

	raw, err := json.Marshal(view)
	if err != nil {
		t.Fatalf("failed to marshal view: %v", err)
	}
	if !strings.Contains(string(raw), `"techStack":[]`) {
		t.Errorf("expected techStack to serialize as [], got %s", raw)
	}
}

func TestGetProfile(t *testing.T) {
	ctx := context.Background()
	users := newFakeUserRepo()
	svc := newTestUserService(users)

	user := &entities.User{Email: "p@example.com", Username: "profiled", IsActive: true}
	if err := users.Create(ctx, user); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	view, err := svc.GetProfile(ctx, "profiled")
	if err != nil {
		t.Fatalf("GetProfile failed: %v", err)
	}
	if view.Username != "profiled" {
		t.Errorf("expected username profiled, got %q", view.Username)
	}

	if _, err := svc.GetProfile(ctx, "missing"); err == nil {
		t.Error("expected an error for an unknown username")
	}
}

func TestGetByID_NotFound(t *testing.T) {
	svc := newTestUserService(newFakeUserRepo())

	_, err := svc.GetByID(context.Background(), "nope")
	if err == nil {
		t.Fatal("expected an error for an unknown id")
	}
	if !strings.Contains(err.Error(), repositories.ErrUserNotFound.Error()) {
		t.Errorf("expected wrapped not-found error, got %v", err)
	}
}
