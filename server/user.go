package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/devverse/devverse/internal/auth"
	"github.com/devverse/devverse/internal/config"
	"github.com/devverse/devverse/internal/domain/entities"
	"github.com/devverse/devverse/internal/infrastructure/database/postgres"
	"github.com/devverse/devverse/internal/pkg/idgen"
	"github.com/devverse/devverse/migrations"
)

func newUserCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "User management commands",
		Long:  "Commands for managing users in the DevVerse database",
	}

	cmd.AddCommand(newUserCreateCommand())

	return cmd
}

func newUserCreateCommand() *cobra.Command {
	var (
		email      string
		username   string
		password   string
		name       string
		isActive   bool
		configPath string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new user",
		Long:  "Create a new user with the specified email, username and password",
		Example: `  # Create a user
  server user create --email dev@example.com --username dev --password secret123 --name "Dev User"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return createUser(configPath, email, username, password, name, isActive)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "User email (required)")
	cmd.Flags().StringVar(&username, "username", "", "Username (required)")
	cmd.Flags().StringVar(&password, "password", "", "User password (required)")
	cmd.Flags().StringVar(&name, "name", "", "User display name (optional)")
	cmd.Flags().BoolVar(&isActive, "active", true, "Whether user is active")
	cmd.Flags().StringVar(&configPath, "config", "", "Path to config file (optional)")

	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("username")
	cmd.MarkFlagRequired("password")

	return cmd
}

func createUser(configPath, email, username, password, name string, isActive bool) error {
	// Initialize ID generator
	if err := idgen.Initialize(1); err != nil {
		return fmt.Errorf("failed to initialize ID generator: %w", err)
	}

	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize database
	pgConn, err := postgres.NewConnection(cfg.Database.Postgres.ConnectionString())
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL database: %w", err)
	}
	defer pgConn.Close()

	// Run migrations to ensure database is up to date
	if err := pgConn.RunMigrations(migrations.FS); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	userRepo := postgres.NewUserRepository(pgConn.DB)

	ctx := context.Background()
	if _, err := userRepo.GetByEmail(ctx, email); err == nil {
		return fmt.Errorf("user with email %s already exists", email)
	}

	// Hash password
	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &entities.User{
		ID:           idgen.GenerateID(),
		Email:        email,
		Username:     username,
		PasswordHash: &hash,
		IsActive:     isActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if name != "" {
		user.Name = &name
	}

	// Save user to database
	if err := userRepo.Create(ctx, user); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	slog.Info("User created successfully",
		"user_id", user.ID,
		"email", user.Email,
		"username", user.Username,
		"is_active", user.IsActive,
	)

	return nil
}
