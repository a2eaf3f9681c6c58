package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/devverse/devverse/internal/auth"
	"github.com/devverse/devverse/internal/auth/github"
	"github.com/devverse/devverse/internal/config"
	"github.com/devverse/devverse/internal/domain/services"
	"github.com/devverse/devverse/internal/infrastructure/database/postgres"
	"github.com/devverse/devverse/internal/pkg/idgen"
	"github.com/devverse/devverse/internal/pkg/logger"
	"github.com/devverse/devverse/migrations"
	"github.com/devverse/devverse/server/internal/http/handlers"
	"github.com/devverse/devverse/server/internal/http/middleware"
	"github.com/devverse/devverse/server/internal/session"
)

func main() {
	rootCmd := newRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var (
		forceVersion  int
		configPath    string
		logLevel      string
		logFile       string
		logToStderr   bool
		alsoLogStderr bool
		logFormat     string
	)

	cmd := &cobra.Command{
		Use:   "server",
		Short: "DevVerse API server",
		Long:  "The HTTP API server for the DevVerse service",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return setupServerLogging(logLevel, logFile, logToStderr, alsoLogStderr, logFormat)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(configPath, forceVersion)
		},
	}

	cmd.Flags().IntVar(&forceVersion, "force-migration", -1, "Force migration version (use to fix dirty migration state)")
	cmd.Flags().StringVar(&configPath, "config", "", "Path to config file (optional)")

	// Add logging flags
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	cmd.Flags().StringVar(&logFile, "log-file", "", "Log file path (if specified, logs to file instead of stderr)")
	cmd.Flags().BoolVar(&logToStderr, "logtostderr", false, "Log to stderr (default behavior unless --log-file specified)")
	cmd.Flags().BoolVar(&alsoLogStderr, "alsologtostderr", false, "Log to both file and stderr")
	cmd.Flags().StringVar(&logFormat, "log-format", "json", "Log format (text, json)")

	// Add subcommands
	cmd.AddCommand(newUserCommand())

	return cmd
}

// setupServerLogging configures the global logger for the server
func setupServerLogging(logLevel, logFile string, logToStderr, alsoLogStderr bool, logFormat string) error {
	// Default to stderr logging unless file is specified
	if logFile == "" {
		logToStderr = true
	}

	cfg := logger.Config{
		Level:         logger.ParseLevel(logLevel),
		LogFile:       logFile,
		LogToStderr:   logToStderr,
		AlsoLogStderr: alsoLogStderr,
		Format:        logFormat,
	}

	globalLogger, err := logger.SetupLogger(cfg)
	if err != nil {
		return err
	}

	slog.SetDefault(globalLogger)

	return nil
}

func runServer(configPath string, forceVersion int) error {
	log := slog.Default().With("component", "server")
	log.Info("Starting server initialization")

	// Initialize Snowflake ID generator
	if err := idgen.Initialize(1); err != nil {
		return fmt.Errorf("failed to initialize ID generator: %w", err)
	}

	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log.Info("Initializing PostgreSQL database",
		"user", cfg.Database.Postgres.User,
		"host", cfg.Database.Postgres.Host,
		"database", cfg.Database.Postgres.Database)

	pgConn, err := connectWithRetries(cfg.Database.Postgres.ConnectionString(), log)
	if err != nil {
		return err
	}
	defer pgConn.Close()

	// Handle force migration if requested
	if forceVersion >= 0 {
		log.Info("Force setting migration version", "version", forceVersion)
		if err := pgConn.ForceMigrationVersion(migrations.FS, forceVersion); err != nil {
			return fmt.Errorf("failed to force migration version: %w", err)
		}
		log.Info("Migration version forced, exiting", "version", forceVersion)
		return nil
	}

	// Run migrations
	if err := pgConn.RunMigrations(migrations.FS); err != nil {
		return fmt.Errorf("failed to run PostgreSQL migrations: %w", err)
	}

	// Initialize repositories
	userRepo := postgres.NewUserRepository(pgConn.DB)
	followerRepo := postgres.NewFollowerRepository(pgConn.DB)
	techRepo := postgres.NewTechRepository(pgConn.DB)
	postRepo := postgres.NewPostRepository(pgConn.DB)

	// Initialize token service from config
	tokenSvc := auth.NewTokenService(
		cfg.Auth.JWT.SigningKey,
		cfg.Auth.JWT.Issuer,
		cfg.Auth.JWT.Audience,
		cfg.Auth.JWT.Lifetime(),
	)

	// Initialize services
	userSvc := services.NewUserService(userRepo, followerRepo, techRepo)
	authSvc := services.NewAuthService(userRepo, userSvc, tokenSvc)
	githubSvc := services.NewGitHubService(userRepo, userSvc, tokenSvc, github.NewClient(cfg.Auth.GitHub))

	sessions := session.NewManager([]byte(cfg.Auth.SessionSecret))
	authMiddleware := middleware.NewAuthMiddleware(tokenSvc, sessions)

	handler := handlers.New(authSvc, githubSvc, userSvc, userRepo, followerRepo, techRepo, postRepo, sessions)
	router := newRouter(handler, authMiddleware)

	address := cfg.Server.Address()
	log.Info("Starting HTTP server", "address", address)

	srv := &http.Server{
		Addr:              address,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	if err := srv.ListenAndServe(); err != nil {
		return fmt.Errorf("failed to serve HTTP server: %w", err)
	}

	return nil
}

// connectWithRetries connects to PostgreSQL with exponential backoff,
// allowing the database to come up first during orchestrated startup
func connectWithRetries(connString string, log *slog.Logger) (*postgres.Connection, error) {
	maxRetries := 10
	retryDelay := 2 * time.Second

	for i := 0; i < maxRetries; i++ {
		pgConn, err := postgres.NewConnection(connString)
		if err == nil {
			log.Info("Successfully connected to PostgreSQL")
			return pgConn, nil
		}

		if i < maxRetries-1 {
			log.Warn("Failed to connect to PostgreSQL",
				"attempt", i+1,
				"max_retries", maxRetries,
				"error", err,
				"retry_delay", retryDelay)
			time.Sleep(retryDelay)
			retryDelay *= 2
			if retryDelay > 30*time.Second {
				retryDelay = 30 * time.Second
			}
		}
	}

	return nil, fmt.Errorf("failed to connect to PostgreSQL after %d attempts", maxRetries)
}
