package postgres

import (
	"embed"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// Connection manages PostgreSQL database connection
type Connection struct {
	DB *sqlx.DB
}

// NewConnection creates a new PostgreSQL database connection
func NewConnection(connectionString string) (*Connection, error) {
	db, err := sqlx.Connect("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Connection{DB: db}, nil
}

// Close closes the database connection
func (c *Connection) Close() error {
	return c.DB.Close()
}

// RunMigrations runs the database migrations using golang-migrate
func (c *Connection) RunMigrations(migrationFS embed.FS) error {
	m, err := c.migrator(migrationFS)
	if err != nil {
		return err
	}

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// ForceMigrationVersion forces the migration version without running
// migrations. Use to recover from a dirty migration state.
func (c *Connection) ForceMigrationVersion(migrationFS embed.FS, version int) error {
	m, err := c.migrator(migrationFS)
	if err != nil {
		return err
	}

	if err := m.Force(version); err != nil {
		return fmt.Errorf("failed to force migration version %d: %w", version, err)
	}

	return nil
}

func (c *Connection) migrator(migrationFS embed.FS) (*migrate.Migrate, error) {
	postgresMigrations, err := fs.Sub(migrationFS, "postgres")
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres migrations sub-filesystem: %w", err)
	}

	source, err := iofs.New(postgresMigrations, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to create migration source: %w", err)
	}

	driver, err := postgres.WithInstance(c.DB.DB, &postgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to create database driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}

	return m, nil
}
