package config

import (
	"fmt"
	"time"
)

// Config represents the application configuration
type Config struct {
	Server      ServerConfig   `yaml:"server"`
	Database    DatabaseConfig `yaml:"database"`
	Auth        AuthConfig     `yaml:"auth"`
	Environment string         `yaml:"environment"` // local, dev, prod
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Address returns the listen address for the HTTP server
func (s *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Postgres PostgresConfig `yaml:"postgres"`
}

// PostgresConfig holds PostgreSQL-specific configuration
type PostgresConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Database string `yaml:"database"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"` // disable, require, verify-ca, verify-full
}

// ConnectionString returns the PostgreSQL connection string
func (p *PostgresConfig) ConnectionString() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode)
}

// AuthConfig holds authentication configuration
type AuthConfig struct {
	JWT           JWTConfig    `yaml:"jwt"`
	GitHub        GitHubConfig `yaml:"github"`
	SessionSecret string       `yaml:"session_secret"` // cookie session signing key
}

// JWTConfig holds JWT token configuration
type JWTConfig struct {
	SigningKey    string `yaml:"signing_key"`    // Secret key for signing JWTs
	Issuer        string `yaml:"issuer"`         // iss claim on issued tokens
	Audience      string `yaml:"audience"`       // aud claim on issued tokens
	ExpiryMinutes int    `yaml:"expiry_minutes"` // token lifetime in minutes
}

// Lifetime returns the configured token lifetime
func (j *JWTConfig) Lifetime() time.Duration {
	return time.Duration(j.ExpiryMinutes) * time.Minute
}

// GitHubConfig holds GitHub OAuth configuration
type GitHubConfig struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	RedirectURI  string `yaml:"redirect_uri"`
	AuthURL      string `yaml:"auth_url"`     // defaults to the public GitHub endpoint
	TokenURL     string `yaml:"token_url"`    // defaults to the public GitHub endpoint
	UserAPIURL   string `yaml:"user_api_url"` // defaults to the public GitHub API
}
