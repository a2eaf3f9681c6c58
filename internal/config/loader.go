package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// expandEnvVars expands environment variables in the format ${VAR} or $VAR
func expandEnvVars(data []byte) []byte {
	return []byte(os.ExpandEnv(string(data)))
}

// DefaultConfigPaths defines the default locations to search for configuration files
var DefaultConfigPaths = []string{
	"./config.yaml",
	"./config.yml",
	"./configs/config.yaml",
	"./configs/config.yml",
	"/etc/devverse/config.yaml",
	"/etc/devverse/config.yml",
}

// Load loads the configuration from the specified file or default locations
func Load(configPath string) (*Config, error) {
	// Set default values
	config := &Config{
		Server: ServerConfig{
			Host: "localhost",
			Port: 8080,
		},
		Database: DatabaseConfig{
			Postgres: PostgresConfig{
				Host:     "localhost",
				Port:     5432,
				Database: "devverse",
				User:     "postgres",
				SSLMode:  "disable",
			},
		},
		Auth: AuthConfig{
			JWT: JWTConfig{
				Issuer:        "devverse-api",
				Audience:      "devverse-client",
				ExpiryMinutes: 60,
			},
			GitHub: GitHubConfig{
				AuthURL:    "https://github.com/login/oauth/authorize",
				TokenURL:   "https://github.com/login/oauth/access_token",
				UserAPIURL: "https://api.github.com/user",
			},
		},
		Environment: "local",
	}

	// If no config path is provided, search in default locations
	if configPath == "" {
		configPath = findConfigFile()
	}

	// Load configuration from file if it exists
	if configPath != "" && fileExists(configPath) {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		// Expand environment variables in the config
		data = expandEnvVars(data)

		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	// Validate configuration
	if err := validate(config); err != nil {
		return nil, err
	}

	return config, nil
}

// findConfigFile searches the default locations for a config file
func findConfigFile() string {
	for _, path := range DefaultConfigPaths {
		if fileExists(path) {
			return path
		}
	}
	return ""
}

// fileExists checks whether the path exists and is a regular file
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// validate checks that required configuration values are present
func validate(config *Config) error {
	if config.Auth.JWT.SigningKey == "" {
		return fmt.Errorf("auth.jwt.signing_key is required")
	}
	if config.Auth.JWT.ExpiryMinutes <= 0 {
		return fmt.Errorf("auth.jwt.expiry_minutes must be positive")
	}
	if config.Auth.SessionSecret == "" {
		return fmt.Errorf("auth.session_secret is required")
	}
	if config.Database.Postgres.Host == "" {
		return fmt.Errorf("database.postgres.host is required")
	}
	return nil
}
