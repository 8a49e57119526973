package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port string `yaml:"port" env:"SERVER_PORT"`
		Mode string `yaml:"mode" env:"SERVER_MODE"`
	} `yaml:"server"`

	Database struct {
		Host            string `yaml:"host" env:"DB_HOST"`
		Port            string `yaml:"port" env:"DB_PORT"`
		User            string `yaml:"user" env:"DB_USER"`
		Password        string `yaml:"password" env:"DB_PASSWORD"`
		DBName          string `yaml:"dbname" env:"DB_NAME"`
		SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
		MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
		MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
	} `yaml:"database"`

	Voting struct {
		// TokenSecret keys the one-way hash that anonymizes voter identities.
		// Rotating it orphans existing ballots' duplicate detection.
		TokenSecret    string `yaml:"token_secret" env:"VOTING_TOKEN_SECRET"`
		CodeTTL        string `yaml:"code_ttl" env:"VOTING_CODE_TTL"`
		ResendInterval string `yaml:"resend_interval" env:"VOTING_RESEND_INTERVAL"`
	} `yaml:"voting"`

	Admin struct {
		JWTSecret       string `yaml:"jwt_secret" env:"ADMIN_JWT_SECRET"`
		PasswordHash    string `yaml:"password_hash" env:"ADMIN_PASSWORD_HASH"` // bcrypt hash of the staff password
		TokenExpiration string `yaml:"token_expiration" env:"ADMIN_TOKEN_EXPIRATION"`
		TokenIssuer     string `yaml:"token_issuer" env:"ADMIN_TOKEN_ISSUER"`
	} `yaml:"admin"`

	SMTP struct {
		Host      string `yaml:"host" env:"SMTP_HOST"`
		Port      int    `yaml:"port" env:"SMTP_PORT"`
		Username  string `yaml:"username" env:"SMTP_USERNAME"`
		Password  string `yaml:"password" env:"SMTP_PASSWORD"`
		FromName  string `yaml:"from_name" env:"SMTP_FROM_NAME"`
		FromEmail string `yaml:"from_email" env:"SMTP_FROM_EMAIL"`
		UseTLS    bool   `yaml:"use_tls" env:"SMTP_USE_TLS"`
	} `yaml:"smtp"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`
}

// LoadConfig loads configuration from a file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}
	setDefaults(config)

	// Config file is optional; env vars may carry everything
	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	// Override with environment variables
	if err := applyEnvOverrides(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	config.Server.Port = "8080"
	config.Server.Mode = "development"

	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "sdcvote"
	config.Database.SSLMode = "disable"
	config.Database.MaxIdleConns = 5
	config.Database.MaxOpenConns = 20
	config.Database.ConnMaxLifetime = "1h"

	config.Voting.CodeTTL = "10m"
	config.Voting.ResendInterval = "1m"

	config.Admin.TokenExpiration = "2h"
	config.Admin.TokenIssuer = "sdc-vote"

	config.SMTP.Port = 587
	config.SMTP.FromName = "SDC Elections"

	config.Logging.Level = "info"
	config.Logging.Format = "json"
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	if config.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if config.Voting.TokenSecret == "" {
		return fmt.Errorf("voting token secret is required")
	}

	if config.Admin.JWTSecret == "" {
		return fmt.Errorf("admin JWT secret is required")
	}

	for name, value := range map[string]string{
		"voting code_ttl":        config.Voting.CodeTTL,
		"voting resend_interval": config.Voting.ResendInterval,
		"admin token_expiration": config.Admin.TokenExpiration,
		"db conn_max_lifetime":   config.Database.ConnMaxLifetime,
	} {
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid %s format: %w", name, err)
		}
	}

	return nil
}

// GetPostgresConnectionString returns postgres connection string
func (c *Config) GetPostgresConnectionString() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
		sslMode,
	)
}

// CodeTTL returns the verification code validity window
func (c *Config) CodeTTL() time.Duration {
	return parseDuration(c.Voting.CodeTTL, 10*time.Minute)
}

// ResendInterval returns the minimum gap between code requests per voter
func (c *Config) ResendInterval() time.Duration {
	return parseDuration(c.Voting.ResendInterval, time.Minute)
}

// AdminTokenExpiration returns the staff session token lifetime
func (c *Config) AdminTokenExpiration() time.Duration {
	return parseDuration(c.Admin.TokenExpiration, 2*time.Hour)
}

// parseDuration parses a duration string or returns a default value
func parseDuration(value string, defaultValue time.Duration) time.Duration {
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	return defaultValue
}
