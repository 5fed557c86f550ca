package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/fernet/fernet-go"
	"github.com/joho/godotenv"
	"golang.org/x/text/language"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	CORS      CORSConfig
	Backend   BackendConfig
	Dashboard DashboardConfig
	Log       LogConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string `env:"SERVER_PORT" envDefault:"5001"`
	Host string `env:"SERVER_HOST" envDefault:"localhost"`
	Addr string `env:"-"` // Combined host:port for convenience
}

// DatabaseConfig holds the location and retention of the load log database
type DatabaseConfig struct {
	Path          string        `env:"DB_PATH" envDefault:"./data/admin_dashboard.db"`
	LogRetention  time.Duration `env:"LOAD_LOG_RETENTION" envDefault:"720h"`
	PruneSchedule string        `env:"LOAD_LOG_PRUNE_SCHEDULE" envDefault:"@daily"`
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000,http://localhost"`
}

// BackendConfig describes the upstream admin API.
type BackendConfig struct {
	BaseURL string `env:"BACKEND_BASE_URL" envDefault:"http://localhost:8000"`
	// Token is sent as a bearer token when set. When TokenKey is set the
	// token is expected to be Fernet-encrypted with that key.
	Token    string `env:"BACKEND_TOKEN"`
	TokenKey string `env:"BACKEND_TOKEN_KEY"`
	// HoldingsKey is the payload field carrying holdings rows.
	HoldingsKey string        `env:"BACKEND_HOLDINGS_KEY" envDefault:"portfolio_details"`
	Timeout     time.Duration `env:"BACKEND_TIMEOUT" envDefault:"0s"`
	RateLimit   float64       `env:"BACKEND_RATE_LIMIT" envDefault:"0"`
	RateBurst   int           `env:"BACKEND_RATE_BURST" envDefault:"10"`
}

// DashboardConfig tunes grids and store behaviour.
type DashboardConfig struct {
	Title            string        `env:"DASHBOARD_TITLE" envDefault:"Portfolio Admin"`
	Locale           string        `env:"DASHBOARD_LOCALE" envDefault:"en-US"`
	PageSize         int           `env:"DASHBOARD_PAGE_SIZE" envDefault:"25"`
	MaxPageSize      int           `env:"DASHBOARD_MAX_PAGE_SIZE" envDefault:"500"`
	HideIDs          bool          `env:"DASHBOARD_HIDE_IDS" envDefault:"true"`
	CompactNumbers   bool          `env:"DASHBOARD_COMPACT_NUMBERS" envDefault:"false"`
	HoldingsCacheTTL time.Duration `env:"DASHBOARD_HOLDINGS_CACHE_TTL" envDefault:"5m"`
	ReloadSchedule   string        `env:"DASHBOARD_RELOAD_SCHEDULE"`
	LoadOnStart      bool          `env:"DASHBOARD_LOAD_ON_START" envDefault:"true"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	config := &Config{}
	if err := env.Parse(config); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	token, err := decryptToken(config.Backend.Token, config.Backend.TokenKey)
	if err != nil {
		return nil, err
	}
	config.Backend.Token = token

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)
	config.Backend.BaseURL = strings.TrimRight(config.Backend.BaseURL, "/")

	return config, nil
}

// Validate checks values that env parsing cannot.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Backend.BaseURL) == "" {
		return errors.New("BACKEND_BASE_URL is required")
	}
	if strings.TrimSpace(c.Backend.HoldingsKey) == "" {
		return errors.New("BACKEND_HOLDINGS_KEY cannot be empty")
	}
	if c.Backend.RateLimit < 0 {
		return fmt.Errorf("BACKEND_RATE_LIMIT must be non-negative, got %v", c.Backend.RateLimit)
	}
	if c.Dashboard.PageSize < 1 {
		return fmt.Errorf("DASHBOARD_PAGE_SIZE must be at least 1, got %d", c.Dashboard.PageSize)
	}
	if c.Dashboard.MaxPageSize < c.Dashboard.PageSize {
		return fmt.Errorf("DASHBOARD_MAX_PAGE_SIZE (%d) is smaller than DASHBOARD_PAGE_SIZE (%d)",
			c.Dashboard.MaxPageSize, c.Dashboard.PageSize)
	}
	if _, err := language.Parse(c.Dashboard.Locale); err != nil {
		return fmt.Errorf("invalid DASHBOARD_LOCALE %q: %w", c.Dashboard.Locale, err)
	}
	return nil
}

// LocaleTag returns the parsed dashboard locale, English when unparsable.
func (c *Config) LocaleTag() language.Tag {
	tag, err := language.Parse(c.Dashboard.Locale)
	if err != nil {
		return language.English
	}
	return tag
}

// decryptToken returns the plain upstream token. Without a key the token is
// used as is.
func decryptToken(token, key string) (string, error) {
	if token == "" || key == "" {
		return token, nil
	}
	k, err := fernet.DecodeKey(key)
	if err != nil {
		return "", fmt.Errorf("invalid BACKEND_TOKEN_KEY: %w", err)
	}
	// A zero TTL accepts tokens of any age.
	plain := fernet.VerifyAndDecrypt([]byte(token), 0, []*fernet.Key{k})
	if plain == nil {
		return "", errors.New("BACKEND_TOKEN could not be decrypted with BACKEND_TOKEN_KEY")
	}
	return string(plain), nil
}
