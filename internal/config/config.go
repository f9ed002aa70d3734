package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const (
	// DefaultAPIBaseURL is the backend most consoles talk to.
	DefaultAPIBaseURL = "http://localhost:10060"
	// DashboardAPIBaseURL is the default backend of the plain dashboard app.
	DashboardAPIBaseURL = "http://localhost:5001"
	// DefaultAPITimeout is the fixed request timeout of the API client.
	DefaultAPITimeout = 10 * time.Second
)

// ErrNoSessionSecret is returned by ValidateServer when SESSION_SECRET is unset.
var ErrNoSessionSecret = errors.New("SESSION_SECRET must be set to serve the console")

// Config holds all configuration for the application.
type Config struct {
	App           string        `validate:"required,oneof=dashboard traffic admin mmiiot plm fms"`
	APIBaseURL    string        `validate:"required,url"`
	APITimeout    time.Duration `validate:"gt=0"`
	StateDir      string        `validate:"required"`
	ServerAddr    string        `validate:"required"`
	SessionSecret string        `validate:"omitempty,min=16"`
	LogFormat     string        `validate:"oneof=text json"`
	LogLevel      string        `validate:"oneof=debug info warn error"`
	WatchSession  bool
}

// New loads configuration from environment variables, reading a .env file
// first when one exists.
func New() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}
	return FromEnv()
}

// FromEnv builds the configuration from the current environment only.
func FromEnv() (*Config, error) {
	app := getenv("APP", "admin")

	cfg := &Config{
		App:           app,
		APIBaseURL:    firstEnv(defaultBaseURL(app), "API_BASE_URL", "VITE_API_BASE_URL"),
		APITimeout:    DefaultAPITimeout,
		StateDir:      getenv("STATE_DIR", defaultStateDir(app)),
		ServerAddr:    getenv("SERVER_ADDR", ":8080"),
		SessionSecret: os.Getenv("SESSION_SECRET"),
		LogFormat:     getenv("LOG_FORMAT", "text"),
		LogLevel:      getenv("LOG_LEVEL", "info"),
	}

	if raw := os.Getenv("API_TIMEOUT"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid API_TIMEOUT %q: %w", raw, err)
		}
		cfg.APITimeout = d
	}
	if raw := os.Getenv("WATCH_SESSION"); raw != "" {
		watch, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid WATCH_SESSION %q: %w", raw, err)
		}
		cfg.WatchSession = watch
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration against its struct tags.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// ValidateServer checks the settings only the console server needs. The
// cookie session carries the bearer token, so its signing key has no
// default.
func (c *Config) ValidateServer() error {
	if c.SessionSecret == "" {
		return ErrNoSessionSecret
	}
	return c.Validate()
}

// Overrides are command-line values that take precedence over the
// environment.
type Overrides struct {
	App        string
	APIBaseURL string
	StateDir   string
}

// Apply applies o and validates the result. Switching the app re-derives
// the base URL and state directory unless the environment pinned them.
func (c *Config) Apply(o Overrides) error {
	if o.App != "" && o.App != c.App {
		c.App = o.App
		c.APIBaseURL = firstEnv(defaultBaseURL(o.App), "API_BASE_URL", "VITE_API_BASE_URL")
		c.StateDir = getenv("STATE_DIR", defaultStateDir(o.App))
	}
	if o.APIBaseURL != "" {
		c.APIBaseURL = o.APIBaseURL
	}
	if o.StateDir != "" {
		c.StateDir = o.StateDir
	}
	return c.Validate()
}

func defaultBaseURL(app string) string {
	if app == "dashboard" {
		return DashboardAPIBaseURL
	}
	return DefaultAPIBaseURL
}

func defaultStateDir(app string) string {
	base, err := os.UserConfigDir()
	if err != nil {
		base = os.TempDir()
	}
	return filepath.Join(base, "fleetconsole", app)
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func firstEnv(fallback string, keys ...string) string {
	for _, key := range keys {
		if v := os.Getenv(key); v != "" {
			return v
		}
	}
	return fallback
}
