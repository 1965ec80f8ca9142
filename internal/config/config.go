package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is built once at startup and shared read-only by every component.
type Config struct {
	ProjectName string `env:"PROJECT_NAME" envDefault:"pose-backend"`
	Version     string `env:"VERSION"      envDefault:"dev"`

	HTTPAddr    string   `env:"HTTP_ADDR"    envDefault:":8080"`
	FrontendURL string   `env:"FRONTEND_URL" envDefault:"http://localhost:7010"`
	CORSOrigins []string `env:"CORS_ORIGINS" envDefault:"http://localhost:7010" envSeparator:","`

	DatabaseURL string `env:"DATABASE_URL" envDefault:"pose.db?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on"`

	JWTSecret      string        `env:"JWT_SECRET"`
	JWTAlgorithm   string        `env:"JWT_ALGORITHM" envDefault:"HS256"`
	TokenExpireMin int           `env:"ACCESS_TOKEN_EXPIRE_MINUTES" envDefault:"10080"`
	OAuthTimeout   time.Duration `env:"OAUTH_TIMEOUT" envDefault:"10s"`
	CookieSecure   bool          `env:"COOKIE_SECURE" envDefault:"false"`

	Google GoogleConfig

	LogLevel  string `env:"LOG_LEVEL"  envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"console"`
}

type GoogleConfig struct {
	ClientID     string `env:"GOOGLE_CLIENT_ID"`
	ClientSecret string `env:"GOOGLE_CLIENT_SECRET"`
	RedirectURI  string `env:"GOOGLE_REDIRECT_URI"`
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.FrontendURL = strings.TrimRight(strings.TrimSpace(cfg.FrontendURL), "/")
	cfg.CORSOrigins = trimCSV(cfg.CORSOrigins)
	cfg.JWTAlgorithm = strings.ToUpper(strings.TrimSpace(cfg.JWTAlgorithm))
	return &cfg, nil
}

// TokenTTL is the validity window of issued access tokens.
func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.TokenExpireMin) * time.Minute
}

// Validate reports every missing or malformed setting needed to serve traffic.
func (c *Config) Validate() error {
	var errs []error
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	switch c.JWTAlgorithm {
	case "HS256", "HS384", "HS512":
	default:
		errs = append(errs, fmt.Errorf("JWT_ALGORITHM %q is not supported", c.JWTAlgorithm))
	}
	if c.TokenExpireMin <= 0 {
		errs = append(errs, errors.New("ACCESS_TOKEN_EXPIRE_MINUTES must be positive"))
	}
	if c.Google.ClientID == "" {
		errs = append(errs, errors.New("GOOGLE_CLIENT_ID is required"))
	}
	if c.Google.ClientSecret == "" {
		errs = append(errs, errors.New("GOOGLE_CLIENT_SECRET is required"))
	}
	if c.Google.RedirectURI == "" {
		errs = append(errs, errors.New("GOOGLE_REDIRECT_URI is required"))
	}
	if c.FrontendURL == "" {
		errs = append(errs, errors.New("FRONTEND_URL is required"))
	}
	return errors.Join(errs...)
}

// trimCSV removes empty entries from a string slice.
func trimCSV(values []string) []string {
	result := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v != "" {
			result = append(result, v)
		}
	}
	return result
}
