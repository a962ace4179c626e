package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/jobportal/internal/client/locale"
	"github.com/dmitrijs2005/jobportal/internal/logging"
)

// Config holds runtime settings for the jobportal CLI.
type Config struct {
	// APIBaseURL is the backend REST root, e.g. https://api.example.com/api.
	APIBaseURL string
	// DataDir holds the local SQLite database (client.db).
	DataDir string
	// Locale, when set, replaces the stored interface language at start.
	Locale string

	CookieDomain string
	CookieTTL    time.Duration

	LogLevel  string
	LogFormat string

	S3Region    string
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
}

// LoadDefaults populates c with sensible defaults. APIBaseURL has none.
func (c *Config) LoadDefaults() {
	c.DataDir = ".jobportal"
	c.CookieTTL = 7 * 24 * time.Hour
	c.LogLevel = "warn"
	c.LogFormat = logging.FormatText
	c.S3Region = "us-east-1"
}

// LoadConfig builds a Config from defaults, the optional config file, the
// environment (and .env) and command-line flags. Later sources take
// precedence over earlier ones. The result is validated.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseFile(cfg); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate fails fast on settings the client cannot start with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.APIBaseURL) == "" {
		return errors.New("config: API_BASE_URL must be set")
	}
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || !u.IsAbs() || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("config: API_BASE_URL must be an absolute http(s) URL, got %q", c.APIBaseURL)
	}
	if c.DataDir == "" {
		return errors.New("config: DATA_DIR must be set")
	}
	if c.Locale != "" {
		if _, ok := locale.Parse(c.Locale); !ok {
			return fmt.Errorf("config: LOCALE %q is not supported", c.Locale)
		}
	}
	if c.CookieTTL <= 0 {
		return errors.New("config: COOKIE_TTL must be positive")
	}
	switch strings.ToLower(c.LogFormat) {
	case logging.FormatText, logging.FormatJSON, logging.FormatZap:
	default:
		return fmt.Errorf("config: LOG_FORMAT %q must be text, json or zap", c.LogFormat)
	}
	return nil
}

// SecureCookies reports whether cookies should carry the Secure attribute.
func (c *Config) SecureCookies() bool {
	u, err := url.Parse(c.APIBaseURL)
	return err == nil && u.Scheme == "https"
}
