package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/jobportal/internal/flagx"
	"github.com/dmitrijs2005/jobportal/internal/timex"
	"gopkg.in/yaml.v3"
)

// fileConfig is a DTO used only for decoding config files. Durations use
// timex.Duration so they can be written as "168h" or integer nanoseconds.
type fileConfig struct {
	APIBaseURL   string         `json:"api_base_url" yaml:"api_base_url"`
	DataDir      string         `json:"data_dir" yaml:"data_dir"`
	Locale       string         `json:"locale" yaml:"locale"`
	CookieDomain string         `json:"cookie_domain" yaml:"cookie_domain"`
	CookieTTL    timex.Duration `json:"cookie_ttl" yaml:"cookie_ttl"`
	LogLevel     string         `json:"log_level" yaml:"log_level"`
	LogFormat    string         `json:"log_format" yaml:"log_format"`
	S3Region     string         `json:"s3_region" yaml:"s3_region"`
	S3Endpoint   string         `json:"s3_endpoint" yaml:"s3_endpoint"`
	S3AccessKey  string         `json:"s3_access_key" yaml:"s3_access_key"`
	S3SecretKey  string         `json:"s3_secret_key" yaml:"s3_secret_key"`
}

// parseFile overlays cfg with the file named by -c/-config, if any.
func parseFile(cfg *Config) error {
	path := flagx.ConfigFileFlag()
	if path == "" {
		return nil
	}
	return loadFile(cfg, path)
}

// loadFile decodes path as YAML (.yaml, .yml) or JSON (anything else) and
// copies the non-empty values into cfg.
func loadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	var fc fileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		return fmt.Errorf("config: decode %s: %w", path, err)
	}

	setString(&cfg.APIBaseURL, fc.APIBaseURL)
	setString(&cfg.DataDir, fc.DataDir)
	setString(&cfg.Locale, fc.Locale)
	setString(&cfg.CookieDomain, fc.CookieDomain)
	setString(&cfg.LogLevel, fc.LogLevel)
	setString(&cfg.LogFormat, fc.LogFormat)
	setString(&cfg.S3Region, fc.S3Region)
	setString(&cfg.S3Endpoint, fc.S3Endpoint)
	setString(&cfg.S3AccessKey, fc.S3AccessKey)
	setString(&cfg.S3SecretKey, fc.S3SecretKey)
	if fc.CookieTTL.Duration != 0 {
		cfg.CookieTTL = fc.CookieTTL.Duration
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
