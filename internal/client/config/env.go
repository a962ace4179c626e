package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/spf13/viper"
)

// envFile is read before the environment when present. Real environment
// variables win over it.
var envFile = ".env"

// parseEnv overlays cfg with environment variables. Only variables that are
// set (in the environment or the .env file) replace earlier values.
func parseEnv(cfg *Config) error {
	v := viper.New()

	v.SetConfigFile(envFile)
	v.SetConfigType("env")
	if err := v.ReadInConfig(); err != nil && !missingFile(err) {
		return fmt.Errorf("config: read %s: %w", envFile, err)
	}

	v.AutomaticEnv()

	str := func(key string, dst *string) {
		if v.IsSet(key) {
			*dst = v.GetString(key)
		}
	}

	str("API_BASE_URL", &cfg.APIBaseURL)
	str("DATA_DIR", &cfg.DataDir)
	str("LOCALE", &cfg.Locale)
	str("COOKIE_DOMAIN", &cfg.CookieDomain)
	str("LOG_LEVEL", &cfg.LogLevel)
	str("LOG_FORMAT", &cfg.LogFormat)
	str("S3_REGION", &cfg.S3Region)
	str("S3_ENDPOINT", &cfg.S3Endpoint)
	str("S3_ACCESS_KEY", &cfg.S3AccessKey)
	str("S3_SECRET_KEY", &cfg.S3SecretKey)

	if v.IsSet("COOKIE_TTL") {
		raw := v.GetString("COOKIE_TTL")
		d, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("config: COOKIE_TTL %q: %w", raw, err)
		}
		cfg.CookieTTL = d
	}
	return nil
}

// missingFile reports whether err only says that the .env file is absent.
func missingFile(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.Is(err, fs.ErrNotExist) || errors.As(err, &notFound)
}
