// Package config loads runtime configuration for the jobportal CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file selected with -c or -config. Files ending in
//     .yaml or .yml are decoded as YAML, everything else as JSON.
//  3. Environment variables, with an optional .env file in the working
//     directory underneath them (viper).
//  4. Command-line flags, which override everything else.
//
// Supported flags
//
//	-a string   backend API base URL
//	-d string   data directory
//	-l string   interface language
//
// Environment
//
//	API_BASE_URL, DATA_DIR, LOCALE, COOKIE_DOMAIN, COOKIE_TTL,
//	LOG_LEVEL, LOG_FORMAT, S3_REGION, S3_ENDPOINT, S3_ACCESS_KEY, S3_SECRET_KEY
//
// # File schema
//
// Durations can be strings like "168h" or integer nanoseconds:
//
//	{
//	  "api_base_url": "https://api.example.com/api",
//	  "data_dir": "/home/me/.jobportal",
//	  "cookie_ttl": "168h",
//	  "log_format": "zap"
//	}
//
// The API base URL has no default; LoadConfig fails when it is missing.
package config
