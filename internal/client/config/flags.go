package config

import (
	"flag"
	"fmt"
	"os"

	"github.com/dmitrijs2005/jobportal/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   backend API base URL
//	-d string   data directory for the local database
//	-l string   interface language (en, hy, ru)
//
// os.Args is filtered with flagx.FilterArgs first so that -c/-config and
// unknown flags do not interfere.
func parseFlags(cfg *Config) error {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "backend API base URL")
	fs.StringVar(&cfg.DataDir, "d", cfg.DataDir, "data directory")
	fs.StringVar(&cfg.Locale, "l", cfg.Locale, "interface language (en, hy, ru)")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("config: flags: %w", err)
	}
	return nil
}
