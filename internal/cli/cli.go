package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"

	"astcmp/internal/settings"
)

// Config holds the resolved configuration for one comparison run. Both roots
// are absolute by the time the core pipeline sees them; the core never reads
// flags, environment or settings files itself.
type Config struct {
	OriginalRoot string
	ModifiedRoot string
	Subdirs      []string
	Debug        bool
	Verbose      bool
	Jobs         int
}

// Normalize makes both roots absolute and fills in defaults. It is called by
// ParseFlags and by library users constructing a Config by hand.
func (c *Config) Normalize() error {
	orig, err := filepath.Abs(c.OriginalRoot)
	if err != nil {
		return fmt.Errorf("invalid original root '%s': %w", c.OriginalRoot, err)
	}
	mod, err := filepath.Abs(c.ModifiedRoot)
	if err != nil {
		return fmt.Errorf("invalid modified root '%s': %w", c.ModifiedRoot, err)
	}
	c.OriginalRoot, c.ModifiedRoot = orig, mod

	if len(c.Subdirs) == 0 {
		c.Subdirs = []string{"tests"}
	}
	if c.Jobs < 1 {
		c.Jobs = 1
	}
	return nil
}

// ParseFlags defines and parses command-line flags using pflag, merges
// defaults from a .astcmp.yaml in the working directory, and validates the
// two positional root arguments.
func ParseFlags(args []string) (*Config, error) {
	cfg := &Config{}

	flags := pflag.NewFlagSet("astcmp", pflag.ContinueOnError)
	flags.StringSliceVarP(&cfg.Subdirs, "subdir", "s", nil, "Subdirectory to scan under the original root (repeatable, default: tests).")
	flags.BoolVarP(&cfg.Debug, "debug", "d", false, "Persist syntax trees and diff lists for divergent pairs.")
	flags.BoolVarP(&cfg.Verbose, "verbose", "v", false, "Print progress information.")
	flags.IntVarP(&cfg.Jobs, "jobs", "j", 0, "Number of file pairs to compare concurrently (default: 1).")

	flags.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: astcmp [flags] <original-root> <modified-root>")
		fmt.Fprintln(os.Stderr, "\nCompare the JavaScript syntax trees of two source trees, ignoring")
		fmt.Fprintln(os.Stderr, "formatting and source positions.")
		fmt.Fprintln(os.Stderr, "\nExample: astcmp -s tests original/ reformatted/")
		fmt.Fprintln(os.Stderr, "\nFlags:")
		flags.PrintDefaults()
	}

	if err := flags.Parse(args); err != nil {
		return nil, err
	}

	s, err := settings.Load(".")
	if err != nil {
		return nil, err
	}
	applySettings(cfg, flags, s)

	if flags.NArg() != 2 {
		flags.Usage()
		return nil, fmt.Errorf("expected two root directories, got %d argument(s)", flags.NArg())
	}
	cfg.OriginalRoot = flags.Arg(0)
	cfg.ModifiedRoot = flags.Arg(1)

	if err := cfg.Normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applySettings fills cfg from the settings file for every flag the user did
// not set explicitly.
func applySettings(cfg *Config, flags *pflag.FlagSet, s *settings.Settings) {
	if s == nil {
		return
	}
	if !flags.Changed("subdir") && len(s.Subdirs) > 0 {
		cfg.Subdirs = s.Subdirs
	}
	if !flags.Changed("debug") && s.Debug != nil {
		cfg.Debug = *s.Debug
	}
	if !flags.Changed("verbose") && s.Verbose != nil {
		cfg.Verbose = *s.Verbose
	}
	if !flags.Changed("jobs") && s.Jobs > 0 {
		cfg.Jobs = s.Jobs
	}
}
