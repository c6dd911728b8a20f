// Package catalogcheck validates a plant-maintained option catalog file
// before it is rolled out to an intake station.
package catalogcheck

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/millfloor/chipline/internal/services/intake/catalog"
)

// Config holds configuration for the catalog checker.
type Config struct {
	Path string
}

// ParseConfig parses CLI flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config

	fs.StringVar(&cfg.Path, "path", "", "option catalog YAML file to validate")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if strings.TrimSpace(cfg.Path) == "" {
		return Config{}, errors.New("path is required")
	}

	return cfg, nil
}

// Run validates the catalog file and reports what it found.
func Run(ctx context.Context, cfg Config, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if out == nil {
		out = io.Discard
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	path := strings.TrimSpace(cfg.Path)
	if path == "" {
		return errors.New("path is required")
	}

	opts, err := catalog.LoadFromFile(path)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(out, "%s: %d product(s), %d destination(s), %d purchased material(s)\n",
		path, len(opts.Products), len(opts.Destinations), len(opts.Purchased))
	return err
}
