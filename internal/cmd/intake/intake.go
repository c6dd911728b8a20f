// Package intake wires configuration and lifecycle for the intake command.
package intake

import (
	"context"
	"flag"
	"fmt"
	"time"

	platformcmd "github.com/millfloor/chipline/internal/platform/cmd"
	"github.com/millfloor/chipline/internal/services/intake"
)

// Config holds the intake command configuration.
type Config struct {
	HTTPAddr            string        `env:"CHIPLINE_INTAKE_ADDR" envDefault:":8090"`
	DraftDBPath         string        `env:"CHIPLINE_INTAKE_DRAFT_DB_PATH" envDefault:"data/intake-drafts.db"`
	LedgerURL           string        `env:"CHIPLINE_INTAKE_LEDGER_URL"`
	LedgerTimeout       time.Duration `env:"CHIPLINE_INTAKE_LEDGER_TIMEOUT" envDefault:"5s"`
	ClearDelay          time.Duration `env:"CHIPLINE_INTAKE_CLEAR_DELAY" envDefault:"3s"`
	CatalogPath         string        `env:"CHIPLINE_INTAKE_CATALOG_PATH"`
	TrustForwardedProto bool          `env:"CHIPLINE_INTAKE_TRUST_FORWARDED_PROTO"`
}

// ParseConfig reads environment defaults and applies flag overrides.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := platformcmd.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP listen address")
	fs.StringVar(&cfg.DraftDBPath, "draft-db-path", cfg.DraftDBPath, "draft store path")
	fs.StringVar(&cfg.LedgerURL, "ledger-url", cfg.LedgerURL, "ledger base URL override")
	fs.DurationVar(&cfg.LedgerTimeout, "ledger-timeout", cfg.LedgerTimeout, "ledger request timeout")
	fs.DurationVar(&cfg.ClearDelay, "clear-delay", cfg.ClearDelay, "saved-record display window")
	fs.StringVar(&cfg.CatalogPath, "catalog-path", cfg.CatalogPath, "option catalog override file")
	fs.BoolVar(&cfg.TrustForwardedProto, "trust-forwarded-proto", cfg.TrustForwardedProto, "trust X-Forwarded-Proto from the front proxy")
	if err := platformcmd.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the intake server with telemetry configured.
func Run(ctx context.Context, cfg Config) error {
	return platformcmd.RunWithTelemetry(ctx, platformcmd.ServiceIntake, func(ctx context.Context) error {
		server, err := intake.NewServer(ctx, intake.Config{
			HTTPAddr:            cfg.HTTPAddr,
			DraftDBPath:         cfg.DraftDBPath,
			LedgerURL:           cfg.LedgerURL,
			LedgerTimeout:       cfg.LedgerTimeout,
			ClearDelay:          cfg.ClearDelay,
			CatalogPath:         cfg.CatalogPath,
			TrustForwardedProto: cfg.TrustForwardedProto,
		})
		if err != nil {
			return fmt.Errorf("init intake server: %w", err)
		}
		defer server.Close()

		if err := server.ListenAndServe(ctx); err != nil {
			return fmt.Errorf("serve intake: %w", err)
		}
		return nil
	})
}
