// Package ledger wires configuration and lifecycle for the ledger command.
package ledger

import (
	"context"
	"flag"
	"fmt"

	platformcmd "github.com/millfloor/chipline/internal/platform/cmd"
	"github.com/millfloor/chipline/internal/services/ledger"
)

// Config holds the ledger command configuration.
type Config struct {
	HTTPAddr    string `env:"CHIPLINE_LEDGER_ADDR" envDefault:":8091"`
	SheetPath   string `env:"CHIPLINE_LEDGER_SHEET_PATH" envDefault:"data/chip-records.csv"`
	JournalPath string `env:"CHIPLINE_LEDGER_JOURNAL_DB_PATH" envDefault:"data/ledger-journal.db"`
	Timezone    string `env:"CHIPLINE_LEDGER_TIMEZONE"`
}

// ParseConfig reads environment defaults and applies flag overrides.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := platformcmd.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP listen address")
	fs.StringVar(&cfg.SheetPath, "sheet-path", cfg.SheetPath, "CSV sheet path")
	fs.StringVar(&cfg.JournalPath, "journal-db-path", cfg.JournalPath, "journal store path")
	fs.StringVar(&cfg.Timezone, "timezone", cfg.Timezone, "IANA zone for the date and time stamps (machine zone when empty)")
	if err := platformcmd.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the ledger server with telemetry configured.
func Run(ctx context.Context, cfg Config) error {
	return platformcmd.RunWithTelemetry(ctx, platformcmd.ServiceLedger, func(ctx context.Context) error {
		server, err := ledger.NewServer(ctx, ledger.Config{
			HTTPAddr:    cfg.HTTPAddr,
			SheetPath:   cfg.SheetPath,
			JournalPath: cfg.JournalPath,
			Timezone:    cfg.Timezone,
		})
		if err != nil {
			return fmt.Errorf("init ledger server: %w", err)
		}
		defer server.Close()

		if err := server.ListenAndServe(ctx); err != nil {
			return fmt.Errorf("serve ledger: %w", err)
		}
		return nil
	})
}
