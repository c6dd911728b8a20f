package intake

import (
	"flag"
	"testing"
	"time"
)

func TestParseConfigDefaults(t *testing.T) {
	t.Parallel()

	fs := flag.NewFlagSet("intake", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	if cfg.HTTPAddr != ":8090" {
		t.Fatalf("HTTPAddr = %q, want %q", cfg.HTTPAddr, ":8090")
	}
	if cfg.DraftDBPath != "data/intake-drafts.db" {
		t.Fatalf("DraftDBPath = %q, want %q", cfg.DraftDBPath, "data/intake-drafts.db")
	}
	if cfg.LedgerTimeout != 5*time.Second {
		t.Fatalf("LedgerTimeout = %v, want %v", cfg.LedgerTimeout, 5*time.Second)
	}
	if cfg.ClearDelay != 3*time.Second {
		t.Fatalf("ClearDelay = %v, want %v", cfg.ClearDelay, 3*time.Second)
	}
	if cfg.LedgerURL != "" {
		t.Fatalf("LedgerURL = %q, want empty origin-derived default", cfg.LedgerURL)
	}
	if cfg.TrustForwardedProto {
		t.Fatalf("TrustForwardedProto = %t, want false", cfg.TrustForwardedProto)
	}
}

func TestParseConfigReadsEnvironment(t *testing.T) {
	t.Setenv("CHIPLINE_INTAKE_ADDR", ":9090")
	t.Setenv("CHIPLINE_INTAKE_LEDGER_URL", "http://ledger.plant.lan:8091")
	t.Setenv("CHIPLINE_INTAKE_LEDGER_TIMEOUT", "10s")
	t.Setenv("CHIPLINE_INTAKE_TRUST_FORWARDED_PROTO", "true")

	fs := flag.NewFlagSet("intake", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	if cfg.HTTPAddr != ":9090" {
		t.Fatalf("HTTPAddr = %q, want %q", cfg.HTTPAddr, ":9090")
	}
	if cfg.LedgerURL != "http://ledger.plant.lan:8091" {
		t.Fatalf("LedgerURL = %q, want env value", cfg.LedgerURL)
	}
	if cfg.LedgerTimeout != 10*time.Second {
		t.Fatalf("LedgerTimeout = %v, want %v", cfg.LedgerTimeout, 10*time.Second)
	}
	if !cfg.TrustForwardedProto {
		t.Fatalf("TrustForwardedProto = %t, want true", cfg.TrustForwardedProto)
	}
}

func TestParseConfigFlagOverridesEnvironment(t *testing.T) {
	t.Setenv("CHIPLINE_INTAKE_ADDR", ":9090")

	fs := flag.NewFlagSet("intake", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"-http-addr", "127.0.0.1:9002"})
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	if cfg.HTTPAddr != "127.0.0.1:9002" {
		t.Fatalf("HTTPAddr = %q, want %q", cfg.HTTPAddr, "127.0.0.1:9002")
	}
}

func TestParseConfigOverrideClearDelay(t *testing.T) {
	t.Parallel()

	fs := flag.NewFlagSet("intake", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"-clear-delay", "5s"})
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	if cfg.ClearDelay != 5*time.Second {
		t.Fatalf("ClearDelay = %v, want %v", cfg.ClearDelay, 5*time.Second)
	}
}
