package config

import (
	"strings"
	"testing"
)

type envTestConfig struct {
	Addr string `env:"CHIPLINE_TEST_ADDR" envDefault:":7070"`
	Wait int    `env:"CHIPLINE_TEST_WAIT" envDefault:"5"`
}

func TestParseEnvDefaults(t *testing.T) {
	var cfg envTestConfig

	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Addr != ":7070" {
		t.Fatalf("addr = %q, want %q", cfg.Addr, ":7070")
	}
	if cfg.Wait != 5 {
		t.Fatalf("wait = %d, want 5", cfg.Wait)
	}
}

func TestParseEnvOverride(t *testing.T) {
	var cfg envTestConfig
	t.Setenv("CHIPLINE_TEST_ADDR", "127.0.0.1:9000")

	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Addr != "127.0.0.1:9000" {
		t.Fatalf("addr = %q, want %q", cfg.Addr, "127.0.0.1:9000")
	}
}

func TestParseEnvError(t *testing.T) {
	var cfg envTestConfig
	t.Setenv("CHIPLINE_TEST_WAIT", "not-an-int")

	err := ParseEnv(&cfg)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}
