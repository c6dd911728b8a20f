package catalogcheck

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeCatalogFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "options.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write catalog: %v", err)
	}
	return path
}

func TestParseConfigRequiresPath(t *testing.T) {
	fs := flag.NewFlagSet("catalog-check", flag.ContinueOnError)
	_, err := ParseConfig(fs, nil)
	if err == nil {
		t.Fatal("expected error when path is missing")
	}
	if !strings.Contains(err.Error(), "path is required") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestParseConfigReadsPathFlag(t *testing.T) {
	fs := flag.NewFlagSet("catalog-check", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"-path", "plant-options.yaml"})
	if err != nil {
		t.Fatalf("ParseConfig returned error: %v", err)
	}
	if cfg.Path != "plant-options.yaml" {
		t.Fatalf("expected path plant-options.yaml, got %q", cfg.Path)
	}
}

func TestRunReportsCatalogCounts(t *testing.T) {
	path := writeCatalogFile(t, `
products:
  - Resin-X
  - Resin-Y
destinations:
  - Extruder A
purchased:
  - Recycled PET
  - Virgin Pellets
`)

	var out bytes.Buffer
	if err := Run(context.Background(), Config{Path: path}, &out); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	report := out.String()
	for _, want := range []string{"2 product(s)", "1 destination(s)", "2 purchased material(s)"} {
		if !strings.Contains(report, want) {
			t.Fatalf("expected report to mention %q, got %q", want, report)
		}
	}
}

func TestRunRejectsDuplicateEntries(t *testing.T) {
	path := writeCatalogFile(t, `
products:
  - Resin-X
  - Resin-X
destinations:
  - Extruder A
purchased:
  - Recycled PET
`)

	err := Run(context.Background(), Config{Path: path}, nil)
	if err == nil {
		t.Fatal("expected error for duplicate product")
	}
	if !strings.Contains(err.Error(), "duplicate entry") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRunRejectsMissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "absent.yaml")
	err := Run(context.Background(), Config{Path: missing}, nil)
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !strings.Contains(err.Error(), "read option catalog") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRunHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Run(ctx, Config{Path: "options.yaml"}, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
