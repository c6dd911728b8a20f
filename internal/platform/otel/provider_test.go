package otel

import (
	"context"
	"testing"
)

func TestSetupDisabledReturnsNoop(t *testing.T) {
	t.Setenv("CHIPLINE_OTEL_ENABLED", "false")
	t.Setenv("CHIPLINE_OTEL_EXPORTER_OTLP_ENDPOINT", "http://127.0.0.1:4318")

	shutdown, err := Setup(context.Background(), "intake")
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	if shutdown == nil {
		t.Fatal("expected shutdown function")
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}

func TestSetupWithoutEndpointReturnsNoop(t *testing.T) {
	t.Setenv("CHIPLINE_OTEL_ENABLED", "")
	t.Setenv("CHIPLINE_OTEL_EXPORTER_OTLP_ENDPOINT", "")

	shutdown, err := Setup(context.Background(), "ledger")
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}
