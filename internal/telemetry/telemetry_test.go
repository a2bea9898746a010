package telemetry

import (
	"context"
	"testing"
)

func TestInitWithoutEndpointIsDisabled(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")

	shutdown, err := Init(context.Background(), "abrengine", "test-instance")
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if shutdown == nil {
		t.Fatal("shutdown func is nil")
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("noop shutdown: %v", err)
	}
}

func TestSampleRate(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
	}{
		{"", defaultSampleRate},
		{"0", 0},
		{"1", 1},
		{"0.25", 0.25},
		{"-0.5", defaultSampleRate},
		{"1.5", defaultSampleRate},
		{"always", defaultSampleRate},
		{"  0.5  ", 0.5},
	}
	for _, tt := range tests {
		t.Setenv("OTEL_TRACE_SAMPLE_RATE", tt.raw)
		if got := sampleRate(); got != tt.want {
			t.Errorf("sampleRate with %q = %v, want %v", tt.raw, got, tt.want)
		}
	}
}
