package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := Config{
		Session:    "default",
		ErrorDelay: 1500 * time.Millisecond,
		Store:      "none",
		StateDir:   ".calculatorx",
		QueueSize:  64,
	}
	if cfg != want {
		t.Fatalf("got %+v, want %+v", cfg, want)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("CALC_SESSION", " desk ")
	t.Setenv("CALC_ERROR_DELAY", "2s")
	t.Setenv("CALC_STORE", "SQLite")
	t.Setenv("CALC_STATE_DIR", "/var/lib/calc")
	t.Setenv("CALC_QUEUE_SIZE", "8")
	t.Setenv("CALC_VERBOSE", "true")
	t.Setenv("CALC_MCP_HTTP_ADDR", ":8088")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := Config{
		Session:     "desk",
		ErrorDelay:  2 * time.Second,
		Store:       "sqlite",
		StateDir:    "/var/lib/calc",
		QueueSize:   8,
		Verbose:     true,
		MCPHTTPAddr: ":8088",
	}
	if cfg != want {
		t.Fatalf("got %+v, want %+v", cfg, want)
	}
}

func TestParseEnvError(t *testing.T) {
	t.Setenv("CALC_QUEUE_SIZE", "lots")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name, key, value string
	}{
		{"blank session", "CALC_SESSION", "  "},
		{"zero delay", "CALC_ERROR_DELAY", "0s"},
		{"negative queue", "CALC_QUEUE_SIZE", "-1"},
		{"unknown store", "CALC_STORE", "redis"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%q", tt.key, tt.value)
			}
		})
	}
}

func TestLoadStoreNeedsDir(t *testing.T) {
	t.Setenv("CALC_STORE", "json")
	t.Setenv("CALC_STATE_DIR", "   ")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for empty state dir")
	}
}
