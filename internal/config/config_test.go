package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"PAGEPULSE_PROVIDER", "PAGEPULSE_MODEL", "PAGEPULSE_API_KEY", "PAGEPULSE_TIMEOUT",
		"PAGEPULSE_ID_MODE", "PAGEPULSE_MAX_MARKERS", "PAGEPULSE_OVERLAP_RATIO",
		"PAGEPULSE_VERBOSITY", "PAGEPULSE_ADDR", "PAGEPULSE_NOTIFY",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.Classifier.Provider != "gemini" {
		t.Fatalf("expected default provider 'gemini', got %q", cfg.Classifier.Provider)
	}
	if cfg.Classifier.APIKey != "" {
		t.Fatalf("expected empty APIKey, got %q", cfg.Classifier.APIKey)
	}
	if cfg.Classifier.Timeout != 60*time.Second {
		t.Errorf("timeout = %v, want 60s", cfg.Classifier.Timeout)
	}
	if cfg.Extract.IDMode {
		t.Error("id mode should default to off")
	}
	if cfg.Highlight.MaxMarkers != 20 || cfg.Highlight.MinWords != 3 || cfg.Highlight.OverlapRatio != 0.6 {
		t.Errorf("highlight defaults = %+v", cfg.Highlight)
	}
	if !cfg.Highlight.Notify {
		t.Error("notify should default to on")
	}
	if cfg.Output.Verbosity != "standard" {
		t.Errorf("verbosity = %q", cfg.Output.Verbosity)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("PAGEPULSE_PROVIDER", "openai")
	t.Setenv("PAGEPULSE_MODEL", "gpt-4o")
	t.Setenv("PAGEPULSE_TIMEOUT", "15s")
	t.Setenv("PAGEPULSE_ID_MODE", "true")
	t.Setenv("PAGEPULSE_MAX_MARKERS", "5")
	t.Setenv("PAGEPULSE_OVERLAP_RATIO", "0.75")
	t.Setenv("PAGEPULSE_PRETTY", "1")
	t.Setenv("PAGEPULSE_RATE_PER_MINUTE", "120")

	cfg := Load()

	if cfg.Classifier.Provider != "openai" || cfg.Classifier.Model != "gpt-4o" {
		t.Errorf("classifier = %+v", cfg.Classifier)
	}
	if cfg.Classifier.Timeout != 15*time.Second {
		t.Errorf("timeout = %v, want 15s", cfg.Classifier.Timeout)
	}
	if !cfg.Extract.IDMode {
		t.Error("expected id mode on")
	}
	if cfg.Highlight.MaxMarkers != 5 || cfg.Highlight.OverlapRatio != 0.75 {
		t.Errorf("highlight = %+v", cfg.Highlight)
	}
	if !cfg.Output.Pretty {
		t.Error("expected pretty output")
	}
	if cfg.Server.RatePerMinute != 120 {
		t.Errorf("rate = %v, want 120", cfg.Server.RatePerMinute)
	}
}

func TestLoad_BadValuesFallBack(t *testing.T) {
	t.Setenv("PAGEPULSE_TIMEOUT", "soon")
	t.Setenv("PAGEPULSE_MAX_MARKERS", "many")
	t.Setenv("PAGEPULSE_ID_MODE", "perhaps")

	cfg := Load()

	if cfg.Classifier.Timeout != 60*time.Second {
		t.Errorf("timeout = %v, want fallback 60s", cfg.Classifier.Timeout)
	}
	if cfg.Highlight.MaxMarkers != 20 {
		t.Errorf("max markers = %d, want fallback 20", cfg.Highlight.MaxMarkers)
	}
	if cfg.Extract.IDMode {
		t.Error("unparseable bool should fall back to false")
	}
}

// --- Validate tests ---

func validConfig(t *testing.T) Config {
	t.Helper()
	return Config{
		Classifier: ClassifierConfig{Provider: "gemini", Timeout: time.Minute, MinSpanLen: 10, MaxSpanLen: 300, MaxSpans: 100},
		Extract:    ExtractConfig{MinLen: 20, MaxLen: 2000, Budget: 20000},
		Highlight:  HighlightConfig{MaxMarkers: 20, MinWords: 3, OverlapRatio: 0.6},
		Output:     OutputConfig{Verbosity: "standard"},
		Server:     ServerConfig{Addr: ":8787", RatePerMinute: 30, Burst: 5},
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	cfg := validConfig(t)
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected nil error for valid config, got: %v", err)
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"inverted span window", func(c *Config) { c.Classifier.MinSpanLen = 400 }, "span length"},
		{"inverted segment window", func(c *Config) { c.Extract.MaxLen = 5 }, "segment length"},
		{"zero timeout", func(c *Config) { c.Classifier.Timeout = 0 }, "timeout"},
		{"ratio above one", func(c *Config) { c.Highlight.OverlapRatio = 1.5 }, "overlap ratio"},
		{"no markers", func(c *Config) { c.Highlight.MaxMarkers = 0 }, "max markers"},
		{"bad verbosity", func(c *Config) { c.Output.Verbosity = "verbose" }, "verbosity"},
		{"bad webhook", func(c *Config) { c.Output.WebhookURL = "ftp://x" }, "PAGEPULSE_WEBHOOK_URL"},
		{"empty provider", func(c *Config) { c.Classifier.Provider = "" }, "PAGEPULSE_PROVIDER"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig(t)
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error to mention %q, got: %v", tt.want, err)
			}
		})
	}
}

func TestValidate_MultipleErrors(t *testing.T) {
	cfg := validConfig(t)
	cfg.Highlight.OverlapRatio = -0.1
	cfg.Output.Verbosity = "loud"
	cfg.Extract.Budget = 0
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for multiple bad fields")
	}
	msg := err.Error()
	for _, want := range []string{"overlap ratio", "verbosity", "payload budget"} {
		if !strings.Contains(msg, want) {
			t.Errorf("expected error to mention %q, got: %v", want, msg)
		}
	}
}

func TestGetenvInt(t *testing.T) {
	tests := []struct {
		name     string
		envVal   string
		fallback int
		want     int
	}{
		{"empty uses fallback", "", 1000, 1000},
		{"valid int", "500", 1000, 500},
		{"zero", "0", 1000, 0},
		{"invalid falls back", "abc", 1000, 1000},
		{"negative", "-1", 1000, -1},
	}

	const key = "PAGEPULSE_TEST_GETENVINT"
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(key, tt.envVal)
			if got := getenvInt(key, tt.fallback); got != tt.want {
				t.Errorf("getenvInt(%q) = %d, want %d", tt.envVal, got, tt.want)
			}
		})
	}
}

func TestVersion_IsSet(t *testing.T) {
	if Version == "" {
		t.Fatal("Version must not be empty")
	}
}
