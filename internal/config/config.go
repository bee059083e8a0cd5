package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Version is set at build time via -ldflags.
var Version = "dev"

// Config holds all pagepulse configuration.
type Config struct {
	Classifier ClassifierConfig
	Source     SourceConfig
	Extract    ExtractConfig
	Highlight  HighlightConfig
	Output     OutputConfig
	Server     ServerConfig
	LogLevel   string
}

// ClassifierConfig selects and tunes the remote classifier.
type ClassifierConfig struct {
	Provider   string
	Model      string
	APIKey     string // empty means resolve from the keyring
	Endpoint   string
	Timeout    time.Duration
	MinSpanLen int
	MaxSpanLen int
	MaxSpans   int
}

// SourceConfig holds page-loading settings.
type SourceConfig struct {
	Timeout   time.Duration
	UserAgent string
	MaxBytes  int64
}

// ExtractConfig holds extraction settings.
type ExtractConfig struct {
	IDMode bool
	MinLen int
	MaxLen int
	Budget int // payload budget in runes
}

// HighlightConfig holds matching thresholds.
type HighlightConfig struct {
	MaxMarkers   int
	MinWords     int
	OverlapRatio float64
	Notify       bool
}

// OutputConfig holds report destination settings.
type OutputConfig struct {
	Verbosity  string // "minimal", "standard", "full"
	Pretty     bool
	ReportPath string // NDJSON report log, empty disables it
	WebhookURL string
}

// ServerConfig holds HTTP service settings.
type ServerConfig struct {
	Addr            string
	RatePerMinute   float64
	Burst           int
	ShutdownTimeout time.Duration
}

// Load reads configuration from PAGEPULSE_* environment variables with
// sensible defaults.
func Load() Config {
	return Config{
		Classifier: ClassifierConfig{
			Provider:   getenv("PAGEPULSE_PROVIDER", "gemini"),
			Model:      os.Getenv("PAGEPULSE_MODEL"),
			APIKey:     os.Getenv("PAGEPULSE_API_KEY"),
			Endpoint:   os.Getenv("PAGEPULSE_ENDPOINT"),
			Timeout:    getenvDuration("PAGEPULSE_TIMEOUT", 60*time.Second),
			MinSpanLen: getenvInt("PAGEPULSE_MIN_SPAN_LEN", 10),
			MaxSpanLen: getenvInt("PAGEPULSE_MAX_SPAN_LEN", 300),
			MaxSpans:   getenvInt("PAGEPULSE_MAX_SPANS", 100),
		},
		Source: SourceConfig{
			Timeout:   getenvDuration("PAGEPULSE_FETCH_TIMEOUT", 30*time.Second),
			UserAgent: os.Getenv("PAGEPULSE_USER_AGENT"),
			MaxBytes:  int64(getenvInt("PAGEPULSE_MAX_PAGE_BYTES", 10<<20)),
		},
		Extract: ExtractConfig{
			IDMode: getenvBool("PAGEPULSE_ID_MODE", false),
			MinLen: getenvInt("PAGEPULSE_MIN_SEGMENT_LEN", 20),
			MaxLen: getenvInt("PAGEPULSE_MAX_SEGMENT_LEN", 2000),
			Budget: getenvInt("PAGEPULSE_PAYLOAD_BUDGET", 20000),
		},
		Highlight: HighlightConfig{
			MaxMarkers:   getenvInt("PAGEPULSE_MAX_MARKERS", 20),
			MinWords:     getenvInt("PAGEPULSE_MIN_WORDS", 3),
			OverlapRatio: getenvFloat("PAGEPULSE_OVERLAP_RATIO", 0.6),
			Notify:       getenvBool("PAGEPULSE_NOTIFY", true),
		},
		Output: OutputConfig{
			Verbosity:  getenv("PAGEPULSE_VERBOSITY", "standard"),
			Pretty:     getenvBool("PAGEPULSE_PRETTY", false),
			ReportPath: os.Getenv("PAGEPULSE_REPORT_LOG"),
			WebhookURL: os.Getenv("PAGEPULSE_WEBHOOK_URL"),
		},
		Server: ServerConfig{
			Addr:            getenv("PAGEPULSE_ADDR", "127.0.0.1:8787"),
			RatePerMinute:   getenvFloat("PAGEPULSE_RATE_PER_MINUTE", 30),
			Burst:           getenvInt("PAGEPULSE_BURST", 5),
			ShutdownTimeout: getenvDuration("PAGEPULSE_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		LogLevel: getenv("PAGEPULSE_LOG_LEVEL", "info"),
	}
}

// Validate checks the configuration for inconsistent values. All problems
// are reported together.
func (c Config) Validate() error {
	var errs []error

	if c.Classifier.Provider == "" {
		errs = append(errs, errors.New("PAGEPULSE_PROVIDER must not be empty"))
	}
	if c.Classifier.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("classifier timeout must be positive, got %v", c.Classifier.Timeout))
	}
	if c.Classifier.MinSpanLen < 0 || c.Classifier.MaxSpanLen < c.Classifier.MinSpanLen {
		errs = append(errs, fmt.Errorf("span length window [%d, %d] is invalid",
			c.Classifier.MinSpanLen, c.Classifier.MaxSpanLen))
	}
	if c.Extract.MinLen < 0 || c.Extract.MaxLen < c.Extract.MinLen {
		errs = append(errs, fmt.Errorf("segment length window [%d, %d] is invalid",
			c.Extract.MinLen, c.Extract.MaxLen))
	}
	if c.Extract.Budget <= 0 {
		errs = append(errs, fmt.Errorf("payload budget must be positive, got %d", c.Extract.Budget))
	}
	if c.Highlight.MaxMarkers <= 0 {
		errs = append(errs, fmt.Errorf("max markers must be positive, got %d", c.Highlight.MaxMarkers))
	}
	if c.Highlight.OverlapRatio <= 0 || c.Highlight.OverlapRatio > 1 {
		errs = append(errs, fmt.Errorf("overlap ratio must be in (0, 1], got %v", c.Highlight.OverlapRatio))
	}
	switch c.Output.Verbosity {
	case "minimal", "standard", "full":
	default:
		errs = append(errs, fmt.Errorf("verbosity must be minimal, standard or full, got %q", c.Output.Verbosity))
	}
	if c.Output.WebhookURL != "" && !strings.HasPrefix(c.Output.WebhookURL, "http://") &&
		!strings.HasPrefix(c.Output.WebhookURL, "https://") {
		errs = append(errs, fmt.Errorf("PAGEPULSE_WEBHOOK_URL must be an http(s) URL, got %q", c.Output.WebhookURL))
	}
	if c.Server.RatePerMinute < 0 || c.Server.Burst < 0 {
		errs = append(errs, errors.New("server rate and burst must not be negative"))
	}

	return errors.Join(errs...)
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getenvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func getenvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
