// Package classifier turns extracted page text into emotion-labelled spans
// through a remote generative-language model.
package classifier

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/samber/lo"

	"github.com/crimson-sun/pagepulse/internal/engine/emotion"
	"github.com/crimson-sun/pagepulse/internal/model"
)

// ErrNoAPIKey is returned by providers constructed without a credential.
var ErrNoAPIKey = errors.New("classifier: no API key configured")

// Request is one classification call.
type Request struct {
	Payload string
	Mode    model.MatchMode
}

// Result is the validated model output.
type Result struct {
	Spans   []model.Span
	Summary string
}

// Classifier sends a payload to a remote model exactly once and returns the
// parsed spans.
type Classifier interface {
	Classify(ctx context.Context, req Request) (Result, error)
}

// Config holds provider settings. Zero values select provider defaults.
type Config struct {
	APIKey          string
	Model           string
	Endpoint        string
	Timeout         time.Duration
	Temperature     float64
	TopK            int
	TopP            float64
	MaxOutputTokens int
	Labels          *emotion.Set
	Limits          Limits
	Entries         int // entries the prompt asks for, at most Limits.MaxSpans
}

// WithDefaults fills the provider-independent zero fields.
func (c Config) WithDefaults() Config {
	if c.Labels == nil {
		c.Labels = emotion.Canonical()
	}
	if c.Limits == (Limits{}) {
		c.Limits = DefaultLimits()
	}
	if c.Entries <= 0 || c.Entries > c.Limits.MaxSpans {
		c.Entries = c.Limits.MaxSpans
	}
	if c.Timeout <= 0 {
		c.Timeout = 60 * time.Second
	}
	if c.MaxOutputTokens <= 0 {
		c.MaxOutputTokens = 4096
	}
	return c
}

// Constructor creates a provider from its configuration.
type Constructor func(cfg Config) (Classifier, error)

var registry = map[string]Constructor{}

// Register adds a provider constructor under the given name.
func Register(name string, ctor Constructor) {
	registry[name] = ctor
}

// Get returns the constructor for the given provider name.
func Get(name string) (Constructor, error) {
	ctor, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown classifier provider: %s", name)
	}
	return ctor, nil
}

// Providers returns the registered provider names, sorted.
func Providers() []string {
	names := lo.Keys(registry)
	slices.Sort(names)
	return names
}

// Func adapts a function to the Classifier interface.
type Func func(ctx context.Context, req Request) (Result, error)

func (f Func) Classify(ctx context.Context, req Request) (Result, error) {
	return f(ctx, req)
}
