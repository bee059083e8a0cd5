package connector

import (
	"context"
	"fmt"
	"net/url"
	"slices"
	"strings"

	"github.com/samber/lo"

	"github.com/crimson-sun/pagepulse/internal/dom"
)

// Constructor is a function that creates a new Connector instance.
type Constructor func() Connector

var registry = map[string]Constructor{}

// Register adds a connector constructor under the given scheme.
func Register(scheme string, ctor Constructor) {
	registry[scheme] = ctor
}

// Get returns the connector constructor for the given scheme.
func Get(scheme string) (Constructor, error) {
	ctor, ok := registry[scheme]
	if !ok {
		return nil, fmt.Errorf("unknown page source: %s", scheme)
	}
	return ctor, nil
}

// Providers returns the registered schemes, sorted.
func Providers() []string {
	names := lo.Keys(registry)
	slices.Sort(names)
	return names
}

// Scheme maps a target to the source that handles it: "-" is stdin, http and
// https URLs go to the web source, everything else is a file path.
func Scheme(target string) string {
	if target == "-" {
		return "stdin"
	}
	if u, err := url.Parse(target); err == nil && u.Scheme != "" && len(u.Scheme) > 1 {
		return strings.ToLower(u.Scheme)
	}
	return "file"
}

// Open rejects restricted targets, then loads target with the matching source.
func Open(ctx context.Context, cfg ConnectorConfig, target string) (*dom.Document, error) {
	if err := CheckTarget(target); err != nil {
		return nil, err
	}
	ctor, err := Get(Scheme(target))
	if err != nil {
		return nil, err
	}
	return ctor().Load(ctx, cfg, target)
}
