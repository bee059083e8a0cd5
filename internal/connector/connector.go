package connector

import (
	"context"
	"io"
	"time"

	"github.com/crimson-sun/pagepulse/internal/dom"
)

// Connector defines the interface all page sources must implement.
type Connector interface {
	// Load fetches target and parses it into a document.
	Load(ctx context.Context, cfg ConnectorConfig, target string) (*dom.Document, error)
}

// ConnectorConfig holds settings shared by all page sources.
type ConnectorConfig struct {
	Timeout   time.Duration
	UserAgent string
	MaxBytes  int64     // upper bound on bytes read from any source
	Stdin     io.Reader // used by the stdin source; nil means os.Stdin
}
