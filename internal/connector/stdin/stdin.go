package stdin

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/crimson-sun/pagepulse/internal/connector"
	"github.com/crimson-sun/pagepulse/internal/dom"
)

func init() {
	connector.Register("stdin", func() connector.Connector {
		return &Connector{}
	})
}

// Connector reads a page from standard input (target "-").
type Connector struct{}

func (c *Connector) Load(ctx context.Context, cfg connector.ConnectorConfig, target string) (*dom.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r := cfg.Stdin
	if r == nil {
		r = os.Stdin
	}
	if cfg.MaxBytes > 0 {
		r = io.LimitReader(r, cfg.MaxBytes)
	}
	doc, err := dom.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("stdin connector: %w", err)
	}
	return doc, nil
}
