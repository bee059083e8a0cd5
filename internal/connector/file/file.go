package file

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/crimson-sun/pagepulse/internal/connector"
	"github.com/crimson-sun/pagepulse/internal/dom"
)

func init() {
	connector.Register("file", func() connector.Connector {
		return &Connector{}
	})
}

// Connector reads HTML from the local filesystem.
type Connector struct{}

// Path converts a target (plain path or file:// URL) to a filesystem path.
func Path(target string) (string, error) {
	if !strings.HasPrefix(strings.ToLower(target), "file:") {
		return target, nil
	}
	u, err := url.Parse(target)
	if err != nil {
		return "", fmt.Errorf("file connector: %w", err)
	}
	if u.Host != "" && u.Host != "localhost" {
		return "", fmt.Errorf("file connector: remote host %q not supported", u.Host)
	}
	return u.Path, nil
}

func (c *Connector) Load(ctx context.Context, cfg connector.ConnectorConfig, target string) (*dom.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := Path(target)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("file connector: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if cfg.MaxBytes > 0 {
		r = io.LimitReader(f, cfg.MaxBytes)
	}
	doc, err := dom.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("file connector: %w", err)
	}
	return doc, nil
}
