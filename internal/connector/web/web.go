package web

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/crimson-sun/pagepulse/internal/connector"
	"github.com/crimson-sun/pagepulse/internal/connector/httpclient"
	"github.com/crimson-sun/pagepulse/internal/dom"
)

const defaultUserAgent = "pagepulse/1.0 (+https://github.com/crimson-sun/pagepulse)"

func init() {
	for _, scheme := range []string{"http", "https"} {
		connector.Register(scheme, func() connector.Connector {
			return &Connector{}
		})
	}
}

// Connector fetches a page over HTTP(S) with a single GET.
type Connector struct{}

func (c *Connector) Load(ctx context.Context, cfg connector.ConnectorConfig, target string) (*dom.Document, error) {
	ua := cfg.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}
	opts := []httpclient.Option{
		httpclient.WithHeader("User-Agent", ua),
		httpclient.WithHeader("Accept", "text/html,application/xhtml+xml"),
	}
	if cfg.Timeout > 0 {
		opts = append(opts, httpclient.WithTimeout(cfg.Timeout))
	}
	if cfg.MaxBytes > 0 {
		opts = append(opts, httpclient.WithMaxBody(cfg.MaxBytes))
	}

	start := time.Now()
	body, err := httpclient.New("", opts...).Get(ctx, target, nil)
	if err != nil {
		return nil, fmt.Errorf("web connector: %w", err)
	}
	slog.Debug("page fetched", "target", target, "bytes", len(body), "elapsed", time.Since(start))

	doc, err := dom.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("web connector: %w", err)
	}
	return doc, nil
}
