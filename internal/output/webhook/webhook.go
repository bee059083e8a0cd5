package webhook

import (
	"context"
	"fmt"
	"time"

	"github.com/crimson-sun/pagepulse/internal/connector/httpclient"
	"github.com/crimson-sun/pagepulse/internal/model"
	"github.com/crimson-sun/pagepulse/internal/output"
)

const defaultTimeout = 10 * time.Second

// Option configures a webhook Output.
type Option func(*Output)

// WithHeaders sets custom HTTP headers sent with every POST.
func WithHeaders(h map[string]string) Option {
	return func(o *Output) { o.headers = h }
}

// WithTimeout sets the HTTP client timeout. Default: 10s.
func WithTimeout(d time.Duration) Option {
	return func(o *Output) { o.timeout = d }
}

// WithVerbosity sets which report fields are posted. Default: Standard.
func WithVerbosity(v output.Verbosity) Option {
	return func(o *Output) { o.verbosity = v }
}

// Output POSTs each report as a JSON object to an HTTP endpoint. One attempt
// per report; failures are returned to the caller.
type Output struct {
	url       string
	headers   map[string]string
	timeout   time.Duration
	verbosity output.Verbosity
	client    *httpclient.Client
}

// New creates a webhook output targeting the given URL.
func New(url string, opts ...Option) *Output {
	o := &Output{
		url:       url,
		timeout:   defaultTimeout,
		verbosity: output.Standard,
	}
	for _, opt := range opts {
		opt(o)
	}
	copts := []httpclient.Option{httpclient.WithTimeout(o.timeout)}
	for k, v := range o.headers {
		copts = append(copts, httpclient.WithHeader(k, v))
	}
	o.client = httpclient.New("", copts...)
	return o
}

func (o *Output) Write(ctx context.Context, report model.Report) error {
	if _, err := o.client.PostJSON(ctx, o.url, output.FormatReport(report, o.verbosity)); err != nil {
		return fmt.Errorf("webhook: %w", err)
	}
	return nil
}

func (o *Output) Close() error {
	return nil
}
