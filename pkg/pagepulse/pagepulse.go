package pagepulse

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/crimson-sun/pagepulse/internal/credential"
	"github.com/crimson-sun/pagepulse/internal/dom"
	"github.com/crimson-sun/pagepulse/internal/engine"
	"github.com/crimson-sun/pagepulse/internal/engine/emotion"
	"github.com/crimson-sun/pagepulse/internal/model"
	"github.com/crimson-sun/pagepulse/internal/pipeline"

	// Register classifier providers.
	_ "github.com/crimson-sun/pagepulse/internal/engine/classifier/gemini"
	_ "github.com/crimson-sun/pagepulse/internal/engine/classifier/openai"
)

// ErrBusy is returned by Analyze while another analysis is running.
var ErrBusy = pipeline.ErrBusy

// ErrExtractionEmpty is returned when a page has too little text to classify.
var ErrExtractionEmpty = pipeline.ErrExtractionEmpty

// Pagepulse extracts, classifies and highlights emotional passages in HTML.
type Pagepulse struct {
	engine   *engine.Engine
	pipeline *pipeline.Pipeline
}

// New creates a Pagepulse instance. It does not contact the provider.
func New(opts ...Option) (*Pagepulse, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	s := engine.DefaultSettings()
	s.Provider = o.provider
	s.Extractor.IDMode = o.idMode
	s.Highlighter.Notify = o.notify
	if o.maxMarkers > 0 {
		s.Highlighter.MaxMarkers = o.maxMarkers
	}
	if o.minWords > 0 {
		s.Highlighter.MinWords = o.minWords
	}
	if o.overlapRatio > 0 {
		s.Highlighter.OverlapRatio = o.overlapRatio
	}
	if o.budget > 0 {
		s.Budget = o.budget
	}
	s.Classifier.Model = o.model
	s.Classifier.Endpoint = o.endpoint
	s.Classifier.Timeout = o.timeout
	s.Classifier.APIKey = o.apiKey
	if s.Classifier.APIKey == "" {
		key, src, err := credential.Resolve(o.provider)
		switch {
		case err == nil:
			s.Classifier.APIKey = key
			slog.Debug("api key resolved", "provider", o.provider, "source", src)
		case !errors.Is(err, credential.ErrNotFound):
			slog.Warn("api key lookup failed", "provider", o.provider, "error", err)
		}
	}

	eng, err := engine.Build(s)
	if err != nil {
		return nil, fmt.Errorf("pagepulse: %w", err)
	}
	return &Pagepulse{engine: eng, pipeline: pipeline.New(eng, nil)}, nil
}

// Extract returns the text that would be sent to the classifier.
func (p *Pagepulse) Extract(html string) (Extraction, error) {
	doc, err := dom.ParseString(html)
	if err != nil {
		return Extraction{}, fmt.Errorf("pagepulse: %w", err)
	}
	ext := p.engine.Extract(doc)
	out := Extraction{Text: ext.Payload, Segments: ext.Segments, Truncated: ext.Truncated}
	if p.engine.Mode() == model.MatchID {
		if out.HTML, err = doc.HTML(); err != nil {
			return Extraction{}, fmt.Errorf("pagepulse: %w", err)
		}
	}
	return out, nil
}

// Highlight marks spans in html and returns the new page and the number of
// markers created. Existing markers are replaced.
func (p *Pagepulse) Highlight(html string, spans []Span) (string, int, error) {
	doc, err := dom.ParseString(html)
	if err != nil {
		return "", 0, fmt.Errorf("pagepulse: %w", err)
	}
	n := p.engine.Highlight(doc, spans)
	out, err := doc.HTML()
	if err != nil {
		return "", 0, fmt.Errorf("pagepulse: %w", err)
	}
	return out, n, nil
}

// Clear removes every marker from html and returns the restored page and the
// number of markers removed.
func (p *Pagepulse) Clear(html string) (string, int, error) {
	doc, err := dom.ParseString(html)
	if err != nil {
		return "", 0, fmt.Errorf("pagepulse: %w", err)
	}
	n := p.engine.Clear(doc)
	out, err := doc.HTML()
	if err != nil {
		return "", 0, fmt.Errorf("pagepulse: %w", err)
	}
	return out, n, nil
}

// Analyze runs extract, classify and highlight on html with a single
// classifier call. On failure the Result still carries the outcome, kind and
// message alongside the returned error.
func (p *Pagepulse) Analyze(ctx context.Context, html string) (Result, error) {
	doc, err := dom.ParseString(html)
	if err != nil {
		return Result{}, fmt.Errorf("pagepulse: %w", err)
	}
	r, err := p.pipeline.AnalyzeDocument(ctx, "inline", doc)
	return resultFromReport(r), err
}

// Labels returns the emotion set in prompt order.
func (p *Pagepulse) Labels() []Label {
	labels := emotion.Canonical().Labels()
	out := make([]Label, len(labels))
	for i, l := range labels {
		out[i] = Label{Name: l.Name, Description: l.Desc, Background: l.Background, Border: l.Border}
	}
	return out
}

// Close releases resources. It is safe to call more than once.
func (p *Pagepulse) Close() error {
	return p.pipeline.Close()
}
