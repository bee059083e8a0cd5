package engine

import (
	"context"

	"github.com/crimson-sun/pagepulse/internal/dom"
	"github.com/crimson-sun/pagepulse/internal/engine/classifier"
	"github.com/crimson-sun/pagepulse/internal/engine/compactor"
	"github.com/crimson-sun/pagepulse/internal/engine/extractor"
	"github.com/crimson-sun/pagepulse/internal/engine/highlighter"
	"github.com/crimson-sun/pagepulse/internal/model"
)

// Engine orchestrates the extract → classify → highlight stages.
type Engine struct {
	extractor   *extractor.Extractor
	compactor   *compactor.Compactor
	classifier  classifier.Classifier
	highlighter *highlighter.Highlighter
}

// Extraction is the output of the extract stage.
type Extraction struct {
	Segments  []model.Segment
	Payload   string // segments joined and cut to the compactor budget
	Truncated bool
}

// New creates an Engine with the provided components. cls may be nil for
// engines that only extract, highlight and clear.
func New(ext *extractor.Extractor, cmp *compactor.Compactor, cls classifier.Classifier, hl *highlighter.Highlighter) *Engine {
	return &Engine{
		extractor:   ext,
		compactor:   cmp,
		classifier:  cls,
		highlighter: hl,
	}
}

// Mode reports how classified spans are matched back into the page.
func (e *Engine) Mode() model.MatchMode {
	if e.extractor.IDMode() {
		return model.MatchID
	}
	return model.MatchText
}

// WithMode returns an Engine sharing e's components but matching in mode.
func (e *Engine) WithMode(mode model.MatchMode) *Engine {
	c := *e
	c.extractor = e.extractor.WithIDMode(mode == model.MatchID)
	return &c
}

// Extract clears any markers left by an earlier pass, then collects the
// page's segments and builds the classifier payload. In id mode it tags the
// extracted elements in doc.
func (e *Engine) Extract(doc *dom.Document) Extraction {
	e.highlighter.Clear(doc)
	segs := e.extractor.Extract(doc)
	payload, truncated := e.compactor.Compact(segs)
	return Extraction{Segments: segs, Payload: payload, Truncated: truncated}
}

// Classify sends payload to the classifier once.
func (e *Engine) Classify(ctx context.Context, payload string) (classifier.Result, error) {
	if e.classifier == nil {
		return classifier.Result{}, classifier.ErrNoAPIKey
	}
	return e.classifier.Classify(ctx, classifier.Request{Payload: payload, Mode: e.Mode()})
}

// Highlight marks spans in doc and returns the number of markers created.
func (e *Engine) Highlight(doc *dom.Document, spans []model.Span) int {
	return e.highlighter.Apply(doc, spans)
}

// Clear removes all markers from doc.
func (e *Engine) Clear(doc *dom.Document) int {
	return e.highlighter.Clear(doc)
}
