package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/crimson-sun/pagepulse/internal/connector"
	"github.com/crimson-sun/pagepulse/internal/dom"
	"github.com/crimson-sun/pagepulse/internal/engine"
	"github.com/crimson-sun/pagepulse/internal/model"
	"github.com/crimson-sun/pagepulse/internal/output"
)

// MinPayload is the smallest trimmed payload, in runes, worth classifying.
const MinPayload = 50

// Stage names a step of an analysis run.
type Stage string

const (
	StageExtracting   Stage = "extracting"
	StageClassifying  Stage = "classifying"
	StageHighlighting Stage = "highlighting"
	StageDone         Stage = "done"
)

// StatusFunc receives progress for the user-facing status line.
type StatusFunc func(stage Stage, message string)

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithStatus sets the progress callback.
func WithStatus(fn StatusFunc) Option {
	return func(p *Pipeline) { p.status = fn }
}

// WithSourceConfig sets the settings passed to page sources.
func WithSourceConfig(cfg connector.ConnectorConfig) Option {
	return func(p *Pipeline) { p.source = cfg }
}

// WithMinPayload overrides MinPayload.
func WithMinPayload(n int) Option {
	return func(p *Pipeline) { p.minPayload = n }
}

// Pipeline connects page sources, the engine and an output into one
// analysis run per target.
type Pipeline struct {
	engine     *engine.Engine
	output     output.Output
	source     connector.ConnectorConfig
	status     StatusFunc
	minPayload int
	inflight   *semaphore.Weighted
}

// New creates a Pipeline. out may be nil when the caller only wants the
// returned reports.
func New(eng *engine.Engine, out output.Output, opts ...Option) *Pipeline {
	p := &Pipeline{
		engine:     eng,
		output:     out,
		minPayload: MinPayload,
		inflight:   semaphore.NewWeighted(1),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Analyze loads target and runs extract, classify and highlight on it.
// The report is returned and written to the output even when the run fails;
// the error is the run's terminal error, if any.
func (p *Pipeline) Analyze(ctx context.Context, target string) (model.Report, error) {
	if !p.inflight.TryAcquire(1) {
		return p.finish(ctx, p.newReport(target), ErrBusy, nil)
	}
	defer p.inflight.Release(1)

	r := p.newReport(target)
	if err := connector.CheckTarget(target); err != nil {
		return p.finish(ctx, r, err, nil)
	}
	p.notify(StageExtracting, "Extracting page content...")
	doc, err := connector.Open(ctx, p.source, target)
	if err != nil {
		return p.finish(ctx, r, fmt.Errorf("pipeline load: %w", err), nil)
	}
	return p.analyze(ctx, r, doc)
}

// AnalyzeDocument runs an analysis on an already parsed page. doc is
// highlighted in place. label names the page in the report.
func (p *Pipeline) AnalyzeDocument(ctx context.Context, label string, doc *dom.Document) (model.Report, error) {
	if !p.inflight.TryAcquire(1) {
		return p.finish(ctx, p.newReport(label), ErrBusy, nil)
	}
	defer p.inflight.Release(1)

	p.notify(StageExtracting, "Extracting page content...")
	return p.analyze(ctx, p.newReport(label), doc)
}

func (p *Pipeline) analyze(ctx context.Context, r model.Report, doc *dom.Document) (model.Report, error) {
	log := slog.With("run_id", r.RunID, "target", r.Target)

	ext := p.engine.Extract(doc)
	r.Segments = len(ext.Segments)
	r.PayloadLen = utf8.RuneCountInString(ext.Payload)
	log.Debug("extracted", "stage", StageExtracting, "segments", r.Segments,
		"payload_len", r.PayloadLen, "truncated", ext.Truncated)
	if utf8.RuneCountInString(strings.TrimSpace(ext.Payload)) < p.minPayload {
		return p.finish(ctx, r, ErrExtractionEmpty, nil)
	}

	p.notify(StageClassifying, "Analyzing emotions with AI...")
	res, err := p.engine.Classify(ctx, ext.Payload)
	if err != nil {
		return p.finish(ctx, r, err, nil)
	}
	r.Summary = res.Summary
	r.Spans = res.Spans
	log.Debug("classified", "stage", StageClassifying, "spans", len(res.Spans))

	p.notify(StageHighlighting, "Applying highlights to page...")
	r.Highlighted = p.engine.Highlight(doc, res.Spans)
	log.Debug("highlighted", "stage", StageHighlighting, "marked", r.Highlighted)

	switch {
	case len(res.Spans) == 0:
		r.Outcome = model.OutcomeWarning
		r.Message = "No clear emotions detected in the page content."
	case r.Highlighted == 0:
		r.Outcome = model.OutcomeWarning
		r.Message = "Analysis complete but no text could be highlighted. Try a different page."
	default:
		r.Outcome = model.OutcomeSuccess
		r.Message = fmt.Sprintf("Analysis complete! Highlighted %d emotion sections.", r.Highlighted)
	}
	return p.finish(ctx, r, nil, doc)
}

// Clear loads target and removes every marker from it.
func (p *Pipeline) Clear(ctx context.Context, target string) (model.Report, error) {
	r := p.newReport(target)
	doc, err := connector.Open(ctx, p.source, target)
	if err != nil {
		return p.finish(ctx, r, fmt.Errorf("pipeline load: %w", err), nil)
	}
	return p.ClearDocument(ctx, target, doc)
}

// ClearDocument removes every marker from an already parsed page.
func (p *Pipeline) ClearDocument(ctx context.Context, label string, doc *dom.Document) (model.Report, error) {
	r := p.newReport(label)
	r.Cleared = p.engine.Clear(doc)
	r.Outcome = model.OutcomeSuccess
	r.Message = "All highlights cleared successfully"
	slog.Debug("cleared", "run_id", r.RunID, "target", label, "removed", r.Cleared)
	return p.finish(ctx, r, nil, doc)
}

// Close shuts down the output.
func (p *Pipeline) Close() error {
	if p.output == nil {
		return nil
	}
	return p.output.Close()
}

func (p *Pipeline) newReport(target string) model.Report {
	return model.Report{
		RunID:     uuid.NewString(),
		Target:    target,
		Mode:      p.engine.Mode(),
		StartedAt: time.Now().UTC(),
	}
}

// finish stamps the report, renders doc into it, and writes it to the
// output. runErr becomes the report's error outcome.
func (p *Pipeline) finish(ctx context.Context, r model.Report, runErr error, doc *dom.Document) (model.Report, error) {
	if runErr != nil {
		r.Outcome = model.OutcomeError
		r.ErrorKind = Kind(runErr)
		r.Message = Message(runErr)
		slog.Warn("analysis failed", "run_id", r.RunID, "target", r.Target,
			"kind", r.ErrorKind, "error", runErr)
	}
	if doc != nil {
		html, err := doc.HTML()
		if err != nil {
			runErr = errors.Join(runErr, fmt.Errorf("pipeline render: %w", err))
		}
		r.HTML = html
	}
	r.Duration = time.Since(r.StartedAt)

	if runErr == nil {
		p.notify(StageDone, r.Message)
	}
	if p.output != nil {
		if err := p.output.Write(ctx, r); err != nil {
			runErr = errors.Join(runErr, fmt.Errorf("pipeline output: %w", err))
		}
	}
	return r, runErr
}

func (p *Pipeline) notify(stage Stage, message string) {
	if p.status != nil {
		p.status(stage, message)
	}
}
