package pagepulse

import (
	"time"

	"github.com/crimson-sun/pagepulse/internal/model"
)

// Span is one classified passage: Text in text-matching mode, ElementID in
// id-tagging mode.
type Span = model.Span

// Segment is one unit of extracted page text.
type Segment = model.Segment

// Emotion names a label of the closed emotion set.
type Emotion = model.Emotion

// Result is the outcome of one analysis. This is the stable public type;
// internal reports may evolve independently.
type Result struct {
	RunID       string        `json:"run_id"`
	Outcome     string        `json:"outcome"` // success, warning or error
	Message     string        `json:"message"` // human-readable status line
	ErrorKind   string        `json:"error_kind,omitempty"`
	Summary     string        `json:"summary,omitempty"`
	Spans       []Span        `json:"spans,omitempty"`
	Highlighted int           `json:"highlighted"`
	HTML        string        `json:"html,omitempty"` // page with markers applied
	Duration    time.Duration `json:"duration_ns"`
}

// Extraction is the text handed to the classifier.
type Extraction struct {
	Text      string    // segments joined with newlines, cut to the payload budget
	Segments  []Segment // in document order
	Truncated bool
	HTML      string // the page with assigned ids; set in id mode only
}

// Label describes one emotion and its marker colors.
type Label struct {
	Name        Emotion `json:"name"`
	Description string  `json:"description"`
	Background  string  `json:"background"`
	Border      string  `json:"border"`
}

func resultFromReport(r model.Report) Result {
	return Result{
		RunID:       r.RunID,
		Outcome:     string(r.Outcome),
		Message:     r.Message,
		ErrorKind:   r.ErrorKind,
		Summary:     r.Summary,
		Spans:       r.Spans,
		Highlighted: r.Highlighted,
		HTML:        r.HTML,
		Duration:    r.Duration,
	}
}
