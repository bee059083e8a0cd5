package model

import "time"

// Outcome is the terminal state of one analysis run.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeWarning Outcome = "warning"
	OutcomeError   Outcome = "error"
)

// Report is the result of one analysis run.
type Report struct {
	RunID       string        `json:"run_id"`
	Target      string        `json:"target"`
	Mode        MatchMode     `json:"mode"`
	Outcome     Outcome       `json:"outcome"`
	Message     string        `json:"message"`
	ErrorKind   string        `json:"error_kind,omitempty"`
	Segments    int           `json:"segments"`
	PayloadLen  int           `json:"payload_len"`
	Summary     string        `json:"summary,omitempty"`      // free-text summary from the model, if any
	Spans       []Span        `json:"spans,omitempty"`        // dropped at minimal verbosity
	Highlighted int           `json:"highlighted"`            // spans successfully marked
	Cleared     int           `json:"cleared,omitempty"`      // markers removed by a clear run
	HTML        string        `json:"html,omitempty"`         // rendered page, full verbosity only
	StartedAt   time.Time     `json:"started_at"`
	Duration    time.Duration `json:"duration_ns"`
}
