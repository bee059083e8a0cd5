package output

import (
	"fmt"
	"strings"

	"github.com/crimson-sun/pagepulse/internal/model"
)

// Verbosity controls how much of a report reaches an output.
type Verbosity int

const (
	Minimal  Verbosity = iota // counts and outcome only
	Standard                  // adds the classified spans
	Full                      // adds the rendered page
)

func (v Verbosity) String() string {
	switch v {
	case Minimal:
		return "minimal"
	case Full:
		return "full"
	default:
		return "standard"
	}
}

// ParseVerbosity maps a config string to a Verbosity.
func ParseVerbosity(s string) (Verbosity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "minimal":
		return Minimal, nil
	case "", "standard":
		return Standard, nil
	case "full":
		return Full, nil
	default:
		return Standard, fmt.Errorf("output: unknown verbosity %q", s)
	}
}

// FormatReport returns a copy of the report with fields stripped according to verbosity.
// At Minimal: Spans and HTML are dropped. At Standard: HTML is dropped.
// At Full: all fields preserved.
func FormatReport(r model.Report, verbosity Verbosity) model.Report {
	switch verbosity {
	case Minimal:
		r.Spans = nil
		r.HTML = ""
	case Standard:
		r.HTML = ""
	}
	return r
}
