package compactor

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/crimson-sun/pagepulse/internal/model"
)

// DefaultBudget is the payload size, in runes, handed to the classifier.
const DefaultBudget = 20000

// Compactor joins extracted segments into the classifier payload and keeps it
// within the remote API's input budget.
type Compactor struct {
	Budget int // max payload runes; 0 or less disables truncation
}

// New creates a Compactor with the given rune budget.
func New(budget int) *Compactor {
	return &Compactor{Budget: budget}
}

// Compact joins segment contents with newlines and truncates the result to
// the budget. truncated reports whether anything was cut.
func (c *Compactor) Compact(segments []model.Segment) (payload string, truncated bool) {
	var sb strings.Builder
	for i, s := range segments {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(s.Content)
	}
	joined := sb.String()
	if c.Budget <= 0 || utf8.RuneCountInString(joined) <= c.Budget {
		return joined, false
	}
	return truncate(joined, c.Budget), true
}

// truncate cuts s to maxRunes runes and appends "...".
func truncate(s string, maxRunes int) string {
	i := 0
	for pos := range s {
		if i == maxRunes {
			return s[:pos] + "..."
		}
		i++
	}
	return s
}

// EstimateTokens returns an approximate token count using a whitespace heuristic.
// Splits on whitespace, applies a 1.3x subword expansion factor (rounded up).
// Good enough for logging how much of the model's input window a page uses.
func EstimateTokens(s string) int {
	if s == "" {
		return 0
	}
	words := len(strings.Fields(s))
	return int(math.Ceil(float64(words) * 1.3))
}
