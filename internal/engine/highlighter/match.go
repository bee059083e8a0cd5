package highlighter

import (
	"math"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"

	"github.com/crimson-sun/pagepulse/internal/engine/dedup"
)

// exactScore puts any containment match above every word-overlap score.
const exactScore = 1 << 20

type candidate struct {
	node       *html.Node
	normalized string
	used       bool
}

// query is a span prepared for matching against many text nodes.
type query struct {
	text      string // normalized span text
	prefix    string // first PrefixLen runes, empty when text is not longer
	words     []string
	threshold int
}

func (h *Highlighter) newQuery(spanText string) query {
	q := query{text: dedup.Normalize(spanText)}
	if h.cfg.PrefixLen > 0 && utf8.RuneCountInString(q.text) > h.cfg.PrefixLen {
		q.prefix = string([]rune(q.text)[:h.cfg.PrefixLen])
	}
	q.words = dedup.Words(q.text, h.cfg.MinWordLen)
	q.threshold = max(h.cfg.MinWords, int(math.Ceil(h.cfg.OverlapRatio*float64(len(q.words)))))
	return q
}

// score rates how well a node's normalized text matches q. Zero means no
// match.
func (q query) score(node string) int {
	if q.text == "" || node == "" {
		return 0
	}
	if strings.Contains(node, q.text) {
		return exactScore + utf8.RuneCountInString(q.text)
	}
	if q.prefix != "" && strings.Contains(node, q.prefix) {
		return exactScore + utf8.RuneCountInString(q.prefix)
	}
	count := 0
	for _, w := range q.words {
		if strings.Contains(node, w) {
			count++
		}
	}
	if count == 0 || count < q.threshold {
		return 0
	}
	return count
}

// best returns the highest scoring candidate, first seen on ties.
func (q query) best(cands []candidate) (*candidate, int) {
	var (
		top   *candidate
		score int
	)
	for i := range cands {
		if cands[i].used {
			continue
		}
		if s := q.score(cands[i].normalized); s > score {
			top, score = &cands[i], s
		}
	}
	return top, score
}
