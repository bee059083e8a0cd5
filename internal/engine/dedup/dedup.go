package dedup

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

var folder = cases.Fold()

// Normalize canonicalizes text for comparison: NFKC, case-folded, with
// whitespace runs collapsed to a single space and trimmed.
func Normalize(s string) string {
	s = folder.String(norm.NFKC.String(s))
	return strings.Join(strings.Fields(s), " ")
}

// Collapse trims s and collapses internal whitespace without changing case.
func Collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Key returns the normalized text truncated to at most prefix runes.
// A prefix of 0 or less keeps the whole normalized text.
func Key(s string, prefix int) string {
	n := Normalize(s)
	if prefix <= 0 {
		return n
	}
	return truncateRunes(n, prefix)
}

// Words splits normalized text into distinct words longer than minLen-1
// runes, dropping leading and trailing punctuation. Order of first
// occurrence is preserved.
func Words(normalized string, minLen int) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, f := range strings.Fields(normalized) {
		w := strings.TrimFunc(f, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsNumber(r)
		})
		if len([]rune(w)) < minLen {
			continue
		}
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	return out
}

// Deduplicator remembers keys already emitted within one pass.
type Deduplicator struct {
	prefix int
	seen   map[string]struct{}
}

// New creates a Deduplicator keyed on the first prefix runes of the
// normalized text (0 = whole text).
func New(prefix int) *Deduplicator {
	return &Deduplicator{prefix: prefix, seen: make(map[string]struct{})}
}

// Seen reports whether text's key was already added.
func (d *Deduplicator) Seen(text string) bool {
	_, ok := d.seen[Key(text, d.prefix)]
	return ok
}

// Add records text's key. It returns false if the key was already present.
func (d *Deduplicator) Add(text string) bool {
	k := Key(text, d.prefix)
	if _, ok := d.seen[k]; ok {
		return false
	}
	d.seen[k] = struct{}{}
	return true
}

// AddKey records a caller-built key verbatim.
func (d *Deduplicator) AddKey(key string) bool {
	if _, ok := d.seen[key]; ok {
		return false
	}
	d.seen[key] = struct{}{}
	return true
}

// Len returns the number of distinct keys recorded.
func (d *Deduplicator) Len() int {
	return len(d.seen)
}

func truncateRunes(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
