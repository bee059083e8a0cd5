package extractor

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"

	"github.com/crimson-sun/pagepulse/internal/dom"
	"github.com/crimson-sun/pagepulse/internal/engine/dedup"
	"github.com/crimson-sun/pagepulse/internal/engine/marker"
	"github.com/crimson-sun/pagepulse/internal/model"
)

// DefaultSelectors lists the content-bearing elements considered for extraction.
const DefaultSelectors = "p, h1, h2, h3, h4, h5, h6, li, td, th, a, blockquote, div, article, section, span, figcaption, dd, dt, q, cite"

// DefaultSkipTags are never descended into.
var DefaultSkipTags = []string{
	"script", "style", "noscript", "template", "meta", "head",
	"nav", "header", "footer", "svg", "iframe", "object",
}

// Config controls which elements produce segments.
type Config struct {
	Selectors  string   // CSS selector group for candidate elements
	SkipTags   []string // subtrees never visited
	MinLen     int      // minimum segment length in runes
	MaxLen     int      // maximum segment length in runes
	KeyPrefix  int      // runes of normalized text used as the dedup key
	CoverRatio float64  // skip a container this covered by one emitted descendant
	IDMode     bool     // assign element ids and prefix segment text with them
}

// DefaultConfig returns the canonical extraction window.
func DefaultConfig() Config {
	return Config{
		Selectors:  DefaultSelectors,
		SkipTags:   DefaultSkipTags,
		MinLen:     20,
		MaxLen:     2000,
		KeyPrefix:  50,
		CoverRatio: 0.8,
	}
}

// Extractor walks a document and produces the ordered, deduplicated segments
// handed to the classifier.
type Extractor struct {
	cfg        Config
	candidates cascadia.Matcher
	skip       cascadia.Matcher
}

// New compiles the configured selectors.
func New(cfg Config) (*Extractor, error) {
	if cfg.MinLen < 0 || cfg.MaxLen < cfg.MinLen {
		return nil, fmt.Errorf("extractor: invalid length window [%d, %d]", cfg.MinLen, cfg.MaxLen)
	}
	cand, err := cascadia.Compile(cfg.Selectors)
	if err != nil {
		return nil, fmt.Errorf("extractor: selectors: %w", err)
	}
	skipSel := strings.Join(cfg.SkipTags, ", ")
	var skip cascadia.Matcher = cascadia.Selector(func(*html.Node) bool { return false })
	if skipSel != "" {
		s, err := cascadia.Compile(skipSel)
		if err != nil {
			return nil, fmt.Errorf("extractor: skip tags: %w", err)
		}
		skip = s
	}
	return &Extractor{cfg: cfg, candidates: cand, skip: skip}, nil
}

// IDMode reports whether the extractor tags elements with ids.
func (e *Extractor) IDMode() bool {
	return e.cfg.IDMode
}

// WithIDMode returns a copy of e with id tagging switched on or off.
func (e *Extractor) WithIDMode(on bool) *Extractor {
	if e.cfg.IDMode == on {
		return e
	}
	c := *e
	c.cfg.IDMode = on
	return &c
}

// chrome matches elements the highlighter adds besides markers.
var chrome = cascadia.MustCompile("." + marker.TooltipClass + ", ." + marker.NotificationClass)

type emitted struct {
	node  *html.Node
	order int // preorder index, restores document order
	text  string
}

// Extract returns the page's segments in document order. It has no side
// effects except id assignment in id mode, and repeated calls before any
// highlighting return the same sequence.
func (e *Extractor) Extract(doc *dom.Document) []model.Segment {
	w := &walk{e: e, seen: dedup.New(e.cfg.KeyPrefix)}
	w.visit(doc.Body())

	out := w.out
	slices.SortFunc(out, func(a, b emitted) int { return a.order - b.order })

	segments := make([]model.Segment, len(out))
	for i, em := range out {
		seg := model.Segment{Content: em.text}
		if e.cfg.IDMode {
			seg.ElementID = assignID(em.node, i)
			seg.Content = "[" + seg.ElementID + "] " + em.text
		}
		segments[i] = seg
	}
	return segments
}

type walk struct {
	e       *Extractor
	seen    *dedup.Deduplicator
	counter int
	out     []emitted
}

// visit processes children before their parent so a container can see what
// its descendants already emitted. It returns the longest emitted text length
// (in runes) within n's subtree.
func (w *walk) visit(n *html.Node) int {
	order := w.counter
	w.counter++

	longest := 0
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || w.excluded(c) {
			continue
		}
		if l := w.visit(c); l > longest {
			longest = l
		}
	}

	if !w.e.candidates.Match(n) {
		return longest
	}

	text := dedup.Collapse(w.visibleText(n))
	length := utf8.RuneCountInString(text)
	if length < w.e.cfg.MinLen || length > w.e.cfg.MaxLen {
		return longest
	}
	if longest > 0 && float64(longest) > w.e.cfg.CoverRatio*float64(length) {
		return longest
	}
	if !w.seen.Add(text) {
		return longest
	}

	w.out = append(w.out, emitted{node: n, order: order, text: text})
	if length > longest {
		longest = length
	}
	return longest
}

func (w *walk) excluded(n *html.Node) bool {
	return w.e.skip.Match(n) || marker.Is(n) || chrome.Match(n) || hidden(n)
}

// visibleText is textContent minus skipped, hidden and marker subtrees.
func (w *walk) visibleText(n *html.Node) string {
	var sb strings.Builder
	dom.Walk(n, func(c *html.Node) bool {
		switch c.Type {
		case html.ElementNode:
			return c == n || !w.excluded(c)
		case html.TextNode:
			sb.WriteString(c.Data)
		}
		return true
	})
	return sb.String()
}

func hidden(n *html.Node) bool {
	if _, ok := dom.Attr(n, "hidden"); ok {
		return true
	}
	if v, _ := dom.Attr(n, "aria-hidden"); strings.EqualFold(v, "true") {
		return true
	}
	if n.Data == "input" {
		if v, _ := dom.Attr(n, "type"); strings.EqualFold(v, "hidden") {
			return true
		}
	}
	style, _ := dom.Attr(n, "style")
	style = strings.ToLower(strings.Join(strings.Fields(style), ""))
	return strings.Contains(style, "display:none") || strings.Contains(style, "visibility:hidden")
}

// assignID gives n a stable id unless it already has one.
func assignID(n *html.Node, index int) string {
	if id, ok := dom.Attr(n, "id"); ok && id != "" {
		return id
	}
	id := fmt.Sprintf("emotion-%s-%d", n.Data, index)
	dom.SetAttr(n, "id", id)
	return id
}

