// Package highlighter marks classified spans in a parsed page and removes
// those marks again.
package highlighter

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"

	"github.com/crimson-sun/pagepulse/internal/dom"
	"github.com/crimson-sun/pagepulse/internal/engine/dedup"
	"github.com/crimson-sun/pagepulse/internal/engine/emotion"
	"github.com/crimson-sun/pagepulse/internal/engine/marker"
	"github.com/crimson-sun/pagepulse/internal/model"
)

// skipText excludes text that must never be wrapped.
var skipText = cascadia.MustCompile(strings.Join([]string{
	"script", "style", "noscript", "template", "nav", "header", "footer",
	"." + marker.Class, "." + marker.TooltipClass, "." + marker.NotificationClass,
}, ", "))

var cleanup = cascadia.MustCompile("." + marker.TooltipClass + ", ." + marker.NotificationClass)

// Config tunes matching and capping.
type Config struct {
	MaxMarkers   int     // markers created per pass
	MinWords     int     // minimum overlapping words for a fuzzy match
	OverlapRatio float64 // fraction of span words that must overlap
	MinWordLen   int     // words shorter than this (in runes) are ignored
	PrefixLen    int     // runes of a long span tried as a containment prefix
	Notify       bool    // append a notification banner after a pass
	Labels       *emotion.Set
}

// DefaultConfig returns the standard thresholds.
func DefaultConfig() Config {
	return Config{
		MaxMarkers:   20,
		MinWords:     3,
		OverlapRatio: 0.6,
		MinWordLen:   3,
		PrefixLen:    50,
		Notify:       true,
	}
}

// Highlighter applies and clears markers.
type Highlighter struct {
	cfg    Config
	labels *emotion.Set
}

// New creates a Highlighter. Zero-valued fields fall back to the defaults.
func New(cfg Config) *Highlighter {
	def := DefaultConfig()
	if cfg.MaxMarkers <= 0 {
		cfg.MaxMarkers = def.MaxMarkers
	}
	if cfg.MinWords <= 0 {
		cfg.MinWords = def.MinWords
	}
	if cfg.OverlapRatio <= 0 {
		cfg.OverlapRatio = def.OverlapRatio
	}
	if cfg.MinWordLen <= 0 {
		cfg.MinWordLen = def.MinWordLen
	}
	if cfg.PrefixLen <= 0 {
		cfg.PrefixLen = def.PrefixLen
	}
	labels := cfg.Labels
	if labels == nil {
		labels = emotion.Canonical()
	}
	return &Highlighter{cfg: cfg, labels: labels}
}

// Apply clears previous markers, then marks up to MaxMarkers spans. Spans
// with an ElementID color that element; otherwise the best matching text node
// is wrapped. It returns the number of markers created.
func (h *Highlighter) Apply(doc *dom.Document, spans []model.Span) int {
	h.Clear(doc)
	if len(spans) == 0 {
		return 0
	}
	ensureStylesheet(doc)

	body := doc.Body()
	cands := h.candidates(body)
	seen := dedup.New(0)
	count := 0

	for _, sp := range spans {
		if count >= h.cfg.MaxMarkers {
			break
		}
		key := spanKey(sp)
		if key == "" || !seen.AddKey(key) {
			continue
		}
		label := h.labels.Lookup(h.labels.Normalize(string(sp.Emotion)))

		if sp.ElementID != "" {
			if el := dom.FindByID(body, sp.ElementID); el != nil && !marker.Inside(el) && !hasMarker(el) {
				markElement(el, label)
				retire(cands, el)
				count++
				continue
			}
		}
		if sp.Text == "" {
			slog.Debug("highlighter: element not found", "id", sp.ElementID)
			continue
		}
		top, _ := h.newQuery(sp.Text).best(cands)
		if top == nil {
			slog.Debug("highlighter: no match", "text", truncate(sp.Text, 40))
			continue
		}
		top.used = true
		wrapText(top.node, label)
		count++
	}

	if h.cfg.Notify && count > 0 {
		notify(body, count)
	}
	return count
}

// Clear removes every marker, tooltip and notification from doc and returns
// the number of markers removed. Text is restored verbatim.
func (h *Highlighter) Clear(doc *dom.Document) int {
	root := doc.Root()
	var markers, extras []*html.Node
	dom.Walk(root, func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return true
		}
		if marker.Is(n) {
			markers = append(markers, n)
		} else if cleanup.Match(n) {
			extras = append(extras, n)
			return false
		}
		return true
	})
	for _, n := range markers {
		if dom.HasClass(n, marker.ElementClass) {
			restoreElement(n)
		} else {
			dom.Unwrap(n)
		}
	}
	for _, n := range extras {
		dom.Remove(n)
	}
	return len(markers)
}

func (h *Highlighter) candidates(body *html.Node) []candidate {
	var out []candidate
	for _, n := range dom.TextNodes(body, skipText) {
		norm := dedup.Normalize(n.Data)
		if norm == "" {
			continue
		}
		out = append(out, candidate{node: n, normalized: norm})
	}
	return out
}

// hasMarker reports whether el contains a marker below it.
func hasMarker(el *html.Node) bool {
	found := false
	dom.Walk(el, func(n *html.Node) bool {
		if n != el && n.Type == html.ElementNode && marker.Is(n) {
			found = true
		}
		return !found
	})
	return found
}

// retire takes the text under a colored element out of the running.
func retire(cands []candidate, el *html.Node) {
	for i := range cands {
		for p := cands[i].node.Parent; p != nil; p = p.Parent {
			if p == el {
				cands[i].used = true
				break
			}
		}
	}
}

func spanKey(sp model.Span) string {
	if sp.ElementID != "" {
		return "#" + sp.ElementID
	}
	return dedup.Normalize(sp.Text)
}

func wrapText(n *html.Node, l emotion.Label) {
	span := dom.NewElement("span",
		html.Attribute{Key: "class", Val: marker.Class},
		html.Attribute{Key: marker.AttrEmotion, Val: string(l.Name)},
		html.Attribute{Key: marker.AttrLabel, Val: l.Display()},
		html.Attribute{Key: "title", Val: l.Display()},
		html.Attribute{Key: "style", Val: markerStyle(l)},
	)
	dom.Wrap(n, span)
}

func markElement(el *html.Node, l emotion.Label) {
	if v, ok := dom.Attr(el, "class"); ok {
		dom.SetAttr(el, marker.AttrRestoreClass, v)
	} else {
		dom.SetAttr(el, marker.AttrNoClass, "")
	}
	style, ok := dom.Attr(el, "style")
	if ok {
		dom.SetAttr(el, marker.AttrRestoreStyle, style)
	} else {
		dom.SetAttr(el, marker.AttrNoStyle, "")
	}
	dom.AddClass(el, marker.Class)
	dom.AddClass(el, marker.ElementClass)
	dom.SetAttr(el, marker.AttrEmotion, string(l.Name))
	dom.SetAttr(el, marker.AttrLabel, l.Display())
	if style = strings.TrimSpace(style); style != "" && !strings.HasSuffix(style, ";") {
		style += ";"
	}
	dom.SetAttr(el, "style", strings.TrimSpace(style+" "+markerStyle(l)))
}

func restoreElement(el *html.Node) {
	if v, ok := dom.Attr(el, marker.AttrRestoreClass); ok {
		dom.SetAttr(el, "class", v)
	} else {
		dom.RemoveAttr(el, "class")
	}
	if v, ok := dom.Attr(el, marker.AttrRestoreStyle); ok {
		dom.SetAttr(el, "style", v)
	} else {
		dom.RemoveAttr(el, "style")
	}
	for _, k := range []string{
		marker.AttrEmotion, marker.AttrLabel,
		marker.AttrRestoreClass, marker.AttrRestoreStyle,
		marker.AttrNoClass, marker.AttrNoStyle,
	} {
		dom.RemoveAttr(el, k)
	}
}

func markerStyle(l emotion.Label) string {
	return fmt.Sprintf("background-color: %s; border-left: 3px solid %s; color: %s; border-radius: 3px;",
		l.Background, l.Border, emotion.ContrastColor(l.Background))
}

// ensureStylesheet injects the marker stylesheet once per document.
func ensureStylesheet(doc *dom.Document) {
	if dom.FindByID(doc.Root(), marker.StyleID) != nil {
		return
	}
	parent := doc.Head()
	if parent == nil {
		parent = doc.Body()
	}
	style := dom.NewElement("style", html.Attribute{Key: "id", Val: marker.StyleID})
	style.AppendChild(dom.NewText(marker.Stylesheet()))
	parent.AppendChild(style)
}

func notify(body *html.Node, count int) {
	noun := "passages"
	if count == 1 {
		noun = "passage"
	}
	banner := dom.NewElement("div",
		html.Attribute{Key: "class", Val: marker.NotificationClass},
		html.Attribute{Key: "role", Val: "status"},
	)
	banner.AppendChild(dom.NewText(fmt.Sprintf("Highlighted %d emotional %s", count, noun)))
	body.AppendChild(banner)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
