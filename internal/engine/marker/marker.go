// Package marker holds the DOM conventions shared by the extractor and the
// highlighter: class names, attributes and the injected stylesheet.
package marker

import (
	"fmt"
	"strings"
	"sync"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"

	"github.com/crimson-sun/pagepulse/internal/dom"
	"github.com/crimson-sun/pagepulse/internal/engine/emotion"
)

const (
	Class             = "emotion-highlight"
	ElementClass      = "emotion-highlight-element" // set on elements colored in id mode
	TooltipClass      = "emotion-tooltip"
	NotificationClass = "emotion-notification"
	StyleID           = "emotion-highlight-styles"

	AttrEmotion      = "data-emotion"
	AttrLabel        = "data-emotion-label"
	AttrRestoreClass = "data-emotion-restore-class"
	AttrRestoreStyle = "data-emotion-restore-style"
	// AttrNoClass records that the element had no class attribute before marking.
	AttrNoClass = "data-emotion-no-class"
	// AttrNoStyle records that the element had no style attribute before marking.
	AttrNoStyle = "data-emotion-no-style"
)

// Matcher matches marker elements of either kind.
var Matcher = cascadia.MustCompile("." + Class)

// Is reports whether n is a marker.
func Is(n *html.Node) bool {
	return dom.HasClass(n, Class)
}

// Inside reports whether n is a marker or has a marker ancestor.
func Inside(n *html.Node) bool {
	return dom.Closest(n, Matcher) != nil
}

var (
	stylesheetOnce sync.Once
	stylesheet     string
)

// Stylesheet returns the CSS injected into highlighted pages. It is built once
// per process.
func Stylesheet() string {
	stylesheetOnce.Do(func() {
		stylesheet = buildStylesheet(emotion.DefaultLabels())
	})
	return stylesheet
}

func buildStylesheet(labels []emotion.Label) string {
	var sb strings.Builder
	sb.WriteString(`.` + Class + ` {
  display: inline !important;
  position: relative !important;
  border-radius: 3px !important;
  cursor: help !important;
  line-height: inherit !important;
  font: inherit !important;
  transition: box-shadow 0.2s ease !important;
}
.` + Class + `:hover {
  box-shadow: 0 2px 8px rgba(0,0,0,0.15) !important;
}
.` + Class + `:hover::after {
  content: attr(` + AttrLabel + `);
  position: absolute;
  top: -28px;
  left: 50%;
  transform: translateX(-50%);
  background: rgba(0,0,0,0.85);
  color: #fff;
  padding: 3px 8px;
  border-radius: 4px;
  font: 500 12px Arial, sans-serif;
  white-space: nowrap;
  pointer-events: none;
  z-index: 10001;
}
.` + NotificationClass + ` {
  position: fixed !important;
  top: 20px !important;
  right: 20px !important;
  padding: 12px 20px !important;
  border-radius: 8px !important;
  background: #10B981 !important;
  color: #fff !important;
  font: 500 14px Arial, sans-serif !important;
  z-index: 999999 !important;
  max-width: 300px !important;
  pointer-events: none !important;
}
@media print {
  .` + Class + ` { background: transparent !important; border: none !important; }
  .` + NotificationClass + ` { display: none !important; }
}
`)
	for _, l := range labels {
		fmt.Fprintf(&sb, ".%s[%s=%q] { background-color: %s !important; border-left: 3px solid %s !important; }\n",
			Class, AttrEmotion, string(l.Name), l.Background, l.Border)
	}
	return sb.String()
}
