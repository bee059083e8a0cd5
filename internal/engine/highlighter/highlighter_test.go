package highlighter

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crimson-sun/pagepulse/internal/dom"
	"github.com/crimson-sun/pagepulse/internal/engine/marker"
	"github.com/crimson-sun/pagepulse/internal/model"
)

func parse(t *testing.T, page string) *dom.Document {
	t.Helper()
	doc, err := dom.ParseString(page)
	require.NoError(t, err)
	return doc
}

func bodyHTML(t *testing.T, doc *dom.Document) string {
	t.Helper()
	s, err := doc.Find("body").Html()
	require.NoError(t, err)
	return s
}

func quiet() *Highlighter {
	cfg := DefaultConfig()
	cfg.Notify = false
	return New(cfg)
}

func TestApplyHappyParagraph(t *testing.T) {
	doc := parse(t, `<p>I am so happy today, everything is wonderful!</p>`)
	h := New(DefaultConfig())

	n := h.Apply(doc, []model.Span{{Text: "I am so happy today, everything is wonderful!", Emotion: "happy"}})
	require.Equal(t, 1, n)

	sel := doc.Find("span." + marker.Class)
	require.Equal(t, 1, sel.Length())
	emo, _ := sel.Attr(marker.AttrEmotion)
	assert.Equal(t, "happy", emo)
	label, _ := sel.Attr(marker.AttrLabel)
	assert.Equal(t, "Happy", label)
	assert.Equal(t, "I am so happy today, everything is wonderful!", sel.Text())

	assert.Equal(t, 1, doc.Find("head style#"+marker.StyleID).Length())
	assert.Contains(t, doc.Find("."+marker.NotificationClass).Text(), "Highlighted 1 emotional passage")
}

func TestApplyDoesNotChangeText(t *testing.T) {
	doc := parse(t, `<div><p>The  quick   brown fox jumps over the lazy dog.</p><p>Another line of text that stays.</p></div>`)
	before := doc.TextContent()

	n := quiet().Apply(doc, []model.Span{
		{Text: "The quick brown fox jumps over the lazy dog.", Emotion: "calm"},
		{Text: "Another line of text that stays.", Emotion: "sad"},
	})
	assert.Equal(t, 2, n)
	assert.Equal(t, before, doc.TextContent())
}

func TestClearRoundTrip(t *testing.T) {
	page := `<article><h1>Big news everyone, we launched today</h1>
<p>We are <b>thrilled</b> to share this with all of you.</p>
<p>Some people were worried about the delays we had.</p></article>`
	doc := parse(t, page)
	before := doc.TextContent()
	beforeBody := bodyHTML(t, doc)

	h := New(DefaultConfig())
	n := h.Apply(doc, []model.Span{
		{Text: "Big news everyone, we launched today", Emotion: "excited"},
		{Text: "Some people were worried about the delays we had.", Emotion: "worried"},
	})
	require.Equal(t, 2, n)

	removed := h.Clear(doc)
	assert.Equal(t, 2, removed)
	assert.Equal(t, before, doc.TextContent())
	assert.Equal(t, beforeBody, bodyHTML(t, doc))
}

func TestClearIdempotent(t *testing.T) {
	doc := parse(t, `<p>Nothing on this page is highlighted at all.</p>`)
	h := New(DefaultConfig())
	h.Apply(doc, []model.Span{{Text: "Nothing on this page is highlighted at all.", Emotion: "calm"}})

	h.Clear(doc)
	once, err := doc.HTML()
	require.NoError(t, err)

	assert.Equal(t, 0, h.Clear(doc))
	twice, err := doc.HTML()
	require.NoError(t, err)
	assert.Equal(t, once, twice)
	assert.Equal(t, 0, doc.Find("."+marker.Class).Length())
	assert.Equal(t, 0, doc.Find("."+marker.NotificationClass).Length())
}

const tenWords = "alpha bravo charlie delta echo foxtrot golfer hotel india juliet"

func TestOverlapThreshold(t *testing.T) {
	tests := []struct {
		name string
		node string
		want int
	}{
		{"six of ten", "alpha bravo charlie delta echo foxtrot zzz", 1},
		{"five of ten", "alpha bravo charlie delta echo zzz", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := parse(t, "<p>"+tt.node+"</p>")
			got := quiet().Apply(doc, []model.Span{{Text: tenWords, Emotion: "calm"}})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestShortWordsIgnored(t *testing.T) {
	// Only "cat", "sat" and "mat" count; "on" and "a" are too short.
	doc := parse(t, `<p>my cat sat there on the mat</p>`)
	got := quiet().Apply(doc, []model.Span{{Text: "a cat sat on a mat", Emotion: "calm"}})
	assert.Equal(t, 1, got)
}

func TestSubstringBeatsWordOverlap(t *testing.T) {
	doc := parse(t, `<p id="loose">product this love much so much love</p>
<p id="exact">Honestly I love this product so much.</p>`)
	n := quiet().Apply(doc, []model.Span{{Text: "I love this product so much", Emotion: "love"}})
	require.Equal(t, 1, n)

	assert.Equal(t, 1, doc.Find("#exact ."+marker.Class).Length())
	assert.Equal(t, 0, doc.Find("#loose ."+marker.Class).Length())
}

func TestPrefixContainment(t *testing.T) {
	long := "This opening clause is exactly what appears on the page, but the model kept going far beyond it."
	doc := parse(t, `<p>Intro: This opening clause is exactly what appears on the page</p>`)
	n := quiet().Apply(doc, []model.Span{{Text: long, Emotion: "surprised"}})
	assert.Equal(t, 1, n)
}

func TestMarkerCap(t *testing.T) {
	var sb strings.Builder
	spans := make([]model.Span, 0, 50)
	for i := 0; i < 50; i++ {
		text := fmt.Sprintf("Paragraph number %d has its own distinct sentence.", i)
		fmt.Fprintf(&sb, "<p>%s</p>", text)
		spans = append(spans, model.Span{Text: text, Emotion: "calm"})
	}
	doc := parse(t, sb.String())

	n := quiet().Apply(doc, spans)
	assert.Equal(t, 20, n)
	assert.Equal(t, 20, doc.Find("."+marker.Class).Length())
}

func TestDuplicateSpansMarkedOnce(t *testing.T) {
	doc := parse(t, `<p>Hello world is great today</p><p>Hello world is great today</p>`)
	n := quiet().Apply(doc, []model.Span{
		{Text: "Hello World is great today", Emotion: "happy"},
		{Text: "  hello   WORLD is great today ", Emotion: "happy"},
	})
	assert.Equal(t, 1, n)
	assert.Equal(t, 1, doc.Find("."+marker.Class).Length())
}

func TestSkipsScriptAndNav(t *testing.T) {
	doc := parse(t, `<script>var s = "I am so happy today, everything is wonderful!";</script>
<nav>I am so happy today, everything is wonderful!</nav>`)
	n := quiet().Apply(doc, []model.Span{{Text: "I am so happy today, everything is wonderful!", Emotion: "happy"}})
	assert.Equal(t, 0, n)
}

func TestReapplyReplacesMarkers(t *testing.T) {
	doc := parse(t, `<p>First paragraph that gets a color.</p>`)
	h := New(DefaultConfig())
	spans := []model.Span{{Text: "First paragraph that gets a color.", Emotion: "sad"}}

	h.Apply(doc, spans)
	h.Apply(doc, spans)

	assert.Equal(t, 1, doc.Find("."+marker.Class).Length())
	assert.Equal(t, 1, doc.Find("#"+marker.StyleID).Length())
	assert.Equal(t, 1, doc.Find("."+marker.NotificationClass).Length())
}

func TestUnknownEmotionFallsBackToCalm(t *testing.T) {
	doc := parse(t, `<p>A sentence with an odd label attached.</p>`)
	quiet().Apply(doc, []model.Span{{Text: "A sentence with an odd label attached.", Emotion: "bewildered"}})
	emo, _ := doc.Find("." + marker.Class).Attr(marker.AttrEmotion)
	assert.Equal(t, "calm", emo)
}

func TestElementMarkers(t *testing.T) {
	page := `<p id="emotion-p-0" class="lead">Tagged paragraph with its own id.</p><p id="emotion-p-1" style="margin: 0">Second tagged paragraph here.</p>`
	doc := parse(t, page)
	before := bodyHTML(t, doc)
	h := quiet()

	n := h.Apply(doc, []model.Span{
		{ElementID: "emotion-p-0", Emotion: "angry"},
		{ElementID: "emotion-p-1", Emotion: "trusting"},
		{ElementID: "emotion-p-9", Emotion: "sad"},
	})
	require.Equal(t, 2, n)

	first := doc.Find("#emotion-p-0")
	assert.True(t, first.HasClass("lead"))
	assert.True(t, first.HasClass(marker.Class))
	emo, _ := first.Attr(marker.AttrEmotion)
	assert.Equal(t, "angry", emo)
	style, _ := doc.Find("#emotion-p-1").Attr("style")
	assert.True(t, strings.HasPrefix(style, "margin: 0;"))

	assert.Equal(t, 2, h.Clear(doc))
	assert.Equal(t, before, bodyHTML(t, doc))
}

func TestElementMissingFallsBackToText(t *testing.T) {
	doc := parse(t, `<p>Fallback text for a missing element id.</p>`)
	n := quiet().Apply(doc, []model.Span{{ElementID: "gone", Text: "Fallback text for a missing element id.", Emotion: "sad"}})
	assert.Equal(t, 1, n)
}

func TestElementMarkerRetiresItsText(t *testing.T) {
	text := "Tagged paragraph that the model named twice."
	doc := parse(t, `<p id="emotion-p-0">`+text+`</p>`)
	before := bodyHTML(t, doc)
	h := quiet()

	n := h.Apply(doc, []model.Span{
		{ElementID: "emotion-p-0", Emotion: "happy"},
		{ElementID: "emotion-p-9", Text: text, Emotion: "sad"},
	})
	assert.Equal(t, 1, n)
	assert.Equal(t, 1, doc.Find("."+marker.Class).Length())
	assert.Zero(t, doc.Find("."+marker.Class+" ."+marker.Class).Length(), "markers must not nest")

	assert.Equal(t, 1, h.Clear(doc))
	assert.Equal(t, before, bodyHTML(t, doc))
}

func TestElementWithMarkedTextIsSkipped(t *testing.T) {
	text := "Paragraph whose text was matched before its id."
	doc := parse(t, `<p id="emotion-p-0">`+text+`</p>`)
	h := quiet()

	n := h.Apply(doc, []model.Span{
		{Text: text, Emotion: "sad"},
		{ElementID: "emotion-p-0", Emotion: "happy"},
	})
	assert.Equal(t, 1, n)
	assert.False(t, doc.Find("#emotion-p-0").HasClass(marker.Class))
	assert.Zero(t, doc.Find("."+marker.Class+" ."+marker.Class).Length(), "markers must not nest")
}

func TestClearRemovesTooltips(t *testing.T) {
	doc := parse(t, `<p>Body text.</p><div class="emotion-tooltip">Happy</div>`)
	assert.Equal(t, 0, quiet().Clear(doc))
	assert.Equal(t, 0, doc.Find("."+marker.TooltipClass).Length())
	assert.Equal(t, "Body text.", doc.TextContent())
}
