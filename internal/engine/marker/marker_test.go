package marker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crimson-sun/pagepulse/internal/dom"
)

func TestInside(t *testing.T) {
	doc, err := dom.ParseString(`<p><span class="x emotion-highlight"><b>deep</b></span><i>free</i></p>`)
	require.NoError(t, err)

	b := doc.Find("b").Nodes[0]
	i := doc.Find("i").Nodes[0]
	assert.True(t, Inside(b.FirstChild))
	assert.False(t, Inside(i.FirstChild))
	assert.True(t, Is(doc.Find("span").Nodes[0]))
}

func TestStylesheetCoversEveryLabel(t *testing.T) {
	css := Stylesheet()
	for _, name := range []string{"happy", "sad", "calm", "trusting"} {
		assert.Contains(t, css, `[data-emotion="`+name+`"]`)
	}
	assert.Contains(t, css, "content: attr(data-emotion-label)")
	assert.Equal(t, css, Stylesheet(), "stylesheet is built once")
	assert.False(t, strings.Contains(css, "%!"), "no formatting errors")
}
