package dom

import (
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Walk visits root and its descendants in document order. Returning false
// from fn skips the node's children.
func Walk(root *html.Node, fn func(*html.Node) bool) {
	if root == nil || !fn(root) {
		return
	}
	for c := root.FirstChild; c != nil; {
		next := c.NextSibling // fn may move c
		Walk(c, fn)
		c = next
	}
}

// TextContent concatenates every descendant text node, like the DOM property.
func TextContent(n *html.Node) string {
	if n == nil {
		return ""
	}
	if n.Type == html.TextNode {
		return n.Data
	}
	var sb strings.Builder
	Walk(n, func(c *html.Node) bool {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
		}
		return true
	})
	return sb.String()
}

// TextNodes returns the text nodes under root in document order. Elements for
// which skip reports true are not descended into.
func TextNodes(root *html.Node, skip cascadia.Matcher) []*html.Node {
	var out []*html.Node
	Walk(root, func(n *html.Node) bool {
		switch n.Type {
		case html.ElementNode:
			return skip == nil || !skip.Match(n)
		case html.TextNode:
			out = append(out, n)
		}
		return true
	})
	return out
}

// Attr returns the value of an attribute.
func Attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// SetAttr sets or replaces an attribute.
func SetAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// RemoveAttr deletes an attribute if present.
func RemoveAttr(n *html.Node, key string) {
	attrs := n.Attr[:0]
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			continue
		}
		attrs = append(attrs, a)
	}
	n.Attr = attrs
}

// HasClass reports whether the class attribute contains the given token.
func HasClass(n *html.Node, class string) bool {
	if n == nil || n.Type != html.ElementNode {
		return false
	}
	v, _ := Attr(n, "class")
	for _, c := range strings.Fields(v) {
		if c == class {
			return true
		}
	}
	return false
}

// AddClass appends a class token.
func AddClass(n *html.Node, class string) {
	if HasClass(n, class) {
		return
	}
	v, _ := Attr(n, "class")
	SetAttr(n, "class", strings.TrimSpace(v+" "+class))
}

// RemoveClass drops a class token, removing the attribute when it empties.
func RemoveClass(n *html.Node, class string) {
	v, ok := Attr(n, "class")
	if !ok {
		return
	}
	var keep []string
	for _, c := range strings.Fields(v) {
		if c != class {
			keep = append(keep, c)
		}
	}
	if len(keep) == 0 {
		RemoveAttr(n, "class")
		return
	}
	SetAttr(n, "class", strings.Join(keep, " "))
}

// Closest returns n or its nearest ancestor matching m, or nil.
func Closest(n *html.Node, m cascadia.Matcher) *html.Node {
	for ; n != nil; n = n.Parent {
		if n.Type == html.ElementNode && m.Match(n) {
			return n
		}
	}
	return nil
}

// HasAncestor reports whether a strict ancestor of n matches m.
func HasAncestor(n *html.Node, m cascadia.Matcher) bool {
	if n == nil {
		return false
	}
	return Closest(n.Parent, m) != nil
}

// FindByID returns the first element under root whose id equals id.
func FindByID(root *html.Node, id string) *html.Node {
	var found *html.Node
	Walk(root, func(n *html.Node) bool {
		if found != nil {
			return false
		}
		if n.Type == html.ElementNode {
			if v, ok := Attr(n, "id"); ok && v == id {
				found = n
				return false
			}
		}
		return true
	})
	return found
}

// NewElement creates a detached element.
func NewElement(tag string, attrs ...html.Attribute) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
		Attr:     attrs,
	}
}

// NewText creates a detached text node.
func NewText(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

// Wrap moves n inside wrapper and puts wrapper where n was.
func Wrap(n, wrapper *html.Node) {
	parent := n.Parent
	parent.InsertBefore(wrapper, n)
	parent.RemoveChild(n)
	wrapper.AppendChild(n)
}

// Unwrap splices n's children into n's parent, in order, and removes n.
func Unwrap(n *html.Node) {
	parent := n.Parent
	if parent == nil {
		return
	}
	for c := n.FirstChild; c != nil; c = n.FirstChild {
		n.RemoveChild(c)
		parent.InsertBefore(c, n)
	}
	parent.RemoveChild(n)
}

// Remove detaches n from its parent.
func Remove(n *html.Node) {
	if n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}
