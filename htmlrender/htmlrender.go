// Package htmlrender renders structured text into golang.org/x/net/html
// node trees.
package htmlrender

import (
	"io"
	"sort"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/derickschaefer/dast"
)

// KeyAttr is the attribute Adapter writes reconciliation keys to when
// KeepKeys is set.
const KeyAttr = "data-key"

// Adapter implements dast.Adapter and dast.Keyer for *html.Node output.
// Fragments are html.DocumentNode values; they are flattened when appended
// to an element. A child that already has a parent, such as a node a
// callback returns for more than one reference, is appended as a deep copy.
type Adapter struct {
	// KeepKeys writes the synthesized keys as data-key attributes. Keys are
	// dropped otherwise.
	KeepKeys bool
}

var (
	_ dast.Adapter[*html.Node] = Adapter{}
	_ dast.Keyer[*html.Node]   = Adapter{}
)

func (a Adapter) RenderNode(tag string, attrs dast.Attrs, children []*html.Node) *html.Node {
	return a.element(tag, attrs, children)
}

func (a Adapter) RenderMark(tag string, attrs dast.Attrs, children []*html.Node) *html.Node {
	return a.element(tag, attrs, children)
}

func (a Adapter) RenderFragment(children []*html.Node, key string) *html.Node {
	frag := &html.Node{Type: html.DocumentNode}
	appendChildren(frag, children)
	return frag
}

func (a Adapter) RenderText(text, key string) *html.Node {
	return Text(text)
}

// WithKey sets data-key on an element that has none. Other nodes are
// returned unchanged.
func (a Adapter) WithKey(n *html.Node, key string) *html.Node {
	if !a.KeepKeys || n.Type != html.ElementNode {
		return n
	}
	for _, at := range n.Attr {
		if at.Key == KeyAttr {
			return n
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: KeyAttr, Val: key})
	return n
}

func (a Adapter) element(tag string, attrs dast.Attrs, children []*html.Node) *html.Node {
	n := Element(tag, withoutKey(attrs, a.KeepKeys))
	appendChildren(n, children)
	return n
}

func withoutKey(attrs dast.Attrs, keep bool) dast.Attrs {
	key, ok := attrs[dast.KeyAttr]
	if !ok {
		return attrs
	}
	out := make(dast.Attrs, len(attrs))
	for k, v := range attrs {
		if k != dast.KeyAttr {
			out[k] = v
		}
	}
	if keep {
		out[KeyAttr] = key
	}
	return out
}

// Element returns an element node with attributes sorted by name.
func Element(tag string, attrs dast.Attrs, children ...*html.Node) *html.Node {
	n := &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}
	if len(attrs) > 0 {
		keys := make([]string, 0, len(attrs))
		for k := range attrs {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		n.Attr = make([]html.Attribute, 0, len(keys))
		for _, k := range keys {
			n.Attr = append(n.Attr, html.Attribute{Key: k, Val: attrs[k]})
		}
	}
	appendChildren(n, children)
	return n
}

// Text returns a text node. Its content is escaped on rendering.
func Text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

// Raw returns a node whose content is written verbatim on rendering.
func Raw(s string) *html.Node {
	return &html.Node{Type: html.RawNode, Data: s}
}

// Attr returns the value of the named attribute of n.
func Attr(n *html.Node, key string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func appendChildren(parent *html.Node, children []*html.Node) {
	for _, c := range children {
		if c == nil {
			continue
		}
		if c.Type == html.DocumentNode {
			for gc := c.FirstChild; gc != nil; {
				next := gc.NextSibling
				c.RemoveChild(gc)
				parent.AppendChild(gc)
				gc = next
			}
			continue
		}
		if c.Parent != nil {
			c = cloneNode(c)
		}
		parent.AppendChild(c)
	}
}

// cloneNode returns a deep copy of n with no parent or siblings.
func cloneNode(n *html.Node) *html.Node {
	m := &html.Node{
		Type:      n.Type,
		DataAtom:  n.DataAtom,
		Data:      n.Data,
		Namespace: n.Namespace,
		Attr:      append([]html.Attribute(nil), n.Attr...),
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		m.AppendChild(cloneNode(c))
	}
	return m
}

// Render writes n as HTML. A nil node writes nothing.
func Render(w io.Writer, n *html.Node) error {
	if n == nil {
		return nil
	}
	return html.Render(w, n)
}

// String renders n to a string.
func String(n *html.Node) (string, error) {
	var b strings.Builder
	if err := Render(&b, n); err != nil {
		return "", err
	}
	return b.String(), nil
}

// Strings renders each node and concatenates the result.
func Strings(nodes []*html.Node) (string, error) {
	var b strings.Builder
	for _, n := range nodes {
		if err := Render(&b, n); err != nil {
			return "", err
		}
	}
	return b.String(), nil
}
