package dast

import (
	"errors"
	"strconv"
)

// ErrSkipChildren may be returned by a Walk callback to skip the children of
// the current node. Walk itself never returns it.
var ErrSkipChildren = errors.New("skip children")

// WalkContext provides context during tree traversal.
type WalkContext struct {
	Index     int    // position among siblings
	Depth     int    // 0 for the node Walk was called with
	Key       string // the key the renderer synthesizes for this node
	Ancestors []Node // nearest first
}

// Walk visits n and its descendants depth-first, parents before children,
// left to right. It stops at the first callback error.
func Walk(n Node, fn func(Node, WalkContext) error) error {
	if isNil(n) {
		return nil
	}
	return walk(n, WalkContext{Key: "t-0"}, fn)
}

func walk(n Node, ctx WalkContext, fn func(Node, WalkContext) error) error {
	if err := fn(n, ctx); err != nil {
		if errors.Is(err, ErrSkipChildren) {
			return nil
		}
		return err
	}

	parent, ok := n.(Parent)
	if !ok {
		return nil
	}
	ancestors := make([]Node, 0, len(ctx.Ancestors)+1)
	ancestors = append(ancestors, n)
	ancestors = append(ancestors, ctx.Ancestors...)

	for i, child := range parent.Nodes() {
		if isNil(child) {
			continue
		}
		err := walk(child, WalkContext{
			Index:     i,
			Depth:     ctx.Depth + 1,
			Key:       "t-" + strconv.Itoa(i),
			Ancestors: ancestors,
		}, fn)
		if err != nil {
			return err
		}
	}
	return nil
}

// Collect returns every node under n (n included) matching pred, in walk
// order.
func Collect(n Node, pred func(Node) bool) []Node {
	var out []Node
	_ = Walk(n, func(node Node, _ WalkContext) error {
		if pred(node) {
			out = append(out, node)
		}
		return nil
	})
	return out
}

// References returns every reference node under n in walk order.
func References(n Node) []Reference {
	var out []Reference
	_ = Walk(n, func(node Node, _ WalkContext) error {
		if ref, ok := node.(Reference); ok {
			out = append(out, ref)
		}
		return nil
	})
	return out
}

// Clone returns a deep copy of n.
func Clone(n Node) Node {
	if isNil(n) {
		return nil
	}
	switch x := n.(type) {
	case *Root:
		return &Root{Children: cloneNodes(x.Children)}
	case *Paragraph:
		return &Paragraph{Style: x.Style, Children: cloneNodes(x.Children)}
	case *Heading:
		return &Heading{Level: x.Level, Style: x.Style, Children: cloneNodes(x.Children)}
	case *List:
		return &List{Style: x.Style, Children: cloneNodes(x.Children)}
	case *ListItem:
		return &ListItem{Children: cloneNodes(x.Children)}
	case *Blockquote:
		return &Blockquote{Attribution: x.Attribution, Children: cloneNodes(x.Children)}
	case *Code:
		c := *x
		if x.Highlight != nil {
			c.Highlight = append([]int(nil), x.Highlight...)
		}
		return &c
	case *ThematicBreak:
		return &ThematicBreak{}
	case *Link:
		return &Link{URL: x.URL, Meta: cloneMeta(x.Meta), Children: cloneNodes(x.Children)}
	case *ItemLink:
		return &ItemLink{Item: x.Item, Meta: cloneMeta(x.Meta), Children: cloneNodes(x.Children)}
	case *InlineItem:
		return &InlineItem{Item: x.Item}
	case *Block:
		return &Block{Item: x.Item}
	case *InlineBlock:
		return &InlineBlock{Item: x.Item}
	case *Span:
		s := &Span{Value: x.Value}
		if x.Marks != nil {
			s.Marks = append([]string(nil), x.Marks...)
		}
		return s
	}
	return n
}

func cloneNodes(in []Node) []Node {
	if in == nil {
		return nil
	}
	out := make([]Node, len(in))
	for i, c := range in {
		out[i] = Clone(c)
	}
	return out
}

func cloneMeta(in []MetaEntry) []MetaEntry {
	if in == nil {
		return nil
	}
	return append([]MetaEntry(nil), in...)
}
