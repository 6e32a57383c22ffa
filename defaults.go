package dast

import (
	"strconv"
	"strings"
)

// defaultNodeRules map ordinary dast nodes onto HTML-like tags. They run
// after the built-in and custom rules.
func defaultNodeRules[T any](meta MetaTransformer, marks []MarkRule[T]) []NodeRule[T] {
	return []NodeRule[T]{
		NewNodeRule(IsParagraph, func(ctx NodeContext[T]) (T, error) {
			return ctx.Adapter.RenderNode("p", Attrs{KeyAttr: ctx.Key}, ctx.Children), nil
		}),

		NewNodeRule(IsHeading, func(ctx NodeContext[T]) (T, error) {
			tag := "h" + strconv.Itoa(ctx.Node.(*Heading).Level)
			return ctx.Adapter.RenderNode(tag, Attrs{KeyAttr: ctx.Key}, ctx.Children), nil
		}),

		NewNodeRule(IsList, func(ctx NodeContext[T]) (T, error) {
			tag := "ol"
			if ctx.Node.(*List).Style == ListBulleted {
				tag = "ul"
			}
			return ctx.Adapter.RenderNode(tag, Attrs{KeyAttr: ctx.Key}, ctx.Children), nil
		}),

		NewNodeRule(IsListItem, func(ctx NodeContext[T]) (T, error) {
			return ctx.Adapter.RenderNode("li", Attrs{KeyAttr: ctx.Key}, ctx.Children), nil
		}),

		NewNodeRule(IsBlockquote, func(ctx NodeContext[T]) (T, error) {
			node := ctx.Node.(*Blockquote)
			children := ctx.Children
			if node.Attribution != "" {
				footer := ctx.Adapter.RenderNode("footer", Attrs{KeyAttr: "footer"},
					[]T{ctx.Adapter.RenderText(node.Attribution, "footer-text")})
				children = append(append(make([]T, 0, len(children)+1), children...), footer)
			}
			return ctx.Adapter.RenderNode("blockquote", Attrs{KeyAttr: ctx.Key}, children), nil
		}),

		NewNodeRule(IsCode, func(ctx NodeContext[T]) (T, error) {
			node := ctx.Node.(*Code)
			attrs := Attrs{KeyAttr: ctx.Key}
			if node.Language != "" {
				attrs["data-language"] = node.Language
			}
			code := ctx.Adapter.RenderNode("code", nil, []T{ctx.Adapter.RenderText(node.Code, ctx.Key+"-code")})
			return ctx.Adapter.RenderNode("pre", attrs, []T{code}), nil
		}),

		NewNodeRule(IsLink, func(ctx NodeContext[T]) (T, error) {
			node := ctx.Node.(*Link)
			attrs := Attrs{}
			for k, v := range transformMeta(meta, node, node.Meta) {
				attrs[k] = v
			}
			attrs[KeyAttr] = ctx.Key
			attrs["href"] = node.URL
			return ctx.Adapter.RenderNode("a", attrs, ctx.Children), nil
		}),

		NewNodeRule(IsThematicBreak, func(ctx NodeContext[T]) (T, error) {
			return ctx.Adapter.RenderNode("hr", Attrs{KeyAttr: ctx.Key}, nil), nil
		}),

		NewNodeRule(IsSpan, func(ctx NodeContext[T]) (T, error) {
			return renderSpan(ctx, marks)
		}),
	}
}

// renderSpan renders the span value and wraps it in its marks. The first
// declared mark ends up outermost; marks without a rule are skipped.
func renderSpan[T any](ctx NodeContext[T], rules []MarkRule[T]) (T, error) {
	span := ctx.Node.(*Span)
	out := renderSpanValue(ctx.Adapter, span.Value, ctx.Key)

	for i := len(span.Marks) - 1; i >= 0; i-- {
		mark := span.Marks[i]
		rule, ok := findMarkRule(rules, mark)
		if !ok {
			continue
		}
		wrapped, err := rule.Apply(MarkContext[T]{
			Adapter:   ctx.Adapter,
			Mark:      mark,
			Key:       ctx.Key,
			Children:  []T{out},
			Ancestors: ctx.Ancestors,
		})
		if err != nil {
			var zero T
			return zero, err
		}
		out = wrapped
	}
	return out, nil
}

// renderSpanValue turns newlines into br elements.
func renderSpanValue[T any](adapter Adapter[T], value, key string) T {
	lines := strings.Split(value, "\n")
	if len(lines) == 1 {
		return adapter.RenderText(value, key)
	}

	children := make([]T, 0, len(lines)*2-1)
	children = append(children, adapter.RenderText(lines[0], key+"-line-first"))
	for i, line := range lines[1:] {
		children = append(children,
			adapter.RenderNode("br", Attrs{KeyAttr: key + "-br-" + strconv.Itoa(i)}, nil),
			adapter.RenderText(line, key+"-line-"+strconv.Itoa(i)))
	}
	return adapter.RenderFragment(children, key)
}

func findMarkRule[T any](rules []MarkRule[T], mark string) (MarkRule[T], bool) {
	for _, rule := range rules {
		if rule.AppliesTo(mark) {
			return rule, true
		}
	}
	return MarkRule[T]{}, false
}

var defaultMarkTags = []struct {
	mark string
	tag  string
}{
	{MarkStrong, "strong"},
	{MarkCode, "code"},
	{MarkEmphasis, "em"},
	{MarkUnderline, "u"},
	{MarkStrikethrough, "s"},
	{MarkHighlight, "mark"},
}

func defaultMarkRules[T any]() []MarkRule[T] {
	rules := make([]MarkRule[T], 0, len(defaultMarkTags))
	for _, mt := range defaultMarkTags {
		tag := mt.tag
		rules = append(rules, NewMarkRule(IsMark(mt.mark), func(ctx MarkContext[T]) (T, error) {
			return ctx.Adapter.RenderMark(tag, Attrs{KeyAttr: ctx.Key}, ctx.Children), nil
		}))
	}
	return rules
}
