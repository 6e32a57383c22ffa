package dast

import (
	"errors"
	"reflect"
	"sort"
	"strings"
	"testing"
)

// ========================================
// Test adapter
// ========================================

// out is the plain-data output of testAdapter.
type out struct {
	Kind     string // "node", "mark", "fragment", "text"
	Tag      string
	Attrs    Attrs
	Key      string
	Text     string
	Children []*out
}

// String renders o in a compact HTML-like form used by assertions. Keys are
// left out.
func (o *out) String() string {
	if o == nil {
		return ""
	}
	var b strings.Builder
	switch o.Kind {
	case "text":
		b.WriteString(o.Text)
	case "fragment":
		for _, c := range o.Children {
			b.WriteString(c.String())
		}
	default:
		b.WriteString("<" + o.Tag)
		for _, k := range sortedKeys(o.Attrs) {
			if k == KeyAttr {
				continue
			}
			b.WriteString(" " + k + `="` + o.Attrs[k] + `"`)
		}
		if len(o.Children) == 0 && o.Kind == "node" {
			b.WriteString("/>")
			return b.String()
		}
		b.WriteString(">")
		for _, c := range o.Children {
			b.WriteString(c.String())
		}
		b.WriteString("</" + o.Tag + ">")
	}
	return b.String()
}

func sortedKeys(a Attrs) []string {
	keys := make([]string, 0, len(a))
	for k := range a {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

type testAdapter struct{}

func (testAdapter) RenderNode(tag string, attrs Attrs, children []*out) *out {
	return &out{Kind: "node", Tag: tag, Attrs: attrs, Key: attrs[KeyAttr], Children: children}
}

func (testAdapter) RenderMark(tag string, attrs Attrs, children []*out) *out {
	return &out{Kind: "mark", Tag: tag, Attrs: attrs, Key: attrs[KeyAttr], Children: children}
}

func (testAdapter) RenderFragment(children []*out, key string) *out {
	return &out{Kind: "fragment", Key: key, Children: children}
}

func (testAdapter) RenderText(text, key string) *out {
	return &out{Kind: "text", Text: text, Key: key}
}

func (testAdapter) WithKey(o *out, key string) *out {
	if o.Key == "" {
		o.Key = key
	}
	return o
}

func opts() Options[*out] {
	return Options[*out]{Adapter: testAdapter{}}
}

func mustRender(t *testing.T, st *StructuredText, o Options[*out]) *out {
	t.Helper()
	res, err := Render(st, o)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	return res
}

// ========================================
// Render Tests
// ========================================

func TestRenderNilRoot(t *testing.T) {
	tests := []struct {
		name string
		st   *StructuredText
	}{
		{"nil input", nil},
		{"nil value", &StructuredText{}},
		{"nil document", &StructuredText{Value: &Document{Schema: Schema}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Render(tt.st, Options[*out]{})
			if err != nil {
				t.Fatalf("Render() error = %v", err)
			}
			if res != nil {
				t.Errorf("Render() = %v, want nil", res)
			}
		})
	}
}

func TestRenderNoAdapter(t *testing.T) {
	st := FromNode(NewRoot())
	_, err := Render(st, Options[*out]{})
	if !errors.Is(err, ErrNoAdapter) {
		t.Errorf("Render() error = %v, want ErrNoAdapter", err)
	}
}

func TestRenderHeading(t *testing.T) {
	st, err := DecodeString(`{"schema":"dast","document":{"type":"root","children":[{"type":"heading","level":1,"children":[{"type":"span","value":"Hi"}]}]}}`)
	if err != nil {
		t.Fatalf("DecodeString() error = %v", err)
	}

	res := mustRender(t, st, opts())
	if got, want := res.String(), "<div><h1>Hi</h1></div>"; got != want {
		t.Errorf("Render() = %s, want %s", got, want)
	}

	h := res.Children[0]
	if h.Kind != "node" || h.Tag != "h1" {
		t.Fatalf("heading = %+v", h)
	}
	if len(h.Children) != 1 || h.Children[0].Kind != "text" || h.Children[0].Text != "Hi" {
		t.Errorf("heading children = %+v", h.Children)
	}
}

func TestRenderDefaultRules(t *testing.T) {
	tests := []struct {
		name string
		node Node
		want string
	}{
		{"paragraph", NewParagraph(NewSpan("a")), "<p>a</p>"},
		{"heading 3", NewHeading(3, NewSpan("a")), "<h3>a</h3>"},
		{"bulleted list", NewList(ListBulleted, NewListItem(NewParagraph(NewSpan("a")))), "<ul><li><p>a</p></li></ul>"},
		{"numbered list", NewList(ListNumbered, NewListItem(NewParagraph(NewSpan("a")))), "<ol><li><p>a</p></li></ol>"},
		{"blockquote", NewBlockquote("", NewParagraph(NewSpan("q"))), "<blockquote><p>q</p></blockquote>"},
		{"blockquote attribution", NewBlockquote("Ann", NewParagraph(NewSpan("q"))), "<blockquote><p>q</p><footer>Ann</footer></blockquote>"},
		{"code", NewCode("x := 1", "go"), `<pre data-language="go"><code>x := 1</code></pre>`},
		{"code without language", NewCode("x", ""), "<pre><code>x</code></pre>"},
		{"thematic break", NewThematicBreak(), "<hr/>"},
		{"link", NewLink("https://example.com", NewSpan("go")), `<a href="https://example.com">go</a>`},
		{"link meta", NewLink("/x", NewSpan("go")).WithMeta("target", "_blank", "rel", "noopener"), `<a href="/x" rel="noopener" target="_blank">go</a>`},
		{"span newline", NewSpan("a\nb\nc"), "a<br/>b<br/>c"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := mustRender(t, FromNode(tt.node), opts())
			if got := res.String(); got != tt.want {
				t.Errorf("Render() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestRenderMarks(t *testing.T) {
	tests := []struct {
		name  string
		marks []string
		want  string
	}{
		{"single", []string{MarkStrong}, "<strong>x</strong>"},
		{"first is outermost", []string{MarkStrong, MarkEmphasis}, "<strong><em>x</em></strong>"},
		{"reversed", []string{MarkEmphasis, MarkStrong}, "<em><strong>x</strong></em>"},
		{"all defaults", []string{MarkCode, MarkUnderline, MarkStrikethrough, MarkHighlight}, "<code><u><s><mark>x</mark></s></u></code>"},
		{"unknown mark skipped", []string{"sparkle", MarkStrong}, "<strong>x</strong>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := mustRender(t, FromNode(NewSpan("x", tt.marks...)), opts())
			if got := res.String(); got != tt.want {
				t.Errorf("Render() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestRenderCustomMarkRule(t *testing.T) {
	o := opts()
	o.CustomMarkRules = []MarkRule[*out]{
		NewMarkRule(IsMark(MarkHighlight), func(ctx MarkContext[*out]) (*out, error) {
			return ctx.Adapter.RenderMark("mark", Attrs{KeyAttr: ctx.Key, "class": "hl"}, ctx.Children), nil
		}),
	}

	doc := NewDocument(NewRoot(NewParagraph(NewSpan("lit", MarkHighlight))))
	res := mustRender(t, FromDocument(doc), o)

	span := res.Children[0].Children[0]
	if span.Kind != "mark" || span.Tag != "mark" {
		t.Fatalf("span = %+v, want a mark element", span)
	}
	if span.Attrs["class"] != "hl" {
		t.Errorf("custom rule not applied: attrs = %v", span.Attrs)
	}
	if len(span.Children) != 1 || span.Children[0].Kind != "text" || span.Children[0].Text != "lit" {
		t.Errorf("mark children = %+v", span.Children)
	}
}

func TestRenderCustomNodeRuleOverridesDefault(t *testing.T) {
	o := opts()
	o.CustomNodeRules = []NodeRule[*out]{
		NewNodeRule(IsHeading, func(ctx NodeContext[*out]) (*out, error) {
			return ctx.Adapter.RenderNode("h2", Attrs{KeyAttr: ctx.Key}, ctx.Children), nil
		}),
	}
	res := mustRender(t, FromNode(NewRoot(NewHeading(1, NewSpan("T")))), o)
	if got, want := res.String(), "<div><h2>T</h2></div>"; got != want {
		t.Errorf("Render() = %s, want %s", got, want)
	}
}

func TestRenderBuiltinsBeatCustomRules(t *testing.T) {
	o := opts()
	o.CustomNodeRules = []NodeRule[*out]{
		NewNodeRule(IsRoot, func(ctx NodeContext[*out]) (*out, error) {
			return ctx.Adapter.RenderNode("main", nil, ctx.Children), nil
		}),
	}
	res := mustRender(t, FromNode(NewRoot()), o)
	if res.Tag != "div" {
		t.Errorf("root tag = %s, want div", res.Tag)
	}
}

func TestRenderRootTag(t *testing.T) {
	o := opts()
	o.RootTag = "article"
	res := mustRender(t, FromNode(NewRoot(NewParagraph(NewSpan("a")))), o)
	if got, want := res.String(), "<article><p>a</p></article>"; got != want {
		t.Errorf("Render() = %s, want %s", got, want)
	}
}

func TestRenderInvalidRootTag(t *testing.T) {
	tests := []string{
		"img src=x onerror=alert(1)",
		"div><script>alert(1)</script",
		" ",
		"1div",
		"-x",
		"x-",
		"a--b",
		"di v",
	}
	for _, tag := range tests {
		t.Run(tag, func(t *testing.T) {
			o := opts()
			o.RootTag = tag
			res, err := Render(FromNode(NewRoot(NewParagraph(NewSpan("hi")))), o)
			if !errors.Is(err, ErrInvalidRootTag) {
				t.Fatalf("Render() error = %v, want ErrInvalidRootTag", err)
			}
			if res != nil {
				t.Errorf("Render() = %v, want nil", res)
			}
		})
	}
}

func TestValidTagName(t *testing.T) {
	tests := []struct {
		tag  string
		want bool
	}{
		{"div", true},
		{"h2", true},
		{"SECTION", true},
		{"my-element", true},
		{"x-a1-b2", true},
		{"", false},
		{"2h", false},
		{"my-", false},
		{"my--el", false},
		{"a b", false},
		{"a>", false},
		{"a/", false},
		{`a"`, false},
	}
	for _, tt := range tests {
		if got := ValidTagName(tt.tag); got != tt.want {
			t.Errorf("ValidTagName(%q) = %v, want %v", tt.tag, got, tt.want)
		}
	}
}

func TestRenderKeys(t *testing.T) {
	root := NewRoot(
		NewParagraph(NewSpan("a"), NewSpan("b")),
		NewParagraph(NewSpan("c")),
	)
	res := mustRender(t, FromNode(root), opts())

	if res.Key != "t-0" {
		t.Errorf("root key = %q, want t-0", res.Key)
	}
	for i, p := range res.Children {
		if want := "t-" + string(rune('0'+i)); p.Key != want {
			t.Errorf("paragraph %d key = %q, want %q", i, p.Key, want)
		}
	}
	spans := res.Children[0].Children
	if spans[0].Key != "t-0" || spans[1].Key != "t-1" {
		t.Errorf("span keys = %q, %q", spans[0].Key, spans[1].Key)
	}
}

func TestRenderDropsNilChildren(t *testing.T) {
	o := opts()
	o.CustomNodeRules = []NodeRule[*out]{
		NewNodeRule(IsThematicBreak, func(ctx NodeContext[*out]) (*out, error) {
			return nil, nil
		}),
	}
	root := NewRoot(NewParagraph(NewSpan("a")), NewThematicBreak(), NewParagraph(NewSpan("b")))
	res := mustRender(t, FromNode(root), o)
	if len(res.Children) != 2 {
		t.Fatalf("children = %d, want 2", len(res.Children))
	}
	if got, want := res.String(), "<div><p>a</p><p>b</p></div>"; got != want {
		t.Errorf("Render() = %s, want %s", got, want)
	}
}

func TestRenderSkipsTypedNilChildren(t *testing.T) {
	tests := []struct {
		name string
		root *Root
		want string
	}{
		{"paragraph", NewRoot((*Paragraph)(nil), NewParagraph(NewSpan("hi"))), "<div><p>hi</p></div>"},
		{"span", NewRoot(NewParagraph((*Span)(nil), NewSpan("hi"))), "<div><p>hi</p></div>"},
		{"list item", NewRoot(NewList(ListBulleted, (*ListItem)(nil))), "<div><ul></ul></div>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := mustRender(t, FromNode(tt.root), opts())
			if got := res.String(); got != tt.want {
				t.Errorf("Render() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestRenderTypedNilRoot(t *testing.T) {
	for _, st := range []*StructuredText{
		FromNode((*Root)(nil)),
		{Value: NewDocument(nil)},
	} {
		res, err := Render(st, opts())
		if err != nil || res != nil {
			t.Errorf("Render() = %v, %v, want nil, nil", res, err)
		}
	}
}

func TestRenderAncestors(t *testing.T) {
	var got []NodeType
	o := opts()
	o.CustomNodeRules = []NodeRule[*out]{
		NewNodeRule(IsSpan, func(ctx NodeContext[*out]) (*out, error) {
			for _, a := range ctx.Ancestors {
				got = append(got, a.Type())
			}
			return ctx.Adapter.RenderText("s", ctx.Key), nil
		}),
	}
	mustRender(t, FromNode(NewRoot(NewList(ListBulleted, NewListItem(NewParagraph(NewSpan("x")))))), o)

	want := []NodeType{TypeParagraph, TypeListItem, TypeList, TypeRoot}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ancestors = %v, want %v", got, want)
	}
}

func TestRenderUnknownNode(t *testing.T) {
	_, err := Render(FromNode(NewRoot(&unknownNode{})), opts())

	var rerr *RenderError
	if !errors.As(err, &rerr) {
		t.Fatalf("Render() error = %v, want *RenderError", err)
	}
	if !errors.Is(err, ErrUnknownNodeType) {
		t.Errorf("Render() error = %v, want ErrUnknownNodeType", err)
	}
	if rerr.Node.Type() != "sparkle" {
		t.Errorf("RenderError.Node type = %s", rerr.Node.Type())
	}
}

type unknownNode struct{}

func (*unknownNode) Type() NodeType { return "sparkle" }

func TestRenderIdempotent(t *testing.T) {
	st := NewStructuredText(NewDocument(NewRoot(
		NewHeading(2, NewSpan("Title", MarkStrong)),
		NewParagraph(NewSpan("see "), NewItemLink("1", NewSpan("this"))),
		NewBlock("2"),
	)))
	st.AddLink(Record{"id": "1", "slug": "a"}).AddBlock(Record{"id": "2"})

	o := opts()
	o.RenderLinkToRecord = func(ctx RecordLinkContext[*out]) (*out, error) {
		return testAdapter{}.RenderNode("a", Attrs{"href": "/" + ctx.Record.String("slug")}, ctx.Children), nil
	}
	o.RenderBlock = func(ctx BlockContext) (*out, error) {
		return testAdapter{}.RenderNode("figure", Attrs{"data-id": ctx.Record.ID()}, nil), nil
	}

	r := NewRenderer(o)
	first, err := r.Render(st)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	second, err := r.Render(st)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("renders differ:\n%v\n%v", first, second)
	}
}

func TestRenderDoesNotMutateInput(t *testing.T) {
	root := NewRoot(NewParagraph(NewSpan("a\nb", MarkStrong, MarkEmphasis)))
	before := Clone(root)
	mustRender(t, FromNode(root), opts())
	if !reflect.DeepEqual(before, Node(root)) {
		t.Error("Render() mutated its input")
	}
}

func TestNodeRulesOrder(t *testing.T) {
	custom := NewNodeRule(IsParagraph, func(ctx NodeContext[*out]) (*out, error) {
		return ctx.Adapter.RenderText("custom", ctx.Key), nil
	})
	o := opts()
	o.CustomNodeRules = []NodeRule[*out]{custom}
	rules := NewRenderer(o).NodeRules(FromNode(NewRoot()))

	probes := []Node{
		NewRoot(), NewInlineItem("1"), NewItemLink("1"), NewBlock("1"), NewInlineBlock("1"),
		NewParagraph(),
		NewParagraph(), NewHeading(1), NewList(ListBulleted), NewListItem(), NewBlockquote(""),
		NewCode("", ""), NewLink(""), NewThematicBreak(), NewSpan(""),
	}
	if len(rules) != len(probes) {
		t.Fatalf("NodeRules() = %d rules, want %d", len(rules), len(probes))
	}
	// The custom rule sits between built-ins and defaults and shadows the
	// default paragraph rule.
	for i := 0; i < 5; i++ {
		if !rules[i].AppliesTo(probes[i]) {
			t.Errorf("rule %d does not match %s", i, probes[i].Type())
		}
	}
	res, err := rules[5].Apply(NodeContext[*out]{Adapter: testAdapter{}, Node: probes[5], Key: "t-0"})
	if err != nil || res.Text != "custom" {
		t.Errorf("rule 5 is not the custom rule: %v %v", res, err)
	}
	if !rules[6].AppliesTo(NewParagraph()) {
		t.Error("first default rule should be paragraph")
	}
	if !rules[len(rules)-1].AppliesTo(NewSpan("")) {
		t.Error("last default rule should be span")
	}
}

func TestMarkRulesOrder(t *testing.T) {
	o := opts()
	o.CustomMarkRules = []MarkRule[*out]{
		NewMarkRule(IsMark(MarkStrong), func(ctx MarkContext[*out]) (*out, error) {
			return ctx.Adapter.RenderMark("b", nil, ctx.Children), nil
		}),
	}
	rules := NewRenderer(o).MarkRules()
	if len(rules) != 7 {
		t.Fatalf("MarkRules() = %d rules, want 7", len(rules))
	}
	res := mustRender(t, FromNode(NewSpan("x", MarkStrong)), o)
	if got := res.String(); got != "<b>x</b>" {
		t.Errorf("Render() = %s, want <b>x</b>", got)
	}
}
