package dast

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strconv"

	"go.uber.org/zap"
)

// Adapter materializes output for a host. The renderer never builds output
// itself; it only calls these four functions.
type Adapter[T any] interface {
	RenderNode(tag string, attrs Attrs, children []T) T
	RenderMark(tag string, attrs Attrs, children []T) T
	RenderFragment(children []T, key string) T
	RenderText(text string, key string) T
}

// Keyer is an optional Adapter extension. When present, the built-in
// reference rules use it to give callback output the synthesized key if
// that output does not carry one already.
type Keyer[T any] interface {
	WithKey(out T, key string) T
}

// InlineRecordContext is passed to Options.RenderInlineRecord.
type InlineRecordContext struct {
	Record Record
}

// RecordLinkContext is passed to Options.RenderLinkToRecord. TransformedMeta
// is nil when the itemLink carries no meta.
type RecordLinkContext[T any] struct {
	Record          Record
	Children        []T
	TransformedMeta Attrs
}

// BlockContext is passed to Options.RenderBlock and Options.RenderInlineBlock.
type BlockContext struct {
	Record Record
}

// Options configures a render pass.
type Options[T any] struct {
	Adapter Adapter[T]

	// CustomNodeRules are consulted after the built-in root and reference
	// rules and before the default rules.
	CustomNodeRules []NodeRule[T]
	// CustomMarkRules are consulted before the default mark rules.
	CustomMarkRules []MarkRule[T]
	// MetaTransformer converts link/itemLink meta into attributes.
	// Defaults to DefaultMetaTransformer.
	MetaTransformer MetaTransformer

	RenderInlineRecord func(InlineRecordContext) (T, error)
	RenderLinkToRecord func(RecordLinkContext[T]) (T, error)
	RenderBlock        func(BlockContext) (T, error)
	RenderInlineBlock  func(BlockContext) (T, error)

	// RootTag is the element wrapping the rendered root. Defaults to "div".
	// It must satisfy ValidTagName.
	RootTag string

	Logger *zap.Logger
}

// Renderer renders structured text with a fixed set of options. It keeps no
// state between calls.
type Renderer[T any] struct {
	opts Options[T]
	log  *zap.Logger
}

// NewRenderer returns a renderer for opts.
func NewRenderer[T any](opts Options[T]) *Renderer[T] {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	if opts.RootTag == "" {
		opts.RootTag = "div"
	}
	return &Renderer[T]{opts: opts, log: log}
}

var tagName = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9]*(-[A-Za-z0-9]+)*$`)

// ValidTagName reports whether tag is a plain element name such as "div",
// "h2" or "my-element". Adapters write tags verbatim, so anything else
// could inject markup.
func ValidTagName(tag string) bool {
	return tagName.MatchString(tag)
}

// Render is shorthand for NewRenderer(opts).Render(st).
func Render[T any](st *StructuredText, opts Options[T]) (T, error) {
	return NewRenderer(opts).Render(st)
}

// Render walks st and returns the adapter output for its root. A nil input,
// nil value or nil root renders to the zero T with no error.
func (r *Renderer[T]) Render(st *StructuredText) (T, error) {
	var zero T

	root := st.Root()
	if root == nil {
		return zero, nil
	}
	if r.opts.Adapter == nil {
		return zero, ErrNoAdapter
	}
	if !ValidTagName(r.opts.RootTag) {
		r.log.Warn("invalid root tag", zap.String("root_tag", r.opts.RootTag))
		return zero, fmt.Errorf("%w: %q", ErrInvalidRootTag, r.opts.RootTag)
	}

	p := &pass[T]{
		adapter:   r.opts.Adapter,
		nodeRules: r.NodeRules(st),
	}

	out, err := p.transform(root, "t-0", nil)
	if err != nil {
		var rerr *RenderError
		if errors.As(err, &rerr) && rerr.Node != nil {
			r.log.Warn("structured text render failed",
				zap.String("node_type", string(rerr.Node.Type())),
				zap.Error(err))
		} else {
			r.log.Warn("structured text render failed", zap.Error(err))
		}
		return zero, err
	}

	r.log.Debug("structured text rendered",
		zap.Int("links", len(st.Links)),
		zap.Int("blocks", len(st.Blocks)),
		zap.Int("inline_blocks", len(st.InlineBlocks)))
	return out, nil
}

// NodeRules returns the node rules in resolution order for a pass over st:
// built-in root and reference rules, then Options.CustomNodeRules, then the
// default rules.
func (r *Renderer[T]) NodeRules(st *StructuredText) []NodeRule[T] {
	rules := make([]NodeRule[T], 0, 5+len(r.opts.CustomNodeRules)+9)
	rules = append(rules, r.builtinRules(st)...)
	rules = append(rules, r.opts.CustomNodeRules...)
	rules = append(rules, defaultNodeRules[T](r.opts.MetaTransformer, r.MarkRules())...)
	return rules
}

// MarkRules returns the mark rules in resolution order: custom, then
// default.
func (r *Renderer[T]) MarkRules() []MarkRule[T] {
	rules := make([]MarkRule[T], 0, len(r.opts.CustomMarkRules)+6)
	rules = append(rules, r.opts.CustomMarkRules...)
	rules = append(rules, defaultMarkRules[T]()...)
	return rules
}

//
// Tree walk
//

type pass[T any] struct {
	adapter   Adapter[T]
	nodeRules []NodeRule[T]
}

func (p *pass[T]) transform(node Node, key string, ancestors []Node) (T, error) {
	var zero T

	var children []T
	if parent, ok := node.(Parent); ok {
		kids := parent.Nodes()
		children = make([]T, 0, len(kids))
		childAncestors := make([]Node, 0, len(ancestors)+1)
		childAncestors = append(childAncestors, node)
		childAncestors = append(childAncestors, ancestors...)
		for i, child := range kids {
			if isNil(child) {
				continue
			}
			out, err := p.transform(child, "t-"+strconv.Itoa(i), childAncestors)
			if err != nil {
				return zero, err
			}
			if isNil(out) {
				continue
			}
			children = append(children, out)
		}
	}

	ctx := NodeContext[T]{
		Adapter:   p.adapter,
		Node:      node,
		Key:       key,
		Children:  children,
		Ancestors: ancestors,
	}

	for _, rule := range p.nodeRules {
		if rule.AppliesTo(node) {
			return rule.Apply(ctx)
		}
	}
	return zero, renderErrorf(node, ErrUnknownNodeType,
		"don't know how to render a node with type %q, please specify a custom node rule for it", node.Type())
}

// isNil reports whether v is nil or a typed nil. For adapter and callback
// output it means "render nothing"; nil nodes are skipped.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
