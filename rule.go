package dast

// Attrs are the attributes handed to an adapter for one element. The
// synthesized key travels under KeyAttr; adapters that have no use for keys
// drop it.
type Attrs map[string]string

// KeyAttr is the attribute name under which the reconciliation key is passed.
const KeyAttr = "key"

// NodeContext is what a node rule receives.
type NodeContext[T any] struct {
	Adapter Adapter[T]
	Node    Node
	Key     string
	// Children holds the already-rendered children of Node, nil outputs
	// removed. It is nil for leaf kinds.
	Children []T
	// Ancestors lists the enclosing nodes, nearest first.
	Ancestors []Node
}

// MarkContext is what a mark rule receives. Children holds the single
// output the mark wraps.
type MarkContext[T any] struct {
	Adapter   Adapter[T]
	Mark      string
	Key       string
	Children  []T
	Ancestors []Node
}

// NodeRule pairs a node predicate with the transform used when it matches.
type NodeRule[T any] struct {
	appliesTo func(Node) bool
	transform func(NodeContext[T]) (T, error)
}

// MarkRule pairs a mark-name predicate with the transform used when it
// matches.
type MarkRule[T any] struct {
	appliesTo func(string) bool
	transform func(MarkContext[T]) (T, error)
}

// NewNodeRule registers a node rule.
func NewNodeRule[T any](predicate func(Node) bool, transform func(NodeContext[T]) (T, error)) NodeRule[T] {
	return NodeRule[T]{appliesTo: predicate, transform: transform}
}

// NewMarkRule registers a mark rule.
func NewMarkRule[T any](predicate func(string) bool, transform func(MarkContext[T]) (T, error)) MarkRule[T] {
	return MarkRule[T]{appliesTo: predicate, transform: transform}
}

// AppliesTo reports whether the rule matches n.
func (r NodeRule[T]) AppliesTo(n Node) bool {
	return r.appliesTo != nil && r.appliesTo(n)
}

// Apply runs the rule's transform.
func (r NodeRule[T]) Apply(ctx NodeContext[T]) (T, error) {
	return r.transform(ctx)
}

// AppliesTo reports whether the rule matches mark.
func (r MarkRule[T]) AppliesTo(mark string) bool {
	return r.appliesTo != nil && r.appliesTo(mark)
}

// Apply runs the rule's transform.
func (r MarkRule[T]) Apply(ctx MarkContext[T]) (T, error) {
	return r.transform(ctx)
}

//
// Predicates
//

// IsType returns a predicate matching any of the given node types.
func IsType(types ...NodeType) func(Node) bool {
	return func(n Node) bool {
		if n == nil {
			return false
		}
		for _, t := range types {
			if n.Type() == t {
				return true
			}
		}
		return false
	}
}

// IsMark returns a predicate matching any of the given mark names.
func IsMark(names ...string) func(string) bool {
	return func(mark string) bool {
		for _, name := range names {
			if mark == name {
				return true
			}
		}
		return false
	}
}

func IsRoot(n Node) bool          { return IsType(TypeRoot)(n) }
func IsParagraph(n Node) bool     { return IsType(TypeParagraph)(n) }
func IsHeading(n Node) bool       { return IsType(TypeHeading)(n) }
func IsList(n Node) bool          { return IsType(TypeList)(n) }
func IsListItem(n Node) bool      { return IsType(TypeListItem)(n) }
func IsBlockquote(n Node) bool    { return IsType(TypeBlockquote)(n) }
func IsCode(n Node) bool          { return IsType(TypeCode)(n) }
func IsThematicBreak(n Node) bool { return IsType(TypeThematicBreak)(n) }
func IsLink(n Node) bool          { return IsType(TypeLink)(n) }
func IsItemLink(n Node) bool      { return IsType(TypeItemLink)(n) }
func IsInlineItem(n Node) bool    { return IsType(TypeInlineItem)(n) }
func IsBlock(n Node) bool         { return IsType(TypeBlock)(n) }
func IsInlineBlock(n Node) bool   { return IsType(TypeInlineBlock)(n) }
func IsSpan(n Node) bool          { return IsType(TypeSpan)(n) }
