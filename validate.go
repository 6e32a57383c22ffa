package dast

import (
	"fmt"
)

// ValidationOptions controls what Validate checks.
type ValidationOptions struct {
	CheckReferences bool // every reference must resolve in its collection
	AllowEmptySpans bool // allow spans with an empty value
}

// Validate performs the structural checks of the dast content model.
func Validate(st *StructuredText) []error {
	return ValidateWithOptions(st, ValidationOptions{})
}

// ValidateWithOptions performs validation with custom options. A nil input
// is valid.
func ValidateWithOptions(st *StructuredText, opts ValidationOptions) []error {
	if st == nil || st.Value == nil {
		return nil
	}
	v := &validator{st: st, opts: opts}

	if st.Value.Schema != Schema {
		v.fail("value.schema", fmt.Sprintf("schema must be %q, got %q", Schema, st.Value.Schema), nil)
	}
	root := st.Value.Document
	switch {
	case isNil(root):
		v.fail("value.document", "missing document", nil)
	case root.Type() != TypeRoot:
		v.fail("value.document", fmt.Sprintf("document must be a root node, got %q", root.Type()), root)
		v.node(root, "value.document")
	default:
		v.node(root, "value.document")
	}
	return v.errs
}

type validator struct {
	st   *StructuredText
	opts ValidationOptions
	errs []error
}

func (v *validator) fail(path, msg string, n Node) {
	v.errs = append(v.errs, &ValidationError{Path: path, Message: msg, Node: n})
}

// allowedChildren is the dast content model.
var allowedChildren = map[NodeType][]NodeType{
	TypeRoot:       {TypeParagraph, TypeHeading, TypeList, TypeCode, TypeBlockquote, TypeBlock, TypeThematicBreak},
	TypeParagraph:  {TypeSpan, TypeLink, TypeItemLink, TypeInlineItem, TypeInlineBlock},
	TypeHeading:    {TypeSpan, TypeLink, TypeItemLink, TypeInlineItem, TypeInlineBlock},
	TypeList:       {TypeListItem},
	TypeListItem:   {TypeParagraph, TypeList},
	TypeBlockquote: {TypeParagraph},
	TypeLink:       {TypeSpan},
	TypeItemLink:   {TypeSpan},
}

func allowed(parent, child NodeType) bool {
	for _, t := range allowedChildren[parent] {
		if t == child {
			return true
		}
	}
	return false
}

func (v *validator) node(n Node, path string) {
	switch x := n.(type) {
	case *Heading:
		if x.Level < 1 || x.Level > 6 {
			v.fail(join(path, "level"), fmt.Sprintf("heading level must be between 1 and 6, got %d", x.Level), n)
		}
	case *List:
		if x.Style != ListBulleted && x.Style != ListNumbered {
			v.fail(join(path, "style"), fmt.Sprintf("list style must be %q or %q, got %q", ListBulleted, ListNumbered, x.Style), n)
		}
	case *Link:
		if x.URL == "" {
			v.fail(join(path, "url"), "link has empty url", n)
		}
	case *Span:
		if x.Value == "" && !v.opts.AllowEmptySpans {
			v.fail(join(path, "value"), "span has empty value", n)
		}
	}

	if ref, ok := n.(Reference); ok {
		v.reference(ref, path)
	}

	parent, ok := n.(Parent)
	if !ok {
		return
	}
	for i, child := range parent.Nodes() {
		cpath := fmt.Sprintf("%s.children[%d]", path, i)
		if isNil(child) {
			v.fail(cpath, "nil child", n)
			continue
		}
		if !allowed(n.Type(), child.Type()) {
			v.fail(cpath, fmt.Sprintf("%s is not allowed inside %s", child.Type(), n.Type()), child)
		}
		v.node(child, cpath)
	}
}

func (v *validator) reference(ref Reference, path string) {
	if ref.RecordID() == "" {
		v.fail(join(path, "item"), fmt.Sprintf("%s has empty item", ref.Type()), ref)
		return
	}
	if !v.opts.CheckReferences {
		return
	}

	c := collectionLinks
	switch ref.Type() {
	case TypeBlock:
		c = collectionBlocks
	case TypeInlineBlock:
		c = collectionInlineBlocks
	}
	records := c.records(v.st)
	if records == nil {
		v.fail(join(path, "item"), fmt.Sprintf(".%s is not present", c), ref)
		return
	}
	if _, ok := findRecord(records, ref.RecordID()); !ok {
		v.fail(join(path, "item"), fmt.Sprintf("record %s not found in .%s", ref.RecordID(), c), ref)
	}
}
