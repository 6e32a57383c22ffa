package dast

import (
	"encoding/json"
	"strings"
)

//
// Node model
//

// NodeType is the discriminant carried in the "type" field of every dast node.
type NodeType string

const (
	TypeRoot          NodeType = "root"
	TypeParagraph     NodeType = "paragraph"
	TypeHeading       NodeType = "heading"
	TypeList          NodeType = "list"
	TypeListItem      NodeType = "listItem"
	TypeBlockquote    NodeType = "blockquote"
	TypeCode          NodeType = "code"
	TypeThematicBreak NodeType = "thematicBreak"
	TypeLink          NodeType = "link"
	TypeItemLink      NodeType = "itemLink"
	TypeInlineItem    NodeType = "inlineItem"
	TypeBlock         NodeType = "block"
	TypeInlineBlock   NodeType = "inlineBlock"
	TypeSpan          NodeType = "span"
)

// Default mark names. Marks are open-ended: any string is accepted on a span.
const (
	MarkStrong        = "strong"
	MarkCode          = "code"
	MarkEmphasis      = "emphasis"
	MarkUnderline     = "underline"
	MarkStrikethrough = "strikethrough"
	MarkHighlight     = "highlight"
)

// List styles.
const (
	ListBulleted = "bulleted"
	ListNumbered = "numbered"
)

// Node is one element of a dast tree. The concrete types below form a closed
// set; code that switches on them should handle every kind.
type Node interface {
	Type() NodeType
}

// Parent is implemented by nodes that hold an ordered list of children.
type Parent interface {
	Node
	Nodes() []Node
}

// Reference is implemented by the node kinds that point at a side-loaded
// record by ID instead of embedding it.
type Reference interface {
	Node
	RecordID() string
}

// MetaEntry is one key/value pair attached to a link or itemLink node.
type MetaEntry struct {
	ID    string `json:"id"`
	Value string `json:"value"`
}

type Root struct {
	Children []Node `json:"children"`
}

type Paragraph struct {
	Style    string `json:"style,omitempty"`
	Children []Node `json:"children"`
}

type Heading struct {
	Level    int    `json:"level"`
	Style    string `json:"style,omitempty"`
	Children []Node `json:"children"`
}

type List struct {
	Style    string `json:"style"`
	Children []Node `json:"children"`
}

type ListItem struct {
	Children []Node `json:"children"`
}

type Blockquote struct {
	Attribution string `json:"attribution,omitempty"`
	Children    []Node `json:"children"`
}

type Code struct {
	Code      string `json:"code"`
	Language  string `json:"language,omitempty"`
	Highlight []int  `json:"highlight,omitempty"`
}

type ThematicBreak struct{}

type Link struct {
	URL      string      `json:"url"`
	Meta     []MetaEntry `json:"meta,omitempty"`
	Children []Node      `json:"children"`
}

type ItemLink struct {
	Item     string      `json:"item"`
	Meta     []MetaEntry `json:"meta,omitempty"`
	Children []Node      `json:"children"`
}

type InlineItem struct {
	Item string `json:"item"`
}

type Block struct {
	Item string `json:"item"`
}

type InlineBlock struct {
	Item string `json:"item"`
}

// Span is the only text-bearing node. Marks are applied in declaration
// order, the first mark being the outermost.
type Span struct {
	Value string   `json:"value"`
	Marks []string `json:"marks,omitempty"`
}

func (*Root) Type() NodeType          { return TypeRoot }
func (*Paragraph) Type() NodeType     { return TypeParagraph }
func (*Heading) Type() NodeType       { return TypeHeading }
func (*List) Type() NodeType          { return TypeList }
func (*ListItem) Type() NodeType      { return TypeListItem }
func (*Blockquote) Type() NodeType    { return TypeBlockquote }
func (*Code) Type() NodeType          { return TypeCode }
func (*ThematicBreak) Type() NodeType { return TypeThematicBreak }
func (*Link) Type() NodeType          { return TypeLink }
func (*ItemLink) Type() NodeType      { return TypeItemLink }
func (*InlineItem) Type() NodeType    { return TypeInlineItem }
func (*Block) Type() NodeType         { return TypeBlock }
func (*InlineBlock) Type() NodeType   { return TypeInlineBlock }
func (*Span) Type() NodeType          { return TypeSpan }

func (n *Root) Nodes() []Node       { return n.Children }
func (n *Paragraph) Nodes() []Node  { return n.Children }
func (n *Heading) Nodes() []Node    { return n.Children }
func (n *List) Nodes() []Node       { return n.Children }
func (n *ListItem) Nodes() []Node   { return n.Children }
func (n *Blockquote) Nodes() []Node { return n.Children }
func (n *Link) Nodes() []Node       { return n.Children }
func (n *ItemLink) Nodes() []Node   { return n.Children }

func (n *ItemLink) RecordID() string    { return n.Item }
func (n *InlineItem) RecordID() string  { return n.Item }
func (n *Block) RecordID() string       { return n.Item }
func (n *InlineBlock) RecordID() string { return n.Item }

// HasMark reports whether the span carries the given mark.
func (n *Span) HasMark(mark string) bool {
	for _, m := range n.Marks {
		if m == mark {
			return true
		}
	}
	return false
}

//
// Documents and side-loaded records
//

// Schema is the only document schema understood by this package.
const Schema = "dast"

// Document is a dast document: a schema tag and a root node.
type Document struct {
	Schema   string `json:"schema"`
	Document Node   `json:"document"`
}

// Record is a side-loaded record referenced from the tree by ID. Its shape is
// defined by the CMS project; only "id" and "__typename" are interpreted.
type Record map[string]any

// ID returns the record's "id" field.
func (r Record) ID() string {
	switch v := r["id"].(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	}
	return ""
}

// Typename returns the record's "__typename" field.
func (r Record) Typename() string {
	s, _ := r["__typename"].(string)
	return s
}

// String returns a string field of the record, or "" when absent.
func (r Record) String(field string) string {
	s, _ := r[field].(string)
	return s
}

// StructuredText is the value returned by the CMS GraphQL API for a
// structured text field.
//
// A nil collection means the collection was not requested at all; a non-nil
// empty slice means it was requested and is empty. The renderer reports the
// two situations with different errors.
type StructuredText struct {
	Value        *Document `json:"value"`
	Links        []Record  `json:"links,omitempty"`
	Blocks       []Record  `json:"blocks,omitempty"`
	InlineBlocks []Record  `json:"inlineBlocks,omitempty"`
}

// FromDocument wraps a bare document. All side-loaded collections are absent.
func FromDocument(doc *Document) *StructuredText {
	if doc == nil {
		return nil
	}
	return &StructuredText{Value: doc}
}

// FromNode wraps a bare node into a document. All side-loaded collections
// are absent.
func FromNode(n Node) *StructuredText {
	if isNil(n) {
		return nil
	}
	return &StructuredText{Value: &Document{Schema: Schema, Document: n}}
}

// Root returns the document root, or nil when there is nothing to render.
func (st *StructuredText) Root() Node {
	if st == nil || st.Value == nil || isNil(st.Value.Document) {
		return nil
	}
	return st.Value.Document
}

// FindLink returns the record with the given ID from Links.
func (st *StructuredText) FindLink(id string) (Record, bool) {
	if st == nil {
		return nil, false
	}
	return findRecord(st.Links, id)
}

// FindBlock returns the record with the given ID from Blocks.
func (st *StructuredText) FindBlock(id string) (Record, bool) {
	if st == nil {
		return nil, false
	}
	return findRecord(st.Blocks, id)
}

// FindInlineBlock returns the record with the given ID from InlineBlocks.
func (st *StructuredText) FindInlineBlock(id string) (Record, bool) {
	if st == nil {
		return nil, false
	}
	return findRecord(st.InlineBlocks, id)
}

func findRecord(records []Record, id string) (Record, bool) {
	for _, r := range records {
		if r.ID() == id {
			return r, true
		}
	}
	return nil, false
}

//
// Builders
//

func NewDocument(root *Root) *Document {
	return &Document{Schema: Schema, Document: root}
}

// NewStructuredText wraps doc as an API response with present (possibly
// empty) collections.
func NewStructuredText(doc *Document) *StructuredText {
	return &StructuredText{
		Value:        doc,
		Links:        []Record{},
		Blocks:       []Record{},
		InlineBlocks: []Record{},
	}
}

// AddLink appends records to Links.
func (st *StructuredText) AddLink(records ...Record) *StructuredText {
	if st.Links == nil {
		st.Links = []Record{}
	}
	st.Links = append(st.Links, records...)
	return st
}

// AddBlock appends records to Blocks.
func (st *StructuredText) AddBlock(records ...Record) *StructuredText {
	if st.Blocks == nil {
		st.Blocks = []Record{}
	}
	st.Blocks = append(st.Blocks, records...)
	return st
}

// AddInlineBlock appends records to InlineBlocks.
func (st *StructuredText) AddInlineBlock(records ...Record) *StructuredText {
	if st.InlineBlocks == nil {
		st.InlineBlocks = []Record{}
	}
	st.InlineBlocks = append(st.InlineBlocks, records...)
	return st
}

func NewRoot(children ...Node) *Root { return &Root{Children: children} }

func NewParagraph(children ...Node) *Paragraph { return &Paragraph{Children: children} }

func NewHeading(level int, children ...Node) *Heading {
	return &Heading{Level: level, Children: children}
}

func NewList(style string, items ...Node) *List { return &List{Style: style, Children: items} }

func NewListItem(children ...Node) *ListItem { return &ListItem{Children: children} }

func NewBlockquote(attribution string, children ...Node) *Blockquote {
	return &Blockquote{Attribution: attribution, Children: children}
}

func NewCode(code, language string) *Code { return &Code{Code: code, Language: language} }

func NewThematicBreak() *ThematicBreak { return &ThematicBreak{} }

func NewLink(url string, children ...Node) *Link { return &Link{URL: url, Children: children} }

func NewItemLink(item string, children ...Node) *ItemLink {
	return &ItemLink{Item: item, Children: children}
}

func NewInlineItem(item string) *InlineItem { return &InlineItem{Item: item} }

func NewBlock(item string) *Block { return &Block{Item: item} }

func NewInlineBlock(item string) *InlineBlock { return &InlineBlock{Item: item} }

func NewSpan(value string, marks ...string) *Span {
	return &Span{Value: value, Marks: marks}
}

// WithMeta sets the meta entries of a link from id/value pairs.
func (n *Link) WithMeta(pairs ...string) *Link {
	n.Meta = metaFromPairs(pairs)
	return n
}

// WithMeta sets the meta entries of an itemLink from id/value pairs.
func (n *ItemLink) WithMeta(pairs ...string) *ItemLink {
	n.Meta = metaFromPairs(pairs)
	return n
}

func metaFromPairs(pairs []string) []MetaEntry {
	out := make([]MetaEntry, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, MetaEntry{ID: pairs[i], Value: pairs[i+1]})
	}
	return out
}

//
// Text helpers
//

// PlainText concatenates the text held by n. Block-level siblings are
// separated by a newline; code blocks contribute their source.
func PlainText(n Node) string {
	if isNil(n) {
		return ""
	}
	switch x := n.(type) {
	case *Span:
		return x.Value
	case *Code:
		return x.Code
	case Parent:
		sep := ""
		if isBlockContainer(x) {
			sep = "\n"
		}
		parts := make([]string, 0, len(x.Nodes()))
		for _, c := range x.Nodes() {
			if t := PlainText(c); t != "" {
				parts = append(parts, t)
			}
		}
		return strings.Join(parts, sep)
	}
	return ""
}

func isBlockContainer(n Node) bool {
	switch n.Type() {
	case TypeRoot, TypeList, TypeListItem, TypeBlockquote:
		return true
	}
	return false
}
