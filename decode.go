package dast

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Decode parses any of the accepted input shapes into a StructuredText:
//   - an API response: {"value": {...}, "links": [...], "blocks": [...], "inlineBlocks": [...]}
//   - a bare document: {"schema": "dast", "document": {...}}
//   - a bare node: {"type": "...", ...}
//
// Bare documents and nodes come back with every collection absent (nil).
// A JSON null decodes to a nil StructuredText and no error.
func Decode(r io.Reader) (*StructuredText, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, wrap("decode", "", err)
	}
	if dec.More() {
		return nil, wrap("decode", "", fmt.Errorf("%w: trailing data", ErrUnexpectedToken))
	}
	return parseSource(v)
}

// DecodeString is a convenience wrapper for Decode.
func DecodeString(s string) (*StructuredText, error) {
	return Decode(strings.NewReader(s))
}

// UnmarshalJSON accepts the same shapes as Decode.
func (st *StructuredText) UnmarshalJSON(b []byte) error {
	v, err := decodeAnyUseNumber(b)
	if err != nil {
		return wrap("decode", "", err)
	}
	parsed, err := parseSource(v)
	if err != nil {
		return err
	}
	if parsed == nil {
		*st = StructuredText{}
		return nil
	}
	*st = *parsed
	return nil
}

// UnmarshalJSON parses a {"schema", "document"} object.
func (d *Document) UnmarshalJSON(b []byte) error {
	v, err := decodeAnyUseNumber(b)
	if err != nil {
		return wrap("decode", "", err)
	}
	parsed, err := parseDocument(v, "")
	if err != nil {
		return err
	}
	*d = *parsed
	return nil
}

// DecodeNode parses a single node (and its subtree) from JSON.
func DecodeNode(b []byte) (Node, error) {
	v, err := decodeAnyUseNumber(b)
	if err != nil {
		return nil, wrap("decode", "", err)
	}
	return parseNode(v, "")
}

func parseSource(v any) (*StructuredText, error) {
	if v == nil {
		return nil, nil
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, wrap("decode", "", ErrExpectedObject)
	}

	if _, ok := obj["value"]; ok {
		return parseResponse(obj)
	}
	if _, ok := obj["schema"]; ok {
		doc, err := parseDocument(obj, "")
		if err != nil {
			return nil, err
		}
		return FromDocument(doc), nil
	}
	if _, ok := obj["type"]; ok {
		n, err := parseNode(obj, "")
		if err != nil {
			return nil, err
		}
		return FromNode(n), nil
	}
	return nil, wrap("decode", "", ErrUnknownShape)
}

func parseResponse(obj map[string]any) (*StructuredText, error) {
	st := &StructuredText{}

	if v := obj["value"]; v != nil {
		doc, err := parseDocument(v, "value")
		if err != nil {
			return nil, err
		}
		st.Value = doc
	}

	var err error
	if st.Links, err = parseRecords(obj, "links"); err != nil {
		return nil, err
	}
	if st.Blocks, err = parseRecords(obj, "blocks"); err != nil {
		return nil, err
	}
	if st.InlineBlocks, err = parseRecords(obj, "inlineBlocks"); err != nil {
		return nil, err
	}
	return st, nil
}

func parseDocument(v any, path string) (*Document, error) {
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, wrap("document", path, ErrExpectedObject)
	}

	schema, _ := obj["schema"].(string)
	if schema != Schema {
		return nil, wrap("document", join(path, "schema"), ErrInvalidSchema)
	}

	docPath := join(path, "document")
	raw, ok := obj["document"]
	if !ok || raw == nil {
		return &Document{Schema: schema}, nil
	}
	n, err := parseNode(raw, docPath)
	if err != nil {
		return nil, err
	}
	if n.Type() != TypeRoot {
		return nil, wrap("document", docPath, ErrExpectedRoot)
	}
	return &Document{Schema: schema, Document: n}, nil
}

// parseRecords returns nil when key is absent (or null) and a non-nil slice
// otherwise, so that "present but empty" survives decoding.
func parseRecords(obj map[string]any, key string) ([]Record, error) {
	v, ok := obj[key]
	if !ok || v == nil {
		return nil, nil
	}
	arr, ok := v.([]any)
	if !ok {
		return nil, wrap("record", key, ErrExpectedArray)
	}

	out := make([]Record, 0, len(arr))
	for i, item := range arr {
		path := fmt.Sprintf("%s[%d]", key, i)
		m, ok := item.(map[string]any)
		if !ok {
			return nil, wrap("record", path, ErrExpectedObject)
		}
		r := Record(m)
		if r.ID() == "" {
			return nil, wrap("record", path, ErrMissingID)
		}
		out = append(out, r)
	}
	return out, nil
}

func parseNode(v any, path string) (Node, error) {
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, wrap("node", path, ErrExpectedObject)
	}

	t, ok := obj["type"]
	if !ok || t == nil {
		return nil, wrap("node", path, ErrMissingType)
	}
	ts, ok := t.(string)
	if !ok || ts == "" {
		return nil, wrap("node", path, ErrMissingType)
	}

	p := fieldParser{obj: obj, path: path}

	var n Node
	switch NodeType(ts) {
	case TypeRoot:
		n = &Root{Children: p.children()}
	case TypeParagraph:
		n = &Paragraph{Style: p.str("style"), Children: p.children()}
	case TypeHeading:
		n = &Heading{Level: p.integer("level"), Style: p.str("style"), Children: p.children()}
	case TypeList:
		n = &List{Style: p.str("style"), Children: p.children()}
	case TypeListItem:
		n = &ListItem{Children: p.children()}
	case TypeBlockquote:
		n = &Blockquote{Attribution: p.str("attribution"), Children: p.children()}
	case TypeCode:
		n = &Code{Code: p.str("code"), Language: p.str("language"), Highlight: p.integers("highlight")}
	case TypeThematicBreak:
		n = &ThematicBreak{}
	case TypeLink:
		n = &Link{URL: p.str("url"), Meta: p.meta(), Children: p.children()}
	case TypeItemLink:
		n = &ItemLink{Item: p.str("item"), Meta: p.meta(), Children: p.children()}
	case TypeInlineItem:
		n = &InlineItem{Item: p.str("item")}
	case TypeBlock:
		n = &Block{Item: p.str("item")}
	case TypeInlineBlock:
		n = &InlineBlock{Item: p.str("item")}
	case TypeSpan:
		n = &Span{Value: p.str("value"), Marks: p.marks()}
	default:
		return nil, wrap("node", join(path, "type"), fmt.Errorf("%w %q", ErrUnknownType, ts))
	}

	if p.err != nil {
		return nil, p.err
	}
	return n, nil
}

// fieldParser reads typed fields off a decoded JSON object and keeps the
// first error it encounters.
type fieldParser struct {
	obj  map[string]any
	path string
	err  error
}

func (p *fieldParser) fail(field string, err error) {
	if p.err == nil {
		p.err = wrap("node", join(p.path, field), err)
	}
}

func (p *fieldParser) str(field string) string {
	v, ok := p.obj[field]
	if !ok || v == nil {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		p.fail(field, ErrExpectedString)
		return ""
	}
	return s
}

func (p *fieldParser) integer(field string) int {
	v, ok := p.obj[field]
	if !ok || v == nil {
		return 0
	}
	num, ok := v.(json.Number)
	if !ok {
		p.fail(field, ErrInvalidNumber)
		return 0
	}
	i, err := num.Int64()
	if err != nil {
		p.fail(field, ErrInvalidNumber)
		return 0
	}
	return int(i)
}

func (p *fieldParser) integers(field string) []int {
	v, ok := p.obj[field]
	if !ok || v == nil {
		return nil
	}
	arr, ok := v.([]any)
	if !ok {
		p.fail(field, ErrExpectedArray)
		return nil
	}
	out := make([]int, 0, len(arr))
	for i, it := range arr {
		num, ok := it.(json.Number)
		if !ok {
			p.fail(fmt.Sprintf("%s[%d]", field, i), ErrInvalidNumber)
			return nil
		}
		n, err := num.Int64()
		if err != nil {
			p.fail(fmt.Sprintf("%s[%d]", field, i), ErrInvalidNumber)
			return nil
		}
		out = append(out, int(n))
	}
	return out
}

func (p *fieldParser) marks() []string {
	v, ok := p.obj["marks"]
	if !ok || v == nil {
		return nil
	}
	arr, ok := v.([]any)
	if !ok {
		p.fail("marks", ErrInvalidMarks)
		return nil
	}
	marks := make([]string, 0, len(arr))
	for _, it := range arr {
		s, ok := it.(string)
		if !ok {
			p.fail("marks", ErrInvalidMarks)
			return nil
		}
		marks = append(marks, s)
	}
	return marks
}

func (p *fieldParser) meta() []MetaEntry {
	v, ok := p.obj["meta"]
	if !ok || v == nil {
		return nil
	}
	arr, ok := v.([]any)
	if !ok {
		p.fail("meta", ErrInvalidMeta)
		return nil
	}
	out := make([]MetaEntry, 0, len(arr))
	for _, it := range arr {
		m, ok := it.(map[string]any)
		if !ok {
			p.fail("meta", ErrInvalidMeta)
			return nil
		}
		id, idOK := m["id"].(string)
		value, valueOK := m["value"].(string)
		if !idOK || !valueOK {
			p.fail("meta", ErrInvalidMeta)
			return nil
		}
		out = append(out, MetaEntry{ID: id, Value: value})
	}
	return out
}

func (p *fieldParser) children() []Node {
	if p.err != nil {
		return nil
	}
	v, ok := p.obj["children"]
	if !ok || v == nil {
		return nil
	}
	arr, ok := v.([]any)
	if !ok {
		p.fail("children", ErrExpectedArray)
		return nil
	}
	out := make([]Node, 0, len(arr))
	for i, item := range arr {
		n, err := parseNode(item, fmt.Sprintf("%s[%d]", join(p.path, "children"), i))
		if err != nil {
			if p.err == nil {
				p.err = err
			}
			return nil
		}
		out = append(out, n)
	}
	return out
}

func join(path, field string) string {
	if path == "" {
		return field
	}
	return path + "." + field
}

func decodeAnyUseNumber(b []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}
