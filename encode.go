package dast

import (
	"bytes"
	"encoding/json"
	"io"
)

// Encode serializes st back to JSON in the API response shape.
// - Absent collections are omitted; present-but-empty ones are emitted as []
// - Does not mutate the input
func Encode(w io.Writer, st *StructuredText) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return enc.Encode(st)
}

// EncodeString is a convenience wrapper for Encode.
func EncodeString(st *StructuredText) (string, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, st); err != nil {
		return "", err
	}
	return buf.String(), nil
}

//
// JSON marshaling (adds the "type" discriminant)
//

func (st StructuredText) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, 4)
	m["value"] = st.Value
	if st.Links != nil {
		m["links"] = st.Links
	}
	if st.Blocks != nil {
		m["blocks"] = st.Blocks
	}
	if st.InlineBlocks != nil {
		m["inlineBlocks"] = st.InlineBlocks
	}
	return marshalNoEscape(m)
}

func (n *Root) MarshalJSON() ([]byte, error) {
	type alias Root
	cp := alias(*n)
	cp.Children = orEmpty(cp.Children)
	return marshalTyped(TypeRoot, cp)
}

func (n *Paragraph) MarshalJSON() ([]byte, error) {
	type alias Paragraph
	cp := alias(*n)
	cp.Children = orEmpty(cp.Children)
	return marshalTyped(TypeParagraph, cp)
}

func (n *Heading) MarshalJSON() ([]byte, error) {
	type alias Heading
	cp := alias(*n)
	cp.Children = orEmpty(cp.Children)
	return marshalTyped(TypeHeading, cp)
}

func (n *List) MarshalJSON() ([]byte, error) {
	type alias List
	cp := alias(*n)
	cp.Children = orEmpty(cp.Children)
	return marshalTyped(TypeList, cp)
}

func (n *ListItem) MarshalJSON() ([]byte, error) {
	type alias ListItem
	cp := alias(*n)
	cp.Children = orEmpty(cp.Children)
	return marshalTyped(TypeListItem, cp)
}

func (n *Blockquote) MarshalJSON() ([]byte, error) {
	type alias Blockquote
	cp := alias(*n)
	cp.Children = orEmpty(cp.Children)
	return marshalTyped(TypeBlockquote, cp)
}

func (n *Code) MarshalJSON() ([]byte, error) {
	type alias Code
	return marshalTyped(TypeCode, (*alias)(n))
}

func (n *ThematicBreak) MarshalJSON() ([]byte, error) {
	type alias ThematicBreak
	return marshalTyped(TypeThematicBreak, (*alias)(n))
}

func (n *Link) MarshalJSON() ([]byte, error) {
	type alias Link
	cp := alias(*n)
	cp.Children = orEmpty(cp.Children)
	return marshalTyped(TypeLink, cp)
}

func (n *ItemLink) MarshalJSON() ([]byte, error) {
	type alias ItemLink
	cp := alias(*n)
	cp.Children = orEmpty(cp.Children)
	return marshalTyped(TypeItemLink, cp)
}

func (n *InlineItem) MarshalJSON() ([]byte, error) {
	type alias InlineItem
	return marshalTyped(TypeInlineItem, (*alias)(n))
}

func (n *Block) MarshalJSON() ([]byte, error) {
	type alias Block
	return marshalTyped(TypeBlock, (*alias)(n))
}

func (n *InlineBlock) MarshalJSON() ([]byte, error) {
	type alias InlineBlock
	return marshalTyped(TypeInlineBlock, (*alias)(n))
}

func (n *Span) MarshalJSON() ([]byte, error) {
	type alias Span
	return marshalTyped(TypeSpan, (*alias)(n))
}

// orEmpty makes "children" always encode as an array.
func orEmpty(children []Node) []Node {
	if children == nil {
		return []Node{}
	}
	return children
}

// marshalTyped encodes v (an alias type without MarshalJSON) and prepends the
// "type" field.
func marshalTyped(t NodeType, v any) ([]byte, error) {
	body, err := marshalNoEscape(v)
	if err != nil {
		return nil, err
	}
	typ, err := marshalNoEscape(t)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.Grow(len(body) + len(typ) + 8)
	buf.WriteString(`{"type":`)
	buf.Write(typ)
	if len(body) > 2 {
		buf.WriteByte(',')
		buf.Write(body[1:])
	} else {
		buf.WriteByte('}')
	}
	return buf.Bytes(), nil
}

// marshalNoEscape is json.Marshal without HTML escaping, so that span text
// survives nested MarshalJSON calls unchanged.
func marshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
