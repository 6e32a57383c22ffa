package dast

import (
	"errors"
	"fmt"
)

//
// Errors (typed + path aware)
//

var (
	ErrMissingType     = errors.New("missing type")
	ErrUnknownType     = errors.New("unknown node type")
	ErrExpectedObject  = errors.New("expected JSON object")
	ErrExpectedArray   = errors.New("expected JSON array")
	ErrExpectedString  = errors.New("expected JSON string")
	ErrInvalidNumber   = errors.New("invalid number")
	ErrInvalidMarks    = errors.New("marks must be an array of strings")
	ErrInvalidMeta     = errors.New("meta must be an array of {id, value} objects")
	ErrInvalidSchema   = errors.New(`schema must be "dast"`)
	ErrExpectedRoot    = errors.New("document must be a root node")
	ErrMissingID       = errors.New("record is missing its id")
	ErrUnknownShape    = errors.New("expected a structured text response, a dast document or a node")
	ErrUnexpectedToken = errors.New("unexpected JSON token")
)

// Render failures. Every *RenderError wraps exactly one of these, except
// ErrNoAdapter and ErrInvalidRootTag, which Render returns before walking.
var (
	ErrNoAdapter         = errors.New("no adapter configured")
	ErrInvalidRootTag    = errors.New("invalid root tag")
	ErrMissingCallback   = errors.New("missing render callback")
	ErrMissingCollection = errors.New("side-loaded collection not present")
	ErrRecordNotFound    = errors.New("record not found")
	ErrUnknownNodeType   = errors.New("no rule for node")
)

type Error struct {
	Op   string // "decode", "node", "record", "document"
	Path string // e.g. "value.document.children[3].marks"
	Err  error
}

func (e *Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("dast %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("dast %s at %s: %v", e.Op, e.Path, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func wrap(op, path string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Path: path, Err: err}
}

// RenderError is returned when a document cannot be rendered: a reference
// node has no callback, the side-loaded data is missing or incomplete, or no
// rule knows the node.
type RenderError struct {
	Message string
	Node    Node
	Err     error
}

func (e *RenderError) Error() string {
	return "dast render: " + e.Message
}

func (e *RenderError) Unwrap() error { return e.Err }

func renderErrorf(node Node, err error, format string, args ...any) *RenderError {
	return &RenderError{
		Message: fmt.Sprintf(format, args...),
		Node:    node,
		Err:     err,
	}
}

// ValidationError represents a validation error with context.
type ValidationError struct {
	Path    string
	Message string
	Node    Node // Optional reference to problematic node
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}
