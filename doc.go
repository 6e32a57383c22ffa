/*
Package dast decodes, validates and renders DatoCMS structured text.

Structured text is a JSON tree ("dast", the DatoCMS abstract syntax tree)
whose reference nodes point at records delivered next to the tree by the
GraphQL API. This package models the tree with one Go type per node kind,
resolves references against the side-loaded collections and renders the
result through a host-supplied Adapter, so the same document can become an
html.Node tree, a string, or anything else.

# Quick Start

Decode a structured text field as returned by the API:

	st, err := dast.DecodeString(input)
	if err != nil {
		log.Fatal(err)
	}

Render it to HTML with the htmlrender adapter:

	out, err := dast.Render(st, dast.Options[*html.Node]{
		Adapter: htmlrender.Adapter{},
		RenderBlock: func(ctx dast.BlockContext) (*html.Node, error) {
			return htmlrender.Element("figure", nil), nil
		},
	})
	s, _ := htmlrender.String(out)

# Input Shapes

Decode accepts three shapes:

  - an API response: {"value": {...}, "links": [...], "blocks": [...], "inlineBlocks": [...]}
  - a document: {"schema": "dast", "document": {"type": "root", ...}}
  - a single node: {"type": "paragraph", ...}

Documents and nodes carry no side-loaded records; rendering a reference node
from one of them fails with ErrMissingCollection. A collection that is present
but lacks the record fails with ErrRecordNotFound.

# Rules

Every node is rendered by the first rule whose predicate matches it:

 1. the built-in root, inlineItem, itemLink, block and inlineBlock rules
 2. Options.CustomNodeRules, in order
 3. the default rules for paragraph, heading, list, listItem, blockquote,
    code, link, thematicBreak and span

Override a default by registering a custom rule:

	rule := dast.NewNodeRule(dast.IsHeading, func(ctx dast.NodeContext[*html.Node]) (*html.Node, error) {
		h := ctx.Node.(*dast.Heading)
		return ctx.Adapter.RenderNode("h"+strconv.Itoa(h.Level+1), dast.Attrs{dast.KeyAttr: ctx.Key}, ctx.Children), nil
	})

Marks are resolved the same way with CustomMarkRules ahead of the defaults.
The first mark listed on a span is the outermost element.

# Keys

Each rendered node receives a key of the form "t-<index>", its position
among its siblings. The root is "t-0". Adapters that implement Keyer also
get the key applied to callback output.

# Errors

Decode errors are *Error values carrying a path such as
"value.document.children[2].level". Render failures are *RenderError values
wrapping one of ErrMissingCallback, ErrMissingCollection, ErrRecordNotFound
or ErrUnknownNodeType. Render rejects an Options.RootTag that is not a plain
element name (see ValidTagName) with ErrInvalidRootTag before walking:

	if _, err := dast.Render(st, opts); err != nil {
		var rerr *dast.RenderError
		if errors.As(err, &rerr) {
			fmt.Println(rerr.Node.Type(), rerr.Message)
		}
	}

# Traversal and Validation

Walk visits nodes depth-first with a WalkContext; return ErrSkipChildren to
prune a subtree. Collect, References and PlainText are built on it.
Validate checks the content model; ValidateWithOptions can additionally
verify that every reference resolves.

# Companion Packages

  - htmlrender: Adapter for golang.org/x/net/html nodes, plus record stubs
  - responsive: responsive and naked image components, srcset building and
    blur-up thumbnails
  - video: mux-player element attributes for video fields
  - seo: grouping and rendering of _seoMetaTags
  - cssstyle: inline CSS from camelCase style maps

# Thread Safety

Documents are safe for concurrent reads. A Renderer holds only its options
and may be shared between goroutines.
*/
package dast
