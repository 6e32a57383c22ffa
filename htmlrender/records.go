package htmlrender

import (
	"golang.org/x/net/html"

	"github.com/derickschaefer/dast"
)

// Record stubs render side-loaded records as placeholder elements carrying
// the record id and __typename. They let a document with references be
// rendered without project-specific templates.

func recordAttrs(r dast.Record) dast.Attrs {
	attrs := dast.Attrs{"data-record-id": r.ID()}
	if tn := r.Typename(); tn != "" {
		attrs["data-record-type"] = tn
	}
	return attrs
}

// InlineRecordStub renders an inlineItem as an empty span.
func InlineRecordStub(ctx dast.InlineRecordContext) (*html.Node, error) {
	return Element("span", recordAttrs(ctx.Record)), nil
}

// LinkToRecordStub renders an itemLink as an anchor. The href is the
// record's slug when it has one, otherwise a fragment link to its id.
func LinkToRecordStub(ctx dast.RecordLinkContext[*html.Node]) (*html.Node, error) {
	attrs := recordAttrs(ctx.Record)
	for k, v := range ctx.TransformedMeta {
		attrs[k] = v
	}
	if slug := ctx.Record.String("slug"); slug != "" {
		attrs["href"] = "/" + slug
	} else {
		attrs["href"] = "#" + ctx.Record.ID()
	}
	return Element("a", attrs, ctx.Children...), nil
}

// BlockStub renders a block as an empty div.
func BlockStub(ctx dast.BlockContext) (*html.Node, error) {
	return Element("div", recordAttrs(ctx.Record)), nil
}

// InlineBlockStub renders an inlineBlock as an empty span.
func InlineBlockStub(ctx dast.BlockContext) (*html.Node, error) {
	return Element("span", recordAttrs(ctx.Record)), nil
}

// WithRecordStubs fills every unset record callback of opts with a stub.
func WithRecordStubs(opts dast.Options[*html.Node]) dast.Options[*html.Node] {
	if opts.RenderInlineRecord == nil {
		opts.RenderInlineRecord = InlineRecordStub
	}
	if opts.RenderLinkToRecord == nil {
		opts.RenderLinkToRecord = LinkToRecordStub
	}
	if opts.RenderBlock == nil {
		opts.RenderBlock = BlockStub
	}
	if opts.RenderInlineBlock == nil {
		opts.RenderInlineBlock = InlineBlockStub
	}
	return opts
}

// RenderString renders st with an Adapter and returns the HTML. Unset
// adapter options default to Adapter{}.
func RenderString(st *dast.StructuredText, opts dast.Options[*html.Node]) (string, error) {
	if opts.Adapter == nil {
		opts.Adapter = Adapter{}
	}
	n, err := dast.Render(st, opts)
	if err != nil {
		return "", err
	}
	return String(n)
}
