package dast

// MetaContext is passed to a MetaTransformer.
type MetaContext struct {
	Node Node
	Meta []MetaEntry
}

// MetaTransformer turns the meta entries of a link or itemLink into element
// attributes. Its result replaces the default mapping entirely.
type MetaTransformer func(MetaContext) Attrs

// DefaultMetaTransformer maps every entry's id to its value. Later entries
// win on duplicate ids.
func DefaultMetaTransformer(ctx MetaContext) Attrs {
	attrs := make(Attrs, len(ctx.Meta))
	for _, m := range ctx.Meta {
		attrs[m.ID] = m.Value
	}
	return attrs
}

// transformMeta returns nil when there is nothing to transform.
func transformMeta(fn MetaTransformer, node Node, meta []MetaEntry) Attrs {
	if len(meta) == 0 {
		return nil
	}
	if fn == nil {
		fn = DefaultMetaTransformer
	}
	return fn(MetaContext{Node: node, Meta: meta})
}
