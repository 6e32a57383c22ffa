package dast

// builtinRules returns the rules that always run first: the root wrapper and
// the four reference kinds, in that order.
func (r *Renderer[T]) builtinRules(st *StructuredText) []NodeRule[T] {
	return []NodeRule[T]{
		NewNodeRule(IsRoot, func(ctx NodeContext[T]) (T, error) {
			return ctx.Adapter.RenderNode(r.opts.RootTag, Attrs{KeyAttr: ctx.Key}, ctx.Children), nil
		}),

		NewNodeRule(IsInlineItem, func(ctx NodeContext[T]) (T, error) {
			var zero T
			node := ctx.Node.(*InlineItem)
			if r.opts.RenderInlineRecord == nil {
				return zero, missingCallback(node, "renderInlineRecord")
			}
			record, err := resolve(node, st, collectionLinks)
			if err != nil {
				return zero, err
			}
			out, err := r.opts.RenderInlineRecord(InlineRecordContext{Record: record})
			if err != nil {
				return zero, err
			}
			return r.withKey(ctx.Adapter, out, ctx.Key), nil
		}),

		NewNodeRule(IsItemLink, func(ctx NodeContext[T]) (T, error) {
			var zero T
			node := ctx.Node.(*ItemLink)
			if r.opts.RenderLinkToRecord == nil {
				return zero, missingCallback(node, "renderLinkToRecord")
			}
			record, err := resolve(node, st, collectionLinks)
			if err != nil {
				return zero, err
			}
			out, err := r.opts.RenderLinkToRecord(RecordLinkContext[T]{
				Record:          record,
				Children:        ctx.Children,
				TransformedMeta: transformMeta(r.opts.MetaTransformer, node, node.Meta),
			})
			if err != nil {
				return zero, err
			}
			return r.withKey(ctx.Adapter, out, ctx.Key), nil
		}),

		NewNodeRule(IsBlock, func(ctx NodeContext[T]) (T, error) {
			var zero T
			node := ctx.Node.(*Block)
			if r.opts.RenderBlock == nil {
				return zero, missingCallback(node, "renderBlock")
			}
			record, err := resolve(node, st, collectionBlocks)
			if err != nil {
				return zero, err
			}
			out, err := r.opts.RenderBlock(BlockContext{Record: record})
			if err != nil {
				return zero, err
			}
			return r.withKey(ctx.Adapter, out, ctx.Key), nil
		}),

		NewNodeRule(IsInlineBlock, func(ctx NodeContext[T]) (T, error) {
			var zero T
			node := ctx.Node.(*InlineBlock)
			if r.opts.RenderInlineBlock == nil {
				return zero, missingCallback(node, "renderInlineBlock")
			}
			record, err := resolve(node, st, collectionInlineBlocks)
			if err != nil {
				return zero, err
			}
			out, err := r.opts.RenderInlineBlock(BlockContext{Record: record})
			if err != nil {
				return zero, err
			}
			return r.withKey(ctx.Adapter, out, ctx.Key), nil
		}),
	}
}

func (r *Renderer[T]) withKey(adapter Adapter[T], out T, key string) T {
	if isNil(out) {
		return out
	}
	if k, ok := adapter.(Keyer[T]); ok {
		return k.WithKey(out, key)
	}
	return out
}

type collection string

const (
	collectionLinks        collection = "links"
	collectionBlocks       collection = "blocks"
	collectionInlineBlocks collection = "inlineBlocks"
)

func (c collection) records(st *StructuredText) []Record {
	if st == nil {
		return nil
	}
	switch c {
	case collectionLinks:
		return st.Links
	case collectionBlocks:
		return st.Blocks
	case collectionInlineBlocks:
		return st.InlineBlocks
	}
	return nil
}

// resolve finds the record a reference node points at. An absent collection
// and a missing record are reported with different errors.
func resolve(node Reference, st *StructuredText, c collection) (Record, error) {
	records := c.records(st)
	if records == nil {
		return nil, renderErrorf(node, ErrMissingCollection,
			"the document contains %s node, but .%s is not present", article(node.Type()), c)
	}
	record, ok := findRecord(records, node.RecordID())
	if !ok {
		return nil, renderErrorf(node, ErrRecordNotFound,
			"the document contains %s node, but cannot find a record with ID %s inside .%s",
			article(node.Type()), node.RecordID(), c)
	}
	return record, nil
}

func missingCallback(node Node, callback string) error {
	return renderErrorf(node, ErrMissingCallback,
		"the document contains %s node, but no %s callback is specified", article(node.Type()), callback)
}

func article(t NodeType) string {
	switch t {
	case TypeInlineItem, TypeItemLink, TypeInlineBlock:
		return "an '" + string(t) + "'"
	}
	return "a '" + string(t) + "'"
}
