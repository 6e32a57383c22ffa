// Package seo turns DatoCMS _seoMetaTags into head data and head elements.
package seo

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/derickschaefer/dast"
)

// Tag is one entry of a _seoMetaTags or _site.faviconMetaTags query.
type Tag struct {
	Tag        string            `json:"tag"`
	Content    *string           `json:"content"`
	Attributes map[string]string `json:"attributes"`
}

// Head groups tags the way head managers expect them. Each meta and link
// entry carries hid and vmid so repeated tags replace each other: meta tags
// are identified by name or property, links by name or rel-sizes (rel
// alone when sizes is unset).
type Head struct {
	Title *string             `json:"title"`
	Meta  []map[string]string `json:"meta"`
	Link  []map[string]string `json:"link"`
}

// ToHead concatenates the tag lists and groups them. The first title tag
// wins; tags other than title, meta and link are ignored.
func ToHead(tags ...[]Tag) Head {
	h := Head{
		Meta: []map[string]string{},
		Link: []map[string]string{},
	}
	titleSeen := false
	for _, list := range tags {
		for _, t := range list {
			switch t.Tag {
			case "title":
				if !titleSeen {
					h.Title = t.Content
					titleSeen = true
				}
			case "meta":
				id := t.Attributes["name"]
				if id == "" {
					id = t.Attributes["property"]
				}
				h.Meta = append(h.Meta, withIDs(t.Attributes, id))
			case "link":
				id := t.Attributes["name"]
				if id == "" {
					id = t.Attributes["rel"]
					if sizes := t.Attributes["sizes"]; sizes != "" {
						id += "-" + sizes
					}
				}
				h.Link = append(h.Link, withIDs(t.Attributes, id))
			}
		}
	}
	return h
}

func withIDs(attrs map[string]string, id string) map[string]string {
	out := make(map[string]string, len(attrs)+2)
	for k, v := range attrs {
		out[k] = v
	}
	if id != "" {
		out["hid"] = id
		out["vmid"] = id
	}
	return out
}

// RenderHead renders h as title, meta and link elements in that order.
// The hid and vmid bookkeeping attributes are not rendered.
func RenderHead[T any](a dast.Adapter[T], h Head) []T {
	var out []T
	if h.Title != nil {
		out = append(out, a.RenderNode("title", nil, []T{a.RenderText(*h.Title, "title-text")}))
	}
	for _, m := range h.Meta {
		out = append(out, a.RenderNode("meta", elementAttrs(m), nil))
	}
	for _, l := range h.Link {
		out = append(out, a.RenderNode("link", elementAttrs(l), nil))
	}
	return out
}

func elementAttrs(m map[string]string) dast.Attrs {
	attrs := make(dast.Attrs, len(m))
	for k, v := range m {
		if k == "hid" || k == "vmid" {
			continue
		}
		attrs[k] = v
	}
	return attrs
}

// RenderTags renders tags directly, keeping their order. Content becomes
// the element text.
func RenderTags[T any](a dast.Adapter[T], tags []Tag) []T {
	out := make([]T, 0, len(tags))
	for i, t := range tags {
		var children []T
		if t.Content != nil {
			children = []T{a.RenderText(*t.Content, fmt.Sprintf("t-%d-text", i))}
		}
		out = append(out, a.RenderNode(t.Tag, dast.Attrs(t.Attributes), children))
	}
	return out
}

// DecodeTags reads a JSON array of tags. It also accepts an object holding
// the array under _seoMetaTags, faviconMetaTags or tags.
func DecodeTags(r io.Reader) ([]Tag, error) {
	var raw json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("seo: decode tags: %w", err)
	}

	var tags []Tag
	if err := json.Unmarshal(raw, &tags); err == nil {
		return tags, validateTags(tags)
	}

	var wrapped map[string]json.RawMessage
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, fmt.Errorf("seo: tags must be an array or an object: %w", err)
	}
	keys := make([]string, 0, len(wrapped))
	for k := range wrapped {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range []string{"_seoMetaTags", "faviconMetaTags", "tags"} {
		v, ok := wrapped[k]
		if !ok {
			continue
		}
		if err := json.Unmarshal(v, &tags); err != nil {
			return nil, fmt.Errorf("seo: decode %s: %w", k, err)
		}
		return tags, validateTags(tags)
	}
	return nil, fmt.Errorf("seo: no tag list found among keys %v", keys)
}

func validateTags(tags []Tag) error {
	for i, t := range tags {
		if t.Tag == "" {
			return fmt.Errorf("seo: tags[%d]: missing tag name", i)
		}
	}
	return nil
}
