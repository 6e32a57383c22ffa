package seo

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/derickschaefer/dast"
	"github.com/derickschaefer/dast/htmlrender"
)

func strPtr(s string) *string { return &s }

const title = "September update: New pricing, better DX, trash bin plugin, product roadmap, and much more!"

func sampleTags() []Tag {
	return []Tag{
		{Tag: "title", Content: strPtr(title)},
		{Tag: "meta", Attributes: map[string]string{"property": "og:title", "content": title}},
		{Tag: "meta", Attributes: map[string]string{"name": "twitter:title", "content": title}},
	}
}

func TestToHead(t *testing.T) {
	h := ToHead(sampleTags())

	require.NotNil(t, h.Title)
	assert.Equal(t, title, *h.Title)
	assert.Equal(t, []map[string]string{
		{"content": title, "hid": "og:title", "property": "og:title", "vmid": "og:title"},
		{"content": title, "hid": "twitter:title", "name": "twitter:title", "vmid": "twitter:title"},
	}, h.Meta)
	assert.Empty(t, h.Link)
	assert.NotNil(t, h.Link)
}

func TestToHeadLinks(t *testing.T) {
	favicons := []Tag{
		{Tag: "link", Attributes: map[string]string{"rel": "icon", "sizes": "32x32", "href": "/32.png"}},
		{Tag: "link", Attributes: map[string]string{"rel": "manifest", "href": "/m.json"}},
		{Tag: "link", Attributes: map[string]string{"name": "x", "rel": "icon"}},
		{Tag: "meta", Attributes: map[string]string{"name": "theme-color", "content": "#fff"}},
	}
	h := ToHead(sampleTags(), favicons)

	require.Len(t, h.Link, 3)
	assert.Equal(t, "icon-32x32", h.Link[0]["hid"])
	assert.Equal(t, "manifest", h.Link[1]["vmid"])
	assert.Equal(t, "x", h.Link[2]["hid"])
	assert.Len(t, h.Meta, 3)
}

func TestToHeadFirstTitleWins(t *testing.T) {
	h := ToHead(
		[]Tag{{Tag: "title", Content: strPtr("one")}},
		[]Tag{{Tag: "title", Content: strPtr("two")}, {Tag: "script"}},
	)
	require.NotNil(t, h.Title)
	assert.Equal(t, "one", *h.Title)
	assert.Empty(t, h.Meta)
}

func TestToHeadEmpty(t *testing.T) {
	h := ToHead()
	assert.Nil(t, h.Title)
	assert.Empty(t, h.Meta)
}

func TestToHeadDoesNotMutateInput(t *testing.T) {
	tags := sampleTags()
	ToHead(tags)
	_, ok := tags[1].Attributes["hid"]
	assert.False(t, ok)
}

func TestRenderHead(t *testing.T) {
	var a dast.Adapter[*html.Node] = htmlrender.Adapter{}
	nodes := RenderHead(a, ToHead([]Tag{
		{Tag: "title", Content: strPtr("A & B")},
		{Tag: "meta", Attributes: map[string]string{"name": "description", "content": "d"}},
		{Tag: "link", Attributes: map[string]string{"rel": "icon", "href": "/i.png"}},
	}))

	got, err := htmlrender.Strings(nodes)
	require.NoError(t, err)
	assert.Equal(t,
		`<title>A &amp; B</title><meta content="d" name="description"/><link href="/i.png" rel="icon"/>`,
		got)
}

func TestRenderTags(t *testing.T) {
	var a dast.Adapter[*html.Node] = htmlrender.Adapter{}
	nodes := RenderTags(a, []Tag{
		{Tag: "meta", Attributes: map[string]string{"property": "og:type", "content": "article"}},
		{Tag: "title", Content: strPtr("T")},
	})
	got, err := htmlrender.Strings(nodes)
	require.NoError(t, err)
	assert.Equal(t, `<meta content="article" property="og:type"/><title>T</title>`, got)
}

func TestDecodeTags(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantErr bool
	}{
		{"array", `[{"tag":"title","content":"x","attributes":null}]`, 1, false},
		{"seo meta tags", `{"_seoMetaTags":[{"tag":"meta","content":null,"attributes":{"name":"a"}},{"tag":"title","content":"t"}]}`, 2, false},
		{"favicons", `{"faviconMetaTags":[{"tag":"link","attributes":{"rel":"icon"}}]}`, 1, false},
		{"tags key", `{"tags":[]}`, 0, false},
		{"unknown object", `{"foo":[]}`, 0, true},
		{"missing tag name", `[{"content":"x"}]`, 0, true},
		{"invalid json", `[{`, 0, true},
		{"scalar", `5`, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tags, err := DecodeTags(strings.NewReader(tt.input))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, tags, tt.want)
		})
	}
}
