package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/derickschaefer/dast"
)

const sample = `{"type":"root","children":[` +
	`{"type":"heading","level":2,"children":[{"type":"span","value":"Title"}]},` +
	`{"type":"paragraph","children":[{"type":"span","value":"Body"}]}]}`

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "doc.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestRun(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run(writeFile(t, sample), "section", false, false, false, &out))
	assert.Equal(t, "<section><h2>Title</h2><p>Body</p></section>\n", out.String())
}

func TestRunPretty(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run(writeFile(t, sample), "div", false, true, false, &out))
	assert.Equal(t, "<div>\n  <h2>Title</h2>\n  <p>Body</p>\n</div>\n", out.String())
}

func TestRunPrettyAttributes(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run(writeFile(t, sample), "my-doc", false, true, true, &out))
	assert.Equal(t,
		"<my-doc data-key=\"t-0\">\n  <h2 data-key=\"t-0\">Title</h2>\n  <p data-key=\"t-1\">Body</p>\n</my-doc>\n",
		out.String())
}

func TestRunPrettyVoidRoot(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run(writeFile(t, `{"type":"root","children":[]}`), "br", false, true, false, &out))
	assert.Equal(t, "<br/>\n", out.String())

	out.Reset()
	err := run(writeFile(t, sample), "br", false, true, false, &out)
	require.Error(t, err)
	assert.Empty(t, out.String())
}

func TestRunKeys(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run(writeFile(t, sample), "div", false, false, true, &out))
	assert.Contains(t, out.String(), `<div data-key="t-0">`)
}

func TestRunErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		strict  bool
		want    string
	}{
		{"decode", `{`, false, "decode"},
		{"strict", `{"type":"root","children":[{"type":"span","value":"x"}]}`, true, "validation errors"},
		{"render", `{"type":"root","children":[{"type":"block","item":"1"}]}`, false, "node block"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := run(writeFile(t, tt.content), "div", tt.strict, false, false, &bytes.Buffer{})
			require.Error(t, err)
			assert.True(t, strings.Contains(err.Error(), tt.want), err.Error())
		})
	}
}

func TestRunInvalidRootTag(t *testing.T) {
	for _, root := range []string{"img src=x onerror=alert(1)", "div>", ""} {
		var out bytes.Buffer
		err := run(writeFile(t, sample), root, false, true, false, &out)
		require.ErrorIs(t, err, dast.ErrInvalidRootTag, root)
		assert.Empty(t, out.String())
	}
}

func TestRunMissingFile(t *testing.T) {
	err := run(filepath.Join(t.TempDir(), "nope.json"), "div", false, false, false, &bytes.Buffer{})
	assert.ErrorContains(t, err, "open")
}
