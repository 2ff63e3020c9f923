package serializer

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type sample struct {
	Name  string         `json:"name" yaml:"name"`
	Count int            `json:"count" yaml:"count"`
	Tags  []string       `json:"tags" yaml:"tags"`
	Meta  map[string]any `json:"meta,omitempty" yaml:"meta,omitempty"`
}

func testSample() sample {
	return sample{
		Name:  "run-7",
		Count: 3,
		Tags:  []string{"secrets", "config"},
		Meta:  map[string]any{"dry_run": true},
	}
}

func TestSerializeJSON(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(FormatJSON, &buf)

	require.NoError(t, w.Serialize(context.Background(), testSample()))

	var got sample
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "run-7", got.Name)
	assert.Equal(t, 3, got.Count)
}

func TestSerializeYAML(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(FormatYAML, &buf)

	require.NoError(t, w.Serialize(context.Background(), testSample()))

	var got sample
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "run-7", got.Name)
	assert.Equal(t, []string{"secrets", "config"}, got.Tags)
}

func TestSerializeTable(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(FormatTable, &buf)

	require.NoError(t, w.Serialize(context.Background(), testSample()))

	out := buf.String()
	assert.Contains(t, out, "FIELD")
	assert.Contains(t, out, "name")
	assert.Contains(t, out, "run-7")
	assert.Contains(t, out, "tags.[0]")
	assert.Contains(t, out, "meta.dry_run")
}

func TestSerializeTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(FormatTable, &buf)

	require.NoError(t, w.Serialize(context.Background(), map[string]any{}))
	assert.Equal(t, "<empty>\n", buf.String())
}

func TestUnknownFormatDefaultsToJSON(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(Format("xml"), &buf)

	require.NoError(t, w.Serialize(context.Background(), testSample()))
	assert.True(t, json.Valid(buf.Bytes()))
}

func TestNewFileWriterOrStdout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.json")
	w := NewFileWriterOrStdout(FormatJSON, path)

	require.NoError(t, w.Serialize(context.Background(), testSample()))
	require.NoError(t, w.Close())
	require.NoError(t, w.Close(), "Close is idempotent")

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, json.Valid(content))
}

func TestNewFileWriterOrStdoutEmptyPath(t *testing.T) {
	w := NewFileWriterOrStdout(FormatYAML, "   ")
	assert.NotNil(t, w)
	assert.NoError(t, w.Close())
}

func TestSupportedFormats(t *testing.T) {
	formats := SupportedFormats()
	assert.Equal(t, []string{"json", "yaml", "table"}, formats)
	for _, f := range formats {
		assert.False(t, Format(f).IsUnknown(), "format %s should be known", f)
	}
	assert.True(t, Format(strings.ToUpper("json")).IsUnknown(), "formats are case-sensitive")
}
