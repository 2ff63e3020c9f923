package packager

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dataflux/nodedeploy/pkg/errors"
)

// writeTree creates files under dir, keyed by slash-separated relative path.
func writeTree(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
}

func TestBuildSelectsPipesAndSystemsFiles(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"pipes/a.conf.json":     `{"_id": "a"}`,
		"systems/b.conf.json":   `{"_id": "b"}`,
		"other/c.conf.json":     `{"_id": "c"}`,
		"pipes/readme.md":       "not config",
		"pipes/sub/d.conf.json": `{"_id": "d"}`, // not an immediate child of pipes
	})

	bundle, err := New().Build(dir)
	require.NoError(t, err)

	assert.ElementsMatch(t,
		[]string{"pipes/a.conf.json", "systems/b.conf.json"},
		bundle.Paths(),
	)
}

func TestBuildIncludesNestedConfigDirs(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"env/prod/pipes/a.conf.json": `{}`,
		"env/prod/other/b.conf.json": `{}`,
	})

	bundle, err := New().Build(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"env/prod/pipes/a.conf.json"}, bundle.Paths())
}

func TestBuildIncludesRootMetadata(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"node-metadata.conf.json": `{"_id": "node"}`,
		"pipes/a.conf.json":       `{}`,
	})

	bundle, err := New().Build(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"node-metadata.conf.json", "pipes/a.conf.json"}, bundle.Paths())
}

func TestBuildWhitelistNarrowsSelection(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"pipes/a.conf.json":        `{}`,
		"systems/b.conf.json":      `{}`,
		"deployment/whitelist.txt": "pipes/a.conf.json\n",
	})

	bundle, err := New(WithWhitelist(true)).Build(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"pipes/a.conf.json"}, bundle.Paths())
}

func TestBuildWhitelistFiltersMetadata(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"node-metadata.conf.json":  `{}`,
		"pipes/a.conf.json":        `{}`,
		"deployment/whitelist.txt": "pipes/a.conf.json\n",
	})

	bundle, err := New(WithWhitelist(true)).Build(dir)
	require.NoError(t, err)
	assert.NotContains(t, bundle.Paths(), "node-metadata.conf.json")

	// Listing the metadata file admits it.
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, "deployment", "whitelist.txt"),
		[]byte("node-metadata.conf.json\npipes/a.conf.json\n"), 0644))

	bundle, err = New(WithWhitelist(true)).Build(dir)
	require.NoError(t, err)
	assert.Contains(t, bundle.Paths(), "node-metadata.conf.json")
}

func TestBuildWhitelistNeverExpandsSelection(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"other/c.conf.json":        `{}`,
		"pipes/readme.md":          "no",
		"deployment/whitelist.txt": "other/c.conf.json\npipes/readme.md\n",
	})

	bundle, err := New(WithWhitelist(true)).Build(dir)
	require.NoError(t, err)
	assert.Zero(t, bundle.Len())
}

func TestBuildMissingWhitelistYieldsEmptyBundle(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"pipes/a.conf.json": `{}`,
	})

	bundle, err := New(WithWhitelist(true)).Build(dir)
	require.NoError(t, err)
	assert.Zero(t, bundle.Len())
}

func TestBuildEmptyTreeSucceeds(t *testing.T) {
	bundle, err := New().Build(t.TempDir())
	require.NoError(t, err)
	assert.Zero(t, bundle.Len())
}

func TestBuildMissingSourceDirFails(t *testing.T) {
	bundle, err := New().Build(filepath.Join(t.TempDir(), "does-not-exist"))
	require.Error(t, err)
	assert.Nil(t, bundle)
	assert.True(t, errors.HasCode(err, errors.ErrCodePackaging))
}

func TestBundleBytesIsReadableZip(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"pipes/a.conf.json":   `{"_id": "a"}`,
		"systems/b.conf.json": `{"_id": "b"}`,
	})

	bundle, err := New().Build(dir)
	require.NoError(t, err)

	data, err := bundle.Bytes()
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	names := make([]string, 0, len(zr.File))
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	assert.ElementsMatch(t, []string{"pipes/a.conf.json", "systems/b.conf.json"}, names)
}

func TestBundleRejectsDuplicatePaths(t *testing.T) {
	b := NewBundle()
	require.NoError(t, b.Add("pipes/a.conf.json", []byte("{}")))
	err := b.Add("pipes/a.conf.json", []byte("{}"))
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodePackaging))
}

func TestBuildCustomSuffix(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"pipes/a.pipe.yaml": "id: a",
		"pipes/b.conf.json": `{}`,
	})

	bundle, err := New(WithConfigSuffix("pipe.yaml")).Build(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"pipes/a.pipe.yaml"}, bundle.Paths())
}
