package packager

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadWhitelist(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"pipes/a.conf.json":   `{}`,
		"systems/b.conf.json": `{}`,
	})

	wlPath := filepath.Join(dir, "whitelist.txt")
	content := "pipes/a.conf.json  \n\n  systems/b.conf.json\npipes/missing.conf.json\n"
	require.NoError(t, os.WriteFile(wlPath, []byte(content), 0644))

	set, err := loadWhitelist(dir, wlPath)
	require.NoError(t, err)

	assert.True(t, set.contains("pipes/a.conf.json"), "trimmed entry should be present")
	assert.True(t, set.contains("systems/b.conf.json"))
	assert.False(t, set.contains("pipes/missing.conf.json"), "entries naming absent files are dropped")
	assert.Len(t, set, 2)
}

func TestLoadWhitelistAbsentFile(t *testing.T) {
	dir := t.TempDir()
	set, err := loadWhitelist(dir, filepath.Join(dir, "nope.txt"))
	require.NoError(t, err)
	assert.Empty(t, set)
}
