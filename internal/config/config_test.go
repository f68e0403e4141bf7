package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFindsFileInParentDirectory(t *testing.T) {
	root := t.TempDir()
	err := os.WriteFile(filepath.Join(root, FileName), []byte("printType: true\nverbose: true\n"), 0o644)
	require.NoError(t, err)

	sub := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	f, err := Load(sub)
	require.NoError(t, err)
	assert.True(t, f.PrintType)
	assert.True(t, f.Verbose)
}

func TestLoadReturnsZeroValueWhenAbsent(t *testing.T) {
	dir := t.TempDir()
	f, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, File{}, f)
}
