package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteLines(t *testing.T) {
	dir := t.TempDir()

	path := WriteLines(t, dir, "anno", ">k", "=v", "<c")
	assert.Equal(t, filepath.Join(dir, "anno"), path)
	assert.Equal(t, ">k\n=v\n<c\n", ReadString(t, path))

	empty := WriteLines(t, dir, "empty")
	assert.Equal(t, "", ReadString(t, empty))
}

func TestTouch(t *testing.T) {
	dir := t.TempDir()
	Touch(t, dir, "a.txt", "b.txt")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}
