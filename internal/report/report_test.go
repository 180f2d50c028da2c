package report

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/annovate/internal/testutil"
)

func mustFilter(t *testing.T, opts Options) *Filter {
	t.Helper()
	f, err := NewFilter(opts)
	require.NoError(t, err)
	return f
}

func TestCompare(t *testing.T) {
	annotated := []string{"b.txt", "a.txt", "gone.txt", ".hidden"}
	present := []string{"a.txt", "b.txt", "new.txt", ".annovate", ".hidden"}

	entries := Compare(annotated, present, mustFilter(t, Options{}))

	assert.Equal(t, []Entry{
		{StatusBoth, "a.txt"},
		{StatusBoth, "b.txt"},
		{StatusMetadataOnly, "gone.txt"},
		{StatusMissing, "new.txt"},
	}, entries)
}

func TestCompare_Dotfiles(t *testing.T) {
	entries := Compare(
		[]string{".hidden"},
		[]string{".hidden", ".annovate"},
		mustFilter(t, Options{IncludeDotfiles: true, Ignore: []string{".annovate"}}),
	)
	assert.Equal(t, []Entry{{StatusBoth, ".hidden"}}, entries)
}

func TestCompare_Match(t *testing.T) {
	entries := Compare(
		[]string{"a.jpg", "b.txt"},
		[]string{"a.jpg", "c.jpg", "d.txt"},
		mustFilter(t, Options{Match: "*.jpg"}),
	)
	assert.Equal(t, []Entry{
		{StatusBoth, "a.jpg"},
		{StatusMissing, "c.jpg"},
	}, entries)
}

func TestNewFilter_InvalidPattern(t *testing.T) {
	_, err := NewFilter(Options{Match: "[unclosed"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid match pattern")
}

func TestReadDirNames(t *testing.T) {
	dir := t.TempDir()
	testutil.Touch(t, dir, "one", "two")

	names, err := ReadDirNames(dir)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"one", "two"}, names)

	_, err = ReadDirNames(dir + "/missing")
	require.Error(t, err)
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, []Entry{{StatusBoth, "a"}, {StatusMissing, "b"}}))
	assert.Equal(t, "= a\n- b\n", buf.String())
}
