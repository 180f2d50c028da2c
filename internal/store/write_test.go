package store

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/annovate/internal/testutil"
)

func newGolden(t *testing.T) *goldie.Goldie {
	t.Helper()
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

// sampleStore covers multi-line values, history, empty values and an empty file
// section.
func sampleStore() *Store {
	s := New()
	s.AddDirectoryAnnotation(NewAnnotation("creation time", "5.3.2024 09:07:03", "new annovate file"))
	s.AddDirectoryAnnotation(NewAnnotation("description", "holiday photos\nsummer 2023", "annovate program, 5.3.2024 09:08:00"))
	s.AddFileAnnotation("beach.jpg", NewAnnotation("rating", "3", "first pass"))
	s.AddFileAnnotation("beach.jpg", NewAnnotation("rating", "5", "second pass"))
	s.AddFileAnnotation("beach.jpg", NewAnnotation("note", "", "placeholder"))
	s.AddFileAnnotation("album.txt", NewAnnotation("description", "index of\n\nall pictures\n", "copy from beach.jpg"))
	s.RegisterFile("unsorted.png")
	return s
}

func TestWriteTo_Golden(t *testing.T) {
	g := newGolden(t)
	g.Assert(t, "sample_store", sampleStore().Marshal())
}

func TestWriteTo_EmptyStore(t *testing.T) {
	assert.Empty(t, New().Marshal())
}

func TestWriteTo_ReportsBytes(t *testing.T) {
	var buf bytes.Buffer
	n, err := sampleStore().WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), n)
}

func TestWriteTo_PropagatesWriterError(t *testing.T) {
	_, err := sampleStore().WriteTo(failingWriter{})
	require.Error(t, err)
}

// snapshot is the comparable shape of a Store.
type snapshot struct {
	Dir   Container
	Files map[string]Container
}

func snapshotOf(s *Store) snapshot {
	snap := snapshot{Dir: s.DirectoryAnnotations(), Files: map[string]Container{}}
	for _, name := range s.ListFiles() {
		annos, _ := s.FileAnnotations(name)
		snap.Files[name] = annos
	}
	return snap
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		build func(*Store)
	}{
		{"empty", func(*Store) {}},
		{"directory_only", func(s *Store) {
			s.AddDirectoryAnnotation(NewAnnotation("k", "v", "c"))
		}},
		{"registered_empty_file_last", func(s *Store) {
			s.AddDirectoryAnnotation(NewAnnotation("k", "v", "c"))
			s.AddFileAnnotation("zz", NewAnnotation("k", "v", "c"))
			s.RemoveFileAnnotationEntries("zz", "k")
		}},
		{"all_directory_entries_removed", func(s *Store) {
			s.AddDirectoryAnnotation(NewAnnotation("k", "v", "c"))
			s.RemoveDirectoryAnnotationEntries("k")
			s.AddFileAnnotation("f", NewAnnotation("k", "v", "c"))
		}},
		{"awkward_values", func(s *Store) {
			s.AddFileAnnotation("f", NewAnnotation("leading newline", "\nafter", "c"))
			s.AddFileAnnotation("f", NewAnnotation("trailing newline", "before\n", "c"))
			s.AddFileAnnotation("f", NewAnnotation("only newline", "\n", "c"))
			s.AddFileAnnotation("f", NewAnnotation("empty", "", ""))
			s.AddFileAnnotation("f", NewAnnotation("leaders", "@x\n>y\n=z\n<w", "<ctx>"))
			s.AddFileAnnotation("f", NewAnnotation("crlf", "a\r\nb  \r\n", "c  "))
			s.AddFileAnnotation("f", NewAnnotation("", "no key", "c"))
			s.AddFileAnnotation("f", NewAnnotation("  indented", "  kept", "  kept"))
		}},
		{"multiline_key_and_context", func(s *Store) {
			s.AddDirectoryAnnotation(NewAnnotation("two\nlines", "v", "ctx\nmore"))
		}},
		{"unicode", func(s *Store) {
			s.AddFileAnnotation("写真.jpg", NewAnnotation("説明", "海辺\nの写真", "ürsprung"))
		}},
		{"sample", func(s *Store) {
			*s = *sampleStore()
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New()
			tt.build(s)
			want := snapshotOf(s)

			parsed, err := Parse(bytes.NewReader(s.Marshal()))
			require.NoError(t, err)

			if diff := cmp.Diff(want, snapshotOf(parsed), cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
			assert.Equal(t, string(s.Marshal()), string(parsed.Marshal()))
		})
	}
}

func TestRoundTrip_OversizedValue(t *testing.T) {
	big := strings.Repeat("x", 17<<20)
	s := New()
	s.AddFileAnnotation("big", NewAnnotation("k", big, "c"))
	s.AddFileAnnotation("big", NewAnnotation("after", "small", "c"))

	parsed, err := Parse(bytes.NewReader(s.Marshal()))
	require.NoError(t, err)

	annos, ok := parsed.FileAnnotations("big")
	require.True(t, ok)
	require.Len(t, annos, 2)
	assert.Equal(t, len(big), len(annos[0].Value))
	assert.True(t, annos[0].Value == big, "value survives the round trip")
	assert.Equal(t, "small", annos[1].Value)
}

func TestSaveAs_OversizedValueReopens(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName)
	s, err := Open(path, OpenOptions{Now: testutil.NewDeterministicClock().Now})
	require.NoError(t, err)

	s.AddDirectoryAnnotation(NewAnnotation("blob", strings.Repeat("y", 17<<20), "c"))
	require.NoError(t, s.Save())

	reopened, err := Open(path, OpenOptions{})
	require.NoError(t, err)
	blob, ok := reopened.DirectoryAnnotations().Latest("blob")
	require.True(t, ok)
	assert.Equal(t, 17<<20, len(blob.Value))
}

func TestSaveAs_KeepsFileMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName)
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	require.NoError(t, sampleStore().SaveAs(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestSaveAs_FollowsSymlink(t *testing.T) {
	dir := t.TempDir()
	realPath := filepath.Join(dir, "realPath.annovate")
	require.NoError(t, os.WriteFile(realPath, nil, 0o640))
	link := filepath.Join(dir, DefaultFileName)
	if err := os.Symlink(realPath, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	require.NoError(t, sampleStore().SaveAs(link))

	linkInfo, err := os.Lstat(link)
	require.NoError(t, err)
	assert.NotZero(t, linkInfo.Mode()&os.ModeSymlink, "link is still a symlink")

	realInfo, err := os.Stat(realPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o640), realInfo.Mode().Perm())
	assert.Equal(t, string(sampleStore().Marshal()), testutil.ReadString(t, realPath))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2, "no temp files left behind")
}

func TestSaveAs_WritesAndLeavesStoreUnchanged(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultFileName)
	s, err := Open(path, OpenOptions{Now: testutil.NewDeterministicClock().Now})
	require.NoError(t, err)

	s.AddFileAnnotation("a.txt", NewAnnotation("description", "first", "test"))
	before := snapshotOf(s)

	out := filepath.Join(dir, "copy.annovate")
	require.NoError(t, s.SaveAs(out))

	assert.Equal(t, path, s.Path(), "save-as does not rebind the store")
	if diff := cmp.Diff(before, snapshotOf(s), cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("store changed by save (-want +got):\n%s", diff)
	}

	reloaded, err := Open(out, OpenOptions{})
	require.NoError(t, err)
	if diff := cmp.Diff(before, snapshotOf(reloaded), cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("reloaded mismatch (-want +got):\n%s", diff)
	}

	// Original file untouched until Save.
	original, err := Open(path, OpenOptions{})
	require.NoError(t, err)
	assert.Empty(t, original.ListFiles())

	require.NoError(t, s.Save())
	saved, err := Open(path, OpenOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt"}, saved.ListFiles())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2, "no temp files left behind")
}

func TestSave_WithoutPath(t *testing.T) {
	err := New().Save()
	require.Error(t, err)
	assert.True(t, IsIOError(err))
}

func TestSaveAs_UnwritableDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", DefaultFileName)

	err := sampleStore().SaveAs(path)
	require.Error(t, err)

	var ioe *IOError
	require.ErrorAs(t, err, &ioe)
	assert.Equal(t, path, ioe.Path)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("write failed") }
