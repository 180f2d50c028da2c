package store

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// WriteTo renders the whole Store in annotation file format: directory
// annotations first, then one '@' section per registered file in ListFiles order.
func (s *Store) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	bw := bufio.NewWriter(cw)

	writeContainer(bw, s.dir)
	for _, name := range s.ListFiles() {
		bw.WriteRune(LeaderFile)
		bw.WriteString(name)
		bw.WriteByte('\n')
		writeContainer(bw, s.files[name])
	}

	err := bw.Flush()
	return cw.n, err
}

// Marshal returns the file contents WriteTo would produce.
func (s *Store) Marshal() []byte {
	var buf bytes.Buffer
	_, _ = s.WriteTo(&buf)
	return buf.Bytes()
}

// writeContainer emits one '>' '='... '<' group per annotation. Each line of the
// value gets its own '=' line; the empty value is a single empty '=' line.
func writeContainer(w *bufio.Writer, c Container) {
	for _, a := range c {
		w.WriteRune(LeaderKey)
		w.WriteString(a.Key)
		w.WriteByte('\n')
		for _, line := range a.Lines() {
			w.WriteRune(LeaderValue)
			w.WriteString(line)
			w.WriteByte('\n')
		}
		w.WriteRune(LeaderContext)
		w.WriteString(a.Context)
		w.WriteByte('\n')
	}
}

// Save writes the Store back to the file it was opened from.
func (s *Store) Save() error {
	if s.path == "" {
		return &IOError{Op: "write", Err: fmt.Errorf("store has no path; use SaveAs")}
	}
	return s.SaveAs(s.path)
}

// SaveAs overwrites path with the full contents of the Store. The Store itself is
// not changed and keeps its original path.
//
// The data goes to a temporary file in the same directory which is then renamed
// over path, so a failed save leaves any previous file intact. An existing file
// keeps its permissions, and a symlink at path is followed so the link survives.
func (s *Store) SaveAs(path string) error {
	target := path
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		target = resolved
	}
	perm := os.FileMode(0o644)
	if info, err := os.Stat(target); err == nil {
		perm = info.Mode().Perm()
	}

	dir := filepath.Dir(target)
	tmp := filepath.Join(dir, "."+filepath.Base(target)+"."+uuid.NewString()+".tmp")

	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		return &IOError{Op: "create", Path: path, Err: err}
	}

	// Chmod again since OpenFile's mode is subject to the umask.
	err = f.Chmod(perm)
	var n int64
	if err == nil {
		n, err = s.WriteTo(f)
	}
	if err == nil {
		err = f.Sync()
	}
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmp)
		return &IOError{Op: "write", Path: path, Err: err}
	}

	if err := os.Rename(tmp, target); err != nil {
		os.Remove(tmp)
		return &IOError{Op: "rename", Path: path, Err: err}
	}

	s.logger.Debug("saved annotation file", "path", path, "bytes", n)
	return nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
