package store

import (
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"slices"
	"sort"
	"time"
)

// DefaultFileName is the annotation file kept in each annotated directory.
const DefaultFileName = ".annovate"

// Store is the in-memory form of one annotation file: the directory's own
// annotations plus one Container per registered file.
//
// A filename is registered when a '@' header names it or when an annotation is
// first added for it. Registration is tracked by presence in files, so a file
// can be registered with no annotations.
type Store struct {
	dir   Container
	files map[string]Container

	path   string
	logger *slog.Logger
}

// New returns an empty, unsaved Store.
func New() *Store {
	return &Store{
		files:  make(map[string]Container),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// OpenOptions controls Open.
type OpenOptions struct {
	// CreationReason becomes the context of the "creation time" annotation when the
	// file has to be created.
	CreationReason string

	// Now supplies the creation timestamp. Defaults to time.Now.
	Now func() time.Time

	// Logger receives debug logs for loads, saves and mutations. Optional.
	Logger *slog.Logger
}

// Open loads the annotation file at path, creating it first if it does not exist.
//
// The file is read once and closed before Open returns.
func Open(path string, opts OpenOptions) (*Store, error) {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	reason := opts.CreationReason
	if reason == "" {
		reason = "new annovate file"
	}

	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		if err := Bootstrap(path, reason, now()); err != nil {
			return nil, err
		}
		if opts.Logger != nil {
			opts.Logger.Debug("created annotation file", "path", path, "reason", reason)
		}
		f, err = os.Open(path)
	}
	if err != nil {
		return nil, &IOError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()

	s, err := Parse(f)
	if err != nil {
		var ioe *IOError
		if errors.As(err, &ioe) && ioe.Path == "" {
			ioe.Path = path
		}
		return nil, err
	}
	s.path = path
	if opts.Logger != nil {
		s.logger = opts.Logger
	}
	s.logger.Debug("loaded annotation file",
		"path", path,
		"directory_annotations", len(s.dir),
		"files", len(s.files),
	)
	return s, nil
}

// Path returns the file the Store was opened from, or "" for a Store built with New.
func (s *Store) Path() string {
	return s.path
}

// DirectoryAnnotations returns a copy of the directory's annotations.
func (s *Store) DirectoryAnnotations() Container {
	return slices.Clone(s.dir)
}

// FileAnnotations returns a copy of the annotations of a file. ok is false when
// the file is not registered, which is distinct from registered with none.
func (s *Store) FileAnnotations(name string) (c Container, ok bool) {
	annos, ok := s.files[singleLine(name)]
	if !ok {
		return nil, false
	}
	return slices.Clone(annos), true
}

// HasFile reports whether name is registered.
func (s *Store) HasFile(name string) bool {
	_, ok := s.files[singleLine(name)]
	return ok
}

// RegisterFile registers name with no annotations. It returns false, and leaves
// the existing annotations alone, if name was already registered.
func (s *Store) RegisterFile(name string) bool {
	name = singleLine(name)
	if _, ok := s.files[name]; ok {
		return false
	}
	s.files[name] = Container{}
	return true
}

// AddDirectoryAnnotation appends a to the directory's annotations.
func (s *Store) AddDirectoryAnnotation(a Annotation) {
	a = NewAnnotation(a.Key, a.Value, a.Context)
	s.dir = append(s.dir, a)
	s.logger.Debug("added directory annotation", "key", a.Key)
}

// AddFileAnnotation appends a to the annotations of name, registering name first
// if needed.
func (s *Store) AddFileAnnotation(name string, a Annotation) {
	name = singleLine(name)
	a = NewAnnotation(a.Key, a.Value, a.Context)
	s.files[name] = append(s.files[name], a)
	s.logger.Debug("added file annotation", "file", name, "key", a.Key)
}

// RemoveDirectoryAnnotationEntries deletes every directory annotation with key.
// It reports whether anything was removed.
func (s *Store) RemoveDirectoryAnnotationEntries(key string) bool {
	kept, removed := s.dir.without(key)
	s.dir = kept
	return removed
}

// RemoveFileAnnotationEntries deletes every annotation with key from name. An
// unregistered name removes nothing. The file stays registered even when its last
// annotation goes.
func (s *Store) RemoveFileAnnotationEntries(name, key string) bool {
	name = singleLine(name)
	annos, ok := s.files[name]
	if !ok {
		return false
	}
	kept, removed := annos.without(key)
	s.files[name] = kept
	return removed
}

// DropFileAnnotations unregisters name and all of its annotations. It reports
// whether name was registered.
func (s *Store) DropFileAnnotations(name string) bool {
	name = singleLine(name)
	if _, ok := s.files[name]; !ok {
		return false
	}
	delete(s.files, name)
	s.logger.Debug("dropped file annotations", "file", name)
	return true
}

// ListFiles returns the registered filenames in lexical order.
func (s *Store) ListFiles() []string {
	names := make([]string, 0, len(s.files))
	for name := range s.files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CopyFileAnnotations appends to dst a copy of the annotations of src whose key
// is in keys (all of them when keys is empty), each with the given context. It
// returns how many were copied, or false when src is not registered.
func (s *Store) CopyFileAnnotations(src, dst string, context string, keys ...string) (int, bool) {
	annos, ok := s.FileAnnotations(src)
	if !ok {
		return 0, false
	}
	copied := annos.Filter(keys...)
	for _, a := range copied {
		s.AddFileAnnotation(dst, Annotation{Key: a.Key, Value: a.Value, Context: context})
	}
	if len(copied) == 0 {
		s.RegisterFile(dst)
	}
	return len(copied), true
}
