package store

import (
	"os"
	"time"
)

// TimestampLayout formats the "creation time" value and default contexts:
// day.month.year hour:minute:second.
const TimestampLayout = "2.1.2006 15:04:05"

// CreationTimeKey is the key of the annotation every new file starts with.
const CreationTimeKey = "creation time"

// Bootstrap creates a new annotation file at path holding a single directory
// annotation: CreationTimeKey, the local time now, and reason as context.
//
// It fails with an *IOError if path already exists, so an existing file is never
// replaced.
func Bootstrap(path, reason string, now time.Time) error {
	s := New()
	s.AddDirectoryAnnotation(NewAnnotation(
		CreationTimeKey,
		now.Local().Format(TimestampLayout),
		reason,
	))

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return &IOError{Op: "create", Path: path, Err: err}
	}
	if _, err := s.WriteTo(f); err != nil {
		f.Close()
		os.Remove(path)
		return &IOError{Op: "write", Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		return &IOError{Op: "write", Path: path, Err: err}
	}
	return nil
}
