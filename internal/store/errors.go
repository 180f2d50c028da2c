package store

import (
	"errors"
	"fmt"
)

// ParseError reports a malformed or out-of-sequence line in an annotation file.
//
// Line is 1-based. When the file ends in the middle of an annotation, Line is one
// past the last line and Leader is a space.
type ParseError struct {
	Line   int
	Leader rune
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid token `%c` at the beginning of line %d", e.Leader, e.Line)
}

// IOError wraps a failure to read, create or write an annotation file.
type IOError struct {
	Op   string // "open", "create", "read", "write", "rename"
	Path string
	Err  error
}

func (e *IOError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("io error: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("io error: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// IsParseError returns true if err is, or wraps, a ParseError.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}

// IsIOError returns true if err is, or wraps, an IOError.
func IsIOError(err error) bool {
	var ioe *IOError
	return errors.As(err, &ioe)
}
