package harness

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string // Assertion type for categorization
	Path     string
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Assertion failed: %s %s\n", e.Type, e.Path)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)
	return buf.String()
}

func readFile(dir string, a Assertion) (string, error) {
	data, err := os.ReadFile(filepath.Join(dir, a.Path))
	if err != nil {
		return "", &AssertionError{
			Type:     a.Type,
			Path:     a.Path,
			Expected: "readable file",
			Actual:   err.Error(),
		}
	}
	return string(data), nil
}

func assertFileEquals(dir string, a Assertion) error {
	got, err := readFile(dir, a)
	if err != nil {
		return err
	}
	if got != a.Content {
		return &AssertionError{Type: a.Type, Path: a.Path, Expected: fmt.Sprintf("%q", a.Content), Actual: fmt.Sprintf("%q", got)}
	}
	return nil
}

func assertFileContains(dir string, a Assertion) error {
	got, err := readFile(dir, a)
	if err != nil {
		return err
	}
	if !strings.Contains(got, a.Content) {
		return &AssertionError{Type: a.Type, Path: a.Path, Expected: fmt.Sprintf("contains %q", a.Content), Actual: fmt.Sprintf("%q", got)}
	}
	return nil
}

func assertFileExists(dir string, a Assertion, want bool) error {
	_, err := os.Stat(filepath.Join(dir, a.Path))
	exists := err == nil
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return &AssertionError{Type: a.Type, Path: a.Path, Expected: "stat to succeed", Actual: err.Error()}
	}
	if exists != want {
		return &AssertionError{
			Type:     a.Type,
			Path:     a.Path,
			Expected: fmt.Sprintf("exists=%t", want),
			Actual:   fmt.Sprintf("exists=%t", exists),
		}
	}
	return nil
}

// EvaluateAssertions evaluates all assertions against the scratch directory.
// Returns a slice of error messages for failed assertions.
func EvaluateAssertions(dir string, assertions []Assertion) []string {
	var errs []string

	for i, a := range assertions {
		var err error

		switch a.Type {
		case AssertFileEquals:
			err = assertFileEquals(dir, a)
		case AssertFileContains:
			err = assertFileContains(dir, a)
		case AssertFileExists:
			err = assertFileExists(dir, a, true)
		case AssertFileAbsent:
			err = assertFileExists(dir, a, false)
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, a.Type)
		}

		if err != nil {
			errs = append(errs, err.Error())
		}
	}

	return errs
}
