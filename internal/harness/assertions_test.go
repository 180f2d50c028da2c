package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/annovate/internal/testutil"
)

func TestEvaluateAssertions(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteLines(t, dir, "f.txt", "hello", "world")

	tests := []struct {
		name      string
		assertion Assertion
		wantErr   string
	}{
		{"equals_ok", Assertion{Type: AssertFileEquals, Path: "f.txt", Content: "hello\nworld\n"}, ""},
		{"equals_mismatch", Assertion{Type: AssertFileEquals, Path: "f.txt", Content: "hello"}, "Expected: \"hello\""},
		{"contains_ok", Assertion{Type: AssertFileContains, Path: "f.txt", Content: "world"}, ""},
		{"contains_missing", Assertion{Type: AssertFileContains, Path: "f.txt", Content: "moon"}, "contains \"moon\""},
		{"contains_no_file", Assertion{Type: AssertFileContains, Path: "nope.txt", Content: "x"}, "readable file"},
		{"exists_ok", Assertion{Type: AssertFileExists, Path: "f.txt"}, ""},
		{"exists_missing", Assertion{Type: AssertFileExists, Path: "nope.txt"}, "exists=true"},
		{"absent_ok", Assertion{Type: AssertFileAbsent, Path: "nope.txt"}, ""},
		{"absent_present", Assertion{Type: AssertFileAbsent, Path: "f.txt"}, "exists=false"},
		{"unknown", Assertion{Type: "bogus", Path: "f.txt"}, "unknown assertion type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := EvaluateAssertions(dir, []Assertion{tt.assertion})
			if tt.wantErr == "" {
				assert.Empty(t, errs)
				return
			}
			require.Len(t, errs, 1)
			assert.Contains(t, errs[0], tt.wantErr)
		})
	}
}

func TestCheckExpect(t *testing.T) {
	out := "x\n"
	rec := StepRecord{Exit: 1, Stdout: "x\n", Stderr: "Error [E004]: missing"}

	assert.Empty(t, checkExpect(rec, &ExpectClause{Exit: 1, Stdout: &out, Stderr: "E004"}))
	assert.Len(t, checkExpect(rec, nil), 1, "nil expect requires exit 0")

	other := "y\n"
	errs := checkExpect(rec, &ExpectClause{Exit: 1, Stdout: &other, Stderr: "E005"})
	assert.Len(t, errs, 2)
}

func TestAssertionError_ErrorFormat(t *testing.T) {
	err := &AssertionError{Type: AssertFileEquals, Path: ".annovate", Expected: "a", Actual: "b"}
	msg := err.Error()
	assert.Contains(t, msg, "Assertion failed: file_equals .annovate")
	assert.Contains(t, msg, "Expected: a")
	assert.Contains(t, msg, "Actual: b")
}
