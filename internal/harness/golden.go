package harness

import (
	"strconv"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// Transcript renders the steps of a result as a shell-like session: each
// command line, its standard output, and its exit code when not zero.
// Diagnostic output is left out since log lines carry wall-clock times.
func Transcript(result *Result) []byte {
	var buf strings.Builder
	for _, step := range result.Steps {
		buf.WriteString("$ anno")
		for _, arg := range step.Args {
			buf.WriteByte(' ')
			buf.WriteString(shellQuote(arg))
		}
		buf.WriteByte('\n')

		buf.WriteString(step.Stdout)
		if step.Stdout != "" && !strings.HasSuffix(step.Stdout, "\n") {
			buf.WriteByte('\n')
		}
		if step.Exit != 0 {
			buf.WriteString("[exit " + strconv.Itoa(step.Exit) + "]\n")
		}
	}
	return []byte(buf.String())
}

// shellQuote quotes arguments that would not survive a shell unquoted.
func shellQuote(arg string) string {
	if arg == "" || strings.ContainsAny(arg, " \t\n\"'\\*?[]$") {
		return strconv.Quote(arg)
	}
	return arg
}

// RunWithGolden executes a scenario and compares its transcript against a
// golden file stored in testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns the result so callers can inspect failed expectations.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, Transcript(result))

	return result, nil
}
