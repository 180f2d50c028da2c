package harness

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/roach88/annovate/internal/cli"
	"github.com/roach88/annovate/internal/store"
	"github.com/roach88/annovate/internal/testutil"
)

// DirToken stands for the scratch directory in arguments and transcripts.
const DirToken = "$DIR"

// Harness is the execution state of one scenario.
type Harness struct {
	dir   string
	meta  string
	env   map[string]string
	clock *testutil.DeterministicClock
}

// Run executes a scenario and returns the result.
//
// Each scenario runs in a fresh temporary directory that is removed afterwards.
// The returned error reports harness failures only; failed expectations and
// assertions are recorded in Result.Errors.
func Run(scenario *Scenario) (*Result, error) {
	root, err := os.MkdirTemp("", "annovate-scenario-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create scratch directory: %w", err)
	}
	defer os.RemoveAll(root)

	// The config file lives outside the scratch directory so reports don't see it.
	dir := filepath.Join(root, "work")
	if err := os.Mkdir(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create scratch directory: %w", err)
	}
	cfgPath := filepath.Join(root, "config.yaml")
	if err := os.WriteFile(cfgPath, nil, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write config file: %w", err)
	}

	h := &Harness{
		dir:   dir,
		meta:  filepath.Join(dir, store.DefaultFileName),
		env:   map[string]string{"ANNOVATE_CONFIG": cfgPath},
		clock: testutil.NewDeterministicClock(),
	}
	for k, v := range scenario.Env {
		h.env[k] = v
	}

	if err := h.createFiles(scenario.Files); err != nil {
		return nil, err
	}

	result := NewResult()
	for i, step := range scenario.Steps {
		rec := h.runStep(step.Run)
		result.Steps = append(result.Steps, rec)
		for _, msg := range checkExpect(rec, step.Expect) {
			result.AddError(fmt.Sprintf("step[%d] %s: %s", i, strings.Join(step.Run, " "), msg))
		}
	}

	for _, msg := range EvaluateAssertions(dir, scenario.Assertions) {
		result.AddError(msg)
	}

	return result, nil
}

func (h *Harness) createFiles(files []FileEntry) error {
	for _, f := range files {
		path := filepath.Join(h.dir, f.Path)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", f.Path, err)
		}
		if err := os.WriteFile(path, []byte(f.Content), 0o644); err != nil {
			return fmt.Errorf("failed to create %s: %w", f.Path, err)
		}
	}
	return nil
}

// runStep invokes the anno root command in-process.
func (h *Harness) runStep(args []string) StepRecord {
	expanded := make([]string, 0, len(args)+2)
	expanded = append(expanded, "-m", h.meta)
	for _, arg := range args {
		expanded = append(expanded, strings.ReplaceAll(arg, DirToken, h.dir))
	}

	opts := &cli.RootOptions{
		Now:    h.clock.Now,
		Getenv: func(key string) string { return h.env[key] },
	}
	cmd := cli.NewRootCommandWithOptions(opts)
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(expanded)

	err := cmd.Execute()
	if err != nil && !isReported(err) {
		fmt.Fprintln(&stderr, "Error:", err)
	}

	return StepRecord{
		Args:   args,
		Exit:   cli.GetExitCode(err),
		Stdout: strings.ReplaceAll(stdout.String(), h.dir, DirToken),
		Stderr: strings.ReplaceAll(stderr.String(), h.dir, DirToken),
	}
}

// isReported mirrors the anno binary: ExitErrors were already printed.
func isReported(err error) bool {
	var exitErr *cli.ExitError
	return errors.As(err, &exitErr)
}

// checkExpect compares a step's outcome with its expect clause.
func checkExpect(rec StepRecord, expect *ExpectClause) []string {
	want := ExpectClause{}
	if expect != nil {
		want = *expect
	}

	var errs []string
	if rec.Exit != want.Exit {
		errs = append(errs, fmt.Sprintf("exit code %d, expected %d (stderr: %q)", rec.Exit, want.Exit, rec.Stderr))
	}
	if want.Stdout != nil && rec.Stdout != *want.Stdout {
		errs = append(errs, fmt.Sprintf("stdout %q, expected %q", rec.Stdout, *want.Stdout))
	}
	if want.Stderr != "" && !strings.Contains(rec.Stderr, want.Stderr) {
		errs = append(errs, fmt.Sprintf("stderr %q does not contain %q", rec.Stderr, want.Stderr))
	}
	return errs
}
