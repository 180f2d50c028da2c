package harness

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/annovate/internal/testutil"
)

func TestParseScenario_Valid(t *testing.T) {
	scenario, err := ParseScenario([]byte(`
name: ok
description: "parses"
files:
  - path: a.jpg
env:
  ANNOVATE_LIST_KEY: title
steps:
  - run: [get, a.jpg, k]
    expect:
      exit: 1
      stdout: ""
assertions:
  - type: file_exists
    path: a.jpg
`))
	require.NoError(t, err)
	assert.Equal(t, "ok", scenario.Name)
	require.Len(t, scenario.Steps, 1)
	require.NotNil(t, scenario.Steps[0].Expect)
	assert.Equal(t, 1, scenario.Steps[0].Expect.Exit)
	require.NotNil(t, scenario.Steps[0].Expect.Stdout)
	assert.Equal(t, "", *scenario.Steps[0].Expect.Stdout)
	assert.Equal(t, "title", scenario.Env["ANNOVATE_LIST_KEY"])
}

func TestParseScenario_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{"unknown_field", "name: x\ndescription: y\nstep: []\n", "failed to parse YAML"},
		{"missing_name", "description: y\nsteps: [{run: [list]}]\n", "name is required"},
		{"missing_description", "name: x\nsteps: [{run: [list]}]\n", "description is required"},
		{"no_steps", "name: x\ndescription: y\n", "steps list is required"},
		{"empty_run", "name: x\ndescription: y\nsteps: [{run: []}]\n", "step[0]: run is required"},
		{"file_without_path", "name: x\ndescription: y\nfiles: [{content: z}]\nsteps: [{run: [list]}]\n", "files[0]: path is required"},
		{"unknown_assertion", "name: x\ndescription: y\nsteps: [{run: [list]}]\nassertions: [{type: nope, path: a}]\n", "unknown assertion type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestLoadScenario_FromDisk(t *testing.T) {
	path := testutil.WriteLines(t, t.TempDir(), "s.yaml",
		"name: disk",
		"description: loaded from disk",
		"steps:",
		"  - run: [query-dir]",
	)
	scenario, err := LoadScenario(path)
	require.NoError(t, err)
	assert.Equal(t, "disk", scenario.Name)
}
