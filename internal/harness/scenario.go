package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario defines one scripted anno session.
type Scenario struct {
	// Name uniquely identifies this scenario. It also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario checks.
	Description string `yaml:"description"`

	// Files are created in the scratch directory before the first step.
	Files []FileEntry `yaml:"files,omitempty"`

	// Env is the environment seen by the commands. ANNOVATE_CONFIG is set by
	// the harness unless given here.
	Env map[string]string `yaml:"env,omitempty"`

	// Steps are the commands to run, in order.
	Steps []Step `yaml:"steps"`

	// Assertions validate the scratch directory after the last step.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// FileEntry is a file to create before the steps run.
type FileEntry struct {
	Path    string `yaml:"path"`
	Content string `yaml:"content,omitempty"`
}

// Step is one anno invocation.
type Step struct {
	// Run holds the command line arguments, without the program name.
	Run []string `yaml:"run"`

	// Expect validates the outcome. If nil, the step must exit 0.
	Expect *ExpectClause `yaml:"expect,omitempty"`
}

// ExpectClause specifies the expected outcome of a step.
type ExpectClause struct {
	// Exit is the expected exit code.
	Exit int `yaml:"exit"`

	// Stdout, when set, must equal the standard output exactly.
	Stdout *string `yaml:"stdout,omitempty"`

	// Stderr, when set, must occur somewhere in the diagnostic output.
	Stderr string `yaml:"stderr,omitempty"`
}

// Assertion validates a file in the scratch directory.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Path is relative to the scratch directory.
	Path string `yaml:"path"`

	// Content is used by file_equals and file_contains.
	Content string `yaml:"content,omitempty"`
}

// Assertion type constants.
const (
	AssertFileEquals   = "file_equals"
	AssertFileContains = "file_contains"
	AssertFileExists   = "file_exists"
	AssertFileAbsent   = "file_absent"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	// Strict field validation catches typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		if len(step.Run) == 0 {
			return fmt.Errorf("step[%d]: run is required", i)
		}
	}

	for i, f := range s.Files {
		if f.Path == "" {
			return fmt.Errorf("files[%d]: path is required", i)
		}
	}

	for i, a := range s.Assertions {
		switch a.Type {
		case AssertFileEquals, AssertFileContains, AssertFileExists, AssertFileAbsent:
		default:
			return fmt.Errorf("assertion[%d]: unknown assertion type %q", i, a.Type)
		}
		if a.Path == "" {
			return fmt.Errorf("assertion[%d]: path is required", i)
		}
	}

	return nil
}
