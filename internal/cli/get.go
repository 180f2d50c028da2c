package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/annovate/internal/store"
)

// GetResult is the JSON payload of get and get-dir.
type GetResult struct {
	File   string   `json:"file,omitempty"`
	Key    string   `json:"key"`
	Values []string `json:"values"`
}

// NewGetCommand creates the get command.
func NewGetCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <filename> <key>",
		Short: "Print the value of a key for a file",
		Long: `Print the current value of a key for a file, and nothing more.

With -a every value ever set for the key is printed, oldest first.

Example:
  anno get beach.jpg rating`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGet(rootOpts, args[0], args[1], cmd)
		},
	}

	return cmd
}

// NewGetDirCommand creates the get-dir command.
func NewGetDirCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get-dir <key>",
		Short: "Print the value of a key for the directory",
		Long: `Print the current value of a directory key, and nothing more.

Example:
  anno get-dir "creation time"`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGetDir(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runGet(opts *RootOptions, file, key string, cmd *cobra.Command) error {
	s, err := openSession(opts, cmd, "")
	if err != nil {
		return err
	}

	annos, ok := s.store.FileAnnotations(file)
	if !ok {
		return s.formatter.fail(ExitFailure, ErrCodeNotAnnotated, "filename has no annotations: "+file, nil)
	}
	return outputGet(s, file, key, annos)
}

func runGetDir(opts *RootOptions, key string, cmd *cobra.Command) error {
	s, err := openSession(opts, cmd, "")
	if err != nil {
		return err
	}
	return outputGet(s, "", key, s.store.DirectoryAnnotations())
}

func outputGet(s *session, file, key string, annos store.Container) error {
	var values []string
	if s.cfg.ShowAll {
		for _, a := range annos.All(key) {
			values = append(values, a.Value)
		}
	} else if latest, ok := annos.Latest(key); ok {
		values = append(values, latest.Value)
	}

	if len(values) == 0 {
		return s.formatter.fail(ExitFailure, ErrCodeNotAnnotated, fmt.Sprintf("no value for key %q", key), nil)
	}

	if s.formatter.IsJSON() {
		return s.formatter.Success(GetResult{File: file, Key: key, Values: values})
	}
	for _, v := range values {
		fmt.Fprintln(s.formatter.Writer, v)
	}
	return nil
}
