package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/annovate/internal/store"
)

// PutResult is the JSON payload of the put commands.
type PutResult struct {
	Files []string `json:"files,omitempty"`
	Added int      `json:"added"`
}

// NewPutCommand creates the put command.
func NewPutCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "put <filename> [<key> <value>]...",
		Short: "Add key-value pairs for a single file",
		Long: `Add key-value pairs to the annotations of a file.

Existing values for the same key are kept as history. The context is taken
from -C, or defaults to the program name and the current time.

Example:
  anno put beach.jpg rating 5 description "sunset at the pier"`,
		Args:          pairArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPut(rootOpts, args[0], args[1:], cmd)
		},
	}

	return cmd
}

// NewPutBatchCommand creates the put-batch command.
func NewPutBatchCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "put-batch <key> <value> [<filename>...]",
		Short: "Add one common key-value pair for several files",
		Long: `Add the same key-value pair to the annotations of every named file.

Example:
  anno put-batch album summer *.jpg`,
		Args:          cobra.MinimumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPutBatch(rootOpts, args[0], args[1], args[2:], cmd)
		},
	}

	return cmd
}

// NewPutDirCommand creates the put-dir command.
func NewPutDirCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "put-dir [<key> <value>]...",
		Short: "Add key-value pairs for the directory",
		Long: `Add key-value pairs to the annotations of the directory itself.

Example:
  anno put-dir description "holiday photos"`,
		Args:          pairArgs(0),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPutDir(rootOpts, args, cmd)
		},
	}

	return cmd
}

// pairArgs accepts n leading arguments followed by key/value pairs.
func pairArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) < n {
			return fmt.Errorf("%s: requires at least %d arg(s), only received %d", ErrCodeInvalidArgs, n, len(args))
		}
		if (len(args)-n)%2 != 0 {
			return fmt.Errorf("%s: key %q has no value", ErrCodeInvalidArgs, args[len(args)-1])
		}
		return nil
	}
}

func runPut(opts *RootOptions, file string, pairs []string, cmd *cobra.Command) error {
	s, err := openSession(opts, cmd, "")
	if err != nil {
		return err
	}

	ctx := s.context()
	for i := 0; i+1 < len(pairs); i += 2 {
		s.store.AddFileAnnotation(file, store.NewAnnotation(pairs[i], pairs[i+1], ctx))
	}
	if err := s.save(); err != nil {
		return err
	}
	return outputPut(s, PutResult{Files: []string{file}, Added: len(pairs) / 2})
}

func runPutBatch(opts *RootOptions, key, value string, files []string, cmd *cobra.Command) error {
	s, err := openSession(opts, cmd, "")
	if err != nil {
		return err
	}

	ctx := s.context()
	for _, file := range files {
		s.store.AddFileAnnotation(file, store.NewAnnotation(key, value, ctx))
	}
	if err := s.save(); err != nil {
		return err
	}
	return outputPut(s, PutResult{Files: files, Added: len(files)})
}

func runPutDir(opts *RootOptions, pairs []string, cmd *cobra.Command) error {
	s, err := openSession(opts, cmd, "")
	if err != nil {
		return err
	}

	ctx := s.context()
	for i := 0; i+1 < len(pairs); i += 2 {
		s.store.AddDirectoryAnnotation(store.NewAnnotation(pairs[i], pairs[i+1], ctx))
	}
	if err := s.save(); err != nil {
		return err
	}
	return outputPut(s, PutResult{Added: len(pairs) / 2})
}

func outputPut(s *session, result PutResult) error {
	if s.formatter.IsJSON() {
		return s.formatter.Success(result)
	}
	s.formatter.VerboseLog("Added %d annotation(s)", result.Added)
	return nil
}
