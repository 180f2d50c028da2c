package cli

import (
	"github.com/spf13/cobra"
)

// CopyResult is the JSON payload of copy.
type CopyResult struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Copied int    `json:"copied"`
}

// NewCopyCommand creates the copy command.
func NewCopyCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "copy <filename> <filename2> [<key>...]",
		Short: "Copy annotations from one file to another",
		Long: `Copy all annotations of a file, or only those with the given keys, to
another file. The copies get the context "copy from <filename>".

Example:
  anno copy beach.jpg beach-edit.jpg description rating`,
		Args:          cobra.MinimumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCopy(rootOpts, args[0], args[1], args[2:], cmd)
		},
	}

	return cmd
}

func runCopy(opts *RootOptions, from, to string, keys []string, cmd *cobra.Command) error {
	s, err := openSession(opts, cmd, "")
	if err != nil {
		return err
	}

	n, ok := s.store.CopyFileAnnotations(from, to, "copy from "+from, keys...)
	if !ok {
		return s.formatter.fail(ExitFailure, ErrCodeNotAnnotated, "filename has no annotations: "+from, nil)
	}
	if n == 0 {
		s.warn("no matching entries to copy", "from", from, "keys", keys)
	}
	if err := s.save(); err != nil {
		return err
	}

	if s.formatter.IsJSON() {
		return s.formatter.Success(CopyResult{From: from, To: to, Copied: n})
	}
	s.formatter.VerboseLog("Copied %d annotation(s) from %s to %s", n, from, to)
	return nil
}
