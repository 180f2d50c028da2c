package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/annovate/internal/display"
	"github.com/roach88/annovate/internal/store"
)

// QueryResult is the JSON payload of query and query-dir.
type QueryResult struct {
	File        string          `json:"file,omitempty"`
	Annotations store.Container `json:"annotations"`
}

// NewQueryCommand creates the query command.
func NewQueryCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query <filename> [<key>...]",
		Short: "List the annotations of a file",
		Long: `List all annotations of a file, or only those with the given keys.

Only the current value of each key is shown unless -a is given.

Example:
  anno query beach.jpg
  anno query -c -a beach.jpg rating`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(rootOpts, args[0], args[1:], cmd)
		},
	}

	return cmd
}

// NewQueryDirCommand creates the query-dir command.
func NewQueryDirCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query-dir [<key>...]",
		Short: "List the annotations of the directory",
		Long: `List all annotations of the directory itself, or only those with the given keys.

Example:
  anno query-dir
  anno query-dir "creation time"`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQueryDir(rootOpts, args, cmd)
		},
	}

	return cmd
}

func runQuery(opts *RootOptions, file string, keys []string, cmd *cobra.Command) error {
	s, err := openSession(opts, cmd, "")
	if err != nil {
		return err
	}

	annos, ok := s.store.FileAnnotations(file)
	if !ok {
		return s.formatter.fail(ExitFailure, ErrCodeNotAnnotated, "filename has no annotations: "+file, nil)
	}
	return outputQuery(s, file, annos.Filter(keys...))
}

func runQueryDir(opts *RootOptions, keys []string, cmd *cobra.Command) error {
	s, err := openSession(opts, cmd, "")
	if err != nil {
		return err
	}
	return outputQuery(s, "", s.store.DirectoryAnnotations().Filter(keys...))
}

func outputQuery(s *session, file string, annos store.Container) error {
	if s.formatter.IsJSON() {
		visible := s.visible(annos)
		if visible == nil {
			visible = store.Container{}
		}
		return s.formatter.Success(QueryResult{File: file, Annotations: visible})
	}
	return display.Render(s.formatter.Writer, annos, s.displayOptions())
}
