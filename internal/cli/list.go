package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/annovate/internal/display"
	"github.com/roach88/annovate/internal/report"
	"github.com/roach88/annovate/internal/store"
)

// Placeholders shown by list for files without the key.
const (
	missingValue   = "<missing-value>"
	missingContext = "<missing-context>"
)

// ListOptions holds flags for the list command.
type ListOptions struct {
	*RootOptions
	Match string
}

// ListEntry is one file's value in the JSON payload of list.
type ListEntry struct {
	File    string `json:"file"`
	Value   string `json:"value"`
	Context string `json:"context"`
	Missing bool   `json:"missing,omitempty"`
}

// ListResult is the JSON payload of list.
type ListResult struct {
	Key     string      `json:"key"`
	Entries []ListEntry `json:"entries"`
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list [<key>]",
		Short: "Show the value of one key for every annotated file",
		Long: `Show the value of a key (default: description) for every annotated file.

Files without the key are listed with <missing-value>. Dotfiles are skipped
unless -d is given.

Example:
  anno list
  anno list rating --match '*.jpg'`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			key := ""
			if len(args) == 1 {
				key = args[0]
			}
			return runList(opts, key, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Match, "match", "", "only list files matching this glob pattern")

	return cmd
}

func runList(opts *ListOptions, key string, cmd *cobra.Command) error {
	s, err := openSession(opts.RootOptions, cmd, "")
	if err != nil {
		return err
	}
	if key == "" {
		key = s.cfg.DefaultListKey
	}

	filter, err := report.NewFilter(report.Options{
		IncludeDotfiles: s.cfg.IncludeDotfiles,
		Match:           opts.Match,
	})
	if err != nil {
		return s.formatter.fail(ExitCommandError, ErrCodeInvalidArgs, err.Error(), nil)
	}

	var entries []ListEntry
	for _, file := range s.store.ListFiles() {
		if !filter.Allows(file) {
			continue
		}
		annos, _ := s.store.FileAnnotations(file)
		matches := s.visible(annos.All(key))
		if len(matches) == 0 {
			entries = append(entries, ListEntry{File: file, Value: missingValue, Context: missingContext, Missing: true})
			continue
		}
		for _, a := range matches {
			entries = append(entries, ListEntry{File: file, Value: a.Value, Context: a.Context})
		}
	}

	if s.formatter.IsJSON() {
		if entries == nil {
			entries = []ListEntry{}
		}
		return s.formatter.Success(ListResult{Key: key, Entries: entries})
	}

	// Rows reuse the annotation layout with the filename in the key column.
	rows := store.Container{{Key: "Filename", Value: key, Context: "Context"}}
	for _, e := range entries {
		rows = append(rows, store.Annotation{Key: e.File, Value: e.Value, Context: e.Context})
	}
	displayOpts := s.displayOptions()
	displayOpts.ShowAll = true
	return display.Render(s.formatter.Writer, rows, displayOpts)
}
