package cli

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/annovate/internal/report"
)

// ReportOptions holds flags for the report command.
type ReportOptions struct {
	*RootOptions
	Match string
}

// ReportResult is the JSON payload of report.
type ReportResult struct {
	Directory string         `json:"directory"`
	Entries   []report.Entry `json:"entries"`
}

// NewReportCommand creates the report command.
func NewReportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Compare the annotated files with the directory contents",
		Long: `Compare the files named in the annotation file with the files present in
the annotation file's directory. Each name is printed with a status:

  =  annotated and present
  +  annotated but not present
  -  present but not annotated

The annotation file itself is never reported. Dotfiles are skipped unless -d
is given.

Example:
  anno report
  anno report --match '*.jpg'`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Match, "match", "", "only report files matching this glob pattern")

	return cmd
}

func runReport(opts *ReportOptions, cmd *cobra.Command) error {
	s, err := openSession(opts.RootOptions, cmd, "")
	if err != nil {
		return err
	}

	ignore := []string{filepath.Base(s.store.Path())}
	if opts.MetaOutfile != "" {
		ignore = append(ignore, filepath.Base(opts.MetaOutfile))
	}
	filter, err := report.NewFilter(report.Options{
		IncludeDotfiles: s.cfg.IncludeDotfiles,
		Match:           opts.Match,
		Ignore:          ignore,
	})
	if err != nil {
		return s.formatter.fail(ExitCommandError, ErrCodeInvalidArgs, err.Error(), nil)
	}

	dir := filepath.Dir(s.store.Path())
	present, err := report.ReadDirNames(dir)
	if err != nil {
		return s.formatter.fail(ExitCommandError, ErrCodeIO, err.Error(), nil)
	}

	entries := report.Compare(s.store.ListFiles(), present, filter)
	if s.formatter.IsJSON() {
		if entries == nil {
			entries = []report.Entry{}
		}
		return s.formatter.Success(ReportResult{Directory: dir, Entries: entries})
	}
	return report.Write(s.formatter.Writer, entries)
}
