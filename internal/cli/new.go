package cli

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/annovate/internal/config"
)

// NewResult is the JSON payload of the new command.
type NewResult struct {
	Directory string `json:"directory"`
	MetaFile  string `json:"meta_file"`
}

// NewNewCommand creates the new command.
func NewNewCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "new <dirname>",
		Short: "Create a new directory with an annotation file in it",
		Long: `Create a directory (including parents) and an annotation file inside it.

The annotation file starts with a "creation time" entry. An existing directory
or annotation file is left as it is.

Example:
  anno new photos/2024`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNew(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runNew(opts *RootOptions, dir string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	cfg, err := opts.resolve(cmd)
	if err != nil {
		return formatter.fail(ExitCommandError, ErrCodeConfig, err.Error(), nil)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return formatter.fail(ExitCommandError, ErrCodeIO, "failed to create new directory: "+err.Error(), nil)
	}

	// -m names the annotation file explicitly; otherwise it goes inside dir.
	path := filepath.Join(dir, filepath.Base(cfg.MetaFile))
	if cfg.Source("meta_file") == config.SourceFlag {
		path = cfg.MetaFile
	}

	if _, err := openSession(opts, cmd, path); err != nil {
		return err
	}

	if formatter.IsJSON() {
		return formatter.Success(NewResult{Directory: dir, MetaFile: path})
	}
	formatter.VerboseLog("Created %s", path)
	return nil
}
