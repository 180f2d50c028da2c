package cli

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/annovate/internal/config"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string

	MetaFile    string // -m: annotation file to read
	MetaOutfile string // -M: annotation file to write, defaults to MetaFile
	ShowAll     bool   // -a: include overwritten entries
	ShowContext bool   // -c: print contexts
	Context     string // -C: context for new annotations
	Dotfiles    bool   // -d: include dotfiles in list and report

	// Now and Getenv allow overriding the clock and environment (for testing).
	Now    func() time.Time
	Getenv func(string) string

	cfg    *config.Config
	logger *slog.Logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the annovate CLI.
func NewRootCommand() *cobra.Command {
	return NewRootCommandWithOptions(&RootOptions{})
}

// NewRootCommandWithOptions creates the root command bound to opts, so callers
// can supply their own clock and environment.
func NewRootCommandWithOptions(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "anno",
		Short: "Annovate - manage your files' metadata",
		Long: `Annovate keeps key/value metadata about a directory and the files in it
in a single plain-text annotation file (./.annovate by default).

Every value is stored with a context noting where it came from. Setting a key
again keeps the old entry as history; the newest entry is the current value.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Validate format flag
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "path to config file (default $ANNOVATE_CONFIG or <user config dir>/annovate/config.yaml)")
	cmd.PersistentFlags().StringVarP(&opts.MetaFile, "meta-file", "m", "", "path to the annotation file (default ./.annovate)")
	cmd.PersistentFlags().StringVarP(&opts.MetaOutfile, "meta-outfile", "M", "", "path to write the annotation file to (default: the -m path)")
	cmd.PersistentFlags().BoolVarP(&opts.ShowAll, "all", "a", false, "include overwritten entries")
	cmd.PersistentFlags().BoolVarP(&opts.ShowContext, "show-context", "c", false, "also print context information")
	cmd.PersistentFlags().StringVarP(&opts.Context, "context", "C", "", "context for new annotations (default: program name and timestamp)")
	cmd.PersistentFlags().BoolVarP(&opts.Dotfiles, "dotfiles", "d", false, "also consider dotfiles in list and report")

	// Add subcommands
	cmd.AddCommand(NewNewCommand(opts))
	cmd.AddCommand(NewQueryCommand(opts))
	cmd.AddCommand(NewQueryDirCommand(opts))
	cmd.AddCommand(NewPutCommand(opts))
	cmd.AddCommand(NewPutBatchCommand(opts))
	cmd.AddCommand(NewPutDirCommand(opts))
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewGetCommand(opts))
	cmd.AddCommand(NewGetDirCommand(opts))
	cmd.AddCommand(NewCopyCommand(opts))
	cmd.AddCommand(NewRmFileKeyCommand(opts))
	cmd.AddCommand(NewRmDirKeyCommand(opts))
	cmd.AddCommand(NewDropFileCommand(opts))
	cmd.AddCommand(NewReportCommand(opts))
	cmd.AddCommand(NewConfigCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// flagAttributes maps global flags onto the config attributes they override.
var flagAttributes = map[string]string{
	"meta-file":    "meta_file",
	"context":      "context",
	"all":          "show_all",
	"show-context": "show_context",
	"dotfiles":     "include_dotfiles",
}

// resolve loads the config once and applies explicitly set flags on top of it.
// It also sets up logging: debug with --verbose, warnings otherwise.
func (o *RootOptions) resolve(cmd *cobra.Command) (*config.Config, error) {
	if o.cfg != nil {
		return o.cfg, nil
	}

	getenv := o.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	cfg, err := config.LoadWithEnv(o.ConfigPath, getenv)
	if err != nil {
		return nil, err
	}

	for flag, attr := range flagAttributes {
		f := cmd.Flags().Lookup(flag)
		if f == nil || !f.Changed {
			continue
		}
		switch attr {
		case "meta_file":
			cfg.MetaFile = o.MetaFile
		case "context":
			cfg.Context = o.Context
		case "show_all":
			cfg.ShowAll = o.ShowAll
		case "show_context":
			cfg.ShowContext = o.ShowContext
		case "include_dotfiles":
			cfg.IncludeDotfiles = o.Dotfiles
		}
		cfg.MarkFlag(attr)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logLevel := slog.LevelWarn
	if o.Verbose {
		logLevel = slog.LevelDebug
	}
	o.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: logLevel,
	}))
	o.cfg = cfg
	return cfg, nil
}

func (o *RootOptions) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}
