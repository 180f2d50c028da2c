package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/roach88/annovate/internal/config"
	"github.com/roach88/annovate/internal/display"
	"github.com/roach88/annovate/internal/store"
)

// ConfigResult is the JSON payload of config.
type ConfigResult struct {
	File       string             `json:"file"`
	Attributes []config.Attribute `json:"attributes"`
}

// NewConfigCommand creates the config command.
func NewConfigCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
		Long: `Show every setting with its effective value and where it came from
(default, file, environment or flag).

Example:
  anno config
  anno -m photos/.annovate config --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfig(rootOpts, cmd)
		},
	}

	return cmd
}

func runConfig(opts *RootOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	cfg, err := opts.resolve(cmd)
	if err != nil {
		return formatter.fail(ExitCommandError, ErrCodeConfig, err.Error(), nil)
	}

	result := ConfigResult{File: cfg.ConfigFilePath(), Attributes: cfg.Attributes()}
	if formatter.IsJSON() {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "config file: %s\n\n", result.File)
	rows := store.Container{{Key: "NAME", Value: "VALUE", Context: "SOURCE"}}
	for _, a := range result.Attributes {
		rows = append(rows, store.Annotation{Key: a.Name, Value: strconv.Quote(a.Value), Context: a.Source})
	}
	return display.Render(formatter.Writer, rows, display.Options{
		ShowContext: true,
		ShowAll:     true,
		Padding:     cfg.ColumnPadding,
	})
}
