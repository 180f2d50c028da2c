package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/annovate/internal/config"
	"github.com/roach88/annovate/internal/display"
	"github.com/roach88/annovate/internal/store"
)

// session is one command's view of the annotation file: loaded once, saved at
// most once.
type session struct {
	opts      *RootOptions
	cfg       *config.Config
	formatter *OutputFormatter
	store     *store.Store
}

// newFormatter builds the formatter for cmd's output streams.
func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}
}

// openSession resolves the configuration and loads the annotation file at path,
// or at the configured meta file when path is empty. A missing file is created.
func openSession(opts *RootOptions, cmd *cobra.Command, path string) (*session, error) {
	formatter := newFormatter(opts, cmd)

	cfg, err := opts.resolve(cmd)
	if err != nil {
		return nil, formatter.fail(ExitCommandError, ErrCodeConfig, err.Error(), nil)
	}
	if path == "" {
		path = cfg.MetaFile
	}

	formatter.VerboseLog("Opening annotation file %s", path)
	st, err := store.Open(path, store.OpenOptions{
		CreationReason: "new annovate file",
		Now:            opts.now,
		Logger:         opts.logger,
	})
	if err != nil {
		return nil, formatter.failStore(err)
	}

	return &session{opts: opts, cfg: cfg, formatter: formatter, store: st}, nil
}

// context is the context string for annotations created by this command.
func (s *session) context() string {
	if s.cfg.Context != "" {
		return s.cfg.Context
	}
	return "annovate program, " + s.opts.now().Format(s.cfg.TimestampLayout)
}

// outputPath is where save writes: the -M path if given, else the opened file.
func (s *session) outputPath() string {
	if s.opts.MetaOutfile != "" {
		return s.opts.MetaOutfile
	}
	return s.store.Path()
}

// save writes the whole store to outputPath.
func (s *session) save() error {
	path := s.outputPath()
	if err := s.store.SaveAs(path); err != nil {
		return s.formatter.failStore(err)
	}
	s.formatter.VerboseLog("Saved annotation file %s", path)
	return nil
}

// warn reports a non-fatal problem on the diagnostic stream.
func (s *session) warn(msg string, args ...any) {
	s.opts.logger.Warn(msg, args...)
}

// displayOptions derives rendering options from the effective configuration.
func (s *session) displayOptions() display.Options {
	return display.Options{
		ShowContext: s.cfg.ShowContext,
		ShowAll:     s.cfg.ShowAll,
		Padding:     s.cfg.ColumnPadding,
	}
}

// visible applies the -a setting to c.
func (s *session) visible(c store.Container) store.Container {
	if s.cfg.ShowAll {
		return c
	}
	return c.Current()
}
