package cli

import (
	"github.com/spf13/cobra"
)

// RemoveResult is the JSON payload of rm-file-key, rm-dir-key and drop-file.
type RemoveResult struct {
	File     string   `json:"file,omitempty"`
	Removed  []string `json:"removed"`
	NotFound []string `json:"not_found"`
}

// NewRmFileKeyCommand creates the rm-file-key command.
func NewRmFileKeyCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rm-file-key <filename> [<key>...]",
		Short: "Remove all annotations of a file that have specific keys",
		Long: `Remove every annotation of a file, history included, whose key is given.

The file stays registered even when no annotations are left; use drop-file to
forget it entirely.

Example:
  anno rm-file-key beach.jpg rating`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRmFileKey(rootOpts, args[0], args[1:], cmd)
		},
	}

	return cmd
}

// NewRmDirKeyCommand creates the rm-dir-key command.
func NewRmDirKeyCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rm-dir-key [<key>...]",
		Short: "Remove all annotations of the directory that have specific keys",
		Long: `Remove every directory annotation, history included, whose key is given.

Example:
  anno rm-dir-key description`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRmDirKey(rootOpts, args, cmd)
		},
	}

	return cmd
}

// NewDropFileCommand creates the drop-file command.
func NewDropFileCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "drop-file [<filename>...]",
		Short: "Remove the metadata of specific files completely",
		Long: `Forget files entirely: their annotations and their registration.

Example:
  anno drop-file old.jpg`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDropFile(rootOpts, args, cmd)
		},
	}

	return cmd
}

func runRmFileKey(opts *RootOptions, file string, keys []string, cmd *cobra.Command) error {
	s, err := openSession(opts, cmd, "")
	if err != nil {
		return err
	}

	result := RemoveResult{File: file, Removed: []string{}, NotFound: []string{}}
	for _, key := range keys {
		if s.store.RemoveFileAnnotationEntries(file, key) {
			result.Removed = append(result.Removed, key)
		} else {
			result.NotFound = append(result.NotFound, key)
			s.warn("no matching entries found", "file", file, "key", key)
		}
	}
	return finishRemove(s, result)
}

func runRmDirKey(opts *RootOptions, keys []string, cmd *cobra.Command) error {
	s, err := openSession(opts, cmd, "")
	if err != nil {
		return err
	}

	result := RemoveResult{Removed: []string{}, NotFound: []string{}}
	for _, key := range keys {
		if s.store.RemoveDirectoryAnnotationEntries(key) {
			result.Removed = append(result.Removed, key)
		} else {
			result.NotFound = append(result.NotFound, key)
			s.warn("no matching entries found", "key", key)
		}
	}
	return finishRemove(s, result)
}

func runDropFile(opts *RootOptions, files []string, cmd *cobra.Command) error {
	s, err := openSession(opts, cmd, "")
	if err != nil {
		return err
	}

	result := RemoveResult{Removed: []string{}, NotFound: []string{}}
	for _, file := range files {
		if s.store.DropFileAnnotations(file) {
			result.Removed = append(result.Removed, file)
		} else {
			result.NotFound = append(result.NotFound, file)
			s.warn("file is not in annotations", "file", file)
		}
	}
	return finishRemove(s, result)
}

func finishRemove(s *session, result RemoveResult) error {
	if err := s.save(); err != nil {
		return err
	}
	if s.formatter.IsJSON() {
		return s.formatter.Success(result)
	}
	s.formatter.VerboseLog("Removed %d, not found %d", len(result.Removed), len(result.NotFound))
	return nil
}
