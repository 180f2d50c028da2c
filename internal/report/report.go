// Package report compares the files named in an annotation file with the files
// actually present in the directory.
package report

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/gobwas/glob"
)

// Status classifies one filename.
type Status string

const (
	StatusBoth         Status = "=" // annotated and present
	StatusMetadataOnly Status = "+" // annotated but missing from the directory
	StatusMissing      Status = "-" // present but not annotated
)

// Entry is one line of a report.
type Entry struct {
	Status Status `json:"status"`
	Name   string `json:"name"`
}

func (e Entry) String() string {
	return fmt.Sprintf("%s %s", e.Status, e.Name)
}

// Options controls which names take part in a report.
type Options struct {
	// IncludeDotfiles keeps names starting with '.'; they are skipped otherwise.
	IncludeDotfiles bool

	// Match restricts the report to names matching this glob. Empty matches all.
	Match string

	// Ignore names never reported, such as the annotation file itself.
	Ignore []string
}

// Filter decides which filenames a report, or a listing, considers.
type Filter struct {
	dotfiles bool
	pattern  glob.Glob
	ignore   map[string]bool
}

// NewFilter compiles the options into a Filter.
func NewFilter(opts Options) (*Filter, error) {
	f := &Filter{dotfiles: opts.IncludeDotfiles, ignore: make(map[string]bool)}
	if opts.Match != "" {
		g, err := glob.Compile(opts.Match)
		if err != nil {
			return nil, fmt.Errorf("invalid match pattern %q: %w", opts.Match, err)
		}
		f.pattern = g
	}
	for _, name := range opts.Ignore {
		f.ignore[name] = true
	}
	return f, nil
}

// Allows reports whether name passes the filter.
func (f *Filter) Allows(name string) bool {
	if f.ignore[name] {
		return false
	}
	if !f.dotfiles && strings.HasPrefix(name, ".") {
		return false
	}
	return f.pattern == nil || f.pattern.Match(name)
}

// Compare classifies every name in annotated and present. Entries are grouped
// by status ("=", then "+", then "-") and sorted by name within a group.
func Compare(annotated, present []string, f *Filter) []Entry {
	inMeta := make(map[string]bool, len(annotated))
	for _, name := range annotated {
		if f.Allows(name) {
			inMeta[name] = true
		}
	}
	onDisk := make(map[string]bool, len(present))
	for _, name := range present {
		if f.Allows(name) {
			onDisk[name] = true
		}
	}

	var both, metaOnly, missing []string
	for name := range inMeta {
		if onDisk[name] {
			both = append(both, name)
		} else {
			metaOnly = append(metaOnly, name)
		}
	}
	for name := range onDisk {
		if !inMeta[name] {
			missing = append(missing, name)
		}
	}

	var entries []Entry
	for _, group := range []struct {
		status Status
		names  []string
	}{
		{StatusBoth, both},
		{StatusMetadataOnly, metaOnly},
		{StatusMissing, missing},
	} {
		sort.Strings(group.names)
		for _, name := range group.names {
			entries = append(entries, Entry{Status: group.status, Name: name})
		}
	}
	return entries
}

// ReadDirNames lists the entry names of dir.
func ReadDirNames(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read directory %s: %w", dir, err)
	}
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name()
	}
	return names, nil
}

// Write prints entries one per line as "<status> <name>".
func Write(w io.Writer, entries []Entry) error {
	for _, e := range entries {
		if _, err := fmt.Fprintln(w, e); err != nil {
			return err
		}
	}
	return nil
}
