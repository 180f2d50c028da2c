package store

import (
	"slices"
	"strings"
	"unicode"
)

// Annotation is one key/value/context record.
//
// Annotations are values: once built they are never edited, only appended to a
// Container or removed from it by key.
type Annotation struct {
	Key     string `json:"key"`
	Value   string `json:"value"`
	Context string `json:"context"`
}

// NewAnnotation builds an Annotation whose fields survive a trip through the
// annotation file format.
//
// Key and context are single-line fields: line breaks become spaces. Values keep
// their line breaks (CRLF is normalized to LF). Trailing whitespace is trimmed from
// every line because the file format does not preserve it.
func NewAnnotation(key, value, context string) Annotation {
	return Annotation{
		Key:     singleLine(key),
		Value:   multiLine(value),
		Context: singleLine(context),
	}
}

// Lines returns the value split into its lines. The empty value has one empty line.
func (a Annotation) Lines() []string {
	return strings.Split(a.Value, "\n")
}

func singleLine(s string) string {
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.NewReplacer("\n", " ", "\r", " ").Replace(s)
	return strings.TrimRightFunc(s, unicode.IsSpace)
}

func multiLine(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRightFunc(line, unicode.IsSpace)
	}
	return strings.Join(lines, "\n")
}

// Container is an ordered list of annotations. Order is the order of writes, so
// for a key with several entries the last one is the current value.
type Container []Annotation

// Latest returns the newest annotation for key.
func (c Container) Latest(key string) (Annotation, bool) {
	for i := len(c) - 1; i >= 0; i-- {
		if c[i].Key == key {
			return c[i], true
		}
	}
	return Annotation{}, false
}

// All returns every annotation for key, oldest first.
func (c Container) All(key string) Container {
	var out Container
	for _, a := range c {
		if a.Key == key {
			out = append(out, a)
		}
	}
	return out
}

// Current drops overwritten entries: only the newest annotation of each key is
// kept, in the order those newest entries were written.
func (c Container) Current() Container {
	seen := make(map[string]bool, len(c))
	out := make(Container, 0, len(c))
	for i := len(c) - 1; i >= 0; i-- {
		if seen[c[i].Key] {
			continue
		}
		seen[c[i].Key] = true
		out = append(out, c[i])
	}
	slices.Reverse(out)
	return out
}

// Filter keeps the annotations whose key is one of keys. No keys keeps everything.
func (c Container) Filter(keys ...string) Container {
	if len(keys) == 0 {
		return slices.Clone(c)
	}
	var out Container
	for _, a := range c {
		if slices.Contains(keys, a.Key) {
			out = append(out, a)
		}
	}
	return out
}

// Keys returns the distinct keys in first-seen order.
func (c Container) Keys() []string {
	seen := make(map[string]bool, len(c))
	var keys []string
	for _, a := range c {
		if !seen[a.Key] {
			seen[a.Key] = true
			keys = append(keys, a.Key)
		}
	}
	return keys
}

// without returns c minus every annotation with the given key, and whether
// anything was dropped.
func (c Container) without(key string) (Container, bool) {
	kept := slices.DeleteFunc(slices.Clone(c), func(a Annotation) bool {
		return a.Key == key
	})
	return kept, len(kept) < len(c)
}
