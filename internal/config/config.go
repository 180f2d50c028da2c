// Package config loads annovate settings from an optional YAML file and the
// environment.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/roach88/annovate/internal/store"
)

const (
	// EnvConfigPath overrides where the config file is looked up.
	EnvConfigPath = "ANNOVATE_CONFIG"

	// FileName is the config file name inside the user config directory.
	FileName = "config.yaml"
)

// Sources of an attribute's value, in increasing precedence.
const (
	SourceDefault = "default"
	SourceFile    = "file"
	SourceEnv     = "environment"
	SourceFlag    = "flag"
)

// Config holds annovate settings.
type Config struct {
	// MetaFile is the annotation file used when no -m flag is given.
	MetaFile string `yaml:"meta_file" json:"meta_file"`

	// Context is attached to new annotations when no -C flag is given. Empty
	// means "annovate program, <timestamp>".
	Context string `yaml:"context" json:"context"`

	// DefaultListKey is the key shown by "list" without arguments.
	DefaultListKey string `yaml:"default_list_key" json:"default_list_key"`

	// TimestampLayout is a Go time layout for generated timestamps.
	TimestampLayout string `yaml:"timestamp_layout" json:"timestamp_layout"`

	ShowContext     bool `yaml:"show_context" json:"show_context"`
	ShowAll         bool `yaml:"show_all" json:"show_all"`
	IncludeDotfiles bool `yaml:"include_dotfiles" json:"include_dotfiles"`

	// ColumnPadding is the number of blank cells between display columns.
	ColumnPadding int `yaml:"column_padding" json:"column_padding"`

	sources        map[string]string
	configFilePath string
}

// fileConfig mirrors Config with pointers so that explicit zero values in the
// file are told apart from absent ones.
type fileConfig struct {
	MetaFile        *string `yaml:"meta_file"`
	Context         *string `yaml:"context"`
	DefaultListKey  *string `yaml:"default_list_key"`
	TimestampLayout *string `yaml:"timestamp_layout"`
	ShowContext     *bool   `yaml:"show_context"`
	ShowAll         *bool   `yaml:"show_all"`
	IncludeDotfiles *bool   `yaml:"include_dotfiles"`
	ColumnPadding   *int    `yaml:"column_padding"`
}

// Default returns the built-in settings.
func Default() *Config {
	c := &Config{
		MetaFile:        store.DefaultFileName,
		DefaultListKey:  "description",
		TimestampLayout: store.TimestampLayout,
		ColumnPadding:   2,
		sources:         make(map[string]string),
	}
	for _, name := range attributeNames() {
		c.sources[name] = SourceDefault
	}
	return c
}

func attributeNames() []string {
	return []string{
		"meta_file", "context", "default_list_key", "timestamp_layout",
		"show_context", "show_all", "include_dotfiles", "column_padding",
	}
}

// Load reads settings from path, or from the default location when path is
// empty, then applies environment overrides.
func Load(path string) (*Config, error) {
	return LoadWithEnv(path, os.Getenv)
}

// LoadWithEnv is Load with an explicit environment lookup.
//
// A missing file is only an error when its path was given explicitly, either as
// path or through ANNOVATE_CONFIG.
func LoadWithEnv(path string, getenv func(string) string) (*Config, error) {
	c := Default()

	explicit := true
	if path == "" {
		path = getenv(EnvConfigPath)
	}
	if path == "" {
		explicit = false
		path = defaultPath()
	}
	c.configFilePath = path

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			file, err := decodeFileConfig(data)
			if err != nil {
				return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
			}
			c.applyFileConfig(file)
		case errors.Is(err, fs.ErrNotExist) && !explicit:
		default:
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	if err := c.applyEnvConfig(getenv); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// decodeFileConfig parses the config file strictly so misspelled keys are
// reported. An empty or comment-only file sets nothing.
func decodeFileConfig(data []byte) (*fileConfig, error) {
	var file fileConfig
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return &file, nil
}

func defaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "annovate", FileName)
}

func (c *Config) applyFileConfig(file *fileConfig) {
	if file.MetaFile != nil {
		c.MetaFile = *file.MetaFile
		c.sources["meta_file"] = SourceFile
	}
	if file.Context != nil {
		c.Context = *file.Context
		c.sources["context"] = SourceFile
	}
	if file.DefaultListKey != nil {
		c.DefaultListKey = *file.DefaultListKey
		c.sources["default_list_key"] = SourceFile
	}
	if file.TimestampLayout != nil {
		c.TimestampLayout = *file.TimestampLayout
		c.sources["timestamp_layout"] = SourceFile
	}
	if file.ShowContext != nil {
		c.ShowContext = *file.ShowContext
		c.sources["show_context"] = SourceFile
	}
	if file.ShowAll != nil {
		c.ShowAll = *file.ShowAll
		c.sources["show_all"] = SourceFile
	}
	if file.IncludeDotfiles != nil {
		c.IncludeDotfiles = *file.IncludeDotfiles
		c.sources["include_dotfiles"] = SourceFile
	}
	if file.ColumnPadding != nil {
		c.ColumnPadding = *file.ColumnPadding
		c.sources["column_padding"] = SourceFile
	}
}

func (c *Config) applyEnvConfig(getenv func(string) string) error {
	if val := getenv("ANNOVATE_META_FILE"); val != "" {
		c.MetaFile = val
		c.sources["meta_file"] = SourceEnv
	}
	if val := getenv("ANNOVATE_CONTEXT"); val != "" {
		c.Context = val
		c.sources["context"] = SourceEnv
	}
	if val := getenv("ANNOVATE_LIST_KEY"); val != "" {
		c.DefaultListKey = val
		c.sources["default_list_key"] = SourceEnv
	}
	if val := getenv("ANNOVATE_TIMESTAMP_LAYOUT"); val != "" {
		c.TimestampLayout = val
		c.sources["timestamp_layout"] = SourceEnv
	}

	bools := []struct {
		env, name string
		dst       *bool
	}{
		{"ANNOVATE_SHOW_CONTEXT", "show_context", &c.ShowContext},
		{"ANNOVATE_SHOW_ALL", "show_all", &c.ShowAll},
		{"ANNOVATE_DOTFILES", "include_dotfiles", &c.IncludeDotfiles},
	}
	for _, b := range bools {
		val := getenv(b.env)
		if val == "" {
			continue
		}
		parsed, err := strconv.ParseBool(val)
		if err != nil {
			return fmt.Errorf("invalid %s=%q: %w", b.env, val, err)
		}
		*b.dst = parsed
		c.sources[b.name] = SourceEnv
	}
	return nil
}

// Validate checks the settings for values the CLI cannot work with.
func (c *Config) Validate() error {
	if c.MetaFile == "" {
		return errors.New("meta_file must not be empty")
	}
	if c.TimestampLayout == "" {
		return errors.New("timestamp_layout must not be empty")
	}
	if c.ColumnPadding < 0 {
		return fmt.Errorf("column_padding must not be negative, got %d", c.ColumnPadding)
	}
	return nil
}

// MarkFlag records that a command-line flag set the named attribute.
func (c *Config) MarkFlag(name string) {
	c.sources[name] = SourceFlag
}

// ConfigFilePath returns the config file consulted, which may not exist.
func (c *Config) ConfigFilePath() string {
	return c.configFilePath
}

// Source returns where the named attribute's value came from.
func (c *Config) Source(name string) string {
	if s, ok := c.sources[name]; ok {
		return s
	}
	return SourceDefault
}

// Attribute is one setting with its value and source.
type Attribute struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Source string `json:"source"`
}

// Attributes lists every setting, sorted by name.
func (c *Config) Attributes() []Attribute {
	values := map[string]string{
		"meta_file":        c.MetaFile,
		"context":          c.Context,
		"default_list_key": c.DefaultListKey,
		"timestamp_layout": c.TimestampLayout,
		"show_context":     strconv.FormatBool(c.ShowContext),
		"show_all":         strconv.FormatBool(c.ShowAll),
		"include_dotfiles": strconv.FormatBool(c.IncludeDotfiles),
		"column_padding":   strconv.Itoa(c.ColumnPadding),
	}
	attrs := make([]Attribute, 0, len(values))
	for name, value := range values {
		attrs = append(attrs, Attribute{Name: name, Value: value, Source: c.Source(name)})
	}
	sort.Slice(attrs, func(i, j int) bool { return attrs[i].Name < attrs[j].Name })
	return attrs
}
