package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/annovate/internal/store"
)

func envOf(vars map[string]string) func(string) string {
	return func(key string) string { return vars[key] }
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	c := Default()
	assert.Equal(t, store.DefaultFileName, c.MetaFile)
	assert.Equal(t, "description", c.DefaultListKey)
	assert.Equal(t, store.TimestampLayout, c.TimestampLayout)
	assert.Equal(t, 2, c.ColumnPadding)
	assert.Equal(t, SourceDefault, c.Source("meta_file"))
	assert.Equal(t, SourceDefault, c.Source("unknown"))
}

func TestLoad_MissingDefaultFileIsFine(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	missing := filepath.Join(t.TempDir(), "nope.yaml")
	c, err := LoadWithEnv("", envOf(map[string]string{}))
	require.NoError(t, err)
	assert.Equal(t, store.DefaultFileName, c.MetaFile)

	_, err = LoadWithEnv(missing, envOf(nil))
	require.Error(t, err, "explicit path must exist")

	_, err = LoadWithEnv("", envOf(map[string]string{EnvConfigPath: missing}))
	require.Error(t, err, "path from environment must exist")
}

func TestLoad_FromFile(t *testing.T) {
	path := writeConfig(t, `
meta_file: .meta
context: batch import
show_context: true
show_all: false
column_padding: 4
`)
	c, err := LoadWithEnv(path, envOf(nil))
	require.NoError(t, err)

	assert.Equal(t, path, c.ConfigFilePath())
	assert.Equal(t, ".meta", c.MetaFile)
	assert.Equal(t, "batch import", c.Context)
	assert.True(t, c.ShowContext)
	assert.Equal(t, 4, c.ColumnPadding)

	assert.Equal(t, SourceFile, c.Source("meta_file"))
	assert.Equal(t, SourceFile, c.Source("show_all"), "explicit false still counts as set")
	assert.Equal(t, SourceDefault, c.Source("include_dotfiles"))
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "meta_file: .meta\nshow_context: true\n")
	c, err := LoadWithEnv(path, envOf(map[string]string{
		"ANNOVATE_META_FILE":    ".env-meta",
		"ANNOVATE_SHOW_CONTEXT": "false",
		"ANNOVATE_DOTFILES":     "1",
		"ANNOVATE_LIST_KEY":     "title",
	}))
	require.NoError(t, err)

	assert.Equal(t, ".env-meta", c.MetaFile)
	assert.False(t, c.ShowContext)
	assert.True(t, c.IncludeDotfiles)
	assert.Equal(t, "title", c.DefaultListKey)
	assert.Equal(t, SourceEnv, c.Source("meta_file"))
	assert.Equal(t, SourceEnv, c.Source("show_context"))
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		env     map[string]string
		wantErr string
	}{
		{"bad_yaml", "meta_file: [unterminated", nil, "failed to parse config file"},
		{"empty_meta_file", "meta_file: \"\"", nil, "meta_file must not be empty"},
		{"unknown_key", "show_contxt: true", nil, "field show_contxt not found"},
		{"unknown_key_among_valid", "meta_file: .meta\ncolumn_pading: 3", nil, "failed to parse config file"},
		{"negative_padding", "column_padding: -1", nil, "column_padding must not be negative"},
		{"bad_bool_env", "", map[string]string{"ANNOVATE_SHOW_ALL": "maybe"}, "invalid ANNOVATE_SHOW_ALL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.content)
			_, err := LoadWithEnv(path, envOf(tt.env))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_EmptyAndCommentOnlyFiles(t *testing.T) {
	for _, content := range []string{"", "# nothing configured\n"} {
		path := writeConfig(t, content)
		c, err := LoadWithEnv(path, envOf(nil))
		require.NoError(t, err, "content %q", content)
		assert.Equal(t, store.DefaultFileName, c.MetaFile)
		assert.Equal(t, SourceDefault, c.Source("meta_file"))
	}
}

func TestAttributes(t *testing.T) {
	c := Default()
	c.ShowAll = true
	c.MarkFlag("show_all")

	attrs := c.Attributes()
	require.Len(t, attrs, 8)
	assert.Equal(t, "column_padding", attrs[0].Name)

	var showAll Attribute
	for _, a := range attrs {
		if a.Name == "show_all" {
			showAll = a
		}
	}
	assert.Equal(t, Attribute{Name: "show_all", Value: "true", Source: SourceFlag}, showAll)
}
