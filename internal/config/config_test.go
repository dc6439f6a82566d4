package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"edshell/internal/config"
	"edshell/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Helper function to create a temporary YAML config file
func createTestYAML(t *testing.T, content string) string {
	t.Helper()
	tmpFile, err := os.CreateTemp(t.TempDir(), "config-*.yaml")
	require.NoError(t, err)
	_, err = tmpFile.WriteString(content)
	require.NoError(t, err)
	err = tmpFile.Close()
	require.NoError(t, err)
	return tmpFile.Name()
}

const (
	validYAML = `
explorer:
  show_hidden: true
  ignore: ["*.o", "node_modules"]
tabs:
  edited_marker: "+"
editor:
  zoom_default: 120
  reject_binary: false
watch:
  enabled: false
log:
  debug: true
directories:
  last_project: "/home/test/proj"
  recent: ["/home/test/proj", "/home/test/old"]
`
	invalidSyntaxYAML = `
explorer:
  ignore: ["*.o"
tabs: # Unclosed flow sequence
  base_height: yes
`
	invalidZoomYAML = `
editor:
  zoom_default: 105
`
	invalidGlobYAML = `
explorer:
  ignore: ["[unclosed"]
`
)

func TestLoadConfigFile(t *testing.T) {
	t.Run("load valid config", func(t *testing.T) {
		configFile := createTestYAML(t, validYAML)
		cfg, err := config.LoadConfigFile(configFile)

		require.NoError(t, err)
		require.NotNil(t, cfg)

		assert.True(t, cfg.Explorer.ShowHidden)
		assert.Equal(t, []string{"*.o", "node_modules"}, cfg.Explorer.Ignore)
		assert.Equal(t, "+", cfg.Tabs.EditedMarker)
		assert.Equal(t, 120, cfg.Editor.ZoomDefault)
		assert.False(t, cfg.Editor.RejectBinary)
		assert.False(t, cfg.Watch.Enabled)
		assert.True(t, cfg.Log.Debug)
		assert.Equal(t, "/home/test/proj", cfg.Directories.LastProject)
		assert.Len(t, cfg.Directories.Recent, 2)

		// Keys the file leaves out keep their defaults
		defaults := config.New()
		assert.Equal(t, defaults.Tabs.BaseHeight, cfg.Tabs.BaseHeight)
		assert.Equal(t, defaults.Tabs.CloseButtonWidth, cfg.Tabs.CloseButtonWidth)
		assert.Equal(t, defaults.Watch.DebounceMS, cfg.Watch.DebounceMS)
	})

	t.Run("load non-existent file", func(t *testing.T) {
		nonExistentPath := filepath.Join(t.TempDir(), "does_not_exist.yaml")
		cfg, err := config.LoadConfigFile(nonExistentPath)

		require.NoError(t, err, "Loading non-existent file should return default config, not an error")
		require.NotNil(t, cfg)
		assert.Equal(t, config.New(), cfg)
	})

	t.Run("load file with invalid YAML syntax", func(t *testing.T) {
		configFile := createTestYAML(t, invalidSyntaxYAML)
		_, err := config.LoadConfigFile(configFile)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "error parsing config file")
		assert.True(t, errors.IsInvalidConfig(err))
	})

	t.Run("load file with invalid zoom", func(t *testing.T) {
		configFile := createTestYAML(t, invalidZoomYAML)
		_, err := config.LoadConfigFile(configFile)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid configuration")
		assert.Contains(t, err.Error(), "editor.zoom_default")
	})

	t.Run("load file with invalid ignore glob", func(t *testing.T) {
		configFile := createTestYAML(t, invalidGlobYAML)
		_, err := config.LoadConfigFile(configFile)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "explorer.ignore[0]")
	})
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *config.Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(c *config.Config) {}},
		{name: "zero tab height", mutate: func(c *config.Config) { c.Tabs.BaseHeight = 0 }, wantErr: "tabs.base_height"},
		{name: "negative close button", mutate: func(c *config.Config) { c.Tabs.CloseButtonWidth = -1 }, wantErr: "tabs.close_button_width"},
		{name: "zoom too large", mutate: func(c *config.Config) { c.Editor.ZoomDefault = 510 }, wantErr: "editor.zoom_default"},
		{name: "negative max size", mutate: func(c *config.Config) { c.Editor.MaxFileSize = -1 }, wantErr: "editor.max_file_size"},
		{name: "negative debounce", mutate: func(c *config.Config) { c.Watch.DebounceMS = -5 }, wantErr: "watch.debounce_ms"},
		{name: "empty ignore pattern", mutate: func(c *config.Config) { c.Explorer.Ignore = []string{""} }, wantErr: "explorer.ignore[0]"},
		{name: "empty recent entry", mutate: func(c *config.Config) { c.Directories.Recent = []string{"/a", ""} }, wantErr: "directories.recent[1]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.IsInvalidConfig(err))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	var nilCfg *config.Config
	assert.Error(t, nilCfg.Validate())
}

func TestSaveConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := config.New()
	cfg.Explorer.Ignore = []string{"*.tmp"}
	cfg.RememberProject("/work/proj")

	require.NoError(t, config.SaveConfig(cfg, path))

	loaded, err := config.LoadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"*.tmp"}, loaded.Explorer.Ignore)
	assert.Equal(t, "/work/proj", loaded.Directories.LastProject)
}

func TestRememberProject(t *testing.T) {
	cfg := config.New()
	cfg.RememberProject("/a")
	cfg.RememberProject("/b")
	cfg.RememberProject("/a")

	assert.Equal(t, "/a", cfg.Directories.LastProject)
	assert.Equal(t, []string{"/a", "/b"}, cfg.Directories.Recent)

	for i := 0; i < 20; i++ {
		cfg.RememberProject(filepath.Join("/p", string(rune('a'+i))))
	}
	assert.Len(t, cfg.Directories.Recent, 10)
}
