package config

import (
	"fmt"
	"os"
	"path/filepath"

	"edshell/internal/errors"

	"github.com/gobwas/glob"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration structure.
// It covers the explorer, tab strip, editor, watcher and logging settings.
type Config struct {
	Explorer struct {
		ShowHidden     bool     `yaml:"show_hidden"`     // Show dot-files in the tree
		Ignore         []string `yaml:"ignore"`          // Glob patterns excluded from the tree
		FollowSymlinks bool     `yaml:"follow_symlinks"` // Descend into symlinked directories
	} `yaml:"explorer"`
	Tabs struct {
		BaseHeight       int    `yaml:"base_height"`        // Tab height before scaling
		CloseButtonWidth int    `yaml:"close_button_width"` // Width reserved for the close control
		EditedMarker     string `yaml:"edited_marker"`      // Appended to names with pending edits
		MinWidth         int    `yaml:"min_width"`          // Narrowest tab allowed
	} `yaml:"tabs"`
	Editor struct {
		ZoomDefault  int   `yaml:"zoom_default"`  // Initial zoom percent
		MaxFileSize  int64 `yaml:"max_file_size"` // Largest file opened, in bytes (0 = unlimited)
		RejectBinary bool  `yaml:"reject_binary"` // Refuse to open non-text content
	} `yaml:"editor"`
	Watch struct {
		Enabled    bool `yaml:"enabled"`     // Keep the tree in sync with disk
		DebounceMS int  `yaml:"debounce_ms"` // Quiet period before a refresh
	} `yaml:"watch"`
	Log struct {
		Debug bool   `yaml:"debug"` // Enable debug logging
		JSON  bool   `yaml:"json"`  // One JSON object per line
		File  string `yaml:"file"`  // Log file path (empty = stderr)
	} `yaml:"log"`
	Clipboard struct {
		System bool `yaml:"system"` // Share copied paths with the OS clipboard
	} `yaml:"clipboard"`
	Directories struct {
		LastProject string   `yaml:"last_project"` // Project opened when none is given
		Recent      []string `yaml:"recent"`       // Recently opened projects, newest first
	} `yaml:"directories"`
}

const maxRecent = 10

// DefaultPath returns the default config location
// (~/.config/edshell/config.yaml).
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "edshell", "config.yaml"), nil
}

// LoadConfig loads configuration from the default location.
func LoadConfig() (*Config, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return LoadConfigFile(path)
}

// LoadConfigFile loads configuration from a specific file path.
// If the file doesn't exist, returns default configuration.
func LoadConfigFile(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Decoding over the defaults keeps every key the file leaves out
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.NewConfigError("error parsing config file", path, errors.InvalidConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func defaultConfig() *Config {
	cfg := &Config{}

	cfg.Explorer.ShowHidden = false
	cfg.Explorer.Ignore = []string{}
	cfg.Explorer.FollowSymlinks = false

	cfg.Tabs.BaseHeight = 1
	cfg.Tabs.CloseButtonWidth = 2 // " x"
	cfg.Tabs.EditedMarker = "*"
	cfg.Tabs.MinWidth = 4

	cfg.Editor.ZoomDefault = 100
	cfg.Editor.MaxFileSize = 8 << 20
	cfg.Editor.RejectBinary = true

	cfg.Watch.Enabled = true
	cfg.Watch.DebounceMS = 200

	cfg.Clipboard.System = false

	cfg.Directories.Recent = []string{}

	return cfg
}

// SaveConfig saves the configuration to the specified file.
// It creates parent directories if they don't exist.
func SaveConfig(cfg *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid.
// Returns a *errors.ConfigError naming the offending parameter.
func (c *Config) Validate() error {
	if c == nil {
		return errors.NewConfigError("nil config", "", errors.InvalidConfig, nil)
	}

	for i, pattern := range c.Explorer.Ignore {
		if pattern == "" {
			return errors.NewConfigError("ignore pattern cannot be empty", fmt.Sprintf("explorer.ignore[%d]", i), errors.InvalidConfig, nil)
		}
		if _, err := glob.Compile(pattern); err != nil {
			return errors.NewConfigError("bad ignore pattern", fmt.Sprintf("explorer.ignore[%d]", i), errors.InvalidConfig, err)
		}
	}

	if c.Tabs.BaseHeight < 1 {
		return errors.NewConfigError("tab height must be >= 1", "tabs.base_height", errors.InvalidConfig, nil)
	}
	if c.Tabs.CloseButtonWidth < 0 {
		return errors.NewConfigError("close button width must be >= 0", "tabs.close_button_width", errors.InvalidConfig, nil)
	}
	if c.Tabs.MinWidth < 0 {
		return errors.NewConfigError("minimum tab width must be >= 0", "tabs.min_width", errors.InvalidConfig, nil)
	}

	// Zoom bounds match the editor's zoom range
	if c.Editor.ZoomDefault < 10 || c.Editor.ZoomDefault > 500 || c.Editor.ZoomDefault%10 != 0 {
		return errors.NewConfigError("zoom must be a multiple of 10 between 10 and 500", "editor.zoom_default", errors.InvalidConfig, nil)
	}
	if c.Editor.MaxFileSize < 0 {
		return errors.NewConfigError("max file size must be >= 0", "editor.max_file_size", errors.InvalidConfig, nil)
	}

	if c.Watch.DebounceMS < 0 {
		return errors.NewConfigError("debounce must be >= 0 milliseconds", "watch.debounce_ms", errors.InvalidConfig, nil)
	}

	for i, dir := range c.Directories.Recent {
		if dir == "" {
			return errors.NewConfigError("recent project path cannot be empty", fmt.Sprintf("directories.recent[%d]", i), errors.InvalidConfig, nil)
		}
	}

	return nil
}

// New creates a new configuration instance with default values.
func New() *Config {
	return defaultConfig()
}

// RememberProject records dir as the last opened project and moves it to
// the front of the recent list.
func (c *Config) RememberProject(dir string) {
	c.Directories.LastProject = dir
	recent := []string{dir}
	for _, d := range c.Directories.Recent {
		if d != dir && len(recent) < maxRecent {
			recent = append(recent, d)
		}
	}
	c.Directories.Recent = recent
}
