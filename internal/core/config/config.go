// Package config handles configuration loading and validation for git-review.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DiffMode selects how diffs are laid out.
type DiffMode string

const (
	DiffModeSideBySide DiffMode = "side-by-side"
	DiffModeInline     DiffMode = "inline"
)

// IsValid reports whether m is a known mode.
func (m DiffMode) IsValid() bool {
	switch m {
	case DiffModeSideBySide, DiffModeInline:
		return true
	default:
		return false
	}
}

// Config holds the application configuration.
type Config struct {
	GitPath string        `yaml:"git_path"`
	Display DisplayConfig `yaml:"display"`
	UI      UIConfig      `yaml:"ui"`
}

// DisplayConfig controls how diffs are generated and shown.
type DisplayConfig struct {
	DiffMode               DiffMode `yaml:"diff_mode"`
	ContextLines           int      `yaml:"context_lines"`
	ContextExpandIncrement int      `yaml:"context_expand_increment"`
	HorizontalScrollAmount int      `yaml:"horizontal_scroll_amount"`
	SyntaxTheme            string   `yaml:"syntax_theme"`     // chroma style name
	Ignore                 []string `yaml:"ignore,omitempty"` // doublestar globs of paths to hide
}

// UIConfig controls the layout and look of the TUI.
type UIConfig struct {
	LogPaneWidthRatio float64 `yaml:"log_pane_width_ratio"`
	ShowLineNumbers   bool    `yaml:"show_line_numbers"`
	Theme             string  `yaml:"theme"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		GitPath: "git",
		Display: DisplayConfig{
			DiffMode:               DiffModeSideBySide,
			ContextLines:           8,
			ContextExpandIncrement: 8,
			HorizontalScrollAmount: 4,
			SyntaxTheme:            "monokai",
		},
		UI: UIConfig{
			LogPaneWidthRatio: 0.35,
			ShowLineNumbers:   true,
			Theme:             "tokyo-night",
		},
	}
}

// Load reads configuration from the given path and sets the data directory.
// If configPath is empty or doesn't exist, returns defaults.
// Keys missing from the file keep their defaults.
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		}
	}

	// Apply defaults for zero values
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for options where the zero value is
// never meaningful. context_lines is left alone because 0 is valid.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.GitPath == "" {
		c.GitPath = defaults.GitPath
	}
	if c.Display.DiffMode == "" {
		c.Display.DiffMode = defaults.Display.DiffMode
	}
	if c.Display.ContextExpandIncrement == 0 {
		c.Display.ContextExpandIncrement = defaults.Display.ContextExpandIncrement
	}
	if c.Display.HorizontalScrollAmount == 0 {
		c.Display.HorizontalScrollAmount = defaults.Display.HorizontalScrollAmount
	}
	if c.Display.SyntaxTheme == "" {
		c.Display.SyntaxTheme = defaults.Display.SyntaxTheme
	}
	if c.UI.LogPaneWidthRatio == 0 {
		c.UI.LogPaneWidthRatio = defaults.UI.LogPaneWidthRatio
	}
	if c.UI.Theme == "" {
		c.UI.Theme = defaults.UI.Theme
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.GitPath == "" {
		return fmt.Errorf("git_path cannot be empty")
	}

	if !c.Display.DiffMode.IsValid() {
		return fmt.Errorf("display.diff_mode must be %q or %q, got %q", DiffModeSideBySide, DiffModeInline, c.Display.DiffMode)
	}

	if c.Display.ContextLines < 0 {
		return fmt.Errorf("display.context_lines cannot be negative")
	}

	if c.Display.ContextExpandIncrement < 1 {
		return fmt.Errorf("display.context_expand_increment must be at least 1")
	}

	if c.Display.HorizontalScrollAmount < 1 {
		return fmt.Errorf("display.horizontal_scroll_amount must be at least 1")
	}

	if c.UI.LogPaneWidthRatio <= 0 || c.UI.LogPaneWidthRatio >= 1 {
		return fmt.Errorf("ui.log_pane_width_ratio must be between 0 and 1, got %v", c.UI.LogPaneWidthRatio)
	}

	return nil
}

// Save writes the configuration to path as YAML, creating parent directories.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}
