package config

import (
	"fmt"
	"os"
	"os/exec"

	chromastyles "github.com/alecthomas/chroma/v2/styles"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/hay-kot/criterio"

	"github.com/andrewleech/git-review/internal/core/styles"
)

// ValidateDeep performs comprehensive validation of the configuration
// including names that refer to built-in registries, glob syntax, and file
// accessibility. The configPath argument specifies the config file location
// to validate (empty string skips config file check).
// This calls Validate() first for basic structural validation.
func (c *Config) ValidateDeep(configPath string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	return criterio.ValidateStruct(
		c.validateFileAccess(configPath),
		c.validateThemes(),
		c.validateIgnore(),
	)
}

// validateFileAccess checks the config file and the git executable.
func (c *Config) validateFileAccess(configPath string) error {
	return criterio.ValidateStruct(
		validateConfigFile(configPath),
		criterio.Run("git_path", c.GitPath, gitExecutableExists),
	)
}

func validateConfigFile(configPath string) error {
	if configPath == "" {
		return nil
	}

	info, err := os.Stat(configPath)
	if os.IsNotExist(err) {
		return nil // not found is fine, using defaults
	}
	if err != nil {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("cannot access: %w", err))
	}
	if info.IsDir() {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("%s is a directory, not a file", configPath))
	}
	return nil
}

// gitExecutableExists validates that the git path is executable.
func gitExecutableExists(path string) error {
	if path == "" {
		return nil
	}
	if _, err := exec.LookPath(path); err != nil {
		return fmt.Errorf("executable not found: %s", path)
	}
	return nil
}


// validateThemes checks that the UI palette and syntax style exist.
func (c *Config) validateThemes() error {
	var errs criterio.FieldErrorsBuilder
	if _, ok := styles.GetPalette(c.UI.Theme); !ok {
		errs = errs.Append("ui.theme", fmt.Errorf("unknown theme %q, available: %v", c.UI.Theme, styles.ThemeNames()))
	}
	if _, ok := chromastyles.Registry[c.Display.SyntaxTheme]; !ok {
		errs = errs.Append("display.syntax_theme", fmt.Errorf("unknown syntax theme %q", c.Display.SyntaxTheme))
	}
	return errs.ToError()
}

// validateIgnore checks that every ignore pattern is a valid glob.
func (c *Config) validateIgnore() error {
	var errs criterio.FieldErrorsBuilder
	for i, pattern := range c.Display.Ignore {
		if !doublestar.ValidatePattern(pattern) {
			errs = errs.Append(fmt.Sprintf("display.ignore[%d]", i), fmt.Errorf("invalid glob %q", pattern))
		}
	}
	return errs.ToError()
}
