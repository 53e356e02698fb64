// Package config handles configuration loading and validation for burner.
//
// The config file only seeds first-run behavior and presentation: once a
// state file exists, the settings stored inside it are authoritative and
// are changed via `burner settings`, not here.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/colonyops/burner/internal/core/burner"
	"github.com/colonyops/burner/internal/core/styles"
)

// Config holds the application configuration.
type Config struct {
	Defaults Defaults  `yaml:"defaults"`
	TUI      TUIConfig `yaml:"tui"`
	DataDir  string    `yaml:"-"` // set by caller, not from config file
}

// Defaults seed the persisted settings on first run, before a state file
// exists.
type Defaults struct {
	Period        string `yaml:"period"`         // day or week
	AutoDowngrade *bool  `yaml:"auto_downgrade"` // nil means true
	Push          bool   `yaml:"push"`
}

// TUIConfig holds presentation options.
type TUIConfig struct {
	Theme string `yaml:"theme"`
}

// Load reads the config file at path, applying defaults for anything not
// set. A missing file is not an error; the defaults are used as-is.
func Load(path, dataDir string) (*Config, error) {
	cfg := &Config{
		Defaults: Defaults{Period: string(burner.PeriodDay)},
		TUI:      TUIConfig{Theme: styles.DefaultTheme},
		DataDir:  dataDir,
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.DataDir = dataDir

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if !burner.PeriodType(c.Defaults.Period).IsValid() {
		return fmt.Errorf("defaults.period: %q is not one of day, week", c.Defaults.Period)
	}
	if _, ok := styles.GetPalette(c.TUI.Theme); !ok {
		return fmt.Errorf("tui.theme: unknown theme %q (available: %v)", c.TUI.Theme, styles.ThemeNames())
	}
	return nil
}

// Settings returns the initial persisted settings for a first run.
func (c *Config) Settings() burner.Settings {
	autoDowngrade := true
	if c.Defaults.AutoDowngrade != nil {
		autoDowngrade = *c.Defaults.AutoDowngrade
	}
	return burner.Settings{
		DefaultPeriod:           burner.PeriodType(c.Defaults.Period),
		AutoDowngradeIncomplete: autoDowngrade,
		PushEnabled:             c.Defaults.Push,
	}
}
