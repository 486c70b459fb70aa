// ABOUTME: Editor configuration: region selectors, storage key, history size, timers, and creator code.
// ABOUTME: Loaded from YAML over built-in defaults and validated before a server starts.
package editor

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/2389-research/starpr/page"
	"gopkg.in/yaml.v3"
)

// DefaultAutosaveInterval is how often an editing session re-saves its state.
const DefaultAutosaveInterval = 10 * time.Second

// Config controls every session created by a Store.
type Config struct {
	Selectors        Selectors     `yaml:"selectors"`
	StorageKey       string        `yaml:"storage_key"`
	HistoryCapacity  int           `yaml:"history_capacity"`
	QuietPeriod      time.Duration `yaml:"quiet_period"`
	AutosaveInterval time.Duration `yaml:"autosave_interval"`
	CreatorCode      string        `yaml:"creator_code"`

	// ControlSelectors match the editor's own controls; they are stripped
	// from HTML page exports.
	ControlSelectors []string `yaml:"control_selectors"`
}

// DefaultConfig returns the configuration the starpr site ships with.
func DefaultConfig() Config {
	return Config{
		Selectors:        DefaultSelectors(),
		StorageKey:       DefaultStorageKey,
		HistoryCapacity:  DefaultHistoryCapacity,
		QuietPeriod:      DefaultQuietPeriod,
		AutosaveInterval: DefaultAutosaveInterval,
		CreatorCode:      DefaultCreatorCode,
		ControlSelectors: []string{
			"#editToggle",
			"#saveBtn",
			"#exportBtn",
			"#importBtn",
			"#importFile",
			"#avatarFile",
			"." + toolbarClass,
			".starpr-toasts",
			"script[data-starpr]",
		},
	}
}

// LoadConfig reads a YAML file over DefaultConfig. Fields absent from the
// file keep their defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate rejects configurations that would leave the editor inert or broken.
func (c Config) Validate() error {
	var errs []error
	if c.StorageKey == "" {
		errs = append(errs, errors.New("storage_key must not be empty"))
	}
	if c.HistoryCapacity < 2 {
		errs = append(errs, fmt.Errorf("history_capacity must be at least 2, got %d", c.HistoryCapacity))
	}
	if c.QuietPeriod <= 0 {
		errs = append(errs, errors.New("quiet_period must be positive"))
	}
	if c.AutosaveInterval <= 0 {
		errs = append(errs, errors.New("autosave_interval must be positive"))
	}
	if c.CreatorCode == "" {
		errs = append(errs, errors.New("creator_code must not be empty"))
	}
	if err := c.Selectors.Validate(); err != nil {
		errs = append(errs, err)
	}
	for _, sel := range c.ControlSelectors {
		if err := page.ValidSelector(sel); err != nil {
			errs = append(errs, fmt.Errorf("control_selectors: %w", err))
		}
	}
	return errors.Join(errs...)
}
