// ABOUTME: Tests for editor configuration loading and validation.
// ABOUTME: YAML overrides merge over defaults; bad selectors and empty keys are rejected.

package editor

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "editor.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefaultConfigIsValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config: %v", err)
	}
}

func TestLoadConfigMergesOverDefaults(t *testing.T) {
	path := writeConfig(t, `
quiet_period: 250ms
autosave_interval: 1m
creator_code: letmein
selectors:
  version: 2
  text: ["#hero-title"]
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.QuietPeriod != 250*time.Millisecond || cfg.AutosaveInterval != time.Minute {
		t.Fatalf("durations not parsed: %v %v", cfg.QuietPeriod, cfg.AutosaveInterval)
	}
	if cfg.CreatorCode != "letmein" {
		t.Fatalf("expected creator code override, got %q", cfg.CreatorCode)
	}
	if cfg.Selectors.Version != 2 || len(cfg.Selectors.Text) != 1 {
		t.Fatalf("unexpected selectors: %+v", cfg.Selectors)
	}
	if cfg.StorageKey != DefaultStorageKey || cfg.HistoryCapacity != DefaultHistoryCapacity {
		t.Fatal("expected untouched fields to keep defaults")
	}
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	path := writeConfig(t, `
storage_key: ""
history_capacity: 1
control_selectors: ["div["]
`)
	_, err := LoadConfig(path)
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"storage_key", "history_capacity", "control_selectors"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %s", err, want)
		}
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected read error")
	}
}
