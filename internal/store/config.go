package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// GlobalConfig holds per-user settings, stored as JSON under the config dir.
type GlobalConfig struct {
	// DBPath overrides the default downloads database location.
	DBPath string `json:"dbPath,omitempty"`

	// TUI holds optional appearance preferences.
	TUI *TUIConfig `json:"tui,omitempty"`
}

type TUIConfig struct {
	// Theme forces "light" or "dark"; empty means auto-detect.
	Theme string `json:"theme,omitempty"`
	// Glyphs selects the glyph set ("unicode", "ascii").
	Glyphs string `json:"glyphs,omitempty"`
}

func ConfigDir() (string, error) {
	// Test/advanced override (keeps unit tests from touching the real home).
	if v := strings.TrimSpace(os.Getenv("DOWNHOME_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".downhome"), nil
}

func configPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// LoadConfig reads the global config. A missing file is an empty config.
func LoadConfig() (GlobalConfig, error) {
	path, err := configPath()
	if err != nil {
		return GlobalConfig{}, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return GlobalConfig{}, nil
		}
		return GlobalConfig{}, err
	}
	var cfg GlobalConfig
	if err := json.Unmarshal(b, &cfg); err != nil {
		return GlobalConfig{}, err
	}
	return cfg, nil
}

func SaveConfig(cfg GlobalConfig) error {
	path, err := configPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(b, '\n'), 0o644)
}

// DefaultDBPath resolves the downloads database location: config override
// first, then DOWNHOME_DB, then <config dir>/downloads.sqlite.
func DefaultDBPath() (string, error) {
	if cfg, err := LoadConfig(); err == nil && strings.TrimSpace(cfg.DBPath) != "" {
		return cfg.DBPath, nil
	}
	if v := strings.TrimSpace(os.Getenv("DOWNHOME_DB")); v != "" {
		return v, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "downloads.sqlite"), nil
}
