// Package config loads tool settings from an optional TOML file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config holds the settings every command shares. Flags override anything
// loaded here.
type Config struct {
	// WarehousePath is where the analytics database lives.
	WarehousePath string `toml:"warehouse_path"`
	// DefaultProject labels warehouse loads that do not name a project.
	DefaultProject string `toml:"default_project"`
	// IncludeThinking keeps thinking blocks in converted and loaded output.
	IncludeThinking bool `toml:"include_thinking"`
	// OrgID is the organization UUID for admin API calls.
	OrgID string `toml:"org_id"`
}

// Default returns the built-in settings used when no config file exists.
func Default() *Config {
	return &Config{
		WarehousePath:   "~/.claude-warehouse/warehouse.db",
		DefaultProject:  "default",
		IncludeThinking: true,
	}
}

// Path returns the config file location: ~/.config/claude-warehouse/config.toml.
func Path() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".config", "claude-warehouse", "config.toml"), nil
}

// Load reads the config file if present, applying it over the defaults. A
// missing file is not an error; a malformed one is.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom loads config from an explicit path. Used directly in tests.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// ExpandHome resolves a leading ~/ against the user's home directory.
func ExpandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		if path == "~" {
			return home
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
