// Package config handles loading and saving eqmodel's CLI-level
// configuration: the solver defaults applied when a model doesn't override
// them via functional options, and a short list of recently used model/data
// file paths.
//
// Configuration follows the XDG Base Directory specification:
//   - Config: ~/.config/eqmodel/config.yaml
//   - State:  ~/.local/state/eqmodel/ (recent file history)
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// RecentFile is one entry in the recently used model/data file history.
type RecentFile struct {
	ModelPath string `yaml:"model_path"`
	DataPath  string `yaml:"data_path"`
}

// Config is the top-level CLI configuration for eqmodel. It mirrors the
// split the solver library itself draws between per-Model configuration
// (root_tolerance, max_iterations — passed as functional options to
// BuildModel) and "app preferences" persisted here.
type Config struct {
	RootTolerance            float64      `yaml:"root_tolerance,omitempty"`
	MaxIterations            int          `yaml:"max_iterations,omitempty"`
	ContinueOnNonConvergence bool         `yaml:"continue_on_nonconvergence"`
	Recent                   []RecentFile `yaml:"recent,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults, matching
// pkg/model.DefaultSolveConfig().
func DefaultConfig() Config {
	return Config{
		RootTolerance:            1e-7,
		MaxIterations:            10,
		ContinueOnNonConvergence: true,
	}
}

// ConfigDir returns the XDG config directory for eqmodel.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "eqmodel")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "eqmodel")
}

// StateDir returns the XDG state directory for eqmodel.
func StateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "eqmodel")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "state", "eqmodel")
}

// ConfigPath returns the full path to config.yaml.
func ConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads the config file from the XDG config directory.
// Returns DefaultConfig if the file doesn't exist.
func Load() (Config, error) {
	path := ConfigPath()
	if path == "" {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads config from a specific path.
// Returns DefaultConfig if the file doesn't exist.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// Save writes the config to the XDG config directory.
func Save(cfg Config) error {
	path := ConfigPath()
	if path == "" {
		return fmt.Errorf("cannot determine config directory")
	}
	return SaveTo(cfg, path)
}

// SaveTo writes the config to a specific path.
func SaveTo(cfg Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// PushRecent records a (model, data) file pair as the most recently used,
// trimming the history to its 10 most recent entries and removing any
// earlier duplicate of the same pair.
func (c *Config) PushRecent(modelPath, dataPath string) {
	filtered := make([]RecentFile, 0, len(c.Recent)+1)
	filtered = append(filtered, RecentFile{ModelPath: modelPath, DataPath: dataPath})
	for _, r := range c.Recent {
		if r.ModelPath == modelPath && r.DataPath == dataPath {
			continue
		}
		filtered = append(filtered, r)
	}
	const maxRecent = 10
	if len(filtered) > maxRecent {
		filtered = filtered[:maxRecent]
	}
	c.Recent = filtered
}
