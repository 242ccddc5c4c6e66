package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Load loads configuration with priority: defaults < file < flags.
func Load() (*Config, error) {
	// Start with defaults
	cfg := Default()

	// Try to load from file (explicit path takes priority)
	configPath := ConfigPath()
	if configPath == "" {
		configPath = findConfigFile()
	}

	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", configPath, err)
		}
	}

	// Apply CLI flags (highest priority)
	applyFlags(cfg)
	normalize(cfg)

	return cfg, nil
}

// normalize replaces values the generators cannot use with defaults.
// Geometric parameters are left alone; the builders clamp them.
func normalize(cfg *Config) {
	def := Default()
	if !(cfg.Animation.TimeScale > 0) {
		cfg.Animation.TimeScale = def.Animation.TimeScale
	}
	if cfg.Texture.Size <= 0 {
		cfg.Texture.Size = def.Texture.Size
	}
	if cfg.Mesh.MaxVertices <= 0 {
		cfg.Mesh.MaxVertices = def.Mesh.MaxVertices
	}
	if cfg.Preview.Prop == "" {
		cfg.Preview.Prop = def.Preview.Prop
	}
	if cfg.Export.Dir == "" {
		cfg.Export.Dir = def.Export.Dir
	}
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		"./propforge.yaml",
		filepath.Join(ConfigDir(), "config.yaml"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "Propforge")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "Propforge")
	default: // Linux and others
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "propforge")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "propforge")
	}
}

// loadFromFile loads config from a YAML file, merging with existing values.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing yaml: %w", err)
	}
	return nil
}
