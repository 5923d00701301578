package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/runnerr0/retrace/internal/browser"
)

// Default config file path.
const DefaultConfigPath = "~/.config/retrace/config.yaml"

// Config holds all Retrace configuration.
type Config struct {
	Export  ExportConfig  `yaml:"export"`
	Vendors VendorsConfig `yaml:"vendors"`
	Locator LocatorConfig `yaml:"locator"`
	Reader  ReaderConfig  `yaml:"reader"`
	Logging LoggingConfig `yaml:"logging"`
}

type ExportConfig struct {
	// Path of the CSV export. Empty means a timestamped file in the
	// working directory; "-" means stdout.
	Path string `yaml:"path"`
}

// VendorsConfig enables or disables individual browser families.
type VendorsConfig struct {
	Chrome  bool `yaml:"chrome"`
	Firefox bool `yaml:"firefox"`
	Safari  bool `yaml:"safari"`
}

// Enabled returns the enabled vendors in the canonical order.
func (v VendorsConfig) Enabled() []browser.Vendor {
	var out []browser.Vendor
	if v.Chrome {
		out = append(out, browser.Chrome)
	}
	if v.Firefox {
		out = append(out, browser.Firefox)
	}
	if v.Safari {
		out = append(out, browser.Safari)
	}
	return out
}

// LocatorConfig overrides the OS-default store locations. Empty fields
// keep the defaults.
type LocatorConfig struct {
	ChromeDir  string `yaml:"chrome_dir"`
	FirefoxDir string `yaml:"firefox_dir"`
	SafariDB   string `yaml:"safari_db"`
}

type ReaderConfig struct {
	// BusyTimeoutMS bounds the wait on a locked store, in milliseconds.
	BusyTimeoutMS int `yaml:"busy_timeout_ms"`
	// Parallelism bounds how many stores are read concurrently.
	Parallelism int `yaml:"parallelism"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load reads a YAML config file at path and merges it with defaults.
// Returns an error if the file cannot be read or contains invalid YAML.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return cfg, nil
}

// expandPath replaces a leading ~ with the user's home directory.
func expandPath(path string) (string, error) {
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		return filepath.Join(home, path[1:]), nil
	}
	return path, nil
}

// LoadOrCreate loads the config from the default path. If the file does
// not exist, it creates the directory structure and writes defaults.
func LoadOrCreate() (*Config, error) {
	path, err := expandPath(DefaultConfigPath)
	if err != nil {
		return nil, err
	}
	return LoadOrCreateAt(path)
}

// LoadOrCreateAt loads the config from the given path. If the file does
// not exist, it creates the directory structure and writes defaults.
func LoadOrCreateAt(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := DefaultConfig()

		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating config directory: %w", err)
		}

		data, err := yaml.Marshal(cfg)
		if err != nil {
			return nil, fmt.Errorf("marshaling default config: %w", err)
		}

		if err := os.WriteFile(path, data, 0644); err != nil {
			return nil, fmt.Errorf("writing default config: %w", err)
		}

		return cfg, nil
	}

	return Load(path)
}
