package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk hostlink configuration (~/.hostlink/config.yaml).
type Config struct {
	Server Server `yaml:"server"`
	Editor string `yaml:"editor"`
}

// Server describes how to reach (or run) the dashboard server.
type Server struct {
	// Host is the raw, user-supplied host. It may be blank, a bare host,
	// or a full http(s) URL; it is normalized at the point of use.
	Host string `yaml:"host"`
	// Fallback is used when Host is blank.
	Fallback string `yaml:"fallback"`
	// Port is the port the local server binds to.
	Port int `yaml:"port"`
	// RefreshMs is the event heartbeat interval in milliseconds.
	RefreshMs int `yaml:"refresh_ms"`
}

// HostlinkDir returns the hostlink state directory (~/.hostlink).
func HostlinkDir() string {
	return filepath.Join(os.Getenv("HOME"), ".hostlink")
}

// ConfigPath returns the path of the config file.
func ConfigPath() string {
	return filepath.Join(HostlinkDir(), "config.yaml")
}

// Load reads the config from the default path, applying defaults for
// anything missing. A missing file is not an error.
func Load() (*Config, error) {
	return LoadFrom(ConfigPath())
}

// LoadFrom reads the config from the given path.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return defaultConfig(), nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

// Save writes the config to the default path.
func Save(cfg *Config) error {
	return SaveTo(cfg, ConfigPath())
}

// SaveTo writes the config to the given path, creating parent directories.
func SaveTo(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Fallback == "" {
		cfg.Server.Fallback = "127.0.0.1:7177"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 7177
	}
	if cfg.Server.RefreshMs == 0 {
		cfg.Server.RefreshMs = 2000
	}
	cfg.Editor = os.ExpandEnv(cfg.Editor)
	if cfg.Editor == "" {
		cfg.Editor = os.Getenv("EDITOR")
		if cfg.Editor == "" {
			cfg.Editor = "vim"
		}
	}
}

func defaultConfig() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}
