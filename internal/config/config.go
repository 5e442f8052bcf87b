// Package config loads the YAML configuration file.
package config

import (
	"os"
	"path/filepath"

	"github.com/creasty/defaults"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// EnvFile names a config file when no flag is given.
const EnvFile = "NOTES_CONFIG"

// Storage backends.
const (
	StorageFile   = "file"
	StorageSQLite = "sqlite"
	StorageMemory = "memory"
)

type Config struct {
	File    string        `yaml:"-"`
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`
	History HistoryConfig `yaml:"history"`
	UI      UIConfig      `yaml:"ui"`
}

// StorageConfig picks where the note collection is kept.
type StorageConfig struct {
	// Type is one of file, sqlite, memory.
	Type string `yaml:"type" default:"file"`
	// Path is a directory for file, a database file for sqlite.
	Path string `yaml:"path" default:".notes"`
	// Key is the single slot name.
	Key string `yaml:"key" default:"notes"`
}

type LogConfig struct {
	Level      string `yaml:"level" default:"warn"`
	File       string `yaml:"file"`
	Production bool   `yaml:"production"`
}

type HistoryConfig struct {
	// Limit caps snapshots kept in memory; 0 keeps all.
	Limit int `yaml:"limit"`
}

type UIConfig struct {
	Theme string `yaml:"theme" default:"classic"`
	// Color is auto, always or never.
	Color string `yaml:"color" default:"auto"`
}

// Default returns a config with every default applied.
func Default() *Config {
	c := new(Config)
	_ = defaults.Set(c)
	return c
}

// Load reads f on top of the defaults. An empty f returns the defaults.
func Load(f string) (*Config, error) {
	if f == "" {
		return Default(), nil
	}
	realpath, err := filepath.Abs(f)
	if err != nil {
		return nil, errors.Wrap(err, "resolve config path")
	}

	c := new(Config)
	if err := defaults.Set(c); err != nil {
		return nil, errors.Wrap(err, "set default config failed")
	}
	c.File = realpath

	b, err := os.ReadFile(realpath)
	if err != nil {
		return nil, errors.Wrap(err, "read config file failed")
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, errors.Wrap(err, "parse config file failed")
	}

	// Fill fields present in the YAML but left empty.
	if err := defaults.Set(c); err != nil {
		return nil, errors.Wrap(err, "re-set default config failed")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadIfExists is Load for a path found by lookup rather than asked for: a
// missing file yields the defaults.
func LoadIfExists(f string) (*Config, error) {
	if f != "" {
		if _, err := os.Stat(f); errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
	}
	return Load(f)
}

// Validate rejects values the rest of the program cannot act on.
func (c *Config) Validate() error {
	switch c.Storage.Type {
	case StorageFile, StorageSQLite, StorageMemory:
	default:
		return errors.Errorf("unknown storage type %q", c.Storage.Type)
	}
	if c.History.Limit < 0 {
		return errors.Errorf("history limit must be >= 0, got %d", c.History.Limit)
	}
	switch c.UI.Color {
	case "auto", "always", "never":
	default:
		return errors.Errorf("unknown color mode %q", c.UI.Color)
	}
	return nil
}

// Save writes c back to the file it was loaded from.
func (c *Config) Save() error {
	if c.File == "" {
		return errors.New("config has no file")
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "marshal config failed")
	}
	if err := os.MkdirAll(filepath.Dir(c.File), 0o755); err != nil {
		return errors.Wrap(err, "create config dir failed")
	}
	if err := os.WriteFile(c.File, data, 0o644); err != nil {
		return errors.Wrap(err, "write config file failed")
	}
	return nil
}
