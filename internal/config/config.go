// Package config reads the optional framenotes.yaml file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/framenotes/internal/platform"
)

// Config mirrors framenotes.yaml. Zero values keep the defaults.
type Config struct {
	DataDir  string `yaml:"data_dir"`
	Adapter  string `yaml:"adapter"`
	History  bool   `yaml:"history"`
	ReadOnly bool   `yaml:"read_only"`
	LogLevel string `yaml:"log_level"`
}

// Load reads the configuration file at path. A missing file yields the
// zero Config. Relative data directories are resolved against the file's
// directory.
func Load(path string) (Config, error) {
	var c Config
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return c, nil
	}
	if err != nil {
		return c, fmt.Errorf("failed to read config: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return c, fmt.Errorf("invalid config %s: %w", path, err)
	}
	if c.DataDir != "" && !filepath.IsAbs(c.DataDir) {
		c.DataDir = filepath.Join(filepath.Dir(path), c.DataDir)
	}
	switch c.Adapter {
	case "", platform.AdapterFS, platform.AdapterSQLite, platform.AdapterMemory:
	default:
		return c, fmt.Errorf("invalid config %s: unknown adapter %q", path, c.Adapter)
	}
	return c, nil
}

// Discover looks for the configuration file in startDir and its parents.
// It returns the zero Config and an empty path when there is none.
func Discover(startDir string) (Config, string, error) {
	root, err := platform.FindRoot(startDir)
	if errors.Is(err, platform.ErrRootNotFound) {
		return Config{}, "", nil
	}
	if err != nil {
		return Config{}, "", err
	}
	path := filepath.Join(root, platform.ConfigFile)
	c, err := Load(path)
	return c, path, err
}

// Level maps LogLevel to a slog level. Unknown values mean info.
func (c Config) Level() slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return l
}

// Options translates the configuration into platform options.
func (c Config) Options() []platform.Option {
	var opts []platform.Option
	if c.Adapter != "" {
		opts = append(opts, platform.WithAdapter(c.Adapter))
	}
	if c.History {
		opts = append(opts, platform.WithHistory(true))
	}
	if c.ReadOnly {
		opts = append(opts, platform.WithReadOnly(true))
	}
	return opts
}
