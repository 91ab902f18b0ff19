package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// EnvVar names a config file to use when --config is not given.
const EnvVar = "MINIC_CONFIG"

// Names are the manifest files LoadDefault looks for, in order.
var Names = []string{"minic.toml", "minic.yml", "minic.yaml"}

// ErrNotFound is returned by LoadDefault when no manifest exists.
var ErrNotFound = errors.New("no minic config file found")

// Config holds the complete project configuration
type Config struct {
	Build BuildConfig `toml:"build" yaml:"build"`
	Log   LogConfig   `toml:"log" yaml:"log"`

	// path is the file the config was read from, empty for defaults.
	path string
}

// BuildConfig controls the batch driver
type BuildConfig struct {
	Input        string   `toml:"input" yaml:"input"`
	OutputDir    string   `toml:"output_dir" yaml:"output_dir"`
	ErrorLog     string   `toml:"error_log" yaml:"error_log"`
	Jobs         int      `toml:"jobs" yaml:"jobs"`
	StartLine    int      `toml:"start_line" yaml:"start_line"`
	Extensions   []string `toml:"extensions" yaml:"extensions"`
	KeepStripped bool     `toml:"keep_stripped" yaml:"keep_stripped"`
}

// LogConfig controls the slog handler
type LogConfig struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"`
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads the file at path, picking the decoder from its extension.
func Load(path string) (*Config, error) {
	path = os.ExpandEnv(path)

	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(content), &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(content, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format: %s", filepath.Ext(path))
	}

	cfg.path = path
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &cfg, nil
}

// LoadDefault loads $MINIC_CONFIG if set, otherwise the first of Names
// found in dir. It returns ErrNotFound, together with the defaults, when
// there is nothing to load.
func LoadDefault(dir string) (*Config, error) {
	if path := os.Getenv(EnvVar); path != "" {
		return Load(path)
	}
	for _, name := range Names {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return Load(p)
		}
	}
	return Default(), ErrNotFound
}

// Path returns the file the config was loaded from.
func (c *Config) Path() string { return c.path }

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	if c.Build.Input == "" {
		c.Build.Input = "."
	}
	if c.Build.OutputDir == "" {
		c.Build.OutputDir = "outputfiles"
	}
	if c.Build.ErrorLog == "" {
		c.Build.ErrorLog = "errors.txt"
	}
	if c.Build.Jobs <= 0 {
		c.Build.Jobs = 1
	}
	if c.Build.StartLine == 0 {
		c.Build.StartLine = 1
	}
	if len(c.Build.Extensions) == 0 {
		c.Build.Extensions = []string{".c"}
	}
	for i, ext := range c.Build.Extensions {
		if !strings.HasPrefix(ext, ".") {
			c.Build.Extensions[i] = "." + ext
		}
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate rejects values that have no sensible default.
func (c *Config) Validate() error {
	if c.Build.StartLine < 0 {
		return fmt.Errorf("build.start_line must not be negative, got %d", c.Build.StartLine)
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	return nil
}

// SlogLevel maps the configured level name to a slog.Level.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log.level: %w", err)
	}
	return level, nil
}

// HasExtension reports whether path carries one of the source extensions.
func (b BuildConfig) HasExtension(path string) bool {
	ext := filepath.Ext(path)
	for _, e := range b.Extensions {
		if strings.EqualFold(e, ext) {
			return true
		}
	}
	return false
}
