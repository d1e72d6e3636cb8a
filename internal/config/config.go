package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dshills/lexi/internal/config/loader"
)

// DefaultFileName is the settings file looked up when no path is given.
const DefaultFileName = "lexi.toml"

// DefaultMaxDepth is the default number of undoable commands kept.
const DefaultMaxDepth = 1000

// EnvPrefix prefixes every environment override.
const EnvPrefix = "LEXI_"

// Config holds every setting of the editor.
type Config struct {
	App     App     `toml:"app" yaml:"app"`
	User    User    `toml:"user" yaml:"user"`
	Logging Logging `toml:"logging" yaml:"logging"`
	History History `toml:"history" yaml:"history"`

	// path is the file the configuration was loaded from, if any.
	path string
}

// App holds settings chosen by the distributor.
type App struct {
	ProgramName     string          `toml:"program_name" yaml:"program_name"`
	Description     string          `toml:"description" yaml:"description"`
	LongDescription string          `toml:"long_description" yaml:"long_description"`
	OperatingSystem OperatingSystem `toml:"operating_system" yaml:"operating_system"`
}

// User holds settings chosen by the user.
type User struct {
	AutoSave     bool   `toml:"auto_save" yaml:"auto_save"`
	WordDictPath string `toml:"word_dict" yaml:"word_dict"`
}

// Logging configures the leveled logger.
type Logging struct {
	Enabled   bool     `toml:"enabled" yaml:"enabled"`
	Level     string   `toml:"level" yaml:"level"`
	WrapLines bool     `toml:"wrap_lines" yaml:"wrap_lines"`
	WrapCount int      `toml:"wrap_count" yaml:"wrap_count"`
	Streams   []Stream `toml:"stream" yaml:"stream"`
}

// Stream redirects one log level.
type Stream struct {
	Level    string `toml:"level" yaml:"level"`
	ShowDate bool   `toml:"show_date" yaml:"show_date"`
	Filename string `toml:"filename" yaml:"filename"`
}

// History configures the undo history.
type History struct {
	MaxDepth int `toml:"max_depth" yaml:"max_depth"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		App: App{
			ProgramName:     "Lexi",
			Description:     "A document editor",
			LongDescription: "Lexi is a WYSIWYG document editor.",
			OperatingSystem: HostOperatingSystem(),
		},
		User: User{
			AutoSave: false,
		},
		Logging: Logging{
			Enabled:   true,
			Level:     "message",
			WrapLines: true,
			WrapCount: 80,
		},
		History: History{
			MaxDepth: DefaultMaxDepth,
		},
	}
}

// Option configures Load.
type Option func(*loadOptions)

type loadOptions struct {
	fs  loader.FileSystem
	env *loader.EnvLoader
}

// WithFS reads configuration files through fsys.
func WithFS(fsys loader.FileSystem) Option {
	return func(o *loadOptions) {
		o.fs = fsys
	}
}

// WithEnv overrides settings from env. Pass nil to ignore the environment.
func WithEnv(env *loader.EnvLoader) Option {
	return func(o *loadOptions) {
		o.env = env
	}
}

// Load reads the configuration at path on top of the defaults, applies
// environment overrides and validates the result.
// A missing file is reported as ErrFileNotFound.
func Load(path string, opts ...Option) (*Config, error) {
	o := loadOptions{
		fs:  loader.DefaultFS(),
		env: loader.NewEnvLoader(EnvPrefix),
	}
	for _, opt := range opts {
		opt(&o)
	}

	dec, err := loader.ForPath(o.fs, path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := dec.Decode(path, cfg); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, err
	}
	cfg.path = path

	if o.env != nil {
		if err := cfg.applyEnv(o.env.Load()); err != nil {
			return nil, err
		}
	}

	cfg.resolvePaths()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault loads path, falling back to the defaults (plus environment
// overrides) when path is empty or the file doesn't exist.
func LoadOrDefault(path string, opts ...Option) (*Config, error) {
	if path != "" {
		cfg, err := Load(path, opts...)
		if err == nil || !errors.Is(err, ErrFileNotFound) {
			return cfg, err
		}
	}

	o := loadOptions{env: loader.NewEnvLoader(EnvPrefix)}
	for _, opt := range opts {
		opt(&o)
	}
	cfg := Default()
	if o.env != nil {
		if err := cfg.applyEnv(o.env.Load()); err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Path returns the file the configuration was loaded from, or "".
func (c *Config) Path() string {
	return c.path
}

// applyEnv applies raw overrides keyed by config path.
func (c *Config) applyEnv(values map[string]string) error {
	for path, raw := range values {
		var err error
		switch path {
		case "app.program_name":
			c.App.ProgramName = raw
		case "user.word_dict":
			c.User.WordDictPath = raw
		case "user.auto_save":
			c.User.AutoSave, err = strconv.ParseBool(raw)
		case "logging.level":
			c.Logging.Level = raw
		case "logging.enabled":
			c.Logging.Enabled, err = strconv.ParseBool(raw)
		case "history.max_depth":
			c.History.MaxDepth, err = strconv.Atoi(raw)
		default:
			continue
		}
		if err != nil {
			return fmt.Errorf("%w: environment override %s=%q: %v", ErrValidationFailed, path, raw, err)
		}
	}
	return nil
}

// resolvePaths makes file paths relative to the configuration file.
func (c *Config) resolvePaths() {
	if c.path == "" {
		return
	}
	base := filepath.Dir(c.path)
	if p := c.User.WordDictPath; p != "" && !filepath.IsAbs(p) {
		c.User.WordDictPath = filepath.Join(base, p)
	}
	for i := range c.Logging.Streams {
		if p := c.Logging.Streams[i].Filename; p != "" && !filepath.IsAbs(p) {
			c.Logging.Streams[i].Filename = filepath.Join(base, p)
		}
	}
}

var logLevels = map[string]bool{
	"message": true,
	"log":     true,
	"error":   true,
}

// Validate checks that every setting holds a usable value.
func (c *Config) Validate() error {
	var errs []error

	if c.Logging.WrapCount < 0 {
		errs = append(errs, fmt.Errorf("logging.wrap_count must be >= 0, got %d", c.Logging.WrapCount))
	}
	if c.Logging.Level != "" && !logLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Errorf("logging.level %q is not one of message, log, error", c.Logging.Level))
	}
	for i, s := range c.Logging.Streams {
		if !logLevels[strings.ToLower(s.Level)] {
			errs = append(errs, fmt.Errorf("logging.stream[%d].level %q is not one of message, log, error", i, s.Level))
		}
	}
	if c.History.MaxDepth < 0 {
		errs = append(errs, fmt.Errorf("history.max_depth must be >= 0, got %d", c.History.MaxDepth))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrValidationFailed, errors.Join(errs...))
	}
	return nil
}

// DefaultPath returns the settings file in the user's config directory,
// honoring XDG_CONFIG_HOME.
func DefaultPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "lexi", DefaultFileName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultFileName
	}
	return filepath.Join(home, ".config", "lexi", DefaultFileName)
}
