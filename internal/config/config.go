package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/dshills/selnarrate/internal/engine/walker"
	"github.com/dshills/selnarrate/internal/logging"
	"github.com/dshills/selnarrate/internal/narration"
)

// EnvPrefix is the prefix of environment overrides.
const EnvPrefix = "SELNARRATE_"

// Config holds all settings.
type Config struct {
	// Locale selects the narration language (for example "en", "es").
	Locale string `toml:"locale" yaml:"locale"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `toml:"log_level" yaml:"log_level"`

	// Granularity is the default step unit: word, object or block.
	Granularity string `toml:"granularity" yaml:"granularity"`

	Earcons EarconConfig `toml:"earcons" yaml:"earcons"`
	Script  ScriptConfig `toml:"script" yaml:"script"`
}

// EarconConfig controls how earcons are rendered.
type EarconConfig struct {
	// Style is "brackets" or "none".
	Style string `toml:"style" yaml:"style"`
}

// ScriptConfig controls the Lua sandbox.
type ScriptConfig struct {
	// StepLimit bounds the navigation calls of one script run.
	StepLimit int `toml:"step_limit" yaml:"step_limit"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Locale:      "en",
		LogLevel:    "info",
		Granularity: "word",
		Earcons:     EarconConfig{Style: string(narration.EarconStyleBrackets)},
		Script:      ScriptConfig{StepLimit: 10_000},
	}
}

// Load returns the defaults overlaid with the file at path (if it exists)
// and the environment. An empty path skips the file layer.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			// No file, defaults apply.
		case err != nil:
			return Config{}, fmt.Errorf("reading config file %s: %w", path, err)
		default:
			if err := decode(path, data, &cfg); err != nil {
				return Config{}, err
			}
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// decode overlays data onto cfg. Keys absent from the file keep their
// current values.
func decode(path string, data []byte, cfg *Config) error {
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(cfg)
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		err = dec.Decode(cfg)
		if errors.Is(err, io.EOF) {
			err = nil
		}
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	if err != nil {
		return &ParseError{Path: path, Message: err.Error(), Err: err}
	}
	return nil
}

// applyEnv overlays SELNARRATE_* variables.
func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvPrefix + "LOCALE"); ok {
		c.Locale = v
	}
	if v, ok := lookup(EnvPrefix + "LOG_LEVEL"); ok {
		c.LogLevel = v
	}
	if v, ok := lookup(EnvPrefix + "GRANULARITY"); ok {
		c.Granularity = v
	}
	if v, ok := lookup(EnvPrefix + "EARCONS"); ok {
		c.Earcons.Style = v
	}
	if v, ok := lookup(EnvPrefix + "SCRIPT_STEP_LIMIT"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return &ValidationError{Path: "script.step_limit", Message: "not an integer", Value: v}
		}
		c.Script.StepLimit = n
	}
	return nil
}

// Validate checks every setting and returns the first invalid one.
func (c Config) Validate() error {
	if _, ok := logging.ParseLevel(c.LogLevel); !ok {
		return &ValidationError{Path: "log_level", Message: "must be debug, info, warn or error", Value: c.LogLevel}
	}
	if _, err := walker.ParseGranularity(c.Granularity); err != nil {
		return &ValidationError{Path: "granularity", Message: "must be word, object or block", Value: c.Granularity}
	}
	switch narration.EarconStyle(c.Earcons.Style) {
	case narration.EarconStyleBrackets, narration.EarconStyleNone:
	default:
		return &ValidationError{Path: "earcons.style", Message: "must be brackets or none", Value: c.Earcons.Style}
	}
	if c.Script.StepLimit <= 0 {
		return &ValidationError{Path: "script.step_limit", Message: "must be positive", Value: c.Script.StepLimit}
	}
	return nil
}

// Level returns the parsed log level.
func (c Config) Level() logging.Level {
	l, _ := logging.ParseLevel(c.LogLevel)
	return l
}

// Step returns the parsed default granularity.
func (c Config) Step() walker.Granularity {
	g, _ := walker.ParseGranularity(c.Granularity)
	return g
}

// EarconStyle returns the earcon rendering style.
func (c Config) EarconStyle() narration.EarconStyle {
	return narration.EarconStyle(c.Earcons.Style)
}
