// Package config loads run settings from a YAML file.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tapewalk/tapewalk/pkg/interpreter"
	"github.com/tapewalk/tapewalk/pkg/tape"
)

// Config holds the settings shared by file runs and the REPL.
type Config struct {
	// TapeSize is the initial number of cells
	TapeSize int `yaml:"tape_size"`
	// Gas bounds executed steps (0 = unlimited)
	Gas int `yaml:"gas"`
	// Strict rejects unclosed loops
	Strict bool `yaml:"strict"`
	// Debug traces execution
	Debug bool `yaml:"debug"`
	// LogLevel is one of trace, debug, info, warn, error
	LogLevel string `yaml:"log_level"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		TapeSize: tape.DefaultSize,
		LogLevel: "info",
	}
}

// Load reads path over the defaults. Unknown keys are rejected.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer f.Close()

	cfg, err := Decode(f)
	if err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Decode reads YAML settings from r over the defaults.
func Decode(r io.Reader) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Apply copies the run settings onto an interpreter and gives it a fresh
// tape of the configured size.
func (c Config) Apply(interp *interpreter.Interpreter) {
	interp.TapeSize = c.TapeSize
	interp.Strict = c.Strict
	interp.Debug = c.Debug
	interp.SetGas(c.Gas)
	interp.Reset()
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if c.TapeSize < 1 {
		return fmt.Errorf("tape_size must be at least 1, got %d", c.TapeSize)
	}
	if c.Gas < 0 {
		return fmt.Errorf("gas must not be negative, got %d", c.Gas)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// ParseLevel maps a level name to a slog level.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "trace":
		return interpreter.LevelTrace, nil
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("unknown log level %q", name)
}
