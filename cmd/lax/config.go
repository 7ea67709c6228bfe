package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/laxlang/lax/lax"
)

const configEnvVar = "LAX_CONFIG"

const (
	colorAuto   = "auto"
	colorAlways = "always"
	colorNever  = "never"
)

// cliConfig is the command-level configuration read from YAML. Flags
// override whatever the file sets.
type cliConfig struct {
	Prompt             string `yaml:"prompt"`
	Color              string `yaml:"color"`
	MaxDepth           int    `yaml:"max_depth"`
	RecoverParseErrors bool   `yaml:"recover_parse_errors"`
	LogLevel           string `yaml:"log_level"`
}

func defaultConfig() cliConfig {
	return cliConfig{
		Prompt:   "> ",
		Color:    colorAuto,
		MaxDepth: lax.DefaultMaxDepth,
		LogLevel: "warn",
	}
}

// loadConfig reads path, falling back to $LAX_CONFIG. With neither set the
// defaults are returned.
func loadConfig(path string) (cliConfig, error) {
	cfg := defaultConfig()
	if path == "" {
		path = os.Getenv(configEnvVar)
	}
	if path == "" {
		return cfg, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c cliConfig) validate() error {
	switch c.Color {
	case colorAuto, colorAlways, colorNever:
	default:
		return fmt.Errorf("color must be auto, always or never, got %q", c.Color)
	}
	if c.MaxDepth < 0 {
		return fmt.Errorf("max_depth must not be negative, got %d", c.MaxDepth)
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	return nil
}

func (c cliConfig) engineConfig(stdout io.Writer, logger *log.Logger) lax.Config {
	return lax.Config{
		Stdout:             stdout,
		Logger:             logger,
		MaxDepth:           c.MaxDepth,
		RecoverParseErrors: c.RecoverParseErrors,
	}
}

func newLogger(w io.Writer, level string) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	return log.NewWithOptions(w, log.Options{
		Level:  lvl,
		Prefix: "lax",
	}), nil
}
