package cliconfig

import (
	"fmt"
	"strconv"
	"time"

	"github.com/bft-labs/segb/internal/hexview"
)

// Accepted values for Revision and Output.
const (
	RevisionAuto = "auto"
	Revision1    = "1"
	Revision2    = "2"

	OutputText = "text"
	OutputJSON = "json"
)

// Config holds CLI configuration for segbdump.
type Config struct {
	Revision string
	Output   string

	Width      int
	MaxBytes   int // 0 renders whole payloads
	ShowOffset bool
	ShowASCII  bool

	LogLevel string

	Follow   bool
	Debounce time.Duration
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		Revision:   RevisionAuto,
		Output:     OutputText,
		Width:      16,
		ShowOffset: true,
		ShowASCII:  true,
		LogLevel:   "info",
		Debounce:   250 * time.Millisecond,
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	switch c.Revision {
	case RevisionAuto, Revision1, Revision2:
	default:
		return fmt.Errorf("revision must be one of auto, 1, 2 (got %q)", c.Revision)
	}

	switch c.Output {
	case OutputText, OutputJSON:
	default:
		return fmt.Errorf("output must be text or json (got %q)", c.Output)
	}

	if c.Width <= 0 {
		return fmt.Errorf("width must be positive")
	}
	if c.MaxBytes < 0 {
		return fmt.Errorf("max-bytes must not be negative")
	}
	if c.Debounce < 0 {
		return fmt.Errorf("debounce must not be negative")
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log-level must be one of debug, info, warn, error (got %q)", c.LogLevel)
	}

	return nil
}

// HexOptions converts the display settings for the hex view.
func (c Config) HexOptions() hexview.Options {
	o := hexview.DefaultOptions()
	o.Width = c.Width
	o.ShowOffset = c.ShowOffset
	o.ShowASCII = c.ShowASCII
	if c.MaxBytes > 0 {
		o.MaxBytes = c.MaxBytes
	}
	return o
}

// configSetter applies values only where the matching flag was not set
// explicitly on the command line.
type configSetter struct {
	changed map[string]bool
}

func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setInt sets an int value if positive and flag not changed.
func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setIntFromString parses a positive int from an environment value.
func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if i <= 0 {
		return nil
	}
	*dst = i
	return nil
}

// setBoolFromString parses an environment value. "true" and "1" are true,
// anything else is false.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}
