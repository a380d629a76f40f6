package cliconfig

import "os"

// ApplyEnvConfig applies configuration from environment variables (SEGBDUMP_*).
// It respects flags that have been explicitly set (changed map).
// Returns error if any environment variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("revision", os.Getenv("SEGBDUMP_REVISION"), &cfg.Revision)
	s.setString("output", os.Getenv("SEGBDUMP_OUTPUT"), &cfg.Output)
	s.setString("log-level", os.Getenv("SEGBDUMP_LOG_LEVEL"), &cfg.LogLevel)

	if err := s.setIntFromString("width", os.Getenv("SEGBDUMP_WIDTH"), &cfg.Width); err != nil {
		return err
	}
	if err := s.setIntFromString("max-bytes", os.Getenv("SEGBDUMP_MAX_BYTES"), &cfg.MaxBytes); err != nil {
		return err
	}

	s.setBoolFromString("show-offset", os.Getenv("SEGBDUMP_SHOW_OFFSET"), &cfg.ShowOffset)
	s.setBoolFromString("show-ascii", os.Getenv("SEGBDUMP_SHOW_ASCII"), &cfg.ShowASCII)
	s.setBoolFromString("follow", os.Getenv("SEGBDUMP_FOLLOW"), &cfg.Follow)

	return s.setDuration("debounce", os.Getenv("SEGBDUMP_DEBOUNCE"), &cfg.Debounce)
}
