package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config but uses strings for durations to make TOML friendly.
type FileConfig struct {
	Revision   string `toml:"revision"`
	Output     string `toml:"output"`
	Width      int    `toml:"width"`
	MaxBytes   int    `toml:"max_bytes"`
	ShowOffset *bool  `toml:"show_offset"`
	ShowASCII  *bool  `toml:"show_ascii"`
	LogLevel   string `toml:"log_level"`
	Follow     *bool  `toml:"follow"`
	Debounce   string `toml:"debounce"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns ~/.segbdump/config.toml, or "" when the home
// directory cannot be determined.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".segbdump", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("revision", fc.Revision, &cfg.Revision)
	s.setString("output", fc.Output, &cfg.Output)
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)

	s.setInt("width", fc.Width, &cfg.Width)
	s.setInt("max-bytes", fc.MaxBytes, &cfg.MaxBytes)

	s.setBool("show-offset", fc.ShowOffset, &cfg.ShowOffset)
	s.setBool("show-ascii", fc.ShowASCII, &cfg.ShowASCII)
	s.setBool("follow", fc.Follow, &cfg.Follow)

	return s.setDuration("debounce", fc.Debounce, &cfg.Debounce)
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
