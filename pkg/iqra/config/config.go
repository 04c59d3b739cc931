// Package config loads the optional .iqra.yaml settings file.
//
// Config covers the tooling around the language (REPL, formatting
// locale), never language semantics. The shell-fallback switch is
// deliberately not here: it is the IQRA_ALLOW_SHELL_FALLBACK environment
// variable, read by the default executor.
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds tool settings.
type Config struct {
	// Locale drives format_date and format_number ("en", "ar", ...).
	Locale string `yaml:"locale"`
	// HistoryFile is the REPL history path.
	HistoryFile string `yaml:"history_file"`
	// Prompt selects the REPL prompt language: "ar" or "en".
	Prompt string `yaml:"prompt"`
}

// FileName is the settings file looked up in the working directory and
// then the home directory.
const FileName = ".iqra.yaml"

// Default returns the built-in settings.
func Default() *Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return &Config{
		Locale:      "en",
		HistoryFile: filepath.Join(home, ".iqra_history"),
		Prompt:      "ar",
	}
}

// Load reads the first settings file found, layered over the defaults.
// A missing file is not an error; a malformed one is.
func Load() (*Config, error) {
	cfg := Default()

	path, ok := findConfigFile()
	if !ok {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFile reads settings from an explicit path, layered over defaults.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func findConfigFile() (string, bool) {
	if _, err := os.Stat(FileName); err == nil {
		return FileName, true
	}
	if home, err := os.UserHomeDir(); err == nil {
		path := filepath.Join(home, FileName)
		if _, err := os.Stat(path); err == nil {
			return path, true
		}
	}
	return "", false
}
