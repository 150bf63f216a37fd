// Package config defines and loads guardctl's configuration. Sources are
// merged with env over file over defaults, under the GUARDWEB_ prefix.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the environment variable prefix.
const EnvPrefix = "GUARDWEB_"

// Config is guardctl's configuration.
type Config struct {
	// Server is the dashboard backend origin.
	Server string `koanf:"server"`
	// Timeout bounds every request.
	Timeout time.Duration `koanf:"timeout"`
	// StatePath is the session state file. Empty selects
	// ~/.guardweb/session.json.
	StatePath string `koanf:"state_path"`
	// LogLevel is one of trace, debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
	// Output selects the default rendering: json or text.
	Output string `koanf:"output"`
}

// Default returns the baseline configuration.
func Default() Config {
	return Config{
		Server:   "http://127.0.0.1:8000",
		Timeout:  30 * time.Second,
		LogLevel: "info",
		Output:   "text",
	}
}

// DefaultConfigPath returns the default config file location.
func DefaultConfigPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".guardweb", "cli.yaml")
}

// Load merges defaults, the YAML config file (when present), and GUARDWEB_*
// environment variables. An empty path selects DefaultConfigPath; a missing
// file is not an error.
func Load(path string) (Config, error) {
	if path == "" {
		path = DefaultConfigPath()
	}

	k := koanf.New(".")
	cfg := Default()

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("load config file: %w", err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return Config{}, fmt.Errorf("load environment: %w", err)
	}

	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}
