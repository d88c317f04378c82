package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrNoConfig is returned by resolveConfigPath when no file was found in
// any of the default locations.
var ErrNoConfig = errors.New("no config file found (tried MONKEY_CONFIG, monkey.yaml, ~/.config/monkey/monkey.yaml)")

// Load reads configuration with ENV interpolation.
// If configPath is empty, it searches default locations and falls back to
// Defaults() when none exists.
func Load(configPath string, getenv func(string) string) (*Config, error) {
	path, err := resolveConfigPath(configPath, getenv)
	if errors.Is(err, ErrNoConfig) {
		cfg := Defaults()
		expandPaths(cfg, "", getenv)
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}
	return LoadFile(path, getenv)
}

// LoadFile reads and validates the configuration at path.
func LoadFile(path string, getenv func(string) string) (*Config, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config path: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	data = interpolateEnv(data, getenv)

	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.BaseDir = filepath.Dir(absPath)
	expandPaths(cfg, cfg.BaseDir, getenv)

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// expandPaths resolves "~" and relative file paths against baseDir.
// The sqlite DSN is the only DSN that names a file.
func expandPaths(cfg *Config, baseDir string, getenv func(string) string) {
	cfg.REPL.HistoryFile = expandPath(cfg.REPL.HistoryFile, baseDir, getenv)
	if cfg.Transcript.Driver == "sqlite" {
		cfg.Transcript.DSN = expandPath(cfg.Transcript.DSN, baseDir, getenv)
	}
}

func expandPath(p, baseDir string, getenv func(string) string) string {
	if p == "" || p == ":memory:" || strings.HasPrefix(p, "file:") {
		return p
	}
	if p == "~" || strings.HasPrefix(p, "~/") {
		home := getenv("HOME")
		if home == "" {
			if h, err := os.UserHomeDir(); err == nil {
				home = h
			}
		}
		return filepath.Join(home, strings.TrimPrefix(p, "~"))
	}
	if baseDir != "" && !filepath.IsAbs(p) {
		return filepath.Join(baseDir, p)
	}
	return p
}

// Validate reports every configuration problem at once.
func Validate(cfg *Config) error {
	var errs []string

	validLevels := map[string]bool{"debug": true, "verbose": true, "info": true, "warning": true, "error": true}
	if !validLevels[cfg.LogLevel] {
		errs = append(errs, fmt.Sprintf("invalid log level: %s (must be debug, verbose, info, warning, or error)", cfg.LogLevel))
	}

	if cfg.REPL.Prompt == "" {
		errs = append(errs, "repl.prompt cannot be empty")
	}

	validDrivers := map[string]bool{"sqlite": true, "postgres": true, "mysql": true}
	if !validDrivers[cfg.Transcript.Driver] {
		errs = append(errs, fmt.Sprintf("transcript.driver: unknown driver %q (supported: sqlite, postgres, mysql)", cfg.Transcript.Driver))
	}
	if cfg.Transcript.Enabled && cfg.Transcript.DSN == "" {
		errs = append(errs, "transcript.dsn is required when transcript is enabled")
	}
	if cfg.Transcript.MaxEntries < 0 {
		errs = append(errs, fmt.Sprintf("transcript.max_entries: %d (must be 0 or positive)", cfg.Transcript.MaxEntries))
	}

	if cfg.Watch.Debounce < 0 {
		errs = append(errs, fmt.Sprintf("watch.debounce: %s (must not be negative)", cfg.Watch.Debounce))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// resolveConfigPath finds the config file to use.
// Search order: explicit path > MONKEY_CONFIG env > ./monkey.yaml > ~/.config/monkey/monkey.yaml
func resolveConfigPath(explicit string, getenv func(string) string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}

	if envPath := getenv("MONKEY_CONFIG"); envPath != "" {
		if _, err := os.Stat(envPath); err != nil {
			return "", fmt.Errorf("MONKEY_CONFIG file not found: %s", envPath)
		}
		return envPath, nil
	}

	if _, err := os.Stat("monkey.yaml"); err == nil {
		return "monkey.yaml", nil
	}

	home := getenv("HOME")
	if home == "" {
		home, _ = os.UserHomeDir()
	}
	if home != "" {
		xdgPath := filepath.Join(home, ".config", "monkey", "monkey.yaml")
		if _, err := os.Stat(xdgPath); err == nil {
			return xdgPath, nil
		}
	}

	return "", ErrNoConfig
}

// envPattern matches ${VAR} or ${VAR:-default}
var envPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// interpolateEnv replaces ${VAR} and ${VAR:-default} patterns with environment values.
func interpolateEnv(data []byte, getenv func(string) string) []byte {
	return envPattern.ReplaceAllFunc(data, func(match []byte) []byte {
		parts := envPattern.FindSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		value := getenv(string(parts[1]))
		if value == "" && len(parts) >= 3 && len(parts[2]) > 0 {
			value = string(parts[2])
		}
		return []byte(value)
	})
}
