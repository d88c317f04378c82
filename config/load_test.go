package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInterpolateEnv(t *testing.T) {
	getenv := func(key string) string {
		switch key {
		case "TEST_DB":
			return "transcript.db"
		case "TEST_LEVEL":
			return "debug"
		default:
			return ""
		}
	}

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "simple substitution",
			input:    "dsn: ${TEST_DB}",
			expected: "dsn: transcript.db",
		},
		{
			name:     "with default (env set)",
			input:    "dsn: ${TEST_DB:-other.db}",
			expected: "dsn: transcript.db",
		},
		{
			name:     "with default (env not set)",
			input:    "dsn: ${UNSET_VAR:-other.db}",
			expected: "dsn: other.db",
		},
		{
			name:     "multiple substitutions",
			input:    "x: ${TEST_LEVEL}/${TEST_DB}",
			expected: "x: debug/transcript.db",
		},
		{
			name:     "unset without default",
			input:    "dsn: ${UNSET_VAR}",
			expected: "dsn: ",
		},
		{
			name:     "no substitution needed",
			input:    "static: value",
			expected: "static: value",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := string(interpolateEnv([]byte(tt.input), getenv))
			if result != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, result)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "monkey.yaml")

	configContent := `
log_level: info

repl:
  prompt: "m> "
  history_file: ./history
  banner: false

transcript:
  enabled: true
  driver: sqlite
  dsn: ./data/transcript.db
  max_entries: 50
  locale: fr_FR
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadFile(configPath, os.Getenv)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	if cfg.LogLevel != "info" {
		t.Errorf("expected log level 'info', got %q", cfg.LogLevel)
	}
	if cfg.REPL.Prompt != "m> " {
		t.Errorf("expected prompt 'm> ', got %q", cfg.REPL.Prompt)
	}
	if cfg.REPL.Banner {
		t.Error("expected banner to be disabled")
	}
	if cfg.BaseDir != dir {
		t.Errorf("expected base dir %q, got %q", dir, cfg.BaseDir)
	}

	// relative paths resolve against the config file's directory
	if want := filepath.Join(dir, "history"); cfg.REPL.HistoryFile != want {
		t.Errorf("expected history file %q, got %q", want, cfg.REPL.HistoryFile)
	}
	if want := filepath.Join(dir, "data", "transcript.db"); cfg.Transcript.DSN != want {
		t.Errorf("expected dsn %q, got %q", want, cfg.Transcript.DSN)
	}
	if cfg.Transcript.MaxEntries != 50 {
		t.Errorf("expected max_entries 50, got %d", cfg.Transcript.MaxEntries)
	}
	if cfg.Transcript.Locale != "fr_FR" {
		t.Errorf("expected locale fr_FR, got %q", cfg.Transcript.Locale)
	}
}

func TestLoadWithEnvInterpolation(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "monkey.yaml")

	configContent := `
transcript:
  driver: postgres
  dsn: ${MONKEY_TEST_DSN}
log_level: ${MONKEY_TEST_LEVEL:-error}
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	getenv := func(key string) string {
		if key == "MONKEY_TEST_DSN" {
			return "postgres://localhost/monkey?sslmode=disable"
		}
		return ""
	}

	cfg, err := LoadFile(configPath, getenv)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	// non-sqlite DSNs are left untouched
	if cfg.Transcript.DSN != "postgres://localhost/monkey?sslmode=disable" {
		t.Errorf("unexpected dsn %q", cfg.Transcript.DSN)
	}
	if cfg.LogLevel != "error" {
		t.Errorf("expected log level from default 'error', got %q", cfg.LogLevel)
	}
}

func TestLoadHomeExpansion(t *testing.T) {
	home := t.TempDir()
	getenv := func(key string) string {
		if key == "HOME" {
			return home
		}
		return ""
	}

	cfg, err := Load("", getenv)
	if err != nil {
		// a monkey.yaml in the working directory would be picked up instead
		t.Skipf("default config resolution not isolated: %v", err)
	}
	if cfg.BaseDir != "" {
		t.Skip("a config file was found in the working directory")
	}

	if want := filepath.Join(home, ".monkey_history"); cfg.REPL.HistoryFile != want {
		t.Errorf("expected history file %q, got %q", want, cfg.REPL.HistoryFile)
	}
	if want := filepath.Join(home, ".config", "monkey", "transcript.db"); cfg.Transcript.DSN != want {
		t.Errorf("expected dsn %q, got %q", want, cfg.Transcript.DSN)
	}
}

func TestLoadFromEnvVariable(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "elsewhere.yaml")
	if err := os.WriteFile(configPath, []byte("log_level: debug\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	getenv := func(key string) string {
		if key == "MONKEY_CONFIG" {
			return configPath
		}
		return ""
	}

	cfg, err := Load("", getenv)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("expected log level 'debug', got %q", cfg.LogLevel)
	}
}

func TestValidation(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{
			name:   "defaults are valid",
			modify: func(c *Config) {},
		},
		{
			name:    "bad log level",
			modify:  func(c *Config) { c.LogLevel = "loud" },
			wantErr: "invalid log level: loud",
		},
		{
			name:    "empty prompt",
			modify:  func(c *Config) { c.REPL.Prompt = "" },
			wantErr: "repl.prompt cannot be empty",
		},
		{
			name:    "unknown driver",
			modify:  func(c *Config) { c.Transcript.Driver = "oracle" },
			wantErr: `unknown driver "oracle"`,
		},
		{
			name: "enabled without dsn",
			modify: func(c *Config) {
				c.Transcript.Enabled = true
				c.Transcript.DSN = ""
			},
			wantErr: "transcript.dsn is required",
		},
		{
			name:    "negative max entries",
			modify:  func(c *Config) { c.Transcript.MaxEntries = -1 },
			wantErr: "transcript.max_entries: -1",
		},
		{
			name:    "negative debounce",
			modify:  func(c *Config) { c.Watch.Debounce = -1 },
			wantErr: "watch.debounce",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.modify(cfg)
			err := Validate(cfg)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error containing %q", tt.wantErr)
			}
			if !strings.HasPrefix(err.Error(), "configuration errors:\n  - ") {
				t.Errorf("unexpected error format: %q", err.Error())
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %q", tt.wantErr, err.Error())
			}
		})
	}
}

func TestValidationCollectsAll(t *testing.T) {
	cfg := Defaults()
	cfg.LogLevel = "loud"
	cfg.Transcript.Driver = "oracle"

	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected an error")
	}
	if got := strings.Count(err.Error(), "\n  - "); got != 2 {
		t.Errorf("expected 2 problems, got %d in %q", got, err.Error())
	}
}

func TestResolveConfigPath(t *testing.T) {
	noenv := func(string) string { return "" }

	_, err := resolveConfigPath("/nonexistent/path/monkey.yaml", noenv)
	if err == nil || errors.Is(err, ErrNoConfig) {
		t.Errorf("expected not found error for explicit path, got %v", err)
	}

	dir := t.TempDir()
	configPath := filepath.Join(dir, "custom.yaml")
	if err := os.WriteFile(configPath, []byte(""), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	resolved, err := resolveConfigPath(configPath, noenv)
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if resolved != configPath {
		t.Errorf("expected %q, got %q", configPath, resolved)
	}

	badEnv := func(key string) string {
		if key == "MONKEY_CONFIG" {
			return filepath.Join(dir, "missing.yaml")
		}
		return ""
	}
	if _, err := resolveConfigPath("", badEnv); err == nil || !strings.Contains(err.Error(), "MONKEY_CONFIG") {
		t.Errorf("expected MONKEY_CONFIG error, got %v", err)
	}
}

func TestLoadFileInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "monkey.yaml")
	if err := os.WriteFile(configPath, []byte("repl: [unclosed"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	_, err := LoadFile(configPath, os.Getenv)
	if err == nil || !strings.Contains(err.Error(), "failed to parse config") {
		t.Errorf("expected parse error, got %v", err)
	}
}
