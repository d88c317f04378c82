package config

import "time"

// Config represents the complete monkey configuration
type Config struct {
	BaseDir    string           `yaml:"-"` // Directory containing config file, for resolving relative paths
	LogLevel   string           `yaml:"log_level"`
	REPL       REPLConfig       `yaml:"repl"`
	Transcript TranscriptConfig `yaml:"transcript"`
	Watch      WatchConfig      `yaml:"watch"`
}

// REPLConfig holds interactive session settings
type REPLConfig struct {
	Prompt             string `yaml:"prompt"`
	ContinuationPrompt string `yaml:"continuation_prompt"`
	HistoryFile        string `yaml:"history_file"` // Empty disables history
	Banner             bool   `yaml:"banner"`
}

// TranscriptConfig holds the session transcript store settings
type TranscriptConfig struct {
	Enabled    bool   `yaml:"enabled"`
	Driver     string `yaml:"driver"` // sqlite, postgres or mysql
	DSN        string `yaml:"dsn"`
	MaxEntries int    `yaml:"max_entries"` // 0 keeps everything
	Locale     string `yaml:"locale"`      // Locale for displayed timestamps (e.g. "fr_FR")
}

// WatchConfig holds file watcher settings
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce"`
}

// Defaults returns a Config with sensible defaults
func Defaults() *Config {
	return &Config{
		LogLevel: "warning",
		REPL: REPLConfig{
			Prompt:             ">> ",
			ContinuationPrompt: ".. ",
			HistoryFile:        "~/.monkey_history",
			Banner:             true,
		},
		Transcript: TranscriptConfig{
			Enabled:    false,
			Driver:     "sqlite",
			DSN:        "~/.config/monkey/transcript.db",
			MaxEntries: 10000,
			Locale:     "en_US",
		},
		Watch: WatchConfig{
			Debounce: 200 * time.Millisecond,
		},
	}
}
