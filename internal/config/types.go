package config

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceUserFile ConfigSource = "user file"
	SourceProjFile ConfigSource = "project file"
	SourceEnv      ConfigSource = "environment"
	SourceFlag     ConfigSource = "flag"
)

// ConfigWithSources holds configuration along with source information for each field.
type ConfigWithSources struct {
	Config  *Config
	Sources map[string]ConfigSource
	// Files lists the config files that were read, lowest priority first.
	Files []string
}

// Default values.
const (
	DefaultDataFile  = "duke.json"
	DefaultLogDir    = "~/.duke"
	DefaultAutosave  = true
	DefaultHistory   = true
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)

// Config holds the full configuration for duke.
type Config struct {
	// Paths
	DataFile string `toml:"data_file"`
	LogDir   string `toml:"log_dir"`

	// Save the task list after every command that changes it.
	Autosave bool `toml:"autosave"`

	// Record every command in a per-session JSONL history file.
	History bool `toml:"history"`

	// Logging configuration
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`

	// Working directory (computed)
	WorkDir string `toml:"-"`
}

// Fields returns the configurable field names, in display order.
func Fields() []string {
	return []string{
		"data_file",
		"log_dir",
		"autosave",
		"history",
		"log_level",
		"log_format",
		"log_timestamps",
		"log_caller",
	}
}
