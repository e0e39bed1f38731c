package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# duke configuration file
# Values can be overridden by DUKE_* environment variables or CLI flags

# Task data file (relative to the working directory)
data_file = "duke.json"

# Session history directory (supports ~ expansion and %VAR% on Windows)
log_dir = "~/.duke"

# Save the task list after every command that changes it
autosave = true

# Record every command in a per-session JSONL history file
history = true

# Diagnostic logging on stderr
log_level = "info"      # debug, info, warn, error
log_format = "text"     # text, json, logfmt
log_timestamps = false
log_caller = false
`
}
