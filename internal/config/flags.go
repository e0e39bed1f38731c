package config

import "flag"

// flagFields maps flag names to the config fields they set.
var flagFields = map[string]string{
	"data":       "data_file",
	"log-dir":    "log_dir",
	"autosave":   "autosave",
	"history":    "history",
	"log-level":  "log_level",
	"log-format": "log_format",
}

// parseFlags defines the global CLI flags on fs, parses args and records
// which fields were set explicitly.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string, sources map[string]ConfigSource) error {
	if fs == nil {
		fs = flag.NewFlagSet("duke", flag.ContinueOnError)
	}

	fs.StringVar(&cfg.DataFile, "data", cfg.DataFile, "Path to the task data file")
	fs.StringVar(&cfg.LogDir, "log-dir", cfg.LogDir, "Directory for session history logs")
	fs.BoolVar(&cfg.Autosave, "autosave", cfg.Autosave, "Save after every change")
	fs.BoolVar(&cfg.History, "history", cfg.History, "Record commands in the session history")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug|info|warn|error)")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (text|json|logfmt)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	fs.Visit(func(f *flag.Flag) {
		if field, ok := flagFields[f.Name]; ok {
			sources[field] = SourceFlag
		}
	})
	return nil
}
