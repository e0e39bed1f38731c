package config

import (
	"os"
	"path/filepath"
)

const configFileName = "duke.toml"

// projectConfigCandidates lists project config files in lookup order,
// relative to the working directory.
func projectConfigCandidates() []string {
	return []string{configFileName, "." + configFileName}
}

// userConfigCandidates lists user config files in lookup order:
// ~/.duke/duke.toml, then duke/duke.toml under the OS config directory
// ($XDG_CONFIG_HOME or ~/.config, %APPDATA%, ~/Library/Application Support).
func userConfigCandidates() []string {
	var paths []string
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".duke", configFileName))
	}
	if dir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(dir, "duke", configFileName))
	}
	return paths
}

// firstExisting returns the first path that names a regular file, or "".
func firstExisting(paths []string) string {
	for _, p := range paths {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p
		}
	}
	return ""
}

func setDefaults(cfg *Config) {
	*cfg = Config{
		DataFile:  DefaultDataFile,
		LogDir:    DefaultLogDir,
		Autosave:  DefaultAutosave,
		History:   DefaultHistory,
		LogLevel:  DefaultLogLevel,
		LogFormat: DefaultLogFormat,
	}
}
