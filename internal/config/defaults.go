package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			Backend:      "file",
			Key:          "tasks",
			PersistEmpty: true,
		},
		Board: BoardConfig{
			Timezone: "Local",
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:7070",
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "console",
		},
	}
}

// WriteDefault writes the default configuration as YAML, creating parent
// directories as needed.
func WriteDefault(path string) error {
	//nolint:gosec // G301: 0755 is appropriate for user config directories
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	data, err := yaml.Marshal(Default())
	if err != nil {
		return err
	}

	//nolint:gosec // G306: config holds no secrets by default
	return os.WriteFile(path, data, 0o644)
}
