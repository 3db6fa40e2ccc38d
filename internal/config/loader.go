package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/abatilo/lanes/internal/storage"
)

const (
	envPrefix         = "LANES"
	projectConfigName = ".lanes.yaml"
	globalConfigName  = "config.yaml"
)

// Load merges, lowest precedence first: defaults, ~/.lanes/config.yaml,
// <project>/.lanes.yaml, the explicit file (if any), then LANES_* variables.
// A .env file in the working directory is loaded into the environment first.
func Load(explicit string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v, Default())

	for _, path := range []string{GlobalConfigPath(), ProjectConfigPath()} {
		if path == "" {
			continue
		}
		if err := mergeFile(v, path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	if explicit != "" {
		if err := mergeFile(v, explicit); err != nil {
			return nil, err
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

func mergeFile(v *viper.Viper, path string) error {
	if _, err := os.Stat(path); err != nil {
		return err
	}
	v.SetConfigFile(path)
	if err := v.MergeInConfig(); err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	return nil
}

// setDefaults registers every key so AutomaticEnv can override it during Unmarshal.
func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("storage.backend", d.Storage.Backend)
	v.SetDefault("storage.path", d.Storage.Path)
	v.SetDefault("storage.key", d.Storage.Key)
	v.SetDefault("storage.redis_url", d.Storage.RedisURL)
	v.SetDefault("storage.postgres_dsn", d.Storage.PostgresDSN)
	v.SetDefault("storage.persist_empty", d.Storage.PersistEmpty)
	v.SetDefault("board.name", d.Board.Name)
	v.SetDefault("board.seed", d.Board.Seed)
	v.SetDefault("board.timezone", d.Board.Timezone)
	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
}

// GlobalConfigPath returns ~/.lanes/config.yaml, or "" without a home directory.
func GlobalConfigPath() string {
	dir, err := storage.HomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, globalConfigName)
}

// ProjectConfigPath returns .lanes.yaml at the git root, or in the working
// directory outside a repository.
func ProjectConfigPath() string {
	root, err := storage.FindProjectRoot()
	if err != nil {
		root, err = os.Getwd()
		if err != nil {
			return ""
		}
	}
	return filepath.Join(root, projectConfigName)
}
