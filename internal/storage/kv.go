package storage

import (
	"context"
	"fmt"
	"strings"

	laneserrors "github.com/abatilo/lanes/internal/errors"
)

// TasksKey is the single key holding the whole serialized task list.
const TasksKey = "tasks"

// Backend names accepted in configuration.
const (
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// KV is the key-value persistence the board is mirrored to.
type KV interface {
	// Get returns the stored value and whether the key was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Options selects and parameterizes a backend.
type Options struct {
	Backend     string
	Path        string // board directory for file, database file for sqlite
	Board       string // namespace for shared backends (redis, postgres)
	RedisURL    string
	PostgresDSN string
}

// Open constructs the configured backend.
func Open(ctx context.Context, opts Options) (KV, error) {
	switch strings.ToLower(opts.Backend) {
	case "", BackendFile:
		return NewFileKV(opts.Path), nil
	case BackendSQLite:
		return NewSQLiteKV(opts.Path)
	case BackendRedis:
		return NewRedisKV(ctx, opts.RedisURL, opts.Board)
	case BackendPostgres:
		return NewPostgresKV(ctx, opts.PostgresDSN, opts.Board)
	case BackendMemory:
		return NewMemoryKV(), nil
	default:
		return nil, fmt.Errorf("open storage: %w", laneserrors.UnknownBackendError{Name: opts.Backend})
	}
}
