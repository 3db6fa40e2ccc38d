// Package seed supplies the board shown before anything has been persisted.
package seed

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/abatilo/lanes/internal/storage"
	"github.com/abatilo/lanes/internal/task"
)

//go:embed defaults.yaml
var bundled []byte

// Loader produces the default task list.
type Loader interface {
	Load() ([]task.Task, error)
}

// LoaderFunc adapts a plain function to Loader.
type LoaderFunc func() ([]task.Task, error)

func (f LoaderFunc) Load() ([]task.Task, error) {
	return f()
}

// Bundled returns the loader for the defaults compiled into the binary.
func Bundled() Loader {
	return LoaderFunc(func() ([]task.Task, error) {
		return ParseYAML(bundled)
	})
}

// File returns a loader reading a user-supplied seed. JSON files use the storage
// format; anything else is read as YAML.
func File(path string) Loader {
	return LoaderFunc(func() ([]task.Task, error) {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read seed: %w", err)
		}
		if strings.EqualFold(filepath.Ext(path), ".json") {
			return storage.DecodeTasks(content)
		}
		return ParseYAML(content)
	})
}

// FromConfig picks File when a path is configured, Bundled otherwise.
func FromConfig(path string) Loader {
	if path == "" {
		return Bundled()
	}
	return File(path)
}

// Static returns a loader that hands out a fixed list.
func Static(tasks []task.Task) Loader {
	return LoaderFunc(func() ([]task.Task, error) {
		return append([]task.Task(nil), tasks...), nil
	})
}

// ParseYAML decodes a YAML sequence of task records.
func ParseYAML(content []byte) ([]task.Task, error) {
	var tasks []task.Task
	if err := yaml.Unmarshal(content, &tasks); err != nil {
		return nil, fmt.Errorf("parse seed: %w", err)
	}
	return tasks, nil
}
