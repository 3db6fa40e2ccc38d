// Package transfer keeps the payload of a drag in progress between two CLI
// invocations: grab writes it, drop consumes it.
package transfer

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/abatilo/lanes/internal/board"
	laneserrors "github.com/abatilo/lanes/internal/errors"
	"github.com/abatilo/lanes/internal/task"
)

const transferFile = "drag.json"

// Payload is a grabbed task waiting to be dropped.
type Payload struct {
	board.DragPayload
	GrabbedAt time.Time `json:"grabbedAt"`
}

// transferPath returns the full path to drag.json for the given base path.
func transferPath(basePath string) string {
	return filepath.Join(basePath, transferFile)
}

// Exists checks if a drag is in progress.
func Exists(basePath string) bool {
	_, err := os.Stat(transferPath(basePath))
	return err == nil
}

// Load reads the pending payload. Without one it returns NothingGrabbedError.
func Load(basePath string) (*Payload, error) {
	data, err := os.ReadFile(transferPath(basePath))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, laneserrors.NothingGrabbedError{}
	}
	if err != nil {
		return nil, err
	}

	var p Payload
	if unmarshalErr := json.Unmarshal(data, &p); unmarshalErr != nil {
		return nil, fmt.Errorf("read %s: %w", transferFile, unmarshalErr)
	}

	return &p, nil
}

// Save writes the payload to disk, replacing any earlier grab.
func Save(basePath string, p *Payload) error {
	//nolint:gosec // G301: 0755 is appropriate for user-accessible board directory
	if mkdirErr := os.MkdirAll(basePath, 0o755); mkdirErr != nil {
		return mkdirErr
	}

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}

	//nolint:gosec // G306: 0644 is appropriate for user-readable board files
	return os.WriteFile(transferPath(basePath), data, 0o644)
}

// Delete removes the payload.
func Delete(basePath string) error {
	err := os.Remove(transferPath(basePath))
	if errors.Is(err, fs.ErrNotExist) {
		return nil // Already dropped, not an error
	}
	return err
}

// Grab starts a drag of t.
func Grab(basePath string, t task.Task, now time.Time) (*Payload, error) {
	p := &Payload{DragPayload: board.DragStart(t), GrabbedAt: now.UTC()}
	if err := Save(basePath, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Take loads the pending payload and clears it, so each grab is dropped once.
func Take(basePath string) (*Payload, error) {
	p, err := Load(basePath)
	if err != nil {
		return nil, err
	}
	if deleteErr := Delete(basePath); deleteErr != nil {
		return nil, deleteErr
	}
	return p, nil
}
