package storage

import (
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	laneserrors "github.com/abatilo/lanes/internal/errors"
)

const (
	lanesDir = ".lanes"

	// DefaultBoard is the board used outside any git repository.
	DefaultBoard = "default"
)

var nonAlnum = regexp.MustCompile(`[^a-zA-Z0-9]+`)

// FindProjectRoot walks up from cwd looking for .git directory.
// Returns the directory containing .git, or error if not found.
func FindProjectRoot() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}

	dir := cwd
	for {
		gitPath := filepath.Join(dir, ".git")
		info, err := os.Stat(gitPath)
		if err == nil && info.IsDir() {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root without finding .git
			return "", laneserrors.NotInRepoError{}
		}
		dir = parent
	}
}

// SanitizePath converts an absolute path to a safe directory name.
// "/Users/abatilo/myproject" -> "Users-abatilo-myproject"
func SanitizePath(path string) string {
	result := strings.TrimPrefix(path, "/")
	result = nonAlnum.ReplaceAllString(result, "-")
	return strings.Trim(result, "-")
}

// BoardName returns the board namespace for the current directory: the sanitized
// project root inside a git repository, DefaultBoard elsewhere.
func BoardName() (string, error) {
	root, err := FindProjectRoot()
	if errors.As(err, new(laneserrors.NotInRepoError)) {
		return DefaultBoard, nil
	}
	if err != nil {
		return "", err
	}
	if name := SanitizePath(root); name != "" {
		return name, nil
	}
	return DefaultBoard, nil
}

// HomeDir returns ~/.lanes.
func HomeDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, lanesDir), nil
}

// BoardDir returns the board directory (~/.lanes/<board>).
func BoardDir(board string) (string, error) {
	base, err := HomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, board), nil
}
