//nolint:revive // Package name intentionally matches stdlib for domain clarity
package errors

import "fmt"

// TaskNotFoundError indicates the task ID doesn't match any task on the board.
type TaskNotFoundError struct {
	ID int64
}

func (e TaskNotFoundError) Error() string {
	return fmt.Sprintf("task not found: %d", e.ID)
}

// AlreadyExistsError indicates an ID collision.
type AlreadyExistsError struct {
	ID int64
}

func (e AlreadyExistsError) Error() string {
	return fmt.Sprintf("task already exists: %d", e.ID)
}

// InvalidStageError indicates an unrecognized stage value.
type InvalidStageError struct {
	Value string
}

func (e InvalidStageError) Error() string {
	return fmt.Sprintf("invalid stage: %s (valid: todo, in_progress, review, done)", e.Value)
}

// NotEditableError indicates the task sits in a column that does not allow editing.
type NotEditableError struct {
	ID    int64
	Stage string
}

func (e NotEditableError) Error() string {
	return fmt.Sprintf("task %d is in '%s'; only tasks in 'todo' can be edited", e.ID, e.Stage)
}

// MissingFieldError indicates a required form field was left empty on submit.
type MissingFieldError struct {
	Field string
}

func (e MissingFieldError) Error() string {
	return fmt.Sprintf("%s is required", e.Field)
}

// InvalidDateError indicates a date entry could not be parsed.
type InvalidDateError struct {
	Field string
	Value string
}

func (e InvalidDateError) Error() string {
	return fmt.Sprintf("invalid %s: %q (expected YYYY-MM-DD)", e.Field, e.Value)
}

// MalformedDataError indicates persisted board data could not be decoded.
type MalformedDataError struct {
	Reason string
}

func (e MalformedDataError) Error() string {
	return "malformed board data: " + e.Reason
}

// ClearNotAllowedError indicates a bulk clear was requested on a column without one.
type ClearNotAllowedError struct {
	Stage string
}

func (e ClearNotAllowedError) Error() string {
	return fmt.Sprintf("stage '%s' cannot be cleared; only 'done' supports bulk clear", e.Stage)
}

// NothingGrabbedError indicates drop was called with no task in hand.
type NothingGrabbedError struct{}

func (e NothingGrabbedError) Error() string {
	return "no task grabbed: run 'lanes grab <id>' first"
}

// NotInRepoError indicates the command was run outside a git repository.
type NotInRepoError struct{}

func (e NotInRepoError) Error() string {
	return "not in a git repository"
}

// UnknownBackendError indicates an unsupported storage backend in configuration.
type UnknownBackendError struct {
	Name string
}

func (e UnknownBackendError) Error() string {
	return fmt.Sprintf("unknown storage backend: %s (valid: file, sqlite, redis, postgres, memory)", e.Name)
}
