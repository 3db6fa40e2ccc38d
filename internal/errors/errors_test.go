//nolint:testpackage // Tests require internal access for thorough testing
package errors

import (
	"testing"
)

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "task not found",
			err:  TaskNotFoundError{ID: 1710504000000},
			want: "task not found: 1710504000000",
		},
		{
			name: "already exists",
			err:  AlreadyExistsError{ID: 7},
			want: "task already exists: 7",
		},
		{
			name: "invalid stage",
			err:  InvalidStageError{Value: "archived"},
			want: "invalid stage: archived (valid: todo, in_progress, review, done)",
		},
		{
			name: "not editable",
			err:  NotEditableError{ID: 3, Stage: "review"},
			want: "task 3 is in 'review'; only tasks in 'todo' can be edited",
		},
		{
			name: "missing field",
			err:  MissingFieldError{Field: "text"},
			want: "text is required",
		},
		{
			name: "invalid date",
			err:  InvalidDateError{Field: "startDay", Value: "tomorrow"},
			want: `invalid startDay: "tomorrow" (expected YYYY-MM-DD)`,
		},
		{
			name: "clear not allowed",
			err:  ClearNotAllowedError{Stage: "todo"},
			want: "stage 'todo' cannot be cleared; only 'done' supports bulk clear",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMalformedDataError(t *testing.T) {
	err := MalformedDataError{Reason: "unexpected end of JSON input"}
	want := "malformed board data: unexpected end of JSON input"
	if got := err.Error(); got != want {
		t.Errorf("MalformedDataError.Error() = %q, want %q", got, want)
	}
}
