package output

import (
	"time"

	"github.com/abatilo/lanes/internal/board"
	"github.com/abatilo/lanes/internal/task"
)

// Formatter defines the interface for output formatting.
type Formatter interface {
	FormatTask(t task.Task, now time.Time) string
	FormatBoard(v board.View, now time.Time) string
	FormatStages(cols []board.Column) string
	FormatError(err error) string
	FormatMessage(msg string) string
}

// New returns the JSON formatter when asJSON is set, the human one otherwise.
// Dates are shown in loc.
func New(asJSON bool, loc *time.Location) Formatter {
	if asJSON {
		return NewJSONFormatter()
	}
	return NewHumanFormatter(loc)
}
