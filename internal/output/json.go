package output

import (
	"encoding/json"
	"time"

	"github.com/abatilo/lanes/internal/board"
	"github.com/abatilo/lanes/internal/task"
)

// JSONFormatter formats output as JSON.
type JSONFormatter struct{}

// marshalJSON marshals a value to indented JSON with a trailing newline.
func marshalJSON(v any) string {
	data, _ := json.MarshalIndent(v, "", "  ")
	return string(data) + "\n"
}

// NewJSONFormatter creates a new JSONFormatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// taskJSON is the persisted task shape plus a computed overdue flag.
type taskJSON struct {
	ID       int64  `json:"id"`
	Text     string `json:"text"`
	StartDay int64  `json:"startDay"`
	EndDay   int64  `json:"endDay"`
	Type     string `json:"type"`
	Overdue  bool   `json:"overdue"`
}

func toTaskJSON(t task.Task, now time.Time) taskJSON {
	return taskJSON{
		ID:       t.ID,
		Text:     t.Text,
		StartDay: t.StartDay,
		EndDay:   t.EndDay,
		Type:     string(t.Type),
		Overdue:  t.Overdue(now),
	}
}

// FormatTask formats a single task as JSON.
func (f *JSONFormatter) FormatTask(t task.Task, now time.Time) string {
	return marshalJSON(toTaskJSON(t, now))
}

type columnJSON struct {
	board.Column
	Tasks []taskJSON `json:"tasks"`
}

type boardJSON struct {
	Search  string       `json:"search,omitempty"`
	Columns []columnJSON `json:"columns"`
}

// FormatBoard formats the derived board as JSON.
func (f *JSONFormatter) FormatBoard(v board.View, now time.Time) string {
	out := boardJSON{Search: v.Term, Columns: make([]columnJSON, len(v.Columns))}
	for i, col := range v.Columns {
		tasks := make([]taskJSON, len(col.Tasks))
		for j, t := range col.Tasks {
			tasks[j] = toTaskJSON(t, now)
		}
		out.Columns[i] = columnJSON{Column: col.Column, Tasks: tasks}
	}
	return marshalJSON(out)
}

// FormatStages formats the column definitions as JSON.
func (f *JSONFormatter) FormatStages(cols []board.Column) string {
	if cols == nil {
		cols = []board.Column{}
	}
	return marshalJSON(cols)
}

// errorJSON is the JSON representation of an error.
type errorJSON struct {
	Error string `json:"error"`
}

// FormatError formats an error as JSON.
func (f *JSONFormatter) FormatError(err error) string {
	return marshalJSON(errorJSON{Error: err.Error()})
}

// messageJSON is the JSON representation of a message.
type messageJSON struct {
	Message string `json:"message"`
}

// FormatMessage formats a simple message as JSON.
func (f *JSONFormatter) FormatMessage(msg string) string {
	return marshalJSON(messageJSON{Message: msg})
}
