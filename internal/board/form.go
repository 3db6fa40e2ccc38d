package board

import (
	"strings"
	"time"

	laneserrors "github.com/abatilo/lanes/internal/errors"
	"github.com/abatilo/lanes/internal/task"
)

// DateInputLayout is the format date fields are entered in.
const DateInputLayout = "2006-01-02"

// FormMode tells Submit whether the form creates or replaces a task.
type FormMode int

const (
	ModeAdd FormMode = iota
	ModeEdit
)

// Patch is a partial update; nil fields are left alone.
type Patch struct {
	Text     *string
	StartDay *int64
	EndDay   *int64
}

// Apply returns t with the set fields of p overwritten.
func (p Patch) Apply(t task.Task) task.Task {
	if p.Text != nil {
		t.Text = *p.Text
	}
	if p.StartDay != nil {
		t.StartDay = *p.StartDay
	}
	if p.EndDay != nil {
		t.EndDay = *p.EndDay
	}
	return t
}

// Form holds uncommitted edits to a task. The store is untouched until Submit.
type Form struct {
	Mode     FormMode
	original task.Task
	draft    task.Task
	loc      *time.Location
}

func newForm(mode FormMode, t task.Task, loc *time.Location) *Form {
	if loc == nil {
		loc = time.Local
	}
	return &Form{Mode: mode, original: t, draft: t, loc: loc}
}

// Draft returns the task as currently edited.
func (f *Form) Draft() task.Task {
	return f.draft
}

// Apply merges a partial update into the draft.
func (f *Form) Apply(p Patch) {
	f.draft = p.Apply(f.draft)
}

// SetText replaces the description.
func (f *Form) SetText(text string) {
	f.Apply(Patch{Text: &text})
}

// SetStartDate parses a YYYY-MM-DD entry. On failure the previous value is kept.
func (f *Form) SetStartDate(value string) error {
	ms, err := f.parseDate("startDay", value)
	if err != nil {
		return err
	}
	f.Apply(Patch{StartDay: &ms})
	return nil
}

// SetEndDate parses a YYYY-MM-DD entry. On failure the previous value is kept.
func (f *Form) SetEndDate(value string) error {
	ms, err := f.parseDate("endDay", value)
	if err != nil {
		return err
	}
	f.Apply(Patch{EndDay: &ms})
	return nil
}

func (f *Form) parseDate(field, value string) (int64, error) {
	d, err := time.ParseInLocation(DateInputLayout, strings.TrimSpace(value), f.loc)
	if err != nil {
		return 0, laneserrors.InvalidDateError{Field: field, Value: value}
	}
	return d.UnixMilli(), nil
}

// Validate checks the required fields.
func (f *Form) Validate() error {
	if strings.TrimSpace(f.draft.Text) == "" {
		return laneserrors.MissingFieldError{Field: "text"}
	}
	if f.draft.StartDay == 0 {
		return laneserrors.MissingFieldError{Field: "startDay"}
	}
	return nil
}

// Cancel throws away pending edits.
func (f *Form) Cancel() {
	f.draft = f.original
}

// FormatDate renders a timestamp for a date input field.
func FormatDate(ms int64, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return task.ValidTime(ms, time.Now()).In(loc).Format(DateInputLayout)
}
