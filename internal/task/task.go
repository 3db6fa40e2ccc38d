package task

import "time"

// Stage is the board column a task currently sits in.
type Stage string

const (
	StageTodo       Stage = "todo"
	StageInProgress Stage = "in_progress"
	StageReview     Stage = "review"
	StageDone       Stage = "done"
)

// Stages returns the recognized stages in board order.
func Stages() []Stage {
	return []Stage{StageTodo, StageInProgress, StageReview, StageDone}
}

// StageOrder returns the column index for a stage, or -1 if unrecognized.
func StageOrder(s Stage) int {
	switch s {
	case StageTodo:
		return 0
	case StageInProgress:
		return 1
	case StageReview:
		return 2
	case StageDone:
		return 3
	default:
		return -1
	}
}

// Task is a single card on the board. Timestamps are epoch milliseconds.
type Task struct {
	ID       int64  `json:"id" yaml:"id"`
	Text     string `json:"text" yaml:"text"`
	StartDay int64  `json:"startDay" yaml:"startDay"`
	EndDay   int64  `json:"endDay" yaml:"endDay"`
	Type     Stage  `json:"type" yaml:"type"`
}

// IsValidStage checks if a stage string is one of the four board columns.
func IsValidStage(s Stage) bool {
	return StageOrder(s) >= 0
}

// Draft returns the seed for the add-task flow.
func Draft(id int64, now time.Time) Task {
	ms := now.UnixMilli()
	return Task{
		ID:       id,
		Text:     "",
		StartDay: ms,
		EndDay:   ms,
		Type:     StageTodo,
	}
}

// Overdue reports whether the due date has passed for a task that is not done.
func (t Task) Overdue(now time.Time) bool {
	return t.EndDay < now.UnixMilli() && t.Type != StageDone
}

// SameDay reports whether the timestamp ms falls on the calendar day of day,
// both read in loc. Time of day is ignored.
func SameDay(ms int64, day time.Time, loc *time.Location) bool {
	a := time.UnixMilli(ms).In(loc)
	b := day.In(loc)
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// ValidTime converts a timestamp for display. Non-positive values show as now.
func ValidTime(ms int64, now time.Time) time.Time {
	if ms <= 0 {
		return now
	}
	return time.UnixMilli(ms)
}
