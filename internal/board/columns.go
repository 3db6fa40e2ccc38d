package board

import "github.com/abatilo/lanes/internal/task"

// Column describes how a stage is presented and which gestures it accepts.
// Editability belongs to the column, not to the task.
type Column struct {
	Stage    task.Stage `json:"stage"`
	Title    string     `json:"title"`
	Icon     string     `json:"icon"`
	Editable bool       `json:"editable"`
	CanAdd   bool       `json:"canAdd"`
	CanClear bool       `json:"canClear"`
}

// Columns returns the four board columns in display order.
func Columns() []Column {
	return []Column{
		{Stage: task.StageTodo, Title: "To Do", Icon: "icons/todo.svg", Editable: true, CanAdd: true},
		{Stage: task.StageInProgress, Title: "In Progress", Icon: "icons/in-progress.svg"},
		{Stage: task.StageReview, Title: "Review", Icon: "icons/review.svg"},
		{Stage: task.StageDone, Title: "Done", Icon: "icons/done.svg", CanClear: true},
	}
}

// ColumnFor returns the column for a stage.
func ColumnFor(stage task.Stage) (Column, bool) {
	for _, c := range Columns() {
		if c.Stage == stage {
			return c, true
		}
	}
	return Column{}, false
}
