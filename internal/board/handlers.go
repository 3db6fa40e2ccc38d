package board

import (
	"context"
	"time"

	laneserrors "github.com/abatilo/lanes/internal/errors"
	"github.com/abatilo/lanes/internal/task"
)

// DragPayload is what a drag carries from its source card to the drop target.
type DragPayload struct {
	TaskID   int64      `json:"taskId"`
	TaskType task.Stage `json:"taskType"`
}

// DragStart captures the payload for a dragged task.
func DragStart(t task.Task) DragPayload {
	return DragPayload{TaskID: t.ID, TaskType: t.Type}
}

// Handlers turns UI gestures into store mutations.
type Handlers struct {
	store *Store
	loc   *time.Location
}

// NewHandlers binds gesture handling to a store. Dates typed into forms are read in loc.
func NewHandlers(store *Store, loc *time.Location) *Handlers {
	if loc == nil {
		loc = time.Local
	}
	return &Handlers{store: store, loc: loc}
}

// Store returns the underlying store.
func (h *Handlers) Store() *Store {
	return h.store
}

// Location returns the location dates are interpreted in.
func (h *Handlers) Location() *time.Location {
	return h.loc
}

// DropOnColumn moves the dragged task into stage.
func (h *Handlers) DropOnColumn(ctx context.Context, p DragPayload, stage task.Stage) ([]task.Task, error) {
	return h.store.SetStage(ctx, p.TaskID, stage)
}

// DropOnTrash deletes the dragged task.
func (h *Handlers) DropOnTrash(ctx context.Context, p DragPayload) []task.Task {
	return h.store.Remove(ctx, p.TaskID)
}

// ClearColumn empties a column. Only columns that expose a clear action accept it.
func (h *Handlers) ClearColumn(ctx context.Context, stage task.Stage) ([]task.Task, error) {
	col, ok := ColumnFor(stage)
	if !ok {
		return h.store.List(), laneserrors.InvalidStageError{Value: string(stage)}
	}
	if !col.CanClear {
		return h.store.List(), laneserrors.ClearNotAllowedError{Stage: string(stage)}
	}
	return h.store.ClearStage(ctx, stage), nil
}

// ClearDone empties the done column.
func (h *Handlers) ClearDone(ctx context.Context) []task.Task {
	return h.store.ClearStage(ctx, task.StageDone)
}

// NewTaskForm opens the add-task form.
func (h *Handlers) NewTaskForm(now time.Time) *Form {
	id := task.NextID(now, h.store.Exists)
	return newForm(ModeAdd, task.Draft(id, now), h.loc)
}

// EditTaskForm opens an edit form for a task shown in a column with the given
// editability.
func (h *Handlers) EditTaskForm(id int64, editable bool) (*Form, error) {
	t, ok := h.store.Get(id)
	if !ok {
		return nil, laneserrors.TaskNotFoundError{ID: id}
	}
	if !editable {
		return nil, laneserrors.NotEditableError{ID: id, Stage: string(t.Type)}
	}
	return newForm(ModeEdit, t, h.loc), nil
}

// EditInColumn opens an edit form using the task's own column to decide editability.
func (h *Handlers) EditInColumn(id int64) (*Form, error) {
	t, ok := h.store.Get(id)
	if !ok {
		return nil, laneserrors.TaskNotFoundError{ID: id}
	}
	col, _ := ColumnFor(t.Type)
	return h.EditTaskForm(id, col.Editable)
}

// Submit validates the form and commits it. A failed validation leaves the store
// and the form as they were.
func (h *Handlers) Submit(ctx context.Context, f *Form) ([]task.Task, error) {
	if err := f.Validate(); err != nil {
		return h.store.List(), err
	}
	if f.Mode == ModeAdd {
		return h.store.Add(ctx, f.Draft())
	}
	return h.store.Update(ctx, f.Draft())
}
