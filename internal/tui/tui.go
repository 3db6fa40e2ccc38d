// Package tui is the terminal rendition of the board.
package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/abatilo/lanes/internal/board"
	"github.com/abatilo/lanes/internal/task"
)

type mode int

const (
	modeBoard mode = iota
	modeSearch
	modeAdd
	modeEdit
)

const helpLine = "←/→ column  ↑/↓ task  / search  a add  e edit  </> move  d trash  x clear done  q quit"

// tasksMsg delivers a store notification to the update loop.
type tasksMsg []task.Task

type Model struct {
	ctx      context.Context
	handlers *board.Handlers
	tasks    []task.Task
	updates  <-chan []task.Task
	now      func() time.Time

	term   string
	col    int
	row    int
	mode   mode
	input  textinput.Model
	form   *board.Form
	status string
	width  int
}

// New builds a model over the handlers' store. updates may be nil.
func New(ctx context.Context, h *board.Handlers, updates <-chan []task.Task) Model {
	ti := textinput.New()
	ti.CharLimit = 256
	ti.Width = 40

	return Model{
		ctx:      ctx,
		handlers: h,
		tasks:    h.Store().List(),
		updates:  updates,
		now:      time.Now,
		input:    ti,
		status:   helpLine,
	}
}

// Run shows the board until the user quits or ctx is cancelled. The view
// follows store notifications, so changes made elsewhere appear live.
func Run(ctx context.Context, h *board.Handlers) error {
	updates := make(chan []task.Task, 16)
	unsubscribe := h.Store().Subscribe(func(tasks []task.Task) {
		select {
		case updates <- tasks:
		default:
		}
	})
	defer unsubscribe()

	program := tea.NewProgram(New(ctx, h, updates), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

func waitForUpdate(ch <-chan []task.Task) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		tasks, ok := <-ch
		if !ok {
			return nil
		}
		return tasksMsg(tasks)
	}
}

func (m Model) Init() tea.Cmd {
	return waitForUpdate(m.updates)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tasksMsg:
		m.tasks = msg
		m.clampRow()
		return m, waitForUpdate(m.updates)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = max(msg.Width-10, 10)
		return m, nil
	case tea.KeyMsg:
		switch m.mode {
		case modeSearch:
			return m.updateSearchMode(msg)
		case modeAdd, modeEdit:
			return m.updateFormMode(msg)
		default:
			return m.updateBoardMode(msg.String())
		}
	}
	return m, nil
}

func (m Model) view() board.View {
	return board.Derive(m.tasks, m.term, m.handlers.Location())
}

func (m Model) selected() (task.Task, bool) {
	col := m.view().Columns[m.col]
	if m.row < 0 || m.row >= len(col.Tasks) {
		return task.Task{}, false
	}
	return col.Tasks[m.row], true
}

func (m *Model) clampRow() {
	n := len(m.view().Columns[m.col].Tasks)
	if m.row >= n {
		m.row = n - 1
	}
	if m.row < 0 {
		m.row = 0
	}
}

// apply records the result of a store call.
func (m *Model) apply(tasks []task.Task, err error, ok string) {
	m.tasks = tasks
	m.clampRow()
	if err != nil {
		m.status = err.Error()
		return
	}
	m.status = ok
}

func (m Model) updateBoardMode(key string) (tea.Model, tea.Cmd) {
	stages := task.Stages()

	switch key {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "left", "h":
		if m.col > 0 {
			m.col--
			m.clampRow()
		}
	case "right", "l":
		if m.col < len(stages)-1 {
			m.col++
			m.clampRow()
		}
	case "up", "k":
		if m.row > 0 {
			m.row--
		}
	case "down", "j":
		m.row++
		m.clampRow()
	case "/":
		m.mode = modeSearch
		m.input.Placeholder = "text or DD.MM.YYYY"
		m.input.SetValue(m.term)
		m.input.CursorEnd()
		cmd := m.input.Focus()
		return m, cmd
	case "a":
		m.form = m.handlers.NewTaskForm(m.now())
		m.mode = modeAdd
		m.input.Placeholder = "New task"
		m.input.SetValue("")
		m.status = "Add: type a description and press Enter (Esc cancels)"
		cmd := m.input.Focus()
		return m, cmd
	case "e", "enter":
		t, ok := m.selected()
		if !ok {
			return m, nil
		}
		f, err := m.handlers.EditInColumn(t.ID)
		if err != nil {
			m.status = err.Error()
			return m, nil
		}
		m.form = f
		m.mode = modeEdit
		m.input.Placeholder = ""
		m.input.SetValue(t.Text)
		m.input.CursorEnd()
		m.status = "Edit: change the description and press Enter (Esc cancels)"
		cmd := m.input.Focus()
		return m, cmd
	case "<", ">":
		t, ok := m.selected()
		if !ok {
			return m, nil
		}
		target := m.col - 1
		if key == ">" {
			target = m.col + 1
		}
		if target < 0 || target >= len(stages) {
			return m, nil
		}
		tasks, err := m.handlers.DropOnColumn(m.ctx, board.DragStart(t), stages[target])
		m.col = target
		m.apply(tasks, err, fmt.Sprintf("Moved to %s", stages[target]))
		m.row = m.indexIn(target, t.ID)
	case "d":
		t, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.apply(m.handlers.DropOnTrash(m.ctx, board.DragStart(t)), nil, "Deleted task")
	case "x":
		m.apply(m.handlers.ClearDone(m.ctx), nil, "Cleared done")
	}
	return m, nil
}

func (m Model) indexIn(col int, id int64) int {
	for i, t := range m.view().Columns[col].Tasks {
		if t.ID == id {
			return i
		}
	}
	return 0
}

func (m Model) updateSearchMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.term = ""
		m.mode = modeBoard
		m.input.Blur()
		m.clampRow()
		return m, nil
	case "enter":
		m.mode = modeBoard
		m.input.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.term = m.input.Value()
	m.clampRow()
	return m, cmd
}

func (m Model) updateFormMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.form.Cancel()
		m.form = nil
		m.mode = modeBoard
		m.input.Blur()
		m.status = "Cancelled"
		return m, nil
	case "enter":
		m.form.SetText(m.input.Value())
		tasks, err := m.handlers.Submit(m.ctx, m.form)
		if err != nil {
			m.status = err.Error()
			return m, nil
		}
		m.apply(tasks, nil, "Saved")
		m.form = nil
		m.mode = modeBoard
		m.input.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}
