package board

import (
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/abatilo/lanes/internal/task"
)

// searchDateLayout is the DD.MM.YYYY form a search term may take.
const searchDateLayout = "02.01.2006"

var searchDatePattern = regexp.MustCompile(`^\d{2}\.\d{2}\.\d{4}$`)

// ColumnView is one column of the derived board.
type ColumnView struct {
	Column
	Tasks []task.Task `json:"tasks"`
}

// View is the board as rendered: one filtered, sorted column per stage.
type View struct {
	Term    string       `json:"search,omitempty"`
	Columns []ColumnView `json:"columns"`
}

// Column returns the view for a stage, or false if the stage is unknown.
func (v View) Column(stage task.Stage) (ColumnView, bool) {
	for _, c := range v.Columns {
		if c.Stage == stage {
			return c, true
		}
	}
	return ColumnView{}, false
}

// Total returns how many tasks are visible across all columns.
func (v View) Total() int {
	n := 0
	for _, c := range v.Columns {
		n += len(c.Tasks)
	}
	return n
}

// Derive partitions tasks into the four columns, keeps those matching term, and
// sorts each column by start day. Tasks with an unknown stage appear nowhere.
func Derive(tasks []task.Task, term string, loc *time.Location) View {
	if loc == nil {
		loc = time.Local
	}
	match := Matcher(term, loc)

	cols := Columns()
	view := View{Term: term, Columns: make([]ColumnView, len(cols))}
	for i, c := range cols {
		view.Columns[i] = ColumnView{Column: c, Tasks: []task.Task{}}
	}

	for _, t := range tasks {
		i := task.StageOrder(t.Type)
		if i < 0 || !match(t) {
			continue
		}
		view.Columns[i].Tasks = append(view.Columns[i].Tasks, t)
	}

	for i := range view.Columns {
		col := view.Columns[i].Tasks
		sort.SliceStable(col, func(a, b int) bool {
			return col[a].StartDay < col[b].StartDay
		})
	}
	return view
}

// Matcher builds the search predicate for term. A term shaped like DD.MM.YYYY
// also matches tasks starting or ending on that calendar day.
func Matcher(term string, loc *time.Location) func(task.Task) bool {
	needle := strings.ToLower(term)
	textMatch := func(t task.Task) bool {
		return strings.Contains(strings.ToLower(t.Text), needle)
	}

	day, ok := ParseSearchDate(term, loc)
	if !ok {
		return textMatch
	}
	return func(t task.Task) bool {
		return textMatch(t) ||
			task.SameDay(t.StartDay, day, loc) ||
			task.SameDay(t.EndDay, day, loc)
	}
}

// Matches reports whether a single task passes the search.
func Matches(t task.Task, term string, loc *time.Location) bool {
	return Matcher(term, loc)(t)
}

// ParseSearchDate recognizes a DD.MM.YYYY term. Impossible dates such as
// 31.02.2024 are not treated as dates.
func ParseSearchDate(term string, loc *time.Location) (time.Time, bool) {
	if !searchDatePattern.MatchString(term) {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.Local
	}
	day, err := time.ParseInLocation(searchDateLayout, term, loc)
	if err != nil {
		return time.Time{}, false
	}
	return day, true
}
