package output

import (
	"fmt"
	"strings"
	"time"

	"github.com/abatilo/lanes/internal/board"
	"github.com/abatilo/lanes/internal/task"
)

const humanDate = "2006-01-02"

// HumanFormatter formats output for human-readable terminal display.
type HumanFormatter struct {
	loc *time.Location
}

// NewHumanFormatter creates a new HumanFormatter showing dates in loc.
func NewHumanFormatter(loc *time.Location) *HumanFormatter {
	if loc == nil {
		loc = time.Local
	}
	return &HumanFormatter{loc: loc}
}

func (f *HumanFormatter) date(ms int64, now time.Time) string {
	return task.ValidTime(ms, now).In(f.loc).Format(humanDate)
}

// FormatTask formats a single task for display.
func (f *HumanFormatter) FormatTask(t task.Task, now time.Time) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "[%d] %s\n", t.ID, t.Text)
	fmt.Fprintf(&sb, "  Stage:  %s\n", f.stageTitle(t.Type))
	fmt.Fprintf(&sb, "  Start:  %s\n", f.date(t.StartDay, now))
	fmt.Fprintf(&sb, "  End:    %s\n", f.date(t.EndDay, now))
	if t.Overdue(now) {
		sb.WriteString("  Overdue\n")
	}

	return sb.String()
}

// FormatBoard prints each column with its tasks in display order.
func (f *HumanFormatter) FormatBoard(v board.View, now time.Time) string {
	var sb strings.Builder

	if v.Term != "" {
		fmt.Fprintf(&sb, "Search: %q (%d match", v.Term, v.Total())
		if v.Total() != 1 {
			sb.WriteString("es")
		}
		sb.WriteString(")\n\n")
	}

	for i, col := range v.Columns {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "%s (%d)\n", col.Title, len(col.Tasks))
		if len(col.Tasks) == 0 {
			sb.WriteString("  (empty)\n")
			continue
		}
		for _, t := range col.Tasks {
			sb.WriteString(f.formatTaskLine(t, now))
		}
	}

	return sb.String()
}

// formatTaskLine formats a single task as a compact one-liner.
func (f *HumanFormatter) formatTaskLine(t task.Task, now time.Time) string {
	mark := "  "
	if t.Overdue(now) {
		mark = "! "
	}
	return fmt.Sprintf("%s[%d] %s  %s -> %s\n",
		mark, t.ID, t.Text, f.date(t.StartDay, now), f.date(t.EndDay, now))
}

// FormatStages lists the columns and the gestures each accepts.
func (f *HumanFormatter) FormatStages(cols []board.Column) string {
	var sb strings.Builder
	for _, c := range cols {
		var caps []string
		if c.Editable {
			caps = append(caps, "edit")
		}
		if c.CanAdd {
			caps = append(caps, "add")
		}
		if c.CanClear {
			caps = append(caps, "clear")
		}
		line := fmt.Sprintf("%-12s %s", c.Stage, c.Title)
		if len(caps) > 0 {
			line += "  [" + strings.Join(caps, ", ") + "]"
		}
		sb.WriteString(line + "\n")
	}
	return sb.String()
}

func (f *HumanFormatter) stageTitle(s task.Stage) string {
	if c, ok := board.ColumnFor(s); ok {
		return c.Title
	}
	return string(s) + " (unknown)"
}

// FormatError formats an error for display.
func (f *HumanFormatter) FormatError(err error) string {
	return fmt.Sprintf("Error: %s\n", err.Error())
}

// FormatMessage formats a simple message.
func (f *HumanFormatter) FormatMessage(msg string) string {
	return msg + "\n"
}
