package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/abatilo/lanes/internal/board"
)

const minColumnWidth = 18

var (
	columnStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
	activeColumnStyle = columnStyle.BorderForeground(lipgloss.Color("63"))
	titleStyle        = lipgloss.NewStyle().Bold(true)
	selectedStyle     = lipgloss.NewStyle().Reverse(true)
	overdueStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	dimStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

func (m Model) View() string {
	v := m.view()
	now := m.now()
	loc := m.handlers.Location()

	width := minColumnWidth
	if m.width > 0 {
		width = max(m.width/len(v.Columns)-4, minColumnWidth)
	}

	cols := make([]string, len(v.Columns))
	for i, col := range v.Columns {
		var sb strings.Builder
		sb.WriteString(titleStyle.Render(fmt.Sprintf("%s (%d)", col.Title, len(col.Tasks))))
		sb.WriteString("\n")
		if len(col.Tasks) == 0 {
			sb.WriteString(dimStyle.Render("(empty)"))
		}
		for j, t := range col.Tasks {
			text := t.Text
			if i == m.col && j == m.row {
				text = selectedStyle.Render(text)
			}
			if t.Overdue(now) {
				text = overdueStyle.Render("! ") + text
			}
			sb.WriteString("\n" + text + "\n" + dimStyle.Render("due "+board.FormatDate(t.EndDay, loc)))
		}

		style := columnStyle
		if i == m.col {
			style = activeColumnStyle
		}
		cols[i] = style.Width(width).Render(sb.String())
	}

	var out strings.Builder
	if m.term != "" && m.mode != modeSearch {
		out.WriteString(fmt.Sprintf("Search: %q\n", m.term))
	}
	out.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cols...))
	out.WriteString("\n")

	switch m.mode {
	case modeSearch:
		out.WriteString("Search: " + m.input.View() + "\n")
	case modeAdd, modeEdit:
		out.WriteString(m.input.View() + "\n")
	}
	out.WriteString(dimStyle.Render(m.status))
	return out.String()
}
