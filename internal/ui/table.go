package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// RenderTable builds a formatted table string using lipgloss.
// When color is true, headers are styled and borders are rendered with color.
// When color is false, a plain ASCII table is produced.
func RenderTable(headers []string, rows [][]string, color bool) string {
	t := table.New().
		Headers(headers...).
		Rows(rows...).
		Border(lipgloss.NormalBorder()).
		BorderRow(false).
		BorderColumn(true).
		BorderHeader(true)

	if color {
		headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7c3aed"))
		cellStyle := lipgloss.NewStyle()

		t.StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	}

	return t.Render()
}

// RenderKeyValues renders aligned "key  value" lines. Keys are bold when
// color is true.
func RenderKeyValues(pairs [][2]string, color bool) string {
	width := 0
	for _, kv := range pairs {
		width = max(width, lipgloss.Width(kv[0]))
	}

	keyStyle := lipgloss.NewStyle().Width(width + 2)
	if color {
		keyStyle = keyStyle.Bold(true)
	}

	lines := make([]string, len(pairs))
	for i, kv := range pairs {
		lines[i] = lipgloss.JoinHorizontal(lipgloss.Top, keyStyle.Render(kv[0]), kv[1])
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
