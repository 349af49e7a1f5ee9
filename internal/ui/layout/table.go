// Package layout renders CLI tables.
package layout

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/rtplus/rtplus/internal/ui/theme"
)

// Table renders rows under a styled header with a rule, padding every
// column to its widest cell. Widths ignore ANSI styling.
func Table(header []string, rows [][]string) string {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], lipgloss.Width(cell))
			}
		}
	}

	var b strings.Builder
	b.WriteString(theme.Header.Render(line(header, widths)))
	b.WriteByte('\n')
	total := 0
	for _, w := range widths {
		total += w
	}
	total += 2 * (len(widths) - 1)
	b.WriteString(strings.Repeat("─", max(total, 0)))
	b.WriteByte('\n')
	for _, row := range rows {
		b.WriteString(line(row, widths))
		b.WriteByte('\n')
	}
	return b.String()
}

func line(cells []string, widths []int) string {
	parts := make([]string, len(widths))
	for i := range widths {
		var cell string
		if i < len(cells) {
			cell = cells[i]
		}
		if i == len(widths)-1 {
			parts[i] = cell
			continue
		}
		parts[i] = cell + strings.Repeat(" ", widths[i]-lipgloss.Width(cell))
	}
	return strings.TrimRight(strings.Join(parts, "  "), " ")
}
