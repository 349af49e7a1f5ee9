package layout

import (
	"strings"
	"testing"

	"charm.land/lipgloss/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTable(t *testing.T) {
	out := Table([]string{"Slug", "Name"}, [][]string{
		{"alpha", "Alpha Rescue"},
		{"b", "Beta"},
	})
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 4)

	assert.Equal(t, "Slug   Name", stripANSI(lines[0]))
	assert.Equal(t, strings.Repeat("─", 5+2+12), lines[1])
	assert.Equal(t, "alpha  Alpha Rescue", lines[2])
	assert.Equal(t, "b      Beta", lines[3])
}

func TestTable_ShortRows(t *testing.T) {
	out := Table([]string{"A", "B", "C"}, [][]string{{"x"}})
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "x", lines[2])
}

func TestTable_StyledCells(t *testing.T) {
	styled := lipgloss.NewStyle().Bold(true).Render("ok")
	out := Table([]string{"Status", "Name"}, [][]string{{styled, "a"}})
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	assert.Equal(t, "ok      a", stripANSI(lines[2]))
}

// stripANSI removes SGR escape sequences.
func stripANSI(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == 0x1b {
			for i < len(s) && s[i] != 'm' {
				i++
			}
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
