package components

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/playlens/internal/ui/theme"
)

// CountBar displays a labelled horizontal bar scaled against a maximum.
type CountBar struct {
	Label string
	Count int
	Max   int
	Width int
	Color color.Color
}

// View renders the bar.
func (c CountBar) View() string {
	label := lipgloss.NewStyle().Foreground(theme.Text).Width(30).Render(c.Label)
	count := lipgloss.NewStyle().Foreground(theme.TextDim).Render(fmt.Sprintf("  %d", c.Count))

	barWidth := c.Width - lipgloss.Width(label) - lipgloss.Width(count)
	if barWidth < 4 {
		barWidth = 4
	}

	filled := 0
	if c.Max > 0 {
		filled = barWidth * c.Count / c.Max
	}
	if filled > barWidth {
		filled = barWidth
	}
	if filled < 0 {
		filled = 0
	}

	fill := c.Color
	if fill == nil {
		fill = theme.Secondary
	}
	bar := lipgloss.NewStyle().Background(fill).Render(strings.Repeat(" ", filled)) +
		lipgloss.NewStyle().Background(theme.Border).Render(strings.Repeat(" ", barWidth-filled))

	return label + bar + count
}
