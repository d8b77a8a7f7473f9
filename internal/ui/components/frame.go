package components

import (
	"image/color"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/storyreel/internal/ui/theme"
)

const (
	minContentWidth = 24
	maxContentWidth = 64
)

// ContentWidth returns the inner width every section inside a Marquee
// renders at, so stacked boxes line up.
func ContentWidth(frameWidth int) int {
	// double border (2) + inner padding (4)
	return min(max(frameWidth-6, minContentWidth), maxContentWidth)
}

// Marquee wraps content in the double-bordered screen frame, centered in
// width x height.
func Marquee(content string, width, height int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Primary).
		Width(width-2).
		Height(height-2).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}

// Card wraps content in a rounded card at content width cw. A nil accent
// uses the neutral border color.
func Card(content string, cw int, accent color.Color) string {
	if accent == nil {
		accent = theme.Border
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accent).
		Width(cw-2).
		Align(lipgloss.Center).
		Padding(1, 2).
		Render(content)
}

// ButtonState selects how a Button renders.
type ButtonState int

const (
	ButtonIdle ButtonState = iota
	ButtonSelected
	ButtonDisabled
)

// Button renders a bordered, fixed-width menu button.
func Button(label string, state ButtonState, width int) string {
	style := lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1)

	switch state {
	case ButtonSelected:
		return style.Bold(true).
			Foreground(theme.BgDark).
			Background(theme.ArcadeYellow).
			BorderForeground(theme.ArcadeYellow).
			Render("▸ " + label)
	case ButtonDisabled:
		return style.Foreground(theme.TextDim).BorderForeground(theme.Border).Faint(true).Render(label)
	default:
		return style.Foreground(theme.Text).BorderForeground(theme.Border).Render(label)
	}
}
