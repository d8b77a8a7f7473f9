package home

import (
	"fmt"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/storyreel/internal/ui/theme"
)

const arcadeTitleCompact = "S · T · O · R · Y · R · E · E · L"

// renderTitle returns the styled title block or compact fallback.
func renderTitle(cw int, compact bool) string {
	style := lipgloss.NewStyle().
		Foreground(theme.ArcadeYellow).
		Bold(true)

	title := "STORYREEL"
	if compact {
		title = arcadeTitleCompact
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(style.Render(title)) + "\n" +
		lipgloss.NewStyle().
			Width(cw).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Italic(true).
			Render("now showing")
}

// stats is what the home dashboard summarises.
type stats struct {
	unlocked, achievements int
	visited, scenes        int
	coffee, totalCoffee    int
}

// renderStatsBar renders the dashboard stats in a bordered box matching content width.
func renderStatsBar(s stats, cw int, compact bool) string {
	starStyle := lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true)
	sceneStyle := lipgloss.NewStyle().Foreground(theme.ArcadeCyan).Bold(true)
	coffeeStyle := lipgloss.NewStyle().Foreground(theme.Coffee).Bold(true)

	var text string
	if compact {
		text = fmt.Sprintf("%s %s %s",
			starStyle.Render(fmt.Sprintf("★%d/%d", s.unlocked, s.achievements)),
			sceneStyle.Render(fmt.Sprintf("▣%d/%d", s.visited, s.scenes)),
			coffeeStyle.Render(fmt.Sprintf("☕%d/%d", s.coffee, s.totalCoffee)),
		)
	} else {
		text = fmt.Sprintf("%s  %s  %s",
			starStyle.Render(fmt.Sprintf("★ %d/%d UNLOCKED", s.unlocked, s.achievements)),
			sceneStyle.Render(fmt.Sprintf("▣ %d/%d SCENES", s.visited, s.scenes)),
			coffeeStyle.Render(fmt.Sprintf("☕ %d/%d", s.coffee, s.totalCoffee)),
		)
	}

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.ArcadeCyan).
		Width(cw-2). // account for border chars
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(text)
}

// buttonWidth is the fixed width for menu buttons.
const buttonWidth = 22

// renderMascotBox renders the mascot centered in a box matching content width.
func renderMascotBox(variant MascotVariant, cw int) string {
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(RenderMascot(variant))
}
