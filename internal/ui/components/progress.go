package components

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/storyreel/internal/ui/theme"
)

const (
	barFilled = "━"
	barEmpty  = "─"
	barHead   = "●"
)

// ProgressBar is a one-line playhead: a label, a track and an optional
// percentage.
type ProgressBar struct {
	Label       string
	Percent     float64
	ShowPercent bool
	Width       int

	// Fill colors the played part of the track. Defaults to theme.Secondary.
	Fill color.Color
}

// NewProgressBar creates a progress bar filled in the theme's secondary color.
func NewProgressBar(label string, percent float64, showPercent bool, width int) ProgressBar {
	return ProgressBar{
		Label:       label,
		Percent:     percent,
		ShowPercent: showPercent,
		Width:       width,
	}
}

// WithFill returns a copy of the bar using c for the played part.
func (p ProgressBar) WithFill(c color.Color) ProgressBar {
	p.Fill = c
	return p
}

func (p ProgressBar) View() string {
	var b strings.Builder
	if p.Label != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Render(p.Label))
		b.WriteString("  ")
	}

	pct := min(max(p.Percent, 0), 1)
	suffix := ""
	if p.ShowPercent {
		suffix = fmt.Sprintf("  %3d%%", int(pct*100))
	}

	track := max(p.Width-lipgloss.Width(b.String())-lipgloss.Width(suffix), 4)
	played := int(float64(track-1) * pct)

	fill := p.Fill
	if fill == nil {
		fill = theme.Secondary
	}
	b.WriteString(lipgloss.NewStyle().Foreground(fill).Render(strings.Repeat(barFilled, played) + barHead))
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat(barEmpty, track-1-played)))
	if suffix != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render(suffix))
	}
	return b.String()
}
