// Package layout draws the chrome around every screen: header, footer and
// the too-small fallback.
package layout

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/key"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/storyreel/internal/ui/theme"
)

const (
	MinWidth  = 80
	MinHeight = 24
)

// KeyHint represents a key binding hint shown in the footer.
type KeyHint struct {
	Key         string
	Description string
}

// Hints converts the enabled bindings to footer hints, in order.
func Hints(bindings ...key.Binding) []KeyHint {
	out := make([]KeyHint, 0, len(bindings))
	for _, b := range bindings {
		if !b.Enabled() {
			continue
		}
		h := b.Help()
		out = append(out, KeyHint{Key: h.Key, Description: h.Desc})
	}
	return out
}

// IsTooSmall returns true if the terminal is below minimum size.
func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

// RenderMinSizeMessage renders the "terminal too small" message.
func RenderMinSizeMessage(width, height int) string {
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.Text).
		Render(fmt.Sprintf(
			"The reel needs more room.\n\nResize to at least %d x %d\n(currently %d x %d)",
			MinWidth, MinHeight, width, height,
		))
}

// Header is what the top bar shows.
type Header struct {
	Title string

	// Unlocked and Total are achievement counts; the badge is hidden when
	// Total is zero.
	Unlocked int
	Total    int
}

func bar(content string, width int) string {
	return lipgloss.NewStyle().
		Width(width).
		Background(theme.BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Render(content)
}

// RenderHeader draws the brand on the left, the title centered and the
// achievement badge on the right.
func RenderHeader(h Header, width int) string {
	left := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("  ▶ Storyreel")
	center := lipgloss.NewStyle().Foreground(theme.Text).Render(h.Title)
	right := ""
	if h.Total > 0 {
		right = lipgloss.NewStyle().Foreground(theme.ArcadeYellow).
			Render(fmt.Sprintf("★ %d/%d  ", h.Unlocked, h.Total))
	}

	inner := max(width-4, 0)
	lw, cw, rw := lipgloss.Width(left), lipgloss.Width(center), lipgloss.Width(right)
	leftGap := max((inner-cw)/2-lw, 1)
	rightGap := max(inner-lw-leftGap-cw-rw, 1)

	return bar(left+strings.Repeat(" ", leftGap)+center+strings.Repeat(" ", rightGap)+right, width)
}

// RenderFooter lists key hints left to right, dropping the ones that no
// longer fit. The last hint is always kept.
func RenderFooter(hints []KeyHint, width int) string {
	const sep = "   "
	parts := make([]string, 0, len(hints))
	for _, h := range hints {
		parts = append(parts,
			lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(h.Key)+" "+
				lipgloss.NewStyle().Foreground(theme.TextDim).Render(h.Description))
	}

	inner := width - 6
	for len(parts) > 1 && lipgloss.Width(strings.Join(parts, sep)) > inner {
		parts = append(parts[:len(parts)-2], parts[len(parts)-1])
	}
	return bar("  "+strings.Join(parts, sep), width)
}

// RenderFrame stacks header, content and footer, giving the content all
// the height the bars leave.
func RenderFrame(header, content, footer string, width, height int) string {
	contentHeight := max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	body := lipgloss.NewStyle().Width(width).Height(contentHeight).Render(content)
	return header + "\n" + body + "\n" + footer
}
