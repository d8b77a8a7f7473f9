package onboarding

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/storyreel/internal/ui/theme"
)

const bannerArt = `
 ███████╗████████╗ ██████╗ ██████╗ ██╗   ██╗██████╗ ███████╗███████╗██╗
 ██╔════╝╚══██╔══╝██╔═══██╗██╔══██╗╚██╗ ██╔╝██╔══██╗██╔════╝██╔════╝██║
 ███████╗   ██║   ██║   ██║██████╔╝ ╚████╔╝ ██████╔╝█████╗  █████╗  ██║
 ╚════██║   ██║   ██║   ██║██╔══██╗  ╚██╔╝  ██╔══██╗██╔══╝  ██╔══╝  ██║
 ███████║   ██║   ╚██████╔╝██║  ██║   ██║   ██║  ██║███████╗███████╗███████╗
 ╚══════╝   ╚═╝    ╚═════╝ ╚═╝  ╚═╝   ╚═╝   ╚═╝  ╚═╝╚══════╝╚══════╝╚══════╝`

const bannerCompact = "S T O R Y R E E L"

// RenderBanner returns the STORYREEL banner styled in the primary color.
// Uses a compact fallback for terminals narrower than 78 columns.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < 78 {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
