package home

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/storyreel/internal/ui/theme"
)

// MascotVariant selects which projector art to display.
type MascotVariant int

const (
	MascotIdle        MascotVariant = iota // Dark projector, nothing watched yet
	MascotRolling                          // Beam on, story in progress
	MascotCelebrating                      // Gold, every achievement unlocked
)

const mascotIdle = ` ◯ ◯
┌┴─┴──┐
│ ▣▣  ├▷
└─────┘`

const mascotRolling = ` ◉ ◉
┌┴─┴──┐ ░▒▓
│ ▣▣  ├▶▒▓█
└─────┘ ░▒▓`

const mascotCelebrating = ` ★ ★
┌┴─┴──┐ ✦ ✦
│ ▣▣  ├▶ ★
└─────┘ ✦ ✦`

// RenderMascot returns the projector art for the given variant.
func RenderMascot(variant ...MascotVariant) string {
	v := MascotIdle
	if len(variant) > 0 {
		v = variant[0]
	}

	var art string
	var fg = theme.TextDim

	switch v {
	case MascotCelebrating:
		art = mascotCelebrating
		fg = theme.ArcadeYellow
	case MascotRolling:
		art = mascotRolling
		fg = theme.Primary
	default:
		art = mascotIdle
	}

	return lipgloss.NewStyle().
		Foreground(fg).
		Render(art)
}
