package layout

import (
	"strings"
	"testing"

	"charm.land/bubbles/v2/key"
	"github.com/stretchr/testify/assert"
)

func TestHintsSkipDisabledBindings(t *testing.T) {
	next := key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "Next"))
	prev := key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "Previous"))
	prev.SetEnabled(false)

	assert.Equal(t, []KeyHint{{Key: "→", Description: "Next"}}, Hints(prev, next))
}

func TestHeaderShowsBadgeOnlyWithAchievements(t *testing.T) {
	withBadge := RenderHeader(Header{Title: "Story", Unlocked: 2, Total: 7}, 100)
	assert.Contains(t, withBadge, "★ 2/7")
	assert.Contains(t, withBadge, "Story")

	assert.NotContains(t, RenderHeader(Header{Title: "Story"}, 100), "★")
}

func TestFooterDropsHintsThatDoNotFit(t *testing.T) {
	hints := []KeyHint{
		{Key: "→", Description: "Next scene"},
		{Key: "←", Description: "Previous"},
		{Key: "1-9", Description: "Aside"},
		{Key: "Ctrl+C", Description: "Quit"},
	}

	wide := RenderFooter(hints, 120)
	assert.Contains(t, wide, "Aside")

	narrow := RenderFooter(hints, 40)
	assert.Contains(t, narrow, "Quit", "last hint is kept")
	assert.NotContains(t, narrow, "Aside")
}

func TestFrameFillsHeight(t *testing.T) {
	out := RenderFrame("head", "body", "foot", 20, 10)
	assert.Equal(t, 10, strings.Count(out, "\n")+1)
}

func TestIsTooSmall(t *testing.T) {
	assert.True(t, IsTooSmall(MinWidth-1, MinHeight))
	assert.False(t, IsTooSmall(MinWidth, MinHeight))
}
