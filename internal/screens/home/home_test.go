package home

import (
	"context"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/storyreel/internal/achievements"
	"github.com/abhisek/storyreel/internal/catalog"
	"github.com/abhisek/storyreel/internal/router"
	"github.com/abhisek/storyreel/internal/screen"
	"github.com/abhisek/storyreel/internal/store"
)

type stubScreen struct{ title string }

func (s *stubScreen) Init() tea.Cmd                           { return nil }
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                    { return s.title }
func (s *stubScreen) Title() string                           { return s.title }

func newHome(t *testing.T, events store.EventRepo) (*HomeScreen, *achievements.Ledger) {
	t.Helper()
	cat := catalog.Default()
	ledger := achievements.NewLedger(achievements.Options{Catalog: cat, KV: store.NewMemoryKV()})
	h := New(Options{
		Catalog: cat,
		Ledger:  ledger,
		Events:  events,
		Story:   func() screen.Screen { return &stubScreen{title: "Story"} },
	})
	return h, ledger
}

func pushed(t *testing.T, cmd tea.Cmd) screen.Screen {
	t.Helper()
	require.NotNil(t, cmd)
	msg, ok := cmd().(router.PushScreenMsg)
	require.True(t, ok, "expected PushScreenMsg")
	return msg.Screen
}

func TestPlayPushesStory(t *testing.T) {
	h, _ := newHome(t, nil)
	_, cmd := h.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	assert.Equal(t, "Story", pushed(t, cmd).Title())
}

func TestAchievementsEntry(t *testing.T) {
	h, _ := newHome(t, nil)
	h.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	_, cmd := h.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	assert.Equal(t, "Achievements", pushed(t, cmd).Title())
}

func TestHistoryDisabledWithoutEvents(t *testing.T) {
	h, _ := newHome(t, nil)
	h.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	h.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	assert.Equal(t, 3, h.menu.Selected, "history is skipped")
}

func TestFreshLedgerHasNothingUnlocked(t *testing.T) {
	h, _ := newHome(t, nil)
	st := h.stats()
	assert.Equal(t, 0, st.unlocked)
	assert.Equal(t, 7, st.achievements)
	assert.Contains(t, h.View(120, 40), "0/7 UNLOCKED")
}

func TestStatsReflectLedger(t *testing.T) {
	h, ledger := newHome(t, nil)
	ctx := context.Background()
	require.NoError(t, ledger.MarkSceneVisited(ctx, 1))
	require.NoError(t, ledger.MarkSceneVisited(ctx, 2))
	require.NoError(t, ledger.MarkCoffeeFound(ctx, 1, "mug"))

	st := h.stats()
	assert.Equal(t, 7, st.scenes)
	assert.Equal(t, 2, st.visited)
	assert.Equal(t, 1, st.coffee)
	assert.Equal(t, 1, st.unlocked, "first steps")
	assert.Equal(t, MascotRolling, mascotFor(st))

	assert.True(t, strings.Contains(h.View(120, 40), "2/7 SCENES"))
}
