package story

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/abhisek/storyreel/internal/achievements"
	"github.com/abhisek/storyreel/internal/assets"
	"github.com/abhisek/storyreel/internal/catalog"
	"github.com/abhisek/storyreel/internal/engine"
	"github.com/abhisek/storyreel/internal/media"
	"github.com/abhisek/storyreel/internal/sequencer"
	"github.com/abhisek/storyreel/internal/store"
)

var epoch = time.Date(2026, 6, 1, 20, 0, 0, 0, time.UTC)

func newTestScreen(t *testing.T) (*StoryScreen, *engine.Session, *sequencer.Fake) {
	t.Helper()
	cat, err := catalog.New([]catalog.Scene{
		{Title: "Opening", Asides: []catalog.Aside{{ID: "letter", Title: "The letter", Story: "It was never sent."}}, Coffee: []string{"mug"}},
		{Title: "Middle"},
		{Title: "Finale"},
	})
	require.NoError(t, err)

	clk := sequencer.NewFake(epoch)
	sess := engine.New(engine.Config{
		Catalog:   cat,
		Resolver:  assets.NewResolver("https://cdn.test"),
		Clock:     clk,
		Video:     media.NewSimulatedVideo(clk, media.FixedDuration(time.Second)),
		Audio:     media.NewSimulatedAudio(clk, media.FixedDuration(10*time.Second)),
		Durable:   store.NewMemoryKV(),
		SessionKV: store.NewMemoryKV(),
		Driver:    media.DefaultOptions(),
		Logger:    zap.NewNop(),
	})
	sess.Start()
	t.Cleanup(sess.Close)

	s := New(sess, nil)
	s.now = clk.Now
	return s, sess, clk
}

func press(s *StoryScreen, k tea.KeyPressMsg) {
	s.Update(k)
}

func runeKey(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func TestArrowsDriveTransitions(t *testing.T) {
	s, sess, clk := newTestScreen(t)

	press(s, tea.KeyPressMsg{Code: tea.KeyRight})
	require.True(t, sess.Snapshot().Transitioning)
	assert.Contains(t, s.View(100, 30), "1 → 2")

	clk.Advance(time.Second)
	assert.Equal(t, 2, sess.Snapshot().Current)

	press(s, tea.KeyPressMsg{Code: tea.KeyLeft})
	clk.Advance(time.Minute)
	assert.Equal(t, 1, sess.Snapshot().Current)

	press(s, tea.KeyPressMsg{Code: tea.KeyLeft})
	assert.Equal(t, "This is where the story starts.", s.status)
}

func TestAsideOverlay(t *testing.T) {
	s, sess, _ := newTestScreen(t)

	press(s, runeKey('1'))
	require.NotNil(t, s.aside)
	assert.True(t, s.HandlesBack())
	assert.Contains(t, s.View(100, 30), "It was never sent.")
	assert.True(t, sess.Ledger().Found(context.Background(), 1, "letter"))

	rec, err := sess.Ledger().Get(context.Background(), achievements.FirstAside)
	require.NoError(t, err)
	assert.True(t, rec.Completed)

	press(s, tea.KeyPressMsg{Code: tea.KeyRight})
	assert.False(t, sess.Snapshot().Transitioning, "navigation is blocked while an aside is open")

	press(s, tea.KeyPressMsg{Code: tea.KeyEscape})
	assert.Nil(t, s.aside)
	assert.False(t, s.HandlesBack())
}

func TestAsideOutOfRangeIgnored(t *testing.T) {
	s, _, _ := newTestScreen(t)
	press(s, runeKey('5'))
	assert.Nil(t, s.aside)
}

func TestCoffeeSearch(t *testing.T) {
	s, sess, _ := newTestScreen(t)

	press(s, runeKey('c'))
	assert.Contains(t, s.status, "mug")
	assert.True(t, sess.Ledger().Found(context.Background(), 1, "mug"))

	press(s, runeKey('c'))
	assert.Equal(t, "No coffee hiding here.", s.status)
}

func TestToastShowsUnlock(t *testing.T) {
	s, sess, clk := newTestScreen(t)

	sess.Advance()
	clk.Advance(time.Second)

	view := s.View(100, 30)
	assert.Contains(t, view, "Achievement unlocked")

	_, cmd := s.Update(frameMsg(clk.Now()))
	assert.NotNil(t, cmd, "frames keep ticking")
}

func TestKeyHintsFollowBounds(t *testing.T) {
	s, _, _ := newTestScreen(t)

	var keys []string
	for _, h := range s.KeyHints() {
		keys = append(keys, h.Key)
	}
	joined := strings.Join(keys, " ")
	assert.Contains(t, joined, "→")
	assert.NotContains(t, joined, "←", "no previous scene at the start")
}
