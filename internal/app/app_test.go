package app

import (
	"context"
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
	"github.com/abhisek/storyreel/internal/router"
	"github.com/abhisek/storyreel/internal/sequencer"
	"github.com/abhisek/storyreel/internal/store"
)

func newSession(t *testing.T) *engine.Session {
	t.Helper()
	clk := sequencer.NewFake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	s := engine.New(engine.Config{
		Catalog:   catalog.Default(),
		Resolver:  assets.NewResolver("https://cdn.test"),
		Clock:     clk,
		Video:     media.NewSimulatedVideo(clk, media.FixedDuration(time.Second)),
		Audio:     media.NewSimulatedAudio(clk, media.FixedDuration(time.Second)),
		Durable:   store.NewMemoryKV(),
		SessionKV: store.NewMemoryKV(),
		Driver:    media.DefaultOptions(),
		Logger:    zap.NewNop(),
	})
	s.Start()
	t.Cleanup(s.Close)
	return s
}

func TestStartsWithOnboardingUntilFlagSet(t *testing.T) {
	flag := store.NewFlag(store.NewMemoryKV(), store.KeyOnboardingComplete)
	m := newAppModel(Options{Session: newSession(t), Onboarding: &flag})
	assert.Equal(t, "", m.router.Active().Title())

	require.NoError(t, flag.Set(context.Background(), true))
	m = newAppModel(Options{Session: newSession(t), Onboarding: &flag})
	assert.Equal(t, "Home", m.router.Active().Title())
}

func TestEscLeavesStoryUnlessAsideOpen(t *testing.T) {
	m := newAppModel(Options{Session: newSession(t)})

	// Play story.
	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	require.NotNil(t, cmd)
	m.Update(cmd())
	require.Equal(t, "Story", m.router.Active().Title())

	// Open the first aside; Esc closes it instead of leaving.
	m.Update(tea.KeyPressMsg{Code: '1', Text: "1"})
	_, cmd = m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	assert.Nil(t, cmd)
	assert.Equal(t, "Story", m.router.Active().Title())

	_, cmd = m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	require.NotNil(t, cmd)
	_, ok := cmd().(router.PopScreenMsg)
	assert.True(t, ok)
}

func TestViewRendersFrame(t *testing.T) {
	m := newAppModel(Options{Session: newSession(t)})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	v := updated.(AppModel).View()
	assert.True(t, v.AltScreen)
}

func TestStartInStoryKeepsHomeBelow(t *testing.T) {
	m := newAppModel(Options{Session: newSession(t), StartInStory: true})
	assert.Equal(t, "Story", m.router.Active().Title())
	assert.Equal(t, 2, m.router.Depth())
}

func TestHeaderCountsCompletedAchievements(t *testing.T) {
	sess := newSession(t)
	m := newAppModel(Options{Session: sess})

	unlocked, total := m.achievementCounts()
	assert.Equal(t, 0, unlocked)
	assert.Equal(t, 7, total)

	_, err := sess.Ledger().Unlock(context.Background(), achievements.FirstSteps)
	require.NoError(t, err)
	unlocked, _ = m.achievementCounts()
	assert.Equal(t, 1, unlocked)
}
