package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/abhisek/storyreel/internal/achievements"
	"github.com/abhisek/storyreel/internal/assets"
	"github.com/abhisek/storyreel/internal/catalog"
	"github.com/abhisek/storyreel/internal/media"
	"github.com/abhisek/storyreel/internal/sequencer"
	"github.com/abhisek/storyreel/internal/store"
	"github.com/abhisek/storyreel/internal/transition"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var epoch = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

// countingAudio wraps the simulated narration track and counts starts per URL.
type countingAudio struct {
	*media.SimulatedAudio
	starts map[string]int
}

func (a *countingAudio) Play(ctx context.Context) error {
	if err := a.SimulatedAudio.Play(ctx); err != nil {
		return err
	}
	a.starts[a.URL()]++
	return nil
}

type recordingPreloader struct{ targets []int }

func (p *recordingPreloader) Target(next int) { p.targets = append(p.targets, next) }

type harness struct {
	session   *Session
	clock     *sequencer.Fake
	video     *media.SimulatedVideo
	audio     *countingAudio
	preloader *recordingPreloader
	durable   *store.MemoryKV
}

const transitionLength = 2 * time.Second

func newHarness(t *testing.T, scenes int) *harness {
	t.Helper()
	var list []catalog.Scene
	for i := 0; i < scenes; i++ {
		list = append(list, catalog.Scene{Title: "scene"})
	}
	cat, err := catalog.New(list)
	require.NoError(t, err)

	clk := sequencer.NewFake(epoch)
	h := &harness{
		clock:     clk,
		video:     media.NewSimulatedVideo(clk, media.FixedDuration(transitionLength)),
		audio:     &countingAudio{SimulatedAudio: media.NewSimulatedAudio(clk, media.FixedDuration(30*time.Second)), starts: map[string]int{}},
		preloader: &recordingPreloader{},
		durable:   store.NewMemoryKV(),
	}
	h.session = New(Config{
		Catalog:   cat,
		Resolver:  assets.NewResolver("https://cdn.test"),
		Clock:     clk,
		Video:     h.video,
		Audio:     h.audio,
		Durable:   h.durable,
		SessionKV: store.NewMemoryKV(),
		SessionID: "sess-1",
		Preloader: h.preloader,
		Driver:    media.DefaultOptions(),
		Logger:    zap.NewNop(),
	})
	h.session.Start()
	t.Cleanup(h.session.Close)
	return h
}

func idle(scene int, s transition.State) bool {
	return !s.Transitioning && s.Current == scene
}

func TestScenarioForwardThenBack(t *testing.T) {
	h := newHarness(t, 3)
	s := h.session

	require.True(t, s.Advance())
	st := s.Snapshot()
	assert.True(t, st.Transitioning)
	assert.Equal(t, 1, st.From())
	assert.Equal(t, 2, st.To())
	assert.Equal(t, transition.Forward, st.Direction)

	h.clock.Advance(transitionLength)
	assert.True(t, idle(2, s.Snapshot()), "video ended, state %+v", s.Snapshot())

	require.True(t, s.Retreat())
	st = s.Snapshot()
	assert.Equal(t, 2, st.From())
	assert.Equal(t, 1, st.To())
	assert.Equal(t, transition.Reverse, st.Direction)

	h.clock.Advance(media.DefaultMetadataDelay + transitionLength)
	assert.True(t, idle(1, s.Snapshot()), "state %+v", s.Snapshot())

	assert.Equal(t, map[string]int{"https://cdn.test/narration/scene-002.mp3": 1}, h.audio.starts,
		"scene 2 narrates once, on the forward leg only")
	assert.Equal(t, []int{2, 3, 2}, h.preloader.targets)
	assert.Equal(t, 1, h.session.Driver().Background())
}

func TestDoubleAdvanceMovesOnce(t *testing.T) {
	h := newHarness(t, 4)

	assert.True(t, h.session.Advance())
	assert.False(t, h.session.Advance())
	h.clock.Advance(time.Minute)

	assert.True(t, idle(2, h.session.Snapshot()))
}

func TestNarrationNotReplayedOnRevisit(t *testing.T) {
	h := newHarness(t, 3)
	s := h.session

	s.Advance()
	h.clock.Advance(transitionLength)
	s.Retreat()
	h.clock.Advance(media.DefaultMetadataDelay + transitionLength)
	s.Advance()
	h.clock.Advance(transitionLength)

	require.True(t, idle(2, s.Snapshot()))
	assert.Equal(t, 1, h.audio.starts["https://cdn.test/narration/scene-002.mp3"])
}

func TestReverseSilencesNarration(t *testing.T) {
	h := newHarness(t, 3)
	s := h.session

	s.Advance()
	h.clock.Advance(transitionLength)
	require.True(t, h.audio.Playing(), "30s narration outlives the 2s transition")

	s.Retreat()
	assert.False(t, h.audio.Playing())
	assert.Equal(t, time.Duration(0), h.audio.Position())
}

func TestBlockedVideoDoesNotWedge(t *testing.T) {
	h := newHarness(t, 3)
	h.video.Block(media.ErrPlaybackBlocked)

	require.True(t, h.session.Advance())
	assert.True(t, idle(2, h.session.Snapshot()), "completion forced on play rejection")
	assert.True(t, h.session.Advance())
}

func TestArrivalFeedsLedger(t *testing.T) {
	h := newHarness(t, 2)
	ctx := context.Background()

	rec, err := h.session.Ledger().Get(ctx, achievements.Explorer)
	require.NoError(t, err)
	assert.Equal(t, 1, rec.Progress, "initial scene counts as visited")

	h.session.Advance()
	h.clock.Advance(transitionLength)

	for _, id := range []string{achievements.FirstSteps, achievements.TheEnd, achievements.Explorer} {
		rec, err := h.session.Ledger().Get(ctx, id)
		require.NoError(t, err)
		assert.True(t, rec.Completed, "%s", id)
	}
	_, ok := h.session.Notifications().Active(h.clock.Now())
	assert.True(t, ok)
}

func TestTransitionProgress(t *testing.T) {
	h := newHarness(t, 3)
	assert.Zero(t, h.session.TransitionProgress())

	h.session.Advance()
	h.clock.Advance(time.Second)
	assert.InDelta(t, 0.5, h.session.TransitionProgress(), 0.01)
}

func TestCloseStopsCallbacks(t *testing.T) {
	h := newHarness(t, 3)
	var changes int
	h.session.Subscribe(func(transition.State) { changes++ })

	h.session.Advance()
	h.session.Close()
	h.clock.Advance(time.Minute)

	assert.Equal(t, 1, changes)
	assert.True(t, h.session.Snapshot().Transitioning)
	assert.False(t, h.audio.Playing())
}
