package media

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/abhisek/storyreel/internal/sequencer"
)

func TestSimulatedPlayRequiresSource(t *testing.T) {
	clk := sequencer.NewFake(epoch)
	a := NewSimulatedAudio(clk, FixedDuration(time.Second))
	assert.ErrorIs(t, a.Play(context.Background()), ErrNoSource)
}

func TestSimulatedPlayHonoursContext(t *testing.T) {
	clk := sequencer.NewFake(epoch)
	a := NewSimulatedAudio(clk, FixedDuration(time.Second))
	a.Load("https://cdn.test/narration/scene-001.mp3")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, a.Play(ctx), context.Canceled)
	assert.False(t, a.Playing())
}

func TestSimulatedPauseAndSeek(t *testing.T) {
	clk := sequencer.NewFake(epoch)
	a := NewSimulatedAudio(clk, FixedDuration(3*time.Second))
	ended := 0
	a.OnEnded(func() { ended++ })

	a.Load("https://cdn.test/narration/scene-002.mp3")
	require.NoError(t, a.Play(context.Background()))
	clk.Advance(time.Second)
	assert.Equal(t, time.Second, a.Position())
	assert.InDelta(t, 1.0/3.0, a.Progress(), 0.001)

	a.Pause()
	clk.Advance(time.Second)
	assert.Equal(t, time.Second, a.Position(), "paused playhead does not move")
	assert.False(t, a.Playing())

	a.Seek(time.Minute)
	assert.Equal(t, 3*time.Second, a.Position(), "seek clamps to duration")
	a.Seek(0)

	require.NoError(t, a.Play(context.Background()))
	clk.Advance(3 * time.Second)
	assert.Equal(t, 1, ended)
	assert.Zero(t, clk.Pending())
}

func TestSimulatedLoadResetsMetadata(t *testing.T) {
	clk := sequencer.NewFake(epoch)
	v := NewSimulatedVideo(clk, FixedDuration(2*time.Second))
	var reported []time.Duration
	detach := v.OnMetadata(func(d time.Duration) { reported = append(reported, d) })

	v.Load("a.mp4")
	_, known := v.Duration()
	assert.False(t, known)

	v.Load("b.mp4") // supersedes the first load's pending metadata
	clk.Advance(DefaultMetadataDelay)
	assert.Equal(t, []time.Duration{2 * time.Second}, reported)

	detach()
	v.Load("c.mp4")
	clk.Advance(DefaultMetadataDelay)
	assert.Len(t, reported, 1, "detached listener not called")
}

func TestCachedProbeFallback(t *testing.T) {
	ctx := context.Background()
	junk := filepath.Join(t.TempDir(), "scene-001.txt")
	require.NoError(t, os.WriteFile(junk, []byte("not audio"), 0o644))

	lookup := func(url string) (string, bool) {
		if url == "cached" {
			return junk, true
		}
		return "", false
	}
	probe := CachedProbe(lookup, 7*time.Second, zap.NewNop())

	d, err := probe(ctx, "missing")
	require.NoError(t, err)
	assert.Equal(t, 7*time.Second, d)

	d, err = probe(ctx, "cached")
	require.NoError(t, err)
	assert.Equal(t, 7*time.Second, d, "unreadable file falls back")

	_, err = ProbeDuration(ctx, filepath.Join(t.TempDir(), "nope.mp3"))
	assert.Error(t, err)
}

func TestTableDuration(t *testing.T) {
	ctx := context.Background()
	durationOf := TableDuration(map[string]time.Duration{
		"a.mp4": 5 * time.Second,
		"b.mp4": 0,
	}, 3*time.Second)

	tests := []struct {
		url  string
		want time.Duration
	}{
		{"a.mp4", 5 * time.Second},
		{"b.mp4", 3 * time.Second},
		{"c.mp4", 3 * time.Second},
	}
	for _, tt := range tests {
		d, err := durationOf(ctx, tt.url)
		require.NoError(t, err)
		assert.Equal(t, tt.want, d, tt.url)
	}
}
