package media

import (
	"context"
	"fmt"
	"time"

	"github.com/simonhull/audiometa"
	"go.uber.org/zap"

	"github.com/abhisek/storyreel/internal/sequencer"
)

// SimulatedAudio is a terminal narration track. It plays silently for the
// track's duration so the UI can show what is being narrated.
type SimulatedAudio struct {
	*simulated
}

// NewSimulatedAudio returns an unloaded audio element driven by clock.
func NewSimulatedAudio(clock sequencer.Clock, durationOf DurationFunc) *SimulatedAudio {
	return &SimulatedAudio{simulated: newSimulated(clock, durationOf)}
}

// ProbeDuration reads the playable length of a local audio file.
func ProbeDuration(ctx context.Context, path string) (time.Duration, error) {
	file, err := audiometa.OpenContext(ctx, path)
	if err != nil {
		return 0, fmt.Errorf("open audio %s: %w", path, err)
	}
	defer file.Close() //nolint:errcheck // read-only handle

	if file.Audio.Duration <= 0 {
		return 0, fmt.Errorf("audio %s: no duration in stream", path)
	}
	return file.Audio.Duration, nil
}

// CachedProbe returns a DurationFunc that probes the locally cached copy of
// a track. Uncached or unreadable tracks report fallback.
func CachedProbe(lookup func(url string) (string, bool), fallback time.Duration, logger *zap.Logger) DurationFunc {
	return func(ctx context.Context, url string) (time.Duration, error) {
		if lookup == nil {
			return fallback, nil
		}
		path, ok := lookup(url)
		if !ok {
			return fallback, nil
		}
		d, err := ProbeDuration(ctx, path)
		if err != nil {
			logger.Debug("narration probe failed, using fallback",
				zap.String("url", url),
				zap.Duration("fallback", fallback),
				zap.Error(err))
			return fallback, nil
		}
		return d, nil
	}
}
