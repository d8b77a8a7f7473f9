package media

import (
	"context"
	"time"

	"github.com/abhisek/storyreel/internal/sequencer"
)

// VideoElement is the transition video surface the Driver controls.
type VideoElement interface {
	Load(url string)
	Seek(pos time.Duration)
	SetRate(rate float64)
	Play(ctx context.Context) error
	Pause()
	Duration() (time.Duration, bool)

	// Each On* registers a listener and returns a func that detaches it.
	OnMetadata(fn func(time.Duration)) func()
	OnEnded(fn func()) func()
	OnError(fn func(error)) func()
}

// SimulatedVideo is a terminal VideoElement. Its duration comes from
// durationOf, typically the catalog's per-transition length.
type SimulatedVideo struct {
	*simulated
}

var _ VideoElement = (*SimulatedVideo)(nil)

// NewSimulatedVideo returns an unloaded video element driven by clock.
func NewSimulatedVideo(clock sequencer.Clock, durationOf DurationFunc) *SimulatedVideo {
	return &SimulatedVideo{simulated: newSimulated(clock, durationOf)}
}
