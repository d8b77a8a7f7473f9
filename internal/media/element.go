// Package media drives the transition video and narration audio. The
// terminal has no real decoder, so elements are simulated: they load a URL,
// learn its duration asynchronously and advance a playhead on clock ticks.
package media

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/abhisek/storyreel/internal/sequencer"
)

const (
	// DefaultTick is how often a playing element moves its playhead.
	DefaultTick = 100 * time.Millisecond

	// DefaultMetadataDelay is how long an element takes to report its duration after Load.
	DefaultMetadataDelay = 50 * time.Millisecond
)

var (
	// ErrPlaybackBlocked is returned by Play when the element refuses to start.
	ErrPlaybackBlocked = errors.New("media: playback blocked")

	// ErrNoSource is returned by Play before any URL has been loaded.
	ErrNoSource = errors.New("media: no source loaded")
)

// DurationFunc reports the playable length of the media at url.
type DurationFunc func(ctx context.Context, url string) (time.Duration, error)

// FixedDuration returns a DurationFunc that reports d for every URL.
func FixedDuration(d time.Duration) DurationFunc {
	return func(context.Context, string) (time.Duration, error) { return d, nil }
}

// TableDuration looks url up in table and reports fallback for unknown URLs.
func TableDuration(table map[string]time.Duration, fallback time.Duration) DurationFunc {
	return func(_ context.Context, url string) (time.Duration, error) {
		if d, ok := table[url]; ok && d > 0 {
			return d, nil
		}
		return fallback, nil
	}
}

type hook[F any] struct {
	id int
	fn F
}

// hooks is an ordered listener list. Callers hold the owning element's lock.
type hooks[F any] struct {
	next int
	list []hook[F]
}

func (h *hooks[F]) add(fn F) int {
	h.next++
	h.list = append(h.list, hook[F]{id: h.next, fn: fn})
	return h.next
}

func (h *hooks[F]) remove(id int) {
	for i, e := range h.list {
		if e.id == id {
			h.list = append(h.list[:i:i], h.list[i+1:]...)
			return
		}
	}
}

func (h *hooks[F]) snapshot() []F {
	out := make([]F, len(h.list))
	for i, e := range h.list {
		out[i] = e.fn
	}
	return out
}

// simulated is the playhead shared by SimulatedVideo and SimulatedAudio.
type simulated struct {
	clock         sequencer.Clock
	tick          time.Duration
	metadataDelay time.Duration
	durationOf    DurationFunc

	mu        sync.Mutex
	url       string
	loadGen   uint64
	playGen   uint64
	duration  time.Duration
	known     bool
	pos       time.Duration
	rate      float64
	playing   bool
	playErr   error
	timer     sequencer.Timer
	metaTimer sequencer.Timer

	onMeta  hooks[func(time.Duration)]
	onEnded hooks[func()]
	onError hooks[func(error)]
}

func newSimulated(clock sequencer.Clock, durationOf DurationFunc) *simulated {
	if durationOf == nil {
		durationOf = FixedDuration(0)
	}
	return &simulated{
		clock:         clock,
		tick:          DefaultTick,
		metadataDelay: DefaultMetadataDelay,
		durationOf:    durationOf,
		rate:          1,
	}
}

// Load points the element at url, stopping any current playback. The
// duration becomes known after the metadata delay.
func (s *simulated) Load(url string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopLocked()
	if s.metaTimer != nil {
		s.metaTimer.Stop()
	}
	s.loadGen++
	gen := s.loadGen
	s.url = url
	s.pos = 0
	s.rate = 1
	s.known = false
	s.duration = 0
	s.metaTimer = s.clock.AfterFunc(s.metadataDelay, func() { s.resolve(gen, url) })
}

func (s *simulated) resolve(gen uint64, url string) {
	d, err := s.durationOf(context.Background(), url)

	s.mu.Lock()
	if gen != s.loadGen {
		s.mu.Unlock()
		return
	}
	s.metaTimer = nil
	if err != nil {
		fns := s.onError.snapshot()
		s.mu.Unlock()
		for _, fn := range fns {
			fn(err)
		}
		return
	}
	s.duration = d
	s.known = true
	if s.pos > d {
		s.pos = d
	}
	fns := s.onMeta.snapshot()
	s.mu.Unlock()

	for _, fn := range fns {
		fn(d)
	}
}

// Play starts moving the playhead at the current rate.
func (s *simulated) Play(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.playErr != nil {
		return s.playErr
	}
	if s.url == "" {
		return ErrNoSource
	}
	if s.playing {
		return nil
	}
	s.playing = true
	s.playGen++
	s.scheduleLocked(s.playGen)
	return nil
}

func (s *simulated) scheduleLocked(gen uint64) {
	s.timer = s.clock.AfterFunc(s.tick, func() { s.step(gen) })
}

func (s *simulated) step(gen uint64) {
	s.mu.Lock()
	if gen != s.playGen || !s.playing {
		s.mu.Unlock()
		return
	}

	s.pos += time.Duration(float64(s.tick) * s.rate)
	ended := false
	switch {
	case s.pos <= 0 && s.rate < 0:
		s.pos = 0
		ended = true
	case s.pos < 0:
		s.pos = 0
	case s.known && s.rate > 0 && s.pos >= s.duration:
		s.pos = s.duration
		ended = true
	}

	if !ended {
		s.scheduleLocked(gen)
		s.mu.Unlock()
		return
	}

	s.playing = false
	s.timer = nil
	fns := s.onEnded.snapshot()
	s.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

// Pause stops the playhead where it is.
func (s *simulated) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

func (s *simulated) stopLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.playing = false
	s.playGen++
}

// Seek moves the playhead, clamped to the known duration.
func (s *simulated) Seek(pos time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if pos < 0 {
		pos = 0
	}
	if s.known && pos > s.duration {
		pos = s.duration
	}
	s.pos = pos
}

// SetRate sets the playback rate. Negative rates play backwards.
func (s *simulated) SetRate(rate float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rate = rate
}

// Duration returns the media length once metadata has arrived.
func (s *simulated) Duration() (time.Duration, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.duration, s.known
}

func (s *simulated) Position() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pos
}

// Progress returns the playhead as a fraction of the duration, 0 when unknown.
func (s *simulated) Progress() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.known || s.duration <= 0 {
		return 0
	}
	return float64(s.pos) / float64(s.duration)
}

func (s *simulated) Playing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playing
}

func (s *simulated) URL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.url
}

// Block makes every later Play call fail with err. A nil err unblocks.
func (s *simulated) Block(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.playErr = err
}

// OnMetadata registers fn for duration reports. The returned func detaches it.
func (s *simulated) OnMetadata(fn func(time.Duration)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.onMeta.add(fn)
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.onMeta.remove(id)
	}
}

func (s *simulated) OnEnded(fn func()) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.onEnded.add(fn)
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.onEnded.remove(id)
	}
}

func (s *simulated) OnError(fn func(error)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.onError.add(fn)
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.onError.remove(id)
	}
}

// Close stops playback and cancels pending metadata.
func (s *simulated) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
	if s.metaTimer != nil {
		s.metaTimer.Stop()
		s.metaTimer = nil
	}
	s.loadGen++
}
