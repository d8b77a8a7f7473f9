package sequencer

import (
	"sync"
	"time"
)

// Phase is one named step. Enter runs when the phase begins; the sequencer
// moves on once Duration has elapsed. Zero-length phases advance immediately.
type Phase struct {
	Name     string
	Duration time.Duration
	Enter    func()
}

// Sequencer walks a fixed list of phases on a single clock.
type Sequencer struct {
	clock  Clock
	phases []Phase
	onDone func()

	mu      sync.Mutex
	gen     uint64
	current int
	timer   Timer
	done    bool
}

// New returns an idle Sequencer over phases.
func New(clock Clock, phases ...Phase) *Sequencer {
	return &Sequencer{clock: clock, phases: phases, current: -1}
}

// OnDone registers a callback fired after the last phase's duration elapses.
func (s *Sequencer) OnDone(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onDone = fn
}

// Start enters the first phase. Restarting abandons any run in progress.
func (s *Sequencer) Start() {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.gen++
	s.done = false
	gen := s.gen
	s.mu.Unlock()

	s.enter(gen, 0)
}

// Stop cancels the pending step. Phase callbacks never fire after Stop returns.
func (s *Sequencer) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.gen++
	s.current = -1
}

// Phase returns the current phase name, or "" when idle or finished.
func (s *Sequencer) Phase() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current < 0 || s.current >= len(s.phases) {
		return ""
	}
	return s.phases[s.current].Name
}

// Done reports whether the last phase has completed.
func (s *Sequencer) Done() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done
}

func (s *Sequencer) enter(gen uint64, i int) {
	for {
		s.mu.Lock()
		if gen != s.gen {
			s.mu.Unlock()
			return
		}
		if i >= len(s.phases) {
			s.current = -1
			s.done = true
			s.timer = nil
			done := s.onDone
			s.mu.Unlock()
			if done != nil {
				done()
			}
			return
		}
		s.current = i
		p := s.phases[i]
		s.mu.Unlock()

		if p.Enter != nil {
			p.Enter()
		}

		if p.Duration <= 0 {
			i++
			continue
		}

		s.mu.Lock()
		if gen == s.gen && s.current == i {
			next := i + 1
			s.timer = s.clock.AfterFunc(p.Duration, func() { s.enter(gen, next) })
		}
		s.mu.Unlock()
		return
	}
}
