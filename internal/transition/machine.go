// Package transition holds the scene state machine: which scene is current,
// which one came before it, and whether a transition is in flight.
package transition

import "sync"

// Direction is the playback direction of a transition.
type Direction int

const (
	Forward Direction = iota // index increases
	Reverse                  // index decreases
)

func (d Direction) String() string {
	if d == Reverse {
		return "reverse"
	}
	return "forward"
}

// State is an immutable snapshot of the machine.
//
// While Transitioning, the machine is in Transitioning(Previous, Current,
// Direction): Current already names the destination scene and never changes
// until the transition completes. Previous is 0 until the first transition.
type State struct {
	Current       int
	Previous      int
	Transitioning bool
	Direction     Direction
	Total         int
}

// From returns the scene being left during a transition.
func (s State) From() int { return s.Previous }

// To returns the scene being entered during a transition.
func (s State) To() int { return s.Current }

// CanGoNext reports whether a later scene exists.
func (s State) CanGoNext() bool { return s.Current < s.Total }

// CanGoBack reports whether an earlier scene exists.
func (s State) CanGoBack() bool { return s.Current > 1 }

// Machine owns the transition state. Advance and Retreat are the only
// operations that start a transition; CompleteTransition is the only one
// that ends it.
type Machine struct {
	mu          sync.Mutex
	state       State
	listeners   []listener
	nextID      int
	pending     []State
	dispatching bool
}

type listener struct {
	id int
	fn func(State)
}

// NewMachine returns a machine idle at scene 1 of total scenes.
func NewMachine(total int) *Machine {
	if total < 1 {
		total = 1
	}
	return &Machine{state: State{Current: 1, Total: total}}
}

// Snapshot returns the current state.
func (m *Machine) Snapshot() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// CanGoNext reports whether a later scene exists.
func (m *Machine) CanGoNext() bool { return m.Snapshot().CanGoNext() }

// CanGoBack reports whether an earlier scene exists.
func (m *Machine) CanGoBack() bool { return m.Snapshot().CanGoBack() }

// Advance starts a forward transition. It is a silent no-op while a
// transition is in flight or at the last scene, and reports whether the
// request was accepted.
func (m *Machine) Advance() bool {
	return m.begin(Forward)
}

// Retreat starts a reverse transition. It is a silent no-op while a
// transition is in flight or at the first scene.
func (m *Machine) Retreat() bool {
	return m.begin(Reverse)
}

func (m *Machine) begin(dir Direction) bool {
	m.mu.Lock()
	s := m.state
	if s.Transitioning {
		m.mu.Unlock()
		return false
	}
	next := s.Current + 1
	if dir == Reverse {
		next = s.Current - 1
	}
	if next < 1 || next > s.Total {
		m.mu.Unlock()
		return false
	}
	m.state = State{
		Current:       next,
		Previous:      s.Current,
		Transitioning: true,
		Direction:     dir,
		Total:         s.Total,
	}
	m.publishLocked()
	return true
}

// CompleteTransition returns the machine to idle at the destination scene.
// It is a no-op when no transition is in flight.
func (m *Machine) CompleteTransition() bool {
	m.mu.Lock()
	if !m.state.Transitioning {
		m.mu.Unlock()
		return false
	}
	m.state.Transitioning = false
	m.publishLocked()
	return true
}

// Subscribe registers fn to receive every new state. Notifications are
// delivered in mutation order, one at a time; a listener that mutates the
// machine has its own change queued until it returns.
func (m *Machine) Subscribe(fn func(State)) (unsubscribe func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	id := m.nextID
	m.listeners = append(m.listeners, listener{id: id, fn: fn})
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		for i, l := range m.listeners {
			if l.id == id {
				m.listeners = append(m.listeners[:i:i], m.listeners[i+1:]...)
				return
			}
		}
	}
}

// publishLocked queues the current state for delivery and drains the queue
// unless another call is already draining it. Called with m.mu held; returns
// with it released.
func (m *Machine) publishLocked() {
	m.pending = append(m.pending, m.state)
	if m.dispatching {
		m.mu.Unlock()
		return
	}
	m.dispatching = true
	for len(m.pending) > 0 {
		s := m.pending[0]
		m.pending = m.pending[1:]
		ls := make([]listener, len(m.listeners))
		copy(ls, m.listeners)
		m.mu.Unlock()
		for _, l := range ls {
			l.fn(s)
		}
		m.mu.Lock()
	}
	m.dispatching = false
	m.mu.Unlock()
}
