package transition

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMachineStartsIdleAtFirstScene(t *testing.T) {
	m := NewMachine(3)
	s := m.Snapshot()

	assert.Equal(t, 1, s.Current)
	assert.Equal(t, 0, s.Previous, "no previous scene before the first transition")
	assert.False(t, s.Transitioning)
	assert.True(t, m.CanGoNext())
	assert.False(t, m.CanGoBack())
}

func TestAdvanceAndRetreatBounds(t *testing.T) {
	tests := []struct {
		name    string
		total   int
		steps   []Direction
		wantCur int
		wantOK  []bool
	}{
		{"retreat at first scene", 3, []Direction{Reverse}, 1, []bool{false}},
		{"advance to the end", 3, []Direction{Forward, Forward, Forward}, 3, []bool{true, true, false}},
		{"single scene catalog", 1, []Direction{Forward, Reverse}, 1, []bool{false, false}},
		{"there and back", 3, []Direction{Forward, Reverse, Reverse}, 1, []bool{true, true, false}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMachine(tt.total)
			for i, d := range tt.steps {
				var ok bool
				if d == Forward {
					ok = m.Advance()
				} else {
					ok = m.Retreat()
				}
				assert.Equal(t, tt.wantOK[i], ok, "step %d", i)
				m.CompleteTransition()
			}
			assert.Equal(t, tt.wantCur, m.Snapshot().Current)
		})
	}
}

func TestDoubleAdvanceIsNoOp(t *testing.T) {
	m := NewMachine(5)

	require.True(t, m.Advance())
	assert.False(t, m.Advance(), "second advance while transitioning")
	assert.False(t, m.Retreat(), "retreat while transitioning")

	s := m.Snapshot()
	assert.Equal(t, 2, s.Current)
	assert.Equal(t, 1, s.Previous)

	m.CompleteTransition()
	assert.Equal(t, 2, m.Snapshot().Current)
}

func TestCompleteTransitionWhenIdleIsNoOp(t *testing.T) {
	m := NewMachine(3)
	var calls int
	m.Subscribe(func(State) { calls++ })

	assert.False(t, m.CompleteTransition())
	assert.Zero(t, calls)
}

func TestRandomWalkStaysInBounds(t *testing.T) {
	const total = 6
	m := NewMachine(total)
	rng := rand.New(rand.NewSource(42))

	var lastIdle = 1
	for i := 0; i < 2000; i++ {
		switch rng.Intn(3) {
		case 0:
			m.Advance()
		case 1:
			m.Retreat()
		case 2:
			m.CompleteTransition()
		}
		s := m.Snapshot()
		require.GreaterOrEqual(t, s.Current, 1)
		require.LessOrEqual(t, s.Current, total)
		if s.Transitioning {
			require.Equal(t, lastIdle, s.Previous, "previous must be the scene left")
			require.Equal(t, 1, abs(s.Current-s.Previous))
		} else {
			lastIdle = s.Current
		}
	}
}

func TestSubscribeReceivesEveryChange(t *testing.T) {
	m := NewMachine(3)
	var got []State
	unsubscribe := m.Subscribe(func(s State) { got = append(got, s) })

	m.Advance()
	m.CompleteTransition()
	unsubscribe()
	m.Retreat()

	require.Len(t, got, 2)
	assert.Equal(t, State{Current: 2, Previous: 1, Transitioning: true, Direction: Forward, Total: 3}, got[0])
	assert.Equal(t, State{Current: 2, Previous: 1, Direction: Forward, Total: 3}, got[1])
}

func TestListenerMayCompleteReentrantly(t *testing.T) {
	m := NewMachine(3)
	var seen []bool

	m.Subscribe(func(s State) {
		seen = append(seen, s.Transitioning)
		if s.Transitioning {
			m.CompleteTransition()
		}
	})
	m.Subscribe(func(s State) {
		seen = append(seen, s.Transitioning)
	})

	require.True(t, m.Advance())

	// Both listeners observe the transitioning state before either sees idle.
	assert.Equal(t, []bool{true, true, false, false}, seen)
	assert.False(t, m.Snapshot().Transitioning)
}

func TestScenarioThereAndBack(t *testing.T) {
	m := NewMachine(3)

	require.True(t, m.Advance())
	s := m.Snapshot()
	assert.Equal(t, [3]int{1, 2, int(Forward)}, [3]int{s.From(), s.To(), int(s.Direction)})
	assert.True(t, s.Transitioning)

	m.CompleteTransition()
	s = m.Snapshot()
	assert.False(t, s.Transitioning)
	assert.Equal(t, 2, s.Current)

	require.True(t, m.Retreat())
	s = m.Snapshot()
	assert.Equal(t, [3]int{2, 1, int(Reverse)}, [3]int{s.From(), s.To(), int(s.Direction)})

	m.CompleteTransition()
	s = m.Snapshot()
	assert.False(t, s.Transitioning)
	assert.Equal(t, 1, s.Current)
	assert.Equal(t, 2, s.Previous)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
