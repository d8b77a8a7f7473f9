// Package story is the playback screen: the current keyframe, the
// transition between scenes, narration status, asides and toasts.
package story

import (
	"context"
	"fmt"
	"time"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/storyreel/internal/catalog"
	"github.com/abhisek/storyreel/internal/engine"
	"github.com/abhisek/storyreel/internal/keyframe"
	"github.com/abhisek/storyreel/internal/screen"
	"github.com/abhisek/storyreel/internal/ui/layout"
)

const frameInterval = 100 * time.Millisecond

// frameMsg redraws the screen while media plays.
type frameMsg time.Time

// StoryScreen renders one engine.Session. The session outlives the screen;
// leaving and re-entering resumes where the viewer was.
type StoryScreen struct {
	session   *engine.Session
	keyframes *keyframe.Source
	keys      keyMap
	now       func() time.Time

	aside  *catalog.Aside
	status string
}

var _ screen.Screen = (*StoryScreen)(nil)
var _ screen.KeyHintProvider = (*StoryScreen)(nil)
var _ screen.BackHandler = (*StoryScreen)(nil)

// New creates a StoryScreen. keyframes may be nil, in which case every scene
// gets its fallback tint.
func New(session *engine.Session, keyframes *keyframe.Source) *StoryScreen {
	if keyframes == nil {
		keyframes = keyframe.NewSource(func(int) string { return "" }, nil)
	}
	return &StoryScreen{
		session:   session,
		keyframes: keyframes,
		keys:      defaultKeys(),
		now:       time.Now,
	}
}

func (s *StoryScreen) Init() tea.Cmd {
	return tick()
}

func (s *StoryScreen) Title() string {
	return "Story"
}

func (s *StoryScreen) KeyHints() []layout.KeyHint {
	if s.aside != nil {
		return layout.Hints(s.keys.Close)
	}
	st := s.session.Snapshot()
	next, prev := s.keys.Next, s.keys.Prev
	next.SetEnabled(st.CanGoNext())
	prev.SetEnabled(st.CanGoBack())
	out := layout.Hints(prev, next, s.keys.Aside, s.keys.Coffee)
	return append(out, layout.KeyHint{Key: "Esc", Description: "Menu"})
}

// HandlesBack keeps Esc on the screen while an aside is open.
func (s *StoryScreen) HandlesBack() bool {
	return s.aside != nil
}

func (s *StoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case frameMsg:
		s.session.Notifications().Expire(s.now())
		return s, tick()

	case tea.KeyPressMsg:
		s.handleKey(msg)
		return s, nil
	}
	return s, nil
}

func (s *StoryScreen) handleKey(msg tea.KeyPressMsg) {
	if s.aside != nil {
		if key.Matches(msg, s.keys.Close) {
			s.aside = nil
		}
		return
	}

	s.status = ""
	switch {
	case key.Matches(msg, s.keys.Next):
		if !s.session.Advance() && !s.session.Snapshot().Transitioning {
			s.status = "That's the last scene."
		}
	case key.Matches(msg, s.keys.Prev):
		if !s.session.Retreat() && !s.session.Snapshot().Transitioning {
			s.status = "This is where the story starts."
		}
	case key.Matches(msg, s.keys.Aside):
		s.openAside(int(msg.String()[0] - '1'))
	case key.Matches(msg, s.keys.Coffee):
		s.findCoffee()
	}
}

func (s *StoryScreen) openAside(i int) {
	if s.session.Snapshot().Transitioning {
		return
	}
	sc := s.session.Scene()
	if i < 0 || i >= len(sc.Asides) {
		return
	}
	a := sc.Asides[i]
	if err := s.session.MarkAside(a.ID); err != nil {
		s.status = "Progress could not be saved."
	}
	s.aside = &a
}

func (s *StoryScreen) findCoffee() {
	if s.session.Snapshot().Transitioning {
		return
	}
	sc := s.session.Scene()
	ctx := context.Background()
	for _, id := range sc.Coffee {
		if s.session.Ledger().Found(ctx, sc.Index, id) {
			continue
		}
		if err := s.session.MarkCoffee(id); err != nil {
			s.status = "Progress could not be saved."
			return
		}
		s.status = fmt.Sprintf("☕ You found the %s!", id)
		return
	}
	s.status = "No coffee hiding here."
}

func tick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}
