package router

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/storyreel/internal/screen"
)

type initMsg string

type fakeScreen struct {
	title string
	inits int
	got   []tea.Msg
}

func (s *fakeScreen) Init() tea.Cmd {
	s.inits++
	return func() tea.Msg { return initMsg(s.title) }
}

func (s *fakeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	s.got = append(s.got, msg)
	return s, nil
}

func (s *fakeScreen) View(w, h int) string { return s.title }
func (s *fakeScreen) Title() string        { return s.title }

func titles(r *Router) []string {
	out := make([]string, len(r.stack))
	for i, s := range r.stack {
		out[i] = s.Title()
	}
	return out
}

func TestNavigationMessages(t *testing.T) {
	home := &fakeScreen{title: "home"}
	story := &fakeScreen{title: "story"}
	tour := &fakeScreen{title: "tour"}
	trophies := &fakeScreen{title: "trophies"}

	tests := []struct {
		name     string
		msg      tea.Msg
		want     []string
		wantInit string
	}{
		{"push", PushScreenMsg{Screen: story}, []string{"home", "story"}, "story"},
		{"replace keeps depth", ReplaceScreenMsg{Screen: tour}, []string{"home", "tour"}, "tour"},
		{"push again", PushScreenMsg{Screen: trophies}, []string{"home", "tour", "trophies"}, "trophies"},
		{"pop", PopScreenMsg{}, []string{"home", "tour"}, ""},
		{"pop", PopScreenMsg{}, []string{"home"}, ""},
		{"pop at bottom is a no-op", PopScreenMsg{}, []string{"home"}, ""},
	}

	r := New(home)
	for _, tt := range tests {
		cmd := r.Update(tt.msg)
		assert.Equal(t, tt.want, titles(r), tt.name)
		if tt.wantInit == "" {
			assert.Nil(t, cmd, tt.name)
			continue
		}
		require.NotNil(t, cmd, tt.name)
		assert.Equal(t, initMsg(tt.wantInit), cmd(), tt.name)
	}
	assert.Empty(t, home.got, "navigation messages are not forwarded")
}

func TestUpdateForwardsToActiveOnly(t *testing.T) {
	home := &fakeScreen{title: "home"}
	story := &fakeScreen{title: "story"}
	r := New(home)
	r.Push(story)

	r.Update(tea.KeyPressMsg{Code: tea.KeyRight})

	assert.Empty(t, home.got)
	assert.Len(t, story.got, 1)
	assert.Equal(t, "story", r.View(80, 24))
}

func TestReplaceOnEmptyStack(t *testing.T) {
	r := &Router{}
	assert.Nil(t, r.Active())
	assert.Equal(t, "", r.View(80, 24))
	assert.Nil(t, r.Update(tea.KeyPressMsg{Code: tea.KeyEnter}))

	s := &fakeScreen{title: "only"}
	r.Replace(s)
	assert.Equal(t, 1, r.Depth())
	assert.Equal(t, 1, s.inits)
}
