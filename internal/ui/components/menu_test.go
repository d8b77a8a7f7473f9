package components

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type picked string

func item(label, shortcut string, disabled bool) MenuItem {
	return MenuItem{
		Label:    label,
		Shortcut: shortcut,
		Disabled: disabled,
		Action:   func() tea.Cmd { return func() tea.Msg { return picked(label) } },
	}
}

func newTestMenu() Menu {
	return NewMenu([]MenuItem{
		item("OFF", "", true),
		item("PLAY", "p", false),
		item("HISTORY", "h", true),
		item("EXIT", "q", false),
	})
}

func TestMenuSkipsDisabledAndWraps(t *testing.T) {
	m := newTestMenu()
	assert.Equal(t, 1, m.Selected, "first enabled item")

	steps := []struct {
		key  tea.KeyPressMsg
		want int
	}{
		{tea.KeyPressMsg{Code: tea.KeyDown}, 3},
		{tea.KeyPressMsg{Code: tea.KeyDown}, 1},
		{tea.KeyPressMsg{Code: tea.KeyUp}, 3},
		{tea.KeyPressMsg{Code: 'k', Text: "k"}, 1},
		{tea.KeyPressMsg{Code: 'j', Text: "j"}, 3},
	}
	for _, s := range steps {
		m, _ = m.Update(s.key)
		assert.Equal(t, s.want, m.Selected, "after %s", s.key.String())
	}
}

func TestMenuEnterActivatesSelection(t *testing.T) {
	m := newTestMenu()
	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, picked("PLAY"), cmd())
}

func TestMenuShortcuts(t *testing.T) {
	m := newTestMenu()

	m, cmd := m.Update(tea.KeyPressMsg{Code: 'q', Text: "q"})
	require.NotNil(t, cmd)
	assert.Equal(t, picked("EXIT"), cmd())
	assert.Equal(t, 3, m.Selected)

	_, cmd = m.Update(tea.KeyPressMsg{Code: 'h', Text: "h"})
	assert.Nil(t, cmd, "disabled items ignore their shortcut")
}

func TestMenuAllDisabled(t *testing.T) {
	m := NewMenu([]MenuItem{item("A", "", true)})
	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.NotPanics(t, func() { m.View(40, 20) })
}

func TestMenuViews(t *testing.T) {
	m := newTestMenu()
	assert.Contains(t, m.View(40, 20), "▸ PLAY")
	assert.Contains(t, m.CompactView(40), "EXIT (q)")
}
