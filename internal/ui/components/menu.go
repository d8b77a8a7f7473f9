package components

import (
	"strings"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/storyreel/internal/ui/theme"
)

// MenuItem is one menu entry. Shortcut, when set, is a single key that
// activates the item directly.
type MenuItem struct {
	Label    string
	Shortcut string
	Action   func() tea.Cmd
	Disabled bool
}

type menuKeys struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
}

var defaultMenuKeys = menuKeys{
	Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Select: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
}

// Menu is a vertical list of actions. Selection skips disabled items and
// wraps at either end.
type Menu struct {
	Items    []MenuItem
	Selected int
	keys     menuKeys
}

// NewMenu returns a menu with the first enabled item selected.
func NewMenu(items []MenuItem) Menu {
	m := Menu{Items: items, Selected: -1, keys: defaultMenuKeys}
	m.Selected = m.step(-1, 1)
	return m
}

// step walks from index from in direction dir to the next enabled item. It
// returns from when there is none.
func (m Menu) step(from, dir int) int {
	n := len(m.Items)
	for i := 1; i <= n; i++ {
		j := ((from+dir*i)%n + n) % n
		if !m.Items[j].Disabled {
			return j
		}
	}
	return from
}

func (m Menu) activate(i int) tea.Cmd {
	if i < 0 || i >= len(m.Items) {
		return nil
	}
	item := m.Items[i]
	if item.Disabled || item.Action == nil {
		return nil
	}
	return item.Action()
}

// Update moves the selection or activates an item.
func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok || len(m.Items) == 0 {
		return m, nil
	}

	switch {
	case key.Matches(kmsg, m.keys.Up):
		m.Selected = m.step(m.Selected, -1)
	case key.Matches(kmsg, m.keys.Down):
		m.Selected = m.step(m.Selected, 1)
	case key.Matches(kmsg, m.keys.Select):
		return m, m.activate(m.Selected)
	default:
		for i, item := range m.Items {
			if item.Shortcut != "" && kmsg.String() == item.Shortcut && !item.Disabled {
				m.Selected = i
				return m, m.activate(i)
			}
		}
	}
	return m, nil
}

func (m Menu) state(i int) ButtonState {
	switch {
	case m.Items[i].Disabled:
		return ButtonDisabled
	case i == m.Selected:
		return ButtonSelected
	}
	return ButtonIdle
}

// View renders the items as bordered buttons of buttonWidth, centered in cw.
func (m Menu) View(cw, buttonWidth int) string {
	buttons := make([]string, len(m.Items))
	for i, item := range m.Items {
		buttons[i] = Button(item.Label, m.state(i), buttonWidth)
	}
	return lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).Render(strings.Join(buttons, "\n"))
}

// CompactView renders one borderless line per item for short terminals.
func (m Menu) CompactView(cw int) string {
	lines := make([]string, len(m.Items))
	for i, item := range m.Items {
		label := item.Label
		if item.Shortcut != "" {
			label += " (" + item.Shortcut + ")"
		}
		switch m.state(i) {
		case ButtonSelected:
			lines[i] = lipgloss.NewStyle().Foreground(theme.BgDark).Background(theme.ArcadeYellow).Bold(true).
				Render(" ▸ " + label + " ")
		case ButtonDisabled:
			lines[i] = lipgloss.NewStyle().Foreground(theme.TextDim).Render("   " + label)
		default:
			lines[i] = lipgloss.NewStyle().Foreground(theme.Text).Render("   " + label)
		}
	}
	return lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).Render(strings.Join(lines, "\n"))
}

// KeyBindings returns the navigation bindings for footer hints.
func (m Menu) KeyBindings() []key.Binding {
	return []key.Binding{m.keys.Up, m.keys.Down, m.keys.Select}
}
