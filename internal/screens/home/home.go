package home

import (
	"context"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/storyreel/internal/achievements"
	"github.com/abhisek/storyreel/internal/catalog"
	"github.com/abhisek/storyreel/internal/router"
	"github.com/abhisek/storyreel/internal/screen"
	"github.com/abhisek/storyreel/internal/screens/history"
	"github.com/abhisek/storyreel/internal/screens/trophycase"
	"github.com/abhisek/storyreel/internal/store"
	"github.com/abhisek/storyreel/internal/ui/components"
	"github.com/abhisek/storyreel/internal/ui/layout"
)

// Options wires the home screen to the rest of the app.
type Options struct {
	Catalog *catalog.Catalog
	Ledger  *achievements.Ledger

	// Events feeds the history screen; the entry is disabled without it.
	Events store.EventRepo

	// Story builds the playback screen.
	Story func() screen.Screen
}

// HomeScreen is the main menu with progress at a glance.
type HomeScreen struct {
	opts Options
	menu components.Menu
}

var _ screen.Screen = (*HomeScreen)(nil)

func push(build func() screen.Screen) func() tea.Cmd {
	return func() tea.Cmd {
		return func() tea.Msg { return router.PushScreenMsg{Screen: build()} }
	}
}

// New creates a new HomeScreen. History is disabled without an event log.
func New(opts Options) *HomeScreen {
	items := []components.MenuItem{
		{Label: "PLAY STORY", Shortcut: "p", Action: push(opts.Story)},
		{Label: "ACHIEVEMENTS", Shortcut: "a", Action: push(func() screen.Screen {
			return trophycase.New(opts.Ledger)
		})},
		{Label: "HISTORY", Shortcut: "h", Disabled: opts.Events == nil, Action: push(func() screen.Screen {
			return history.New(opts.Events)
		})},
		{Label: "EXIT", Shortcut: "q", Action: func() tea.Cmd { return tea.Quit }},
	}
	return &HomeScreen{opts: opts, menu: components.NewMenu(items)}
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	// height is the content area; estimate full terminal height
	// by adding back header (3) + footer (3) + frame gaps
	termHeight := height + 8
	compact := termHeight < 30 || width < 100

	cw := components.ContentWidth(width)
	st := h.stats()

	var sections []string
	sections = append(sections, renderTitle(cw, compact))
	if !compact {
		sections = append(sections, renderMascotBox(mascotFor(st), cw))
	}
	sections = append(sections, renderStatsBar(st, cw, compact))
	if termHeight < 26 {
		sections = append(sections, h.menu.CompactView(cw))
	} else {
		sections = append(sections, h.menu.View(cw, buttonWidth))
	}

	return components.Marquee(strings.Join(sections, "\n\n"), width, height)
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	return layout.Hints(h.menu.KeyBindings()...)
}

func (h *HomeScreen) stats() stats {
	ctx := context.Background()
	s := stats{
		scenes:      h.opts.Catalog.Len(),
		totalCoffee: h.opts.Catalog.TotalCoffee(),
	}
	for _, st := range h.opts.Ledger.All(ctx) {
		s.achievements++
		if st.Unlocked() {
			s.unlocked++
		}
	}
	_, s.coffee, s.visited = h.opts.Ledger.Counts(ctx)
	return s
}

func mascotFor(s stats) MascotVariant {
	switch {
	case s.achievements > 0 && s.unlocked == s.achievements:
		return MascotCelebrating
	case s.visited > 1:
		return MascotRolling
	default:
		return MascotIdle
	}
}
