package app

import (
	"context"
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/storyreel/internal/engine"
	"github.com/abhisek/storyreel/internal/keyframe"
	"github.com/abhisek/storyreel/internal/router"
	"github.com/abhisek/storyreel/internal/screen"
	"github.com/abhisek/storyreel/internal/screens/home"
	"github.com/abhisek/storyreel/internal/screens/onboarding"
	"github.com/abhisek/storyreel/internal/screens/story"
	"github.com/abhisek/storyreel/internal/store"
	"github.com/abhisek/storyreel/internal/ui/layout"
)

// Options holds the dependencies the screens need.
type Options struct {
	Session   *engine.Session
	Keyframes *keyframe.Source
	Events    store.EventRepo

	// Onboarding, when set, shows the tour until the flag is on.
	Onboarding *store.Flag

	// StartInStory opens the story on top of home, skipping the menu.
	StartInStory bool
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router  *router.Router
	session *engine.Session
	width   int
	height  int
}

// newAppModel creates a new AppModel starting at onboarding or home.
func newAppModel(opts Options) AppModel {
	homeFactory := func() screen.Screen {
		return home.New(home.Options{
			Catalog: opts.Session.Catalog(),
			Ledger:  opts.Session.Ledger(),
			Events:  opts.Events,
			Story: func() screen.Screen {
				return story.New(opts.Session, opts.Keyframes)
			},
		})
	}

	var r *router.Router
	ctx := context.Background()
	switch {
	case opts.Onboarding != nil && !opts.Onboarding.Get(ctx):
		flag := opts.Onboarding
		r = router.New(onboarding.New(homeFactory, func() {
			_ = flag.Set(ctx, true)
		}))
	case opts.StartInStory:
		r = router.New(homeFactory())
		// Init runs from AppModel.Init once the program starts.
		_ = r.Push(story.New(opts.Session, opts.Keyframes))
	default:
		r = router.New(homeFactory())
	}

	return AppModel{
		router:  r,
		session: opts.Session,
	}
}

func (m AppModel) Init() tea.Cmd {
	if active := m.router.Active(); active != nil {
		return active.Init()
	}
	return nil
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if bh, ok := m.router.Active().(screen.BackHandler); ok && bh.HandlesBack() {
				break
			}
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	unlocked, total := m.achievementCounts()
	header := layout.RenderHeader(layout.Header{Title: title, Unlocked: unlocked, Total: total}, m.width)

	var footerHints []layout.KeyHint
	if kh, ok := active.(screen.KeyHintProvider); ok {
		footerHints = append(kh.KeyHints(), layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
	} else if m.router.Depth() > 1 {
		footerHints = []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	} else {
		footerHints = []layout.KeyHint{
			{Key: "↑↓", Description: "Navigate"},
			{Key: "Enter", Description: "Select"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}

	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

func (m AppModel) achievementCounts() (unlocked, total int) {
	for _, st := range m.session.Ledger().All(context.Background()) {
		total++
		if st.Unlocked() {
			unlocked++
		}
	}
	return unlocked, total
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
