// Package onboarding is the first-run splash and tour. It is shown until
// the viewer finishes it once.
package onboarding

import (
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/storyreel/internal/router"
	"github.com/abhisek/storyreel/internal/screen"
	"github.com/abhisek/storyreel/internal/ui/theme"
)

const (
	tickInterval = 100 * time.Millisecond
	phase1End    = 500 * time.Millisecond
	phase2End    = 1500 * time.Millisecond
	totalDur     = 3000 * time.Millisecond
)

// reelFrames spin the film reel while the splash plays.
var reelFrames = []string{
	`   ╭───────╮
  ╱  ◯   ◯  ╲
 │     ●     │
  ╲  ◯   ◯  ╱
   ╰───────╯`,
	`   ╭───────╮
  ╱    ◯    ╲
 │  ◯  ●  ◯  │
  ╲    ◯    ╱
   ╰───────╯`,
}

// tourPages are shown one at a time after the splash.
var tourPages = []struct {
	title string
	body  string
}{
	{"Scenes", "Use → and ← to move through the story.\nEach step plays a short transition, forward or in reverse."},
	{"Narration", "The first time you reach a scene, its narration plays.\nIt won't repeat on later visits, and going back stays quiet."},
	{"Asides & coffee", "Press 1-9 to open a scene's asides.\nPress c to look for hidden coffee. Some achievements need both."},
}

type tickMsg time.Time

// OnboardingScreen plays the splash, walks through the tour, then replaces
// itself with the screen produced by homeFactory.
type OnboardingScreen struct {
	homeFactory func() screen.Screen
	onComplete  func()
	elapsed     time.Duration
	tickCount   int
	page        int
	finished    bool
}

var _ screen.Screen = (*OnboardingScreen)(nil)

// New creates an OnboardingScreen. onComplete runs once when the tour ends,
// before the home screen is built; it may be nil.
func New(homeFactory func() screen.Screen, onComplete func()) *OnboardingScreen {
	return &OnboardingScreen{
		homeFactory: homeFactory,
		onComplete:  onComplete,
		page:        -1,
	}
}

func (o *OnboardingScreen) Title() string {
	return ""
}

func (o *OnboardingScreen) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (o *OnboardingScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg.(type) {
	case tickMsg:
		if o.elapsed < totalDur {
			o.elapsed += tickInterval
		}
		o.tickCount++
		return o, tick()

	case tea.KeyPressMsg:
		if o.finished {
			return o, nil
		}
		if o.elapsed < totalDur {
			o.elapsed = totalDur
			return o, nil
		}
		o.page++
		if o.page >= len(tourPages) {
			return o, o.finish()
		}
		return o, nil
	}
	return o, nil
}

func (o *OnboardingScreen) finish() tea.Cmd {
	o.finished = true
	if o.onComplete != nil {
		o.onComplete()
	}
	next := o.homeFactory()
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: next}
	}
}

func (o *OnboardingScreen) View(width, height int) string {
	if o.page >= 0 && o.page < len(tourPages) {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, o.renderPage())
	}

	var sections []string
	reelStyle := lipgloss.NewStyle().Foreground(theme.ArcadeYellow)
	frame := 0
	if o.elapsed >= phase1End {
		frame = o.tickCount % len(reelFrames)
	}
	sections = append(sections, reelStyle.Render(reelFrames[frame]))

	if o.elapsed >= phase2End {
		sections = append(sections, "", RenderBanner(width), "")
		sections = append(sections, lipgloss.NewStyle().
			Foreground(theme.Text).
			Bold(true).
			Render("Every scene has a story."))
		sections = append(sections, "", lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Italic(true).
			Render("press any key to continue"))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, strings.Join(sections, "\n"))
}

func (o *OnboardingScreen) renderPage() string {
	p := tourPages[o.page]
	title := lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true).Render(p.title)
	body := lipgloss.NewStyle().Foreground(theme.Text).Align(lipgloss.Center).Render(p.body)
	dots := make([]string, len(tourPages))
	for i := range tourPages {
		if i == o.page {
			dots[i] = lipgloss.NewStyle().Foreground(theme.Primary).Render("●")
		} else {
			dots[i] = lipgloss.NewStyle().Foreground(theme.Border).Render("○")
		}
	}
	hint := lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).
		Render(fmt.Sprintf("press any key (%d/%d)", o.page+1, len(tourPages)))
	return lipgloss.JoinVertical(lipgloss.Center, title, "", body, "", strings.Join(dots, " "), "", hint)
}
