package story

import (
	"context"
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/storyreel/internal/transition"
	"github.com/abhisek/storyreel/internal/ui/components"
	"github.com/abhisek/storyreel/internal/ui/theme"
)

func (s *StoryScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	if s.aside != nil {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, s.renderAside(cw))
	}

	st := s.session.Snapshot()
	sections := []string{
		s.renderSceneLine(st, cw),
		s.renderKeyframe(st, cw, panelHeight(height)),
		s.renderNarration(cw),
		s.renderExtras(st, cw),
	}
	if s.status != "" {
		sections = append(sections, lipgloss.NewStyle().
			Width(cw).Align(lipgloss.Center).Foreground(theme.Accent).
			Render(s.status))
	}
	if toast := s.renderToast(cw); toast != "" {
		sections = append(sections, toast)
	}

	content := strings.Join(sections, "\n\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

func panelHeight(height int) int {
	h := height / 3
	if h < 3 {
		h = 3
	}
	if h > 10 {
		h = 10
	}
	return h
}

func (s *StoryScreen) renderSceneLine(st transition.State, cw int) string {
	sc := s.session.Scene()
	left := lipgloss.NewStyle().Foreground(theme.ArcadeCyan).Bold(true).
		Render(fmt.Sprintf("SCENE %d / %d", st.Current, st.Total))
	title := lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(sc.Title)

	line := left + "  " + title
	if st.Transitioning {
		arrow := "▶"
		if st.Direction == transition.Reverse {
			arrow = "◀"
		}
		line += lipgloss.NewStyle().Foreground(theme.TextDim).
			Render(fmt.Sprintf("   %s %d → %d", arrow, st.From(), st.To()))
	}
	return lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).Render(line)
}

// renderKeyframe draws the visible keyframe as a tinted panel, with the
// transition bar over it while the video plays.
func (s *StoryScreen) renderKeyframe(st transition.State, cw, h int) string {
	driver := s.session.Driver()
	bg := driver.Background()
	ph := s.keyframes.For(bg)

	var body []string
	if driver.Visible() {
		label := fmt.Sprintf("%d → %d", st.From(), st.To())
		bar := components.NewProgressBar(label, s.session.TransitionProgress(), false, cw-8)
		if st.Direction == transition.Reverse {
			bar = bar.WithFill(theme.Primary)
		}
		body = append(body, bar.View())
	} else {
		body = append(body, lipgloss.NewStyle().Foreground(theme.BgDark).Bold(true).
			Render(fmt.Sprintf("keyframe %03d", bg)))
	}
	if ph.Hash != "" {
		body = append(body, lipgloss.NewStyle().Foreground(theme.BgCard).Render(ph.Hash))
	}

	return lipgloss.NewStyle().
		Width(cw).
		Height(h).
		Align(lipgloss.Center, lipgloss.Center).
		Background(lipgloss.Color(ph.Tint)).
		Render(strings.Join(body, "\n"))
}

func (s *StoryScreen) renderNarration(cw int) string {
	style := lipgloss.NewStyle().Width(cw).Align(lipgloss.Center)
	if scene, ok := s.session.Narrator().NowPlaying(); ok {
		return style.Foreground(theme.Secondary).Render(fmt.Sprintf("♪ narrating scene %d", scene))
	}
	return style.Foreground(theme.TextDim).Render("♪ ·")
}

func (s *StoryScreen) renderExtras(st transition.State, cw int) string {
	if st.Transitioning {
		return ""
	}
	sc := s.session.Scene()
	ctx := context.Background()
	ledger := s.session.Ledger()

	var lines []string
	for i, a := range sc.Asides {
		if i >= 9 {
			break
		}
		mark := "  "
		style := lipgloss.NewStyle().Foreground(theme.Text)
		if ledger.Found(ctx, sc.Index, a.ID) {
			mark = "✓ "
			style = style.Foreground(theme.TextDim)
		}
		lines = append(lines, style.Render(fmt.Sprintf("%s[%d] %s", mark, i+1, a.Title)))
	}

	if n := len(sc.Coffee); n > 0 {
		found := 0
		for _, id := range sc.Coffee {
			if ledger.Found(ctx, sc.Index, id) {
				found++
			}
		}
		lines = append(lines, lipgloss.NewStyle().Foreground(theme.Coffee).
			Render(fmt.Sprintf("☕ %d/%d found in this scene", found, n)))
	}
	if len(lines) == 0 {
		return ""
	}
	return lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).Render(strings.Join(lines, "\n"))
}

func (s *StoryScreen) renderAside(cw int) string {
	title := lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true).Render(s.aside.Title)
	story := lipgloss.NewStyle().Foreground(theme.Text).Width(cw - 8).Render(s.aside.Story)
	hint := lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).Render("press Esc to return")
	return components.Card(title+"\n\n"+story+"\n\n"+hint, cw, theme.Accent)
}

func (s *StoryScreen) renderToast(cw int) string {
	n, ok := s.session.Notifications().Active(s.now())
	if !ok {
		return ""
	}
	text := fmt.Sprintf("%s Achievement unlocked: %s", n.Definition.Icon, n.Definition.Title)
	return lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).Render(theme.Toast.Render(text))
}
