package trophycase

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/storyreel/internal/achievements"
	"github.com/abhisek/storyreel/internal/router"
	"github.com/abhisek/storyreel/internal/screen"
	"github.com/abhisek/storyreel/internal/ui/components"
	"github.com/abhisek/storyreel/internal/ui/layout"
	"github.com/abhisek/storyreel/internal/ui/theme"
)

type filter int

const (
	filterAll filter = iota
	filterUnlocked
	filterLocked
)

var filterNames = []string{"All", "Unlocked", "Locked"}

type loadedMsg struct {
	Statuses []achievements.Status
}

// TrophyCaseScreen lists every achievement with its progress.
type TrophyCaseScreen struct {
	ledger       *achievements.Ledger
	all          []achievements.Status
	filter       filter
	scrollOffset int
	loaded       bool
}

var _ screen.Screen = (*TrophyCaseScreen)(nil)
var _ screen.KeyHintProvider = (*TrophyCaseScreen)(nil)

// New creates a new TrophyCaseScreen.
func New(ledger *achievements.Ledger) *TrophyCaseScreen {
	return &TrophyCaseScreen{ledger: ledger}
}

func (s *TrophyCaseScreen) Init() tea.Cmd {
	return func() tea.Msg {
		return loadedMsg{Statuses: s.ledger.All(context.Background())}
	}
}

func (s *TrophyCaseScreen) Title() string {
	return "Achievements"
}

func (s *TrophyCaseScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab", Description: "Filter"},
		{Key: "↑↓", Description: "Scroll"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *TrophyCaseScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		s.all = msg.Statuses
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "tab":
			s.filter = (s.filter + 1) % filter(len(filterNames))
			s.scrollOffset = 0
		case "shift+tab":
			s.filter = (s.filter - 1 + filter(len(filterNames))) % filter(len(filterNames))
			s.scrollOffset = 0
		case "up", "k":
			if s.scrollOffset > 0 {
				s.scrollOffset--
			}
		case "down", "j":
			if s.scrollOffset < len(s.filtered())-1 {
				s.scrollOffset++
			}
		}
	}
	return s, nil
}

func (s *TrophyCaseScreen) View(width, height int) string {
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading achievements...")
	}

	var b strings.Builder

	unlocked := s.count(filterUnlocked)
	b.WriteString(lipgloss.NewStyle().
		Width(width).Align(lipgloss.Center).Foreground(theme.Text).
		Render(fmt.Sprintf("\n%d of %d unlocked\n", unlocked, len(s.all))))
	b.WriteString("\n")

	var tabs []string
	for i, name := range filterNames {
		label := fmt.Sprintf("%s (%d)", name, s.count(filter(i)))
		if filter(i) == s.filter {
			tabs = append(tabs, lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(label))
		} else {
			tabs = append(tabs, lipgloss.NewStyle().Foreground(theme.TextDim).Render(label))
		}
	}
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, strings.Join(tabs, "     ")))
	b.WriteString("\n\n")

	divider := lipgloss.NewStyle().Foreground(theme.Border).Render(
		strings.Repeat("─", min(width-8, 60)))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, divider))
	b.WriteString("\n\n")

	list := s.filtered()
	if len(list) == 0 {
		b.WriteString(lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("Nothing here yet"))
		return b.String()
	}

	// Each entry takes two lines.
	maxVisible := (height - 10) / 2
	if maxVisible < 2 {
		maxVisible = 2
	}
	start := s.scrollOffset
	end := min(start+maxVisible, len(list))

	cw := components.ContentWidth(width)
	for _, st := range list[start:end] {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, renderEntry(st, cw)))
		b.WriteString("\n")
	}

	if end < len(list) {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render(fmt.Sprintf("... %d more", len(list)-end)))
	}
	return b.String()
}

func renderEntry(st achievements.Status, cw int) string {
	def, rec := st.Definition, st.Record
	if st.Masked() {
		return theme.Locked.Render(fmt.Sprintf("%-3s %-*s", "?", cw-4, "???")) + "\n" +
			theme.Hint.Render("    Keep exploring.")
	}

	style := theme.Locked
	if rec.Completed {
		style = theme.Unlocked
	}
	title := fmt.Sprintf("%s  %s", def.Icon, def.Title)
	right := ""
	if rec.Completed {
		right = achievements.UnlockedAt(rec, "Jan 02, 2006")
	}
	pad := cw - lipgloss.Width(title) - lipgloss.Width(right)
	if pad < 1 {
		pad = 1
	}
	line := style.Render(title) + strings.Repeat(" ", pad) +
		lipgloss.NewStyle().Foreground(theme.TextDim).Render(right)

	detail := "    " + def.Description
	if def.HasProgress() && !rec.Completed {
		pct := float64(rec.Progress) / float64(def.MaxProgress)
		label := fmt.Sprintf("    %d/%d", rec.Progress, def.MaxProgress)
		detail = components.NewProgressBar(label, pct, true, cw).WithFill(theme.Accent).View()
	}
	return line + "\n" + lipgloss.NewStyle().Foreground(theme.TextDim).Render(detail)
}

func (s *TrophyCaseScreen) filtered() []achievements.Status {
	var out []achievements.Status
	for _, st := range s.all {
		if s.filter.match(st) {
			out = append(out, st)
		}
	}
	return out
}

func (s *TrophyCaseScreen) count(f filter) int {
	n := 0
	for _, st := range s.all {
		if f.match(st) {
			n++
		}
	}
	return n
}

func (f filter) match(st achievements.Status) bool {
	switch f {
	case filterUnlocked:
		return st.Unlocked()
	case filterLocked:
		return !st.Unlocked()
	default:
		return true
	}
}
