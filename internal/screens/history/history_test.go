package history

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/storyreel/internal/store"
)

type stubRepo struct {
	events []store.AchievementEventRecord
	err    error
}

func (r *stubRepo) AppendAchievementEvent(context.Context, store.AchievementEventData) error {
	return nil
}
func (r *stubRepo) QueryAchievementEvents(context.Context, store.QueryOpts) ([]store.AchievementEventRecord, error) {
	return r.events, r.err
}
func (r *stubRepo) ClearAchievementEvents(context.Context) error { return nil }

func TestHistoryListsEvents(t *testing.T) {
	repo := &stubRepo{events: []store.AchievementEventRecord{
		{AchievementID: "the-end", Title: "The End?", SessionID: "4f1c2d9e-aaaa", Progress: 1, Timestamp: time.Now()},
		{AchievementID: "first-steps", Title: "First Steps", SessionID: "4f1c2d9e-aaaa", Progress: 1, Timestamp: time.Now()},
	}}
	s := New(repo)
	s.Update(s.Init()())

	view := s.View(100, 30)
	for _, want := range []string{"The End?", "First Steps"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if strings.Contains(view, "4f1c2d9e") {
		t.Error("details should be collapsed")
	}

	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if !strings.Contains(s.View(100, 30), "first-steps · progress 1 · session 4f1c2d9e") {
		t.Error("expected expanded details for the second event")
	}
}

func TestHistoryEmptyAndError(t *testing.T) {
	s := New(&stubRepo{})
	s.Update(s.Init()())
	if !strings.Contains(s.View(80, 24), "No unlocks yet") {
		t.Error("expected empty message")
	}

	s = New(&stubRepo{err: errors.New("database is locked")})
	s.Update(s.Init()())
	if !strings.Contains(s.View(80, 24), "database is locked") {
		t.Error("expected error message")
	}
}
