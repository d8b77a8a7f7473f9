package components

import (
	"strings"
	"testing"

	"charm.land/lipgloss/v2"
	"github.com/stretchr/testify/assert"
)

func TestProgressBarFitsWidth(t *testing.T) {
	tests := []struct {
		name    string
		bar     ProgressBar
		played  int
		percent string
	}{
		{"empty", NewProgressBar("1 → 2", 0, false, 30), 0, ""},
		{"half", NewProgressBar("", 0.5, true, 26), 9, " 50%"},
		{"clamped", NewProgressBar("", 3, true, 26), 19, "100%"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := tt.bar.View()
			assert.Equal(t, tt.bar.Width, lipgloss.Width(out))
			assert.Equal(t, tt.played, strings.Count(out, barFilled))
			assert.Equal(t, 1, strings.Count(out, barHead))
			if tt.percent != "" {
				assert.Contains(t, out, tt.percent)
			}
		})
	}
}

func TestProgressBarMinimumTrack(t *testing.T) {
	out := NewProgressBar("a very long label", 0, false, 5).View()
	assert.Equal(t, 3, strings.Count(out, barEmpty))
}
