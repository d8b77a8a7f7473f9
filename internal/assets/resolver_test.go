package assets

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestURLs(t *testing.T) {
	r := NewResolver("https://cdn.example.com/story/")

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"keyframe", r.KeyframeURL(7), "https://cdn.example.com/story/keyframes/scene-007.jpeg"},
		{"narration", r.NarrationURL(12), "https://cdn.example.com/story/narration/scene-012.mp3"},
		{"transition", r.TransitionURL(1, 2), "https://cdn.example.com/story/transitions/scene-001-002.mp4"},
		{"three digits", r.KeyframeURL(123), "https://cdn.example.com/story/keyframes/scene-123.jpeg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
}

func TestReverseUsesForwardAsset(t *testing.T) {
	r := NewResolver("")
	for from := 2; from <= 9; from++ {
		assert.Equal(t, r.TransitionURL(from-1, from), r.TransitionURL(from, from-1))
	}
}

func TestDefaultBase(t *testing.T) {
	r := NewResolver("")
	assert.Equal(t, DefaultBaseURL+"/keyframes/scene-001.jpeg", r.KeyframeURL(1))
}

func TestSceneAssets(t *testing.T) {
	r := NewResolver("https://x")

	first := r.SceneAssets(1)
	assert.Empty(t, first.Transition)
	assert.Equal(t, "https://x/keyframes/scene-001.jpeg", first.Keyframe)

	third := r.SceneAssets(3)
	assert.Equal(t, "https://x/transitions/scene-002-003.mp4", third.Transition)
	assert.Equal(t, "https://x/narration/scene-003.mp3", third.Narration)
}
