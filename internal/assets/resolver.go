// Package assets maps scene indices to the remote URLs of their media.
package assets

import (
	"fmt"
	"strings"
)

// DefaultBaseURL is the remote base path all scene media lives under.
const DefaultBaseURL = "https://media.storyreel.app/personal-story"

// Resolver builds asset URLs from a fixed base path. It holds no other state.
type Resolver struct {
	BaseURL string
}

// SceneAssets bundles the media a scene needs to be shown.
type SceneAssets struct {
	Keyframe   string
	Transition string // empty for the first scene
	Narration  string
}

// NewResolver returns a Resolver rooted at base, falling back to DefaultBaseURL.
func NewResolver(base string) Resolver {
	if base == "" {
		base = DefaultBaseURL
	}
	return Resolver{BaseURL: strings.TrimRight(base, "/")}
}

// KeyframeURL returns the static image for a scene, e.g. .../keyframes/scene-007.jpeg.
func (r Resolver) KeyframeURL(scene int) string {
	return fmt.Sprintf("%s/keyframes/%s.jpeg", r.BaseURL, sceneName(scene))
}

// NarrationURL returns the voice-over track for a scene.
func (r Resolver) NarrationURL(scene int) string {
	return fmt.Sprintf("%s/narration/%s.mp3", r.BaseURL, sceneName(scene))
}

// TransitionURL returns the video bridging two adjacent scenes. Only one video
// exists per pair, so (2,1) and (1,2) resolve to the same asset.
func (r Resolver) TransitionURL(from, to int) string {
	lo, hi := from, to
	if lo > hi {
		lo, hi = hi, lo
	}
	return fmt.Sprintf("%s/transitions/%s-%03d.mp4", r.BaseURL, sceneName(lo), hi)
}

// SceneAssets returns every asset needed to arrive at scene from the one before it.
func (r Resolver) SceneAssets(scene int) SceneAssets {
	a := SceneAssets{
		Keyframe:  r.KeyframeURL(scene),
		Narration: r.NarrationURL(scene),
	}
	if scene > 1 {
		a.Transition = r.TransitionURL(scene-1, scene)
	}
	return a
}

func sceneName(scene int) string {
	return fmt.Sprintf("scene-%03d", scene)
}
