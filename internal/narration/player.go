// Package narration plays each scene's voice-over at most once per session.
package narration

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/storyreel/internal/assets"
	"github.com/abhisek/storyreel/internal/store"
)

// AudioElement is the narration output the Player owns.
type AudioElement interface {
	Load(url string)
	Play(ctx context.Context) error
	Pause()
	Seek(pos time.Duration)
	Playing() bool
}

// Player gates narration playback on the session's played set.
type Player struct {
	audio    AudioElement
	resolver assets.Resolver
	slot     store.Slot[[]int]
	logger   *zap.Logger

	mu      sync.Mutex
	played  map[int]bool
	loaded  bool
	current int
}

// NewPlayer returns a Player that records played scenes in kv, which should
// be the session namespace.
func NewPlayer(audio AudioElement, resolver assets.Resolver, kv store.KV, logger *zap.Logger) *Player {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Player{
		audio:    audio,
		resolver: resolver,
		slot:     store.NewSlot[[]int](kv, store.KeyNarrationsPlayed),
		logger:   logger,
		played:   make(map[int]bool),
	}
}

// Trigger handles a scene-entry signal. With shouldPlay, the scene's track
// starts unless it already played this session; the scene is marked before
// playback is requested. Without shouldPlay, a playing track is paused and
// rewound. Playback failures are logged, never returned.
func (p *Player) Trigger(ctx context.Context, scene int, shouldPlay bool) {
	if !shouldPlay {
		if p.audio.Playing() {
			p.audio.Pause()
			p.audio.Seek(0)
		}
		return
	}

	p.mu.Lock()
	p.loadLocked(ctx)
	if p.played[scene] {
		p.mu.Unlock()
		return
	}
	p.played[scene] = true
	p.current = scene
	if err := p.slot.Save(ctx, p.sortedLocked()); err != nil {
		p.logger.Warn("persist narration played set", zap.Error(err))
	}
	p.mu.Unlock()

	url := p.resolver.NarrationURL(scene)
	p.audio.Load(url)
	if err := p.audio.Play(ctx); err != nil {
		p.logger.Warn("narration playback failed",
			zap.Int("scene", scene),
			zap.String("url", url),
			zap.Error(err))
	}
}

// Played reports whether scene's narration has started this session.
func (p *Player) Played(ctx context.Context, scene int) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.loadLocked(ctx)
	return p.played[scene]
}

// PlayedScenes returns the played set in ascending order.
func (p *Player) PlayedScenes(ctx context.Context) []int {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.loadLocked(ctx)
	return p.sortedLocked()
}

// NowPlaying returns the scene whose track is audible, if any.
func (p *Player) NowPlaying() (int, bool) {
	if !p.audio.Playing() {
		return 0, false
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current, p.current > 0
}

// Reset empties the played set and silences any track.
func (p *Player) Reset(ctx context.Context) error {
	p.audio.Pause()
	p.audio.Seek(0)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.played = make(map[int]bool)
	p.loaded = true
	p.current = 0
	return p.slot.Clear(ctx)
}

func (p *Player) loadLocked(ctx context.Context) {
	if p.loaded {
		return
	}
	p.loaded = true
	scenes, err := p.slot.Load(ctx)
	if err != nil {
		p.logger.Warn("narration played set unreadable, starting empty", zap.Error(err))
	}
	for _, s := range scenes {
		p.played[s] = true
	}
}

func (p *Player) sortedLocked() []int {
	out := make([]int, 0, len(p.played))
	for s := range p.played {
		out = append(out, s)
	}
	sort.Ints(out)
	return out
}
