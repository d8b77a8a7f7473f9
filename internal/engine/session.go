// Package engine wires the playback components into one story session: the
// state machine drives the transition video, narration, preloading and the
// achievement ledger.
package engine

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/storyreel/internal/achievements"
	"github.com/abhisek/storyreel/internal/assets"
	"github.com/abhisek/storyreel/internal/catalog"
	"github.com/abhisek/storyreel/internal/media"
	"github.com/abhisek/storyreel/internal/narration"
	"github.com/abhisek/storyreel/internal/sequencer"
	"github.com/abhisek/storyreel/internal/store"
	"github.com/abhisek/storyreel/internal/transition"
)

// Preloader warms the cache for the next reachable scene.
type Preloader interface {
	Target(next int)
}

// Config holds a Session's collaborators. Video, Audio, Durable and
// SessionKV are required.
type Config struct {
	Catalog  *catalog.Catalog
	Resolver assets.Resolver
	Clock    sequencer.Clock

	Video media.VideoElement
	Audio narration.AudioElement

	// Durable holds achievements; SessionKV holds the narration played set.
	Durable   store.KV
	SessionKV store.KV
	Events    store.EventRepo
	SessionID string

	Preloader       Preloader
	Driver          media.Options
	NotificationTTL time.Duration
	Logger          *zap.Logger
}

// Session is one viewer's pass through the story.
type Session struct {
	cat       *catalog.Catalog
	machine   *transition.Machine
	driver    *media.Driver
	narrator  *narration.Player
	ledger    *achievements.Ledger
	preloader Preloader
	video     media.VideoElement
	logger    *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu          sync.Mutex
	started     bool
	closed      bool
	unsubscribe func()
}

// New assembles a Session idle at scene 1. Call Start before the first
// Advance.
func New(cfg Config) *Session {
	if cfg.Clock == nil {
		cfg.Clock = sequencer.Real()
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		cat:       cfg.Catalog,
		machine:   transition.NewMachine(cfg.Catalog.Len()),
		driver:    media.NewDriver(cfg.Video, cfg.Resolver, cfg.Clock, cfg.Driver, cfg.Logger.Named("driver")),
		narrator:  narration.NewPlayer(cfg.Audio, cfg.Resolver, cfg.SessionKV, cfg.Logger.Named("narration")),
		preloader: cfg.Preloader,
		video:     cfg.Video,
		logger:    cfg.Logger,
		ctx:       ctx,
		cancel:    cancel,
	}
	s.ledger = achievements.NewLedger(achievements.Options{
		Catalog:   cfg.Catalog,
		KV:        cfg.Durable,
		Events:    cfg.Events,
		SessionID: cfg.SessionID,
		Queue:     achievements.NewQueue(cfg.Clock, cfg.NotificationTTL),
		Clock:     cfg.Clock,
		Logger:    cfg.Logger.Named("achievements"),
	})
	s.driver.SetListener(media.Listener{
		OnCompleted: func(from, to int) { s.machine.CompleteTransition() },
	})
	return s
}

// Start loads persisted state and handles arrival at the first scene.
func (s *Session) Start() {
	s.mu.Lock()
	if s.started || s.closed {
		s.mu.Unlock()
		return
	}
	s.started = true
	s.unsubscribe = s.machine.Subscribe(s.onState)
	s.mu.Unlock()

	if err := s.ledger.Load(s.ctx); err != nil {
		s.logger.Warn("achievement state partly unreadable", zap.Error(err))
	}
	st := s.machine.Snapshot()
	s.driver.SetBackground(st.Current)
	s.arrive(st)
}

func (s *Session) onState(st transition.State) {
	if s.ctx.Err() != nil {
		return
	}
	if !st.Transitioning {
		s.arrive(st)
		return
	}

	s.logger.Debug("transition",
		zap.Int("from", st.From()),
		zap.Int("to", st.To()),
		zap.Stringer("direction", st.Direction))
	s.narrator.Trigger(s.ctx, st.To(), st.Direction == transition.Forward)
	s.driver.Start(s.ctx, st.From(), st.To(), st.Direction)
}

// arrive runs when the viewer comes to rest on a scene.
func (s *Session) arrive(st transition.State) {
	if err := s.ledger.MarkSceneVisited(s.ctx, st.Current); err != nil {
		s.logger.Warn("mark scene visited", zap.Int("scene", st.Current), zap.Error(err))
	}
	if s.preloader != nil {
		s.preloader.Target(st.Current + 1)
	}
}

// Advance requests the next scene. It reports whether a transition began.
func (s *Session) Advance() bool { return s.machine.Advance() }

// Retreat requests the previous scene.
func (s *Session) Retreat() bool { return s.machine.Retreat() }

// Snapshot returns the transition state.
func (s *Session) Snapshot() transition.State { return s.machine.Snapshot() }

// Subscribe registers fn for transition state changes.
func (s *Session) Subscribe(fn func(transition.State)) func() { return s.machine.Subscribe(fn) }

// MarkAside records an opened aside in the current scene.
func (s *Session) MarkAside(asideID string) error {
	return s.ledger.MarkAsideClicked(s.ctx, s.machine.Snapshot().Current, asideID)
}

// MarkCoffee records a coffee item found in the current scene.
func (s *Session) MarkCoffee(itemID string) error {
	return s.ledger.MarkCoffeeFound(s.ctx, s.machine.Snapshot().Current, itemID)
}

// Scene returns the catalog entry for the current scene.
func (s *Session) Scene() catalog.Scene {
	sc, _ := s.cat.Scene(s.machine.Snapshot().Current)
	return sc
}

func (s *Session) Catalog() *catalog.Catalog          { return s.cat }
func (s *Session) Driver() *media.Driver              { return s.driver }
func (s *Session) Narrator() *narration.Player        { return s.narrator }
func (s *Session) Ledger() *achievements.Ledger       { return s.ledger }
func (s *Session) Notifications() *achievements.Queue { return s.ledger.Queue() }

// TransitionProgress reports how far the transition video has played, 0..1.
// Reverse playback counts down from 1.
func (s *Session) TransitionProgress() float64 {
	p, ok := s.video.(interface{ Progress() float64 })
	if !ok || !s.driver.Visible() {
		return 0
	}
	return p.Progress()
}

// Close detaches every listener and stops playback. Callbacks never reach
// the state machine afterwards.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	unsubscribe := s.unsubscribe
	s.mu.Unlock()

	s.cancel()
	if unsubscribe != nil {
		unsubscribe()
	}
	s.driver.Close()
	s.narrator.Trigger(context.Background(), 0, false)
}
