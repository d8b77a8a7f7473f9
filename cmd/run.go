package cmd

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/storyreel/internal/app"
	"github.com/abhisek/storyreel/internal/engine"
	"github.com/abhisek/storyreel/internal/keyframe"
	"github.com/abhisek/storyreel/internal/media"
	"github.com/abhisek/storyreel/internal/preload"
	"github.com/abhisek/storyreel/internal/sequencer"
	"github.com/abhisek/storyreel/internal/store"
)

// runApp opens the environment, builds a story session, and launches the TUI.
func runApp(cmd *cobra.Command, startInStory bool) error {
	ctx := cmd.Context()
	env, err := openEnvironment(cmd, true)
	if err != nil {
		return err
	}
	defer env.Close()

	sessionID := uuid.NewString()
	if n, err := env.store.PruneSessions(ctx, sessionID); err != nil {
		env.logger.Warn("prune sessions", zap.Error(err))
	} else if n > 0 {
		env.logger.Debug("pruned stale session rows", zap.Int64("rows", n))
	}

	cfg := engine.Config{
		Catalog:         env.catalog,
		Resolver:        env.resolver,
		Clock:           sequencer.Real(),
		Durable:         env.store.Durable(),
		SessionKV:       env.store.Session(sessionID),
		Events:          env.store.EventRepo(),
		SessionID:       sessionID,
		Driver:          env.cfg.DriverOptions(),
		NotificationTTL: env.cfg.NotificationTTL(),
		Logger:          env.logger,
	}

	lookup := func(string) (string, bool) { return "", false }
	if env.cfg.Preload.Enabled {
		p, err := preload.New(env.resolver, env.catalog.Len(), env.cfg.PreloadOptions(), env.logger.Named("preload"))
		if err != nil {
			return fmt.Errorf("start preloader: %w", err)
		}
		defer p.Close()
		cfg.Preloader = p
		lookup = p.Cached
	}

	transitions := make(map[string]time.Duration, env.catalog.Len())
	for i := 1; i < env.catalog.Len(); i++ {
		if d := env.catalog.TransitionLength(i); d > 0 {
			transitions[env.resolver.TransitionURL(i, i+1)] = d
		}
	}
	video := media.NewSimulatedVideo(cfg.Clock, media.TableDuration(transitions, env.cfg.DefaultTransition()))
	defer video.Close()
	audio := media.NewSimulatedAudio(cfg.Clock,
		media.CachedProbe(lookup, env.cfg.DefaultNarration(), env.logger.Named("probe")))
	defer audio.Close()
	cfg.Video, cfg.Audio = video, audio

	session := engine.New(cfg)
	session.Start()
	defer session.Close()

	onboarding := store.NewFlag(cfg.Durable, store.KeyOnboardingComplete)
	env.logger.Info("session started",
		zap.String("session", sessionID),
		zap.Int("scenes", env.catalog.Len()))

	return app.Run(app.Options{
		Session:      session,
		Keyframes:    keyframe.NewSource(env.resolver.KeyframeURL, lookup),
		Events:       cfg.Events,
		Onboarding:   &onboarding,
		StartInStory: startInStory,
	})
}
