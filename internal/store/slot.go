package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Persisted keys, shared with earlier browser builds of the story.
const (
	KeyNarrationsPlayed   = "story_narrations_played"
	KeyAchievements       = "personal-story-achievements"
	KeyOnboardingComplete = "personal-story-onboarding-complete"
	KeyCoffeeFound        = "story-coffee-found"
	KeyScenesVisited      = "story-scenes-visited"
	KeyAsidesClicked      = "story-asides-clicked"
)

// ErrCorrupt reports a stored value that could not be decoded.
var ErrCorrupt = errors.New("corrupt stored value")

// Slot is a typed JSON value stored under a single key.
type Slot[T any] struct {
	kv  KV
	key string
}

// NewSlot binds a Slot to key inside kv.
func NewSlot[T any](kv KV, key string) Slot[T] {
	return Slot[T]{kv: kv, key: key}
}

// Key returns the namespaced key the slot reads and writes.
func (s Slot[T]) Key() string {
	return s.key
}

// Load decodes the stored value. Missing keys yield the zero value and no
// error. Unreadable or corrupt data yields the zero value and an error the
// caller is expected to log and otherwise ignore.
func (s Slot[T]) Load(ctx context.Context) (T, error) {
	var zero T
	raw, ok, err := s.kv.Get(ctx, s.key)
	if err != nil {
		return zero, err
	}
	if !ok || raw == "" {
		return zero, nil
	}
	var v T
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return zero, fmt.Errorf("%w: %s: %v", ErrCorrupt, s.key, err)
	}
	return v, nil
}

// Save overwrites the stored value.
func (s Slot[T]) Save(ctx context.Context, v T) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", s.key, err)
	}
	return s.kv.Set(ctx, s.key, string(b))
}

// Clear removes the stored value.
func (s Slot[T]) Clear(ctx context.Context) error {
	return s.kv.Delete(ctx, s.key)
}

// Flag is a boolean stored as the string "true".
type Flag struct {
	kv  KV
	key string
}

// NewFlag binds a Flag to key inside kv.
func NewFlag(kv KV, key string) Flag {
	return Flag{kv: kv, key: key}
}

// Get reports whether the flag is set. Read errors count as unset.
func (f Flag) Get(ctx context.Context) bool {
	v, ok, err := f.kv.Get(ctx, f.key)
	if err != nil || !ok {
		return false
	}
	return v == "true"
}

// Set stores the flag.
func (f Flag) Set(ctx context.Context, on bool) error {
	if !on {
		return f.kv.Delete(ctx, f.key)
	}
	return f.kv.Set(ctx, f.key, "true")
}
