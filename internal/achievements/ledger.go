// Package achievements keeps the persisted achievement records, the tracking
// sets they are derived from, and the toast queue that announces unlocks.
package achievements

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/abhisek/storyreel/internal/catalog"
	"github.com/abhisek/storyreel/internal/sequencer"
	"github.com/abhisek/storyreel/internal/store"
)

// ErrUnknownAchievement is returned for ids outside the catalog.
var ErrUnknownAchievement = errors.New("unknown achievement")

// visitedItem is the item id used in scenes-visited keys.
const visitedItem = "visited"

// Options wires a Ledger to its collaborators.
type Options struct {
	Catalog *catalog.Catalog

	// KV is the durable namespace.
	KV store.KV

	// Events, when set, receives one event per unlock.
	Events    store.EventRepo
	SessionID string

	Queue  *Queue
	Clock  sequencer.Clock
	Logger *zap.Logger
}

// Ledger owns achievement records and the tracking sets. Every mutation
// persists the whole value before returning.
type Ledger struct {
	cat       *catalog.Catalog
	defs      []Definition
	byID      map[string]Definition
	asideKeys map[string]bool

	records store.Slot[map[string]Record]
	coffee  store.Slot[[]string]
	visited store.Slot[[]string]
	asides  store.Slot[[]string]

	events    store.EventRepo
	sessionID string
	queue     *Queue
	clock     sequencer.Clock
	logger    *zap.Logger

	mu     sync.Mutex
	loaded bool
	state  map[string]Record
	sets   map[string]map[string]bool // storage key -> item keys
}

// NewLedger returns a Ledger over opts.KV. Nothing is read until first use.
func NewLedger(opts Options) *Ledger {
	if opts.Clock == nil {
		opts.Clock = sequencer.Real()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Queue == nil {
		opts.Queue = NewQueue(opts.Clock, DefaultNotificationTTL)
	}

	defs := Definitions(opts.Catalog)
	byID := make(map[string]Definition, len(defs))
	for _, d := range defs {
		byID[d.ID] = d
	}
	asideKeys := make(map[string]bool)
	for _, s := range opts.Catalog.Scenes() {
		for _, a := range s.Asides {
			asideKeys[catalog.ItemKey(s.Index, a.ID)] = true
		}
	}

	return &Ledger{
		cat:       opts.Catalog,
		defs:      defs,
		byID:      byID,
		asideKeys: asideKeys,
		records:   store.NewSlot[map[string]Record](opts.KV, store.KeyAchievements),
		coffee:    store.NewSlot[[]string](opts.KV, store.KeyCoffeeFound),
		visited:   store.NewSlot[[]string](opts.KV, store.KeyScenesVisited),
		asides:    store.NewSlot[[]string](opts.KV, store.KeyAsidesClicked),
		events:    opts.Events,
		sessionID: opts.SessionID,
		queue:     opts.Queue,
		clock:     opts.Clock,
		logger:    opts.Logger,
	}
}

// Queue returns the notification queue unlocks are announced on.
func (l *Ledger) Queue() *Queue { return l.queue }

// Definitions returns the achievement catalog in display order.
func (l *Ledger) Definitions() []Definition {
	out := make([]Definition, len(l.defs))
	copy(out, l.defs)
	return out
}

// Load reads persisted state and applies the completionist rule. It runs
// implicitly on first use; corrupt values are logged and read as empty.
func (l *Ledger) Load(ctx context.Context) error {
	l.mu.Lock()
	l.loaded = false
	unlocked, err := l.loadLocked(ctx)
	l.mu.Unlock()

	l.announce(ctx, unlocked)
	return err
}

// Get returns the record for id. Records that were never touched read as
// incomplete with zero progress.
func (l *Ledger) Get(ctx context.Context, id string) (Record, error) {
	if _, ok := l.byID[id]; !ok {
		return Record{}, fmt.Errorf("%w: %s", ErrUnknownAchievement, id)
	}
	l.mu.Lock()
	unlocked, err := l.ensureLocked(ctx)
	rec := l.recordLocked(id)
	l.mu.Unlock()

	l.announce(ctx, unlocked)
	return rec, err
}

// All returns every achievement with its record, in display order.
func (l *Ledger) All(ctx context.Context) []Status {
	l.mu.Lock()
	unlocked, err := l.ensureLocked(ctx)
	out := make([]Status, 0, len(l.defs))
	for _, d := range l.defs {
		out = append(out, Status{Definition: d, Record: l.recordLocked(d.ID)})
	}
	l.mu.Unlock()

	if err != nil {
		l.logger.Warn("achievement load failed", zap.Error(err))
	}
	l.announce(ctx, unlocked)
	return out
}

// Unlock completes id. It reports true only the first time; later calls
// leave the record, including its timestamp, untouched.
func (l *Ledger) Unlock(ctx context.Context, id string) (bool, error) {
	if _, ok := l.byID[id]; !ok {
		return false, fmt.Errorf("%w: %s", ErrUnknownAchievement, id)
	}

	l.mu.Lock()
	unlocked, _ := l.ensureLocked(ctx)
	rec := l.recordLocked(id)
	if rec.Completed {
		l.mu.Unlock()
		l.announce(ctx, unlocked)
		return false, nil
	}
	l.completeLocked(&rec)
	l.state[id] = rec
	unlocked = append(unlocked, rec)
	unlocked = append(unlocked, l.evaluateLocked()...)
	err := l.saveRecordsLocked(ctx)
	l.mu.Unlock()

	l.announce(ctx, unlocked)
	return true, err
}

// UpdateProgress stores n as the authoritative progress for id. Reaching
// the achievement's MaxProgress completes it, reported by the bool.
// Completed achievements ignore further updates.
func (l *Ledger) UpdateProgress(ctx context.Context, id string, n int) (Record, bool, error) {
	if _, ok := l.byID[id]; !ok {
		return Record{}, false, fmt.Errorf("%w: %s", ErrUnknownAchievement, id)
	}

	l.mu.Lock()
	unlocked, _ := l.ensureLocked(ctx)
	rec, fresh := l.progressLocked(id, n)
	var err error
	if fresh {
		unlocked = append(unlocked, rec)
		unlocked = append(unlocked, l.evaluateLocked()...)
	}
	if !rec.Completed || fresh {
		err = l.saveRecordsLocked(ctx)
	}
	l.mu.Unlock()

	l.announce(ctx, unlocked)
	return rec, fresh, err
}

// MarkAsideClicked records that an aside was opened. Asides the catalog does
// not list are ignored.
func (l *Ledger) MarkAsideClicked(ctx context.Context, scene int, asideID string) error {
	key := catalog.ItemKey(scene, asideID)
	if !l.asideKeys[key] {
		l.logger.Debug("ignoring unknown aside", zap.String("key", key))
		return nil
	}
	return l.mark(ctx, l.asides, key, func(set map[string]bool) []progress {
		n := l.knownAsides(set)
		return []progress{{FirstAside, n, true}, {AsideHunter, n, false}}
	})
}

// MarkCoffeeFound records that a hidden coffee item was found.
func (l *Ledger) MarkCoffeeFound(ctx context.Context, scene int, itemID string) error {
	return l.mark(ctx, l.coffee, catalog.ItemKey(scene, itemID), func(set map[string]bool) []progress {
		return []progress{{CoffeeAddict, len(set), false}}
	})
}

// MarkSceneVisited records that the viewer came to rest on scene.
func (l *Ledger) MarkSceneVisited(ctx context.Context, scene int) error {
	return l.mark(ctx, l.visited, catalog.ItemKey(scene, visitedItem), func(set map[string]bool) []progress {
		p := []progress{{Explorer, len(set), false}}
		if scene >= 2 {
			p = append(p, progress{FirstSteps, 1, true})
		}
		if scene == l.cat.Len() && scene > 1 {
			p = append(p, progress{TheEnd, 1, true})
		}
		return p
	})
}

// Found reports whether a tracking key has been recorded, for the UI to mark
// asides and coffee the viewer already found.
func (l *Ledger) Found(ctx context.Context, scene int, itemID string) bool {
	key := catalog.ItemKey(scene, itemID)

	l.mu.Lock()
	unlocked, _ := l.ensureLocked(ctx)
	found := false
	for _, set := range l.sets {
		if set[key] {
			found = true
			break
		}
	}
	l.mu.Unlock()

	l.announce(ctx, unlocked)
	return found
}

// Visited reports whether the viewer has come to rest on scene.
func (l *Ledger) Visited(ctx context.Context, scene int) bool {
	return l.Found(ctx, scene, visitedItem)
}

// Counts returns the size of each tracking set.
func (l *Ledger) Counts(ctx context.Context) (asides, coffee, visited int) {
	l.mu.Lock()
	unlocked, _ := l.ensureLocked(ctx)
	asides = l.knownAsides(l.sets[l.asides.Key()])
	coffee = len(l.sets[l.coffee.Key()])
	visited = len(l.sets[l.visited.Key()])
	l.mu.Unlock()

	l.announce(ctx, unlocked)
	return asides, coffee, visited
}

// Reset forgets every record, tracking set, logged event and pending toast.
func (l *Ledger) Reset(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	var errs []error
	for _, fn := range []func(context.Context) error{
		l.records.Clear, l.coffee.Clear, l.visited.Clear, l.asides.Clear,
	} {
		if err := fn(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if l.events != nil {
		if err := l.events.ClearAchievementEvents(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	l.state = make(map[string]Record)
	l.sets = make(map[string]map[string]bool)
	l.loaded = true
	l.queue.Clear()
	return errors.Join(errs...)
}

// progress is one achievement update derived from a tracking set. Unlock
// entries complete the achievement once value is positive.
type progress struct {
	id     string
	value  int
	unlock bool
}

func (l *Ledger) mark(ctx context.Context, slot store.Slot[[]string], key string, derive func(set map[string]bool) []progress) error {
	l.mu.Lock()
	unlocked, _ := l.ensureLocked(ctx)

	set := l.setLocked(slot.Key())
	var errs []error
	if !set[key] {
		set[key] = true
		if err := slot.Save(ctx, sortedKeys(set)); err != nil {
			errs = append(errs, fmt.Errorf("save %s: %w", slot.Key(), err))
		}
	}

	dirty := false
	for _, p := range derive(set) {
		if _, ok := l.byID[p.id]; !ok {
			continue
		}
		if p.unlock {
			rec := l.recordLocked(p.id)
			if rec.Completed || p.value <= 0 {
				continue
			}
			l.completeLocked(&rec)
			l.state[p.id] = rec
			unlocked = append(unlocked, rec)
			dirty = true
			continue
		}
		rec, fresh := l.progressLocked(p.id, p.value)
		if fresh {
			unlocked = append(unlocked, rec)
		}
		dirty = dirty || !rec.Completed || fresh
	}
	if extra := l.evaluateLocked(); len(extra) > 0 {
		unlocked = append(unlocked, extra...)
		dirty = true
	}
	if dirty {
		if err := l.saveRecordsLocked(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	l.mu.Unlock()

	l.announce(ctx, unlocked)
	return errors.Join(errs...)
}

// progressLocked applies a progress value and reports a fresh completion.
func (l *Ledger) progressLocked(id string, n int) (Record, bool) {
	rec := l.recordLocked(id)
	if rec.Completed {
		return rec, false
	}
	rec.Progress = n
	def := l.byID[id]
	fresh := false
	if def.HasProgress() && n >= def.MaxProgress {
		l.completeLocked(&rec)
		fresh = true
	}
	l.state[id] = rec
	return rec, fresh
}

func (l *Ledger) completeLocked(rec *Record) {
	now := l.clock.Now().UTC()
	rec.Completed = true
	rec.UnlockedAt = &now
}

// evaluateLocked applies the completionist rule: every other achievement is
// complete and every aside in the catalog has been opened.
func (l *Ledger) evaluateLocked() []Record {
	if _, ok := l.byID[Completionist]; !ok {
		return nil
	}
	if l.recordLocked(Completionist).Completed {
		return nil
	}
	for _, d := range l.defs {
		if d.ID != Completionist && !l.recordLocked(d.ID).Completed {
			return nil
		}
	}
	clicked := l.setLocked(l.asides.Key())
	for k := range l.asideKeys {
		if !clicked[k] {
			return nil
		}
	}

	rec := l.recordLocked(Completionist)
	l.completeLocked(&rec)
	l.state[Completionist] = rec
	return []Record{rec}
}

// knownAsides counts the opened asides the catalog still lists.
func (l *Ledger) knownAsides(set map[string]bool) int {
	n := 0
	for k := range set {
		if l.asideKeys[k] {
			n++
		}
	}
	return n
}

func (l *Ledger) recordLocked(id string) Record {
	if rec, ok := l.state[id]; ok {
		rec.ID = id
		return rec
	}
	return Record{ID: id}
}

func (l *Ledger) setLocked(key string) map[string]bool {
	set, ok := l.sets[key]
	if !ok {
		set = make(map[string]bool)
		l.sets[key] = set
	}
	return set
}

func (l *Ledger) ensureLocked(ctx context.Context) ([]Record, error) {
	if l.loaded {
		return nil, nil
	}
	return l.loadLocked(ctx)
}

func (l *Ledger) loadLocked(ctx context.Context) ([]Record, error) {
	l.loaded = true
	l.state = make(map[string]Record)
	l.sets = make(map[string]map[string]bool)

	var errs []error
	records, err := l.records.Load(ctx)
	if err != nil {
		l.logger.Warn("achievement records unreadable, starting empty", zap.Error(err))
		errs = append(errs, err)
	}
	for id, rec := range records {
		if _, ok := l.byID[id]; ok {
			rec.ID = id
			l.state[id] = rec
		}
	}

	for _, slot := range []store.Slot[[]string]{l.asides, l.coffee, l.visited} {
		keys, err := slot.Load(ctx)
		if err != nil {
			l.logger.Warn("tracking set unreadable, starting empty",
				zap.String("key", slot.Key()), zap.Error(err))
			errs = append(errs, err)
		}
		set := l.setLocked(slot.Key())
		for _, k := range keys {
			set[k] = true
		}
	}

	unlocked := l.evaluateLocked()
	if len(unlocked) > 0 {
		if err := l.saveRecordsLocked(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return unlocked, errors.Join(errs...)
}

func (l *Ledger) saveRecordsLocked(ctx context.Context) error {
	out := make(map[string]Record, len(l.state))
	for id, rec := range l.state {
		out[id] = rec
	}
	if err := l.records.Save(ctx, out); err != nil {
		return fmt.Errorf("save achievements: %w", err)
	}
	return nil
}

// announce queues a toast and logs an event per unlock. Event log failures
// are logged and otherwise ignored.
func (l *Ledger) announce(ctx context.Context, unlocked []Record) {
	for _, rec := range unlocked {
		def := l.byID[rec.ID]
		l.queue.Push(def)
		l.logger.Info("achievement unlocked",
			zap.String("id", rec.ID),
			zap.Int("progress", rec.Progress))
		if l.events == nil {
			continue
		}
		err := l.events.AppendAchievementEvent(ctx, store.AchievementEventData{
			AchievementID: rec.ID,
			Title:         def.Title,
			SessionID:     l.sessionID,
			Progress:      rec.Progress,
		})
		if err != nil {
			l.logger.Warn("record achievement event", zap.String("id", rec.ID), zap.Error(err))
		}
	}
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// UnlockedAt formats a record's unlock time for display, or "".
func UnlockedAt(rec Record, layout string) string {
	if rec.UnlockedAt == nil {
		return ""
	}
	return rec.UnlockedAt.Local().Format(layout)
}
