package achievements

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/storyreel/internal/sequencer"
)

// DefaultNotificationTTL is how long each unlock toast stays on screen.
const DefaultNotificationTTL = 4 * time.Second

// Notification is a transient unlock toast. Toasts queue: each becomes
// visible when the one before it expires.
type Notification struct {
	ID          string
	Definition  Definition
	VisibleFrom time.Time
	ExpiresAt   time.Time
}

// Visible reports whether n is the toast on screen at now.
func (n Notification) Visible(now time.Time) bool {
	return !now.Before(n.VisibleFrom) && now.Before(n.ExpiresAt)
}

// Queue holds pending and visible unlock notifications.
type Queue struct {
	clock sequencer.Clock
	ttl   time.Duration

	mu          sync.Mutex
	items       []Notification
	lastExpires time.Time
	subs        []subscriber
	nextSub     int
}

type subscriber struct {
	id int
	fn func(Notification)
}

// NewQueue returns an empty Queue. A non-positive ttl uses the default.
func NewQueue(clock sequencer.Clock, ttl time.Duration) *Queue {
	if ttl <= 0 {
		ttl = DefaultNotificationTTL
	}
	return &Queue{clock: clock, ttl: ttl}
}

// Push enqueues a toast for def behind any toast still pending.
func (q *Queue) Push(def Definition) Notification {
	now := q.clock.Now()

	q.mu.Lock()
	q.expireLocked(now)
	from := now
	if q.lastExpires.After(from) {
		from = q.lastExpires
	}
	n := Notification{
		ID:          uuid.NewString(),
		Definition:  def,
		VisibleFrom: from,
		ExpiresAt:   from.Add(q.ttl),
	}
	q.items = append(q.items, n)
	q.lastExpires = n.ExpiresAt
	subs := make([]subscriber, len(q.subs))
	copy(subs, q.subs)
	q.mu.Unlock()

	for _, s := range subs {
		s.fn(n)
	}
	return n
}

// Active returns the toast visible at now.
func (q *Queue) Active(now time.Time) (Notification, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.expireLocked(now)
	for _, n := range q.items {
		if n.Visible(now) {
			return n, true
		}
	}
	return Notification{}, false
}

// Pending returns every toast not yet expired at now, oldest first.
func (q *Queue) Pending(now time.Time) []Notification {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.expireLocked(now)
	out := make([]Notification, len(q.items))
	copy(out, q.items)
	return out
}

// Expire drops toasts that expired by now and reports how many went.
func (q *Queue) Expire(now time.Time) int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.expireLocked(now)
}

// Clear drops every toast.
func (q *Queue) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = nil
	q.lastExpires = time.Time{}
}

// Subscribe registers fn for every pushed toast.
func (q *Queue) Subscribe(fn func(Notification)) (unsubscribe func()) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.nextSub++
	id := q.nextSub
	q.subs = append(q.subs, subscriber{id: id, fn: fn})
	return func() {
		q.mu.Lock()
		defer q.mu.Unlock()
		for i, s := range q.subs {
			if s.id == id {
				q.subs = append(q.subs[:i:i], q.subs[i+1:]...)
				return
			}
		}
	}
}

func (q *Queue) expireLocked(now time.Time) int {
	kept := q.items[:0]
	for _, n := range q.items {
		if now.Before(n.ExpiresAt) {
			kept = append(kept, n)
		}
	}
	dropped := len(q.items) - len(kept)
	clear(q.items[len(kept):])
	q.items = kept
	return dropped
}
