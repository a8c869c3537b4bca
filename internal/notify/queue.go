package notify

import (
	"sync"
	"time"
)

type Config struct {
	// DisplayFor is how long a promoted notification stays visible.
	DisplayFor time.Duration
	// PurgeAfter is how long a hidden entry lingers in the backing queue so
	// an exit transition can finish before it disappears.
	PurgeAfter time.Duration
	// Cooldown suppresses promotion after a manual dismissal.
	Cooldown time.Duration
	// MaxQueued bounds the backing queue; enqueues past the cap are dropped.
	MaxQueued int
}

func DefaultConfig() Config {
	return Config{
		DisplayFor: 6 * time.Second,
		PurgeAfter: 4 * time.Second,
		Cooldown:   10 * time.Minute,
		MaxQueued:  50,
	}
}

// entry tracks one notification through queued -> visible -> hiding ->
// removed. shownAt and hiddenAt are zero until the transition happens.
type entry struct {
	n        Notification
	shownAt  time.Time
	hiddenAt time.Time
}

// Queue shows queued notifications one at a time. State is evaluated
// lazily against the injected clock on every read, so there are no
// per-notification timers to invalidate: an entry dismissed early simply
// has its hiddenAt stamped and later evaluation sees it hidden.
type Queue struct {
	mu            sync.Mutex
	cfg           Config
	clock         Clock
	entries       []*entry
	cooldownUntil time.Time
}

func NewQueue(cfg Config, clock Clock) *Queue {
	if clock == nil {
		clock = SystemClock()
	}
	return &Queue{cfg: cfg, clock: clock}
}

// Enqueue appends n to the backing queue. A zero CreatedAt is stamped with
// the queue's clock.
func (q *Queue) Enqueue(n Notification) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.cfg.MaxQueued > 0 && len(q.entries) >= q.cfg.MaxQueued {
		return
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = q.clock.Now()
	}
	q.entries = append(q.entries, &entry{n: n})
}

// Visible advances the state machine to now and returns the visible set:
// at most one notification.
func (q *Queue) Visible() []Notification {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.advance(q.clock.Now())

	if e := q.visibleLocked(); e != nil {
		return []Notification{e.n}
	}
	return nil
}

// Dismiss hides the visible notification with the given id and arms the
// cooldown window. Unknown or already-hidden ids are a no-op.
func (q *Queue) Dismiss(id string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	now := q.clock.Now()
	q.advance(now)

	for _, e := range q.entries {
		if e.n.ID == id && !e.shownAt.IsZero() && e.hiddenAt.IsZero() {
			e.hiddenAt = now
			q.cooldownUntil = now.Add(q.cfg.Cooldown)
			return true
		}
	}
	return false
}

// Len reports the backing queue length after purging.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.advance(q.clock.Now())
	return len(q.entries)
}

// advance applies, in order: auto-hide of expired visible entries, purge of
// long-hidden entries, then promotion of the oldest unshown entry when the
// slot is free and no cooldown is running. Caller holds mu.
func (q *Queue) advance(now time.Time) {
	for _, e := range q.entries {
		if !e.shownAt.IsZero() && e.hiddenAt.IsZero() && now.Sub(e.shownAt) >= q.cfg.DisplayFor {
			e.hiddenAt = e.shownAt.Add(q.cfg.DisplayFor)
		}
	}

	kept := q.entries[:0]
	for _, e := range q.entries {
		if e.hiddenAt.IsZero() || now.Sub(e.hiddenAt) < q.cfg.PurgeAfter {
			kept = append(kept, e)
		}
	}
	q.entries = kept

	if q.visibleLocked() != nil || now.Before(q.cooldownUntil) {
		return
	}
	for _, e := range q.entries {
		if e.shownAt.IsZero() {
			e.shownAt = now
			return
		}
	}
}

func (q *Queue) visibleLocked() *entry {
	for _, e := range q.entries {
		if !e.shownAt.IsZero() && e.hiddenAt.IsZero() {
			return e
		}
	}
	return nil
}
