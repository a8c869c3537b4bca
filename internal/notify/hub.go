package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"farmergiant/internal/cart"
)

const sessionIdleLimit = time.Hour

// Hub keys one queue per browsing session, mirroring the cart's session
// scoping. Queues for sessions idle past sessionIdleLimit with nothing
// pending are dropped on the next broadcast.
type Hub struct {
	mu     sync.Mutex
	cfg    Config
	clock  Clock
	queues map[string]*hubSession
}

type hubSession struct {
	q      *Queue
	seenAt time.Time
}

func NewHub(cfg Config, clock Clock) *Hub {
	if clock == nil {
		clock = SystemClock()
	}
	return &Hub{cfg: cfg, clock: clock, queues: map[string]*hubSession{}}
}

// Session returns the queue for id, creating it on first use.
func (h *Hub) Session(id string) *Queue {
	h.mu.Lock()
	defer h.mu.Unlock()

	s, ok := h.queues[id]
	if !ok {
		s = &hubSession{q: NewQueue(h.cfg, h.clock)}
		h.queues[id] = s
	}
	s.seenAt = h.clock.Now()
	return s.q
}

// Broadcast enqueues n on every active session queue.
func (h *Hub) Broadcast(n Notification) {
	h.mu.Lock()
	defer h.mu.Unlock()

	now := h.clock.Now()
	for id, s := range h.queues {
		if now.Sub(s.seenAt) > sessionIdleLimit && s.q.Len() == 0 {
			delete(h.queues, id)
			continue
		}
		s.q.Enqueue(n)
	}
}

// CartNotifier adapts the hub into the cart package's notify callback: add
// outcomes become cart-type notifications on the session's queue.
func CartNotifier(hub *Hub, clock Clock) cart.Notifier {
	if clock == nil {
		clock = SystemClock()
	}
	return func(sessionID string, ev cart.Event) {
		msg := ev.Product.Name + " added to your cart"
		if ev.Kind == cart.EventDuplicate {
			msg = ev.Product.Name + " is already in your cart"
		}

		hub.Session(sessionID).Enqueue(Notification{
			ID:          uuid.NewString(),
			Type:        TypeCart,
			Message:     msg,
			ProductID:   ev.Product.Key(),
			ProductName: ev.Product.Name,
			Image:       ev.Product.Image,
			CreatedAt:   clock.Now(),
		})
	}
}
