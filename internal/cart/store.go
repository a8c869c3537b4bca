package cart

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"
)

type EventKind string

const (
	EventAdded     EventKind = "added"
	EventDuplicate EventKind = "duplicate"
)

// Event reports the outcome of an add. Duplicate means the product was
// already in the cart and nothing changed.
type Event struct {
	Kind    EventKind
	Product Product
}

// Notifier receives the outcome of every add for one session. It replaces
// the globally installed cart hook the storefront UI used to reach.
type Notifier func(sessionID string, ev Event)

// Store binds one session's cart to its durable slot. Mutations persist the
// whole cart inline; persistence failures are logged and swallowed so the
// shopping flow never breaks on a storage hiccup.
type Store struct {
	slot    Slot
	session string
	notify  Notifier
	log     *zap.Logger
	cart    Cart
}

// Open restores the session's cart from the slot. A missing, unreadable or
// unparseable payload starts an empty cart.
func Open(ctx context.Context, slot Slot, sessionID string, notify Notifier, log *zap.Logger) *Store {
	s := &Store{slot: slot, session: sessionID, notify: notify, log: log}

	data, ok, err := slot.Load(ctx, sessionID)
	if err != nil {
		if log != nil {
			log.Warn("cart slot read failed, starting empty",
				zap.String("session", sessionID), zap.Error(err))
		}
		return s
	}
	if !ok {
		return s
	}

	if err := json.Unmarshal(data, &s.cart); err != nil {
		s.cart = Cart{}
		if log != nil {
			log.Warn("cart slot unparseable, starting empty",
				zap.String("session", sessionID), zap.Error(err))
		}
	}
	return s
}

func (s *Store) Items() []LineItem {
	out := make([]LineItem, len(s.cart.Items))
	copy(out, s.cart.Items)
	return out
}

func (s *Store) Count() int { return s.cart.Count() }

func (s *Store) SubtotalCents() int64 { return s.cart.SubtotalCents() }

// AddProduct adds p unless its id is already present. The notifier hears
// about both outcomes; only a real add touches the slot.
func (s *Store) AddProduct(ctx context.Context, p Product) bool {
	added := s.cart.Add(p)
	if added {
		s.persist(ctx)
	}

	if s.notify != nil {
		kind := EventDuplicate
		if added {
			kind = EventAdded
		}
		s.notify(s.session, Event{Kind: kind, Product: p})
	}
	return added
}

func (s *Store) RemoveProduct(ctx context.Context, id string) bool {
	if !s.cart.Remove(id) {
		return false
	}
	s.persist(ctx)
	return true
}

func (s *Store) UpdateQuantity(ctx context.Context, id string, qty int) bool {
	if !s.cart.SetQuantity(id, qty) {
		return false
	}
	s.persist(ctx)
	return true
}

// Clear empties the cart and overwrites the slot with the empty state.
func (s *Store) Clear(ctx context.Context) {
	s.cart.Clear()
	s.persist(ctx)
}

func (s *Store) persist(ctx context.Context) {
	data, err := json.Marshal(s.cart)
	if err != nil {
		if s.log != nil {
			s.log.Error("cart marshal failed", zap.String("session", s.session), zap.Error(err))
		}
		return
	}

	if err := s.slot.Save(ctx, s.session, data); err != nil && s.log != nil {
		s.log.Error("cart slot write failed", zap.String("session", s.session), zap.Error(err))
	}
}
