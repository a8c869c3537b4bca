package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"farmergiant/internal/cart"
)

func TestHub_SessionQueuesAreIndependent(t *testing.T) {
	clock := newFakeClock()
	h := NewHub(testConfig(), clock)

	h.Session("s_a").Enqueue(note("n0"))

	assert.Len(t, h.Session("s_a").Visible(), 1)
	assert.Empty(t, h.Session("s_b").Visible())
}

func TestHub_BroadcastReachesActiveSessions(t *testing.T) {
	clock := newFakeClock()
	h := NewHub(testConfig(), clock)

	h.Session("s_a")
	h.Session("s_b")
	h.Broadcast(note("n0"))

	assert.Len(t, h.Session("s_a").Visible(), 1)
	assert.Len(t, h.Session("s_b").Visible(), 1)
}

func TestHub_BroadcastPrunesIdleEmptySessions(t *testing.T) {
	clock := newFakeClock()
	h := NewHub(testConfig(), clock)

	h.Session("s_idle")
	clock.Advance(2 * time.Hour)

	h.Session("s_live")
	h.Broadcast(note("n0"))

	assert.Empty(t, h.Session("s_idle").Visible(), "pruned session starts over empty")
	assert.Len(t, h.Session("s_live").Visible(), 1)
}

func TestCartNotifier_TranslatesAddOutcomes(t *testing.T) {
	clock := newFakeClock()
	h := NewHub(testConfig(), clock)
	notifier := CartNotifier(h, clock)

	p := cart.Product{ID: "p1", Name: "Automatic Chick Feeder", Image: "feeder.jpg"}

	notifier("s_a", cart.Event{Kind: cart.EventAdded, Product: p})

	vis := h.Session("s_a").Visible()
	require.Len(t, vis, 1)
	assert.Equal(t, TypeCart, vis[0].Type)
	assert.Equal(t, "Automatic Chick Feeder added to your cart", vis[0].Message)
	assert.Equal(t, "p1", vis[0].ProductID)
	assert.Equal(t, "feeder.jpg", vis[0].Image)
	assert.NotEmpty(t, vis[0].ID)

	notifier("s_a", cart.Event{Kind: cart.EventDuplicate, Product: p})
	require.True(t, h.Session("s_a").Dismiss(vis[0].ID))

	clock.Advance(testConfig().Cooldown)
	vis = h.Session("s_a").Visible()
	require.Len(t, vis, 1)
	assert.Equal(t, "Automatic Chick Feeder is already in your cart", vis[0].Message)
}

func TestGenerator_NextShape(t *testing.T) {
	clock := newFakeClock()
	g := &Generator{Clock: clock}

	n := g.next()
	assert.Equal(t, TypePurchase, n.Type)
	assert.NotEmpty(t, n.ID)
	assert.NotEmpty(t, n.Customer)
	assert.NotEmpty(t, n.ProductName)
	assert.Contains(t, n.Message, "just ordered the")
	assert.Equal(t, clock.Now(), n.CreatedAt)
}
