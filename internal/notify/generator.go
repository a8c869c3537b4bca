package notify

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	defaultCustomers = []string{
		"Adaeze from Enugu", "Musa from Kano", "Chinedu from Aba",
		"Funke from Ibadan", "Emeka from Owerri", "Hauwa from Jos",
	}
	defaultProducts = []string{
		"Automatic Chick Feeder", "Bell Drinker 5L", "Egg Incubator 128",
		"Layer Cage 3-Tier", "Poultry Heat Lamp", "Feed Grinder 2HP",
	}
)

// Generator fabricates "someone just ordered" purchase notifications on a
// fixed interval and fans them out to every active session queue.
type Generator struct {
	Hub      *Hub
	Interval time.Duration
	Log      *zap.Logger
	Clock    Clock

	Customers []string
	Products  []string
}

func (g *Generator) Run(ctx context.Context) {
	interval := g.Interval
	if interval <= 0 {
		interval = 10 * time.Minute
	}

	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			n := g.next()
			g.Hub.Broadcast(n)
			if g.Log != nil {
				g.Log.Debug("purchase notification generated", zap.String("message", n.Message))
			}
		}
	}
}

func (g *Generator) next() Notification {
	customers := g.Customers
	if len(customers) == 0 {
		customers = defaultCustomers
	}
	products := g.Products
	if len(products) == 0 {
		products = defaultProducts
	}

	clock := g.Clock
	if clock == nil {
		clock = SystemClock()
	}

	who := customers[rand.Intn(len(customers))]
	what := products[rand.Intn(len(products))]

	return Notification{
		ID:          uuid.NewString(),
		Type:        TypePurchase,
		Message:     fmt.Sprintf("%s just ordered the %s", who, what),
		ProductName: what,
		Customer:    who,
		CreatedAt:   clock.Now(),
	}
}
