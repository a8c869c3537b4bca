package main

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	mongoopts "go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"farmergiant/internal/cart"
	"farmergiant/internal/catalog"
	"farmergiant/internal/notify"
	"farmergiant/internal/order"
	"farmergiant/internal/storefront"
	"farmergiant/pkg/kit"
)

func main() {
	service := "storefront"
	log := kit.NewLogger(service)
	defer func() { _ = log.Sync() }()

	kit.LoadEnvFile(log)

	port := kit.Getenv("PORT", "8080")

	catalogStore := buildCatalogStore(log)
	slot := buildCartSlot(log)
	orderStore := buildOrderStore(log)

	clock := notify.SystemClock()
	hub := notify.NewHub(notify.DefaultConfig(), clock)

	genInterval, err := time.ParseDuration(kit.Getenv("PURCHASE_FEED_INTERVAL", "10m"))
	if err != nil {
		log.Fatal("bad PURCHASE_FEED_INTERVAL", zap.Error(err))
	}
	gen := &notify.Generator{Hub: hub, Interval: genInterval, Log: log, Clock: clock}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go gen.Run(ctx)

	deps := storefront.Deps{
		Catalog: &catalog.Server{Store: catalogStore, Log: log},
		Cart:    &cart.Server{Slot: slot, Notify: notify.CartNotifier(hub, clock), Log: log},
		Notify:  &notify.Server{Hub: hub, Log: log},
		Orders:  &order.Server{Store: orderStore, Slot: slot, Log: log},
	}

	metricsToken := kit.Getenv("METRICS_TOKEN", "")
	h := storefront.NewHandler(deps, storefront.HTTPDeps{
		Log:            log,
		Service:        service,
		Registry:       prometheus.NewRegistry(),
		MetricsEnabled: metricsToken != "",
		MetricsToken:   metricsToken,
	})

	if err := kit.RunHTTPServer(":"+port, h, log); err != nil {
		log.Fatal("http server stopped", zap.Error(err))
	}
}

func buildCatalogStore(log *zap.Logger) catalog.Store {
	uri := kit.Getenv("MONGO_URL", "")
	if uri == "" {
		log.Info("MONGO_URL not set, using seeded in-memory catalog")
		return catalog.NewSeededMemStore()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, mongoopts.Client().ApplyURI(uri))
	if err != nil {
		log.Fatal("mongo connect failed", zap.Error(err))
	}

	store := catalog.NewMongoStore(client.Database(kit.Getenv("MONGO_DB", "farmergiant")))
	if err := store.EnsureIndexes(ctx); err != nil {
		log.Warn("mongo index create failed", zap.Error(err))
	}
	return store
}

func buildCartSlot(log *zap.Logger) cart.Slot {
	url := kit.Getenv("REDIS_URL", "")
	if url == "" {
		log.Info("REDIS_URL not set, carts held in process memory")
		return cart.NewMemSlot()
	}

	opts, err := redis.ParseURL(url)
	if err != nil {
		log.Fatal("bad REDIS_URL", zap.Error(err))
	}

	ttl, err := time.ParseDuration(kit.Getenv("CART_TTL", "720h"))
	if err != nil {
		log.Fatal("bad CART_TTL", zap.Error(err))
	}
	return cart.NewRedisSlot(redis.NewClient(opts), ttl)
}

func buildOrderStore(log *zap.Logger) order.Store {
	dsn := kit.Getenv("DATABASE_URL", "")
	if dsn == "" {
		log.Info("DATABASE_URL not set, orders held in process memory")
		return order.NewMemStore()
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		log.Fatal("postgres open failed", zap.Error(err))
	}
	return order.NewPostgresStore(db)
}
