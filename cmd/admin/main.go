package main

import (
	"context"
	"database/sql"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus"
	"go.mongodb.org/mongo-driver/mongo"
	mongoopts "go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"farmergiant/internal/admin"
	"farmergiant/internal/auth"
	"farmergiant/internal/catalog"
	"farmergiant/internal/order"
	"farmergiant/pkg/kit"
)

func main() {
	service := "admin"
	log := kit.NewLogger(service)
	defer func() { _ = log.Sync() }()

	kit.LoadEnvFile(log)

	port := kit.Getenv("PORT", "8081")

	jwtSecret := os.Getenv("JWT_SECRET")
	if len(jwtSecret) < 32 {
		log.Fatal("JWT_SECRET is required and must be at least 32 chars")
	}

	userStore := buildUserStore(log)
	seedAdmin(userStore, log)

	deps := admin.Deps{
		Auth: &auth.Server{
			Log:   log,
			Store: userStore,
			JWT:   auth.NewTokenMaker(jwtSecret),
		},
		Catalog: &catalog.Server{Store: buildCatalogStore(log), Log: log},
		Orders:  &order.Server{Store: buildOrderStore(log), Log: log},
	}

	metricsToken := kit.Getenv("METRICS_TOKEN", "")
	h := admin.NewHandler(deps, admin.HTTPDeps{
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

func buildUserStore(log *zap.Logger) auth.UserStore {
	dsn := kit.Getenv("DATABASE_URL", "")
	if dsn == "" {
		log.Info("DATABASE_URL not set, admin users held in process memory")
		return auth.NewMemStore()
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		log.Fatal("postgres open failed", zap.Error(err))
	}
	return auth.NewPostgresStore(db)
}

func seedAdmin(store auth.UserStore, log *zap.Logger) {
	email := kit.Getenv("ADMIN_EMAIL", "")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		log.Warn("ADMIN_EMAIL/ADMIN_PASSWORD not set, no admin account seeded")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := auth.EnsureAdmin(ctx, store, email, password); err != nil {
		log.Fatal("admin seed failed", zap.Error(err))
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
	return catalog.NewMongoStore(client.Database(kit.Getenv("MONGO_DB", "farmergiant")))
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
