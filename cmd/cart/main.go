package main

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"MiniCart/internal/cart"
	"MiniCart/internal/config"
	"MiniCart/pkg/kit"
)

func main() {
	cfg := config.Load("cart")
	log := kit.NewLogger(cfg.Service, cfg.Env)
	defer func() { _ = log.Sync() }()

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	store := cart.NewRedisStore(rdb, time.Duration(cfg.CartTTLSeconds)*time.Second)

	registry := prometheus.NewRegistry()
	reconciler := cart.NewReconciler(store, cart.NewCatalogClient(cfg.CatalogURL), log, registry)

	s := &cart.Server{
		Store:      store,
		Reconciler: reconciler,
		Log:        log,
	}

	h := cart.NewHandler(s, cart.HTTPDeps{
		Log:            log,
		Service:        cfg.Service,
		Registry:       registry,
		MetricsEnabled: cfg.MetricsEnabled,
		MetricsToken:   cfg.MetricsToken,
		RateLimiter:    kit.NewIPRateLimiter(cfg.RateLimit, cfg.RateLimitWindow),
	})

	if err := kit.RunHTTPServer(cfg.CartAddr, h, log); err != nil {
		log.Fatal("http server stopped", zap.Error(err))
	}
}
