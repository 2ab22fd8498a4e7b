package main

import (
	"database/sql"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"MiniCart/internal/catalog"
	"MiniCart/internal/config"
	"MiniCart/pkg/kit"
)

func main() {
	cfg := config.Load("catalog")
	log := kit.NewLogger(cfg.Service, cfg.Env)
	defer func() { _ = log.Sync() }()

	store := newStore(cfg, log)

	s := &catalog.Server{Store: store, Log: log}

	h := catalog.NewHandler(s, catalog.HTTPDeps{
		Log:            log,
		Service:        cfg.Service,
		Registry:       prometheus.NewRegistry(),
		MetricsEnabled: cfg.MetricsEnabled,
		MetricsToken:   cfg.MetricsToken,
	})

	if err := kit.RunHTTPServer(cfg.CatalogAddr, h, log); err != nil {
		log.Fatal("http server stopped", zap.Error(err))
	}
}

func newStore(cfg config.Config, log *zap.Logger) catalog.Store {
	if cfg.PostgresDSN == "" {
		log.Info("no POSTGRES_DSN, using in-memory catalog")
		return catalog.NewStore()
	}

	db, err := sql.Open("pgx", cfg.PostgresDSN)
	if err != nil {
		log.Fatal("open postgres", zap.Error(err))
	}
	return catalog.NewPostgresStore(db)
}
