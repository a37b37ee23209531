package main

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-betterform/internal/config"
	"github.com/goliatone/go-betterform/pkg/store"
)

// openBackend builds the configured storage backend. Remote backends are
// wrapped in a circuit breaker.
func openBackend(ctx context.Context, cfg config.StoreConfig, logger logrus.FieldLogger) (store.Backend, error) {
	var backend store.Backend
	switch cfg.Backend {
	case config.BackendMemory:
		return store.NewMemoryBackend(), nil
	case config.BackendPostgres:
		sqlBackend, err := store.OpenPostgres(ctx, cfg.Postgres.DSN, store.WithTable(cfg.Postgres.Table))
		if err != nil {
			return nil, err
		}
		if cfg.Postgres.CreateTable {
			if err := sqlBackend.CreateTable(ctx); err != nil {
				_ = sqlBackend.Close()
				return nil, err
			}
		}
		backend = sqlBackend
	case config.BackendObject:
		client, err := store.NewMinioClient(ctx, store.MinioConfig{
			Endpoint:  cfg.Object.Endpoint,
			Bucket:    cfg.Object.Bucket,
			AccessKey: cfg.Object.AccessKey,
			SecretKey: cfg.Object.SecretKey,
			Secure:    cfg.Object.Secure,
		})
		if err != nil {
			return nil, err
		}
		objBackend, err := store.NewObjectBackend(client, cfg.Object.Prefix)
		if err != nil {
			return nil, err
		}
		backend = objBackend
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}

	settings := store.DefaultBreakerSettings()
	settings.Name = "registry-store-" + cfg.Backend
	settings.Logger = logger
	return store.NewBreakerBackend(backend, settings), nil
}

// openStore wires a backend into a Store with metrics registered on reg.
func openStore(ctx context.Context, cfg config.Config, reg prometheus.Registerer, logger logrus.FieldLogger) (*store.Store, error) {
	backend, err := openBackend(ctx, cfg.Store, logger)
	if err != nil {
		return nil, err
	}
	return store.New(backend,
		store.WithTTL(cfg.Store.TTL),
		store.WithBaseURL(cfg.Server.BaseURL),
		store.WithLogger(logger),
		store.WithMetrics(store.NewMetrics(reg, "betterform")),
	)
}
