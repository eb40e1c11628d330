package main

import (
	"context"
	"fmt"

	"github.com/i474232898/daily-adventure/internal/config"
	"github.com/i474232898/daily-adventure/internal/store"
	"github.com/i474232898/daily-adventure/internal/store/postgres"
	"github.com/i474232898/daily-adventure/internal/store/sqlite"
)

func openStore(ctx context.Context, cfg *config.AppConfig) (store.Store, error) {
	switch cfg.StoreScheme() {
	case "sqlite":
		client, err := sqlite.New(ctx, cfg.DatabaseDSN)
		if err != nil {
			return nil, err
		}
		return client, nil
	case "postgres", "postgresql":
		client, err := postgres.New(ctx, cfg.DatabaseDSN)
		if err != nil {
			return nil, err
		}
		return client, nil
	case "memory":
		return store.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unsupported DATABASE_DSN scheme %q", cfg.StoreScheme())
	}
}
