package main

import (
	"context"
	"fmt"
	"strings"

	"headliner/internal/config"
	"headliner/internal/store"
	"headliner/internal/store/postgres"
	"headliner/internal/store/sqlite"
)

func openStore(ctx context.Context, cfg *config.ProjectConfig) (store.Store, error) {
	dsn := strings.TrimSpace(cfg.Database.DSN)
	var (
		db  store.Store
		err error
	)
	switch {
	case strings.HasPrefix(dsn, "sqlite://"):
		db, err = sqlite.New(ctx, dsn)
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		db, err = postgres.New(ctx, dsn)
	case dsn == "":
		return nil, fmt.Errorf("database.dsn is not configured")
	default:
		return nil, fmt.Errorf("unsupported database DSN scheme: %s", dsn)
	}
	if err != nil {
		return nil, err
	}
	if err := db.EnsureSchema(ctx); err != nil {
		db.Close(ctx)
		return nil, err
	}
	return db, nil
}
