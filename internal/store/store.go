package store

import (
	"context"
	"fmt"

	"todolist/internal/config"
	"todolist/internal/models"
)

// Store defines the hash-map operations backing the todo collection.
// Every call addresses the single hash the store was opened for.
type Store interface {
	// Set writes text under id, replacing any previous value (hset).
	Set(ctx context.Context, id, text string) error
	// All returns every entry of the hash (hgetall). Never nil.
	All(ctx context.Context) (models.Collection, error)
	// Delete removes id from the hash (hdel). Deleting an absent id is not an error.
	Delete(ctx context.Context, id string) error

	// Lifecycle
	Ping(ctx context.Context) error
	Close() error
}

// New opens the store backend selected by cfg.
func New(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	switch cfg.Backend {
	case config.BackendRedis, "":
		s, err := NewRedisStore(ctx, cfg.Redis, cfg.HashKey)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.BackendSQLite:
		s, err := NewSQLiteStore(ctx, cfg.SQLite.Path, cfg.HashKey)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}
