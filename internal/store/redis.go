package store

import (
	"context"
	"fmt"
	"net"
	"strconv"

	"github.com/redis/go-redis/v9"

	"todolist/internal/config"
	"todolist/internal/models"
)

// RedisStore implements the Store interface on a single Redis hash.
type RedisStore struct {
	client  *redis.Client
	hashKey string
}

// NewRedisStore connects to Redis and verifies the connection with a PING.
func NewRedisStore(ctx context.Context, cfg config.RedisConfig, hashKey string) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	store := NewRedisStoreWithClient(client, hashKey)
	if err := store.Ping(ctx); err != nil {
		client.Close()
		return nil, err
	}

	return store, nil
}

// NewRedisStoreWithClient wraps an existing client. The store takes
// ownership of the client and closes it on Close.
func NewRedisStoreWithClient(client *redis.Client, hashKey string) *RedisStore {
	return &RedisStore{
		client:  client,
		hashKey: hashKey,
	}
}

// Set writes text under id.
func (s *RedisStore) Set(ctx context.Context, id, text string) error {
	if err := s.client.HSet(ctx, s.hashKey, id, text).Err(); err != nil {
		return fmt.Errorf("failed to set %s in %s: %w", id, s.hashKey, err)
	}
	return nil
}

// All returns the full hash.
func (s *RedisStore) All(ctx context.Context) (models.Collection, error) {
	entries, err := s.client.HGetAll(ctx, s.hashKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.hashKey, err)
	}
	if entries == nil {
		entries = make(map[string]string)
	}
	return models.Collection(entries), nil
}

// Delete removes id from the hash.
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.client.HDel(ctx, s.hashKey, id).Err(); err != nil {
		return fmt.Errorf("failed to delete %s from %s: %w", id, s.hashKey, err)
	}
	return nil
}

// Ping checks the connection.
func (s *RedisStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to ping redis: %w", err)
	}
	return nil
}

// Close closes the client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
