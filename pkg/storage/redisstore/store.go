package redisstore

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/cartstore/pkg/redis"
	"github.com/angelmondragon/cartstore/pkg/storage"
)

type client interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	StorageKey(scope, key string) string
	Ping(ctx context.Context) error
}

// Store keeps each scoped value under its own namespaced Redis key.
type Store struct {
	client client
	ttl    time.Duration
}

// New binds the store to a redis client. A positive ttl expires idle entries.
func New(c *redis.Client, ttl time.Duration) *Store {
	return &Store{client: c, ttl: ttl}
}

func (s *Store) Get(ctx context.Context, scope, key string) (string, bool, error) {
	if err := storage.ValidateRef(scope, key); err != nil {
		return "", false, err
	}
	value, err := s.client.Get(ctx, s.client.StorageKey(scope, key))
	if err != nil {
		if redis.IsNil(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("redis get %s/%s: %w", scope, key, err)
	}
	return value, true, nil
}

func (s *Store) Set(ctx context.Context, scope, key, value string) error {
	if err := storage.ValidateRef(scope, key); err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.client.StorageKey(scope, key), value, s.ttl); err != nil {
		return fmt.Errorf("redis set %s/%s: %w", scope, key, err)
	}
	return nil
}

func (s *Store) Remove(ctx context.Context, scope, key string) error {
	if err := storage.ValidateRef(scope, key); err != nil {
		return err
	}
	if err := s.client.Del(ctx, s.client.StorageKey(scope, key)); err != nil {
		return fmt.Errorf("redis del %s/%s: %w", scope, key, err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx)
}
