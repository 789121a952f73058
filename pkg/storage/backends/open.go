// Package backends builds the configured storage.Store and owns the clients
// behind it.
package backends

import (
	"context"
	"fmt"

	"go.uber.org/multierr"

	"github.com/angelmondragon/cartstore/pkg/config"
	"github.com/angelmondragon/cartstore/pkg/db"
	"github.com/angelmondragon/cartstore/pkg/logger"
	"github.com/angelmondragon/cartstore/pkg/migrate"
	"github.com/angelmondragon/cartstore/pkg/redis"
	"github.com/angelmondragon/cartstore/pkg/storage"
	"github.com/angelmondragon/cartstore/pkg/storage/memory"
	"github.com/angelmondragon/cartstore/pkg/storage/redisstore"
	"github.com/angelmondragon/cartstore/pkg/storage/sqlstore"
)

// Backend is an opened store plus the clients that must be closed with it.
type Backend struct {
	Name  string
	Store storage.Store

	closers []func() error
}

// Close releases every client the backend opened.
func (b *Backend) Close() error {
	if b == nil {
		return nil
	}
	var err error
	for i := len(b.closers) - 1; i >= 0; i-- {
		err = multierr.Append(err, b.closers[i]())
	}
	b.closers = nil
	return err
}

// Open connects the backend selected by cfg.Storage.
func Open(ctx context.Context, cfg *config.Config, logg *logger.Logger) (*Backend, error) {
	name := cfg.Storage.Normalized()
	ctx = logg.WithField(ctx, "storage_backend", name)

	switch name {
	case config.StorageBackendMemory:
		logg.Info(ctx, "using in-memory storage; carts are lost on restart")
		return &Backend{Name: name, Store: memory.New()}, nil

	case config.StorageBackendRedis:
		client, err := redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			return nil, fmt.Errorf("bootstrap redis: %w", err)
		}
		return &Backend{
			Name:    name,
			Store:   redisstore.New(client, cfg.Redis.EntryTTL),
			closers: []func() error{client.Close},
		}, nil

	case config.StorageBackendSQL:
		client, err := db.New(ctx, cfg.DB, logg)
		if err != nil {
			return nil, fmt.Errorf("bootstrap database: %w", err)
		}
		if err := migrate.MaybeRunDev(ctx, cfg, logg, client); err != nil {
			return nil, multierr.Append(fmt.Errorf("run migrations: %w", err), client.Close())
		}
		return &Backend{
			Name:    name,
			Store:   sqlstore.New(client.DB()),
			closers: []func() error{client.Close},
		}, nil
	}

	return nil, fmt.Errorf("unknown storage backend %q", name)
}
