package backends

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/cartstore/pkg/config"
	"github.com/angelmondragon/cartstore/pkg/logger"
	"github.com/angelmondragon/cartstore/pkg/storage/memory"
	"github.com/angelmondragon/cartstore/pkg/storage/sqlstore"
)

func TestOpenMemory(t *testing.T) {
	cfg := &config.Config{Storage: config.StorageConfig{Backend: "memory"}}
	backend, err := Open(context.Background(), cfg, logger.Nop())
	require.NoError(t, err)
	assert.IsType(t, &memory.Store{}, backend.Store)
	assert.NoError(t, backend.Close())
}

func TestOpenSQLiteRunsMigrations(t *testing.T) {
	cfg := &config.Config{
		App:     config.AppConfig{Env: config.AppEnvDev},
		Storage: config.StorageConfig{Backend: "sql"},
		DB:      config.DBConfig{Driver: "sqlite", DSN: "file:backends_open_test?mode=memory&cache=shared"},
	}
	ctx := context.Background()
	backend, err := Open(ctx, cfg, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = backend.Close() })
	assert.IsType(t, &sqlstore.Store{}, backend.Store)

	require.NoError(t, backend.Store.Set(ctx, "profile", "cart", "[]"))
	value, ok, err := backend.Store.Get(ctx, "profile", "cart")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "[]", value)
}

func TestOpenUnknownBackend(t *testing.T) {
	cfg := &config.Config{Storage: config.StorageConfig{Backend: "etcd"}}
	_, err := Open(context.Background(), cfg, logger.Nop())
	assert.Error(t, err)
}

func TestCloseAggregatesErrors(t *testing.T) {
	calls := 0
	backend := &Backend{closers: []func() error{
		func() error { calls++; return errors.New("first") },
		func() error { calls++; return errors.New("second") },
	}}
	err := backend.Close()
	require.Error(t, err)
	assert.Equal(t, 2, calls)
	assert.Contains(t, err.Error(), "first")
	assert.Contains(t, err.Error(), "second")
	assert.NoError(t, backend.Close())
}
