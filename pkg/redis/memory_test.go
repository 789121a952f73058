package redis

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

func newInMemory() *Client {
	return &Client{store: newMemoryCmdable()}
}

type memoryCmdable struct {
	mu      sync.Mutex
	data    map[string]string
	expires map[string]time.Duration
}

func newMemoryCmdable() *memoryCmdable {
	return &memoryCmdable{
		data:    make(map[string]string),
		expires: make(map[string]time.Duration),
	}
}

func (m *memoryCmdable) Ping(context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", nil)
}

func (m *memoryCmdable) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = fmt.Sprint(value)
	if expiration > 0 {
		m.expires[key] = expiration
	} else {
		delete(m.expires, key)
	}
	return redis.NewStatusResult("OK", nil)
}

func (m *memoryCmdable) Get(ctx context.Context, key string) *redis.StringCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (m *memoryCmdable) Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.data[key]; !ok {
		return redis.NewBoolResult(false, nil)
	}
	m.expires[key] = expiration
	return redis.NewBoolResult(true, nil)
}

func (m *memoryCmdable) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	var removed int64
	for _, key := range keys {
		if _, ok := m.data[key]; ok {
			removed++
		}
		delete(m.data, key)
		delete(m.expires, key)
	}
	return redis.NewIntResult(removed, nil)
}

func (c *Client) ttlFor(key string) (time.Duration, bool) {
	mem, ok := c.store.(*memoryCmdable)
	if !ok {
		return 0, false
	}
	mem.mu.Lock()
	defer mem.mu.Unlock()
	ttl, ok := mem.expires[key]
	return ttl, ok
}
