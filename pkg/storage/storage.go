// Package storage defines the scoped key-value slot that carts and overlay
// state live in. A scope is one cart profile, the server-side counterpart of a
// browser origin's local storage.
package storage

import (
	"context"
	"errors"
	"strings"
)

var (
	ErrScopeRequired = errors.New("storage scope is required")
	ErrKeyRequired   = errors.New("storage key is required")
)

// Store is a string key-value store partitioned by scope.
type Store interface {
	// Get returns the value stored under key; ok is false when the key is absent.
	Get(ctx context.Context, scope, key string) (value string, ok bool, err error)
	// Set overwrites the value stored under key in a single write.
	Set(ctx context.Context, scope, key, value string) error
	// Remove deletes key. Removing an absent key is not an error.
	Remove(ctx context.Context, scope, key string) error
	Ping(ctx context.Context) error
}

// ValidateRef rejects blank scopes and keys before they reach a backend.
func ValidateRef(scope, key string) error {
	if strings.TrimSpace(scope) == "" {
		return ErrScopeRequired
	}
	if strings.TrimSpace(key) == "" {
		return ErrKeyRequired
	}
	return nil
}
