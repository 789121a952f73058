package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/angelmondragon/cartstore/pkg/logger"
	"github.com/angelmondragon/cartstore/pkg/metrics"
	"github.com/angelmondragon/cartstore/pkg/storage"
)

// StorageKey is the single key a cart occupies inside its profile scope.
const StorageKey = "cart"

// Repository defines the persistence surface required by the cart service.
type Repository interface {
	Load(ctx context.Context, profileID string) (Cart, error)
	Save(ctx context.Context, profileID string, c Cart) error
	Delete(ctx context.Context, profileID string) error
}

// StorageRepository keeps each cart as one serialized value in a storage.Store.
type StorageRepository struct {
	store   storage.Store
	logg    *logger.Logger
	metrics *metrics.CartMetrics
}

// NewRepository constructs a cart repository on top of the provided store.
func NewRepository(store storage.Store, logg *logger.Logger, m *metrics.CartMetrics) *StorageRepository {
	return &StorageRepository{store: store, logg: logg, metrics: m}
}

// Load reads the profile's cart. A missing key is an empty cart, and so is a
// corrupt value: it is logged and overwritten by the next Save.
func (r *StorageRepository) Load(ctx context.Context, profileID string) (Cart, error) {
	raw, ok, err := r.store.Get(ctx, profileID, StorageKey)
	if err != nil {
		return Cart{}, fmt.Errorf("load cart: %w", err)
	}
	if !ok {
		return Cart{}, nil
	}
	c, err := Decode(raw)
	if err != nil {
		if !errors.Is(err, ErrCorruptCart) {
			return Cart{}, err
		}
		r.metrics.IncCorruptCart()
		if r.logg != nil {
			r.logg.Warn(r.logg.WithFields(ctx, map[string]any{"profile_id": profileID, "error": err.Error()}), "cart.corrupt_state_discarded")
		}
		return Cart{}, nil
	}
	return c, nil
}

// Save overwrites the stored cart with a single write.
func (r *StorageRepository) Save(ctx context.Context, profileID string, c Cart) error {
	raw, err := Encode(c)
	if err != nil {
		return err
	}
	if err := r.store.Set(ctx, profileID, StorageKey, raw); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}

// Delete removes the stored cart key entirely.
func (r *StorageRepository) Delete(ctx context.Context, profileID string) error {
	if err := r.store.Remove(ctx, profileID, StorageKey); err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}
	return nil
}
