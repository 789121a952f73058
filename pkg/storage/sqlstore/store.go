package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/angelmondragon/cartstore/pkg/db/models"
	"github.com/angelmondragon/cartstore/pkg/storage"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store persists scoped values as rows of storage_entries.
type Store struct {
	db  *gorm.DB
	now func() time.Time
}

// New binds the store to the provided DB handle.
func New(db *gorm.DB) *Store {
	return &Store{db: db, now: time.Now}
}

func (s *Store) Get(ctx context.Context, scope, key string) (string, bool, error) {
	if err := storage.ValidateRef(scope, key); err != nil {
		return "", false, err
	}
	var entry models.StorageEntry
	err := s.db.WithContext(ctx).
		Where("scope = ? AND entry_key = ?", scope, key).
		Take(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("load storage entry %s/%s: %w", scope, key, err)
	}
	return entry.Value, true, nil
}

// Set upserts the row so concurrent writers never observe a missing value.
func (s *Store) Set(ctx context.Context, scope, key, value string) error {
	if err := storage.ValidateRef(scope, key); err != nil {
		return err
	}
	entry := models.StorageEntry{Scope: scope, Key: key, Value: value, UpdatedAt: s.now().UTC()}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "scope"}, {Name: "entry_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&entry).Error
	if err != nil {
		return fmt.Errorf("save storage entry %s/%s: %w", scope, key, err)
	}
	return nil
}

func (s *Store) Remove(ctx context.Context, scope, key string) error {
	if err := storage.ValidateRef(scope, key); err != nil {
		return err
	}
	err := s.db.WithContext(ctx).
		Where("scope = ? AND entry_key = ?", scope, key).
		Delete(&models.StorageEntry{}).Error
	if err != nil {
		return fmt.Errorf("delete storage entry %s/%s: %w", scope, key, err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
