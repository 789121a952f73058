package models

import "time"

// StorageEntry is one value of a profile's key-value scope.
type StorageEntry struct {
	Scope     string    `gorm:"column:scope;primaryKey;size:64"`
	Key       string    `gorm:"column:entry_key;primaryKey;size:64"`
	Value     string    `gorm:"column:value;type:text;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (StorageEntry) TableName() string {
	return "storage_entries"
}
