package db

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/balkashynov/punch/internal/models"
)

// KV is the tracker's local storage backed by the kv_entries table
type KV struct {
	db *gorm.DB
}

// NewKV uses the initialized database
func NewKV() *KV {
	return &KV{db: DB}
}

// Get returns the value stored under key
func (k *KV) Get(key string) (string, bool, error) {
	var entry models.KVEntry
	err := k.db.Where("entry_key = ?", key).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return entry.Value, true, nil
}

// Set stores value under key, replacing any previous value
func (k *KV) Set(key, value string) error {
	entry := models.KVEntry{Key: key, Value: value, UpdatedAt: time.Now()}
	return k.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "entry_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
}

// Remove deletes key; removing a missing key is not an error
func (k *KV) Remove(key string) error {
	return k.db.Where("entry_key = ?", key).Delete(&models.KVEntry{}).Error
}
