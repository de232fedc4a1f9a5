package models

import "time"

// KVEntry is one value of local durable storage
type KVEntry struct {
	Key       string `gorm:"primaryKey;column:entry_key"`
	Value     string `gorm:"type:text"`
	UpdatedAt time.Time
}

// TableName pins the table name
func (KVEntry) TableName() string {
	return "kv_entries"
}
