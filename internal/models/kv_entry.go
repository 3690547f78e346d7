package models

import "time"

// KVEntry is one row of the namespaced key-value store backing settings
// persistence. Value holds a JSON document.
type KVEntry struct {
	Key       string `gorm:"primaryKey"`
	Value     string `gorm:"not null"`
	UpdatedAt time.Time
}
