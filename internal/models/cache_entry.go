package models

import "time"

// CacheEntry is a built menu tree held by the database cache backend.
type CacheEntry struct {
	Key       string    `gorm:"primaryKey;size:256"`
	Value     []byte    `gorm:"type:blob"`
	ExpiresAt time.Time `gorm:"index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName keeps cached trees apart from any other cache the database hosts.
func (CacheEntry) TableName() string {
	return "menu_tree_cache"
}

// Expired reports whether the entry is past its expiry at now. A zero
// ExpiresAt never expires.
func (e CacheEntry) Expired(now time.Time) bool {
	return !e.ExpiresAt.IsZero() && !now.Before(e.ExpiresAt)
}
