package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BaseModel carries the surrogate key and timestamps of menus and items.
// IDs are stored as 36-character strings so the same schema works on
// SQLite, PostgreSQL and MySQL.
type BaseModel struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate assigns a time-ordered UUIDv7 when no ID was set, which keeps
// inserts appending to the primary key index.
func (m *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID != "" {
		return nil
	}
	id, err := uuid.NewV7()
	if err != nil {
		return err
	}
	m.ID = id.String()
	return nil
}
