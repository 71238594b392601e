package models

import (
	"time"

	"gorm.io/gorm"
)

// ChatHistory is one completed assistant exchange.
// Append-only log: no Base embed, no soft deletes.
type ChatHistory struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    string    `gorm:"type:uuid;not null;index" json:"user_id"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	Response  string    `gorm:"type:text;not null" json:"response"`
	Timestamp time.Time `gorm:"not null;index" json:"timestamp"`
}

// BeforeCreate hook generates a UUIDv7 and stamps the entry.
func (h *ChatHistory) BeforeCreate(tx *gorm.DB) error {
	if h.ID == "" {
		h.ID = NewID()
	}
	if h.Timestamp.IsZero() {
		h.Timestamp = time.Now()
	}
	return nil
}
