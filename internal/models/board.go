package models

import (
	"time"

	"github.com/google/uuid"
)

// Board owns a set of board objects. Objects never outlive their board.
type Board struct {
	UUID      uuid.UUID `gorm:"primarykey" json:"uuid"`
	Title     string    `gorm:"not null" json:"title"`
	UserID    uuid.UUID `gorm:"not null" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Thumbnail string    `json:"thumbnail"`
}
