package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FlashcardSet groups cards for filtering. Deleting a set leaves its cards
// unassigned rather than cascading.
type FlashcardSet struct {
	SetID       uuid.UUID      `gorm:"type:uuid;primaryKey" json:"set_id"`
	Name        string         `gorm:"not null" json:"name"`
	Icon        string         `json:"icon"`
	Color       string         `json:"color"`
	Description string         `json:"description"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (FlashcardSet) TableName() string {
	return "flashcard_sets"
}

type PostSetRequest struct {
	Name        string `json:"name" validate:"required"`
	Icon        string `json:"icon,omitempty"`
	Color       string `json:"color,omitempty"`
	Description string `json:"description,omitempty"`
}

type PutSetRequest struct {
	Name        string `json:"name" validate:"required"`
	Icon        string `json:"icon,omitempty"`
	Color       string `json:"color,omitempty"`
	Description string `json:"description,omitempty"`
}
