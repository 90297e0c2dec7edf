package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ClozeExtraction is one numbered deletion parsed from cloze markup
// ("{{c2::mitochondria}}" -> {Number: 2, Word: "mitochondria"}).
type ClozeExtraction struct {
	Number int    `json:"number"`
	Word   string `json:"word"`
}

// ClozeExtractions is stored as a JSON column.
type ClozeExtractions []ClozeExtraction

func (e ClozeExtractions) Value() (driver.Value, error) {
	if e == nil {
		return nil, nil
	}
	return json.Marshal(e)
}

func (e *ClozeExtractions) Scan(value interface{}) error {
	if value == nil {
		*e = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, e)
	case string:
		return json.Unmarshal([]byte(v), e)
	}
	return errors.New("unsupported type for ClozeExtractions")
}

// Flashcard is a single study item. Scheduling fields (IntervalDays,
// NextReview, LastReviewed) are owned by the scheduler; everything else is
// user-edited content.
type Flashcard struct {
	CardID       uuid.UUID        `gorm:"type:uuid;primaryKey" json:"card_id"`
	SetID        *uuid.UUID       `gorm:"type:uuid;index" json:"set_id"`
	Front        string           `gorm:"not null" json:"front"`
	Back         string           `gorm:"not null" json:"back"`
	SourceText   string           `json:"source_text,omitempty"`
	ClozeNumber  *int             `json:"cloze_number,omitempty"`
	Extractions  ClozeExtractions `gorm:"type:json" json:"extractions,omitempty"`
	IntervalDays int              `gorm:"not null;default:1" json:"interval_days"`
	NextReview   time.Time        `gorm:"not null;index" json:"next_review"`
	LastReviewed *time.Time       `json:"last_reviewed"`
	IsFlagged    bool             `gorm:"not null;default:false" json:"is_flagged"`
	Notes        string           `json:"notes"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
	DeletedAt    gorm.DeletedAt   `gorm:"index" json:"-"`

	Set *FlashcardSet `gorm:"foreignKey:SetID;references:SetID" json:"-"`
}

func (Flashcard) TableName() string {
	return "flashcards"
}

// Due reports whether the card is eligible for review at the given instant.
func (c *Flashcard) Due(now time.Time) bool {
	return !c.NextReview.After(now)
}

type PostCardRequest struct {
	Front       string     `json:"front" validate:"required"`
	Back        string     `json:"back" validate:"required"`
	SetID       *uuid.UUID `json:"set_id,omitempty"`
	SourceText  string     `json:"source_text,omitempty"`
	ClozeNumber *int       `json:"cloze_number,omitempty" validate:"omitempty,gte=1"`
}

type PutCardRequest struct {
	Front string     `json:"front" validate:"required"`
	Back  string     `json:"back" validate:"required"`
	SetID *uuid.UUID `json:"set_id,omitempty"`
}

type PutFlagRequest struct {
	IsFlagged *bool `json:"is_flagged" validate:"required"`
}

type PutNotesRequest struct {
	Notes *string `json:"notes" validate:"required"`
}

type PatchCardRequest struct {
	Front     *string    `json:"front,omitempty" validate:"omitempty,min=1"`
	Back      *string    `json:"back,omitempty" validate:"omitempty,min=1"`
	SetID     *uuid.UUID `json:"set_id,omitempty"`
	IsFlagged *bool      `json:"is_flagged,omitempty"`
	Notes     *string    `json:"notes,omitempty"`
}
