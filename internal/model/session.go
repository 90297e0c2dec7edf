package model

import (
	"time"

	"github.com/google/uuid"
)

// ReviewSession is the append-only summary of one completed study session.
// Written once when a session finishes; never mutated.
type ReviewSession struct {
	SessionID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"session_id"`
	CardsReviewed int       `gorm:"not null" json:"cards_reviewed"`
	TimeSpent     int       `gorm:"not null" json:"time_spent"` // active seconds
	CreatedAt     time.Time `gorm:"not null;index" json:"created_at"`
}

func (ReviewSession) TableName() string {
	return "review_sessions"
}

// Streak holds the consecutive-study-day counters derived from the
// review_sessions history.
type Streak struct {
	CurrentStreak int `json:"current_streak"`
	LongestStreak int `json:"longest_streak"`
}

type StartSessionRequest struct {
	SetIDs  []uuid.UUID `json:"set_ids,omitempty"`
	Shuffle *bool       `json:"shuffle,omitempty"`
	Reverse bool        `json:"reverse,omitempty"`
}

// StartSessionResponse includes the full due-card list so the client can
// render without a round-trip per card. AllCaughtUp marks the zero-due
// terminal state, which is not an error and not a started session.
type StartSessionResponse struct {
	SessionID   uuid.UUID    `json:"session_id,omitempty"`
	Cards       []*Flashcard `json:"cards,omitempty"`
	AllCaughtUp bool         `json:"all_caught_up"`
}

type SetReverseRequest struct {
	Reverse *bool `json:"reverse" validate:"required"`
}

type RateCardRequest struct {
	Rating Rating `json:"rating" validate:"required"`
}

// RateCardResponse reports the session's position after a committed rating.
type RateCardResponse struct {
	NewIntervalDays int             `json:"new_interval_days"`
	NextReview      time.Time       `json:"next_review"`
	Index           int             `json:"index"`
	Remaining       int             `json:"remaining"`
	Finished        bool            `json:"finished"`
	Summary         *SessionSummary `json:"summary,omitempty"`
}

// SessionSummary is returned when a rating finishes the session.
type SessionSummary struct {
	CardsReviewed int    `json:"cards_reviewed"`
	TimeSpent     int    `json:"time_spent"`
	Streak        Streak `json:"streak"`
}

type DashboardResponse struct {
	CardCount      int64            `json:"card_count"`
	SetCount       int64            `json:"set_count"`
	DueCount       int64            `json:"due_count"`
	Streak         Streak           `json:"streak"`
	RecentSessions []*ReviewSession `json:"recent_sessions"`
}
