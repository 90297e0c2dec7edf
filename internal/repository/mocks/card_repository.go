// Code generated by mockery. Edited by hand to track the repository
// interfaces in this module.
package mocks

import (
	"context"
	"time"

	"uniflash/internal/model"
	"uniflash/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

type CardRepository struct {
	mock.Mock
}

func (m *CardRepository) Create(ctx context.Context, tx *gorm.DB, card *model.Flashcard) error {
	args := m.Called(ctx, tx, card)
	return args.Error(0)
}

func (m *CardRepository) FindByID(ctx context.Context, db *gorm.DB, cardID uuid.UUID) (*model.Flashcard, error) {
	args := m.Called(ctx, db, cardID)
	if card, ok := args.Get(0).(*model.Flashcard); ok {
		return card, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CardRepository) List(ctx context.Context, db *gorm.DB, filter repository.CardListFilter) ([]*model.Flashcard, error) {
	args := m.Called(ctx, db, filter)
	if cards, ok := args.Get(0).([]*model.Flashcard); ok {
		return cards, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CardRepository) Update(ctx context.Context, tx *gorm.DB, card *model.Flashcard) error {
	args := m.Called(ctx, tx, card)
	return args.Error(0)
}

func (m *CardRepository) Delete(ctx context.Context, tx *gorm.DB, cardID uuid.UUID) error {
	args := m.Called(ctx, tx, cardID)
	return args.Error(0)
}

func (m *CardRepository) FindDue(ctx context.Context, db *gorm.DB, now time.Time, setIDs []uuid.UUID, limit int) ([]*model.Flashcard, error) {
	args := m.Called(ctx, db, now, setIDs, limit)
	if cards, ok := args.Get(0).([]*model.Flashcard); ok {
		return cards, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CardRepository) ApplySchedule(ctx context.Context, tx *gorm.DB, cardID uuid.UUID, intervalDays int, nextReview, reviewedAt time.Time) error {
	args := m.Called(ctx, tx, cardID, intervalDays, nextReview, reviewedAt)
	return args.Error(0)
}

func (m *CardRepository) SetFlag(ctx context.Context, tx *gorm.DB, cardID uuid.UUID, flagged bool) error {
	args := m.Called(ctx, tx, cardID, flagged)
	return args.Error(0)
}

func (m *CardRepository) SetNotes(ctx context.Context, tx *gorm.DB, cardID uuid.UUID, notes string) error {
	args := m.Called(ctx, tx, cardID, notes)
	return args.Error(0)
}

func (m *CardRepository) DetachSet(ctx context.Context, tx *gorm.DB, setID uuid.UUID) error {
	args := m.Called(ctx, tx, setID)
	return args.Error(0)
}

func (m *CardRepository) Count(ctx context.Context, db *gorm.DB) (int64, error) {
	args := m.Called(ctx, db)
	return args.Get(0).(int64), args.Error(1)
}

func (m *CardRepository) CountDue(ctx context.Context, db *gorm.DB, now time.Time) (int64, error) {
	args := m.Called(ctx, db, now)
	return args.Get(0).(int64), args.Error(1)
}
