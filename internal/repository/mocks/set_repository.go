package mocks

import (
	"context"

	"uniflash/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

type SetRepository struct {
	mock.Mock
}

func (m *SetRepository) Create(ctx context.Context, tx *gorm.DB, set *model.FlashcardSet) error {
	args := m.Called(ctx, tx, set)
	return args.Error(0)
}

func (m *SetRepository) FindByID(ctx context.Context, db *gorm.DB, setID uuid.UUID) (*model.FlashcardSet, error) {
	args := m.Called(ctx, db, setID)
	if set, ok := args.Get(0).(*model.FlashcardSet); ok {
		return set, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SetRepository) List(ctx context.Context, db *gorm.DB) ([]*model.FlashcardSet, error) {
	args := m.Called(ctx, db)
	if sets, ok := args.Get(0).([]*model.FlashcardSet); ok {
		return sets, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SetRepository) Update(ctx context.Context, tx *gorm.DB, set *model.FlashcardSet) error {
	args := m.Called(ctx, tx, set)
	return args.Error(0)
}

func (m *SetRepository) Delete(ctx context.Context, tx *gorm.DB, setID uuid.UUID) error {
	args := m.Called(ctx, tx, setID)
	return args.Error(0)
}

func (m *SetRepository) Count(ctx context.Context, db *gorm.DB) (int64, error) {
	args := m.Called(ctx, db)
	return args.Get(0).(int64), args.Error(1)
}
