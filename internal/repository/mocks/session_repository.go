package mocks

import (
	"context"
	"time"

	"uniflash/internal/model"

	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

type SessionRepository struct {
	mock.Mock
}

func (m *SessionRepository) Create(ctx context.Context, tx *gorm.DB, session *model.ReviewSession) error {
	args := m.Called(ctx, tx, session)
	return args.Error(0)
}

func (m *SessionRepository) ListRecent(ctx context.Context, db *gorm.DB, limit int) ([]*model.ReviewSession, error) {
	args := m.Called(ctx, db, limit)
	if sessions, ok := args.Get(0).([]*model.ReviewSession); ok {
		return sessions, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SessionRepository) FetchStreak(ctx context.Context, db *gorm.DB, now time.Time, loc *time.Location) (model.Streak, error) {
	args := m.Called(ctx, db, now, loc)
	return args.Get(0).(model.Streak), args.Error(1)
}

type SettingsRepository struct {
	mock.Mock
}

func (m *SettingsRepository) Get(ctx context.Context, db *gorm.DB, key string) (string, error) {
	args := m.Called(ctx, db, key)
	return args.String(0), args.Error(1)
}

func (m *SettingsRepository) Put(ctx context.Context, tx *gorm.DB, key, value string) error {
	args := m.Called(ctx, tx, key, value)
	return args.Error(0)
}
