package mocks

import (
	"context"

	"uniflash/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type ReviewService struct {
	mock.Mock
}

func (m *ReviewService) StartSession(ctx context.Context, req *model.StartSessionRequest) (*model.StartSessionResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.StartSessionResponse), args.Error(1)
}

func (m *ReviewService) RevealAnswer(ctx context.Context, sessionID uuid.UUID) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

func (m *ReviewService) RateCard(ctx context.Context, sessionID uuid.UUID, rating model.Rating) (*model.RateCardResponse, error) {
	args := m.Called(ctx, sessionID, rating)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RateCardResponse), args.Error(1)
}

func (m *ReviewService) FinalizeSession(ctx context.Context, sessionID uuid.UUID) (*model.SessionSummary, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SessionSummary), args.Error(1)
}

func (m *ReviewService) OpenSlideOverlay(ctx context.Context, sessionID uuid.UUID) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

func (m *ReviewService) CloseSlideOverlay(ctx context.Context, sessionID uuid.UUID) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

func (m *ReviewService) ShuffleSession(ctx context.Context, sessionID uuid.UUID) ([]*model.Flashcard, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Flashcard), args.Error(1)
}

func (m *ReviewService) SetReverse(ctx context.Context, sessionID uuid.UUID, reverse bool) error {
	args := m.Called(ctx, sessionID, reverse)
	return args.Error(0)
}

func (m *ReviewService) AbandonSession(ctx context.Context, sessionID uuid.UUID) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

func (m *ReviewService) GetStreak(ctx context.Context) (model.Streak, error) {
	args := m.Called(ctx)
	return args.Get(0).(model.Streak), args.Error(1)
}
