package mocks

import (
	"context"

	"uniflash/internal/model"
	"uniflash/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type CardService struct {
	mock.Mock
}

func (m *CardService) CreateCard(ctx context.Context, req *model.PostCardRequest) (*model.Flashcard, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Flashcard), args.Error(1)
}

func (m *CardService) GetCard(ctx context.Context, cardID uuid.UUID) (*model.Flashcard, error) {
	args := m.Called(ctx, cardID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Flashcard), args.Error(1)
}

func (m *CardService) ListCards(ctx context.Context, filter repository.CardListFilter) ([]*model.Flashcard, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Flashcard), args.Error(1)
}

func (m *CardService) UpdateCard(ctx context.Context, cardID uuid.UUID, req *model.PutCardRequest) (*model.Flashcard, error) {
	args := m.Called(ctx, cardID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Flashcard), args.Error(1)
}

func (m *CardService) PatchCard(ctx context.Context, cardID uuid.UUID, req *model.PatchCardRequest) (*model.Flashcard, error) {
	args := m.Called(ctx, cardID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Flashcard), args.Error(1)
}

func (m *CardService) DeleteCard(ctx context.Context, cardID uuid.UUID) error {
	args := m.Called(ctx, cardID)
	return args.Error(0)
}

func (m *CardService) SetFlag(ctx context.Context, cardID uuid.UUID, flagged bool) error {
	args := m.Called(ctx, cardID, flagged)
	return args.Error(0)
}

func (m *CardService) SetNotes(ctx context.Context, cardID uuid.UUID, notes string) error {
	args := m.Called(ctx, cardID, notes)
	return args.Error(0)
}
