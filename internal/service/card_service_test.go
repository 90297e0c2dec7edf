package service

import (
	"context"
	"errors"
	"testing"

	"uniflash/internal/model"
	"uniflash/internal/repository/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCardService_CreateCard(t *testing.T) {
	t.Run("new card is due immediately with the baseline interval", func(t *testing.T) {
		cardRepo := new(mocks.CardRepository)
		setRepo := new(mocks.SetRepository)
		svc := NewCardService(nil, cardRepo, setRepo)

		cardRepo.On("Create", mock.Anything, mock.Anything, mock.AnythingOfType("*model.Flashcard")).Return(nil)

		card, err := svc.CreateCard(context.Background(), &model.PostCardRequest{
			Front: "capital of France",
			Back:  "Paris",
		})

		require.NoError(t, err)
		assert.Equal(t, 1, card.IntervalDays)
		assert.False(t, card.NextReview.IsZero())
		assert.Nil(t, card.SetID)
		cardRepo.AssertExpectations(t)
		setRepo.AssertNotCalled(t, "FindByID")
	})

	t.Run("cloze markup is parsed into extractions", func(t *testing.T) {
		cardRepo := new(mocks.CardRepository)
		setRepo := new(mocks.SetRepository)
		svc := NewCardService(nil, cardRepo, setRepo)

		cardRepo.On("Create", mock.Anything, mock.Anything, mock.Anything).Return(nil)

		card, err := svc.CreateCard(context.Background(), &model.PostCardRequest{
			Front:      "fill in",
			Back:       "",
			SourceText: "The {{c1::mitochondria}} is the {{c2::powerhouse}} of the cell.",
		})

		require.NoError(t, err)
		require.Len(t, card.Extractions, 2)
		assert.Equal(t, "mitochondria", card.Extractions[0].Word)
		assert.Equal(t, 2, card.Extractions[1].Number)
	})

	t.Run("unknown set is rejected before any insert", func(t *testing.T) {
		cardRepo := new(mocks.CardRepository)
		setRepo := new(mocks.SetRepository)
		svc := NewCardService(nil, cardRepo, setRepo)

		setID := uuid.New()
		setRepo.On("FindByID", mock.Anything, mock.Anything, setID).Return(nil, model.ErrNotFound)

		_, err := svc.CreateCard(context.Background(), &model.PostCardRequest{
			Front: "q",
			Back:  "a",
			SetID: &setID,
		})

		require.Error(t, err)
		assert.True(t, errors.Is(err, model.ErrNotFound))
		cardRepo.AssertNotCalled(t, "Create")
	})
}

func TestCardService_PatchCard(t *testing.T) {
	t.Run("only the provided fields change", func(t *testing.T) {
		cardRepo := new(mocks.CardRepository)
		setRepo := new(mocks.SetRepository)
		svc := NewCardService(nil, cardRepo, setRepo)

		cardID := uuid.New()
		existing := &model.Flashcard{
			CardID:       cardID,
			Front:        "old front",
			Back:         "old back",
			IntervalDays: 5,
		}
		cardRepo.On("FindByID", mock.Anything, mock.Anything, cardID).Return(existing, nil)
		cardRepo.On("Update", mock.Anything, mock.Anything, mock.Anything).Return(nil)

		newFront := "new front"
		flagged := true
		card, err := svc.PatchCard(context.Background(), cardID, &model.PatchCardRequest{
			Front:     &newFront,
			IsFlagged: &flagged,
		})

		require.NoError(t, err)
		assert.Equal(t, "new front", card.Front)
		assert.Equal(t, "old back", card.Back)
		assert.True(t, card.IsFlagged)
		assert.Equal(t, 5, card.IntervalDays)
	})

	t.Run("missing card propagates not found", func(t *testing.T) {
		cardRepo := new(mocks.CardRepository)
		setRepo := new(mocks.SetRepository)
		svc := NewCardService(nil, cardRepo, setRepo)

		cardID := uuid.New()
		cardRepo.On("FindByID", mock.Anything, mock.Anything, cardID).Return(nil, model.ErrNotFound)

		_, err := svc.PatchCard(context.Background(), cardID, &model.PatchCardRequest{})
		assert.True(t, errors.Is(err, model.ErrNotFound))
	})
}

func TestCardService_DeleteCard(t *testing.T) {
	t.Run("not found passes through untouched", func(t *testing.T) {
		cardRepo := new(mocks.CardRepository)
		svc := NewCardService(nil, cardRepo, new(mocks.SetRepository))

		cardID := uuid.New()
		cardRepo.On("Delete", mock.Anything, mock.Anything, cardID).Return(model.ErrNotFound)

		err := svc.DeleteCard(context.Background(), cardID)
		assert.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("other failures become internal errors", func(t *testing.T) {
		cardRepo := new(mocks.CardRepository)
		svc := NewCardService(nil, cardRepo, new(mocks.SetRepository))

		cardID := uuid.New()
		cardRepo.On("Delete", mock.Anything, mock.Anything, cardID).Return(errors.New("disk full"))

		err := svc.DeleteCard(context.Background(), cardID)
		require.Error(t, err)
		assert.True(t, errors.Is(err, model.ErrInternalServer))
	})
}
