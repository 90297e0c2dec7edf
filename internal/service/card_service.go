package service

import (
	"context"
	"time"

	"uniflash/internal/middleware"
	"uniflash/internal/model"
	"uniflash/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CardService interface {
	CreateCard(ctx context.Context, req *model.PostCardRequest) (*model.Flashcard, error)
	GetCard(ctx context.Context, cardID uuid.UUID) (*model.Flashcard, error)
	ListCards(ctx context.Context, filter repository.CardListFilter) ([]*model.Flashcard, error)
	UpdateCard(ctx context.Context, cardID uuid.UUID, req *model.PutCardRequest) (*model.Flashcard, error)
	PatchCard(ctx context.Context, cardID uuid.UUID, req *model.PatchCardRequest) (*model.Flashcard, error)
	DeleteCard(ctx context.Context, cardID uuid.UUID) error
	SetFlag(ctx context.Context, cardID uuid.UUID, flagged bool) error
	SetNotes(ctx context.Context, cardID uuid.UUID, notes string) error
}

type cardService struct {
	db       *gorm.DB
	cardRepo repository.CardRepository
	setRepo  repository.SetRepository
}

func NewCardService(db *gorm.DB, cardRepo repository.CardRepository, setRepo repository.SetRepository) CardService {
	return &cardService{
		db:       db,
		cardRepo: cardRepo,
		setRepo:  setRepo,
	}
}

// CreateCard inserts a new card that is due immediately with the baseline
// one-day interval. Cloze markup, when present, is parsed into extractions
// at creation time.
func (s *cardService) CreateCard(ctx context.Context, req *model.PostCardRequest) (*model.Flashcard, error) {
	logger := middleware.GetLogger(ctx)

	if req.SetID != nil {
		if _, err := s.setRepo.FindByID(ctx, s.db, *req.SetID); err != nil {
			return nil, model.NewAppError("SET_NOT_FOUND", "The target set does not exist.", "set_id", model.ErrNotFound)
		}
	}

	card := &model.Flashcard{
		CardID:       uuid.New(),
		SetID:        req.SetID,
		Front:        req.Front,
		Back:         req.Back,
		SourceText:   req.SourceText,
		ClozeNumber:  req.ClozeNumber,
		IntervalDays: 1,
		NextReview:   time.Now(),
	}
	if req.SourceText != "" {
		card.Extractions = model.ParseClozeExtractions(req.SourceText)
	}

	if err := s.cardRepo.Create(ctx, s.db, card); err != nil {
		logger.Error("Failed to create card", "error", err)
		return nil, model.NewAppError("CARD_CREATE_FAILED", "Could not create the card.", "", model.ErrInternalServer)
	}

	logger.Info("Card created", "card_id", card.CardID)
	return card, nil
}

func (s *cardService) GetCard(ctx context.Context, cardID uuid.UUID) (*model.Flashcard, error) {
	return s.cardRepo.FindByID(ctx, s.db, cardID)
}

func (s *cardService) ListCards(ctx context.Context, filter repository.CardListFilter) ([]*model.Flashcard, error) {
	logger := middleware.GetLogger(ctx)

	if filter.DueOnly && filter.Now.IsZero() {
		filter.Now = time.Now()
	}
	cards, err := s.cardRepo.List(ctx, s.db, filter)
	if err != nil {
		logger.Error("Failed to list cards", "error", err)
		return nil, model.NewAppError("CARD_LIST_FAILED", "Could not list cards.", "", model.ErrInternalServer)
	}
	return cards, nil
}

func (s *cardService) UpdateCard(ctx context.Context, cardID uuid.UUID, req *model.PutCardRequest) (*model.Flashcard, error) {
	logger := middleware.GetLogger(ctx).With("card_id", cardID)

	card, err := s.cardRepo.FindByID(ctx, s.db, cardID)
	if err != nil {
		return nil, err
	}
	if req.SetID != nil {
		if _, err := s.setRepo.FindByID(ctx, s.db, *req.SetID); err != nil {
			return nil, model.NewAppError("SET_NOT_FOUND", "The target set does not exist.", "set_id", model.ErrNotFound)
		}
	}

	card.Front = req.Front
	card.Back = req.Back
	card.SetID = req.SetID

	if err := s.cardRepo.Update(ctx, s.db, card); err != nil {
		logger.Error("Failed to update card", "error", err)
		return nil, model.NewAppError("CARD_UPDATE_FAILED", "Could not update the card.", "", model.ErrInternalServer)
	}
	return card, nil
}

func (s *cardService) PatchCard(ctx context.Context, cardID uuid.UUID, req *model.PatchCardRequest) (*model.Flashcard, error) {
	logger := middleware.GetLogger(ctx).With("card_id", cardID)

	card, err := s.cardRepo.FindByID(ctx, s.db, cardID)
	if err != nil {
		return nil, err
	}

	if req.Front != nil {
		card.Front = *req.Front
	}
	if req.Back != nil {
		card.Back = *req.Back
	}
	if req.SetID != nil {
		if _, err := s.setRepo.FindByID(ctx, s.db, *req.SetID); err != nil {
			return nil, model.NewAppError("SET_NOT_FOUND", "The target set does not exist.", "set_id", model.ErrNotFound)
		}
		card.SetID = req.SetID
	}
	if req.IsFlagged != nil {
		card.IsFlagged = *req.IsFlagged
	}
	if req.Notes != nil {
		card.Notes = *req.Notes
	}

	if err := s.cardRepo.Update(ctx, s.db, card); err != nil {
		logger.Error("Failed to patch card", "error", err)
		return nil, model.NewAppError("CARD_UPDATE_FAILED", "Could not update the card.", "", model.ErrInternalServer)
	}
	return card, nil
}

func (s *cardService) DeleteCard(ctx context.Context, cardID uuid.UUID) error {
	logger := middleware.GetLogger(ctx).With("card_id", cardID)

	if err := s.cardRepo.Delete(ctx, s.db, cardID); err != nil {
		if err == model.ErrNotFound {
			return err
		}
		logger.Error("Failed to delete card", "error", err)
		return model.NewAppError("CARD_DELETE_FAILED", "Could not delete the card.", "", model.ErrInternalServer)
	}
	logger.Info("Card deleted")
	return nil
}

func (s *cardService) SetFlag(ctx context.Context, cardID uuid.UUID, flagged bool) error {
	return s.cardRepo.SetFlag(ctx, s.db, cardID, flagged)
}

func (s *cardService) SetNotes(ctx context.Context, cardID uuid.UUID, notes string) error {
	return s.cardRepo.SetNotes(ctx, s.db, cardID, notes)
}
