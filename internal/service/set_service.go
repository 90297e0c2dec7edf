package service

import (
	"context"

	"uniflash/internal/middleware"
	"uniflash/internal/model"
	"uniflash/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SetService interface {
	CreateSet(ctx context.Context, req *model.PostSetRequest) (*model.FlashcardSet, error)
	GetSet(ctx context.Context, setID uuid.UUID) (*model.FlashcardSet, error)
	ListSets(ctx context.Context) ([]*model.FlashcardSet, error)
	UpdateSet(ctx context.Context, setID uuid.UUID, req *model.PutSetRequest) (*model.FlashcardSet, error)
	DeleteSet(ctx context.Context, setID uuid.UUID) error
}

type setService struct {
	db       *gorm.DB
	setRepo  repository.SetRepository
	cardRepo repository.CardRepository
}

func NewSetService(db *gorm.DB, setRepo repository.SetRepository, cardRepo repository.CardRepository) SetService {
	return &setService{
		db:       db,
		setRepo:  setRepo,
		cardRepo: cardRepo,
	}
}

func (s *setService) CreateSet(ctx context.Context, req *model.PostSetRequest) (*model.FlashcardSet, error) {
	logger := middleware.GetLogger(ctx)

	set := &model.FlashcardSet{
		SetID:       uuid.New(),
		Name:        req.Name,
		Icon:        req.Icon,
		Color:       req.Color,
		Description: req.Description,
	}
	if err := s.setRepo.Create(ctx, s.db, set); err != nil {
		logger.Error("Failed to create set", "error", err)
		return nil, model.NewAppError("SET_CREATE_FAILED", "Could not create the set.", "", model.ErrInternalServer)
	}
	logger.Info("Set created", "set_id", set.SetID, "name", set.Name)
	return set, nil
}

func (s *setService) GetSet(ctx context.Context, setID uuid.UUID) (*model.FlashcardSet, error) {
	return s.setRepo.FindByID(ctx, s.db, setID)
}

func (s *setService) ListSets(ctx context.Context) ([]*model.FlashcardSet, error) {
	logger := middleware.GetLogger(ctx)

	sets, err := s.setRepo.List(ctx, s.db)
	if err != nil {
		logger.Error("Failed to list sets", "error", err)
		return nil, model.NewAppError("SET_LIST_FAILED", "Could not list sets.", "", model.ErrInternalServer)
	}
	return sets, nil
}

func (s *setService) UpdateSet(ctx context.Context, setID uuid.UUID, req *model.PutSetRequest) (*model.FlashcardSet, error) {
	logger := middleware.GetLogger(ctx).With("set_id", setID)

	set, err := s.setRepo.FindByID(ctx, s.db, setID)
	if err != nil {
		return nil, err
	}

	set.Name = req.Name
	set.Icon = req.Icon
	set.Color = req.Color
	set.Description = req.Description

	if err := s.setRepo.Update(ctx, s.db, set); err != nil {
		logger.Error("Failed to update set", "error", err)
		return nil, model.NewAppError("SET_UPDATE_FAILED", "Could not update the set.", "", model.ErrInternalServer)
	}
	return set, nil
}

// DeleteSet removes the set and unassigns its cards in one transaction;
// the cards themselves survive.
func (s *setService) DeleteSet(ctx context.Context, setID uuid.UUID) error {
	logger := middleware.GetLogger(ctx).With("set_id", setID)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.setRepo.Delete(ctx, tx, setID); err != nil {
			return err
		}
		if err := s.cardRepo.DetachSet(ctx, tx, setID); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		if err == model.ErrNotFound {
			return err
		}
		logger.Error("Failed to delete set", "error", err)
		return model.NewAppError("SET_DELETE_FAILED", "Could not delete the set.", "", model.ErrInternalServer)
	}

	logger.Info("Set deleted, cards unassigned")
	return nil
}
