package repository

import (
	"context"
	"errors"
	"time"

	"uniflash/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CardListFilter narrows List results. Nil/zero fields mean unrestricted.
type CardListFilter struct {
	SetID   *uuid.UUID
	Flagged *bool
	DueOnly bool
	Now     time.Time
}

type CardRepository interface {
	Create(ctx context.Context, tx *gorm.DB, card *model.Flashcard) error
	FindByID(ctx context.Context, db *gorm.DB, cardID uuid.UUID) (*model.Flashcard, error)
	List(ctx context.Context, db *gorm.DB, filter CardListFilter) ([]*model.Flashcard, error)
	Update(ctx context.Context, tx *gorm.DB, card *model.Flashcard) error
	Delete(ctx context.Context, tx *gorm.DB, cardID uuid.UUID) error
	FindDue(ctx context.Context, db *gorm.DB, now time.Time, setIDs []uuid.UUID, limit int) ([]*model.Flashcard, error)
	ApplySchedule(ctx context.Context, tx *gorm.DB, cardID uuid.UUID, intervalDays int, nextReview, reviewedAt time.Time) error
	SetFlag(ctx context.Context, tx *gorm.DB, cardID uuid.UUID, flagged bool) error
	SetNotes(ctx context.Context, tx *gorm.DB, cardID uuid.UUID, notes string) error
	DetachSet(ctx context.Context, tx *gorm.DB, setID uuid.UUID) error
	Count(ctx context.Context, db *gorm.DB) (int64, error)
	CountDue(ctx context.Context, db *gorm.DB, now time.Time) (int64, error)
}

type gormCardRepository struct{}

func NewGormCardRepository() CardRepository {
	return &gormCardRepository{}
}

func (r *gormCardRepository) Create(ctx context.Context, tx *gorm.DB, card *model.Flashcard) error {
	return tx.WithContext(ctx).Create(card).Error
}

func (r *gormCardRepository) FindByID(ctx context.Context, db *gorm.DB, cardID uuid.UUID) (*model.Flashcard, error) {
	var card model.Flashcard
	result := db.WithContext(ctx).Where("card_id = ?", cardID).First(&card)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, result.Error
	}
	return &card, nil
}

func (r *gormCardRepository) List(ctx context.Context, db *gorm.DB, filter CardListFilter) ([]*model.Flashcard, error) {
	query := db.WithContext(ctx).Model(&model.Flashcard{})
	if filter.SetID != nil {
		query = query.Where("set_id = ?", *filter.SetID)
	}
	if filter.Flagged != nil {
		query = query.Where("is_flagged = ?", *filter.Flagged)
	}
	if filter.DueOnly {
		query = query.Where("next_review <= ?", filter.Now)
	}

	var cards []*model.Flashcard
	if err := query.Order("created_at DESC, card_id").Find(&cards).Error; err != nil {
		return nil, err
	}
	return cards, nil
}

func (r *gormCardRepository) Update(ctx context.Context, tx *gorm.DB, card *model.Flashcard) error {
	result := tx.WithContext(ctx).Save(card)
	return result.Error
}

func (r *gormCardRepository) Delete(ctx context.Context, tx *gorm.DB, cardID uuid.UUID) error {
	result := tx.WithContext(ctx).Where("card_id = ?", cardID).Delete(&model.Flashcard{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}

// FindDue returns cards whose next_review is at or before now, oldest due
// first, ties broken by id for a stable order. An empty setIDs slice means
// no set restriction.
func (r *gormCardRepository) FindDue(ctx context.Context, db *gorm.DB, now time.Time, setIDs []uuid.UUID, limit int) ([]*model.Flashcard, error) {
	query := db.WithContext(ctx).
		Where("next_review <= ?", now).
		Order("next_review ASC, card_id ASC")
	if len(setIDs) > 0 {
		query = query.Where("set_id IN ?", setIDs)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var cards []*model.Flashcard
	if err := query.Find(&cards).Error; err != nil {
		return nil, err
	}
	return cards, nil
}

// ApplySchedule writes interval_days, next_review and last_reviewed in one
// UPDATE so a rating is never half-applied.
func (r *gormCardRepository) ApplySchedule(ctx context.Context, tx *gorm.DB, cardID uuid.UUID, intervalDays int, nextReview, reviewedAt time.Time) error {
	result := tx.WithContext(ctx).Model(&model.Flashcard{}).
		Where("card_id = ?", cardID).
		Updates(map[string]interface{}{
			"interval_days": intervalDays,
			"next_review":   nextReview,
			"last_reviewed": reviewedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *gormCardRepository) SetFlag(ctx context.Context, tx *gorm.DB, cardID uuid.UUID, flagged bool) error {
	return r.updateSingleColumn(ctx, tx, cardID, "is_flagged", flagged)
}

func (r *gormCardRepository) SetNotes(ctx context.Context, tx *gorm.DB, cardID uuid.UUID, notes string) error {
	return r.updateSingleColumn(ctx, tx, cardID, "notes", notes)
}

func (r *gormCardRepository) updateSingleColumn(ctx context.Context, tx *gorm.DB, cardID uuid.UUID, column string, value interface{}) error {
	result := tx.WithContext(ctx).Model(&model.Flashcard{}).
		Where("card_id = ?", cardID).
		Update(column, value)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}

// DetachSet unassigns every card of a deleted set.
func (r *gormCardRepository) DetachSet(ctx context.Context, tx *gorm.DB, setID uuid.UUID) error {
	return tx.WithContext(ctx).Model(&model.Flashcard{}).
		Where("set_id = ?", setID).
		Update("set_id", nil).Error
}

func (r *gormCardRepository) Count(ctx context.Context, db *gorm.DB) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Model(&model.Flashcard{}).Count(&count).Error
	return count, err
}

func (r *gormCardRepository) CountDue(ctx context.Context, db *gorm.DB, now time.Time) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Model(&model.Flashcard{}).
		Where("next_review <= ?", now).
		Count(&count).Error
	return count, err
}
