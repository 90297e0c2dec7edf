package repository

import (
	"context"
	"errors"

	"uniflash/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SetRepository interface {
	Create(ctx context.Context, tx *gorm.DB, set *model.FlashcardSet) error
	FindByID(ctx context.Context, db *gorm.DB, setID uuid.UUID) (*model.FlashcardSet, error)
	List(ctx context.Context, db *gorm.DB) ([]*model.FlashcardSet, error)
	Update(ctx context.Context, tx *gorm.DB, set *model.FlashcardSet) error
	Delete(ctx context.Context, tx *gorm.DB, setID uuid.UUID) error
	Count(ctx context.Context, db *gorm.DB) (int64, error)
}

type gormSetRepository struct{}

func NewGormSetRepository() SetRepository {
	return &gormSetRepository{}
}

func (r *gormSetRepository) Create(ctx context.Context, tx *gorm.DB, set *model.FlashcardSet) error {
	return tx.WithContext(ctx).Create(set).Error
}

func (r *gormSetRepository) FindByID(ctx context.Context, db *gorm.DB, setID uuid.UUID) (*model.FlashcardSet, error) {
	var set model.FlashcardSet
	result := db.WithContext(ctx).Where("set_id = ?", setID).First(&set)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, result.Error
	}
	return &set, nil
}

func (r *gormSetRepository) List(ctx context.Context, db *gorm.DB) ([]*model.FlashcardSet, error) {
	var sets []*model.FlashcardSet
	if err := db.WithContext(ctx).Order("name ASC").Find(&sets).Error; err != nil {
		return nil, err
	}
	return sets, nil
}

func (r *gormSetRepository) Update(ctx context.Context, tx *gorm.DB, set *model.FlashcardSet) error {
	return tx.WithContext(ctx).Save(set).Error
}

func (r *gormSetRepository) Delete(ctx context.Context, tx *gorm.DB, setID uuid.UUID) error {
	result := tx.WithContext(ctx).Where("set_id = ?", setID).Delete(&model.FlashcardSet{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *gormSetRepository) Count(ctx context.Context, db *gorm.DB) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Model(&model.FlashcardSet{}).Count(&count).Error
	return count, err
}
