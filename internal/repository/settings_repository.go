package repository

import (
	"context"
	"errors"

	"uniflash/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SettingsRepository interface {
	Get(ctx context.Context, db *gorm.DB, key string) (string, error)
	Put(ctx context.Context, tx *gorm.DB, key, value string) error
}

type gormSettingsRepository struct{}

func NewGormSettingsRepository() SettingsRepository {
	return &gormSettingsRepository{}
}

func (r *gormSettingsRepository) Get(ctx context.Context, db *gorm.DB, key string) (string, error) {
	var setting model.Setting
	result := db.WithContext(ctx).Where("key = ?", key).First(&setting)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return "", model.ErrNotFound
		}
		return "", result.Error
	}
	return setting.Value, nil
}

func (r *gormSettingsRepository) Put(ctx context.Context, tx *gorm.DB, key, value string) error {
	setting := model.Setting{Key: key, Value: value}
	return tx.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&setting).Error
}
