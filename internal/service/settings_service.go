package service

import (
	"context"
	"encoding/json"
	"errors"

	"uniflash/internal/middleware"
	"uniflash/internal/model"
	"uniflash/internal/repository"

	"gorm.io/gorm"
)

// SettingsService persists the interval policy and review preferences in
// the key/value settings store. Readers get defaults until the user saves
// something.
type SettingsService interface {
	GetIntervalPolicy(ctx context.Context) (model.IntervalPolicy, error)
	PutIntervalPolicy(ctx context.Context, policy model.IntervalPolicy) error
	GetReviewPreferences(ctx context.Context) (model.ReviewPreferences, error)
	PutReviewPreferences(ctx context.Context, prefs model.ReviewPreferences) error
}

type settingsService struct {
	db   *gorm.DB
	repo repository.SettingsRepository
}

func NewSettingsService(db *gorm.DB, repo repository.SettingsRepository) SettingsService {
	return &settingsService{db: db, repo: repo}
}

func (s *settingsService) GetIntervalPolicy(ctx context.Context) (model.IntervalPolicy, error) {
	logger := middleware.GetLogger(ctx)

	raw, err := s.repo.Get(ctx, s.db, model.SettingKeyIntervalPolicy)
	if errors.Is(err, model.ErrNotFound) {
		return model.DefaultIntervalPolicy(), nil
	}
	if err != nil {
		logger.Error("Failed to read interval policy", "error", err)
		return model.IntervalPolicy{}, model.NewAppError("SETTINGS_READ_FAILED", "Could not read review settings.", "", model.ErrInternalServer)
	}

	var policy model.IntervalPolicy
	if err := json.Unmarshal([]byte(raw), &policy); err != nil {
		logger.Error("Stored interval policy is corrupt", "error", err)
		return model.IntervalPolicy{}, model.NewAppError("SETTINGS_CORRUPT", "Stored review settings are unreadable.", "", model.ErrInternalServer)
	}
	// A stored policy that no longer validates must not reach the
	// scheduler.
	if err := policy.Validate(); err != nil {
		logger.Error("Stored interval policy is invalid", "error", err)
		return model.IntervalPolicy{}, err
	}
	return policy, nil
}

func (s *settingsService) PutIntervalPolicy(ctx context.Context, policy model.IntervalPolicy) error {
	logger := middleware.GetLogger(ctx)

	if err := policy.Validate(); err != nil {
		return err
	}

	raw, err := json.Marshal(policy)
	if err != nil {
		return model.NewAppError("SETTINGS_ENCODE_FAILED", "Could not encode review settings.", "", model.ErrInternalServer)
	}
	if err := s.repo.Put(ctx, s.db, model.SettingKeyIntervalPolicy, string(raw)); err != nil {
		logger.Error("Failed to store interval policy", "error", err)
		return model.NewAppError("SETTINGS_WRITE_FAILED", "Could not save review settings.", "", model.ErrInternalServer)
	}
	logger.Info("Interval policy updated", "max_days", policy.MaxDays)
	return nil
}

func (s *settingsService) GetReviewPreferences(ctx context.Context) (model.ReviewPreferences, error) {
	logger := middleware.GetLogger(ctx)

	raw, err := s.repo.Get(ctx, s.db, model.SettingKeyReviewPreferences)
	if errors.Is(err, model.ErrNotFound) {
		return model.DefaultReviewPreferences(), nil
	}
	if err != nil {
		logger.Error("Failed to read review preferences", "error", err)
		return model.ReviewPreferences{}, model.NewAppError("SETTINGS_READ_FAILED", "Could not read review preferences.", "", model.ErrInternalServer)
	}

	var prefs model.ReviewPreferences
	if err := json.Unmarshal([]byte(raw), &prefs); err != nil {
		logger.Error("Stored review preferences are corrupt", "error", err)
		return model.ReviewPreferences{}, model.NewAppError("SETTINGS_CORRUPT", "Stored review preferences are unreadable.", "", model.ErrInternalServer)
	}
	return prefs, nil
}

func (s *settingsService) PutReviewPreferences(ctx context.Context, prefs model.ReviewPreferences) error {
	logger := middleware.GetLogger(ctx)

	raw, err := json.Marshal(prefs)
	if err != nil {
		return model.NewAppError("SETTINGS_ENCODE_FAILED", "Could not encode review preferences.", "", model.ErrInternalServer)
	}
	if err := s.repo.Put(ctx, s.db, model.SettingKeyReviewPreferences, string(raw)); err != nil {
		logger.Error("Failed to store review preferences", "error", err)
		return model.NewAppError("SETTINGS_WRITE_FAILED", "Could not save review preferences.", "", model.ErrInternalServer)
	}
	return nil
}
