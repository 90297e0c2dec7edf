package service

import (
	"context"
	"time"

	"uniflash/internal/middleware"
	"uniflash/internal/model"
	"uniflash/internal/repository"

	"gorm.io/gorm"
)

const recentSessionLimit = 10

type DashboardService interface {
	GetDashboard(ctx context.Context) (*model.DashboardResponse, error)
}

type dashboardService struct {
	db          *gorm.DB
	cardRepo    repository.CardRepository
	setRepo     repository.SetRepository
	sessionRepo repository.SessionRepository
	location    *time.Location
}

func NewDashboardService(db *gorm.DB, cardRepo repository.CardRepository, setRepo repository.SetRepository, sessionRepo repository.SessionRepository, location *time.Location) DashboardService {
	return &dashboardService{
		db:          db,
		cardRepo:    cardRepo,
		setRepo:     setRepo,
		sessionRepo: sessionRepo,
		location:    location,
	}
}

func (s *dashboardService) GetDashboard(ctx context.Context) (*model.DashboardResponse, error) {
	logger := middleware.GetLogger(ctx)
	now := time.Now()

	cardCount, err := s.cardRepo.Count(ctx, s.db)
	if err != nil {
		logger.Error("Failed to count cards", "error", err)
		return nil, model.NewAppError("DASHBOARD_FAILED", "Could not build the dashboard.", "", model.ErrInternalServer)
	}
	setCount, err := s.setRepo.Count(ctx, s.db)
	if err != nil {
		logger.Error("Failed to count sets", "error", err)
		return nil, model.NewAppError("DASHBOARD_FAILED", "Could not build the dashboard.", "", model.ErrInternalServer)
	}
	dueCount, err := s.cardRepo.CountDue(ctx, s.db, now)
	if err != nil {
		logger.Error("Failed to count due cards", "error", err)
		return nil, model.NewAppError("DASHBOARD_FAILED", "Could not build the dashboard.", "", model.ErrInternalServer)
	}
	streak, err := s.sessionRepo.FetchStreak(ctx, s.db, now, s.location)
	if err != nil {
		logger.Error("Failed to fetch streak", "error", err)
		return nil, model.NewAppError("DASHBOARD_FAILED", "Could not build the dashboard.", "", model.ErrInternalServer)
	}
	recent, err := s.sessionRepo.ListRecent(ctx, s.db, recentSessionLimit)
	if err != nil {
		logger.Error("Failed to list recent sessions", "error", err)
		return nil, model.NewAppError("DASHBOARD_FAILED", "Could not build the dashboard.", "", model.ErrInternalServer)
	}

	return &model.DashboardResponse{
		CardCount:      cardCount,
		SetCount:       setCount,
		DueCount:       dueCount,
		Streak:         streak,
		RecentSessions: recent,
	}, nil
}
