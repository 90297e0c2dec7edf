package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"uniflash/internal/config"
	"uniflash/internal/middleware"
	"uniflash/internal/model"
	"uniflash/internal/repository"
	"uniflash/internal/review"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReviewService runs review sessions: it owns the engine registry and
// adapts the gorm repositories to the engine's store interfaces.
type ReviewService interface {
	StartSession(ctx context.Context, req *model.StartSessionRequest) (*model.StartSessionResponse, error)
	RevealAnswer(ctx context.Context, sessionID uuid.UUID) error
	RateCard(ctx context.Context, sessionID uuid.UUID, rating model.Rating) (*model.RateCardResponse, error)
	FinalizeSession(ctx context.Context, sessionID uuid.UUID) (*model.SessionSummary, error)
	OpenSlideOverlay(ctx context.Context, sessionID uuid.UUID) error
	CloseSlideOverlay(ctx context.Context, sessionID uuid.UUID) error
	ShuffleSession(ctx context.Context, sessionID uuid.UUID) ([]*model.Flashcard, error)
	SetReverse(ctx context.Context, sessionID uuid.UUID, reverse bool) error
	AbandonSession(ctx context.Context, sessionID uuid.UUID) error
	GetStreak(ctx context.Context) (model.Streak, error)
}

type reviewService struct {
	db          *gorm.DB
	cardRepo    repository.CardRepository
	sessionRepo repository.SessionRepository
	settings    SettingsService
	cfg         *config.Config
	registry    *review.Registry
	location    *time.Location
	logger      *slog.Logger
}

func NewReviewService(db *gorm.DB, cardRepo repository.CardRepository, sessionRepo repository.SessionRepository, settings SettingsService, cfg *config.Config, logger *slog.Logger) ReviewService {
	loc, err := time.LoadLocation(cfg.App.Timezone)
	if err != nil {
		logger.Warn("Unknown timezone in config, falling back to UTC", "timezone", cfg.App.Timezone)
		loc = time.UTC
	}
	return &reviewService{
		db:          db,
		cardRepo:    cardRepo,
		sessionRepo: sessionRepo,
		settings:    settings,
		cfg:         cfg,
		registry:    review.NewRegistry(),
		location:    loc,
		logger:      logger,
	}
}

// cardStoreAdapter narrows the card repository to what the engine needs.
type cardStoreAdapter struct {
	db    *gorm.DB
	repo  repository.CardRepository
	limit int
}

func (a *cardStoreAdapter) FetchDueCards(ctx context.Context, filter review.DueFilter) ([]*model.Flashcard, error) {
	cards, err := a.repo.FindDue(ctx, a.db, time.Now(), filter.SetIDs, a.limit)
	if err != nil {
		return nil, model.NewAppError("DUE_FETCH_FAILED", "Could not load due cards.", "", model.ErrUnavailable)
	}
	return cards, nil
}

func (a *cardStoreAdapter) ApplySchedule(ctx context.Context, cardID uuid.UUID, intervalDays int, nextReview, reviewedAt time.Time) error {
	if err := a.repo.ApplySchedule(ctx, a.db, cardID, intervalDays, nextReview, reviewedAt); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return err
		}
		return model.NewAppError("SCHEDULE_WRITE_FAILED", "Could not save the rating.", "", model.ErrUnavailable)
	}
	return nil
}

type sessionStoreAdapter struct {
	db   *gorm.DB
	repo repository.SessionRepository
}

func (a *sessionStoreAdapter) RecordSession(ctx context.Context, session *model.ReviewSession) error {
	if err := a.repo.Create(ctx, a.db, session); err != nil {
		return model.NewAppError("SESSION_WRITE_FAILED", "Could not record the session summary.", "", model.ErrUnavailable)
	}
	return nil
}

type streakAdapter struct {
	db       *gorm.DB
	repo     repository.SessionRepository
	location *time.Location
}

func (a *streakAdapter) FetchStreak(ctx context.Context) (model.Streak, error) {
	return a.repo.FetchStreak(ctx, a.db, time.Now(), a.location)
}

// StartSession re-reads the interval policy and preferences, loads due
// cards and registers a fresh engine. Zero due cards is the all-caught-up
// answer, not a session.
func (s *reviewService) StartSession(ctx context.Context, req *model.StartSessionRequest) (*model.StartSessionResponse, error) {
	logger := middleware.GetLogger(ctx)

	// The policy is never cached across sessions; edits on the settings
	// screen apply to the very next session start.
	policy, err := s.settings.GetIntervalPolicy(ctx)
	if err != nil {
		return nil, err
	}
	prefs, err := s.settings.GetReviewPreferences(ctx)
	if err != nil {
		return nil, err
	}

	shuffle := prefs.AutoShuffleReview
	if req.Shuffle != nil {
		shuffle = *req.Shuffle
	}

	engine := review.NewEngine(
		&cardStoreAdapter{db: s.db, repo: s.cardRepo, limit: s.cfg.App.ReviewLimit},
		&sessionStoreAdapter{db: s.db, repo: s.sessionRepo},
		&streakAdapter{db: s.db, repo: s.sessionRepo, location: s.location},
		policy,
		s.logger,
		review.Options{Reverse: req.Reverse},
	)

	cards, allCaughtUp, err := engine.Start(ctx, review.DueFilter{SetIDs: req.SetIDs}, shuffle)
	if err != nil {
		logger.Error("Failed to start review session", "error", err)
		return nil, err
	}
	if allCaughtUp {
		return &model.StartSessionResponse{AllCaughtUp: true}, nil
	}

	sessionID := s.registry.Add(engine)
	logger.Info("Review session registered", "session_id", sessionID, "cards", len(cards))

	return &model.StartSessionResponse{
		SessionID: sessionID,
		Cards:     cards,
	}, nil
}

// mapEngineError translates engine state errors into the API taxonomy. A
// concurrent rating is a conflict; every other misuse of the state machine
// is a bad request.
func mapEngineError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, review.ErrRatingInFlight):
		return model.NewAppError("RATING_IN_FLIGHT", "A rating is already being applied.", "", model.ErrConflict)
	case errors.Is(err, review.ErrAnswerHidden):
		return model.NewAppError("ANSWER_HIDDEN", "Reveal the answer before rating.", "", model.ErrInvalidInput)
	case errors.Is(err, review.ErrNotActive):
		return model.NewAppError("SESSION_NOT_ACTIVE", "The session is not active.", "", model.ErrInvalidInput)
	case errors.Is(err, review.ErrOverlayOpen):
		return model.NewAppError("OVERLAY_OPEN", "Close the slide overlay first.", "", model.ErrInvalidInput)
	case errors.Is(err, review.ErrNotFinishing):
		return model.NewAppError("NOTHING_TO_FINALIZE", "The session has no pending summary.", "", model.ErrInvalidInput)
	default:
		return err
	}
}

func (s *reviewService) engine(sessionID uuid.UUID) (*review.Engine, error) {
	engine, ok := s.registry.Get(sessionID)
	if !ok {
		return nil, model.NewAppError("SESSION_NOT_FOUND", "The review session does not exist or has ended.", "", model.ErrNotFound)
	}
	return engine, nil
}

func (s *reviewService) RevealAnswer(ctx context.Context, sessionID uuid.UUID) error {
	engine, err := s.engine(sessionID)
	if err != nil {
		return err
	}
	return mapEngineError(engine.Reveal())
}

func (s *reviewService) RateCard(ctx context.Context, sessionID uuid.UUID, rating model.Rating) (*model.RateCardResponse, error) {
	engine, err := s.engine(sessionID)
	if err != nil {
		return nil, err
	}

	outcome, err := engine.Rate(ctx, rating)
	if err != nil {
		// A finished session with a failed summary insert stays
		// registered so the client can retry finalization.
		return nil, mapEngineError(err)
	}

	resp := &model.RateCardResponse{
		NewIntervalDays: outcome.Schedule.IntervalDays,
		NextReview:      outcome.Schedule.NextReview,
		Index:           outcome.Index,
		Remaining:       outcome.Remaining,
		Finished:        outcome.Finished,
		Summary:         outcome.Summary,
	}
	if outcome.Finished && outcome.Summary != nil {
		s.registry.Remove(sessionID)
	}
	return resp, nil
}

func (s *reviewService) FinalizeSession(ctx context.Context, sessionID uuid.UUID) (*model.SessionSummary, error) {
	engine, err := s.engine(sessionID)
	if err != nil {
		return nil, err
	}
	summary, err := engine.Finalize(ctx)
	if err != nil {
		return nil, mapEngineError(err)
	}
	s.registry.Remove(sessionID)
	return summary, nil
}

func (s *reviewService) OpenSlideOverlay(ctx context.Context, sessionID uuid.UUID) error {
	engine, err := s.engine(sessionID)
	if err != nil {
		return err
	}
	return mapEngineError(engine.OpenOverlay())
}

func (s *reviewService) CloseSlideOverlay(ctx context.Context, sessionID uuid.UUID) error {
	engine, err := s.engine(sessionID)
	if err != nil {
		return err
	}
	return mapEngineError(engine.CloseOverlay())
}

func (s *reviewService) ShuffleSession(ctx context.Context, sessionID uuid.UUID) ([]*model.Flashcard, error) {
	engine, err := s.engine(sessionID)
	if err != nil {
		return nil, err
	}
	cards, err := engine.Shuffle()
	return cards, mapEngineError(err)
}

func (s *reviewService) SetReverse(ctx context.Context, sessionID uuid.UUID, reverse bool) error {
	engine, err := s.engine(sessionID)
	if err != nil {
		return err
	}
	engine.SetReverse(reverse)
	return nil
}

func (s *reviewService) AbandonSession(ctx context.Context, sessionID uuid.UUID) error {
	engine, err := s.engine(sessionID)
	if err != nil {
		return err
	}
	engine.Abandon()
	s.registry.Remove(sessionID)
	return nil
}

func (s *reviewService) GetStreak(ctx context.Context) (model.Streak, error) {
	logger := middleware.GetLogger(ctx)

	streak, err := s.sessionRepo.FetchStreak(ctx, s.db, time.Now(), s.location)
	if err != nil {
		logger.Error("Failed to fetch streak", "error", err)
		return model.Streak{}, model.NewAppError("STREAK_FETCH_FAILED", "Could not fetch the streak.", "", model.ErrInternalServer)
	}
	return streak, nil
}
