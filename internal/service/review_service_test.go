package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"uniflash/internal/config"
	"uniflash/internal/model"
	"uniflash/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupServiceDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.Flashcard{},
		&model.FlashcardSet{},
		&model.ReviewSession{},
		&model.Setting{},
	))
	return db
}

func newReviewTestService(t *testing.T, db *gorm.DB) ReviewService {
	t.Helper()
	cfg := &config.Config{}
	cfg.App.ReviewLimit = 200
	cfg.App.Timezone = "UTC"
	settings := NewSettingsService(db, repository.NewGormSettingsRepository())
	return NewReviewService(
		db,
		repository.NewGormCardRepository(),
		repository.NewGormSessionRepository(),
		settings,
		cfg,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
}

func seedDueCards(t *testing.T, db *gorm.DB, n int) []*model.Flashcard {
	t.Helper()
	repo := repository.NewGormCardRepository()
	cards := make([]*model.Flashcard, 0, n)
	for i := 0; i < n; i++ {
		card := &model.Flashcard{
			CardID:       uuid.New(),
			Front:        fmt.Sprintf("front %d", i),
			Back:         fmt.Sprintf("back %d", i),
			IntervalDays: 1,
			NextReview:   time.Now().Add(-time.Hour),
		}
		require.NoError(t, repo.Create(context.Background(), db, card))
		cards = append(cards, card)
	}
	return cards
}

func TestReviewService_StartSession(t *testing.T) {
	t.Run("no due cards means all caught up and no session", func(t *testing.T) {
		db := setupServiceDB(t)
		svc := newReviewTestService(t, db)

		resp, err := svc.StartSession(context.Background(), &model.StartSessionRequest{})
		require.NoError(t, err)
		assert.True(t, resp.AllCaughtUp)
		assert.Equal(t, uuid.Nil, resp.SessionID)
		assert.Empty(t, resp.Cards)
	})

	t.Run("due cards start a registered session", func(t *testing.T) {
		db := setupServiceDB(t)
		svc := newReviewTestService(t, db)
		seedDueCards(t, db, 3)

		resp, err := svc.StartSession(context.Background(), &model.StartSessionRequest{})
		require.NoError(t, err)
		assert.False(t, resp.AllCaughtUp)
		assert.NotEqual(t, uuid.Nil, resp.SessionID)
		assert.Len(t, resp.Cards, 3)

		// The session is live: revealing the first answer works.
		assert.NoError(t, svc.RevealAnswer(context.Background(), resp.SessionID))
	})

	t.Run("auto shuffle preference applies when the request leaves it unset", func(t *testing.T) {
		db := setupServiceDB(t)
		settings := NewSettingsService(db, repository.NewGormSettingsRepository())
		require.NoError(t, settings.PutReviewPreferences(context.Background(), model.ReviewPreferences{AutoShuffleReview: true}))

		svc := newReviewTestService(t, db)
		seeded := seedDueCards(t, db, 20)

		resp, err := svc.StartSession(context.Background(), &model.StartSessionRequest{})
		require.NoError(t, err)

		// Same multiset of cards regardless of order.
		seen := map[uuid.UUID]bool{}
		for _, c := range resp.Cards {
			seen[c.CardID] = true
		}
		assert.Len(t, seen, len(seeded))
		for _, c := range seeded {
			assert.True(t, seen[c.CardID])
		}
	})
}

func TestReviewService_FullSession(t *testing.T) {
	db := setupServiceDB(t)
	svc := newReviewTestService(t, db)
	seedDueCards(t, db, 2)
	ctx := context.Background()

	resp, err := svc.StartSession(ctx, &model.StartSessionRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Cards, 2)

	require.NoError(t, svc.RevealAnswer(ctx, resp.SessionID))
	first, err := svc.RateCard(ctx, resp.SessionID, model.RatingGood)
	require.NoError(t, err)
	assert.False(t, first.Finished)
	assert.Equal(t, 1, first.Remaining)
	assert.True(t, first.NextReview.After(time.Now()))

	require.NoError(t, svc.RevealAnswer(ctx, resp.SessionID))
	last, err := svc.RateCard(ctx, resp.SessionID, model.RatingEasy)
	require.NoError(t, err)
	assert.True(t, last.Finished)
	require.NotNil(t, last.Summary)
	assert.Equal(t, 2, last.Summary.CardsReviewed)

	// The summary is durable and counts toward the streak.
	var sessions []model.ReviewSession
	require.NoError(t, db.Find(&sessions).Error)
	require.Len(t, sessions, 1)
	assert.Equal(t, 2, sessions[0].CardsReviewed)
	assert.Equal(t, 1, last.Summary.Streak.CurrentStreak)

	// A finished session is gone from the registry.
	err = svc.RevealAnswer(ctx, resp.SessionID)
	assert.ErrorIs(t, err, model.ErrNotFound)

	// Both cards were rescheduled into the future.
	var due int64
	require.NoError(t, db.Model(&model.Flashcard{}).Where("next_review <= ?", time.Now()).Count(&due).Error)
	assert.Zero(t, due)
}

func TestReviewService_PolicyIsReadPerSession(t *testing.T) {
	db := setupServiceDB(t)
	svc := newReviewTestService(t, db)
	settings := NewSettingsService(db, repository.NewGormSettingsRepository())
	seedDueCards(t, db, 1)
	ctx := context.Background()

	// Make "good" a fixed 10 day step before the session starts.
	policy := model.DefaultIntervalPolicy()
	policy.Steps[model.RatingGood] = model.IntervalStep{Value: 10, Unit: model.UnitDays}
	require.NoError(t, settings.PutIntervalPolicy(ctx, policy))

	resp, err := svc.StartSession(ctx, &model.StartSessionRequest{})
	require.NoError(t, err)

	require.NoError(t, svc.RevealAnswer(ctx, resp.SessionID))
	outcome, err := svc.RateCard(ctx, resp.SessionID, model.RatingGood)
	require.NoError(t, err)
	assert.Equal(t, 10, outcome.NewIntervalDays)
}

func TestReviewService_AbandonSession(t *testing.T) {
	db := setupServiceDB(t)
	svc := newReviewTestService(t, db)
	seedDueCards(t, db, 3)
	ctx := context.Background()

	resp, err := svc.StartSession(ctx, &model.StartSessionRequest{})
	require.NoError(t, err)

	require.NoError(t, svc.RevealAnswer(ctx, resp.SessionID))
	_, err = svc.RateCard(ctx, resp.SessionID, model.RatingAgain)
	require.NoError(t, err)

	require.NoError(t, svc.AbandonSession(ctx, resp.SessionID))

	// No summary row, but the committed rating stays applied.
	var sessions int64
	require.NoError(t, db.Model(&model.ReviewSession{}).Count(&sessions).Error)
	assert.Zero(t, sessions)

	var reviewed int64
	require.NoError(t, db.Model(&model.Flashcard{}).Where("last_reviewed IS NOT NULL").Count(&reviewed).Error)
	assert.EqualValues(t, 1, reviewed)

	assert.ErrorIs(t, svc.RevealAnswer(ctx, resp.SessionID), model.ErrNotFound)
}

func TestReviewService_UnknownSession(t *testing.T) {
	db := setupServiceDB(t)
	svc := newReviewTestService(t, db)

	_, err := svc.RateCard(context.Background(), uuid.New(), model.RatingGood)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestReviewService_GetStreak(t *testing.T) {
	db := setupServiceDB(t)
	svc := newReviewTestService(t, db)
	ctx := context.Background()

	streak, err := svc.GetStreak(ctx)
	require.NoError(t, err)
	assert.Zero(t, streak.CurrentStreak)

	require.NoError(t, repository.NewGormSessionRepository().Create(ctx, db, &model.ReviewSession{
		SessionID:     uuid.New(),
		CardsReviewed: 5,
		TimeSpent:     60,
	}))

	streak, err = svc.GetStreak(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, streak.CurrentStreak)
}
