package repository

import (
	"context"
	"sort"
	"time"

	"uniflash/internal/model"

	"gorm.io/gorm"
)

type SessionRepository interface {
	Create(ctx context.Context, tx *gorm.DB, session *model.ReviewSession) error
	ListRecent(ctx context.Context, db *gorm.DB, limit int) ([]*model.ReviewSession, error)
	FetchStreak(ctx context.Context, db *gorm.DB, now time.Time, loc *time.Location) (model.Streak, error)
}

type gormSessionRepository struct{}

func NewGormSessionRepository() SessionRepository {
	return &gormSessionRepository{}
}

func (r *gormSessionRepository) Create(ctx context.Context, tx *gorm.DB, session *model.ReviewSession) error {
	return tx.WithContext(ctx).Create(session).Error
}

func (r *gormSessionRepository) ListRecent(ctx context.Context, db *gorm.DB, limit int) ([]*model.ReviewSession, error) {
	var sessions []*model.ReviewSession
	query := db.WithContext(ctx).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

// FetchStreak derives the consecutive-study-day counters from the session
// history. Day bucketing happens in Go so the rule is identical across
// drivers.
func (r *gormSessionRepository) FetchStreak(ctx context.Context, db *gorm.DB, now time.Time, loc *time.Location) (model.Streak, error) {
	var timestamps []time.Time
	err := db.WithContext(ctx).Model(&model.ReviewSession{}).
		Order("created_at ASC").
		Pluck("created_at", &timestamps).Error
	if err != nil {
		return model.Streak{}, err
	}
	return ComputeStreak(timestamps, now, loc), nil
}

// ComputeStreak buckets session timestamps into calendar days in loc and
// counts runs of adjacent days. The current streak counts back from today,
// or from yesterday when today has no session yet.
func ComputeStreak(timestamps []time.Time, now time.Time, loc *time.Location) model.Streak {
	if len(timestamps) == 0 {
		return model.Streak{}
	}

	seen := make(map[int64]bool, len(timestamps))
	days := make([]int64, 0, len(timestamps))
	for _, ts := range timestamps {
		d := dayOrdinal(ts, loc)
		if !seen[d] {
			seen[d] = true
			days = append(days, d)
		}
	}
	sort.Slice(days, func(i, j int) bool { return days[i] < days[j] })

	longest, run := 1, 1
	for i := 1; i < len(days); i++ {
		if days[i] == days[i-1]+1 {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}

	today := dayOrdinal(now, loc)
	current := 0
	anchor := today
	if !seen[anchor] {
		anchor = today - 1
	}
	for seen[anchor] {
		current++
		anchor--
	}

	return model.Streak{CurrentStreak: current, LongestStreak: longest}
}

// dayOrdinal numbers calendar days in loc so adjacency is a difference of
// one.
func dayOrdinal(ts time.Time, loc *time.Location) int64 {
	y, m, d := ts.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400
}
