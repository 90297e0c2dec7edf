// Package scheduler implements the spaced-repetition interval computation.
// It is pure: callers persist the result atomically to the card record.
package scheduler

import (
	"fmt"
	"math"
	"time"

	"uniflash/internal/model"
)

const minutesPerDay = 24 * 60

// Schedule is the outcome of rating a card: the bookkeeping interval to
// store and the absolute instant the card becomes due again.
type Schedule struct {
	IntervalDays int
	NextReview   time.Time
}

// ComputeNextSchedule maps (rating, current interval, policy) to the next
// schedule at the given instant.
//
// Fixed-duration units (minutes/hours/days) place the next review a literal
// duration out and derive the stored interval by rounding that duration to
// whole days, floored at one. The stored value is a bookkeeping proxy for
// future multiplier ratings, not the exact time-to-next-review.
//
// The multiplier unit scales the current interval and schedules the card
// that many days out. MaxDays caps only the stored interval; the computed
// next-review instant is left as-is even when it lies beyond the cap.
func ComputeNextSchedule(rating model.Rating, currentIntervalDays int, policy model.IntervalPolicy, now time.Time) (Schedule, error) {
	step, ok := policy.Steps[rating]
	if !ok {
		return Schedule{}, fmt.Errorf("%w: policy has no step for rating %q", model.ErrInvalidInput, rating)
	}
	if !step.Unit.Valid() {
		return Schedule{}, fmt.Errorf("%w: invalid interval unit %q", model.ErrInvalidInput, step.Unit)
	}
	if step.Value < 1 {
		return Schedule{}, fmt.Errorf("%w: interval value must be >= 1, got %g", model.ErrInvalidInput, step.Value)
	}
	if policy.MaxDays < 1 {
		return Schedule{}, fmt.Errorf("%w: maxDays must be >= 1, got %d", model.ErrInvalidInput, policy.MaxDays)
	}
	if currentIntervalDays < 1 {
		currentIntervalDays = 1
	}

	var (
		rawDays    int
		nextReview time.Time
	)

	switch step.Unit {
	case model.UnitMultiplier:
		rawDays = int(math.Round(float64(currentIntervalDays) * step.Value))
		if rawDays < 1 {
			rawDays = 1
		}
		nextReview = now.AddDate(0, 0, rawDays)
	case model.UnitMinutes:
		nextReview = now.Add(time.Duration(step.Value * float64(time.Minute)))
		rawDays = dayFloor(step.Value / minutesPerDay)
	case model.UnitHours:
		nextReview = now.Add(time.Duration(step.Value * float64(time.Hour)))
		rawDays = dayFloor(step.Value / 24)
	case model.UnitDays:
		days := int(math.Round(step.Value))
		nextReview = now.AddDate(0, 0, days)
		rawDays = days
	}

	intervalDays := rawDays
	if intervalDays > policy.MaxDays {
		intervalDays = policy.MaxDays
	}
	if intervalDays < 1 {
		intervalDays = 1
	}

	return Schedule{IntervalDays: intervalDays, NextReview: nextReview}, nil
}

func dayFloor(days float64) int {
	d := int(math.Round(days))
	if d < 1 {
		return 1
	}
	return d
}
