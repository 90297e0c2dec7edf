package model

import "fmt"

// Rating is the user's self-assessment of a card during review.
type Rating string

const (
	RatingAgain Rating = "again"
	RatingHard  Rating = "hard"
	RatingGood  Rating = "good"
	RatingEasy  Rating = "easy"
)

// Ratings lists all valid ratings in display order.
var Ratings = []Rating{RatingAgain, RatingHard, RatingGood, RatingEasy}

func (r Rating) Valid() bool {
	switch r {
	case RatingAgain, RatingHard, RatingGood, RatingEasy:
		return true
	}
	return false
}

// IntervalUnit qualifies the value of an interval step. Fixed-duration units
// (minutes/hours/days) schedule the card a literal duration out; multiplier
// scales the card's current interval.
type IntervalUnit string

const (
	UnitMinutes    IntervalUnit = "minutes"
	UnitHours      IntervalUnit = "hours"
	UnitDays       IntervalUnit = "days"
	UnitMultiplier IntervalUnit = "multiplier"
)

func (u IntervalUnit) Valid() bool {
	switch u {
	case UnitMinutes, UnitHours, UnitDays, UnitMultiplier:
		return true
	}
	return false
}

// IntervalStep is one rating's scheduling rule.
type IntervalStep struct {
	Value float64      `json:"value" validate:"required,gte=1"`
	Unit  IntervalUnit `json:"unit" validate:"required"`
}

// IntervalPolicy maps every rating to its step plus a global cap on the
// stored bookkeeping interval.
type IntervalPolicy struct {
	Steps   map[Rating]IntervalStep `json:"steps" validate:"required"`
	MaxDays int                     `json:"maxDays" validate:"required,gte=1"`
}

// DefaultIntervalPolicy is the policy applied before the user customizes
// anything: short-term re-exposure for failures, exponential growth for
// successes.
func DefaultIntervalPolicy() IntervalPolicy {
	return IntervalPolicy{
		Steps: map[Rating]IntervalStep{
			RatingAgain: {Value: 10, Unit: UnitMinutes},
			RatingHard:  {Value: 1, Unit: UnitDays},
			RatingGood:  {Value: 2.5, Unit: UnitMultiplier},
			RatingEasy:  {Value: 4, Unit: UnitMultiplier},
		},
		MaxDays: 365,
	}
}

// Validate fails closed: a policy missing a rating key or carrying a
// non-positive value must never reach the scheduler.
func (p IntervalPolicy) Validate() error {
	if p.MaxDays < 1 {
		return fmt.Errorf("%w: maxDays must be >= 1, got %d", ErrInvalidInput, p.MaxDays)
	}
	for _, r := range Ratings {
		step, ok := p.Steps[r]
		if !ok {
			return fmt.Errorf("%w: policy missing step for rating %q", ErrInvalidInput, r)
		}
		if !step.Unit.Valid() {
			return fmt.Errorf("%w: invalid unit %q for rating %q", ErrInvalidInput, step.Unit, r)
		}
		if step.Value < 1 {
			return fmt.Errorf("%w: value for rating %q must be >= 1, got %g", ErrInvalidInput, r, step.Value)
		}
	}
	return nil
}
