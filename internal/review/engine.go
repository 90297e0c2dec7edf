package review

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"uniflash/internal/model"
	"uniflash/internal/scheduler"

	"github.com/google/uuid"
)

// State of the session state machine.
type State int

const (
	StateIdle State = iota
	StateAnswerHidden
	StateAnswerShown
	StateFinishing // last rating committed, summary insert still pending
	StateFinished
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAnswerHidden:
		return "answer_hidden"
	case StateAnswerShown:
		return "answer_shown"
	case StateFinishing:
		return "finishing"
	case StateFinished:
		return "finished"
	}
	return "unknown"
}

var (
	ErrNotActive      = errors.New("review: session is not active")
	ErrAnswerHidden   = errors.New("review: answer has not been revealed")
	ErrRatingInFlight = errors.New("review: a rating is already being applied")
	ErrOverlayOpen    = errors.New("review: slide overlay is open")
	ErrNotFinishing   = errors.New("review: session summary is not pending")
)

// DueFilter restricts due-card selection to the given sets. Empty means
// unrestricted.
type DueFilter struct {
	SetIDs []uuid.UUID
}

// CardStore is the engine's view of card persistence. ApplySchedule must
// write interval, next-review and last-reviewed together or not at all.
type CardStore interface {
	FetchDueCards(ctx context.Context, filter DueFilter) ([]*model.Flashcard, error)
	ApplySchedule(ctx context.Context, cardID uuid.UUID, intervalDays int, nextReview, reviewedAt time.Time) error
}

// SessionStore receives the one summary row a finished session produces.
type SessionStore interface {
	RecordSession(ctx context.Context, session *model.ReviewSession) error
}

// StreakSource reads the streak counters derived from session history.
type StreakSource interface {
	FetchStreak(ctx context.Context) (model.Streak, error)
}

// Options tune a single session. Now and Rand default to the real clock and
// a time-seeded source; tests inject their own.
type Options struct {
	Shuffle bool
	Reverse bool
	Now     func() time.Time
	Rand    *rand.Rand
}

// RatingOutcome reports the engine's position after one committed rating.
type RatingOutcome struct {
	Schedule  scheduler.Schedule
	Index     int
	Remaining int
	Finished  bool
	Summary   *model.SessionSummary
}

// Engine drives one review session end to end. All exported methods are
// safe for concurrent use; rating submission additionally carries an
// in-flight guard so a second rating issued while one awaits persistence is
// rejected instead of double-applied.
type Engine struct {
	mu sync.Mutex

	cards    []*model.Flashcard
	index    int
	state    State
	reverse  bool
	overlay  bool
	inFlight bool
	reviewed int
	timer    ActiveTimer

	policy model.IntervalPolicy
	store  CardStore
	record SessionStore
	streak StreakSource
	logger *slog.Logger
	now    func() time.Time
	rng    *rand.Rand
}

// NewEngine wires an idle engine. The interval policy must already be
// validated; the engine re-checks per rating and fails closed.
func NewEngine(store CardStore, record SessionStore, streak StreakSource, policy model.IntervalPolicy, logger *slog.Logger, opts Options) *Engine {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(now().UnixNano()))
	}
	return &Engine{
		state:   StateIdle,
		reverse: opts.Reverse,
		policy:  policy,
		store:   store,
		record:  record,
		streak:  streak,
		logger:  logger,
		now:     now,
		rng:     rng,
	}
}

// Start loads due cards and begins the session. A zero-due result leaves
// the engine idle and reports all-caught-up; no session is considered
// started.
func (e *Engine) Start(ctx context.Context, filter DueFilter, shuffle bool) (cards []*model.Flashcard, allCaughtUp bool, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != StateIdle {
		return nil, false, ErrNotActive
	}

	due, err := e.store.FetchDueCards(ctx, filter)
	if err != nil {
		return nil, false, err
	}
	if len(due) == 0 {
		return nil, true, nil
	}

	e.cards = make([]*model.Flashcard, len(due))
	copy(e.cards, due)
	if shuffle {
		e.permute(e.cards)
	}
	e.index = 0
	e.reviewed = 0
	e.state = StateAnswerHidden
	e.timer = ActiveTimer{}.StartCard(e.now())

	e.logger.Info("Review session started", "cards", len(e.cards), "shuffled", shuffle)

	out := make([]*model.Flashcard, len(e.cards))
	copy(out, e.cards)
	return out, false, nil
}

// Current returns the card being studied.
func (e *Engine) Current() (*model.Flashcard, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StateAnswerHidden && e.state != StateAnswerShown {
		return nil, ErrNotActive
	}
	return e.cards[e.index], nil
}

// Reveal flips the current card to its answer side.
func (e *Engine) Reveal() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	switch e.state {
	case StateAnswerShown:
		return nil
	case StateAnswerHidden:
		if e.overlay {
			return ErrOverlayOpen
		}
		e.state = StateAnswerShown
		return nil
	default:
		return ErrNotActive
	}
}

// Rate applies the user's rating to the current card: compute the next
// schedule, persist it, then advance. A failed computation or write leaves
// index, reviewed count and state untouched so the user can retry the same
// card. The final rating also finalizes the session.
func (e *Engine) Rate(ctx context.Context, rating model.Rating) (RatingOutcome, error) {
	e.mu.Lock()
	if e.state != StateAnswerShown {
		e.mu.Unlock()
		if e.state == StateAnswerHidden {
			return RatingOutcome{}, ErrAnswerHidden
		}
		return RatingOutcome{}, ErrNotActive
	}
	if e.overlay {
		e.mu.Unlock()
		return RatingOutcome{}, ErrOverlayOpen
	}
	if e.inFlight {
		e.mu.Unlock()
		return RatingOutcome{}, ErrRatingInFlight
	}
	if !rating.Valid() {
		e.mu.Unlock()
		return RatingOutcome{}, model.NewAppError("INVALID_RATING", "Unknown rating value.", "rating", model.ErrInvalidInput)
	}

	card := e.cards[e.index]
	policy := e.policy
	now := e.now()
	e.inFlight = true
	e.mu.Unlock()

	commit := func() (RatingOutcome, error) {
		sched, err := scheduler.ComputeNextSchedule(rating, card.IntervalDays, policy, now)
		if err != nil {
			return RatingOutcome{}, err
		}
		if err := e.store.ApplySchedule(ctx, card.CardID, sched.IntervalDays, sched.NextReview, now); err != nil {
			e.logger.Error("Failed to persist schedule, card not advanced", "card_id", card.CardID, "error", err)
			return RatingOutcome{}, err
		}
		return RatingOutcome{Schedule: sched}, nil
	}

	outcome, err := commit()

	e.mu.Lock()
	e.inFlight = false
	if err != nil {
		e.mu.Unlock()
		return RatingOutcome{}, err
	}
	if e.state != StateAnswerShown {
		// Abandoned while the write was in flight. The card update is
		// durable, but the session is gone: no counters move and no
		// summary may be written.
		e.mu.Unlock()
		return RatingOutcome{}, ErrNotActive
	}

	// Committed: the local copy's scheduling fields are stale from here on.
	reviewedAt := now
	card.IntervalDays = outcome.Schedule.IntervalDays
	card.NextReview = outcome.Schedule.NextReview
	card.LastReviewed = &reviewedAt

	e.timer = e.timer.CommitElapsed(e.now())
	e.reviewed++

	if e.index+1 < len(e.cards) {
		e.index++
		e.state = StateAnswerHidden
		e.timer = e.timer.StartCard(e.now())
		outcome.Index = e.index
		outcome.Remaining = len(e.cards) - e.index
		e.mu.Unlock()
		return outcome, nil
	}

	e.state = StateFinishing
	e.mu.Unlock()

	summary, err := e.Finalize(ctx)
	outcome.Finished = true
	outcome.Remaining = 0
	outcome.Index = len(e.cards) - 1
	outcome.Summary = summary
	return outcome, err
}

// Finalize writes the session summary and refreshes the streak. Called
// automatically by the last successful rating; callable again if that
// insert failed.
func (e *Engine) Finalize(ctx context.Context) (*model.SessionSummary, error) {
	e.mu.Lock()
	if e.state != StateFinishing {
		e.mu.Unlock()
		return nil, ErrNotFinishing
	}
	if e.inFlight {
		e.mu.Unlock()
		return nil, ErrRatingInFlight
	}
	e.inFlight = true
	defer func() {
		e.mu.Lock()
		e.inFlight = false
		e.mu.Unlock()
	}()
	session := &model.ReviewSession{
		SessionID:     uuid.New(),
		CardsReviewed: e.reviewed,
		TimeSpent:     e.timer.Seconds(),
		CreatedAt:     e.now(),
	}
	e.mu.Unlock()

	if err := e.record.RecordSession(ctx, session); err != nil {
		e.logger.Error("Failed to record session summary", "error", err)
		return nil, err
	}

	e.mu.Lock()
	e.state = StateFinished
	e.mu.Unlock()

	streak, err := e.streak.FetchStreak(ctx)
	if err != nil {
		// The summary row is durable; a failed streak read only degrades
		// the response.
		e.logger.Warn("Failed to refresh streak after session", "error", err)
		streak = model.Streak{}
	}

	e.logger.Info("Review session finished",
		"cards_reviewed", session.CardsReviewed,
		"time_spent", session.TimeSpent,
	)

	return &model.SessionSummary{
		CardsReviewed: session.CardsReviewed,
		TimeSpent:     session.TimeSpent,
		Streak:        streak,
	}, nil
}

// OpenOverlay suspends active-time accrual while the user views a source
// slide.
func (e *Engine) OpenOverlay() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StateAnswerHidden && e.state != StateAnswerShown {
		return ErrNotActive
	}
	if !e.overlay {
		e.overlay = true
		e.timer = e.timer.PauseForOverlay()
	}
	return nil
}

// CloseOverlay returns to the card and restarts the card timer from now.
func (e *Engine) CloseOverlay() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StateAnswerHidden && e.state != StateAnswerShown {
		return ErrNotActive
	}
	if e.overlay {
		e.overlay = false
		e.timer = e.timer.ResumeFreshOnReturn(e.now())
	}
	return nil
}

// Shuffle re-permutes the cards not yet rated and restarts iteration from
// the top of the new order. Already-reviewed cards stay reviewed.
func (e *Engine) Shuffle() ([]*model.Flashcard, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StateAnswerHidden && e.state != StateAnswerShown {
		return nil, ErrNotActive
	}
	if e.inFlight {
		return nil, ErrRatingInFlight
	}

	remaining := e.cards[e.index:]
	e.permute(remaining)
	e.cards = remaining
	e.index = 0
	e.state = StateAnswerHidden
	e.timer = e.timer.StartCard(e.now())

	out := make([]*model.Flashcard, len(e.cards))
	copy(out, e.cards)
	return out, nil
}

// SetReverse toggles reversed front/back display. Display-only; scheduling
// is unaffected.
func (e *Engine) SetReverse(reverse bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.reverse = reverse
}

func (e *Engine) Reverse() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.reverse
}

// Abandon drops the in-memory session. No summary is written; per-card
// updates already persisted stay durable.
func (e *Engine) Abandon() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == StateFinished {
		return
	}
	e.state = StateIdle
	e.cards = nil
	e.index = 0
	e.reviewed = 0
	e.timer = ActiveTimer{}
	e.logger.Info("Review session abandoned")
}

func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

func (e *Engine) ReviewedCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.reviewed
}

// permute is an in-place Fisher-Yates shuffle.
func (e *Engine) permute(cards []*model.Flashcard) {
	for i := len(cards) - 1; i > 0; i-- {
		j := e.rng.Intn(i + 1)
		cards[i], cards[j] = cards[j], cards[i]
	}
}
