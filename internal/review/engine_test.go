package review

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math/rand"
	"sync"
	"testing"
	"time"

	"uniflash/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- in-memory fakes for the engine's store interfaces ---

type fakeCardStore struct {
	mu             sync.Mutex
	due            []*model.Flashcard
	fetchErr       error
	applyErr       error
	applyBlock     chan struct{} // when set, ApplySchedule waits on it
	applyEntered   chan struct{} // closed once the first ApplySchedule call starts
	appliedCards   []uuid.UUID
	appliedSched   []int
	lastNextRev    time.Time
	lastReviewedAt time.Time
}

func (f *fakeCardStore) FetchDueCards(ctx context.Context, filter DueFilter) ([]*model.Flashcard, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.due, nil
}

func (f *fakeCardStore) ApplySchedule(ctx context.Context, cardID uuid.UUID, intervalDays int, nextReview, reviewedAt time.Time) error {
	if f.applyEntered != nil {
		f.mu.Lock()
		select {
		case <-f.applyEntered:
		default:
			close(f.applyEntered)
		}
		f.mu.Unlock()
	}
	if f.applyBlock != nil {
		<-f.applyBlock
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.applyErr != nil {
		return f.applyErr
	}
	f.appliedCards = append(f.appliedCards, cardID)
	f.appliedSched = append(f.appliedSched, intervalDays)
	f.lastNextRev = nextReview
	f.lastReviewedAt = reviewedAt
	return nil
}

func (f *fakeCardStore) applied() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.appliedCards)
}

type fakeSessionStore struct {
	mu       sync.Mutex
	err      error
	sessions []*model.ReviewSession
}

func (f *fakeSessionStore) RecordSession(ctx context.Context, s *model.ReviewSession) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sessions = append(f.sessions, s)
	return nil
}

type fakeStreakSource struct {
	streak model.Streak
	err    error
	calls  int
}

func (f *fakeStreakSource) FetchStreak(ctx context.Context) (model.Streak, error) {
	f.calls++
	if f.err != nil {
		return model.Streak{}, f.err
	}
	return f.streak, nil
}

func dueCards(n int) []*model.Flashcard {
	cards := make([]*model.Flashcard, n)
	for i := range cards {
		cards[i] = &model.Flashcard{
			CardID:       uuid.New(),
			Front:        "front",
			Back:         "back",
			IntervalDays: 1,
			NextReview:   time.Now().Add(-time.Hour),
		}
	}
	return cards
}

func testEngine(store *fakeCardStore, record *fakeSessionStore, streak *fakeStreakSource, opts Options) *Engine {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	policy := model.DefaultIntervalPolicy()
	return NewEngine(store, record, streak, policy, logger, opts)
}

func TestEngine_AllCaughtUp(t *testing.T) {
	store := &fakeCardStore{}
	e := testEngine(store, &fakeSessionStore{}, &fakeStreakSource{}, Options{})

	cards, caughtUp, err := e.Start(context.Background(), DueFilter{}, false)
	require.NoError(t, err)
	assert.True(t, caughtUp)
	assert.Nil(t, cards)
	assert.Equal(t, StateIdle, e.State())
}

// A full three-card session rated "again" throughout: the reviewed count,
// per-card persistence and the single summary row all line up.
func TestEngine_FullSession(t *testing.T) {
	store := &fakeCardStore{due: dueCards(3)}
	record := &fakeSessionStore{}
	streak := &fakeStreakSource{streak: model.Streak{CurrentStreak: 2, LongestStreak: 6}}

	clock := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	now := func() time.Time { return clock }
	e := testEngine(store, record, streak, Options{Now: now})

	cards, caughtUp, err := e.Start(context.Background(), DueFilter{}, false)
	require.NoError(t, err)
	require.False(t, caughtUp)
	require.Len(t, cards, 3)

	for i := 0; i < 3; i++ {
		clock = clock.Add(10 * time.Second)
		require.NoError(t, e.Reveal())
		outcome, err := e.Rate(context.Background(), model.RatingAgain)
		require.NoError(t, err)
		if i < 2 {
			assert.False(t, outcome.Finished)
			assert.Equal(t, i+1, outcome.Index)
			assert.Equal(t, StateAnswerHidden, e.State())
		} else {
			assert.True(t, outcome.Finished)
			require.NotNil(t, outcome.Summary)
			assert.Equal(t, 3, outcome.Summary.CardsReviewed)
			assert.Equal(t, 30, outcome.Summary.TimeSpent)
			assert.Equal(t, model.Streak{CurrentStreak: 2, LongestStreak: 6}, outcome.Summary.Streak)
		}
	}

	assert.Equal(t, 3, e.ReviewedCount())
	assert.Equal(t, 3, store.applied())
	assert.Equal(t, StateFinished, e.State())

	require.Len(t, record.sessions, 1)
	assert.Equal(t, 3, record.sessions[0].CardsReviewed)
	assert.Equal(t, 30, record.sessions[0].TimeSpent)
	assert.Equal(t, 1, streak.calls)
}

func TestEngine_RateRequiresRevealedAnswer(t *testing.T) {
	store := &fakeCardStore{due: dueCards(1)}
	e := testEngine(store, &fakeSessionStore{}, &fakeStreakSource{}, Options{})

	_, _, err := e.Start(context.Background(), DueFilter{}, false)
	require.NoError(t, err)

	_, err = e.Rate(context.Background(), model.RatingGood)
	assert.ErrorIs(t, err, ErrAnswerHidden)
	assert.Equal(t, 0, e.ReviewedCount())
}

// A failed write leaves the user on the same card with nothing advanced.
func TestEngine_FailedPersistDoesNotAdvance(t *testing.T) {
	store := &fakeCardStore{due: dueCards(2), applyErr: errors.New("store unreachable")}
	e := testEngine(store, &fakeSessionStore{}, &fakeStreakSource{}, Options{})

	_, _, err := e.Start(context.Background(), DueFilter{}, false)
	require.NoError(t, err)
	require.NoError(t, e.Reveal())

	_, err = e.Rate(context.Background(), model.RatingGood)
	require.Error(t, err)
	assert.Equal(t, 0, e.ReviewedCount())
	assert.Equal(t, StateAnswerShown, e.State())

	// Retry after the store recovers succeeds on the very same card.
	store.applyErr = nil
	outcome, err := e.Rate(context.Background(), model.RatingGood)
	require.NoError(t, err)
	assert.Equal(t, 1, e.ReviewedCount())
	assert.Equal(t, 1, outcome.Index)
}

// A broken policy aborts the rating before anything is written.
func TestEngine_PolicyErrorAbortsRating(t *testing.T) {
	store := &fakeCardStore{due: dueCards(1)}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	policy := model.DefaultIntervalPolicy()
	delete(policy.Steps, model.RatingEasy)
	e := NewEngine(store, &fakeSessionStore{}, &fakeStreakSource{}, policy, logger, Options{})

	_, _, err := e.Start(context.Background(), DueFilter{}, false)
	require.NoError(t, err)
	require.NoError(t, e.Reveal())

	_, err = e.Rate(context.Background(), model.RatingEasy)
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrInvalidInput)
	assert.Equal(t, 0, store.applied())
	assert.Equal(t, 0, e.ReviewedCount())
	assert.Equal(t, StateAnswerShown, e.State())
}

// Second rating issued while the first awaits persistence is rejected:
// neither the reviewed count nor the store sees it twice.
func TestEngine_InFlightGuard(t *testing.T) {
	block := make(chan struct{})
	entered := make(chan struct{})
	store := &fakeCardStore{due: dueCards(2), applyBlock: block, applyEntered: entered}
	e := testEngine(store, &fakeSessionStore{}, &fakeStreakSource{}, Options{})

	_, _, err := e.Start(context.Background(), DueFilter{}, false)
	require.NoError(t, err)
	require.NoError(t, e.Reveal())

	firstDone := make(chan error, 1)
	go func() {
		_, err := e.Rate(context.Background(), model.RatingGood)
		firstDone <- err
	}()

	// Wait until the first rating is parked inside ApplySchedule, then the
	// second submission must bounce off the guard.
	<-entered
	_, err = e.Rate(context.Background(), model.RatingGood)
	assert.ErrorIs(t, err, ErrRatingInFlight)

	close(block)
	require.NoError(t, <-firstDone)

	assert.Equal(t, 1, e.ReviewedCount())
	assert.Equal(t, 1, store.applied())
}

func TestEngine_ShuffleIsPermutation(t *testing.T) {
	due := dueCards(20)
	store := &fakeCardStore{due: due}
	e := testEngine(store, &fakeSessionStore{}, &fakeStreakSource{}, Options{
		Rand: rand.New(rand.NewSource(42)),
	})

	cards, _, err := e.Start(context.Background(), DueFilter{}, true)
	require.NoError(t, err)
	require.Len(t, cards, len(due))

	want := make(map[uuid.UUID]int, len(due))
	for _, c := range due {
		want[c.CardID]++
	}
	got := make(map[uuid.UUID]int, len(cards))
	for _, c := range cards {
		got[c.CardID]++
	}
	assert.Equal(t, want, got)
}

func TestEngine_MidSessionShuffleResetsIndex(t *testing.T) {
	store := &fakeCardStore{due: dueCards(5)}
	e := testEngine(store, &fakeSessionStore{}, &fakeStreakSource{}, Options{
		Rand: rand.New(rand.NewSource(7)),
	})

	_, _, err := e.Start(context.Background(), DueFilter{}, false)
	require.NoError(t, err)

	// Review two cards, then shuffle what's left.
	for i := 0; i < 2; i++ {
		require.NoError(t, e.Reveal())
		_, err := e.Rate(context.Background(), model.RatingAgain)
		require.NoError(t, err)
	}

	remaining, err := e.Shuffle()
	require.NoError(t, err)
	assert.Len(t, remaining, 3)
	assert.Equal(t, 2, e.ReviewedCount())
	assert.Equal(t, StateAnswerHidden, e.State())
}

// Overlay time is excluded from the recorded total, not merely subtracted:
// the span running when the overlay opened is dropped too.
func TestEngine_OverlayExcludesActiveTime(t *testing.T) {
	store := &fakeCardStore{due: dueCards(1)}
	record := &fakeSessionStore{}

	clock := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	now := func() time.Time { return clock }
	e := testEngine(store, record, &fakeStreakSource{}, Options{Now: now})

	_, _, err := e.Start(context.Background(), DueFilter{}, false)
	require.NoError(t, err)

	clock = clock.Add(30 * time.Second) // on card, will be dropped
	require.NoError(t, e.OpenOverlay())
	clock = clock.Add(5 * time.Minute) // on overlay, never counted
	require.NoError(t, e.CloseOverlay())
	clock = clock.Add(12 * time.Second)

	require.NoError(t, e.Reveal())
	_, err = e.Rate(context.Background(), model.RatingGood)
	require.NoError(t, err)

	require.Len(t, record.sessions, 1)
	assert.Equal(t, 12, record.sessions[0].TimeSpent)
}

// A failed summary insert keeps the session retryable without re-rating.
func TestEngine_FinalizeRetry(t *testing.T) {
	store := &fakeCardStore{due: dueCards(1)}
	record := &fakeSessionStore{err: errors.New("insert rejected")}
	streak := &fakeStreakSource{streak: model.Streak{CurrentStreak: 1, LongestStreak: 1}}
	e := testEngine(store, record, streak, Options{})

	_, _, err := e.Start(context.Background(), DueFilter{}, false)
	require.NoError(t, err)
	require.NoError(t, e.Reveal())

	outcome, err := e.Rate(context.Background(), model.RatingGood)
	require.Error(t, err)
	assert.True(t, outcome.Finished)
	assert.Equal(t, StateFinishing, e.State())
	assert.Empty(t, record.sessions)

	record.err = nil
	summary, err := e.Finalize(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.CardsReviewed)
	assert.Equal(t, StateFinished, e.State())
	require.Len(t, record.sessions, 1)
}

func TestEngine_AbandonDuringPendingRatingWritesNoSummary(t *testing.T) {
	block := make(chan struct{})
	entered := make(chan struct{})
	store := &fakeCardStore{due: dueCards(1), applyBlock: block, applyEntered: entered}
	record := &fakeSessionStore{}
	e := testEngine(store, record, &fakeStreakSource{}, Options{})

	_, _, err := e.Start(context.Background(), DueFilter{}, false)
	require.NoError(t, err)
	require.NoError(t, e.Reveal())

	rateDone := make(chan error, 1)
	go func() {
		_, err := e.Rate(context.Background(), model.RatingGood)
		rateDone <- err
	}()

	// Abandon while the rating's write is parked inside the store. The
	// last card's rating must not finish the abandoned session.
	<-entered
	e.Abandon()
	close(block)

	assert.ErrorIs(t, <-rateDone, ErrNotActive)

	assert.Empty(t, record.sessions)
	assert.Equal(t, StateIdle, e.State())
	assert.Equal(t, 0, e.ReviewedCount())
	// The card write itself completed and stays durable.
	assert.Equal(t, 1, store.applied())
}

func TestEngine_AbandonWritesNothing(t *testing.T) {
	store := &fakeCardStore{due: dueCards(3)}
	record := &fakeSessionStore{}
	e := testEngine(store, record, &fakeStreakSource{}, Options{})

	_, _, err := e.Start(context.Background(), DueFilter{}, false)
	require.NoError(t, err)
	require.NoError(t, e.Reveal())
	_, err = e.Rate(context.Background(), model.RatingHard)
	require.NoError(t, err)

	e.Abandon()

	assert.Equal(t, StateIdle, e.State())
	assert.Empty(t, record.sessions)
	// The one committed rating stays durable.
	assert.Equal(t, 1, store.applied())
}
