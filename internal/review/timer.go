package review

import (
	"math"
	"time"
)

// ActiveTimer accounts wall-clock study time for a session. It only runs
// while a card is in front of the user; opening the slide overlay stops it,
// and returning from the overlay starts a fresh span instead of resuming,
// so overlay time never counts.
type ActiveTimer struct {
	cardStart   time.Time
	running     bool
	accumulated time.Duration
}

// StartCard begins timing a newly displayed card.
func (t ActiveTimer) StartCard(now time.Time) ActiveTimer {
	t.cardStart = now
	t.running = true
	return t
}

// PauseForOverlay stops the timer without banking the current span. The
// span restarts from scratch when the user returns to the card.
func (t ActiveTimer) PauseForOverlay() ActiveTimer {
	t.running = false
	return t
}

// ResumeFreshOnReturn restarts timing from now after the overlay closes.
func (t ActiveTimer) ResumeFreshOnReturn(now time.Time) ActiveTimer {
	t.cardStart = now
	t.running = true
	return t
}

// CommitElapsed banks the current span into the accumulated total and stops
// the timer. No-op when the timer is not running.
func (t ActiveTimer) CommitElapsed(now time.Time) ActiveTimer {
	if t.running {
		if d := now.Sub(t.cardStart); d > 0 {
			t.accumulated += d
		}
		t.running = false
	}
	return t
}

// Accumulated returns the total banked active time.
func (t ActiveTimer) Accumulated() time.Duration {
	return t.accumulated
}

// Seconds returns the banked total as whole seconds, rounded.
func (t ActiveTimer) Seconds() int {
	return int(math.Round(t.accumulated.Seconds()))
}
