package review

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestActiveTimer_AccumulatesPerCard(t *testing.T) {
	base := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	timer := ActiveTimer{}.StartCard(base)
	timer = timer.CommitElapsed(base.Add(8 * time.Second))
	timer = timer.StartCard(base.Add(8 * time.Second))
	timer = timer.CommitElapsed(base.Add(20 * time.Second))

	assert.Equal(t, 20*time.Second, timer.Accumulated())
	assert.Equal(t, 20, timer.Seconds())
}

func TestActiveTimer_OverlayTimeFullyExcluded(t *testing.T) {
	base := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	// 5s on the card, then the overlay opens. The pending span is dropped,
	// not banked: returning restarts from scratch.
	timer := ActiveTimer{}.StartCard(base)
	timer = timer.PauseForOverlay()
	timer = timer.ResumeFreshOnReturn(base.Add(65 * time.Second))
	timer = timer.CommitElapsed(base.Add(75 * time.Second))

	assert.Equal(t, 10*time.Second, timer.Accumulated())
}

func TestActiveTimer_CommitWhilePausedIsNoop(t *testing.T) {
	base := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	timer := ActiveTimer{}.StartCard(base)
	timer = timer.PauseForOverlay()
	timer = timer.CommitElapsed(base.Add(time.Hour))

	assert.Equal(t, time.Duration(0), timer.Accumulated())
}

func TestActiveTimer_SecondsRounds(t *testing.T) {
	base := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	timer := ActiveTimer{}.StartCard(base)
	timer = timer.CommitElapsed(base.Add(2500 * time.Millisecond))
	assert.Equal(t, 3, timer.Seconds())

	timer = ActiveTimer{}.StartCard(base)
	timer = timer.CommitElapsed(base.Add(2400 * time.Millisecond))
	assert.Equal(t, 2, timer.Seconds())
}
