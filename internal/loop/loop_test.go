package loop

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/coreman2200/funtimes-ledsegs/internal/timer"
)

func TestRunFiresTimersUntilCancelled(t *testing.T) {
	clk := timer.NewManualClock(0)
	sched := timer.NewScheduler(clk)
	fired := 0
	sched.Define(10, 10, func(timer.ID, any) { fired++ }, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	l := New(sched, zerolog.Nop())
	l.Idle = func() {
		clk.Advance(10 * time.Millisecond)
		if l.Passes() == 5 {
			cancel()
		}
	}

	err := l.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.GreaterOrEqual(t, l.Passes(), uint64(5))
	// the clock starts at 0, so the first pass is early
	assert.GreaterOrEqual(t, fired, 4)
}

func TestRunReturnsOnDeadline(t *testing.T) {
	sched := timer.NewScheduler(nil)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	l := &Looper{Sched: sched}
	assert.ErrorIs(t, l.Run(ctx), context.DeadlineExceeded)
}
