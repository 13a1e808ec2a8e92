// Package loop is the foreground loop: it polls the timer table on a fixed
// tick until its context ends.
package loop

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/coreman2200/funtimes-ledsegs/internal/timer"
)

const DefaultTick = time.Millisecond

type Looper struct {
	Sched *timer.Scheduler
	Tick  time.Duration
	// Idle runs after each pass over the timer table.
	Idle func()
	Log  zerolog.Logger

	passes uint64
}

func New(s *timer.Scheduler, l zerolog.Logger) *Looper {
	return &Looper{Sched: s, Tick: DefaultTick, Log: l}
}

// Run blocks until ctx is done and returns its error.
func (l *Looper) Run(ctx context.Context) error {
	tick := l.Tick
	if tick <= 0 {
		tick = DefaultTick
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	l.Log.Debug().Dur("tick", tick).Msg("loop started")
	for {
		select {
		case <-ticker.C:
			l.Sched.CheckOnce()
			l.passes++
			if l.Idle != nil {
				l.Idle()
			}
		case <-ctx.Done():
			l.Log.Debug().Uint64("passes", l.passes).Msg("loop stopped")
			return ctx.Err()
		}
	}
}

// Passes is how many times Run has polled the timers.
func (l *Looper) Passes() uint64 { return l.passes }
