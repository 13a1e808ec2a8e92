package segs

import (
	"github.com/coreman2200/funtimes-ledsegs/internal/spectrum"
	"github.com/coreman2200/funtimes-ledsegs/internal/timer"
)

// DisplayStrip samples the source, maps the bands onto the segments and
// shows the result.
func (e *Engine) DisplayStrip(ch spectrum.Channels) error {
	e.Sample(ch)
	e.MapBands()
	err := e.Show()
	e.frames++
	return err
}

// Frames counts DisplayStrip calls.
func (e *Engine) Frames() uint64 { return e.frames }

// ScheduleDisplay arms a timer that calls DisplayStrip every periodMs on
// the engine's channels. It returns the timer, or 0 if none was free.
func (e *Engine) ScheduleDisplay(periodMs uint64) timer.ID {
	id := e.timers.Define(periodMs, periodMs, displayTimer, e)
	if id == 0 {
		e.log.Warn().Uint64("period_ms", periodMs).Msg("no free timer for display")
	}
	return id
}

func displayTimer(id timer.ID, arg any) {
	e := arg.(*Engine)
	if err := e.DisplayStrip(e.channels); err != nil {
		e.log.Warn().Err(err).Int("timer", int(id)).Msg("show frame")
		if e.showErr != nil {
			e.showErr(err)
		}
	}
}
