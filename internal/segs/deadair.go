package segs

import (
	"github.com/coreman2200/funtimes-ledsegs/internal/spectrum"
	"github.com/coreman2200/funtimes-ledsegs/internal/timer"
)

// Bands 2..4 carry most program material, so their maxima decide whether
// anything is playing.
const (
	deadAirFirstBand = 1
	deadAirBands     = 3
	deadAirPeriodMs  = 1000
)

// EnableDeadAirDetect starts a once a second check that sums the peak
// readings of bands 2..4 seen since the last check. While that sum stays at
// or below 3*level the dead air count goes up by one; any louder second
// zeroes it.
func (e *Engine) EnableDeadAirDetect(level int) {
	e.DisableDeadAirDetect()
	e.deadAirLevel = level * deadAirBands
	e.deadAirID = e.timers.Define(deadAirPeriodMs, deadAirPeriodMs, deadAirTimer, e)
	if e.deadAirID == 0 {
		e.log.Warn().Msg("no free timer for dead air detection")
	}
}

func (e *Engine) DisableDeadAirDetect() {
	if e.deadAirID != 0 {
		e.timers.Cancel(e.deadAirID)
		e.deadAirID = 0
	}
}

func (e *Engine) DeadAirEnabled() bool { return e.deadAirID != 0 }

// CheckForDeadAir reports whether there has been no signal for at least
// secs seconds.
func (e *Engine) CheckForDeadAir(secs int) bool { return e.deadAirSecs >= secs }

// DeadAirSeconds is the current run of quiet seconds.
func (e *Engine) DeadAirSeconds() int { return e.deadAirSecs }

// Maxima are the per-band peaks since the last dead air check.
func (e *Engine) Maxima() spectrum.Levels { return e.maxima }

func (e *Engine) checkDeadAir() {
	sum := 0
	for b := deadAirFirstBand; b < deadAirFirstBand+deadAirBands; b++ {
		sum += e.maxima[b]
		e.maxima[b] = 0
	}
	if sum <= e.deadAirLevel {
		e.deadAirSecs++
	} else {
		e.deadAirSecs = 0
	}
}

func deadAirTimer(_ timer.ID, arg any) { arg.(*Engine).checkDeadAir() }
