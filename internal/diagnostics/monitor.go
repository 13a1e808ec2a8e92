package diagnostics

import (
	"github.com/rs/zerolog"

	"github.com/coreman2200/funtimes-ledsegs/internal/segs"
	"github.com/coreman2200/funtimes-ledsegs/internal/timer"
)

const (
	CodeDeadAir   = "AUDIO.DEAD_AIR"
	CodeResumed   = "AUDIO.RESUMED"
	CodeShowError = "STRIP.SHOW_ERROR"
)

// Monitor watches an engine's dead-air counter and raises a diagnostic
// when the input goes quiet for Seconds and again when it comes back.
type Monitor struct {
	Seconds int

	e    *segs.Engine
	sink Sink
	log  zerolog.Logger
	id   timer.ID
	dead bool
}

func NewMonitor(e *segs.Engine, secs int, sink Sink, l zerolog.Logger) *Monitor {
	return &Monitor{Seconds: secs, e: e, sink: sink, log: l}
}

// Start polls every periodMs on the engine's scheduler.
func (m *Monitor) Start(periodMs uint64) timer.ID {
	m.Stop()
	m.id = m.e.DefineTimer(periodMs, periodMs, monitorTimer, m)
	return m.id
}

func (m *Monitor) Stop() {
	if m.id != 0 {
		m.e.CancelTimer(m.id)
		m.id = 0
	}
}

// Dead reports the state seen by the last Check.
func (m *Monitor) Dead() bool { return m.dead }

// Check compares the engine's dead-air state with the last one seen and
// raises a diagnostic on a change. It reports whether one was raised.
func (m *Monitor) Check() bool {
	if !m.e.DeadAirEnabled() {
		return false
	}
	dead := m.e.CheckForDeadAir(m.Seconds)
	if dead == m.dead {
		return false
	}
	m.dead = dead
	if dead {
		m.raise(Diagnostic{
			Severity: Warn,
			Code:     CodeDeadAir,
			Summary:  "No audio on the low bands",
			LikelyCauses: []string{
				"source muted or unplugged",
				"dead-air level set above the noise floor",
			},
			SuggestedFixes: []string{"check the audio input", "lower the dead-air level"},
			Evidence:       map[string]any{"seconds": m.e.DeadAirSeconds()},
		})
	} else {
		m.raise(Diagnostic{Severity: Info, Code: CodeResumed, Summary: "Audio resumed"})
	}
	return true
}

// ShowFailed raises an error diagnostic for a failed strip update.
func (m *Monitor) ShowFailed(err error) {
	m.raise(Diagnostic{
		Severity:       Err,
		Code:           CodeShowError,
		Summary:        "Strip update failed",
		Detail:         err.Error(),
		SuggestedFixes: []string{"check the strip wiring and the SPI port"},
	})
}

func (m *Monitor) raise(d Diagnostic) {
	Log(m.log, d)
	if m.sink != nil {
		m.sink.Push(d)
	}
}

func monitorTimer(_ timer.ID, arg any) { arg.(*Monitor).Check() }
