// Package segs turns band samples into LED strip frames. A strip is split
// into segments, each a run of LEDs that lights up according to its action
// and the normalised level of the bands it follows. Parts are windows onto
// the strip that segments are positioned in, cropped to, and optionally
// reversed by.
//
// An Engine is not safe for concurrent use. Everything, including display
// hooks and timer callbacks, runs on the goroutine that polls the engine's
// scheduler.
package segs

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/rs/zerolog"

	"github.com/coreman2200/funtimes-ledsegs/internal/rgb"
	"github.com/coreman2200/funtimes-ledsegs/internal/spectrum"
	"github.com/coreman2200/funtimes-ledsegs/internal/strip"
	"github.com/coreman2200/funtimes-ledsegs/internal/timer"
)

const (
	MaxSegments = 100
	MaxParts    = 20

	LevelMax = spectrum.LevelMax

	// RandomSize entries in the random table; patterns index it modulo this.
	RandomSize = 64
	RandomMask = RandomSize - 1
)

type Action int

const (
	None Action = iota
	FromBottom
	FromTop
	FromMiddle
	All
	Random
	Bits
)

var actionNames = [...]string{"none", "bottom", "top", "middle", "all", "random", "bits"}

func (a Action) String() string {
	if a >= 0 && int(a) < len(actionNames) {
		return actionNames[a]
	}
	return fmt.Sprintf("Action(%d)", int(a))
}

func ParseAction(s string) (Action, bool) {
	switch s {
	case "frombottom", "from_bottom":
		return FromBottom, true
	case "fromtop", "from_top":
		return FromTop, true
	case "frommiddle", "from_middle":
		return FromMiddle, true
	}
	for i, n := range actionNames {
		if n == s {
			return Action(i), true
		}
	}
	return None, false
}

type Options int

const (
	// NoOffOverwrite leaves pixels alone where the segment would draw its
	// background colour, so lower-index segments show through.
	NoOffOverwrite Options = 1 << iota
	// Modulate fades the foreground from the background colour by lit/count.
	Modulate
	// BandAvg averages the segment's bands instead of taking the loudest.
	BandAvg
)

// Hook runs once per frame for its segment, before the frame is drawn. It
// may change anything on the engine.
type Hook func(e *Engine, index int)

type Config struct {
	LEDs   int
	Driver strip.Driver
	// Source defaults to silence.
	Source spectrum.Source
	// Timers defaults to a scheduler on the system clock.
	Timers *timer.Scheduler
	// Channels read by scheduled displays. Zero means Both.
	Channels spectrum.Channels
	// Seed for the random table generator; 0 seeds from the time.
	Seed   int64
	Logger *zerolog.Logger
	// ShowError is told about strip errors from scheduled displays.
	ShowError func(err error)
}

type Engine struct {
	leds     int
	drv      strip.Driver
	src      spectrum.Source
	timers   *timer.Scheduler
	channels spectrum.Channels
	log      zerolog.Logger
	rng      *rand.Rand

	segs    [MaxSegments]segment
	parts   [MaxParts]Part
	random  [RandomSize]int
	current int

	floor int
	decay int

	levels spectrum.Levels
	maxima spectrum.Levels

	frame  []rgb.Color
	frames uint64

	deadAirID    timer.ID
	deadAirLevel int
	deadAirSecs  int

	showErr func(err error)
}

// New builds an engine for cfg.LEDs pixels and resets the strip.
func New(cfg Config) (*Engine, error) {
	if cfg.LEDs <= 0 {
		return nil, fmt.Errorf("segs: LED count must be positive, got %d", cfg.LEDs)
	}
	if cfg.Driver == nil {
		return nil, fmt.Errorf("segs: no strip driver")
	}
	if n := cfg.Driver.Len(); n < cfg.LEDs {
		return nil, fmt.Errorf("segs: driver has %d pixels, need %d", n, cfg.LEDs)
	}
	e := &Engine{
		leds:     cfg.LEDs,
		drv:      cfg.Driver,
		src:      cfg.Source,
		timers:   cfg.Timers,
		channels: cfg.Channels,
		frame:    make([]rgb.Color, cfg.LEDs),
		showErr:  cfg.ShowError,
	}
	if e.src == nil {
		e.src = spectrum.NewStatic(spectrum.Levels{})
	}
	if e.timers == nil {
		e.timers = timer.NewScheduler(nil)
	}
	if e.channels == 0 {
		e.channels = spectrum.Both
	}
	if cfg.Logger != nil {
		e.log = cfg.Logger.With().Str("component", "segs").Logger()
	} else {
		e.log = zerolog.Nop()
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	e.rng = rand.New(rand.NewSource(seed))

	if err := e.ResetStrip(); err != nil {
		return nil, fmt.Errorf("segs: reset strip: %w", err)
	}
	return e, nil
}

func (e *Engine) LEDs() int { return e.leds }
func (e *Engine) Driver() strip.Driver { return e.drv }
func (e *Engine) Timers() *timer.Scheduler { return e.timers }
func (e *Engine) Source() spectrum.Source { return e.src }
func (e *Engine) SetSource(s spectrum.Source) {
	if s != nil {
		e.src = s
	}
}

// DefineTimer arms a timer on the engine's scheduler.
func (e *Engine) DefineTimer(offsetMs, repeatMs uint64, fn timer.Func, arg any) timer.ID {
	return e.timers.Define(offsetMs, repeatMs, fn, arg)
}

func (e *Engine) CancelTimer(id timer.ID) { e.timers.Cancel(id) }

// SetMaxLevelFloor sets the lowest value a segment's adaptive ceiling can
// decay to. Lowering it below LevelMax turns on auto-gain.
func (e *Engine) SetMaxLevelFloor(v int) { e.floor = clamp(v, 1, LevelMax) }
func (e *Engine) MaxLevelFloor() int { return e.floor }

// SetMaxLevelDecay sets how much the adaptive ceilings fall per frame.
func (e *Engine) SetMaxLevelDecay(v int) { e.decay = clamp(v, 1, LevelMax) }
func (e *Engine) MaxLevelDecay() int { return e.decay }

// ResetStrip puts the engine back to its initial state and blanks the strip.
func (e *Engine) ResetStrip() error {
	e.ResetSegments()
	e.current = 0
	e.ResetParts()
	e.floor = LevelMax
	e.decay = 1
	e.ResetRandom()
	e.DisableDeadAirDetect()
	e.deadAirSecs = 0
	e.maxima = spectrum.Levels{}
	if err := e.drv.Begin(); err != nil {
		return fmt.Errorf("begin strip: %w", err)
	}
	for i := range e.frame {
		e.frame[i] = rgb.Off
	}
	return e.push()
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
