// Package show rotates the strip through a list of clips on the engine's
// timer scheduler.
package show

import (
	"errors"

	"github.com/rs/zerolog"

	"github.com/coreman2200/funtimes-ledsegs/internal/timer"
)

// Clip is one entry of a show: the name of a program to install and how
// long to keep it. A zero duration holds the clip until Next or Stop.
type Clip struct {
	Name       string
	DurationMs uint64
}

type Program struct {
	Loop  bool
	Clips []Clip
}

type State string

const (
	Idle    State = "idle"
	Running State = "running"
)

// Hooks connect the player to whatever draws the clips.
type Hooks struct {
	// Apply installs a clip. An error is logged and the clip still runs
	// for its duration.
	Apply func(c Clip) error
	// Done is called when a non-looping show runs out of clips.
	Done func()
}

// Player owns the current Program and a one-shot timer for the running clip.
type Player struct {
	State State

	prog  Program
	idx   int
	id    timer.ID
	hooks Hooks
	sched *timer.Scheduler
	log   zerolog.Logger
}

func NewPlayer(sched *timer.Scheduler, h Hooks, logger zerolog.Logger) *Player {
	return &Player{State: Idle, sched: sched, hooks: h, log: logger}
}

// Load replaces the program, stopping playback.
func (p *Player) Load(prog Program) error {
	if len(prog.Clips) == 0 {
		return errors.New("program has no clips")
	}
	p.Stop()
	p.prog = prog
	return nil
}

// Start applies the first clip and arms its timer.
func (p *Player) Start() {
	if p.State == Running || len(p.prog.Clips) == 0 {
		return
	}
	p.State = Running
	p.idx = 0
	p.enter()
}

// Stop cancels the clip timer and rewinds.
func (p *Player) Stop() {
	if p.id != 0 {
		p.sched.Cancel(p.id)
		p.id = 0
	}
	p.State = Idle
	p.idx = 0
}

// Next cuts the running clip short.
func (p *Player) Next() {
	if p.State != Running {
		return
	}
	if p.id != 0 {
		p.sched.Cancel(p.id)
		p.id = 0
	}
	p.advanceClip()
}

// Current is the running clip, or false when idle.
func (p *Player) Current() (Clip, bool) {
	if p.State != Running {
		return Clip{}, false
	}
	return p.prog.Clips[p.idx], true
}

func (p *Player) enter() {
	clip := p.prog.Clips[p.idx]
	if p.hooks.Apply != nil {
		if err := p.hooks.Apply(clip); err != nil {
			p.log.Warn().Err(err).Str("clip", clip.Name).Msg("apply clip")
		}
	}
	p.log.Info().Str("clip", clip.Name).Uint64("duration_ms", clip.DurationMs).Msg("clip started")
	if clip.DurationMs == 0 {
		return
	}
	p.id = p.sched.Define(clip.DurationMs, 0, clipTimer, p)
	if p.id == 0 {
		p.log.Warn().Str("clip", clip.Name).Msg("no free timer; holding clip")
	}
}

func clipTimer(_ timer.ID, arg any) {
	p := arg.(*Player)
	p.id = 0
	p.advanceClip()
}

func (p *Player) nextIndex() int {
	ni := p.idx + 1
	if ni >= len(p.prog.Clips) {
		if p.prog.Loop {
			return 0
		}
		return -1
	}
	return ni
}

func (p *Player) advanceClip() {
	next := p.nextIndex()
	if next == -1 {
		p.State = Idle
		p.idx = 0
		if p.hooks.Done != nil {
			p.hooks.Done()
		}
		return
	}
	p.idx = next
	p.enter()
}
