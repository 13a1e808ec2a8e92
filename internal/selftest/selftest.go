// Package selftest drives wiring checks through the segment engine: a
// single lit LED walking the strip, whole-strip colour channels, and a
// rotating bit pattern.
package selftest

import (
	"fmt"

	"github.com/coreman2200/funtimes-ledsegs/internal/bits"
	"github.com/coreman2200/funtimes-ledsegs/internal/rgb"
	"github.com/coreman2200/funtimes-ledsegs/internal/segs"
)

type Kind string

const (
	None       Kind = ""
	IndexSweep Kind = "index_sweep"
	RGBTest    Kind = "rgb_channels"
	Chase      Kind = "chase"
)

func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case None, IndexSweep, RGBTest, Chase:
		return k, nil
	}
	return None, fmt.Errorf("unknown self test %q", s)
}

// Plan picks the test. Frames bounds rgb_channels and chase; zero means
// three frames for rgb_channels and one full lap for chase.
type Plan struct {
	Kind   Kind
	Frames int
	// Every is the chase spacing: one lit LED in Every.
	Every int
}

// Runner installs a test as a display hook. The hook advances one step per
// frame and switches its segment off when the test is over.
type Runner struct {
	plan  Plan
	step  int
	leds  int
	seg   int
	done  bool
	buf   []byte
	words []uint32
}

func NewRunner(plan Plan) *Runner { return &Runner{plan: plan, seg: -1} }

func (r *Runner) Kind() Kind { return r.plan.Kind }

// Done reports whether every step has been shown.
func (r *Runner) Done() bool { return r.done }

// Step is the number of frames drawn so far.
func (r *Runner) Step() int { return r.step }

// Install clears the engine's segments and defines the test segment.
func (r *Runner) Install(e *segs.Engine) error {
	r.leds = e.LEDs()
	r.step = 0
	r.done = false
	e.ResetSegments()
	e.SetCurrentIndex(0)

	var i int
	switch r.plan.Kind {
	case IndexSweep:
		i = e.DefineSegment(0, 1, segs.All, rgb.White, 0)
	case RGBTest:
		i = e.DefineSegment(0, r.leds, segs.All, rgb.Red, 0)
		if r.plan.Frames <= 0 {
			r.plan.Frames = 3
		}
	case Chase:
		i = e.DefineSegment(0, r.leds, segs.Bits, rgb.Cyan, 0)
		if r.plan.Frames <= 0 {
			r.plan.Frames = r.leds
		}
		every := r.plan.Every
		if every <= 0 {
			every = 8
		}
		r.buf = make([]byte, (r.leds+7)/8)
		for k := 0; k < r.leds; k += every {
			r.buf[k>>3] |= 1 << (k & 7)
		}
	default:
		return fmt.Errorf("unknown self test %q", r.plan.Kind)
	}
	if i < 0 {
		return fmt.Errorf("self test %s: no free segment", r.plan.Kind)
	}
	r.seg = i
	e.Segment(i).SetHook(r.hook)
	return nil
}

func (r *Runner) hook(e *segs.Engine, idx int) {
	s := e.Segment(idx)
	if r.done {
		s.SetAction(segs.None)
		return
	}
	switch r.plan.Kind {
	case IndexSweep:
		if r.step >= r.leds {
			r.finish(s)
			return
		}
		s.SetFirstLED(r.step)
	case RGBTest:
		if r.step >= r.plan.Frames {
			r.finish(s)
			return
		}
		s.SetForeColor([]rgb.Color{rgb.Red, rgb.Green, rgb.Blue}[r.step%3])
	case Chase:
		if r.step >= r.plan.Frames {
			r.finish(s)
			return
		}
		if r.step > 0 {
			bits.Rotate(r.leds, r.buf, 1)
		}
		r.words = bits.Pack(r.buf, r.words)
		s.SetBits(r.words)
	}
	r.step++
}

func (r *Runner) finish(s segs.Segment) {
	r.done = true
	s.SetAction(segs.None)
}
