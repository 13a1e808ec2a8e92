package segs

import "github.com/coreman2200/funtimes-ledsegs/internal/rgb"

// Point is one control point of a rescale curve.
type Point struct{ In, Out int }

// Rescale is an ascending list of control points mapping normalised levels
// to display levels. (0,0) and (LevelMax,LevelMax) are implied. The engine
// only reads it; the owner may change it between frames.
type Rescale []Point

type segment struct {
	action   Action
	first    int
	count    int // -1 together with action None marks a free slot
	bands    int
	fore     rgb.Color
	back     rgb.Color
	options  Options
	spacing  int
	level    int
	ceiling  int
	part     int
	pattern  int
	up, down int
	rescale  Rescale
	hook     Hook
	bits     []uint32
}

func (s *segment) free() bool { return s.count < 0 && s.action == None }

func (s *segment) reset() { *s = segment{count: -1} }

// DefineSegment claims the first free slot at or after the current index,
// wrapping around, and sets it up. part defaults to 0, the whole strip.
// The slot becomes the current index. It returns the slot or -1 if every
// slot is in use.
func (e *Engine) DefineSegment(first, count int, action Action, fore rgb.Color, bands int, part ...int) int {
	start := e.current
	if start < 0 {
		start = 0
	}
	idx := -1
	for i := 0; i < MaxSegments; i++ {
		j := (start + i) % MaxSegments
		if e.segs[j].free() {
			idx = j
			break
		}
	}
	e.current = idx
	if idx < 0 {
		e.log.Debug().Int("first", first).Int("count", count).Msg("no free segment")
		return -1
	}

	p := 0
	if len(part) > 0 {
		p = clamp(part[0], 0, MaxParts-1)
	}
	e.segs[idx].reset()
	s := e.Segment(idx)
	s.SetPart(p)
	s.SetFirstLED(first)
	s.SetCount(count)
	s.SetAction(action)
	s.SetForeColor(fore)
	s.SetBands(bands)
	return idx
}

// ResetSegment frees slot i and leaves the current index undefined.
func (e *Engine) ResetSegment(i int) {
	if i >= 0 && i < MaxSegments {
		e.segs[i].reset()
	}
	e.current = -1
}

// ResetSegments frees every slot.
func (e *Engine) ResetSegments() {
	for i := range e.segs {
		e.segs[i].reset()
	}
	e.current = -1
}

// SetCurrentIndex picks the slot the next DefineSegment starts searching
// from and that Current refers to.
func (e *Engine) SetCurrentIndex(i int) { e.current = clamp(i, 0, MaxSegments-1) }

// CurrentIndex is -1 after a failed define or a reset.
func (e *Engine) CurrentIndex() int { return e.current }

// Defined counts the slots in use.
func (e *Engine) Defined() int {
	n := 0
	for i := range e.segs {
		if !e.segs[i].free() {
			n++
		}
	}
	return n
}

// Segment is a handle on one slot. Handles on out of range slots read as
// zero and ignore writes.
type Segment struct {
	e *Engine
	i int
}

func (e *Engine) Segment(i int) Segment { return Segment{e: e, i: i} }

// Current is the segment at the current index.
func (e *Engine) Current() Segment { return Segment{e: e, i: e.current} }

func (s Segment) Index() int { return s.i }

func (s Segment) Valid() bool { return s.e != nil && s.i >= 0 && s.i < MaxSegments }

func (s Segment) Free() bool { return !s.Valid() || s.rec().free() }

func (s Segment) rec() *segment { return &s.e.segs[s.i] }

func (s Segment) Action() Action {
	if !s.Valid() {
		return None
	}
	return s.rec().action
}

// SetAction ignores negative and unknown actions.
func (s Segment) SetAction(a Action) {
	if s.Valid() && a >= None && a <= Bits {
		s.rec().action = a
	}
}

func (s Segment) FirstLED() int {
	if !s.Valid() {
		return 0
	}
	return s.rec().first
}

// SetFirstLED sets the offset of the segment within its part.
func (s Segment) SetFirstLED(v int) {
	if s.Valid() {
		s.rec().first = v
	}
}

func (s Segment) Count() int {
	if !s.Valid() {
		return -1
	}
	return s.rec().count
}

// SetCount ignores counts outside 0..LEDs.
func (s Segment) SetCount(n int) {
	if s.Valid() && n >= 0 && n <= s.e.leds {
		s.rec().count = n
	}
}

func (s Segment) Bands() int {
	if !s.Valid() {
		return 0
	}
	return s.rec().bands
}

// SetBands also drops the adaptive ceiling back to the strip floor.
func (s Segment) SetBands(mask int) {
	if s.Valid() {
		s.rec().bands = mask
		s.rec().ceiling = s.e.floor
	}
}

func (s Segment) ForeColor() rgb.Color {
	if !s.Valid() {
		return rgb.Off
	}
	return s.rec().fore
}

func (s Segment) SetForeColor(c rgb.Color) {
	if s.Valid() {
		s.rec().fore = c
	}
}

func (s Segment) BackColor() rgb.Color {
	if !s.Valid() {
		return rgb.Off
	}
	return s.rec().back
}

func (s Segment) SetBackColor(c rgb.Color) {
	if s.Valid() {
		s.rec().back = c
	}
}

func (s Segment) Options() Options {
	if !s.Valid() {
		return 0
	}
	return s.rec().options
}

func (s Segment) SetOptions(o Options) {
	if s.Valid() && o >= 0 {
		s.rec().options = o
	}
}

func (s Segment) Spacing() int {
	if !s.Valid() {
		return 0
	}
	return s.rec().spacing
}

// SetSpacing leaves spacing unlit LEDs between lit ones.
func (s Segment) SetSpacing(n int) {
	if s.Valid() && n >= 0 {
		s.rec().spacing = n
	}
}

func (s Segment) Level() int {
	if !s.Valid() {
		return 0
	}
	return s.rec().level
}

func (s Segment) SetLevel(v int) {
	if s.Valid() {
		s.rec().level = clamp(v, 0, LevelMax)
	}
}

// MaxLevel is the adaptive ceiling.
func (s Segment) MaxLevel() int {
	if !s.Valid() {
		return 0
	}
	return s.rec().ceiling
}

func (s Segment) SetMaxLevel(v int) {
	if s.Valid() {
		s.rec().ceiling = v
	}
}

func (s Segment) Part() int {
	if !s.Valid() {
		return 0
	}
	return s.rec().part
}

func (s Segment) SetPart(p int) {
	if s.Valid() && p >= 0 && p < MaxParts {
		s.rec().part = p
	}
}

func (s Segment) RandomPattern() int {
	if !s.Valid() {
		return 0
	}
	return s.rec().pattern
}

func (s Segment) SetRandomPattern(p int) {
	if s.Valid() && p >= 0 {
		s.rec().pattern = p & RandomMask
	}
}

// Persistence returns the smoothing weights for rising and falling levels.
func (s Segment) Persistence() (up, down int) {
	if !s.Valid() {
		return 0, 0
	}
	return s.rec().up, s.rec().down
}

// SetPersistence sets the smoothing weights. A weight of LevelMax averages
// the old and new level equally; 0 turns smoothing off.
func (s Segment) SetPersistence(up, down int) {
	if s.Valid() {
		s.rec().up, s.rec().down = up, down
	}
}

func (s Segment) Rescale() Rescale {
	if !s.Valid() {
		return nil
	}
	return s.rec().rescale
}

func (s Segment) SetRescale(r Rescale) {
	if s.Valid() {
		s.rec().rescale = r
	}
}

func (s Segment) Hook() Hook {
	if !s.Valid() {
		return nil
	}
	return s.rec().hook
}

func (s Segment) SetHook(h Hook) {
	if s.Valid() {
		s.rec().hook = h
	}
}

func (s Segment) Bits() []uint32 {
	if !s.Valid() {
		return nil
	}
	return s.rec().bits
}

// SetBits points a Bits segment at a caller owned bit buffer. Bit k of the
// segment is bit k%32 of word k/32; missing words read as zero.
func (s Segment) SetBits(words []uint32) {
	if s.Valid() {
		s.rec().bits = words
	}
}

// Lit is how many of the segment's LEDs its current level lights.
func (s Segment) Lit() int {
	if !s.Valid() {
		return 0
	}
	r := s.rec()
	return lit(r.level, r.count)
}
