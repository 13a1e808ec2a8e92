package segs

// Part is a window onto the strip. Segments in a part are positioned from
// Start and cropped to Start..Start+Len-1. A part that is not Up runs from
// its last LED toward its first.
type Part struct {
	Start int
	Len   int
	Up    bool
}

// End is the last LED index of the part.
func (p Part) End() int { return p.Start + p.Len - 1 }

// ResetParts makes every part the whole strip, forward.
func (e *Engine) ResetParts() {
	for i := range e.parts {
		e.parts[i] = Part{Start: 0, Len: e.leds, Up: true}
	}
}

// DefinePart sets part i (1..MaxParts-1; part 0 is fixed). start and length
// are clamped to 0..LEDs.
func (e *Engine) DefinePart(i, start, length int, up bool) {
	if i < 1 || i >= MaxParts {
		return
	}
	e.parts[i] = Part{
		Start: clamp(start, 0, e.leds),
		Len:   clamp(length, 0, e.leds),
		Up:    up,
	}
}

func (e *Engine) Part(i int) Part {
	if i < 0 || i >= MaxParts {
		return Part{}
	}
	return e.parts[i]
}

// SetPartStart, SetPartLen and SetPartUp write a single field without
// clamping. Parts are read fresh for every segment, so a hook can move a
// part and have it apply to the frame being drawn.
func (e *Engine) SetPartStart(i, start int) {
	if i >= 1 && i < MaxParts {
		e.parts[i].Start = start
	}
}

func (e *Engine) SetPartLen(i, length int) {
	if i >= 1 && i < MaxParts {
		e.parts[i].Len = length
	}
}

func (e *Engine) SetPartUp(i int, up bool) {
	if i >= 1 && i < MaxParts {
		e.parts[i].Up = up
	}
}
