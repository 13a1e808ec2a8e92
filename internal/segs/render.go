package segs

import "github.com/coreman2200/funtimes-ledsegs/internal/rgb"

// lit converts a level into a count of LEDs, 0..count.
func lit(level, count int) int {
	if count <= 0 {
		return 0
	}
	return clamp(level*(count+1)/(LevelMax+1), 0, count)
}

// Show runs the display hooks, draws every segment with an action into a
// blank frame in slot order and sends the frame to the strip.
func (e *Engine) Show() error {
	e.render()
	return e.push()
}

func (e *Engine) render() {
	for i := range e.segs {
		s := &e.segs[i]
		if s.hook != nil && !s.free() {
			s.hook(e, i)
		}
	}
	for i := range e.frame {
		e.frame[i] = rgb.Off
	}
	for i := range e.segs {
		if e.segs[i].action != None {
			e.draw(&e.segs[i])
		}
	}
}

func (e *Engine) draw(s *segment) {
	count := s.count
	if count <= 0 {
		return
	}
	p := e.parts[s.part]
	end := p.End()
	n := lit(s.level, count)

	fore, back := s.fore, s.back
	if s.options&Modulate != 0 {
		fore = rgb.Lerp(back, fore, n, count)
	}
	keepOff := s.options&NoOffOverwrite != 0

	first := s.first + p.Start
	switch s.action {
	case FromBottom, FromTop, Random, Bits:
		if !p.Up {
			first = p.Start + p.Len - (s.first + count)
		}
	}

	led, inc := first, 1
	switch s.action {
	case FromBottom, Random, Bits:
		if !p.Up {
			led, inc = first+count-1, -1
		}
	case FromTop:
		if p.Up {
			led, inc = first+count-1, -1
		}
	case FromMiddle:
		led, inc = first+(count-1)>>1, 0
	}

	// gap counts down the LEDs left to skip before the next drawn one
	gap, bit := 0, 0
	for k := 0; k < count; k++ {
		drawn := gap == 0
		if drawn && led >= p.Start && led <= end && led >= 0 && led < e.leds {
			c := back
			switch s.action {
			case FromBottom, FromTop, FromMiddle:
				if n > k {
					c = fore
				}
			case All:
				c = fore
			case Random:
				// <= against the level, where the fills use > against lit
				if e.random[(k+s.pattern)&RandomMask] <= s.level {
					c = fore
				}
			case Bits:
				if w := bit >> 5; w < len(s.bits) && s.bits[w]>>(bit&31)&1 != 0 {
					c = fore
				}
				bit++
			}
			if c != back || !keepOff {
				e.frame[led] = c
			}
		}

		if s.action == FromMiddle {
			// zig-zag outward from the middle; spacing only advances on
			// the steps that go down
			if inc <= 0 {
				inc--
				if drawn {
					gap = s.spacing + 1
				}
				gap--
			} else {
				inc++
			}
			inc = -inc
		} else {
			if drawn {
				gap = s.spacing + 1
			}
			gap--
		}
		led += inc
	}
}

// push copies the frame to the driver and shows it.
func (e *Engine) push() error {
	for i, c := range e.frame {
		e.drv.SetPixel(i, c)
	}
	return e.drv.Show()
}

// Pixel is the colour of LED i in the last drawn frame.
func (e *Engine) Pixel(i int) rgb.Color {
	if i < 0 || i >= len(e.frame) {
		return rgb.Off
	}
	return e.frame[i]
}

// Frame copies the last drawn frame.
func (e *Engine) Frame() []rgb.Color {
	return append([]rgb.Color(nil), e.frame...)
}
