package segs

import "github.com/coreman2200/funtimes-ledsegs/internal/spectrum"

// Sample reads one set of bands from the source on the given channels and
// keeps the per-band maxima used by dead air detection.
func (e *Engine) Sample(ch spectrum.Channels) {
	spectrum.Sample(e.src, ch, &e.levels)
	for b, v := range e.levels {
		if v > e.maxima[b] {
			e.maxima[b] = v
		}
	}
}

// Levels is the most recent noise-floor-corrected sample.
func (e *Engine) Levels() spectrum.Levels { return e.levels }

// SetLevels replaces the current sample, as if it had just been read.
func (e *Engine) SetLevels(lv spectrum.Levels) {
	for b := range lv {
		lv[b] = clamp(lv[b], 0, LevelMax)
		if lv[b] > e.maxima[b] {
			e.maxima[b] = lv[b]
		}
	}
	e.levels = lv
}

// MapBands updates the level of every defined segment from the current
// sample. Segments with action None are included so a hook can switch them
// on.
func (e *Engine) MapBands() {
	for i := range e.segs {
		s := &e.segs[i]
		if s.count < 0 {
			continue
		}
		v := e.aggregate(s)

		s.ceiling -= e.decay
		if s.ceiling < e.floor {
			s.ceiling = e.floor
		}
		if s.ceiling < v {
			s.ceiling = v
		}

		// LevelMax itself is only ever passed through, never produced here,
		// so hooks can tell a clipped input apart.
		if v < LevelMax {
			v = v * LevelMax / s.ceiling
			if v >= LevelMax {
				v = LevelMax - 1
			}
			if s.rescale != nil {
				v = s.rescale.apply(v)
			}
		}

		w := s.up
		if v < s.level {
			w = s.down
		}
		if w > 0 {
			v = (w*s.level + v*LevelMax) / (w + LevelMax)
		}
		s.level = clamp(v, 0, LevelMax)
	}
}

func (e *Engine) aggregate(s *segment) int {
	total, n := 0, 0
	avg := s.options&BandAvg != 0
	for b := 0; b < spectrum.NumBands; b++ {
		if s.bands>>b&1 == 0 {
			continue
		}
		n++
		if avg {
			total += e.levels[b]
		} else if e.levels[b] > total {
			total = e.levels[b]
		}
	}
	if avg && n > 0 {
		total /= n
	}
	return total
}

// apply interpolates v between the control points that bracket it: the
// first point whose input exceeds v and the one before it.
func (r Rescale) apply(v int) int {
	i := 0
	for i < len(r) && r[i].In <= v {
		i++
	}
	lo := Point{0, 0}
	if i > 0 {
		lo = r[i-1]
	}
	hi := Point{LevelMax, LevelMax}
	if i < len(r) {
		hi = r[i]
	}
	if hi.In <= lo.In {
		v = hi.Out
	} else {
		v = lo.Out + (hi.Out-lo.Out)*(v-lo.In)/(hi.In-lo.In)
	}
	return clamp(v, 0, LevelMax-1)
}
