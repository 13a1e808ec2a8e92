package spectrum

import (
	"math"

	"github.com/coreman2200/funtimes-ledsegs/internal/timer"
)

// Synth fakes music from the clock: a kick on the low bands at BPM, slow
// swells on the mids and a shimmer on the highs. Output is a pure function
// of time so runs repeat exactly.
type Synth struct {
	clock timer.Clock
	BPM   float64
	Gain  float64 // 0..1
	band  int
}

func NewSynth(c timer.Clock, bpm float64) *Synth {
	if c == nil {
		c = timer.NewSystemClock()
	}
	if bpm <= 0 {
		bpm = 120
	}
	return &Synth{clock: c, BPM: bpm, Gain: 1}
}

func (s *Synth) Read(ch Channels) int {
	t := float64(s.clock.Millis()) / 1000
	beat := math.Mod(t*s.BPM/60, 1)
	var v float64
	switch {
	case s.band < 2:
		v = math.Exp(-6 * beat)
	case s.band < 5:
		period := 2.0 + float64(s.band)
		v = 0.5 + 0.4*math.Sin(2*math.Pi*t/period+float64(s.band))
	default:
		v = 0.3 + 0.25*math.Sin(2*math.Pi*t*3+float64(s.band)*1.7)
	}
	if ch == Right {
		v *= 0.9
	}
	return clampLevel(NoiseFloor[s.band] + int(v*s.Gain*float64(LevelMax-NoiseFloor[s.band])))
}

func (s *Synth) Next() { s.band = (s.band + 1) % NumBands }
