package segs

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/coreman2200/funtimes-ledsegs/internal/rgb"
	"github.com/coreman2200/funtimes-ledsegs/internal/spectrum"
	"github.com/coreman2200/funtimes-ledsegs/internal/strip"
	"github.com/coreman2200/funtimes-ledsegs/internal/timer"
)

type rig struct {
	e     *Engine
	strip *strip.Buffer
	clock *timer.ManualClock
	src   *spectrum.Static
}

func newRig(t *testing.T, leds int) *rig {
	t.Helper()
	clk := timer.NewManualClock(0)
	buf := strip.NewBuffer(leds)
	src := spectrum.NewStatic(spectrum.Levels{})
	e, err := New(Config{
		LEDs:   leds,
		Driver: buf,
		Source: src,
		Timers: timer.NewScheduler(clk),
		Seed:   1,
	})
	require.NoError(t, err)
	return &rig{e: e, strip: buf, clock: clk, src: src}
}

// raw adds the noise floor back so a Static source yields lv after Sample.
func raw(lv spectrum.Levels) spectrum.Levels {
	for b := range lv {
		lv[b] += spectrum.NoiseFloor[b]
	}
	return lv
}

// lit lists the LEDs showing c in the engine's frame.
func litLEDs(e *Engine, c rgb.Color) []int {
	out := []int{}
	for i := 0; i < e.LEDs(); i++ {
		if e.Pixel(i) == c {
			out = append(out, i)
		}
	}
	return out
}

func span(from, to int) []int {
	out := []int{}
	if from <= to {
		for i := from; i <= to; i++ {
			out = append(out, i)
		}
	}
	return out
}
