package strip

import (
	"math"

	"github.com/coreman2200/funtimes-ledsegs/internal/rgb"
)

// Pixel is a linear colour with channels in 0..1.
type Pixel struct{ R, G, B float32 }

// Expand converts packed colours to linear pixels scaled by brightness.
func Expand(dst []Pixel, src []rgb.Color, brightness float64) []Pixel {
	dst = dst[:0]
	b := float32(brightness)
	for _, c := range src {
		r, g, bl := rgb.Unpack(c)
		dst = append(dst, Pixel{
			R: float32(r) / float32(rgb.MaxChannel) * b,
			G: float32(g) / float32(rgb.MaxChannel) * b,
			B: float32(bl) / float32(rgb.MaxChannel) * b,
		})
	}
	return dst
}

// Limiter keeps a frame inside a power budget in two stages:
// a per-LED white cap (R+G+B <= WhiteCap), then a global current budget
// that starts compressing at Knee*BudgetmA.
type Limiter struct {
	WhiteCap float64 // sum of channels, 3 = no cap
	ChanmA   float64 // mA drawn by one channel at full scale
	BudgetmA float64 // 0 disables the budget stage
	Knee     float64 // fraction of budget where soft limiting begins
}

func DefaultLimiter() *Limiter {
	return &Limiter{WhiteCap: 3, ChanmA: 20, Knee: 0.9}
}

// Current estimates the draw of buf in mA.
func (l *Limiter) Current(buf []Pixel) float64 {
	var total float64
	cm := float32(l.chanmA())
	for i := range buf {
		total += float64((buf[i].R + buf[i].G + buf[i].B) * cm)
	}
	return total
}

func (l *Limiter) chanmA() float64 {
	if l.ChanmA > 0 {
		return l.ChanmA
	}
	return 20
}

func (l *Limiter) Apply(buf []Pixel) {
	if l == nil {
		return
	}
	if l.WhiteCap > 0 {
		wc := float32(l.WhiteCap)
		for i := range buf {
			s := buf[i].R + buf[i].G + buf[i].B
			if s > wc && s > 0 {
				k := wc / s
				buf[i].R *= k
				buf[i].G *= k
				buf[i].B *= k
			}
		}
	}

	if l.BudgetmA <= 0 {
		return
	}
	total := l.Current(buf)
	if total <= 0 {
		return
	}
	knee := l.Knee
	if knee <= 0 || knee >= 1 {
		knee = 0.9
	}
	soft := knee * l.BudgetmA
	if total <= soft {
		return
	}
	// above the knee the draw bends smoothly toward the budget, never past it
	span := l.BudgetmA - soft
	out := soft + span*(1-math.Exp(-(total-soft)/span))
	scale(buf, float32(out/total))
}

func scale(buf []Pixel, s float32) {
	if s >= 1 {
		return
	}
	for i := range buf {
		buf[i].R *= s
		buf[i].G *= s
		buf[i].B *= s
	}
}

func to8(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}
