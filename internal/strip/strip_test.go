package strip

import (
	"bytes"
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi/spitest"
	"periph.io/x/devices/v3/nrzled"

	"github.com/coreman2200/funtimes-ledsegs/internal/rgb"
)

func TestBufferShowsStagedFrame(t *testing.T) {
	b := NewBuffer(4)
	require.NoError(t, b.Begin())
	b.SetPixel(1, rgb.Red)
	b.SetPixel(-1, rgb.Blue)
	b.SetPixel(4, rgb.Blue)
	assert.Equal(t, []rgb.Color{rgb.Off, rgb.Off, rgb.Off, rgb.Off}, b.Shown())

	require.NoError(t, b.Show())
	assert.Equal(t, []rgb.Color{rgb.Off, rgb.Red, rgb.Off, rgb.Off}, b.Shown())
	assert.Equal(t, 1, b.Shows())

	require.NoError(t, b.Begin())
	assert.Equal(t, rgb.Off, b.Pixel(1))
	assert.Equal(t, rgb.Red, b.Shown()[1], "begin does not transmit")
}

func TestTee(t *testing.T) {
	a, b := NewBuffer(3), NewBuffer(5)
	tee := Tee{a, b}
	assert.Equal(t, 3, tee.Len())
	tee.SetPixel(2, rgb.Green)
	require.NoError(t, tee.Show())
	assert.Equal(t, rgb.Green, a.Shown()[2])
	assert.Equal(t, rgb.Green, b.Shown()[2])
	assert.Equal(t, 0, Tee{}.Len())
}

func estCurrent(buf []Pixel, chanmA float32) float64 {
	total := 0.0
	for i := range buf {
		total += float64((buf[i].R + buf[i].G + buf[i].B) * chanmA)
	}
	return total
}

func TestLimiterBudgetClamp(t *testing.T) {
	buf := make([]Pixel, 10)
	for i := range buf {
		buf[i] = Pixel{1, 1, 1}
	}
	l := &Limiter{WhiteCap: 3, ChanmA: 20, BudgetmA: 300, Knee: 0.9}

	// 10 * 60mA before limiting
	l.Apply(buf)
	assert.LessOrEqual(t, estCurrent(buf, 20), 300.1)
}

func TestLimiterKnee(t *testing.T) {
	buf := []Pixel{{1, 1, 1}}
	l := &Limiter{WhiteCap: 3, ChanmA: 20, BudgetmA: 200, Knee: 0.5}
	l.Apply(buf)
	assert.InDelta(t, 60, estCurrent(buf, 20), 0.01, "under the knee")

	buf = []Pixel{{1, 1, 1}}
	l.BudgetmA = 80 // knee at 40mA
	l.Apply(buf)
	assert.Less(t, estCurrent(buf, 20), 60.0)
	assert.Greater(t, estCurrent(buf, 20), 48.0)
}

func TestWhiteCap(t *testing.T) {
	buf := []Pixel{{1, 1, 1}}
	(&Limiter{WhiteCap: 1.5}).Apply(buf)
	assert.LessOrEqual(t, buf[0].R+buf[0].G+buf[0].B, float32(1.5001))

	var nilLimiter *Limiter
	buf = []Pixel{{1, 1, 1}}
	nilLimiter.Apply(buf)
	assert.Equal(t, Pixel{1, 1, 1}, buf[0])
}

func TestExpand(t *testing.T) {
	px := Expand(nil, []rgb.Color{rgb.Pack(127, 0, 0)}, 0.5)
	require.Len(t, px, 1)
	assert.InDelta(t, 0.5, px[0].R, 1e-6)
	assert.Equal(t, float32(0), px[0].G)
}

type fakeDrawer struct {
	n    int
	last *image.NRGBA
	halt int
}

func (f *fakeDrawer) String() string              { return "fake" }
func (f *fakeDrawer) Halt() error                 { f.halt++; return nil }
func (f *fakeDrawer) ColorModel() color.Model     { return color.NRGBAModel }
func (f *fakeDrawer) Bounds() image.Rectangle     { return image.Rect(0, 0, f.n, 1) }
func (f *fakeDrawer) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	f.last = image.NewNRGBA(r)
	for x := r.Min.X; x < r.Max.X; x++ {
		f.last.Set(x, 0, src.At(x, 0))
	}
	return nil
}

func TestDrawerExpandsAndLimits(t *testing.T) {
	dev := &fakeDrawer{n: 3}
	d := NewDrawer(dev, 3)
	d.Brightness = 1
	d.Limiter = &Limiter{WhiteCap: 1}
	require.NoError(t, d.Begin())
	d.SetPixel(0, rgb.Pack(127, 0, 0))
	d.SetPixel(1, rgb.White)
	require.NoError(t, d.Show())

	require.NotNil(t, dev.last)
	assert.Equal(t, color.NRGBA{R: 255, A: 255}, dev.last.NRGBAAt(0, 0))
	w := dev.last.NRGBAAt(1, 0)
	assert.InDelta(t, 85, int(w.R), 1, "white capped to a third per channel")
	assert.Equal(t, color.NRGBA{A: 255}, dev.last.NRGBAAt(2, 0))

	require.NoError(t, d.Halt())
	assert.Equal(t, 1, dev.halt)
}

func TestDrawerOverNRZ(t *testing.T) {
	var buf bytes.Buffer
	dev, err := nrzled.NewSPI(spitest.NewRecordRaw(&buf), &nrzled.Opts{
		NumPixels: 2,
		Channels:  3,
		Freq:      2500 * physic.KiloHertz,
	})
	require.NoError(t, err)

	d := NewDrawer(dev, 2)
	require.NoError(t, d.Begin())
	require.NoError(t, d.Show())
	dark := append([]byte(nil), buf.Bytes()...)
	require.NotEmpty(t, dark)

	buf.Reset()
	d.SetPixel(0, rgb.White)
	require.NoError(t, d.Show())
	assert.Equal(t, len(dark), buf.Len())
	assert.NotEqual(t, dark, buf.Bytes())
}

func TestTermDrawsOneGlyphPerLED(t *testing.T) {
	var out bytes.Buffer
	term := NewTerm(&out, 5)
	require.NoError(t, term.Begin())
	term.SetPixel(2, rgb.Cyan)
	require.NoError(t, term.Show())
	assert.Equal(t, 5, strings.Count(out.String(), "█"))
	assert.True(t, strings.HasSuffix(out.String(), "\n"))
}
