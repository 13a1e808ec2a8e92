package strip

import (
	"fmt"
	"image"
	"image/color"

	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/nrzled"
	"periph.io/x/extra/devices/screen"
	"periph.io/x/host/v3"
)

// Drawer pushes frames to any periph display: an nrzled strip on SPI or the
// console screen.
type Drawer struct {
	Frame
	Brightness float64
	Limiter    *Limiter

	dev   display.Drawer
	img   *image.NRGBA
	lin   []Pixel
	shows int
}

func NewDrawer(dev display.Drawer, n int) *Drawer {
	d := &Drawer{
		Frame:      NewFrame(n),
		Brightness: 1,
		dev:        dev,
		img:        image.NewNRGBA(image.Rect(0, 0, n, 1)),
	}
	return d
}

// Device is the underlying periph device.
func (d *Drawer) Device() display.Drawer { return d.dev }

func (d *Drawer) Begin() error {
	d.clear()
	return nil
}

func (d *Drawer) Show() error {
	d.lin = Expand(d.lin, d.px, d.Brightness)
	d.Limiter.Apply(d.lin)
	for i, p := range d.lin {
		d.img.SetNRGBA(i, 0, color.NRGBA{R: to8(p.R), G: to8(p.G), B: to8(p.B), A: 255})
	}
	d.shows++
	if err := d.dev.Draw(d.dev.Bounds(), d.img, image.Point{}); err != nil {
		return fmt.Errorf("draw frame: %w", err)
	}
	return nil
}

// Halt blanks the device.
func (d *Drawer) Halt() error { return d.dev.Halt() }

// SPIOptions configures an nrzled strip.
type SPIOptions struct {
	Port     string // "" = first port
	FreqKHz  int
	Channels int
}

// OpenSPI initialises the host and opens an nrzled strip of n pixels.
func OpenSPI(n int, o SPIOptions) (*Drawer, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("host init: %w", err)
	}
	port, err := spireg.Open(o.Port)
	if err != nil {
		return nil, fmt.Errorf("open spi %q: %w", o.Port, err)
	}
	freq := o.FreqKHz
	if freq <= 0 {
		freq = 2500
	}
	ch := o.Channels
	if ch != 4 {
		ch = 3
	}
	dev, err := nrzled.NewSPI(port, &nrzled.Opts{
		NumPixels: n,
		Channels:  ch,
		Freq:      physic.Frequency(freq) * physic.KiloHertz,
	})
	if err != nil {
		port.Close()
		return nil, fmt.Errorf("nrzled: %w", err)
	}
	if err := dev.Halt(); err != nil {
		port.Close()
		return nil, fmt.Errorf("nrzled halt: %w", err)
	}
	return NewDrawer(dev, n), nil
}

// NewScreen prints frames on the console as coloured blocks.
func NewScreen(n int) *Drawer {
	return NewDrawer(screen.New(n), n)
}
