// Package strip holds the LED strip drivers the segment engine writes to.
package strip

import (
	"errors"

	"github.com/coreman2200/funtimes-ledsegs/internal/rgb"
)

// Driver is an addressable strip. SetPixel only stages a colour; Show
// transmits the staged frame. Out of range indices are ignored.
type Driver interface {
	Begin() error
	SetPixel(i int, c rgb.Color)
	Show() error
	Len() int
}

// Frame is a staged pixel buffer shared by the drivers in this package.
type Frame struct {
	px []rgb.Color
}

func NewFrame(n int) Frame {
	if n < 0 {
		n = 0
	}
	return Frame{px: make([]rgb.Color, n)}
}

func (f *Frame) SetPixel(i int, c rgb.Color) {
	if i >= 0 && i < len(f.px) {
		f.px[i] = c
	}
}

func (f *Frame) Pixel(i int) rgb.Color {
	if i >= 0 && i < len(f.px) {
		return f.px[i]
	}
	return rgb.Off
}

func (f *Frame) Len() int { return len(f.px) }

// Pixels exposes the staged buffer. Callers must not keep it across Show.
func (f *Frame) Pixels() []rgb.Color { return f.px }

func (f *Frame) clear() {
	for i := range f.px {
		f.px[i] = rgb.Off
	}
}

// Buffer is an in-memory strip. It keeps a copy of the last shown frame.
type Buffer struct {
	Frame
	shown []rgb.Color
	shows int
}

func NewBuffer(n int) *Buffer {
	b := &Buffer{Frame: NewFrame(n)}
	b.shown = make([]rgb.Color, b.Len())
	return b
}

func (b *Buffer) Begin() error {
	b.clear()
	return nil
}

func (b *Buffer) Show() error {
	copy(b.shown, b.px)
	b.shows++
	return nil
}

// Shown returns the last transmitted frame.
func (b *Buffer) Shown() []rgb.Color { return b.shown }

// Shows counts calls to Show.
func (b *Buffer) Shows() int { return b.shows }

// Tee writes every frame to all of its drivers.
type Tee []Driver

func (t Tee) Begin() error {
	var errs []error
	for _, d := range t {
		errs = append(errs, d.Begin())
	}
	return errors.Join(errs...)
}

func (t Tee) SetPixel(i int, c rgb.Color) {
	for _, d := range t {
		d.SetPixel(i, c)
	}
}

func (t Tee) Show() error {
	var errs []error
	for _, d := range t {
		errs = append(errs, d.Show())
	}
	return errors.Join(errs...)
}

// Len is the shortest strip in the tee.
func (t Tee) Len() int {
	if len(t) == 0 {
		return 0
	}
	n := t[0].Len()
	for _, d := range t[1:] {
		if d.Len() < n {
			n = d.Len()
		}
	}
	return n
}
