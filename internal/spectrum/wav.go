package spectrum

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/go-audio/wav"

	"github.com/coreman2200/funtimes-ledsegs/internal/timer"
)

const defaultWindow = 2048

// WAV plays a PCM file against a clock and measures the band amplitudes of
// the most recent Window samples with a Goertzel filter per band centre.
// The seven bands of both channels are measured once per sweep, when band 0
// is first read.
type WAV struct {
	clock  timer.Clock
	start  uint64
	rate   int
	frames int
	pcm    [2][]float64
	Window int
	Loop   bool

	band     int
	measured bool
	levels   [2]Levels
}

// OpenWAV decodes the file at path.
func OpenWAV(path string, c timer.Clock) (*WAV, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open wav: %w", err)
	}
	defer f.Close()
	return NewWAV(f, c)
}

// NewWAV decodes the whole stream up front. Playback starts at the clock's
// current time.
func NewWAV(r io.ReadSeeker, c timer.Clock) (*WAV, error) {
	if c == nil {
		c = timer.NewSystemClock()
	}
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("invalid WAV file")
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("reading WAV PCM data: %w", err)
	}
	if buf.Format == nil || buf.Format.NumChannels < 1 || buf.Format.SampleRate <= 0 {
		return nil, fmt.Errorf("unsupported WAV format")
	}
	depth := buf.SourceBitDepth
	if depth <= 0 {
		depth = int(dec.BitDepth)
	}
	if depth <= 0 {
		depth = 16
	}
	scale := float64(int64(1) << (depth - 1))
	chans := buf.Format.NumChannels
	frames := len(buf.Data) / chans

	w := &WAV{
		clock:  c,
		start:  c.Millis(),
		rate:   buf.Format.SampleRate,
		frames: frames,
		Window: defaultWindow,
	}
	w.pcm[0] = make([]float64, frames)
	w.pcm[1] = w.pcm[0]
	if chans > 1 {
		w.pcm[1] = make([]float64, frames)
	}
	for i := 0; i < frames; i++ {
		w.pcm[0][i] = float64(buf.Data[i*chans]) / scale
		if chans > 1 {
			w.pcm[1][i] = float64(buf.Data[i*chans+1]) / scale
		}
	}
	return w, nil
}

// SampleRate of the decoded file.
func (w *WAV) SampleRate() int { return w.rate }

// Done reports whether a non-looping file has played out.
func (w *WAV) Done() bool {
	return !w.Loop && w.position() >= w.frames
}

func (w *WAV) position() int {
	ms := w.clock.Millis() - w.start
	return int(ms * uint64(w.rate) / 1000)
}

func (w *WAV) Read(ch Channels) int {
	if w.band == 0 && !w.measured {
		w.measure()
		w.measured = true
	}
	if ch == Right {
		return w.levels[1][w.band]
	}
	return w.levels[0][w.band]
}

func (w *WAV) Next() {
	w.band = (w.band + 1) % NumBands
	if w.band == 0 {
		w.measured = false
	}
}

func (w *WAV) measure() {
	n := w.Window
	if n <= 0 || n > w.frames {
		n = w.frames
	}
	end := w.position()
	if w.Loop && w.frames > 0 {
		end %= w.frames
		if end < n {
			end = n
		}
	}
	if n == 0 || end > w.frames || end < n {
		w.levels = [2]Levels{}
		return
	}
	for c := 0; c < 2; c++ {
		win := w.pcm[c][end-n : end]
		for b := 0; b < NumBands; b++ {
			amp := goertzel(win, Frequencies[b], w.rate)
			w.levels[c][b] = dbToLevel(amp)
		}
	}
}

// goertzel returns the amplitude (1.0 = full scale sine) of freq in a
// Hann-windowed block.
func goertzel(x []float64, freq float64, rate int) float64 {
	n := len(x)
	if n < 2 || freq >= float64(rate)/2 {
		return 0
	}
	coeff := 2 * math.Cos(2*math.Pi*freq/float64(rate))
	var s1, s2 float64
	for i, v := range x {
		hann := 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1)))
		s := v*hann + coeff*s1 - s2
		s2 = s1
		s1 = s
	}
	power := s1*s1 + s2*s2 - coeff*s1*s2
	if power < 0 {
		power = 0
	}
	return 4 * math.Sqrt(power) / float64(n)
}

// dbToLevel maps -60dBFS..0dBFS onto 0..LevelMax.
func dbToLevel(amp float64) int {
	if amp <= 0 {
		return 0
	}
	db := 20 * math.Log10(amp)
	return clampLevel(int((db + 60) / 60 * LevelMax))
}
