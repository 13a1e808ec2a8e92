// Package spectrum reads seven-band amplitude samples from an analyser.
package spectrum

const (
	NumBands = 7
	LevelMax = 1023
)

// Band masks, lowest frequency first.
const (
	Band1 = 1 << iota // 63Hz
	Band2             // 160Hz
	Band3             // 400Hz
	Band4             // 1kHz
	Band5             // 2.5kHz
	Band6             // 6.25kHz
	Band7             // 16kHz

	AllBands = Band1 | Band2 | Band3 | Band4 | Band5 | Band6 | Band7
)

// Centre frequencies of the bands in Hz.
var Frequencies = [NumBands]float64{63, 160, 400, 1000, 2500, 6250, 16000}

// NoiseFloor is subtracted from each raw band reading.
var NoiseFloor = [NumBands]int{90, 90, 90, 90, 100, 100, 120}

// Channels selects which analyser outputs are read. Both takes the larger of
// the two; zero reads nothing and every band comes back 0.
type Channels int

const (
	Left  Channels = 1 << iota
	Right
	Both = Left | Right
)

func (c Channels) String() string {
	switch c {
	case Left:
		return "left"
	case Right:
		return "right"
	case Both:
		return "both"
	}
	return "none"
}

// ParseChannels maps a config string to a selector.
func ParseChannels(s string) (Channels, bool) {
	switch s {
	case "left", "l":
		return Left, true
	case "right", "r":
		return Right, true
	case "both", "", "lr", "max":
		return Both, true
	case "none":
		return 0, true
	}
	return 0, false
}

// Source is a multiplexed band analyser. Read returns the raw 0..LevelMax
// amplitude of the selected band on one channel (Left or Right). Next steps
// to the following band, wrapping after the last.
type Source interface {
	Read(ch Channels) int
	Next()
}

// Levels holds one noise-floor-corrected sample per band.
type Levels [NumBands]int

// Sample makes one poll of src: every band is read on the selected channels,
// corrected for the noise floor and the source stepped to the next band.
func Sample(src Source, ch Channels, lv *Levels) {
	for b := 0; b < NumBands; b++ {
		v := 0
		var l, r int
		if ch&Left != 0 {
			l = src.Read(Left)
			v = l
		}
		if ch&Right != 0 {
			r = src.Read(Right)
			v = r
		}
		if ch == Both && l > v {
			v = l
		}
		v = clampLevel(v) - NoiseFloor[b]
		if v < 0 {
			v = 0
		}
		lv[b] = v
		src.Next()
	}
}

func clampLevel(v int) int {
	if v < 0 {
		return 0
	}
	if v > LevelMax {
		return LevelMax
	}
	return v
}
