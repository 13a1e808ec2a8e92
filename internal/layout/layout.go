package layout

import "fmt"

// Serpentine is a strip folded into rows of RowLen LEDs, starting at LED
// Start. With FlipOdd set every odd row runs back the other way, as a
// zig-zag wired panel does.
type Serpentine struct {
	Start   int
	Rows    int
	RowLen  int
	FlipOdd bool
}

// PartDefiner is satisfied by the segment engine.
type PartDefiner interface {
	DefinePart(i, start, length int, up bool)
}

// Index maps row, col to a strip LED index.
func (s Serpentine) Index(row, col int) int {
	if s.FlipOdd && row%2 == 1 {
		col = s.RowLen - 1 - col
	}
	return s.Start + row*s.RowLen + col
}

func (s Serpentine) Count() int { return s.Rows * s.RowLen }

// Apply defines one part per row, parts first..first+Rows-1, each running
// left to right on the panel. It returns the number of the part after the
// last one used.
func (s Serpentine) Apply(d PartDefiner, first int, maxParts int) (int, error) {
	if s.Rows <= 0 || s.RowLen <= 0 {
		return first, fmt.Errorf("layout: need rows and row length, got %dx%d", s.Rows, s.RowLen)
	}
	if first < 1 || first+s.Rows > maxParts {
		return first, fmt.Errorf("layout: parts %d..%d out of range 1..%d", first, first+s.Rows-1, maxParts-1)
	}
	for row := 0; row < s.Rows; row++ {
		up := !(s.FlipOdd && row%2 == 1)
		d.DefinePart(first+row, s.Start+row*s.RowLen, s.RowLen, up)
	}
	return first + s.Rows, nil
}
