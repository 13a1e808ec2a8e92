package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/funtimes-ledsegs/internal/rgb"
	"github.com/coreman2200/funtimes-ledsegs/internal/segs"
	"github.com/coreman2200/funtimes-ledsegs/internal/strip"
)

func TestIndex(t *testing.T) {
	s := Serpentine{Start: 4, Rows: 3, RowLen: 5, FlipOdd: true}
	assert.Equal(t, 4, s.Index(0, 0))
	assert.Equal(t, 8, s.Index(0, 4))
	assert.Equal(t, 13, s.Index(1, 0))
	assert.Equal(t, 9, s.Index(1, 4))
	assert.Equal(t, 14, s.Index(2, 0))
	assert.Equal(t, 15, s.Count())
}

func TestApplyRejectsBadShapes(t *testing.T) {
	e := newEngine(t, 20)
	_, err := Serpentine{Rows: 0, RowLen: 4}.Apply(e, 1, segs.MaxParts)
	assert.Error(t, err)
	_, err = Serpentine{Rows: 4, RowLen: 4}.Apply(e, 0, segs.MaxParts)
	assert.Error(t, err)
	_, err = Serpentine{Rows: 4, RowLen: 4}.Apply(e, 17, segs.MaxParts)
	assert.Error(t, err)
}

func newEngine(t *testing.T, n int) *segs.Engine {
	t.Helper()
	e, err := segs.New(segs.Config{LEDs: n, Driver: strip.NewBuffer(n), Seed: 1})
	require.NoError(t, err)
	return e
}

func TestRowsDisplayLeftToRight(t *testing.T) {
	e := newEngine(t, 12)
	s := Serpentine{Rows: 3, RowLen: 4, FlipOdd: true}
	next, err := s.Apply(e, 1, segs.MaxParts)
	require.NoError(t, err)
	assert.Equal(t, 4, next)
	assert.Equal(t, segs.Part{Start: 4, Len: 4, Up: false}, e.Part(2))

	// first LED of each row, counted on the panel
	for row := 0; row < 3; row++ {
		i := e.DefineSegment(0, 1, segs.FromBottom, rgb.Red, 0, 1+row)
		require.NotEqual(t, -1, i)
		e.Segment(i).SetLevel(segs.LevelMax)
	}
	require.NoError(t, e.Show())
	for row := 0; row < 3; row++ {
		assert.Equal(t, rgb.Red, e.Pixel(s.Index(row, 0)), "row %d", row)
	}
	assert.Equal(t, rgb.Off, e.Pixel(4))
}
