package selftest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/funtimes-ledsegs/internal/rgb"
	"github.com/coreman2200/funtimes-ledsegs/internal/segs"
	"github.com/coreman2200/funtimes-ledsegs/internal/strip"
)

func newEngine(t *testing.T, n int) *segs.Engine {
	t.Helper()
	e, err := segs.New(segs.Config{LEDs: n, Driver: strip.NewBuffer(n), Seed: 1})
	require.NoError(t, err)
	return e
}

func lit(e *segs.Engine) []int {
	out := []int{}
	for i := 0; i < e.LEDs(); i++ {
		if e.Pixel(i) != rgb.Off {
			out = append(out, i)
		}
	}
	return out
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("chase")
	assert.NoError(t, err)
	assert.Equal(t, Chase, k)
	_, err = ParseKind("plane_z")
	assert.Error(t, err)
}

func TestIndexSweep(t *testing.T) {
	e := newEngine(t, 4)
	r := NewRunner(Plan{Kind: IndexSweep})
	require.NoError(t, r.Install(e))
	assert.Equal(t, IndexSweep, r.Kind())

	for i := 0; i < 4; i++ {
		require.NoError(t, e.Show())
		assert.Equal(t, []int{i}, lit(e))
		assert.Equal(t, rgb.White, e.Pixel(i))
	}
	assert.False(t, r.Done())
	require.NoError(t, e.Show())
	assert.True(t, r.Done())
	assert.Empty(t, lit(e))
}

func TestRGBChannels(t *testing.T) {
	e := newEngine(t, 3)
	r := NewRunner(Plan{Kind: RGBTest})
	require.NoError(t, r.Install(e))
	for _, want := range []rgb.Color{rgb.Red, rgb.Green, rgb.Blue} {
		require.NoError(t, e.Show())
		for i := 0; i < 3; i++ {
			assert.Equal(t, want, e.Pixel(i))
		}
	}
	require.NoError(t, e.Show())
	assert.True(t, r.Done())
	assert.Equal(t, 3, r.Step())
}

func TestChaseRotates(t *testing.T) {
	e := newEngine(t, 12)
	r := NewRunner(Plan{Kind: Chase, Every: 4, Frames: 5})
	require.NoError(t, r.Install(e))

	require.NoError(t, e.Show())
	assert.Equal(t, []int{0, 4, 8}, lit(e))
	require.NoError(t, e.Show())
	assert.Equal(t, []int{1, 5, 9}, lit(e))
	require.NoError(t, e.Show())
	require.NoError(t, e.Show())
	assert.Equal(t, []int{3, 7, 11}, lit(e))
	require.NoError(t, e.Show())
	assert.Equal(t, []int{0, 4, 8}, lit(e), "wraps around the strip width")

	require.NoError(t, e.Show())
	assert.True(t, r.Done())
	assert.Empty(t, lit(e))
}

func TestInstallReplacesSegments(t *testing.T) {
	e := newEngine(t, 6)
	e.DefineSegment(0, 6, segs.All, rgb.Gold, 0)
	require.NoError(t, NewRunner(Plan{Kind: IndexSweep}).Install(e))
	assert.Equal(t, 1, e.Defined())

	assert.Error(t, NewRunner(Plan{Kind: "plane_z"}).Install(e))
}
