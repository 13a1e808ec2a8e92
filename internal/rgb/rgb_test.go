package rgb

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

var TestRGBIsExpectedColor = []struct {
	R, G, B uint8
	Expect  Color
}{
	{0x00, 0x00, 0x00, 0x000000},
	{0x7F, 0x00, 0x00, 0x007F00},
	{0x00, 0x7F, 0x00, 0x7F0000},
	{0x00, 0x00, 0x7F, 0x00007F},
	{0x22, 0x11, 0x33, 0x112233},
}

func TestPackLayout(t *testing.T) {
	for k, v := range TestRGBIsExpectedColor {
		t.Run("Given RGB"+strconv.Itoa(k), func(t *testing.T) {
			c := Pack(v.R, v.G, v.B)
			assert.Equal(t, v.Expect, c)
			r, g, b := Unpack(c)
			assert.Equal(t, []uint8{v.R, v.G, v.B}, []uint8{r, g, b})
			assert.Equal(t, v.R, c.R())
			assert.Equal(t, v.G, c.G())
			assert.Equal(t, v.B, c.B())
		})
	}
}

func TestLerp(t *testing.T) {
	fore := Pack(100, 50, 0)
	back := Pack(0, 10, 20)
	assert.Equal(t, back, Lerp(back, fore, 0, 10))
	assert.Equal(t, fore, Lerp(back, fore, 10, 10))
	assert.Equal(t, Pack(50, 30, 10), Lerp(back, fore, 5, 10))
	assert.Equal(t, fore, Lerp(back, fore, 3, 0))
}

func TestNRGBA(t *testing.T) {
	c := NRGBA(Pack(127, 0, 64), 1)
	assert.Equal(t, uint8(255), c.R)
	assert.Equal(t, uint8(0), c.G)
	assert.Equal(t, uint8(129), c.B)
	assert.Equal(t, uint8(255), c.A)

	half := NRGBA(White, 0.5)
	assert.Equal(t, uint8(127), half.R)
}

func TestNamed(t *testing.T) {
	c, ok := Named("Blue-Very Dim")
	assert.True(t, ok)
	assert.Equal(t, BlueVeryDim, c)
	_, ok = Named("chartreuse")
	assert.False(t, ok)
}
