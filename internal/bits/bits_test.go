package bits

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRead(t *testing.T) {
	buf := []byte{0x05, 0x80}
	assert.True(t, Read(0, buf))
	assert.False(t, Read(1, buf))
	assert.True(t, Read(2, buf))
	assert.True(t, Read(15, buf))
	assert.False(t, Read(16, buf), "past the end reads as zero")
	assert.False(t, Read(-1, buf))
}

var rotateCases = []struct {
	name   string
	width  int
	in     []byte
	n      int
	expect []byte
}{
	{"left one byte", 8, []byte{0x81}, 1, []byte{0x03}},
	{"right one byte", 8, []byte{0x81}, -1, []byte{0xC0}},
	{"left across bytes", 16, []byte{0x80, 0x80}, 1, []byte{0x01, 0x01}},
	{"right across bytes", 16, []byte{0x01, 0x01}, -1, []byte{0x80, 0x80}},
	{"left partial width", 12, []byte{0x00, 0x08}, 1, []byte{0x01, 0x00}},
	{"right partial width", 12, []byte{0x01, 0x00}, -1, []byte{0x00, 0x08}},
	{"partial keeps high bits", 4, []byte{0xF8}, 1, []byte{0xF1}},
	{"multiple steps", 8, []byte{0x01}, 3, []byte{0x08}},
}

func TestRotate(t *testing.T) {
	for _, c := range rotateCases {
		t.Run(c.name, func(t *testing.T) {
			buf := append([]byte{}, c.in...)
			Rotate(c.width, buf, c.n)
			assert.Equal(t, c.expect, buf)
		})
	}
}

func TestRotateFullCycleIsIdentity(t *testing.T) {
	buf := []byte{0xA5, 0x3C, 0x05}
	orig := append([]byte{}, buf...)
	Rotate(20, buf, 20)
	assert.Equal(t, orig, buf)
	Rotate(20, buf, -7)
	Rotate(20, buf, 7)
	assert.Equal(t, orig, buf)
}

func TestPack(t *testing.T) {
	words := Pack([]byte{0x01, 0x02, 0x03, 0x04, 0xFF}, nil)
	assert.Equal(t, []uint32{0x04030201, 0xFF}, words)
}
