// Package rgb packs strip colours. Channels run 0..127 and the packed
// layout is g<<16 | r<<8 | b; callers should not depend on the layout.
package rgb

import (
	"image/color"
	"strings"
)

const MaxChannel uint8 = 127

const (
	GreenOffset uint8 = 0x10
	RedOffset   uint8 = 0x08
	BlueOffset  uint8 = 0x0
)

type Color uint32

func Pack(r, g, b uint8) Color {
	return Color(uint32(g)<<GreenOffset | uint32(r)<<RedOffset | uint32(b)<<BlueOffset)
}

func getcolor(c Color, off uint8) uint8 {
	return uint8((uint32(c) >> off) & uint32(MaxChannel))
}

// Unpack returns the r, g, b channels of c.
func Unpack(c Color) (r, g, b uint8) {
	return getcolor(c, RedOffset), getcolor(c, GreenOffset), getcolor(c, BlueOffset)
}

func (c Color) R() uint8 { return getcolor(c, RedOffset) }
func (c Color) G() uint8 { return getcolor(c, GreenOffset) }
func (c Color) B() uint8 { return getcolor(c, BlueOffset) }

// Lerp moves each channel from back toward fore by num/den, truncating
// toward zero. den <= 0 returns fore.
func Lerp(back, fore Color, num, den int) Color {
	if den <= 0 {
		return fore
	}
	br, bg, bb := Unpack(back)
	fr, fg, fb := Unpack(fore)
	ch := func(b, f uint8) uint8 {
		return uint8(int(b) + (int(f)-int(b))*num/den)
	}
	return Pack(ch(br, fr), ch(bg, fg), ch(bb, fb))
}

// NRGBA expands c to 8-bit channels scaled by brightness (0..1).
func NRGBA(c Color, brightness float64) color.NRGBA {
	if brightness < 0 {
		brightness = 0
	} else if brightness > 1 {
		brightness = 1
	}
	r, g, b := Unpack(c)
	ex := func(v uint8) uint8 {
		full := uint16(v)<<1 | uint16(v)>>6
		return uint8(float64(full) * brightness)
	}
	return color.NRGBA{R: ex(r), G: ex(g), B: ex(b), A: 255}
}

var (
	Off   = Pack(0, 0, 0)
	Black = Off

	White  = Pack(127, 127, 127)
	Gold   = Pack(110, 15, 7)
	Silver = Pack(15, 30, 60)
	Yellow = Pack(90, 70, 0)
	Orange = Pack(80, 20, 0)
	Red    = Pack(127, 0, 0)
	Green  = Pack(0, 127, 0)
	Cyan   = Pack(0, 73, 43)
	Blue   = Pack(0, 0, 127)
	Purple = Pack(40, 0, 40)

	GoldWhite   = Pack(110, 70, 30)
	SilverWhite = Pack(20, 45, 90)
	YellowWhite = Pack(127, 100, 15)
	OrangeWhite = Pack(80, 35, 5)
	RedWhite    = Pack(100, 3, 5)
	GreenWhite  = Pack(20, 127, 20)
	CyanWhite   = Pack(20, 63, 63)
	BlueWhite   = Pack(10, 20, 127)
	PurpleWhite = Pack(40, 8, 40)

	WhiteDim  = Pack(12, 15, 15)
	GoldDim   = Pack(12, 3, 1)
	SilverDim = Pack(8, 15, 24)
	YellowDim = Pack(15, 12, 0)
	OrangeDim = Pack(15, 3, 0)
	RedDim    = Pack(20, 0, 0)
	GreenDim  = Pack(0, 6, 0)
	CyanDim   = Pack(0, 6, 6)
	BlueDim   = Pack(0, 0, 24)
	PurpleDim = Pack(10, 0, 10)

	WhiteVeryDim  = Pack(1, 2, 2)
	GoldVeryDim   = Pack(4, 2, 1)
	SilverVeryDim = Pack(1, 2, 4)
	YellowVeryDim = Pack(4, 3, 0)
	OrangeVeryDim = Pack(4, 1, 0)
	RedVeryDim    = Pack(1, 0, 0)
	GreenVeryDim  = Pack(0, 1, 0)
	CyanVeryDim   = Pack(0, 2, 2)
	BlueVeryDim   = Pack(0, 0, 1)
	PurpleVeryDim = Pack(1, 0, 1)
)

var named = map[string]Color{
	"off": Off, "black": Black,
	"white": White, "gold": Gold, "silver": Silver, "yellow": Yellow, "orange": Orange,
	"red": Red, "green": Green, "cyan": Cyan, "blue": Blue, "purple": Purple,
	"goldwhite": GoldWhite, "silverwhite": SilverWhite, "yellowwhite": YellowWhite,
	"orangewhite": OrangeWhite, "redwhite": RedWhite, "pink": RedWhite, "greenwhite": GreenWhite,
	"cyanwhite": CyanWhite, "bluewhite": BlueWhite, "purplewhite": PurpleWhite,
	"whitedim": WhiteDim, "golddim": GoldDim, "silverdim": SilverDim, "yellowdim": YellowDim,
	"orangedim": OrangeDim, "reddim": RedDim, "greendim": GreenDim, "cyandim": CyanDim,
	"bluedim": BlueDim, "purpledim": PurpleDim,
	"whiteverydim": WhiteVeryDim, "goldverydim": GoldVeryDim, "silververydim": SilverVeryDim,
	"yellowverydim": YellowVeryDim, "orangeverydim": OrangeVeryDim, "redverydim": RedVeryDim,
	"greenverydim": GreenVeryDim, "cyanverydim": CyanVeryDim, "blueverydim": BlueVeryDim,
	"purpleverydim": PurpleVeryDim,
}

// Named looks up a predefined colour, ignoring case, spaces, '-' and '_'.
func Named(name string) (Color, bool) {
	key := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '_':
			return -1
		}
		return r
	}, strings.ToLower(name))
	c, ok := named[key]
	return c, ok
}
