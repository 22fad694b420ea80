package background

import (
	"fmt"

	"github.com/valerio/go-tilebg/tilebg/bit"
)

// ColorMode controls tile color depth.
type ColorMode uint8

const (
	Colors16  ColorMode = 0 // 4bpp, 16 palettes of 16 colors
	Colors256 ColorMode = 1 // 8bpp, one palette of 256 colors
)

func (c ColorMode) String() string {
	if c == Colors16 {
		return "16 colors"
	}
	return "256 colors"
}

// BGxCNT bit layout.
// Reference: https://problemkaputt.de/gbatek.htm#lcdiobgcontrol
const (
	priorityShift    = 0
	priorityWidth    = 2
	charBlockShift   = 2
	charBlockWidth   = 2
	mosaicBit        = 6
	colorModeBit     = 7
	screenBlockShift = 8
	screenBlockWidth = 5
	wrapBit          = 13
	sizeShift        = 14
	sizeWidth        = 2
)

// Control is the decoded content of a background control register.
type Control struct {
	Priority    int
	CharBlock   int
	Mosaic      bool
	Colors      ColorMode
	ScreenBlock int
	Wrap        bool
	Size        Size
}

// Encode packs the fields into the 16-bit register value.
//
//	Bit:  15 14 | 13  | 12 ... 8     | 7      | 6      | 5 4 | 3 2        | 1 0
//	      size  | wrap| screen block | colors | mosaic | -   | char block | priority
func (c Control) Encode() uint16 {
	var colors bool
	if c.Colors == Colors256 {
		colors = true
	}

	return bit.Pack16(uint16(c.Priority), priorityShift, priorityWidth) |
		bit.Pack16(uint16(c.CharBlock), charBlockShift, charBlockWidth) |
		bit.Flag16(mosaicBit, c.Mosaic) |
		bit.Flag16(colorModeBit, colors) |
		bit.Pack16(uint16(c.ScreenBlock), screenBlockShift, screenBlockWidth) |
		bit.Flag16(wrapBit, c.Wrap) |
		bit.Pack16(uint16(c.Size), sizeShift, sizeWidth)
}

// DecodeControl unpacks a register value.
func DecodeControl(value uint16) Control {
	colors := Colors16
	if bit.IsSet16(colorModeBit, value) {
		colors = Colors256
	}

	return Control{
		Priority:    int(bit.Field16(value, priorityShift, priorityWidth)),
		CharBlock:   int(bit.Field16(value, charBlockShift, charBlockWidth)),
		Mosaic:      bit.IsSet16(mosaicBit, value),
		Colors:      colors,
		ScreenBlock: int(bit.Field16(value, screenBlockShift, screenBlockWidth)),
		Wrap:        bit.IsSet16(wrapBit, value),
		Size:        Size(bit.Field16(value, sizeShift, sizeWidth)),
	}
}

func (c Control) String() string {
	return fmt.Sprintf("priority=%d char_block=%d mosaic=%t colors=%q screen_block=%d wrap=%t size=%s",
		c.Priority, c.CharBlock, c.Mosaic, c.Colors, c.ScreenBlock, c.Wrap, c.Size)
}
