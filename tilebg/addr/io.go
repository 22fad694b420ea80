package addr

// video memory layout
const (
	// VRAMBase is the first byte of video memory.
	VRAMBase uint32 = 0x06000000
	// VRAMSize covers the 96 KiB of background and object video memory.
	VRAMSize uint32 = 0x18000
	// BGVRAMSize is the part of video memory backgrounds may address (char blocks 0-3).
	BGVRAMSize uint32 = 0x10000
	// ScreenBlockStride is the size of one screen block (tile map, 32x32 entries).
	ScreenBlockStride uint32 = 0x800
	// CharBlockStride is the size of one char block (tile pixel data).
	CharBlockStride uint32 = 0x4000

	// ScreenBlockCount is the number of addressable screen blocks.
	ScreenBlockCount = 32
	// CharBlockCount is the number of char blocks usable by backgrounds.
	CharBlockCount = 4
)

// background registers
// Reference: https://problemkaputt.de/gbatek.htm#lcdiobgcontrol
const (
	// IOBase is the start of the memory mapped I/O registers.
	IOBase uint32 = 0x04000000
	// IOSize is the size of the simulated register page.
	IOSize uint32 = 0x400

	// BG0CNT is the offset of the first background control register.
	// BG1CNT..BG3CNT follow at 2 byte intervals.
	BG0CNT uint32 = 0x0008
	BG1CNT uint32 = 0x000A
	BG2CNT uint32 = 0x000C
	BG3CNT uint32 = 0x000E

	// BG0HOFS is the offset of the first horizontal scroll register.
	// Each layer has a HOFS/VOFS pair, 4 bytes per layer.
	BG0HOFS uint32 = 0x0010
	BG0VOFS uint32 = 0x0012
	BG1HOFS uint32 = 0x0014
	BG1VOFS uint32 = 0x0016
	BG2HOFS uint32 = 0x0018
	BG2VOFS uint32 = 0x001A
	BG3HOFS uint32 = 0x001C
	BG3VOFS uint32 = 0x001E
)

// ScreenBlock returns the base address of screen block n.
func ScreenBlock(n int) uint32 {
	return VRAMBase + uint32(n)*ScreenBlockStride
}

// CharBlock returns the base address of char block n.
func CharBlock(n int) uint32 {
	return VRAMBase + uint32(n)*CharBlockStride
}
