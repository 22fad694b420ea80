package background

import (
	"errors"
	"fmt"
)

// ErrInvalidGeometry is returned for map dimensions other than 32 or 64 tiles.
var ErrInvalidGeometry = errors.New("invalid map geometry")

// Size is the map layout code stored in bits 14-15 of the control register.
type Size uint8

const (
	Size32x32 Size = 0 // 256x256 px, one screen block
	Size64x32 Size = 1 // two blocks side by side
	Size32x64 Size = 2 // two blocks stacked
	Size64x64 Size = 3 // four blocks, left to right then top to bottom
)

const (
	// TileSize is the width and height of a tile in pixels.
	TileSize = 8
	// BlockTiles is the width and height of one screen block in tiles.
	BlockTiles = 32
	// BlockEntries is the number of map entries held by one screen block.
	BlockEntries = BlockTiles * BlockTiles
)

// SizeFor returns the layout for a map of the given dimensions in tiles.
func SizeFor(width, height int) (Size, error) {
	switch {
	case width == 32 && height == 32:
		return Size32x32, nil
	case width == 64 && height == 32:
		return Size64x32, nil
	case width == 32 && height == 64:
		return Size32x64, nil
	case width == 64 && height == 64:
		return Size64x64, nil
	}
	return 0, fmt.Errorf("%w: %dx%d tiles", ErrInvalidGeometry, width, height)
}

// Valid reports whether s is one of the four hardware layouts.
func (s Size) Valid() bool {
	return s <= Size64x64
}

// Width returns the map width in tiles, or 0 for an invalid layout.
func (s Size) Width() int {
	switch s {
	case Size32x32, Size32x64:
		return 32
	case Size64x32, Size64x64:
		return 64
	}
	return 0
}

// Height returns the map height in tiles, or 0 for an invalid layout.
func (s Size) Height() int {
	switch s {
	case Size32x32, Size64x32:
		return 32
	case Size32x64, Size64x64:
		return 64
	}
	return 0
}

// Entries returns the number of map entries the layout spans.
func (s Size) Entries() int {
	return s.Width() * s.Height()
}

func (s Size) String() string {
	if !s.Valid() {
		return fmt.Sprintf("Size(%d)", uint8(s))
	}
	return fmt.Sprintf("%dx%d", s.Width(), s.Height())
}

// TileIndex maps a screen pixel to the linear map entry index that covers it.
//
// The scroll offset is added first, then the pixel is converted to tile units and wrapped
// onto the map, so motion past one edge reappears at the opposite one. Maps bigger than
// 32x32 are several screen blocks laid out back to back in memory:
//
//	64x32:  [0][1]      32x64:  [0]      64x64:  [0][1]
//	                            [1]              [2][3]
//
// Each block is 0x400 entries, so the tile coordinate is folded into its block and the
// block's offset is added to the result.
func (s Size) TileIndex(x, y, backX, backY int) (int, error) {
	if !s.Valid() {
		return 0, fmt.Errorf("%w: layout %d", ErrInvalidGeometry, uint8(s))
	}
	width, height := s.Width(), s.Height()

	x += backX
	y += backY

	// arithmetic shift, so negative pixels land on the tile to their left/above
	tx := wrap(x>>3, width)
	ty := wrap(y>>3, height)

	offset := 0
	if width == 64 && tx >= 32 {
		tx -= 32
		offset += BlockEntries
	}
	if height == 64 && ty >= 32 {
		ty -= 32
		if width == 64 {
			offset += 2 * BlockEntries
		} else {
			offset += BlockEntries
		}
	}

	return ty*BlockTiles + tx + offset, nil
}

// wrap returns v modulo n in [0, n) for any v, including negatives and values many
// spans away from the map.
func wrap(v, n int) int {
	v %= n
	if v < 0 {
		v += n
	}
	return v
}
