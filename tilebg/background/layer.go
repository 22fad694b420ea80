package background

import (
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"

	"github.com/valerio/go-tilebg/tilebg/addr"
	"github.com/valerio/go-tilebg/tilebg/memory"
)

// TransparentTile is the tile id written by ClearMap. It is the first id after the tiles
// reserved for the text overlay, so no visible tile set uses it.
const TransparentTile uint16 = 192

// scrollMask keeps scroll register writes within their 9 significant bits.
const scrollMask = 0x1FF

var (
	// ErrNoMap is returned by map dependent operations on a layer without a map.
	ErrNoMap = errors.New("no tile map installed")
	// ErrInvalidBlock is returned for char or screen block indices out of range.
	ErrInvalidBlock = errors.New("invalid block index")
	// ErrTooLarge is returned when data or a map would not fit in background video memory.
	ErrTooLarge = errors.New("buffer does not fit its video memory region")
)

// Config fixes the hardware resources of a layer for its whole lifetime.
type Config struct {
	Index       int  // 0-3, also the priority (0 is drawn on top)
	CharBlock   int  // 0-3, 16 KiB block holding tile pixel data
	ScreenBlock int  // 0-31, 2 KiB block holding the first block of the map
	Size        Size // map layout
	Colors16    bool // use 16-color tiles instead of 256-color ones
	Wrap        bool
	Mosaic      bool
}

// Layer is one tiled background. It owns the placement of its data and map in video
// memory and the content of its control and scroll registers.
//
// Block ranges of simultaneously active layers must not overlap; this is not checked.
type Layer struct {
	mem  memory.VideoMemory
	regs memory.Registers

	index       int
	charBlock   int
	screenBlock int
	size        Size
	colors      ColorMode
	wrap        bool
	mosaic      bool

	data    []byte
	tileMap []uint16

	scrollX, scrollY       int
	scrollXReg, scrollYReg uint32
}

// New creates a layer bound to the given memory and register table.
func New(mem memory.VideoMemory, regs memory.Registers, cfg Config) (*Layer, error) {
	if _, err := regs.Control(cfg.Index); err != nil {
		return nil, err
	}
	sx, sy, err := regs.Scroll(cfg.Index)
	if err != nil {
		return nil, err
	}
	if cfg.CharBlock < 0 || cfg.CharBlock >= addr.CharBlockCount {
		return nil, fmt.Errorf("%w: char block %d", ErrInvalidBlock, cfg.CharBlock)
	}
	if cfg.ScreenBlock < 0 || cfg.ScreenBlock >= addr.ScreenBlockCount {
		return nil, fmt.Errorf("%w: screen block %d", ErrInvalidBlock, cfg.ScreenBlock)
	}
	if !cfg.Size.Valid() {
		return nil, fmt.Errorf("%w: layout %d", ErrInvalidGeometry, uint8(cfg.Size))
	}
	if cfg.ScreenBlock*int(addr.ScreenBlockStride)+cfg.Size.Entries()*2 > int(addr.BGVRAMSize) {
		return nil, fmt.Errorf("%w: %s map at screen block %d", ErrTooLarge, cfg.Size, cfg.ScreenBlock)
	}

	colors := Colors256
	if cfg.Colors16 {
		colors = Colors16
	}

	return &Layer{
		mem:         mem,
		regs:        regs,
		index:       cfg.Index,
		charBlock:   cfg.CharBlock,
		screenBlock: cfg.ScreenBlock,
		size:        cfg.Size,
		colors:      colors,
		wrap:        cfg.Wrap,
		mosaic:      cfg.Mosaic,
		scrollXReg:  sx,
		scrollYReg:  sy,
	}, nil
}

func (l *Layer) Index() int       { return l.index }
func (l *Layer) Size() Size       { return l.size }
func (l *Layer) CharBlock() int   { return l.charBlock }
func (l *Layer) ScreenBlock() int { return l.screenBlock }
func (l *Layer) HasMap() bool     { return l.tileMap != nil }
func (l *Layer) MapLen() int      { return len(l.tileMap) }
func (l *Layer) DataLen() int     { return len(l.data) }

// MapBase returns the address of the first map entry in video memory.
func (l *Layer) MapBase() uint32 {
	return addr.ScreenBlock(l.screenBlock)
}

// DataBase returns the address of the tile pixel data in video memory.
func (l *Layer) DataBase() uint32 {
	return addr.CharBlock(l.charBlock)
}

// SetData replaces the tile pixel data. It is pushed by the next Persist.
func (l *Layer) SetData(data []byte) error {
	limit := int(addr.BGVRAMSize) - l.charBlock*int(addr.CharBlockStride)
	if len(data) > limit {
		return fmt.Errorf("%w: %d bytes of tile data at char block %d", ErrTooLarge, len(data), l.charBlock)
	}
	l.data = data
	return nil
}

// UpdateMap installs a new map and pushes it to the screen block straight away.
func (l *Layer) UpdateMap(entries []uint16) error {
	if len(entries) > l.size.Entries() {
		return fmt.Errorf("%w: %d entries for a %s map", ErrTooLarge, len(entries), l.size)
	}
	l.tileMap = entries
	l.pushMap()
	return nil
}

func (l *Layer) pushMap() {
	buf := make([]byte, 0, len(l.tileMap)*2)
	for _, e := range l.tileMap {
		buf = binary.LittleEndian.AppendUint16(buf, e)
	}
	l.mem.Copy(l.MapBase(), buf)
}

// Persist pushes tile data and, when installed, the map, then writes the control
// register. This is what makes a configured layer visible.
func (l *Layer) Persist() error {
	l.mem.Copy(l.DataBase(), l.data)
	if l.HasMap() {
		l.pushMap()
	}

	if err := l.WriteRegister(); err != nil {
		return fmt.Errorf("persist layer %d: %w", l.index, err)
	}

	slog.Debug("Layer persisted",
		"layer", l.index,
		"data_bytes", len(l.data),
		"map_entries", len(l.tileMap),
		"size", l.size.String())
	return nil
}

// ClearMap overwrites every entry of the installed map in video memory with
// TransparentTile. The local map buffer is left untouched.
func (l *Layer) ClearMap() error {
	if !l.HasMap() {
		return fmt.Errorf("clear map of layer %d: %w", l.index, ErrNoMap)
	}

	base := l.MapBase()
	for i := range l.tileMap {
		l.mem.Store16(base+uint32(i)*2, TransparentTile)
	}

	slog.Debug("Layer map cleared", "layer", l.index, "entries", len(l.tileMap))
	return nil
}

// ClearData clears the map, when one is installed, and zero fills the tile data region.
func (l *Layer) ClearData() error {
	if l.HasMap() {
		if err := l.ClearMap(); err != nil {
			return err
		}
	}
	l.mem.Copy(l.DataBase(), make([]byte, len(l.data)))

	slog.Debug("Layer data cleared", "layer", l.index, "data_bytes", len(l.data))
	return nil
}

// Control returns the register fields for the current configuration.
func (l *Layer) Control() Control {
	return Control{
		Priority:    l.index,
		CharBlock:   l.charBlock,
		Mosaic:      l.mosaic,
		Colors:      l.colors,
		ScreenBlock: l.screenBlock,
		Wrap:        l.wrap,
		Size:        l.size,
	}
}

// BuildRegister returns the control register address and value for this layer.
func (l *Layer) BuildRegister() (uint32, uint16, error) {
	reg, err := l.regs.Control(l.index)
	if err != nil {
		return 0, 0, err
	}
	return reg, l.Control().Encode(), nil
}

// WriteRegister builds the control register and writes it through the device path.
// Nothing is written when the register cannot be built.
func (l *Layer) WriteRegister() error {
	reg, value, err := l.BuildRegister()
	if err != nil {
		return err
	}
	l.mem.Store16(reg, value)

	slog.Debug("Control register written",
		"layer", l.index,
		"addr", fmt.Sprintf("0x%08X", reg),
		"value", fmt.Sprintf("0x%04X", value))
	return nil
}

// Scroll sets the absolute scroll offset in pixels.
func (l *Layer) Scroll(x, y int) {
	l.scrollX, l.scrollY = x, y
	l.writeScroll()
}

// ScrollSpeed moves the scroll offset by a delta in pixels.
func (l *Layer) ScrollSpeed(dx, dy int) {
	l.scrollX += dx
	l.scrollY += dy
	l.writeScroll()
}

// ScrollOffset returns the current scroll offset in pixels.
func (l *Layer) ScrollOffset() (x, y int) {
	return l.scrollX, l.scrollY
}

func (l *Layer) writeScroll() {
	l.mem.Store16(l.scrollXReg, uint16(l.scrollX)&scrollMask)
	l.mem.Store16(l.scrollYReg, uint16(l.scrollY)&scrollMask)
}

// EntryAt reads the live map entry covering pixel (x, y) for an explicit scroll offset.
func (l *Layer) EntryAt(x, y, backX, backY int) (uint16, error) {
	if !l.HasMap() {
		return 0, fmt.Errorf("read map of layer %d: %w", l.index, ErrNoMap)
	}
	i, err := l.size.TileIndex(x, y, backX, backY)
	if err != nil {
		return 0, err
	}
	return l.mem.Load16(l.MapBase() + uint32(i)*2), nil
}

// Entry reads the live map entry covering pixel (x, y) at the current scroll offset.
func (l *Layer) Entry(x, y int) (uint16, error) {
	return l.EntryAt(x, y, l.scrollX, l.scrollY)
}
