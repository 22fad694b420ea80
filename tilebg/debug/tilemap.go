package debug

import (
	"fmt"
	"io"
	"strings"

	"github.com/valerio/go-tilebg/tilebg/background"
	"github.com/valerio/go-tilebg/tilebg/bit"
	"github.com/valerio/go-tilebg/tilebg/collision"
	"github.com/valerio/go-tilebg/tilebg/memory"
)

// MapData is a snapshot of a layer's live map and control register, in map cell order.
type MapData struct {
	Layer         int
	Size          background.Size
	RegisterAddr  uint32
	RegisterValue uint16
	Control       background.Control
	ScrollX       int
	ScrollY       int
	Cells         [][]uint16 // [row][column], full entries including attribute bits
}

// ExtractMap reads the layer's map back from video memory through the device path, so
// the snapshot shows what the display controller sees rather than the local buffer.
func ExtractMap(mem memory.VideoMemory, layer *background.Layer) (*MapData, error) {
	reg, _, err := layer.BuildRegister()
	if err != nil {
		return nil, err
	}
	value := mem.Load16(reg)
	scrollX, scrollY := layer.ScrollOffset()

	size := layer.Size()
	data := &MapData{
		Layer:         layer.Index(),
		Size:          size,
		RegisterAddr:  reg,
		RegisterValue: value,
		Control:       background.DecodeControl(value),
		ScrollX:       scrollX,
		ScrollY:       scrollY,
		Cells:         make([][]uint16, size.Height()),
	}

	for ty := 0; ty < size.Height(); ty++ {
		data.Cells[ty] = make([]uint16, size.Width())
		for tx := 0; tx < size.Width(); tx++ {
			e, err := layer.EntryAt(tx*background.TileSize, ty*background.TileSize, 0, 0)
			if err != nil {
				return nil, err
			}
			data.Cells[ty][tx] = e
		}
	}
	return data, nil
}

// Histogram counts cells per tile id, attribute bits ignored.
func (m *MapData) Histogram() map[uint8]int {
	counts := make(map[uint8]int)
	for _, row := range m.Cells {
		for _, e := range row {
			counts[bit.Low(e)]++
		}
	}
	return counts
}

func (m *MapData) FormatSummary() string {
	return fmt.Sprintf("BG%d Control: 0x%08X = 0x%04X | %s | Scroll: (%d, %d) | Distinct tiles: %d",
		m.Layer, m.RegisterAddr, m.RegisterValue, m.Control, m.ScrollX, m.ScrollY, len(m.Histogram()))
}

// Glyph returns the character used to draw a tile id in text dumps.
func Glyph(id uint8, table collision.Table) rune {
	switch {
	case uint16(id) == background.TransparentTile:
		return ' '
	case table.IsCollidable(id):
		return '#'
	case id == 0:
		return '.'
	}
	const digits = "0123456789abcdefghijklmnopqrstuvwxyz"
	return rune(digits[int(id)%len(digits)])
}

// Render writes the map as text, one character per cell.
func (m *MapData) Render(w io.Writer, table collision.Table) error {
	var sb strings.Builder
	for _, row := range m.Cells {
		sb.Reset()
		for _, e := range row {
			sb.WriteRune(Glyph(bit.Low(e), table))
		}
		sb.WriteByte('\n')
		if _, err := io.WriteString(w, sb.String()); err != nil {
			return err
		}
	}
	return nil
}
