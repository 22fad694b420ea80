package memory

import (
	"errors"
	"fmt"

	"github.com/valerio/go-tilebg/tilebg/addr"
)

// ErrInvalidLayer is returned when a layer index has no register assigned.
var ErrInvalidLayer = errors.New("invalid layer index")

// LayerCount is the number of tiled background layers the hardware provides.
const LayerCount = 4

// VideoMemory is the capability background layers use to reach the display hardware.
//
// Copy is the bulk path for owned buffers (tile pixel data, whole maps), equivalent to
// a DMA block copy: it completes before returning and has no partial failure mode.
//
// Load16 and Store16 are the device path. Every call must reach memory in program order
// and must never be merged or elided, since the display controller reads the same
// memory while it scans out and DMA may write to it. Implementations for real hardware
// use volatile accesses here.
type VideoMemory interface {
	Copy(dst uint32, src []byte)
	Load16(address uint32) uint16
	Store16(address uint32, value uint16)
}

// Registers maps a layer index to its control and scroll register addresses.
// It is resolved once at startup and shared by every layer.
type Registers struct {
	control [LayerCount]uint32
	scrollX [LayerCount]uint32
	scrollY [LayerCount]uint32
}

// DefaultRegisters returns the register table for an I/O page starting at base.
func DefaultRegisters(base uint32) Registers {
	return Registers{
		control: [LayerCount]uint32{
			base + addr.BG0CNT,
			base + addr.BG1CNT,
			base + addr.BG2CNT,
			base + addr.BG3CNT,
		},
		scrollX: [LayerCount]uint32{
			base + addr.BG0HOFS,
			base + addr.BG1HOFS,
			base + addr.BG2HOFS,
			base + addr.BG3HOFS,
		},
		scrollY: [LayerCount]uint32{
			base + addr.BG0VOFS,
			base + addr.BG1VOFS,
			base + addr.BG2VOFS,
			base + addr.BG3VOFS,
		},
	}
}

// NewRegisters builds a table from explicit addresses, mainly for tests that want to
// place registers somewhere unusual.
func NewRegisters(control, scrollX, scrollY [LayerCount]uint32) Registers {
	return Registers{control: control, scrollX: scrollX, scrollY: scrollY}
}

// Control returns the control register address for a layer.
func (r Registers) Control(index int) (uint32, error) {
	if index < 0 || index >= LayerCount {
		return 0, fmt.Errorf("%w: %d", ErrInvalidLayer, index)
	}
	return r.control[index], nil
}

// Scroll returns the horizontal and vertical scroll register addresses for a layer.
func (r Registers) Scroll(index int) (x, y uint32, err error) {
	if index < 0 || index >= LayerCount {
		return 0, 0, fmt.Errorf("%w: %d", ErrInvalidLayer, index)
	}
	return r.scrollX[index], r.scrollY[index], nil
}
