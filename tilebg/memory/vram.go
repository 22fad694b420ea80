package memory

import (
	"fmt"

	"github.com/valerio/go-tilebg/tilebg/addr"
	"github.com/valerio/go-tilebg/tilebg/bit"
)

type memRegion uint8

const (
	regionUnmapped memRegion = iota
	regionVRAM
	regionIO
)

// Stats counts accesses made through each path of a simulated VRAM.
type Stats struct {
	Copies       int
	CopiedBytes  int
	DeviceLoads  int
	DeviceStores int
}

// VRAM simulates video memory and the background register page on the host.
// Halfwords are stored little endian, as on the real bus.
type VRAM struct {
	vram  []byte
	io    []byte
	stats Stats
}

var _ VideoMemory = (*VRAM)(nil)

// NewVRAM creates a zeroed simulated video memory.
func NewVRAM() *VRAM {
	return &VRAM{
		vram: make([]byte, addr.VRAMSize),
		io:   make([]byte, addr.IOSize),
	}
}

func regionOf(address uint32) memRegion {
	switch {
	case address >= addr.VRAMBase && address < addr.VRAMBase+addr.VRAMSize:
		return regionVRAM
	case address >= addr.IOBase && address < addr.IOBase+addr.IOSize:
		return regionIO
	default:
		return regionUnmapped
	}
}

// slice returns the backing bytes for [address, address+n).
// Accesses that are unmapped or run past the end of a region are programming errors.
func (v *VRAM) slice(address uint32, n int) []byte {
	var backing []byte
	var offset uint32

	switch regionOf(address) {
	case regionVRAM:
		backing, offset = v.vram, address-addr.VRAMBase
	case regionIO:
		backing, offset = v.io, address-addr.IOBase
	default:
		panic(fmt.Sprintf("Attempted access at unmapped address: 0x%08X", address))
	}

	end := int(offset) + n
	if end > len(backing) {
		panic(fmt.Sprintf("Access of %d bytes at 0x%08X runs past the end of its region", n, address))
	}
	return backing[offset:end]
}

// Copy implements the block copy collaborator.
func (v *VRAM) Copy(dst uint32, src []byte) {
	copy(v.slice(dst, len(src)), src)
	v.stats.Copies++
	v.stats.CopiedBytes += len(src)
}

// Load16 reads a halfword through the device path.
func (v *VRAM) Load16(address uint32) uint16 {
	b := v.slice(address, 2)
	v.stats.DeviceLoads++
	return bit.Combine(b[1], b[0])
}

// Store16 writes a halfword through the device path.
func (v *VRAM) Store16(address uint32, value uint16) {
	b := v.slice(address, 2)
	b[0] = bit.Low(value)
	b[1] = bit.High(value)
	v.stats.DeviceStores++
}

// Snapshot returns a copy of n bytes starting at address, without counting as an access.
func (v *VRAM) Snapshot(address uint32, n int) []byte {
	out := make([]byte, n)
	copy(out, v.slice(address, n))
	return out
}

// Stats returns the access counters collected so far.
func (v *VRAM) Stats() Stats {
	return v.stats
}

// ResetStats clears the access counters.
func (v *VRAM) ResetStats() {
	v.stats = Stats{}
}
