//go:build tinygo && gba

package memory

import (
	"runtime/volatile"
	"unsafe"
)

// Hardware accesses the real memory map. Only available when built with TinyGo for GBA.
type Hardware struct{}

var _ VideoMemory = Hardware{}

// mem16 returns a pointer to a volatile 16-bit register at the given address.
func mem16(address uint32) *volatile.Register16 {
	return (*volatile.Register16)(unsafe.Pointer(uintptr(address)))
}

// Copy writes src as halfwords. VRAM ignores byte-wide stores, so an odd trailing
// byte is padded with zero.
func (Hardware) Copy(dst uint32, src []byte) {
	for i := 0; i < len(src); i += 2 {
		lo := uint16(src[i])
		var hi uint16
		if i+1 < len(src) {
			hi = uint16(src[i+1])
		}
		mem16(dst + uint32(i)).Set(lo | hi<<8)
	}
}

// Load16 reads a halfword through a volatile load.
func (Hardware) Load16(address uint32) uint16 {
	return mem16(address).Get()
}

// Store16 writes a halfword through a volatile store.
func (Hardware) Store16(address uint32, value uint16) {
	mem16(address).Set(value)
}
