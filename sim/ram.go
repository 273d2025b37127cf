package sim

import (
	"encoding/binary"
	"fmt"
)

// RAM is a byte-addressed memory region. It implements crash.Memory.
type RAM struct {
	base uint32
	data []byte
}

// NewRAM creates size zeroed bytes at base.
func NewRAM(base, size uint32) *RAM {
	return &RAM{base: base, data: make([]byte, size)}
}

// Base returns the address of the first byte.
func (r *RAM) Base() uint32 {
	return r.base
}

// Bytes returns the backing store.
func (r *RAM) Bytes() []byte {
	return r.data
}

// End returns the first address past the region.
func (r *RAM) End() uint32 {
	return r.base + uint32(len(r.data))
}

// PutWord stores a little-endian word at addr.
func (r *RAM) PutWord(addr, v uint32) error {
	if addr < r.base || uint64(addr)+4 > uint64(r.End()) {
		return fmt.Errorf("address 0x%08x outside RAM 0x%08x-0x%08x", addr, r.base, r.End())
	}
	binary.LittleEndian.PutUint32(r.data[addr-r.base:], v)
	return nil
}

// Word loads a little-endian word at addr.
func (r *RAM) Word(addr uint32) (uint32, error) {
	if addr < r.base || uint64(addr)+4 > uint64(r.End()) {
		return 0, fmt.Errorf("address 0x%08x outside RAM 0x%08x-0x%08x", addr, r.base, r.End())
	}
	return binary.LittleEndian.Uint32(r.data[addr-r.base:]), nil
}

// PushFrame writes a size-byte call frame at sp whose first row holds the
// return address, the caller's SP, the frame size and a zero word. It
// returns the caller's SP.
func (r *RAM) PushFrame(sp, ret, size uint32) (uint32, error) {
	caller := sp + size
	for i, w := range []uint32{ret, caller, size, 0} {
		if err := r.PutWord(sp+uint32(i*4), w); err != nil {
			return 0, err
		}
	}
	return caller, nil
}
