package coredump

import (
	"encoding/binary"
	"fmt"
)

// Core is a RAM snapshot mapped at its target address.
type Core struct {
	// Base is the target address of Data[0]
	Base uint32

	// Data is the raw snapshot
	Data []byte
}

// AddressError indicates an address outside the snapshot.
type AddressError struct {
	Addr uint32
	Base uint32
	End  uint32
}

func (e *AddressError) Error() string {
	return fmt.Sprintf("address 0x%08x is outside the snapshot: valid range is 0x%08x-0x%08x",
		e.Addr, e.Base, e.End)
}

// End returns the first address past the snapshot.
func (c *Core) End() uint32 {
	return c.Base + uint32(len(c.Data))
}

// Contains reports whether addr lies inside the snapshot.
func (c *Core) Contains(addr uint32) bool {
	return addr >= c.Base && addr < c.End()
}

// Word returns the little-endian word at addr.
func (c *Core) Word(addr uint32) (uint32, error) {
	b, err := c.Range(addr, addr+4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// Range returns the bytes in [lo, hi). The result aliases Data.
func (c *Core) Range(lo, hi uint32) ([]byte, error) {
	if hi < lo {
		return nil, fmt.Errorf("invalid range 0x%08x-0x%08x", lo, hi)
	}
	if lo < c.Base || hi > c.End() {
		bad := lo
		if lo >= c.Base {
			bad = hi
		}
		return nil, &AddressError{Addr: bad, Base: c.Base, End: c.End()}
	}
	return c.Data[lo-c.Base : hi-c.Base], nil
}
