package crash

import (
	"math"

	"github.com/moffa90/go-crashtrace/region"
)

// Storage is the raw flash interface. Calls carry no error: the writer has
// nothing to fall back to and the reporter only reads what was written.
type Storage interface {
	// Read copies len(p) bytes at addr into p
	Read(addr uint32, p []byte)

	// Write programs p at addr; the range must have been erased
	Write(addr uint32, p []byte)

	// EraseBlock erases the block with the given index
	EraseBlock(index uint32)
}

// Bounds locates the firmware image and the start of the reserved area
// (typically the filesystem) in storage.
type Bounds interface {
	FirmwareSize() uint32
	ReservedStart() uint32
}

// StaticBounds is a fixed Bounds.
type StaticBounds struct {
	Firmware uint32
	Reserved uint32
}

// FirmwareSize implements Bounds.
func (b StaticBounds) FirmwareSize() uint32 { return b.Firmware }

// ReservedStart implements Bounds.
func (b StaticBounds) ReservedStart() uint32 { return b.Reserved }

// Memory is the RAM region captured in a snapshot.
type Memory interface {
	Base() uint32
	Bytes() []byte
}

// Geometry describes storage blocks and the captured RAM region.
type Geometry struct {
	// BlockSize is the flash erase granularity; a power of two
	BlockSize uint32

	// RAMBase is the address of the first captured byte
	RAMBase uint32

	// RAMSize is the number of captured bytes
	RAMSize uint32
}

// Validate checks that the geometry is usable.
func (g Geometry) Validate() error {
	if g.BlockSize < region.MetadataSize || g.BlockSize&(g.BlockSize-1) != 0 {
		return &GeometryError{Field: "block size", Value: g.BlockSize, Reason: "must be a power of two holding the metadata block"}
	}
	if g.RAMSize == 0 {
		return &GeometryError{Field: "RAM size", Value: g.RAMSize, Reason: "must be non-zero"}
	}
	if g.RAMBase%region.WordSize != 0 {
		return &GeometryError{Field: "RAM base", Value: g.RAMBase, Reason: "must be word aligned"}
	}
	if uint64(g.RAMBase)+uint64(g.RAMSize) > 1<<32 {
		return &GeometryError{Field: "RAM size", Value: g.RAMSize, Reason: "overflows the address space"}
	}
	return nil
}

// DataBlocks returns the number of blocks holding the RAM image.
func (g Geometry) DataBlocks() uint32 {
	return (g.RAMSize + g.BlockSize - 1) / g.BlockSize
}

// Blocks returns the number of blocks in the region, metadata included.
func (g Geometry) Blocks() uint32 {
	return 1 + g.DataBlocks()
}

// RAMEnd returns the first address past the captured RAM.
func (g Geometry) RAMEnd() uint32 {
	return g.RAMBase + g.RAMSize
}

// RegionBase returns the first block boundary at or after the firmware image.
// It is only meaningful when Fit succeeds; a base past the 32-bit address
// space reads as 0.
func (g Geometry) RegionBase(b Bounds) uint32 {
	base, _ := g.span(b)
	if base > math.MaxUint32 {
		return 0
	}
	return uint32(base)
}

// Fit reports whether the whole region ends at or before the reserved start.
func (g Geometry) Fit(b Bounds) error {
	base, end := g.span(b)
	if end > uint64(b.ReservedStart()) {
		return &RegionError{Base: base, End: end, ReservedStart: b.ReservedStart()}
	}
	return nil
}

// span returns the region's first and past-the-end addresses, computed
// without wrapping.
func (g Geometry) span(b Bounds) (uint64, uint64) {
	base := alignUp(uint64(b.FirmwareSize()), uint64(g.BlockSize))
	return base, base + uint64(g.Blocks())*uint64(g.BlockSize)
}

// fits implies an addressable base: end is past base and bounded by a
// 32-bit reserved start.
func (g Geometry) fits(b Bounds) bool {
	_, end := g.span(b)
	return end <= uint64(b.ReservedStart())
}

func alignUp(v, align uint64) uint64 {
	return (v + align - 1) &^ (align - 1)
}
