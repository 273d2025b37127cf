package crash

import (
	"fmt"
	"math"

	"github.com/moffa90/go-crashtrace/region"
)

// Outcome is what the writer did with a fault.
type Outcome int

const (
	// Written means a snapshot was persisted.
	Written Outcome = iota

	// SnapshotPresent means an earlier snapshot was kept; the new fault
	// was dropped.
	SnapshotPresent

	// RegionOccupied means the region holds foreign data and was left alone.
	RegionOccupied

	// InsufficientSpace means the region would cross the reserved boundary.
	InsufficientSpace
)

func (o Outcome) String() string {
	switch o {
	case Written:
		return "written"
	case SnapshotPresent:
		return "snapshot_present"
	case RegionOccupied:
		return "region_occupied"
	case InsufficientSpace:
		return "insufficient_space"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Writer persists a RAM snapshot when the platform reports a fatal fault.
//
// HandleFault runs in fault context: it never allocates, never logs and
// ignores storage failures. A Writer is not safe for concurrent use; the
// platform calls it at most once per trap.
type Writer struct {
	storage Storage
	bounds  Bounds
	memory  Memory
	geo     Geometry
	config  Config

	// preallocated so HandleFault does not allocate
	sentinel [region.SentinelSize]byte
	meta     [region.MetadataSize]byte
}

// NewWriter creates a Writer. mem must expose at least geo.RAMSize bytes
// starting at geo.RAMBase.
//
// Example:
//
//	w, err := crash.NewWriter(dev, crash.StaticBounds{Firmware: fwSize, Reserved: fsStart}, ram, geo)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	platform.OnFault(w.HandleFault)
func NewWriter(st Storage, b Bounds, mem Memory, geo Geometry, opts ...Option) (*Writer, error) {
	if st == nil {
		panic("storage cannot be nil")
	}
	if b == nil {
		panic("bounds cannot be nil")
	}
	if mem == nil {
		panic("memory cannot be nil")
	}

	if err := geo.Validate(); err != nil {
		return nil, err
	}
	if mem.Base() != geo.RAMBase {
		return nil, &GeometryError{Field: "RAM base", Value: mem.Base(), Reason: fmt.Sprintf("does not match configured 0x%X", geo.RAMBase)}
	}
	if n := len(mem.Bytes()); uint64(n) < uint64(geo.RAMSize) {
		return nil, &GeometryError{Field: "RAM size", Value: geo.RAMSize, Reason: fmt.Sprintf("exceeds memory of %d bytes", n)}
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Writer{
		storage: st,
		bounds:  b,
		memory:  mem,
		geo:     geo,
		config:  cfg,
	}, nil
}

// HandleFault persists info, the stack bounds and the whole RAM region:
//  1. Locate the region after the firmware image; a base past the
//     address space is InsufficientSpace
//  2. Leave the region alone unless its sentinel reads erased
//  3. Leave the region alone unless it fits below the reserved area
//  4. Erase the metadata block and every data block
//  5. Write the metadata block
//  6. Write RAM verbatim after it
func (w *Writer) HandleFault(info region.FaultInfo, stackLo, stackHi uint32) Outcome {
	start, _ := w.geo.span(w.bounds)
	if start > math.MaxUint32 {
		return w.done(InsufficientSpace)
	}
	base := uint32(start)

	w.storage.Read(base, w.sentinel[:])
	sentinel, _ := region.DecodeSentinel(w.sentinel[:])
	switch region.Classify(sentinel) {
	case region.StateValid:
		return w.done(SnapshotPresent)
	case region.StateForeign:
		return w.done(RegionOccupied)
	}

	if !w.geo.fits(w.bounds) {
		return w.done(InsufficientSpace)
	}

	first := base / w.geo.BlockSize
	for i := uint32(0); i < w.geo.Blocks(); i++ {
		w.storage.EraseBlock(first + i)
	}

	w.meta = region.NewMetadata(info, stackLo, stackHi).Encode()
	w.storage.Write(base, w.meta[:])
	w.storage.Write(base+w.geo.BlockSize, w.memory.Bytes()[:w.geo.RAMSize])

	return w.done(Written)
}

func (w *Writer) done(o Outcome) Outcome {
	if w.config.Observer != nil {
		w.config.Observer.FaultHandled(o)
	}
	return o
}
