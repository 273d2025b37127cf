package crash

import (
	"bytes"
	"testing"

	"github.com/moffa90/go-crashtrace/flash"
	"github.com/moffa90/go-crashtrace/region"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWriter(t *testing.T, dev *flash.Memory, b Bounds, opts ...Option) (*Writer, *ramImage) {
	t.Helper()
	ram := newRAM()
	w, err := NewWriter(dev, b, ram, testGeo, opts...)
	require.NoError(t, err)
	return w, ram
}

func TestWriterPersistsSnapshot(t *testing.T) {
	dev := flash.NewMemory(testFlash, testBlock)
	w, ram := newTestWriter(t, dev, testBounds)

	out := w.HandleFault(testFault, 0x3FFFFF00, 0x40000000)
	require.Equal(t, Written, out)

	erases := dev.Erases()
	require.Len(t, erases, 25, "24 data blocks plus metadata")
	for i, idx := range erases {
		assert.Equal(t, uint32(testBase/testBlock+i), idx)
	}

	img := dev.Snapshot()
	meta, err := region.DecodeMetadata(img[testBase:])
	require.NoError(t, err)
	assert.Equal(t, region.NewMetadata(testFault, 0x3FFFFF00, 0x40000000), meta)
	assert.Equal(t, ram.data, img[testBase+testBlock:testBase+testBlock+testRAMSize])
	assert.Zero(t, dev.Dropped())
}

func TestWriterKeepsFirstSnapshot(t *testing.T) {
	dev := flash.NewMemory(testFlash, testBlock)
	w, ram := newTestWriter(t, dev, testBounds)

	require.Equal(t, Written, w.HandleFault(testFault, 0x3FFFFF00, 0x40000000))
	first := dev.Snapshot()
	dev.ResetCounters()

	ram.putWord(0x3FFFFF00, 0xDEADBEEF)
	second := testFault
	second.ExcCause = 9
	assert.Equal(t, SnapshotPresent, w.HandleFault(second, 0x3FFFFE00, 0x40000000))

	assert.True(t, bytes.Equal(first, dev.Snapshot()), "storage must be byte-identical")
	assert.Empty(t, dev.Erases())
	assert.Zero(t, dev.Writes())
}

func TestWriterInsufficientSpace(t *testing.T) {
	dev := flash.NewMemory(testFlash, testBlock)
	// One block short of the full footprint.
	tight := StaticBounds{Firmware: testFwSize, Reserved: testBase + 24*testBlock}
	w, _ := newTestWriter(t, dev, tight)
	before := dev.Snapshot()

	assert.Equal(t, InsufficientSpace, w.HandleFault(testFault, 0x3FFFFF00, 0x40000000))

	assert.Empty(t, dev.Erases())
	assert.Zero(t, dev.Writes())
	assert.Equal(t, before, dev.Snapshot())

	rep, err := NewReporter(dev, tight, testGeo, &liveReset{})
	require.NoError(t, err)
	assert.Equal(t, region.StateErased, rep.State())
}

func TestWriterBoundsPastAddressSpace(t *testing.T) {
	tests := []struct {
		name   string
		bounds StaticBounds
	}{
		// aligning up wraps a 32-bit base to 0
		{name: "base wraps", bounds: StaticBounds{Firmware: 0xFFFFF800, Reserved: 0xFFFFF000}},
		{name: "firmware past reserved", bounds: StaticBounds{Firmware: 0x300000, Reserved: 0x200000}},
		{name: "reserved at zero", bounds: StaticBounds{Firmware: testFwSize, Reserved: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev := flash.NewMemory(testFlash, testBlock)
			obs := &countingObserver{}
			w, _ := newTestWriter(t, dev, tt.bounds, WithObserver(obs))
			before := dev.Snapshot()

			assert.Equal(t, InsufficientSpace, w.HandleFault(testFault, 0x3FFFFF00, 0x40000000))

			assert.Empty(t, dev.Erases())
			assert.Zero(t, dev.Writes())
			assert.Equal(t, before, dev.Snapshot())
			assert.Equal(t, []Outcome{InsufficientSpace}, obs.outcomes)
		})
	}
}

func TestWriterExactFit(t *testing.T) {
	dev := flash.NewMemory(testFlash, testBlock)
	exact := StaticBounds{Firmware: testFwSize, Reserved: testBase + 25*testBlock}
	w, _ := newTestWriter(t, dev, exact)

	assert.Equal(t, Written, w.HandleFault(testFault, 0x3FFFFF00, 0x40000000))
}

func TestWriterLeavesForeignData(t *testing.T) {
	dev := flash.NewMemory(testFlash, testBlock)
	dev.Write(testBase, []byte{0x78, 0x56, 0x34, 0x12})
	dev.ResetCounters()
	before := dev.Snapshot()

	obs := &countingObserver{}
	w, _ := newTestWriter(t, dev, testBounds, WithObserver(obs))

	assert.Equal(t, RegionOccupied, w.HandleFault(testFault, 0x3FFFFF00, 0x40000000))
	assert.Equal(t, before, dev.Snapshot())
	assert.Empty(t, dev.Erases())
	assert.Equal(t, []Outcome{RegionOccupied}, obs.outcomes)
}

func TestWriterRegionAlignment(t *testing.T) {
	tests := []struct {
		name     string
		firmware uint32
		base     uint32
	}{
		{name: "unaligned image", firmware: 0x7F123, base: 0x80000},
		{name: "aligned image", firmware: 0x80000, base: 0x80000},
		{name: "one byte over", firmware: 0x80001, base: 0x81000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev := flash.NewMemory(testFlash, testBlock)
			w, _ := newTestWriter(t, dev, StaticBounds{Firmware: tt.firmware, Reserved: 0x200000})

			require.Equal(t, Written, w.HandleFault(testFault, 0, 0))
			assert.Equal(t, tt.base/testBlock, dev.Erases()[0])

			var sentinel [4]byte
			dev.Read(tt.base, sentinel[:])
			v, _ := region.DecodeSentinel(sentinel[:])
			assert.Equal(t, region.Magic, v)
		})
	}
}

func TestNewWriterValidation(t *testing.T) {
	dev := flash.NewMemory(testFlash, testBlock)

	tests := []struct {
		name  string
		geo   Geometry
		ram   *ramImage
		field string
	}{
		{
			name:  "block size not a power of two",
			geo:   Geometry{BlockSize: 0x1800, RAMBase: testRAMBase, RAMSize: testRAMSize},
			ram:   newRAM(),
			field: "block size",
		},
		{
			name:  "block size smaller than metadata",
			geo:   Geometry{BlockSize: 32, RAMBase: testRAMBase, RAMSize: testRAMSize},
			ram:   newRAM(),
			field: "block size",
		},
		{
			name:  "zero RAM",
			geo:   Geometry{BlockSize: testBlock, RAMBase: testRAMBase},
			ram:   newRAM(),
			field: "RAM size",
		},
		{
			name:  "base mismatch",
			geo:   Geometry{BlockSize: testBlock, RAMBase: 0x3FFF0000, RAMSize: 0x1000},
			ram:   newRAM(),
			field: "RAM base",
		},
		{
			name:  "memory too small",
			geo:   testGeo,
			ram:   &ramImage{base: testRAMBase, data: make([]byte, 0x100)},
			field: "RAM size",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewWriter(dev, testBounds, tt.ram, tt.geo)
			var geoErr *GeometryError
			require.ErrorAs(t, err, &geoErr)
			assert.Equal(t, tt.field, geoErr.Field)
		})
	}
}

func TestNewWriterPanicsOnNil(t *testing.T) {
	dev := flash.NewMemory(testFlash, testBlock)
	assert.Panics(t, func() { _, _ = NewWriter(nil, testBounds, newRAM(), testGeo) })
	assert.Panics(t, func() { _, _ = NewWriter(dev, nil, newRAM(), testGeo) })
	assert.Panics(t, func() { _, _ = NewWriter(dev, testBounds, nil, testGeo) })
}

func TestHandleFaultDoesNotAllocate(t *testing.T) {
	dev := flash.NewMemory(testFlash, testBlock)
	w, _ := newTestWriter(t, dev, testBounds)
	w.HandleFault(testFault, 0x3FFFFF00, 0x40000000)

	// Region now valid: every further call takes the early return.
	allocs := testing.AllocsPerRun(10, func() {
		w.HandleFault(testFault, 0x3FFFFF00, 0x40000000)
	})
	assert.Zero(t, allocs)
}
