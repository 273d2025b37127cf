package flash

import (
	"fmt"
	"sync"

	"github.com/moffa90/go-crashtrace/region"
)

// Memory is a RAM-backed NOR flash device.
//
// Memory is safe for concurrent use.
type Memory struct {
	mu        sync.Mutex
	blockSize uint32
	data      []byte
	erases    []uint32
	writes    int
	dropped   int
}

// NewMemory creates an erased device of size bytes.
// size must be a multiple of blockSize.
func NewMemory(size, blockSize uint32) *Memory {
	if blockSize == 0 || size%blockSize != 0 {
		panic(fmt.Sprintf("flash size 0x%X is not a multiple of block size 0x%X", size, blockSize))
	}

	m := &Memory{
		blockSize: blockSize,
		data:      make([]byte, size),
	}
	fill(m.data, region.ErasedByte)
	return m
}

// Read copies stored bytes at addr into p.
func (m *Memory) Read(addr uint32, p []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.inRange(addr, len(p)) {
		m.dropped++
		return
	}
	copy(p, m.data[addr:])
}

// Write programs p at addr. Bits can only go from 1 to 0.
func (m *Memory) Write(addr uint32, p []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.inRange(addr, len(p)) {
		m.dropped++
		return
	}
	program(m.data[addr:int(addr)+len(p)], p)
	m.writes++
}

// EraseBlock resets block index to 0xFF.
func (m *Memory) EraseBlock(index uint32) {
	m.mu.Lock()
	defer m.mu.Unlock()

	start := uint64(index) * uint64(m.blockSize)
	if start+uint64(m.blockSize) > uint64(len(m.data)) {
		m.dropped++
		return
	}
	fill(m.data[start:start+uint64(m.blockSize)], region.ErasedByte)
	m.erases = append(m.erases, index)
}

// Size returns the device size in bytes.
func (m *Memory) Size() uint32 {
	return uint32(len(m.data))
}

// BlockSize returns the erase granularity.
func (m *Memory) BlockSize() uint32 {
	return m.blockSize
}

// Erases returns the erased block indices in order.
func (m *Memory) Erases() []uint32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]uint32(nil), m.erases...)
}

// Writes returns the number of successful writes.
func (m *Memory) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

// Dropped returns the number of out-of-range operations.
func (m *Memory) Dropped() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dropped
}

// ResetCounters clears the erase log and operation counters. Contents stay.
func (m *Memory) ResetCounters() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.erases = nil
	m.writes = 0
	m.dropped = 0
}

// Snapshot returns a copy of the whole device.
func (m *Memory) Snapshot() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]byte(nil), m.data...)
}

func (m *Memory) inRange(addr uint32, n int) bool {
	return uint64(addr)+uint64(n) <= uint64(len(m.data))
}

// program applies NOR programming: stored = stored & new.
func program(dst, src []byte) {
	for i, b := range src {
		dst[i] &= b
	}
}

func fill(b []byte, v byte) {
	for i := range b {
		b[i] = v
	}
}
