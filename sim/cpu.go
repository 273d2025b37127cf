package sim

import (
	"math/bits"
	"sync"
)

// maskedState is the value DisableInterrupts returns when interrupts were
// already masked.
const maskedState uint32 = 15

// CPU models the processor state the tracer reads.
type CPU struct {
	mu      sync.Mutex
	masked  bool
	cycles  uint32
	step    uint32
	pending uint16
	enabled uint16
	pc, sp  uint32

	vectors *VectorTable
}

// NewCPU creates a CPU whose cycle counter advances by step on every read.
// Interrupts start unmasked with every vector disabled.
func NewCPU(step uint32, vectors *VectorTable) *CPU {
	if vectors == nil {
		panic("vector table cannot be nil")
	}
	if step == 0 {
		step = 1
	}
	return &CPU{step: step, vectors: vectors}
}

// DisableInterrupts masks interrupts and returns the previous state.
func (c *CPU) DisableInterrupts() uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()

	prev := c.masked
	c.masked = true
	if prev {
		return maskedState
	}
	return 0
}

// RestoreInterrupts restores a state from DisableInterrupts. Unmasking
// delivers pending interrupts.
func (c *CPU) RestoreInterrupts(state uint32) {
	c.mu.Lock()
	c.masked = state == maskedState
	c.mu.Unlock()

	c.deliver()
}

// Masked reports whether interrupts are masked.
func (c *CPU) Masked() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.masked
}

// CycleCount returns the cycle counter and advances it.
func (c *CPU) CycleCount() uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cycles += c.step
	return c.cycles
}

// Advance adds n cycles, e.g. time spent in a delay.
func (c *CPU) Advance(n uint32) {
	c.mu.Lock()
	c.cycles += n
	c.mu.Unlock()
}

// InterruptState returns the pending and enabled vector masks.
func (c *CPU) InterruptState() (uint16, uint16) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending, c.enabled
}

// SetFrame sets the return address and stack pointer CallerFrame reports.
func (c *CPU) SetFrame(pc, sp uint32) {
	c.mu.Lock()
	c.pc, c.sp = pc, sp
	c.mu.Unlock()
}

// CallerFrame implements trace.FrameReader.
func (c *CPU) CallerFrame() (uint32, uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pc, c.sp
}

// Enable enables delivery of vector.
func (c *CPU) Enable(vector int) {
	c.mu.Lock()
	c.enabled |= 1 << uint(vector)
	c.mu.Unlock()

	c.deliver()
}

// Disable stops delivery of vector. A pending request stays pending.
func (c *CPU) Disable(vector int) {
	c.mu.Lock()
	c.enabled &^= 1 << uint(vector)
	c.mu.Unlock()
}

// Raise requests vector. It runs now if it can, otherwise it stays pending.
func (c *CPU) Raise(vector int) {
	if vector < 0 || vector >= 16 {
		return
	}

	c.mu.Lock()
	c.pending |= 1 << uint(vector)
	c.mu.Unlock()

	c.deliver()
}

// deliver runs every pending, enabled vector, lowest first, with
// interrupts masked for the duration of each handler.
func (c *CPU) deliver() {
	for {
		c.mu.Lock()
		ready := c.pending & c.enabled
		if c.masked || ready == 0 {
			c.mu.Unlock()
			return
		}
		vector := bits.TrailingZeros16(ready)
		c.pending &^= 1 << uint(vector)
		c.masked = true
		c.mu.Unlock()

		c.vectors.dispatch(vector)

		c.mu.Lock()
		c.masked = false
		c.mu.Unlock()
	}
}
