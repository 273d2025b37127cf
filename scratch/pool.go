// Package scratch provides a bounded budget for short-lived working buffers.
//
// Printers in this module copy data out of flash or the event ring into a
// scratch buffer before formatting it. On a small device that copy competes
// with everything else for heap, so the budget is capped and an allocation
// that would exceed it fails instead of growing. Callers report the failure
// on their output rather than crashing.
//
// A nil *Pool is valid and never refuses an allocation.
package scratch

import "sync"

// Pool counts and limits scratch memory.
type Pool struct {
	mu   sync.Mutex
	size int
	used int
}

// NewPool creates a pool that hands out at most size bytes at a time.
func NewPool(size int) *Pool {
	if size < 0 {
		size = 0
	}
	return &Pool{size: size}
}

// Reserve consumes n bytes of budget without allocating.
// It reports false, and consumes nothing, if the budget is insufficient.
func (p *Pool) Reserve(n int) bool {
	if p == nil {
		return true
	}
	if n < 0 {
		return false
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if n > p.size-p.used {
		return false
	}
	p.used += n
	return true
}

// Unreserve returns n bytes of budget.
func (p *Pool) Unreserve(n int) {
	if p == nil || n <= 0 {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.used -= n
	if p.used < 0 {
		p.used = 0
	}
}

// Alloc returns a zeroed buffer of n bytes charged against the budget.
func (p *Pool) Alloc(n int) (*Buffer, bool) {
	if !p.Reserve(n) {
		return nil, false
	}
	return &Buffer{pool: p, data: make([]byte, n)}, true
}

// Available returns the remaining budget in bytes.
func (p *Pool) Available() int {
	if p == nil {
		return int(^uint(0) >> 1)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.size - p.used
}

// Used returns the budget currently handed out.
func (p *Pool) Used() int {
	if p == nil {
		return 0
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.used
}

// Size returns the total budget.
func (p *Pool) Size() int {
	if p == nil {
		return int(^uint(0) >> 1)
	}
	return p.size
}

// Buffer is a scratch allocation. Release it when done.
type Buffer struct {
	pool     *Pool
	data     []byte
	released bool
}

// Bytes returns the buffer contents.
func (b *Buffer) Bytes() []byte {
	return b.data
}

// Len returns the buffer size.
func (b *Buffer) Len() int {
	return len(b.data)
}

// Release returns the buffer's budget to its pool. It is safe to call twice.
func (b *Buffer) Release() {
	if b == nil || b.released {
		return
	}
	b.released = true
	b.pool.Unreserve(len(b.data))
	b.data = nil
}
