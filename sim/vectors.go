package sim

import (
	"sync"

	"github.com/moffa90/go-crashtrace/hooks"
)

// VectorTable is a table of interrupt handlers. It implements
// hooks.VectorTable.
type VectorTable struct {
	mu       sync.Mutex
	handlers []hooks.Handler
}

// NewVectorTable creates a table of n empty vectors, at most 16.
func NewVectorTable(n int) *VectorTable {
	if n < 0 || n > 16 {
		panic("vector count must be between 0 and 16")
	}
	return &VectorTable{handlers: make([]hooks.Handler, n)}
}

// Len returns the number of vectors.
func (v *VectorTable) Len() int {
	return len(v.handlers)
}

// Handler returns the handler of vector i.
func (v *VectorTable) Handler(i int) hooks.Handler {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.handlers[i]
}

// SetHandler replaces the handler of vector i.
func (v *VectorTable) SetHandler(i int, h hooks.Handler) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.handlers[i] = h
}

func (v *VectorTable) dispatch(i int) {
	if i >= v.Len() {
		return
	}
	if h := v.Handler(i); h != nil {
		h()
	}
}
