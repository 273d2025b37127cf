package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCPUMaskNesting(t *testing.T) {
	cpu := NewCPU(1, NewVectorTable(4))

	outer := cpu.DisableInterrupts()
	inner := cpu.DisableInterrupts()
	assert.True(t, cpu.Masked())

	cpu.RestoreInterrupts(inner)
	assert.True(t, cpu.Masked(), "inner restore keeps the outer mask")

	cpu.RestoreInterrupts(outer)
	assert.False(t, cpu.Masked())
}

func TestCPUCycleCounter(t *testing.T) {
	cpu := NewCPU(3, NewVectorTable(0))

	assert.Equal(t, uint32(3), cpu.CycleCount())
	cpu.Advance(100)
	assert.Equal(t, uint32(106), cpu.CycleCount())
}

func TestRaiseDeliversImmediately(t *testing.T) {
	vt := NewVectorTable(4)
	cpu := NewCPU(1, vt)

	var maskedInHandler bool
	calls := 0
	vt.SetHandler(2, func() {
		calls++
		maskedInHandler = cpu.Masked()
	})

	cpu.Raise(2)
	assert.Zero(t, calls, "vector disabled")

	cpu.Enable(2)
	assert.Equal(t, 1, calls, "pending request delivered on enable")
	assert.True(t, maskedInHandler)
	assert.False(t, cpu.Masked())

	cpu.Raise(2)
	assert.Equal(t, 2, calls)
}

func TestRaiseDeferredWhileMasked(t *testing.T) {
	vt := NewVectorTable(4)
	cpu := NewCPU(1, vt)

	var order []int
	for i := 0; i < 4; i++ {
		i := i
		vt.SetHandler(i, func() { order = append(order, i) })
		cpu.Enable(i)
	}

	saved := cpu.DisableInterrupts()
	cpu.Raise(3)
	cpu.Raise(1)

	pending, enabled := cpu.InterruptState()
	assert.Equal(t, uint16(0b1010), pending)
	assert.Equal(t, uint16(0b1111), enabled)
	assert.Empty(t, order)

	cpu.RestoreInterrupts(saved)
	assert.Equal(t, []int{1, 3}, order, "lowest vector first")

	pending, _ = cpu.InterruptState()
	assert.Zero(t, pending)
}

func TestRaiseFromHandlerWaitsForReturn(t *testing.T) {
	vt := NewVectorTable(2)
	cpu := NewCPU(1, vt)

	var order []string
	vt.SetHandler(0, func() {
		order = append(order, "enter 0")
		cpu.Raise(1)
		order = append(order, "exit 0")
	})
	vt.SetHandler(1, func() { order = append(order, "run 1") })
	cpu.Enable(0)
	cpu.Enable(1)

	cpu.Raise(0)
	require.Equal(t, []string{"enter 0", "exit 0", "run 1"}, order)
}

func TestRaiseOutOfRange(t *testing.T) {
	cpu := NewCPU(1, NewVectorTable(2))
	cpu.Raise(-1)
	cpu.Raise(16)

	pending, _ := cpu.InterruptState()
	assert.Zero(t, pending)
}
