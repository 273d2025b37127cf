package trace

// fakeCPU is a deterministic CPU: every CycleCount call advances the
// counter by step.
type fakeCPU struct {
	cycles   uint32
	step     uint32
	pending  uint16
	enabled  uint16
	depth    int
	maxDepth int
	disables int
}

func newFakeCPU() *fakeCPU {
	return &fakeCPU{step: 1, enabled: 0x3FFF}
}

func (c *fakeCPU) DisableInterrupts() uint32 {
	c.disables++
	c.depth++
	if c.depth > c.maxDepth {
		c.maxDepth = c.depth
	}
	return uint32(c.depth - 1)
}

func (c *fakeCPU) RestoreInterrupts(state uint32) {
	c.depth = int(state)
}

func (c *fakeCPU) CycleCount() uint32 {
	v := c.cycles
	c.cycles += c.step
	return v
}

func (c *fakeCPU) InterruptState() (uint16, uint16) {
	return c.pending, c.enabled
}

type fixedFrames struct {
	pc, sp uint32
}

func (f fixedFrames) CallerFrame() (uint32, uint32) {
	return f.pc, f.sp
}
