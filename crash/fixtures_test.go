package crash

import (
	"encoding/binary"

	"github.com/moffa90/go-crashtrace/region"
)

const (
	testBlock   = 0x1000
	testRAMBase = 0x3FFE8000
	testRAMSize = 0x18000
	testFlash   = 0x400000
	testFwSize  = 0x7F123
	testBase    = 0x80000
)

var testGeo = Geometry{BlockSize: testBlock, RAMBase: testRAMBase, RAMSize: testRAMSize}

var testBounds = StaticBounds{Firmware: testFwSize, Reserved: 0x200000}

type ramImage struct {
	base uint32
	data []byte
}

func (r *ramImage) Base() uint32  { return r.base }
func (r *ramImage) Bytes() []byte { return r.data }

func (r *ramImage) putWord(addr, v uint32) {
	binary.LittleEndian.PutUint32(r.data[addr-r.base:], v)
}

// newRAM returns a RAM image filled with a recognizable pattern.
func newRAM() *ramImage {
	r := &ramImage{base: testRAMBase, data: make([]byte, testRAMSize)}
	for i := range r.data {
		r.data[i] = byte(i*7 + 3)
	}
	return r
}

type liveReset struct {
	info region.FaultInfo
	sets []region.FaultInfo
}

func (l *liveReset) ResetInfo() region.FaultInfo { return l.info }

func (l *liveReset) SetResetInfo(info region.FaultInfo) {
	l.info = info
	l.sets = append(l.sets, info)
}

type countingObserver struct {
	outcomes []Outcome
	healed   int
	cleared  int
}

func (o *countingObserver) FaultHandled(out Outcome) { o.outcomes = append(o.outcomes, out) }
func (o *countingObserver) RegionHealed()            { o.healed++ }
func (o *countingObserver) SnapshotCleared()         { o.cleared++ }

type testLogger struct {
	debug, info, errs []string
}

func (l *testLogger) Debug(msg string, kv ...interface{}) { l.debug = append(l.debug, msg) }
func (l *testLogger) Info(msg string, kv ...interface{})  { l.info = append(l.info, msg) }
func (l *testLogger) Error(msg string, kv ...interface{}) { l.errs = append(l.errs, msg) }

type stepCPU struct {
	cycles uint32
}

func (c *stepCPU) DisableInterrupts() uint32 { return 0 }
func (c *stepCPU) RestoreInterrupts(uint32)  {}
func (c *stepCPU) CycleCount() uint32 {
	c.cycles += 10
	return c.cycles
}
func (c *stepCPU) InterruptState() (uint16, uint16) { return 0x0002, 0x3FFF }

var testFault = region.FaultInfo{
	Reason:   region.ReasonException,
	ExcCause: 28,
	EPC1:     0x40201234,
	EPC2:     0x00000000,
	EPC3:     0x00000000,
	ExcVAddr: 0x00000000,
	DEPC:     0x00000000,
}
