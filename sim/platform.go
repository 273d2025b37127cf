package sim

import (
	"github.com/moffa90/go-crashtrace/region"
)

// FaultHandler is the platform's fatal-trap callback.
type FaultHandler func(info region.FaultInfo, stackLo, stackHi uint32)

// Config sizes a Platform.
type Config struct {
	RAMBase uint32
	RAMSize uint32

	// Vectors is the number of interrupt vectors, at most 16
	Vectors int

	// CycleStep is how far the cycle counter moves per read (default 1)
	CycleStep uint32

	// CyclesPerMs converts Delay milliseconds to cycles (default 80000)
	CyclesPerMs uint32
}

// Platform bundles the simulated collaborators.
type Platform struct {
	CPU       *CPU
	Vectors   *VectorTable
	Scheduler *Scheduler
	RAM       *RAM
	Reset     *ResetState

	onFault FaultHandler
}

// NewPlatform creates a platform after a power-on reset.
func NewPlatform(cfg Config) *Platform {
	if cfg.CyclesPerMs == 0 {
		cfg.CyclesPerMs = 80000
	}

	vt := NewVectorTable(cfg.Vectors)
	cpu := NewCPU(cfg.CycleStep, vt)
	return &Platform{
		CPU:       cpu,
		Vectors:   vt,
		Scheduler: NewScheduler(cpu, cfg.CyclesPerMs),
		RAM:       NewRAM(cfg.RAMBase, cfg.RAMSize),
		Reset:     NewResetState(region.FaultInfo{Reason: region.ReasonDefault}),
	}
}

// OnFault registers the fatal-trap callback.
func (p *Platform) OnFault(h FaultHandler) {
	p.onFault = h
}

// Fault enters fault context: interrupts are masked for good, the live
// reset reason becomes info and the registered callback runs once.
func (p *Platform) Fault(info region.FaultInfo, stackLo, stackHi uint32) {
	p.CPU.DisableInterrupts()
	p.Reset.SetResetInfo(info)
	if p.onFault != nil {
		p.onFault(info, stackLo, stackHi)
	}
}

// WarmReboot restarts with RAM preserved. Interrupts are unmasked and the
// live reset reason is set to info.
func (p *Platform) WarmReboot(info region.FaultInfo) {
	p.Reset.SetResetInfo(info)
	p.CPU.RestoreInterrupts(0)
}
