package sim

import (
	"sync"

	"github.com/moffa90/go-crashtrace/hooks"
)

// Scheduler is a cooperative scheduler. Blocking calls only burn cycles;
// the runnable mask is set by the caller. It implements hooks.Scheduler
// and hooks.TaskMonitor.
type Scheduler struct {
	cpu          *CPU
	cyclesPerMs  uint32
	switchCycles uint32

	mu       sync.Mutex
	runnable uint32
	yields   int
	delayed  uint64
	suspends int
}

// NewScheduler creates a scheduler with only the idle task runnable.
func NewScheduler(cpu *CPU, cyclesPerMs uint32) *Scheduler {
	if cpu == nil {
		panic("cpu cannot be nil")
	}
	return &Scheduler{
		cpu:          cpu,
		cyclesPerMs:  cyclesPerMs,
		switchCycles: 100,
		runnable:     hooks.IdleTask,
	}
}

// SetRunnable replaces the runnable-task mask.
func (s *Scheduler) SetRunnable(mask uint32) {
	s.mu.Lock()
	s.runnable = mask
	s.mu.Unlock()
}

// RunnableTasks implements hooks.TaskMonitor.
func (s *Scheduler) RunnableTasks() uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runnable
}

// Yield gives up the core for one context switch.
func (s *Scheduler) Yield() {
	s.mu.Lock()
	s.yields++
	s.mu.Unlock()
	s.cpu.Advance(s.switchCycles)
}

// Delay sleeps for ms milliseconds of cycles.
func (s *Scheduler) Delay(ms uint32) {
	s.mu.Lock()
	s.delayed += uint64(ms)
	s.mu.Unlock()
	s.cpu.Advance(s.switchCycles + ms*s.cyclesPerMs)
}

// Suspend parks the current task until it is resumed.
func (s *Scheduler) Suspend() {
	s.mu.Lock()
	s.suspends++
	s.mu.Unlock()
	s.cpu.Advance(s.switchCycles)
}

// Stats returns how often each primitive ran and the total delay in ms.
func (s *Scheduler) Stats() (yields int, delayedMs uint64, suspends int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.yields, s.delayed, s.suspends
}
