package hooks

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/moffa90/go-crashtrace/trace"
)

// Event ids for scheduler hooks.
const (
	SuspendEnter uint32 = 1000
	SuspendExit  uint32 = 1001
	YieldEnter   uint32 = 2000
	YieldExit    uint32 = 2001
	DelayEnter   uint32 = 3000
	DelayExit    uint32 = 3001
)

// IdleTask is the runnable-mask bit of the idle/background task.
const IdleTask uint32 = 1

var (
	// ErrAlreadyInstalled is returned by Install when vectors are already hooked.
	ErrAlreadyInstalled = errors.New("interrupt hooks already installed")

	// ErrNotInstalled is returned by Uninstall when nothing is hooked.
	ErrNotInstalled = errors.New("interrupt hooks not installed")
)

// Scheduler is the set of blocking primitives being wrapped.
type Scheduler interface {
	Yield()
	Delay(ms uint32)
	Suspend()
}

// TaskMonitor reports which tasks are runnable, one bit per task.
// Bit 0 (IdleTask) is the idle/background task.
type TaskMonitor interface {
	RunnableTasks() uint32
}

// Handler is an interrupt service routine.
type Handler func()

// VectorTable is the platform's interrupt dispatch table.
type VectorTable interface {
	Len() int
	Handler(i int) Handler
	SetHandler(i int, h Handler)
}

// Option configures a Tracer.
type Option func(*Tracer)

// WithFrames sets where the hooks read the caller's pc and sp.
func WithFrames(f trace.FrameReader) Option {
	return func(t *Tracer) {
		t.frames = f
	}
}

// Tracer records scheduler and interrupt activity into a ring.
type Tracer struct {
	ring   *trace.Ring
	sched  Scheduler
	tasks  TaskMonitor
	frames trace.FrameReader

	active atomic.Bool

	mu        sync.Mutex
	vt        VectorTable
	originals []Handler
}

// New creates a Tracer. Tracing starts inactive; Install or Start enable it.
func New(ring *trace.Ring, sched Scheduler, tasks TaskMonitor, opts ...Option) *Tracer {
	if ring == nil {
		panic("ring cannot be nil")
	}
	if sched == nil {
		panic("scheduler cannot be nil")
	}
	if tasks == nil {
		panic("task monitor cannot be nil")
	}

	t := &Tracer{ring: ring, sched: sched, tasks: tasks}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Start enables event tracking.
func (t *Tracer) Start() { t.active.Store(true) }

// Stop disables event tracking. Hooks stay installed, and a call already
// past its entry event still records the exit.
func (t *Tracer) Stop() { t.active.Store(false) }

// Active reports whether events are being tracked.
func (t *Tracer) Active() bool { return t.active.Load() }

// Yield wraps Scheduler.Yield.
func (t *Tracer) Yield() {
	pc, sp := t.caller()
	emitted := t.track(YieldEnter, pc, sp, false)
	t.sched.Yield()
	t.track(YieldExit, pc, sp, emitted)
}

// Delay wraps Scheduler.Delay.
func (t *Tracer) Delay(ms uint32) {
	pc, sp := t.caller()
	emitted := t.track(DelayEnter, pc, sp, false)
	t.sched.Delay(ms)
	t.track(DelayExit, pc, sp, emitted)
}

// Suspend wraps Scheduler.Suspend.
func (t *Tracer) Suspend() {
	pc, sp := t.caller()
	emitted := t.track(SuspendEnter, pc, sp, false)
	t.sched.Suspend()
	t.track(SuspendExit, pc, sp, emitted)
}

// track records one scheduler event unless tracing is stopped or only the
// idle task is runnable. force bypasses both checks so an exit always pairs
// with a recorded entry; it reports whether an event was recorded.
func (t *Tracer) track(id, pc, sp uint32, force bool) bool {
	if !force && !t.active.Load() {
		return false
	}
	runnable := t.tasks.RunnableTasks()
	if !force && runnable&^IdleTask == 0 {
		return false
	}
	t.ring.Record(trace.Software(id), runnable, pc, sp)
	return true
}

// caller captures pc and sp once so entry and exit carry the same frame.
func (t *Tracer) caller() (uint32, uint32) {
	if t.frames == nil {
		return 0, 0
	}
	return t.frames.CallerFrame()
}
