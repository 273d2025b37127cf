// Package hooks instruments the scheduler and the interrupt dispatch path so
// that normal execution leaves a trail in a trace.Ring.
//
// # Scheduler hooks
//
// A Tracer wraps the three blocking primitives of a cooperative scheduler.
// Each wrapper records an entry event, runs the real primitive and records
// an exit event:
//
//	operation   entry  exit
//	Suspend     1000   1001
//	Yield       2000   2001
//	Delay       3000   3001
//
// The data word of each event is the runnable-task mask reported by the
// platform's TaskMonitor.
//
// # Idle suppression
//
// A delay() or yield() polling loop in the idle task would otherwise fill
// the ring within milliseconds. Entries are therefore only recorded while
// some task other than the idle task is runnable. An exit event is always
// recorded when its entry was, so every recorded entry has a matching exit.
//
// # Interrupt hooks
//
// Install replaces every handler of a VectorTable with a wrapper that
// records an interrupt event and then calls the original handler. Install it
// after the rest of the hardware is initialised and before interrupts are
// broadly enabled. Wiring VectorTable to a real vector base register is the
// platform adapter's job.
package hooks
