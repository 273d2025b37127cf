// Package sim is a host-side platform adapter: a single-core CPU model with
// interrupt masking and a cycle counter, a vector table, a cooperative
// scheduler, RAM and the live reset-reason record.
//
// It implements every collaborator interface the trace, hooks and crash
// packages consume, so the whole pipeline can run off-target:
//
//	p := sim.NewPlatform(sim.Config{RAMBase: 0x3FFE8000, RAMSize: 0x18000, Vectors: 16})
//	ring := trace.New(p.CPU, trace.WithFrames(p.CPU))
//	tr := hooks.New(ring, p.Scheduler, p.Scheduler)
//	_ = tr.Install(p.Vectors, p.CPU)
//
//	w, _ := crash.NewWriter(dev, bounds, p.RAM, geo)
//	p.OnFault(w.HandleFault)
//
// # Interrupts
//
// The model is one core. Raise marks a vector pending; it is delivered at
// once if interrupts are unmasked and the vector is enabled, otherwise when
// RestoreInterrupts next unmasks. Handlers run masked, as on hardware, so
// an interrupt never preempts another.
//
// Platform methods must be driven from one goroutine at a time, the way a
// single core runs one context at a time.
package sim
