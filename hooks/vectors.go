package hooks

import "github.com/moffa90/go-crashtrace/trace"

// Install hooks every vector of vt and starts tracking. The table is
// rewritten with interrupts masked through cpu.
func (t *Tracer) Install(vt VectorTable, cpu trace.CPU) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.vt != nil {
		return ErrAlreadyInstalled
	}

	saved := cpu.DisableInterrupts()
	originals := make([]Handler, vt.Len())
	for i := range originals {
		originals[i] = vt.Handler(i)
		vt.SetHandler(i, t.wrap(uint32(i), originals[i]))
	}
	cpu.RestoreInterrupts(saved)

	t.vt = vt
	t.originals = originals
	t.Start()
	return nil
}

// Uninstall puts the original handlers back and stops tracking.
func (t *Tracer) Uninstall(cpu trace.CPU) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.vt == nil {
		return ErrNotInstalled
	}

	t.Stop()
	saved := cpu.DisableInterrupts()
	for i, h := range t.originals {
		t.vt.SetHandler(i, h)
	}
	cpu.RestoreInterrupts(saved)

	t.vt = nil
	t.originals = nil
	return nil
}

func (t *Tracer) wrap(vector uint32, orig Handler) Handler {
	return func() {
		if t.active.Load() {
			t.ring.Record(trace.Interrupt(vector), 0, 0, 0)
		}
		if orig != nil {
			orig()
		}
	}
}
