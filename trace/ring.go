package trace

import (
	"fmt"

	"github.com/moffa90/go-crashtrace/scratch"
)

// Ring is a circular event log. It must be created with New.
type Ring struct {
	cpu     CPU
	frames  FrameReader
	scratch *scratch.Pool

	cursor uint32
	slots  [Capacity]Event

	// live has bit i set when slot i holds a recorded event
	live uint64
}

// New creates a zero-filled ring.
func New(cpu CPU, opts ...Option) *Ring {
	if cpu == nil {
		panic("cpu cannot be nil")
	}

	r := &Ring{cpu: cpu}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Record appends one event, overwriting the oldest once the ring is full.
// A zero pc or sp is taken from the FrameReader, if one is configured.
//
// Record is bounded, never blocks and never allocates.
func (r *Ring) Record(cat Category, data, pc, sp uint32) {
	if (pc == 0 || sp == 0) && r.frames != nil {
		fpc, fsp := r.frames.CallerFrame()
		if pc == 0 {
			pc = fpc
		}
		if sp == 0 {
			sp = fsp
		}
	}

	saved := r.cpu.DisableInterrupts()
	pending, enabled := r.cpu.InterruptState()
	idx := r.cursor & slotMask
	slot := &r.slots[idx]
	r.live |= 1 << idx
	r.cursor++
	*slot = Event{
		Category:   cat,
		PC:         pc,
		SP:         sp,
		Cycles:     r.cpu.CycleCount(),
		Interrupts: uint32(enabled)<<16 | uint32(pending),
		Data:       data,
	}
	r.cpu.RestoreInterrupts(saved)
}

// Clear zeroes every slot.
func (r *Ring) Clear() {
	saved := r.cpu.DisableInterrupts()
	r.slots = [Capacity]Event{}
	r.live = 0
	r.cpu.RestoreInterrupts(saved)
}

// Cursor returns the number of events recorded since creation or restore.
func (r *Ring) Cursor() uint32 {
	saved := r.cpu.DisableInterrupts()
	c := r.cursor
	r.cpu.RestoreInterrupts(saved)
	return c
}

// Events returns the live events in chronological order.
func (r *Ring) Events() []Event {
	var buf [Capacity]Event
	live := r.copySlots(&buf, false)
	return chronological(&buf, live)
}

// SnapshotAndClear copies the live events out and zeroes the ring in the
// same masked section. The result is in chronological order.
func (r *Ring) SnapshotAndClear() []Event {
	var buf [Capacity]Event
	live := r.copySlots(&buf, true)
	return chronological(&buf, live)
}

func (r *Ring) copySlots(dst *[Capacity]Event, clear bool) uint64 {
	saved := r.cpu.DisableInterrupts()
	*dst = r.slots
	live := r.live
	if clear {
		r.slots = [Capacity]Event{}
		r.live = 0
	}
	r.cpu.RestoreInterrupts(saved)
	return live
}

// chronological un-wraps a slot array: it starts at the live slot with the
// smallest cycle count and walks forward, skipping slots not in live.
func chronological(buf *[Capacity]Event, live uint64) []Event {
	oldest := -1
	for i := range buf {
		if live&(1<<uint(i)) == 0 {
			continue
		}
		if oldest < 0 || buf[i].Cycles < buf[oldest].Cycles {
			oldest = i
		}
	}
	if oldest < 0 {
		return nil
	}

	out := make([]Event, 0, Capacity)
	for i := 0; i < Capacity; i++ {
		idx := (oldest + i) & slotMask
		if live&(1<<uint(idx)) != 0 {
			out = append(out, buf[idx])
		}
	}
	return out
}

// MarshalBinary encodes the slot array for retention across a warm reboot.
func (r *Ring) MarshalBinary() ([]byte, error) {
	var buf [Capacity]Event
	r.copySlots(&buf, false)

	b := make([]byte, Capacity*EventSize)
	for i := range buf {
		buf[i].put(b[i*EventSize:])
	}
	return b, nil
}

// UnmarshalBinary restores a slot array produced by MarshalBinary.
// The cursor is placed after the newest restored event so that new records
// overwrite the oldest ones first. The image carries no cursor, so only
// non-zero slots are taken as recorded.
func (r *Ring) UnmarshalBinary(b []byte) error {
	if len(b) != Capacity*EventSize {
		return fmt.Errorf("trace: retained image is %d bytes, want %d", len(b), Capacity*EventSize)
	}

	var slots [Capacity]Event
	var live uint64
	newest := -1
	for i := range slots {
		slots[i] = getEvent(b[i*EventSize:])
		if slots[i].IsZero() {
			continue
		}
		live |= 1 << uint(i)
		if newest < 0 || slots[i].Cycles >= slots[newest].Cycles {
			newest = i
		}
	}

	saved := r.cpu.DisableInterrupts()
	r.slots = slots
	r.live = live
	r.cursor = uint32(newest + 1)
	r.cpu.RestoreInterrupts(saved)
	return nil
}
