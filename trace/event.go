package trace

import "encoding/binary"

// Capacity is the number of slots in a Ring. It must be a power of two.
const Capacity = 64

const slotMask = Capacity - 1

// compile-time power-of-two check
var _ = [1]struct{}{}[Capacity&slotMask]

// the live-slot mask is one uint64
var _ [64 - Capacity]struct{}

// EventSize is the serialized size of one Event.
const EventSize = 6 * 4

// InterruptFlag marks a Category as sourced from a hardware interrupt.
const InterruptFlag Category = 1 << 31

// Category tags an event. The top bit separates hardware-interrupt events
// from software-injected ones; the remaining bits are the event id.
type Category uint32

// Software returns the category for a software-injected event.
func Software(id uint32) Category {
	return Category(id) &^ InterruptFlag
}

// Interrupt returns the category for a hardware-interrupt event.
func Interrupt(id uint32) Category {
	return Category(id) | InterruptFlag
}

// IsInterrupt reports whether the event came from interrupt dispatch.
func (c Category) IsInterrupt() bool {
	return c&InterruptFlag != 0
}

// ID returns the numeric event id.
func (c Category) ID() uint32 {
	return uint32(c &^ InterruptFlag)
}

// Tag returns the display character: 'I' for interrupts, 'U' otherwise.
func (c Category) Tag() byte {
	if c.IsInterrupt() {
		return 'I'
	}
	return 'U'
}

// Event is one ring slot.
type Event struct {
	Category Category

	// PC and SP of the code that produced the event
	PC uint32
	SP uint32

	// Cycles is the cycle counter at the time of recording
	Cycles uint32

	// Interrupts packs the enabled mask (top 16 bits) and the active
	// mask (bottom 16 bits)
	Interrupts uint32

	// Data is an auxiliary payload word
	Data uint32
}

// Enabled returns the enabled-interrupt mask.
func (e Event) Enabled() uint16 {
	return uint16(e.Interrupts >> 16)
}

// Pending returns the active-interrupt mask.
func (e Event) Pending() uint16 {
	return uint16(e.Interrupts)
}

// IsZero reports whether every field is zero, as in a slot restored from
// an image where it was never written.
func (e Event) IsZero() bool {
	return e == Event{}
}

func (e Event) put(b []byte) {
	binary.LittleEndian.PutUint32(b[0:], uint32(e.Category))
	binary.LittleEndian.PutUint32(b[4:], e.PC)
	binary.LittleEndian.PutUint32(b[8:], e.SP)
	binary.LittleEndian.PutUint32(b[12:], e.Cycles)
	binary.LittleEndian.PutUint32(b[16:], e.Interrupts)
	binary.LittleEndian.PutUint32(b[20:], e.Data)
}

func getEvent(b []byte) Event {
	return Event{
		Category:   Category(binary.LittleEndian.Uint32(b[0:])),
		PC:         binary.LittleEndian.Uint32(b[4:]),
		SP:         binary.LittleEndian.Uint32(b[8:]),
		Cycles:     binary.LittleEndian.Uint32(b[12:]),
		Interrupts: binary.LittleEndian.Uint32(b[16:]),
		Data:       binary.LittleEndian.Uint32(b[20:]),
	}
}
