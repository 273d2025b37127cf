// Package trace implements a fixed-capacity event ring buffer that is cheap
// enough to write from the highest interrupt priority.
//
// # Recording
//
// Record masks interrupts for the duration of one cursor increment and one
// slot store, so two writers interrupting each other can never land in the
// same slot:
//
//	ring := trace.New(cpu)
//	ring.Record(trace.Software(42), value, 0, 0)
//
// Capacity is a compile-time constant and a power of two; the slot index is
// the cursor masked by Capacity-1.
//
// # Reading
//
// No head pointer is kept. A fault can land between any two stores, and a
// separately stored head could then disagree with the slots. The reader
// instead copies the whole array out under one masked section, finds the
// live slot with the smallest cycle count and walks forward from it,
// wrapping around. Which slots are live is tracked per slot in the same
// masked section as the store, so an all-zero event is still an event.
// A ring restored from a retained image has no such record and treats
// all-zero slots as never written.
//
//	if err := ring.Print(os.Stdout); err != nil {
//	    log.Fatal(err)
//	}
//
// # Retention
//
// On hardware the slot array lives in RAM that is not cleared by a warm
// reboot. MarshalBinary and UnmarshalBinary give a platform adapter the same
// behaviour: save the slots before reset, restore them after. The cursor is
// not part of the retained image.
package trace
