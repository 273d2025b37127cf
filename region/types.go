package region

// FaultInfo is the fault-reason descriptor captured at the moment of a trap.
// The field order is the encoded order.
type FaultInfo struct {
	// Reason is one of the Reason* constants
	Reason uint32

	// ExcCause is the CPU exception cause register
	ExcCause uint32

	// EPC1, EPC2 and EPC3 are the exception program counters per level
	EPC1 uint32
	EPC2 uint32
	EPC3 uint32

	// ExcVAddr is the faulting virtual address, if any
	ExcVAddr uint32

	// DEPC is the double-exception program counter
	DEPC uint32
}

// Metadata is block 0 of a persisted region.
type Metadata struct {
	// Magic is the sentinel word
	Magic uint32

	// Fault is the fault-reason descriptor
	Fault FaultInfo

	// StackLo is the faulting stack pointer (lower bound)
	StackLo uint32

	// StackHi is the end of the faulting stack (upper bound)
	StackHi uint32
}

// NewMetadata builds a valid metadata block for a fault.
func NewMetadata(info FaultInfo, stackLo, stackHi uint32) Metadata {
	return Metadata{
		Magic:   Magic,
		Fault:   info,
		StackLo: stackLo,
		StackHi: stackHi,
	}
}

// State returns the classification of the metadata's sentinel.
func (m Metadata) State() State {
	return Classify(m.Magic)
}
