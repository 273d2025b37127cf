package region

// Sentinel values.
const (
	// Magic marks a valid snapshot.
	Magic uint32 = 0xDEAD9876

	// ErasedWord is how an erased flash word reads back.
	ErasedWord uint32 = 0xFFFFFFFF

	// ErasedByte is how an erased flash byte reads back.
	ErasedByte byte = 0xFF
)

// Metadata block geometry.
const (
	// WordSize is the size of one target word in bytes.
	WordSize = 4

	// FaultInfoSize is the encoded size of FaultInfo:
	// reason, exccause, epc1, epc2, epc3, excvaddr, depc
	FaultInfoSize = 7 * WordSize

	// MetadataSize is the encoded size of the metadata block:
	// MAGIC(4) + FAULT INFO(28) + STACK_LO(4) + STACK_HI(4)
	MetadataSize = WordSize + FaultInfoSize + 2*WordSize

	// SentinelSize is the number of bytes read to classify a region.
	SentinelSize = WordSize
)

// Field offsets inside the metadata block.
const (
	offsetMagic   = 0
	offsetFault   = offsetMagic + WordSize
	offsetStackLo = offsetFault + FaultInfoSize
	offsetStackHi = offsetStackLo + WordSize
)

// Reset reasons reported by the ROM bootloader.
const (
	// ReasonDefault is a normal power-on start.
	ReasonDefault uint32 = 0

	// ReasonWDT is a hardware watchdog reset.
	ReasonWDT uint32 = 1

	// ReasonException is a fatal CPU exception.
	ReasonException uint32 = 2

	// ReasonSoftWDT is a software watchdog reset.
	ReasonSoftWDT uint32 = 3

	// ReasonSoftRestart is a software initiated restart.
	ReasonSoftRestart uint32 = 4

	// ReasonDeepSleepAwake is a wake from deep sleep.
	ReasonDeepSleepAwake uint32 = 5

	// ReasonExtSys is an external system reset.
	ReasonExtSys uint32 = 6
)
