package region

import "encoding/binary"

// Encode serializes the metadata block into a fixed-size array.
// It does not allocate, so it is usable from a fault handler.
func (m Metadata) Encode() [MetadataSize]byte {
	var b [MetadataSize]byte

	binary.LittleEndian.PutUint32(b[offsetMagic:], m.Magic)
	m.Fault.put(b[offsetFault : offsetFault+FaultInfoSize])
	binary.LittleEndian.PutUint32(b[offsetStackLo:], m.StackLo)
	binary.LittleEndian.PutUint32(b[offsetStackHi:], m.StackHi)

	return b
}

// DecodeMetadata parses a metadata block.
//
// Frame structure:
//
//	[MAGIC(4)][REASON(4)][EXCCAUSE(4)][EPC1(4)][EPC2(4)][EPC3(4)][EXCVADDR(4)][DEPC(4)][STACK_LO(4)][STACK_HI(4)]
func DecodeMetadata(b []byte) (Metadata, error) {
	if len(b) < MetadataSize {
		return Metadata{}, &ShortBufferError{What: "metadata block", Need: MetadataSize, Got: len(b)}
	}

	return Metadata{
		Magic:   binary.LittleEndian.Uint32(b[offsetMagic:]),
		Fault:   getFaultInfo(b[offsetFault : offsetFault+FaultInfoSize]),
		StackLo: binary.LittleEndian.Uint32(b[offsetStackLo:]),
		StackHi: binary.LittleEndian.Uint32(b[offsetStackHi:]),
	}, nil
}

// DecodeSentinel reads the sentinel word from the start of a metadata block.
func DecodeSentinel(b []byte) (uint32, error) {
	if len(b) < SentinelSize {
		return 0, &ShortBufferError{What: "sentinel", Need: SentinelSize, Got: len(b)}
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (f FaultInfo) put(b []byte) {
	words := [...]uint32{f.Reason, f.ExcCause, f.EPC1, f.EPC2, f.EPC3, f.ExcVAddr, f.DEPC}
	for i, w := range words {
		binary.LittleEndian.PutUint32(b[i*WordSize:], w)
	}
}

func getFaultInfo(b []byte) FaultInfo {
	word := func(i int) uint32 {
		return binary.LittleEndian.Uint32(b[i*WordSize:])
	}
	return FaultInfo{
		Reason:   word(0),
		ExcCause: word(1),
		EPC1:     word(2),
		EPC2:     word(3),
		EPC3:     word(4),
		ExcVAddr: word(5),
		DEPC:     word(6),
	}
}
