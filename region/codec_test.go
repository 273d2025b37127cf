package region

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func TestMetadataEncodeLayout(t *testing.T) {
	info := FaultInfo{
		Reason:   ReasonException,
		ExcCause: 28,
		EPC1:     0x40201234,
		EPC2:     0x11,
		EPC3:     0x22,
		ExcVAddr: 0x00000004,
		DEPC:     0x33,
	}
	m := NewMetadata(info, 0x3FFFFD00, 0x3FFFFFB0)

	b := m.Encode()

	want := []uint32{
		Magic, ReasonException, 28, 0x40201234, 0x11, 0x22, 0x00000004, 0x33,
		0x3FFFFD00, 0x3FFFFFB0,
	}
	if len(b) != len(want)*WordSize {
		t.Fatalf("encoded size = %d, want %d", len(b), len(want)*WordSize)
	}
	for i, w := range want {
		got := binary.LittleEndian.Uint32(b[i*WordSize:])
		if got != w {
			t.Errorf("word %d = 0x%08X, want 0x%08X", i, got, w)
		}
	}
}

func TestDecodeMetadata(t *testing.T) {
	m := NewMetadata(FaultInfo{Reason: ReasonSoftWDT, EPC1: 0xCAFE}, 0x10, 0x20)
	b := m.Encode()

	got, err := DecodeMetadata(b[:])
	if err != nil {
		t.Fatalf("DecodeMetadata() error = %v", err)
	}
	if got != m {
		t.Errorf("DecodeMetadata() = %+v, want %+v", got, m)
	}
	if got.State() != StateValid {
		t.Errorf("State() = %v, want valid", got.State())
	}
}

func TestDecodeMetadataShort(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{name: "nil", data: nil},
		{name: "sentinel only", data: []byte{0x76, 0x98, 0xAD, 0xDE}},
		{name: "one byte short", data: make([]byte, MetadataSize-1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeMetadata(tt.data)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			sbe, ok := err.(*ShortBufferError)
			if !ok {
				t.Fatalf("error type = %T, want *ShortBufferError", err)
			}
			if sbe.Need != MetadataSize || sbe.Got != len(tt.data) {
				t.Errorf("error = %+v", sbe)
			}
		})
	}
}

func TestDecodeSentinel(t *testing.T) {
	erased := bytes.Repeat([]byte{ErasedByte}, 8)
	w, err := DecodeSentinel(erased)
	if err != nil {
		t.Fatalf("DecodeSentinel() error = %v", err)
	}
	if w != ErasedWord {
		t.Errorf("DecodeSentinel() = 0x%08X, want 0x%08X", w, ErasedWord)
	}

	if _, err := DecodeSentinel([]byte{1, 2}); err == nil {
		t.Error("expected error for short sentinel")
	}
}

func BenchmarkMetadataEncode(b *testing.B) {
	m := NewMetadata(FaultInfo{Reason: ReasonException}, 1, 2)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = m.Encode()
	}
}
