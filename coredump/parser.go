package coredump

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrEmptyDump is returned when a dump holds no bytes.
var ErrEmptyDump = errors.New("empty dump")

// Parse reads a raw dump from the given file path and maps it at base.
//
// Example:
//
//	core, err := coredump.Parse("dump.bin", 0x3FFE8000)
func Parse(path string, base uint32) (*Core, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dump: %w", err)
	}
	defer func() { _ = f.Close() }()

	return ParseReader(f, base)
}

// ParseReader reads a raw dump from any io.Reader and maps it at base.
func ParseReader(r io.Reader, base uint32) (*Core, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read dump: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrEmptyDump
	}
	if uint64(base)+uint64(len(data)) > 1<<32 {
		return nil, fmt.Errorf("dump of %d bytes at 0x%08x overflows the address space", len(data), base)
	}

	return &Core{Base: base, Data: data}, nil
}
