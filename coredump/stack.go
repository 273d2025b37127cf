package coredump

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
)

const (
	// RowSize is the number of bytes per printed row
	RowSize = 16

	// DefaultChunkSize is the read granularity of the on-device printer
	DefaultChunkSize = 1024

	// FrameMarker flags a row that looks like a saved frame
	FrameMarker = '<'
)

// WriteStackRows writes data as address-annotated rows starting at address
// start. A trailing partial row is padded with zeros.
func WriteStackRows(w io.Writer, start uint32, data []byte) error {
	var row [RowSize]byte
	for pos := 0; pos < len(data); pos += RowSize {
		n := copy(row[:], data[pos:])
		for i := n; i < RowSize; i++ {
			row[i] = 0
		}

		var v [4]uint32
		for i := range v {
			v[i] = binary.LittleEndian.Uint32(row[i*4:])
		}

		mark := byte(' ')
		if v[2] == uint32(pos)+RowSize {
			mark = FrameMarker
		}

		if _, err := fmt.Fprintf(w, "%08x:  %08x %08x %08x %08x %c\n",
			start+uint32(pos), v[0], v[1], v[2], v[3], mark); err != nil {
			return err
		}
	}
	return nil
}

// WriteStack writes the stack between sp and end in chunks of chunkSize
// bytes, matching the on-device printer. A chunkSize of 0 selects
// DefaultChunkSize.
func (c *Core) WriteStack(w io.Writer, sp, end uint32, chunkSize int) error {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if chunkSize%RowSize != 0 {
		return fmt.Errorf("chunk size %d is not a multiple of %d", chunkSize, RowSize)
	}

	stack, err := c.Range(sp, end)
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	for off := 0; off < len(stack); off += chunkSize {
		n := min(len(stack)-off, chunkSize)
		if err := WriteStackRows(bw, sp+uint32(off), stack[off:off+n]); err != nil {
			return err
		}
	}
	return bw.Flush()
}
