package flash

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/moffa90/go-crashtrace/region"
)

// Logger receives I/O failures that the storage contract cannot return.
type Logger interface {
	Error(msg string, keysAndValues ...interface{})
}

// FileOption configures a File.
type FileOption func(*File)

// WithLogger sets where File reports I/O failures.
func WithLogger(l Logger) FileOption {
	return func(f *File) {
		f.logger = l
	}
}

// File is a NOR flash device backed by an image file.
//
// File is safe for concurrent use.
type File struct {
	mu        sync.Mutex
	f         *os.File
	size      uint32
	blockSize uint32
	logger    Logger
	err       error
}

// OpenFile opens or creates a flash image of size bytes. A new or short
// image is padded with erased bytes; a longer one is rejected.
func OpenFile(path string, size, blockSize uint32, opts ...FileOption) (*File, error) {
	if blockSize == 0 || size%blockSize != 0 {
		return nil, fmt.Errorf("flash size 0x%X is not a multiple of block size 0x%X", size, blockSize)
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open flash image: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat flash image: %w", err)
	}
	if info.Size() > int64(size) {
		f.Close()
		return nil, fmt.Errorf("flash image %s is %d bytes, larger than device size %d", path, info.Size(), size)
	}

	if pad := int64(size) - info.Size(); pad > 0 {
		erased := make([]byte, pad)
		fill(erased, region.ErasedByte)
		if _, err := f.WriteAt(erased, info.Size()); err != nil {
			f.Close()
			return nil, fmt.Errorf("initialize flash image: %w", err)
		}
	}

	file := &File{f: f, size: size, blockSize: blockSize}
	for _, opt := range opts {
		opt(file)
	}
	return file, nil
}

// Read copies stored bytes at addr into p.
func (d *File) Read(addr uint32, p []byte) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.inRange(addr, len(p)) {
		d.fail("read", addr, errOutOfRange)
		return
	}
	if _, err := d.f.ReadAt(p, int64(addr)); err != nil && !errors.Is(err, io.EOF) {
		d.fail("read", addr, err)
	}
}

// Write programs p at addr. Bits can only go from 1 to 0.
func (d *File) Write(addr uint32, p []byte) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.inRange(addr, len(p)) {
		d.fail("write", addr, errOutOfRange)
		return
	}

	cur := make([]byte, len(p))
	if _, err := d.f.ReadAt(cur, int64(addr)); err != nil && !errors.Is(err, io.EOF) {
		d.fail("write", addr, err)
		return
	}
	program(cur, p)
	if _, err := d.f.WriteAt(cur, int64(addr)); err != nil {
		d.fail("write", addr, err)
	}
}

// EraseBlock resets block index to 0xFF.
func (d *File) EraseBlock(index uint32) {
	d.mu.Lock()
	defer d.mu.Unlock()

	addr := uint64(index) * uint64(d.blockSize)
	if addr+uint64(d.blockSize) > uint64(d.size) {
		d.fail("erase", uint32(addr), errOutOfRange)
		return
	}

	erased := make([]byte, d.blockSize)
	fill(erased, region.ErasedByte)
	if _, err := d.f.WriteAt(erased, int64(addr)); err != nil {
		d.fail("erase", uint32(addr), err)
	}
}

// Size returns the device size in bytes.
func (d *File) Size() uint32 {
	return d.size
}

// BlockSize returns the erase granularity.
func (d *File) BlockSize() uint32 {
	return d.blockSize
}

// Err returns the first I/O failure, if any.
func (d *File) Err() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.err
}

// Close syncs and closes the image.
func (d *File) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.f.Sync(); err != nil {
		d.f.Close()
		return fmt.Errorf("sync flash image: %w", err)
	}
	return d.f.Close()
}

var errOutOfRange = errors.New("address out of range")

func (d *File) inRange(addr uint32, n int) bool {
	return uint64(addr)+uint64(n) <= uint64(d.size)
}

func (d *File) fail(op string, addr uint32, err error) {
	if d.err == nil {
		d.err = fmt.Errorf("flash %s at 0x%08X: %w", op, addr, err)
	}
	if d.logger != nil {
		d.logger.Error("flash operation failed", "op", op, "addr", fmt.Sprintf("0x%08X", addr), "error", err)
	}
}
