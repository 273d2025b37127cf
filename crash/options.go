package crash

import (
	"github.com/moffa90/go-crashtrace/coredump"
	"github.com/moffa90/go-crashtrace/scratch"
	"github.com/moffa90/go-crashtrace/trace"
)

// Config holds writer and reporter configuration.
type Config struct {
	// Logger is used by the reporter (optional)
	Logger Logger

	// Observer is notified of region transitions (optional)
	Observer Observer

	// Scratch is the budget for the reporter's read buffer (optional)
	Scratch *scratch.Pool

	// ChunkSize is the number of bytes read from storage at a time.
	// Default is 1024; always a multiple of 16.
	ChunkSize int

	// TaskStackLo and TaskStackHi bound the main task's stack.
	// A faulting SP strictly inside them prints "ctx: cont".
	TaskStackLo uint32
	TaskStackHi uint32

	// Events is replayed after the stack (optional)
	Events *trace.Ring
}

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{
		ChunkSize: coredump.DefaultChunkSize,
	}
}

// Option is a functional option for configuring the Writer and Reporter.
type Option func(*Config)

// WithLogger sets a logger for reporter operations.
//
// Example:
//
//	rep, err := crash.NewReporter(dev, bounds, geo, reset, crash.WithLogger(myLogger))
func WithLogger(logger Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithObserver sets an observer for region transitions.
func WithObserver(o Observer) Option {
	return func(c *Config) {
		c.Observer = o
	}
}

// WithScratch charges the reporter's read buffer against a scratch budget.
func WithScratch(p *scratch.Pool) Option {
	return func(c *Config) {
		c.Scratch = p
	}
}

// WithChunkSize sets how many bytes are read from storage at a time.
// Sizes that are not a positive multiple of 16 are ignored.
//
// Example:
//
//	rep, err := crash.NewReporter(dev, bounds, geo, reset, crash.WithChunkSize(256))
func WithChunkSize(size int) Option {
	return func(c *Config) {
		if size > 0 && size%coredump.RowSize == 0 {
			c.ChunkSize = size
		}
	}
}

// WithTaskStack sets the main task's stack bounds, used to label the
// faulting context.
func WithTaskStack(lo, hi uint32) Option {
	return func(c *Config) {
		c.TaskStackLo = lo
		c.TaskStackHi = hi
	}
}

// WithEvents replays ring after the stack dump.
func WithEvents(ring *trace.Ring) Option {
	return func(c *Config) {
		c.Events = ring
	}
}
