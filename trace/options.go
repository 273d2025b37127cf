package trace

import "github.com/moffa90/go-crashtrace/scratch"

// CPU is the platform's view of the processor.
type CPU interface {
	// DisableInterrupts masks all interrupt levels and returns the previous state
	DisableInterrupts() uint32

	// RestoreInterrupts restores a state returned by DisableInterrupts
	RestoreInterrupts(state uint32)

	// CycleCount returns the free-running cycle counter
	CycleCount() uint32

	// InterruptState returns the active and enabled interrupt masks
	InterruptState() (pending, enabled uint16)
}

// FrameReader returns the caller's return address and stack pointer.
// Platforms read these from the calling-convention registers.
type FrameReader interface {
	CallerFrame() (pc, sp uint32)
}

// Option configures a Ring.
type Option func(*Ring)

// WithFrames sets the source used when Record is called without pc or sp.
func WithFrames(f FrameReader) Option {
	return func(r *Ring) {
		r.frames = f
	}
}

// WithScratch sets the budget used by Print for its working copy.
// Without it Print is not limited.
func WithScratch(p *scratch.Pool) Option {
	return func(r *Ring) {
		r.scratch = p
	}
}
