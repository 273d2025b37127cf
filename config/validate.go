package config

import (
	"errors"
	"fmt"

	"github.com/moffa90/go-crashtrace/crash"
)

// ValidationError names the offending profile field.
type ValidationError struct {
	Field  string
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Field, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Validate checks profile correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(p *Profile) error {
	if p == nil {
		return errors.New("nil profile")
	}

	geo := p.Geometry()
	if err := geo.Validate(); err != nil {
		return &ValidationError{Field: "geometry", Reason: "unusable layout", Err: err}
	}

	// ------------------------------------------------------------
	// FLASH BOUNDS
	// ------------------------------------------------------------

	if p.Flash.Size == 0 || p.Flash.Size%p.Flash.BlockSize != 0 {
		return &ValidationError{
			Field:  "flash.size",
			Reason: fmt.Sprintf("0x%X is not a non-zero multiple of block_size 0x%X", p.Flash.Size, p.Flash.BlockSize),
		}
	}

	if p.Flash.ReservedStart > p.Flash.Size {
		return &ValidationError{
			Field:  "flash.reserved_start",
			Reason: fmt.Sprintf("0x%X is past the end of flash 0x%X", p.Flash.ReservedStart, p.Flash.Size),
		}
	}

	if p.Flash.FirmwareSize >= p.Flash.ReservedStart {
		return &ValidationError{
			Field:  "flash.firmware_size",
			Reason: fmt.Sprintf("0x%X reaches the reserved area at 0x%X", p.Flash.FirmwareSize, p.Flash.ReservedStart),
		}
	}

	if err := geo.Fit(p.Bounds()); err != nil {
		return &ValidationError{Field: "flash", Reason: "crash region does not fit", Err: err}
	}

	// ------------------------------------------------------------
	// RAM / REPORT
	// ------------------------------------------------------------

	if s := p.RAM.TaskStack; s != (StackConfig{}) {
		if s.Lo >= s.Hi {
			return &ValidationError{
				Field:  "ram.task_stack",
				Reason: fmt.Sprintf("lo 0x%X is not below hi 0x%X", s.Lo, s.Hi),
			}
		}
	}

	if p.Report.ChunkSize <= 0 || p.Report.ChunkSize%16 != 0 {
		return &ValidationError{
			Field:  "report.chunk_size",
			Reason: fmt.Sprintf("%d is not a positive multiple of 16", p.Report.ChunkSize),
		}
	}

	if p.Report.ScratchBytes < 0 {
		return &ValidationError{
			Field:  "report.scratch_bytes",
			Reason: "must not be negative",
		}
	}

	return nil
}

// Options returns the crash options the profile implies.
func (p *Profile) Options() []crash.Option {
	opts := []crash.Option{crash.WithChunkSize(p.Report.ChunkSize)}
	if s := p.RAM.TaskStack; s != (StackConfig{}) {
		opts = append(opts, crash.WithTaskStack(s.Lo, s.Hi))
	}
	return opts
}
