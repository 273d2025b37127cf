package config

import (
	"errors"
	"testing"

	"github.com/moffa90/go-crashtrace/crash"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(p *Profile)
		field   string
		wantErr bool
	}{
		{name: "default", mutate: func(p *Profile) {}},
		{
			name:    "block size not a power of two",
			mutate:  func(p *Profile) { p.Flash.BlockSize = 0x1800 },
			field:   "geometry",
			wantErr: true,
		},
		{
			name:    "flash size not block aligned",
			mutate:  func(p *Profile) { p.Flash.Size = 0x400800 },
			field:   "flash.size",
			wantErr: true,
		},
		{
			name:    "reserved past flash",
			mutate:  func(p *Profile) { p.Flash.ReservedStart = 0x500000 },
			field:   "flash.reserved_start",
			wantErr: true,
		},
		{
			name:    "firmware reaches reserved area",
			mutate:  func(p *Profile) { p.Flash.FirmwareSize = 0x200000 },
			field:   "flash.firmware_size",
			wantErr: true,
		},
		{
			name:    "region does not fit",
			mutate:  func(p *Profile) { p.Flash.FirmwareSize = 0x1F0000 },
			field:   "flash",
			wantErr: true,
		},
		{
			name:    "inverted task stack",
			mutate:  func(p *Profile) { p.RAM.TaskStack = StackConfig{Lo: 0x3FFFFF00, Hi: 0x3FFFFE00} },
			field:   "ram.task_stack",
			wantErr: true,
		},
		{
			name:    "chunk size not a row multiple",
			mutate:  func(p *Profile) { p.Report.ChunkSize = 100 },
			field:   "report.chunk_size",
			wantErr: true,
		},
		{
			name:    "negative scratch",
			mutate:  func(p *Profile) { p.Report.ScratchBytes = -1 },
			field:   "report.scratch_bytes",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Default()
			tt.mutate(p)

			err := Validate(p)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr {
				return
			}

			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("expected *ValidationError, got %T", err)
			}
			if vErr.Field != tt.field {
				t.Errorf("Field = %q, want %q", vErr.Field, tt.field)
			}
		})
	}
}

func TestValidateWrapsRegionError(t *testing.T) {
	p := Default()
	p.Flash.FirmwareSize = 0x1F0000

	var regionErr *crash.RegionError
	if !errors.As(Validate(p), &regionErr) {
		t.Fatal("expected the crash.RegionError to be wrapped")
	}
	if regionErr.ReservedStart != 0x200000 {
		t.Errorf("ReservedStart = 0x%X, want 0x200000", regionErr.ReservedStart)
	}
}

func TestValidateNil(t *testing.T) {
	if err := Validate(nil); err == nil {
		t.Error("expected error for nil profile")
	}
}
