// Package config loads board profiles: the flash and RAM layout a crash
// snapshot is written against.
//
// A profile is YAML. Addresses and sizes accept hex:
//
//	name: esp8266-4m
//	flash:
//	  size: 0x400000
//	  block_size: 0x1000
//	  firmware_size: 0x7F123
//	  reserved_start: 0x200000
//	ram:
//	  base: 0x3FFE8000
//	  size: 0x18000
//	report:
//	  chunk_size: 1024
//	  scratch_bytes: 4096
//
// Call Load, then ApplyDefaults, then Validate.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/moffa90/go-crashtrace/crash"
	"github.com/moffa90/go-crashtrace/scratch"
)

// Profile describes one board.
type Profile struct {
	Name   string       `yaml:"name"`
	Flash  FlashConfig  `yaml:"flash"`
	RAM    RAMConfig    `yaml:"ram"`
	Report ReportConfig `yaml:"report"`
}

// ---- FLASH ----

// FlashConfig is the flash chip layout and where the firmware image ends.
type FlashConfig struct {
	Size          uint32 `yaml:"size"`
	BlockSize     uint32 `yaml:"block_size"`
	FirmwareSize  uint32 `yaml:"firmware_size"`
	ReservedStart uint32 `yaml:"reserved_start"` // filesystem start, relative to flash
}

// ---- RAM ----

// RAMConfig is the RAM window captured in a snapshot.
type RAMConfig struct {
	Base      uint32      `yaml:"base"`
	Size      uint32      `yaml:"size"`
	TaskStack StackConfig `yaml:"task_stack"` // optional
}

// StackConfig bounds the application task stack; a zero value means unset.
type StackConfig struct {
	Lo uint32 `yaml:"lo"`
	Hi uint32 `yaml:"hi"`
}

// ---- REPORT ----

// ReportConfig tunes how reports are streamed.
type ReportConfig struct {
	ChunkSize    int `yaml:"chunk_size"`
	ScratchBytes int `yaml:"scratch_bytes"` // 0 = unlimited
}

// Default returns the ESP8266 profile with a 4 MiB flash and a 2 MiB
// filesystem.
func Default() *Profile {
	return &Profile{
		Name: "esp8266-4m",
		Flash: FlashConfig{
			Size:          0x400000,
			BlockSize:     0x1000,
			FirmwareSize:  0x80000,
			ReservedStart: 0x200000,
		},
		RAM: RAMConfig{
			Base: 0x3FFE8000,
			Size: 0x18000,
		},
		Report: ReportConfig{
			ChunkSize: 1024,
		},
	}
}

// Load reads a profile from path. Unknown keys are rejected.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}

	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse profile %s: %w", path, err)
	}
	return p, nil
}

// Parse decodes a profile from YAML.
func Parse(data []byte) (*Profile, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var p Profile
	if err := dec.Decode(&p); err != nil {
		if errors.Is(err, io.EOF) {
			return &p, nil
		}
		return nil, err
	}
	return &p, nil
}

// Geometry returns the crash region geometry.
func (p *Profile) Geometry() crash.Geometry {
	return crash.Geometry{
		BlockSize: p.Flash.BlockSize,
		RAMBase:   p.RAM.Base,
		RAMSize:   p.RAM.Size,
	}
}

// Bounds returns the firmware and reserved-area bounds.
func (p *Profile) Bounds() crash.StaticBounds {
	return crash.StaticBounds{
		Firmware: p.Flash.FirmwareSize,
		Reserved: p.Flash.ReservedStart,
	}
}

// ScratchPool returns the printers' scratch budget, or nil when unlimited.
func (p *Profile) ScratchPool() *scratch.Pool {
	if p.Report.ScratchBytes == 0 {
		return nil
	}
	return scratch.NewPool(p.Report.ScratchBytes)
}
