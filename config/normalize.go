package config

// ApplyDefaults fills unset fields from Default.
// It is allowed to mutate configuration.
// It MUST be called before Validate().
func ApplyDefaults(p *Profile) {
	if p == nil {
		return
	}
	d := Default()

	if p.Name == "" {
		p.Name = d.Name
	}
	if p.Flash.Size == 0 {
		p.Flash.Size = d.Flash.Size
	}
	if p.Flash.BlockSize == 0 {
		p.Flash.BlockSize = d.Flash.BlockSize
	}
	if p.Flash.FirmwareSize == 0 {
		p.Flash.FirmwareSize = d.Flash.FirmwareSize
	}
	if p.Flash.ReservedStart == 0 {
		p.Flash.ReservedStart = d.Flash.ReservedStart
	}

	// RAM base and size travel together: a custom region is never
	// completed from the default one.
	if p.RAM.Base == 0 && p.RAM.Size == 0 {
		p.RAM.Base = d.RAM.Base
		p.RAM.Size = d.RAM.Size
	}

	if p.Report.ChunkSize == 0 {
		p.Report.ChunkSize = d.Report.ChunkSize
	}
}
