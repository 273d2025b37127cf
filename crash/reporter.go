package crash

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/moffa90/go-crashtrace/coredump"
	"github.com/moffa90/go-crashtrace/region"
)

// InsufficientMemoryNotice is written instead of stack rows or dump bytes
// when the scratch budget cannot hold a read buffer.
const InsufficientMemoryNotice = "Insufficient RAM to print crash data!"

// ResetState is the platform's live reset-reason record, the one its own
// reset-info formatter reads.
type ResetState interface {
	ResetInfo() region.FaultInfo
	SetResetInfo(info region.FaultInfo)
}

// Reporter reads, prints and clears the persisted region after a reboot.
//
// Reporter is not safe for concurrent use.
type Reporter struct {
	storage Storage
	bounds  Bounds
	geo     Geometry
	reset   ResetState
	config  Config
}

// NewReporter creates a Reporter over the region described by b and geo.
//
// Example:
//
//	rep, err := crash.NewReporter(dev, bounds, geo, platform.Reset(),
//	    crash.WithEvents(ring),
//	    crash.WithTaskStack(contStack, contStackEnd),
//	)
//	if rep.Available() {
//	    rep.Print(os.Stdout)
//	}
func NewReporter(st Storage, b Bounds, geo Geometry, rs ResetState, opts ...Option) (*Reporter, error) {
	if st == nil {
		panic("storage cannot be nil")
	}
	if b == nil {
		panic("bounds cannot be nil")
	}
	if rs == nil {
		panic("reset state cannot be nil")
	}

	if err := geo.Validate(); err != nil {
		return nil, err
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Reporter{
		storage: st,
		bounds:  b,
		geo:     geo,
		reset:   rs,
		config:  cfg,
	}, nil
}

// Base returns the region's storage address.
func (r *Reporter) Base() uint32 {
	return r.geo.RegionBase(r.bounds)
}

// State classifies the region without changing it. A region that does not
// fit below the reserved start is never written and reads as erased.
func (r *Reporter) State() region.State {
	return r.metadata().State()
}

// Metadata returns the metadata block if the region is valid.
func (r *Reporter) Metadata() (region.Metadata, bool) {
	meta := r.metadata()
	return meta, meta.State() == region.StateValid
}

// Available reports whether a snapshot is stored. A region holding foreign
// data is erased so the next fault can be captured.
func (r *Reporter) Available() bool {
	meta := r.metadata()
	switch meta.State() {
	case region.StateValid:
		return true
	case region.StateForeign:
		r.logInfo("foreign data in crash region, erasing",
			"base", fmt.Sprintf("0x%08X", r.Base()),
			"sentinel", fmt.Sprintf("0x%08X", meta.Magic),
		)
		r.eraseMetadata()
		if r.config.Observer != nil {
			r.config.Observer.RegionHealed()
		}
	}
	return false
}

// Clear invalidates the snapshot by erasing the metadata block only.
// Nothing is erased when the region does not fit.
func (r *Reporter) Clear() {
	if !r.geo.fits(r.bounds) {
		r.logDebug("crash region does not fit, nothing to clear",
			"firmware_size", fmt.Sprintf("0x%08X", r.bounds.FirmwareSize()),
			"reserved_start", fmt.Sprintf("0x%08X", r.bounds.ReservedStart()),
		)
		return
	}
	r.eraseMetadata()
	r.logInfo("crash data cleared", "base", fmt.Sprintf("0x%08X", r.Base()))
	if r.config.Observer != nil {
		r.config.Observer.SnapshotCleared()
	}
}

// Print writes the crash report: reset reason, the faulting stack in the
// exception decoder's format and, if configured, the event ring.
// Nothing is written when no snapshot is stored.
func (r *Reporter) Print(w io.Writer) error {
	meta, ok := r.Metadata()
	if !ok {
		r.logDebug("no crash data to print", "state", meta.State().String())
		return nil
	}

	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, r.resetInfo(meta.Fault))
	cutHere(bw)
	fmt.Fprint(bw, "\n>>>stack>>>\n")

	ctx := "sys"
	if meta.StackLo > r.config.TaskStackLo && meta.StackLo < r.config.TaskStackHi {
		ctx = "cont"
	}
	fmt.Fprintf(bw, "\nctx: %s\n", ctx)
	fmt.Fprintf(bw, "sp: %08x end: %08x offset: %04x\n", meta.StackLo, meta.StackHi, 0)

	if err := r.printStack(bw, meta.StackLo, meta.StackHi); err != nil {
		return err
	}
	fmt.Fprint(bw, "\n<<<stack<<<\n\n")

	if r.config.Events != nil {
		if err := r.config.Events.Print(bw); err != nil {
			return err
		}
	}

	return bw.Flush()
}

// DumpRaw streams the RAM snapshot verbatim. Nothing is written when no
// snapshot is stored.
func (r *Reporter) DumpRaw(w io.Writer) error {
	if !r.Available() {
		return nil
	}

	buf, ok := r.config.Scratch.Alloc(r.config.ChunkSize)
	if !ok {
		r.logError("scratch budget exhausted", "need", r.config.ChunkSize, "available", r.config.Scratch.Available())
		_, err := fmt.Fprintln(w, InsufficientMemoryNotice)
		return err
	}
	defer buf.Release()

	data := r.Base() + r.geo.BlockSize
	chunk := buf.Bytes()
	for off := uint32(0); off < r.geo.RAMSize; {
		n := min(r.geo.RAMSize-off, uint32(len(chunk)))
		r.storage.Read(data+off, chunk[:n])
		if _, err := w.Write(chunk[:n]); err != nil {
			return fmt.Errorf("write dump at offset 0x%X: %w", off, err)
		}
		off += n
	}

	r.logDebug("crash dump written", "bytes", r.geo.RAMSize)
	return nil
}

// printStack streams the stack between lo and hi from the snapshot. Bounds
// are clamped to the captured RAM.
func (r *Reporter) printStack(w io.Writer, lo, hi uint32) error {
	lo = clamp(lo, r.geo.RAMBase, r.geo.RAMEnd())
	hi = clamp(hi, lo, r.geo.RAMEnd())
	if hi == lo {
		return nil
	}

	buf, ok := r.config.Scratch.Alloc(r.config.ChunkSize)
	if !ok {
		r.logError("scratch budget exhausted", "need", r.config.ChunkSize, "available", r.config.Scratch.Available())
		_, err := fmt.Fprintln(w, InsufficientMemoryNotice)
		return err
	}
	defer buf.Release()

	data := r.Base() + r.geo.BlockSize
	chunk := buf.Bytes()
	for off := lo - r.geo.RAMBase; off < hi-r.geo.RAMBase; {
		n := min(hi-r.geo.RAMBase-off, uint32(len(chunk)))
		r.storage.Read(data+off, chunk[:n])
		if err := coredump.WriteStackRows(w, r.geo.RAMBase+off, chunk[:n]); err != nil {
			return err
		}
		off += n
	}
	return nil
}

// resetInfo formats the reset reason. A hardware watchdog reset is reported
// from the live state; otherwise the persisted reason is swapped into the
// live state for formatting and then restored.
func (r *Reporter) resetInfo(persisted region.FaultInfo) string {
	live := r.reset.ResetInfo()
	if live.Reason == region.ReasonWDT {
		return region.FormatResetInfo(live)
	}

	r.reset.SetResetInfo(persisted)
	defer r.reset.SetResetInfo(live)
	return region.FormatResetInfo(r.reset.ResetInfo())
}

func (r *Reporter) metadata() region.Metadata {
	if !r.geo.fits(r.bounds) {
		return region.Metadata{Magic: region.ErasedWord}
	}
	var b [region.MetadataSize]byte
	r.storage.Read(r.Base(), b[:])
	meta, _ := region.DecodeMetadata(b[:])
	return meta
}

func (r *Reporter) eraseMetadata() {
	r.storage.EraseBlock(r.Base() / r.geo.BlockSize)
}

func cutHere(w io.Writer) {
	dashes := strings.Repeat("-", 15)
	fmt.Fprintf(w, "\n%s CUT HERE FOR EXCEPTION DECODER %s\n", dashes, dashes)
}

func clamp(v, lo, hi uint32) uint32 {
	return max(lo, min(v, hi))
}

// logDebug logs a debug message if a logger is configured.
func (r *Reporter) logDebug(msg string, keysAndValues ...interface{}) {
	if r.config.Logger != nil {
		r.config.Logger.Debug(msg, keysAndValues...)
	}
}

// logInfo logs an info message if a logger is configured.
func (r *Reporter) logInfo(msg string, keysAndValues ...interface{}) {
	if r.config.Logger != nil {
		r.config.Logger.Info(msg, keysAndValues...)
	}
}

// logError logs an error message if a logger is configured.
func (r *Reporter) logError(msg string, keysAndValues ...interface{}) {
	if r.config.Logger != nil {
		r.config.Logger.Error(msg, keysAndValues...)
	}
}
