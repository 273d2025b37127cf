package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/moffa90/go-crashtrace/crash"
	"github.com/moffa90/go-crashtrace/hooks"
	"github.com/moffa90/go-crashtrace/region"
	"github.com/moffa90/go-crashtrace/sim"
	"github.com/moffa90/go-crashtrace/trace"
)

// exccause 28 is LoadProhibited on the Xtensa cores this targets.
var simulatedFault = region.FaultInfo{
	Reason:   region.ReasonException,
	ExcCause: 28,
	EPC1:     0x40202a6c,
	ExcVAddr: 0x00000000,
}

// simulatedFrames is the call chain left on the stack, innermost first.
var simulatedFrames = []struct {
	ret, size uint32
}{
	{ret: 0x40202a6c, size: 0x20},
	{ret: 0x402019f0, size: 0x30},
	{ret: 0x40201144, size: 0x10},
}

func newSimulateCmd(o *rootOptions) *cobra.Command {
	var (
		eventsPath string
		interrupts int
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run the simulated platform into a fault",
		Long: `Boot the simulated platform, install the trace hooks, run scheduler and
interrupt activity, then fault. The snapshot writer persists RAM into the
image; after a warm reboot the report is printed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			if interrupts < 0 {
				return fmt.Errorf("--interrupts must not be negative")
			}

			p, err := o.profile()
			if err != nil {
				return err
			}
			img, err := o.openImage(p)
			if err != nil {
				return err
			}
			defer o.closeImage(img, &err)

			geo := p.Geometry()
			plat := sim.NewPlatform(sim.Config{RAMBase: geo.RAMBase, RAMSize: geo.RAMSize, Vectors: 4, CycleStep: 3})

			ring := trace.New(plat.CPU, trace.WithFrames(plat.CPU), trace.WithScratch(o.pool))
			tracer := hooks.New(ring, plat.Scheduler, plat.Scheduler, hooks.WithFrames(plat.CPU))

			served := make([]int, plat.Vectors.Len())
			for i := range served {
				i := i
				plat.Vectors.SetHandler(i, func() { served[i]++ })
			}
			if err := tracer.Install(plat.Vectors, plat.CPU); err != nil {
				return err
			}
			defer func() { _ = tracer.Uninstall(plat.CPU) }()
			for i := 0; i < 3; i++ {
				plat.CPU.Enable(i)
			}

			w, err := crash.NewWriter(img, p.Bounds(), plat.RAM, geo, o.crashOptions(p)...)
			if err != nil {
				return err
			}
			var outcome crash.Outcome
			plat.OnFault(func(info region.FaultInfo, lo, hi uint32) {
				outcome = w.HandleFault(info, lo, hi)
			})

			sp, end, err := buildStack(plat.RAM)
			if err != nil {
				return err
			}

			for i := 0; i < interrupts; i++ {
				runnable := hooks.IdleTask
				if i%3 != 0 {
					runnable |= 1 << 1
				}
				plat.Scheduler.SetRunnable(runnable)
				plat.CPU.SetFrame(0x40201000+uint32(i%16)*0x10, sp-0x40)

				switch i % 3 {
				case 0:
					tracer.Yield()
				case 1:
					tracer.Delay(1)
				case 2:
					tracer.Suspend()
				}
				plat.CPU.Raise(i % 3)
			}

			plat.Fault(simulatedFault, sp, end)
			o.log.Info("fault handled", "outcome", outcome.String(), "events", ring.Cursor(), "served", served)
			if outcome != crash.Written {
				fmt.Fprintf(cmd.OutOrStdout(), "Fault not captured: %s\n", outcome)
			}

			saved, err := ring.MarshalBinary()
			if err != nil {
				return err
			}
			if eventsPath != "" {
				if err := os.WriteFile(eventsPath, saved, 0o644); err != nil {
					return fmt.Errorf("save events: %w", err)
				}
			}

			// Warm reboot: RAM and the ring survive, the bootloader reports
			// the exception as the live reset reason.
			plat.WarmReboot(simulatedFault)
			restored := trace.New(plat.CPU)
			if err := restored.UnmarshalBinary(saved); err != nil {
				return err
			}

			rep, err := o.reporter(p, img, simulatedFault.Reason, restored)
			if err != nil {
				return err
			}
			if !rep.Available() {
				return errNoCrashData
			}
			return rep.Print(cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&eventsPath, "events", "", "Save the event ring to this file")
	cmd.Flags().IntVar(&interrupts, "interrupts", 24, "Scheduler calls and interrupts to run before the fault")
	return cmd
}

// buildStack lays simulatedFrames out below the top of RAM and returns the
// faulting SP and the end of the stack.
func buildStack(ram *sim.RAM) (uint32, uint32, error) {
	var total uint32
	for _, f := range simulatedFrames {
		total += f.size
	}

	end := ram.End() - 0x50
	sp := end - total
	cur := sp
	for _, f := range simulatedFrames {
		next, err := ram.PushFrame(cur, f.ret, f.size)
		if err != nil {
			return 0, 0, err
		}
		cur = next
	}
	return sp, end, nil
}
