package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/moffa90/go-crashtrace/region"
	"github.com/moffa90/go-crashtrace/trace"
)

func newPrintCmd(o *rootOptions) *cobra.Command {
	var (
		eventsPath string
		liveReason uint32
	)

	cmd := &cobra.Command{
		Use:   "print",
		Short: "Print the crash report",
		Long: `Print the fault reason and the faulting stack in the format the
exception decoder reads, followed by the event trace when --events names a
saved ring.

Foreign data in the crash region is erased.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			p, err := o.profile()
			if err != nil {
				return err
			}

			var ring *trace.Ring
			if eventsPath != "" {
				if ring, err = loadRing(eventsPath); err != nil {
					return err
				}
			}

			img, err := o.openImage(p)
			if err != nil {
				return err
			}
			defer o.closeImage(img, &err)

			rep, err := o.reporter(p, img, liveReason, ring)
			if err != nil {
				return err
			}
			if !rep.Available() {
				o.log.Info("no crash data", "image", o.imagePath)
				return errNoCrashData
			}
			return rep.Print(cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&eventsPath, "events", "", "Saved event ring to replay after the stack")
	cmd.Flags().Uint32Var(&liveReason, "live-reason", region.ReasonDefault, "Live reset reason of the rebooted device (1 = hardware watchdog)")
	return cmd
}

// loadRing restores a ring saved with trace.Ring.MarshalBinary.
func loadRing(path string) (*trace.Ring, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read events: %w", err)
	}

	ring := trace.New(hostCPU())
	if err := ring.UnmarshalBinary(data); err != nil {
		return nil, fmt.Errorf("decode events %s: %w", path, err)
	}
	return ring, nil
}
