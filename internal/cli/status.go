package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/moffa90/go-crashtrace/region"
)

func newStatusCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the crash region state",
		Long: `Classify the crash region without changing it and, when it holds a
snapshot, show the persisted fault reason and stack bounds.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			p, err := o.profile()
			if err != nil {
				return err
			}
			img, err := o.openImage(p)
			if err != nil {
				return err
			}
			defer o.closeImage(img, &err)

			rep, err := o.reporter(p, img, region.ReasonDefault, nil)
			if err != nil {
				return err
			}

			geo := p.Geometry()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Image:   %s\n", o.imagePath)
			fmt.Fprintf(out, "Region:  0x%08X (%d blocks of 0x%X)\n", rep.Base(), geo.Blocks(), geo.BlockSize)
			fmt.Fprintf(out, "State:   %s\n", rep.State())

			meta, ok := rep.Metadata()
			if !ok {
				return nil
			}
			fmt.Fprintf(out, "Reason:  %s\n", region.FormatResetInfo(meta.Fault))
			fmt.Fprintf(out, "Stack:   %08x-%08x (%d bytes)\n", meta.StackLo, meta.StackHi, int64(meta.StackHi)-int64(meta.StackLo))
			return nil
		},
	}
}

func regionInfo(reason uint32) region.FaultInfo {
	return region.FaultInfo{Reason: reason}
}
