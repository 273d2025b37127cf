package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/moffa90/go-crashtrace/region"
)

func newDumpCmd(o *rootOptions) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Write the RAM snapshot to a file",
		Args:  cobra.NoArgs,
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
			if !rep.Available() {
				return errNoCrashData
			}

			f, err := os.Create(outPath)
			if err != nil {
				return fmt.Errorf("create dump: %w", err)
			}
			if err := rep.DumpRaw(f); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("close dump: %w", err)
			}

			o.log.Info("dump written", "path", outPath, "bytes", p.RAM.Size, "base", fmt.Sprintf("0x%08X", p.RAM.Base))
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "output", "o", "dump.bin", "Output file")
	return cmd
}
