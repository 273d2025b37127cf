package cli

import (
	"github.com/spf13/cobra"

	"github.com/moffa90/go-crashtrace/region"
)

func newClearCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Invalidate the stored snapshot",
		Long: `Erase the metadata block of the crash region. The RAM blocks are left
in place and reused by the next fault.`,
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
			rep.Clear()
			return nil
		},
	}
}
