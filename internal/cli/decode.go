package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/moffa90/go-crashtrace/coredump"
)

func newDecodeCmd(o *rootOptions) *cobra.Command {
	var (
		sp, end, base uint32
		chunk         int
	)

	cmd := &cobra.Command{
		Use:   "decode <dump>",
		Short: "Print stack rows from a raw dump",
		Long: `Print the stack between --sp and --end from a file written by
"crashtrace dump", in the same format as "crashtrace print".`,
		Example: `  crashtrace decode dump.bin --sp 0x3ffffe60 --end 0x3fffffb0`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if base == 0 {
				p, err := o.profile()
				if err != nil {
					return err
				}
				base = p.RAM.Base
			}
			if end <= sp {
				return errors.New("--end must be above --sp")
			}

			core, err := coredump.Parse(args[0], base)
			if err != nil {
				return err
			}
			o.log.Debug("dump loaded", "base", base, "bytes", len(core.Data))

			return core.WriteStack(cmd.OutOrStdout(), sp, end, chunk)
		},
	}

	cmd.Flags().Uint32Var(&sp, "sp", 0, "Faulting stack pointer")
	cmd.Flags().Uint32Var(&end, "end", 0, "End of the faulting stack")
	cmd.Flags().Uint32Var(&base, "base", 0, "Address of the first dumped byte (default: profile RAM base)")
	cmd.Flags().IntVar(&chunk, "chunk", coredump.DefaultChunkSize, "Read chunk size the device used")
	_ = cmd.MarkFlagRequired("sp")
	_ = cmd.MarkFlagRequired("end")
	return cmd
}
