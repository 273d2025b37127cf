package trace

import (
	"bufio"
	"fmt"
	"io"
)

// InsufficientMemoryNotice is written instead of the log when the scratch
// budget cannot hold a copy of the ring.
const InsufficientMemoryNotice = "Insufficient RAM to print ISR log!"

// Print writes the ring contents in chronological order:
//
//	ISR log [<cycles now>]:
//	[<cycles>] - <I|U><id>  <enabled>:<active> - <pc> <sp> - <data>
//
// The working copy is charged against the scratch budget. If the budget is
// exhausted a notice is written instead and Print still returns nil.
func (r *Ring) Print(w io.Writer) error {
	const copySize = Capacity * EventSize
	if !r.scratch.Reserve(copySize) {
		_, err := fmt.Fprintln(w, InsufficientMemoryNotice)
		return err
	}
	defer r.scratch.Unreserve(copySize)

	events := r.Events()

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "ISR log [%d]:\n", r.cpu.CycleCount())
	for _, e := range events {
		fmt.Fprintf(bw, "[%d] - %c%04d  %04X:%04X - %08X %08X - %08X\n",
			e.Cycles, e.Category.Tag(), e.Category.ID(), e.Enabled(), e.Pending(), e.PC, e.SP, e.Data)
	}
	fmt.Fprint(bw, "\n")
	return bw.Flush()
}
