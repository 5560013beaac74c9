package cli

import (
	"fmt"
	"math/bits"
	"strconv"

	"github.com/spf13/cobra"
)

func newAlignCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "align [flags] address",
		Short: "show how an address aligns",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := parseAddress(args[0])
			if err != nil {
				return err
			}
			factor, err := strconv.ParseUint(getString(cmd, "factor"), 0, 64)
			if err != nil || bits.OnesCount64(factor) != 1 {
				return fmt.Errorf("factor %q is not a power of two", getString(cmd, "factor"))
			}
			f := uintptr(factor)
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "address     %s\n", addr)
			fmt.Fprintf(w, "align down  %s\n", addr.AlignDown(f))
			fmt.Fprintf(w, "align up    %s\n", addr.AlignUp(f))
			fmt.Fprintf(w, "page down   %s\n", addr.PageAlignDown())
			fmt.Fprintf(w, "page up     %s\n", addr.PageAlignUp())
			fmt.Fprintf(w, "aligned     %t\n", addr.IsAligned(f))
			return nil
		},
	}
	cmd.Flags().String("factor", "0x10", "alignment, a power of two")
	return cmd
}
