package cli

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rawbytedev/memkit/pkg/memory"
	"github.com/rawbytedev/memkit/pkg/memory/remote"
	"github.com/rawbytedev/memkit/pkg/memwire"
)

var errNoTarget = errors.New("no target: pass --pid or --remote, or set them in the config")

func addTargetFlags(cmd *cobra.Command) {
	cmd.Flags().Int("pid", 0, "target process id")
	cmd.Flags().String("remote", "", "memwire server address")
}

// openTarget returns a Reader pointed at the selected target and a func that
// releases it. Flags win over configuration; a remote server wins over a pid.
func (st *state) openTarget(cmd *cobra.Command) (*memory.Reader, func(), error) {
	pid, addr := st.cfg.Pid, st.cfg.Remote
	if cmd.Flags().Changed("pid") {
		pid, addr = getInt(cmd, "pid"), ""
	}
	if cmd.Flags().Changed("remote") {
		addr = getString(cmd, "remote")
	}

	r := memory.NewReader()
	switch {
	case addr != "":
		c, err := memwire.Dial(cmd.Context(), st.cfg.Network, addr)
		if err != nil {
			return nil, nil, err
		}
		st.logger.WithField("remote", addr).Debug("using memwire target")
		r.Use(c)
		return r, func() { c.Close() }, nil
	case pid != 0:
		p, err := remote.Attach(pid)
		if err != nil {
			return nil, nil, err
		}
		st.logger.WithField("process", p.String()).Debug("using process target")
		r.Use(p)
		return r, func() {}, nil
	default:
		return nil, nil, errNoTarget
	}
}

func newPeekCmd(st *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "peek [flags] address",
		Short: "read and dump memory from a target",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := parseAddress(args[0])
			if err != nil {
				return err
			}
			r, done, err := st.openTarget(cmd)
			if err != nil {
				return err
			}
			defer done()
			if depth := getInt(cmd, "deref"); depth > 0 {
				addr, err = memory.Get[memory.Address](r, addr, depth)
				if err != nil {
					return fmt.Errorf("deref %s: %w", args[0], err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "-> %s\n", addr)
			}
			data, err := r.ReadBytes(addr, getInt(cmd, "size"))
			if err != nil {
				return fmt.Errorf("read %s: %w", addr, err)
			}
			dump(cmd.OutOrStdout(), addr, data)
			return nil
		},
	}
	addTargetFlags(cmd)
	cmd.Flags().IntP("size", "s", 64, "bytes to read")
	cmd.Flags().Int("deref", 0, "follow this many pointers before reading")
	return cmd
}

func newPokeCmd(st *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "poke [flags] address hexbytes",
		Short: "write bytes into a target",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := parseAddress(args[0])
			if err != nil {
				return err
			}
			data, err := hex.DecodeString(strings.ReplaceAll(args[1], " ", ""))
			if err != nil {
				return fmt.Errorf("bad bytes: %w", err)
			}
			r, done, err := st.openTarget(cmd)
			if err != nil {
				return err
			}
			defer done()
			if _, err := r.WriteBytes(addr, data); err != nil {
				return fmt.Errorf("write %s: %w", addr, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d bytes at %s\n", len(data), addr)
			return nil
		},
	}
	addTargetFlags(cmd)
	return cmd
}

func newMapsCmd(st *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "maps [flags]",
		Short: "list the memory regions of a process",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pid := st.cfg.Pid
			if cmd.Flags().Changed("pid") {
				pid = getInt(cmd, "pid")
			}
			if pid == 0 {
				pid = os.Getpid()
			}
			p, err := remote.Attach(pid)
			if err != nil {
				return err
			}
			regions, err := p.Regions()
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, r := range regions {
				fmt.Fprintf(w, "%016x-%016x %s %8x %s\n", r.Start, r.End, r.Perms, r.Size(), r.Path)
			}
			return nil
		},
	}
	cmd.Flags().Int("pid", 0, "process id (default this process)")
	return cmd
}

// dump writes data sixteen bytes per line, each line labelled with its address.
func dump(w io.Writer, base memory.Address, data []byte) {
	for off := 0; off < len(data); off += 16 {
		line := data[off:min(off+16, len(data))]
		fmt.Fprintf(w, "%016x  % x\n", base.Offset(off), line)
	}
}
