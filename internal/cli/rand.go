package cli

import (
	"encoding/hex"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/rawbytedev/memkit/pkg/rnd"
)

func (st *state) generator(cmd *cobra.Command) (*rnd.Generator, error) {
	g := rnd.New(rnd.Options{Logger: st.logger})
	switch {
	case cmd.Flags().Changed("seed"):
		seed, err := strconv.ParseUint(getString(cmd, "seed"), 0, 64)
		if err != nil {
			return nil, fmt.Errorf("bad seed: %w", err)
		}
		g.Seed(seed)
	case st.cfg.Seed != nil:
		g.Seed(*st.cfg.Seed)
	default:
		if _, err := g.Reseed(); err != nil {
			return nil, err
		}
	}
	return g, nil
}

func newRandCmd(st *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rand [flags]",
		Short: "print reproducible random integers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := st.generator(cmd)
			if err != nil {
				return err
			}
			draw, err := drawer(getString(cmd, "type"), getString(cmd, "min"), getString(cmd, "max"))
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for i := 0; i < getInt(cmd, "count"); i++ {
				fmt.Fprintln(w, draw(g))
			}
			return nil
		},
	}
	cmd.Flags().String("seed", "", "seed (default from config, else OS entropy)")
	cmd.Flags().StringP("type", "t", "u32", "integer type: u8 u16 u32 u64 i8 i16 i32 i64")
	cmd.Flags().String("min", "", "inclusive lower bound (default type minimum)")
	cmd.Flags().String("max", "", "inclusive upper bound (default type maximum)")
	cmd.Flags().IntP("count", "n", 1, "how many numbers to print")
	return cmd
}

// drawer returns a closure drawing one formatted number of the named type.
func drawer(typ, lo, hi string) (func(*rnd.Generator) string, error) {
	switch typ {
	case "u8":
		return unsignedDrawer[uint8](lo, hi, 8)
	case "u16":
		return unsignedDrawer[uint16](lo, hi, 16)
	case "u32":
		return unsignedDrawer[uint32](lo, hi, 32)
	case "u64":
		return unsignedDrawer[uint64](lo, hi, 64)
	case "i8":
		return signedDrawer[int8](lo, hi, 8)
	case "i16":
		return signedDrawer[int16](lo, hi, 16)
	case "i32":
		return signedDrawer[int32](lo, hi, 32)
	case "i64":
		return signedDrawer[int64](lo, hi, 64)
	default:
		return nil, fmt.Errorf("unknown type %q", typ)
	}
}

func unsignedDrawer[T ~uint8 | ~uint16 | ~uint32 | ~uint64](minArg, maxArg string, bits int) (func(*rnd.Generator) string, error) {
	lo, hi := T(0), ^T(0)
	if minArg != "" {
		v, err := strconv.ParseUint(minArg, 0, bits)
		if err != nil {
			return nil, fmt.Errorf("bad min: %w", err)
		}
		lo = T(v)
	}
	if maxArg != "" {
		v, err := strconv.ParseUint(maxArg, 0, bits)
		if err != nil {
			return nil, fmt.Errorf("bad max: %w", err)
		}
		hi = T(v)
	}
	if lo > hi {
		return nil, fmt.Errorf("min %d above max %d", lo, hi)
	}
	return func(g *rnd.Generator) string {
		return strconv.FormatUint(uint64(rnd.NumberIn(g, lo, hi)), 10)
	}, nil
}

func signedDrawer[T ~int8 | ~int16 | ~int32 | ~int64](minArg, maxArg string, bits int) (func(*rnd.Generator) string, error) {
	hi := T(1<<(bits-1) - 1)
	lo := -hi - 1
	if minArg != "" {
		v, err := strconv.ParseInt(minArg, 0, bits)
		if err != nil {
			return nil, fmt.Errorf("bad min: %w", err)
		}
		lo = T(v)
	}
	if maxArg != "" {
		v, err := strconv.ParseInt(maxArg, 0, bits)
		if err != nil {
			return nil, fmt.Errorf("bad max: %w", err)
		}
		hi = T(v)
	}
	if lo > hi {
		return nil, fmt.Errorf("min %d above max %d", lo, hi)
	}
	return func(g *rnd.Generator) string {
		return strconv.FormatInt(int64(rnd.NumberIn(g, lo, hi)), 10)
	}, nil
}

func newBytesCmd(st *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bytes [flags] count",
		Short: "print or emit reproducible random bytes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil || n < 0 {
				return fmt.Errorf("bad count %q", args[0])
			}
			g, err := st.generator(cmd)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if getBool(cmd, "raw") {
				_, err = io.CopyN(w, g, int64(n))
				return err
			}
			_, err = fmt.Fprintln(w, hex.EncodeToString(g.Bytes(n)))
			return err
		},
	}
	cmd.Flags().String("seed", "", "seed (default from config, else OS entropy)")
	cmd.Flags().Bool("raw", false, "write raw bytes instead of hex")
	return cmd
}
