// Package cli provides the command-line interface of memkit.
package cli

import (
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
	"strconv"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rawbytedev/memkit/pkg/config"
	"github.com/rawbytedev/memkit/pkg/memory"
)

// state is shared by every subcommand of one invocation.
type state struct {
	cfg    config.Config
	logger *log.Logger
}

// NewRootCommand builds the memkit command tree.
func NewRootCommand() *cobra.Command {
	st := &state{cfg: config.Default(), logger: log.StandardLogger()}

	root := &cobra.Command{
		Use:   "memkit",
		Short: "Inspect and drive memory through pluggable read/write primitives.",
		Long: `memkit reads, writes and resolves addresses in this process, in ` +
			`another process (by pid) or behind a memwire server, and ` +
			`produces reproducible random data.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return st.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return writeMemProfile(getString(cmd, "memprofile"))
		},
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "YAML configuration file")
	flags.StringSlice("env", nil, ".env files to load (default ./.env when present)")
	flags.BoolP("verbose", "v", false, "increase logging verbosity")
	flags.String("memprofile", "", "write a heap profile to this file on exit")

	root.AddCommand(
		newRandCmd(st),
		newBytesCmd(st),
		newAlignCmd(),
		newPeekCmd(st),
		newPokeCmd(st),
		newMapsCmd(st),
		newServeCmd(st),
	)
	return root
}

// Execute runs the command tree and exits non-zero on failure.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func (st *state) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(getString(cmd, "config"), getStringSlice(cmd, "env")...)
	if err != nil {
		return err
	}
	st.cfg = cfg

	st.logger.SetOutput(cmd.ErrOrStderr())
	st.logger.SetLevel(cfg.Level())
	if getBool(cmd, "verbose") {
		st.logger.SetLevel(log.DebugLevel)
	}
	colors := false
	if f, ok := cmd.ErrOrStderr().(*os.File); ok {
		colors = term.IsTerminal(int(f.Fd()))
	}
	st.logger.SetFormatter(&log.TextFormatter{
		ForceColors:   colors,
		DisableColors: !colors,
		FullTimestamp: true,
	})
	return nil
}

func writeMemProfile(path string) error {
	if path == "" {
		return nil
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	runtime.GC()
	return pprof.WriteHeapProfile(f)
}

func getBool(cmd *cobra.Command, flag string) bool {
	v, err := cmd.Flags().GetBool(flag)
	if err != nil {
		panic(err)
	}
	return v
}

func getString(cmd *cobra.Command, flag string) string {
	v, err := cmd.Flags().GetString(flag)
	if err != nil {
		panic(err)
	}
	return v
}

func getStringSlice(cmd *cobra.Command, flag string) []string {
	v, err := cmd.Flags().GetStringSlice(flag)
	if err != nil {
		panic(err)
	}
	return v
}

func getInt(cmd *cobra.Command, flag string) int {
	v, err := cmd.Flags().GetInt(flag)
	if err != nil {
		panic(err)
	}
	return v
}

// parseAddress accepts decimal, 0x hex, 0o octal and 0b binary.
func parseAddress(s string) (memory.Address, error) {
	v, err := strconv.ParseUint(s, 0, 64)
	if err != nil {
		return memory.Null, fmt.Errorf("bad address %q: %w", s, err)
	}
	return memory.Address(v), nil
}
