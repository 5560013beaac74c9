package cli

import (
	"net"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rawbytedev/memkit/pkg/memory"
	"github.com/rawbytedev/memkit/pkg/memwire"
)

func newServeCmd(st *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve [flags]",
		Short: "serve an emulated address space over memwire",
		Long: `Serve an emulated address space over memwire. The space starts at ` +
			`storage.base, holds storage.capacity bytes and reads as zeros ` +
			`until written.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			network, listen := st.cfg.Network, st.cfg.Listen
			if cmd.Flags().Changed("listen") {
				listen = getString(cmd, "listen")
			}
			if addr := getString(cmd, "pprof"); addr != "" {
				go func() {
					st.logger.WithError(http.ListenAndServe(addr, nil)).Warn("pprof listener stopped")
				}()
			}

			storage := memory.NewStorage(memory.Address(st.cfg.Storage.Base), st.cfg.Storage.Capacity)
			r := memory.NewReader()
			r.Use(storage)

			srv, err := memwire.NewServer(r, st.logger)
			if err != nil {
				return err
			}
			defer srv.Close()

			ln, err := net.Listen(network, listen)
			if err != nil {
				return err
			}
			st.logger.WithField("range", storage.Range().String()).Info("emulated storage ready")

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return srv.Serve(ctx, ln)
		},
	}
	cmd.Flags().String("listen", "", "listen address (default from config)")
	cmd.Flags().String("pprof", "", "also serve net/http/pprof on this address")
	return cmd
}
