package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/GriffinCanCode/AIOP/backend/internal/infrastructure/server"
)

func serveCommand() *cobra.Command {
	var port string
	var host string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP and WebSocket command bridge",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := GetApp(cmd).Config
			if port != "" {
				cfg.Server.Port = port
			}
			if host != "" {
				cfg.Server.Host = host
			}

			srv, err := server.NewServer(cfg)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			NewPrinter(cmd.OutOrStdout()).Info("Serving", map[string]any{
				"addr":       cfg.Address(),
				"extensions": srv.Extensions().Root(),
			})
			return srv.RunContext(ctx)
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "Listen port (overrides PORT)")
	cmd.Flags().StringVar(&host, "host", "", "Listen host (overrides HOST)")
	return cmd
}
