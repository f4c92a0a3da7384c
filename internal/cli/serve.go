package cli

import (
	"github.com/spf13/cobra"

	"github.com/edgard/chatlens/internal/pipeline"
	"github.com/edgard/chatlens/internal/server"
)

func newServeCommand(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the analysis HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := a.cfg.Server
			if addr != "" {
				cfg.Addr = addr
			}

			p, err := pipeline.New(a.cfg, cfg.MaxUploadBytes, a.logger)
			if err != nil {
				return err
			}
			return server.New(cfg, p, a.logger).Run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default server.addr)")
	return cmd
}
