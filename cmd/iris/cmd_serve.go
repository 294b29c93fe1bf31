package main

import (
	"log/slog"
	"os"
	"os/signal"

	"github.com/shahar-caura/irisform/internal/server"
	"github.com/spf13/cobra"
)

func newServeCmd(a *app, logger *slog.Logger) *cobra.Command {
	var port int
	var modelPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the prediction endpoint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := server.Options{
				Port:            a.cfg.Server.Port,
				ModelPath:       a.cfg.Server.ModelPath,
				Version:         version,
				ShutdownTimeout: a.cfg.Server.ShutdownTimeout.Duration,
			}
			if cmd.Flags().Changed("port") {
				opts.Port = port
			}
			if cmd.Flags().Changed("model") {
				opts.ModelPath = modelPath
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			srv, err := server.New(ctx, opts, logger)
			if err != nil {
				return err
			}
			return srv.Run(ctx)
		},
	}

	cmd.Flags().IntVar(&port, "port", 5000, "HTTP server port (overrides config)")
	cmd.Flags().StringVar(&modelPath, "model", "", "decision tree model file; the built-in model when empty")
	_ = cmd.MarkFlagFilename("model", "yaml", "yml")

	return cmd
}
