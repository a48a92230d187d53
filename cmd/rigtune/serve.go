package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/stepherg/rigtune"
	"github.com/stepherg/rigtune/internal/server"
)

func newServeCmd(ro *rootOptions) *cobra.Command {
	d := rigtune.DefaultOptions()
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the dashboard API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, logger, store, err := ro.load()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv, errCh, err := server.Start(ctx, server.Config{Options: opts, Catalog: store, Logger: logger})
			if err != nil {
				return err
			}
			logger.WithField("addr", srv.Addr).Info("rigtune running (state is in memory and resets on restart)")

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}
			logger.Info("shutdown signal received; stopping server")
			// wait for Shutdown to drain connections
			select {
			case err := <-errCh:
				return err
			case <-time.After(opts.HTTP.ShutdownTimeout + time.Second):
				return context.DeadlineExceeded
			}
		},
	}
	f := cmd.Flags()
	f.String("listen-addr", d.ListenAddr, "address to bind")
	f.String("static-dir", "", "directory with the built client to serve at /")
	f.StringSlice("allowed-origins", d.AllowedOrigins, "CORS origins allowed to call the API")
	f.Int("rate-limit-rps", d.RateLimit.RequestsPerSecond, "requests per second per client (0 disables)")
	f.Int("rate-limit-burst", d.RateLimit.Burst, "rate limit burst size")
	f.Duration("shutdown-timeout", d.HTTP.ShutdownTimeout, "graceful shutdown timeout")
	return cmd
}
