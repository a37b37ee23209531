package main

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-betterform/internal/server"
)

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the registry generate, store and fetch endpoints",
		Long: `Serve starts the HTTP API that stores generated registry items for a
limited time and serves them to the shadcn CLI at /r/<id>.json.

Backends:
  memory    in-process map, lost on restart (default)
  postgres  table keyed by registry id (store.postgres.dsn)
  object    S3 compatible bucket (store.object.endpoint, store.object.bucket)`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := a.load(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

			st, err := openStore(ctx, cfg, reg, logger)
			if err != nil {
				return err
			}
			defer st.Close()

			srv, err := server.New(st,
				server.WithLogger(logger),
				server.WithBaseURL(cfg.Server.BaseURL),
				server.WithCORSOrigin(cfg.Server.CORSOrigin),
				server.WithRegistry(reg),
			)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithCancel(ctx)
			defer cancel()
			sweepDone := make(chan struct{})
			go func() {
				defer close(sweepDone)
				if err := st.Run(ctx, cfg.Store.SweepInterval); err != nil && !errors.Is(err, context.Canceled) {
					logger.WithError(err).Warn("sweeper stopped")
				}
			}()

			logger.WithField("backend", cfg.Store.Backend).
				WithField("ttl", cfg.Store.TTL.String()).
				Info("registry store ready")

			err = srv.ListenAndServe(ctx, cfg.Server.Addr)
			cancel()
			<-sweepDone
			return err
		},
	}
	cmd.Flags().String("addr", ":8080", "listen address")
	cmd.Flags().String("base-url", "", "public base URL for registry links (default derived from the request)")
	cmd.Flags().String("cors-origin", "*", "Access-Control-Allow-Origin value")
	cmd.Flags().String("backend", "memory", "store backend: memory, postgres or object")
	cmd.Flags().Duration("ttl", 24*time.Hour, "how long stored registries stay fetchable")
	return cmd
}
