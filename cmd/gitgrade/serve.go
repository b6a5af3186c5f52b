package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/thep200/gitgrade/cfg"
	"github.com/thep200/gitgrade/internal/keepalive"
	"github.com/thep200/gitgrade/internal/model"
	"github.com/thep200/gitgrade/internal/payment"
	"github.com/thep200/gitgrade/internal/server"
)

func newServeCmd(rf *rootFlags) *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API with the keep-alive loop",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(rf, port)
		},
	}
	cmd.Flags().IntVar(&port, "port", 0, "override Server.Port")
	return cmd
}

func runServe(rf *rootFlags, port int) error {
	a, err := bootstrap(rf)
	if err != nil {
		return err
	}
	defer a.close()
	if port > 0 {
		a.config.Server.Port = port
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a.loader.RegisterConfigChangeCallback(func(c *cfg.Config) {
		a.logger.Info(ctx, "Config reloaded, log level now %s (restart to apply server changes)", c.Log.Level)
	})

	deps := server.Deps{}
	store, err := a.analysisModel()
	if err != nil {
		return err
	}
	if store != nil {
		if err := a.conn.Migrate(&model.Analysis{}); err != nil {
			return err
		}
		deps.Analyses = store
		deps.DB = a.conn
	}

	producer := a.newProducer(ctx)
	if producer != nil {
		defer producer.Close()
	}

	deps.Analyzer, err = a.newAnalyzer(ctx, store, producer)
	if err != nil {
		return err
	}
	if gen, err := payment.NewGenerator(a.config); err != nil {
		a.logger.Warn(ctx, "Payment links disabled: %v", err)
	} else {
		deps.Payments = gen
	}

	handler, err := server.NewHandler(a.logger, a.config, deps)
	if err != nil {
		return err
	}
	srv, err := server.NewServer(a.logger, a.config, handler)
	if err != nil {
		return err
	}

	pinger, _ := keepalive.NewPinger(a.logger, a.config)
	go pinger.Run(ctx)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.logger.Info(context.Background(), "Received shutdown signal, gracefully shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

