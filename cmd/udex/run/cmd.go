// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package run

import (
	"context"
	"fmt"
	"net"

	"github.com/luxfi/log"
	"github.com/luxfi/utils/ulimit"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/luxfi/udex"
	"github.com/luxfi/udex/api/server"
	"github.com/luxfi/udex/config"
	"github.com/luxfi/udex/metrics"
)

func Command() *cobra.Command {
	c := &cobra.Command{
		Use:   "run",
		Short: "Runs a udex node",
		RunE:  runFunc,
	}
	flags := c.Flags()
	AddFlags(flags)
	return c
}

func runFunc(c *cobra.Command, args []string) error {
	cfg, err := ParseFlags(c.Flags(), args)
	if err != nil {
		return err
	}
	return Run(c.Context(), cfg)
}

// Run serves a node with cfg until ctx is canceled or the server fails.
func Run(ctx context.Context, cfg config.Config) error {
	logger, err := cfg.Logger()
	if err != nil {
		return err
	}
	if err := ulimit.Set(ulimit.DefaultFDLimit, logger); err != nil {
		return fmt.Errorf("failed to set fd limit: %w", err)
	}

	gatherer := metrics.NewPrefixGatherer()
	apiRegistry, err := metrics.MakeAndRegister(gatherer, "api")
	if err != nil {
		return err
	}
	vm, err := startVM(ctx, cfg, logger, gatherer)
	if err != nil {
		return err
	}
	defer func() {
		if err := vm.Shutdown(context.Background()); err != nil {
			logger.Error("failed to shut down VM", "error", err)
		}
	}()

	listener, err := net.Listen("tcp", cfg.Address())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", cfg.Address(), err)
	}
	apiServer, err := server.New(
		logger,
		listener,
		cfg.AllowedOrigins,
		cfg.ShutdownTimeout,
		apiRegistry,
		server.HTTPConfig{
			ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		},
	)
	if err != nil {
		_ = listener.Close()
		return err
	}

	handlers, err := vm.CreateHandlers(ctx)
	if err != nil {
		_ = listener.Close()
		return err
	}
	if cfg.MetricsEnabled {
		handlers["metrics"] = promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
	}
	for endpoint, handler := range handlers {
		if err := apiServer.AddRoute(handler, endpoint); err != nil {
			_ = listener.Close()
			return err
		}
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(apiServer.Dispatch)
	eg.Go(func() error {
		<-egCtx.Done()
		logger.Info("shutting down API server")
		return apiServer.Shutdown()
	})
	return eg.Wait()
}

// startVM opens the database and initializes a VM on it. The database is
// closed unless the VM takes ownership of it.
func startVM(ctx context.Context, cfg config.Config, logger log.Logger, gatherer metrics.MultiGatherer) (*udex.VM, error) {
	db, err := udex.OpenDatabase(cfg)
	if err != nil {
		return nil, err
	}
	owned := false
	defer func() {
		if owned {
			return
		}
		if err := db.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	vmRegistry, err := metrics.MakeAndRegister(gatherer, "udex")
	if err != nil {
		return nil, err
	}
	factory := &udex.Factory{Config: cfg}
	vm, err := factory.New(logger)
	if err != nil {
		return nil, err
	}
	if err := vm.Initialize(ctx, db, vmRegistry); err != nil {
		return nil, err
	}
	owned = true
	return vm, nil
}
