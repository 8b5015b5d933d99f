// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/luxfi/udex/cmd/udex/pool"
	"github.com/luxfi/udex/cmd/udex/run"
	"github.com/luxfi/udex/cmd/udex/status"
	"github.com/luxfi/udex/cmd/udex/version"
)

func init() {
	cobra.EnablePrefixMatching = true
}

func main() {
	cmd := &cobra.Command{
		Use:          "udex",
		Short:        "Runs and queries a udex node",
		SilenceUsage: true,
	}
	cmd.AddCommand(
		run.Command(),
		pool.Command(),
		status.Command(),
		version.Command(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "command failed %v\n", err)
		os.Exit(1)
	}
}
