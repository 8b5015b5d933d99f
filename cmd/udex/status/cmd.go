// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package status

import (
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/luxfi/udex/api"
	"github.com/luxfi/udex/metrics"
)

const URIKey = "uri"

var errUnhealthy = errors.New("node is unhealthy")

func Command() *cobra.Command {
	c := &cobra.Command{
		Use:   "status",
		Short: "Reports the health and metrics of a running node",
	}
	c.PersistentFlags().String(URIKey, "http://127.0.0.1:9650", "API URI of the node to query")
	c.AddCommand(
		&cobra.Command{
			Use:   "health",
			Short: "Prints the health of the node",
			RunE:  healthFunc,
		},
		&cobra.Command{
			Use:   "metrics",
			Short: "Lists the metric families the node exports",
			RunE:  metricsFunc,
		},
	)
	return c
}

func healthFunc(c *cobra.Command, _ []string) error {
	uri, err := c.Flags().GetString(URIKey)
	if err != nil {
		return err
	}
	reply, err := api.NewClient(uri).Health(c.Context())
	if err != nil {
		return err
	}
	fmt.Fprintf(c.OutOrStdout(), "healthy: %t\nchecks: %v\n", reply.Healthy, reply.Checks)
	if !reply.Healthy {
		return fmt.Errorf("%w: %s", errUnhealthy, reply.Error)
	}
	return nil
}

func metricsFunc(c *cobra.Command, _ []string) error {
	uri, err := c.Flags().GetString(URIKey)
	if err != nil {
		return err
	}
	families, err := metrics.NewClient(uri).GetMetrics(c.Context())
	if err != nil {
		return err
	}

	names := make([]string, 0, len(families))
	for name := range families {
		names = append(names, name)
	}
	sort.Strings(names)
	out := c.OutOrStdout()
	for _, name := range names {
		fmt.Fprintln(out, name)
	}
	return nil
}
