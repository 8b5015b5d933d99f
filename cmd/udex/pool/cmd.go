// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pool

import (
	"fmt"

	"github.com/luxfi/geth/common"
	"github.com/spf13/cobra"

	"github.com/luxfi/udex/api"
	"github.com/luxfi/udex/registry"
)

func Command() *cobra.Command {
	c := &cobra.Command{
		Use:   "pool",
		Short: "Locates and inspects pools",
	}
	c.AddCommand(
		addressCommand(),
		getCommand(),
		createCommand(),
	)
	return c
}

func addressCommand() *cobra.Command {
	c := &cobra.Command{
		Use:   "address",
		Short: "Computes the address of the pool for a pair without a node",
		RunE:  addressFunc,
	}
	AddPairFlags(c.Flags())
	return c
}

func addressFunc(c *cobra.Command, args []string) error {
	pair, err := ParsePairFlags(c.Flags(), args)
	if err != nil {
		return err
	}
	addr, err := registry.PoolAddress(pair.Registry, pair.TokenA, pair.TokenB)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.OutOrStdout(), addr.Hex())
	return nil
}

func getCommand() *cobra.Command {
	c := &cobra.Command{
		Use:   "get",
		Short: "Prints the pool for a pair and its reserves",
		RunE:  getFunc,
	}
	flags := c.Flags()
	AddURIFlag(flags)
	AddPairFlags(flags)
	return c
}

func getFunc(c *cobra.Command, args []string) error {
	flags := c.Flags()
	pair, err := ParsePairFlags(flags, args)
	if err != nil {
		return err
	}
	uri, err := flags.GetString(URIKey)
	if err != nil {
		return err
	}

	ctx := c.Context()
	client := api.NewClient(uri)
	addr, err := client.GetPool(ctx, pair.Registry, pair.TokenA, pair.TokenB)
	if err != nil {
		return err
	}
	if addr == (common.Address{}) {
		return fmt.Errorf("no pool for %s and %s", pair.TokenA, pair.TokenB)
	}
	reserves, err := client.GetReserves(ctx, addr)
	if err != nil {
		return err
	}
	out := c.OutOrStdout()
	fmt.Fprintf(out, "pool %s\n", addr.Hex())
	fmt.Fprintf(out, "%s %s\n", reserves.Token0.Hex(), reserves.Reserve0.Dec())
	fmt.Fprintf(out, "%s %s\n", reserves.Token1.Hex(), reserves.Reserve1.Dec())
	return nil
}

func createCommand() *cobra.Command {
	c := &cobra.Command{
		Use:   "create",
		Short: "Creates the pool for a pair",
		RunE:  createFunc,
	}
	flags := c.Flags()
	AddURIFlag(flags)
	AddPairFlags(flags)
	flags.String(CallerKey, "", "Account submitting the call (required)")
	return c
}

func createFunc(c *cobra.Command, args []string) error {
	flags := c.Flags()
	pair, err := ParsePairFlags(flags, args)
	if err != nil {
		return err
	}
	caller, err := getAddress(flags, CallerKey)
	if err != nil {
		return err
	}
	uri, err := flags.GetString(URIKey)
	if err != nil {
		return err
	}

	addr, err := api.NewClient(uri).CreatePool(c.Context(), caller, pair.Registry, pair.TokenA, pair.TokenB)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.OutOrStdout(), "created pool %s\n", addr.Hex())
	return nil
}
