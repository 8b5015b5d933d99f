// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package api

import (
	"context"
	"net/http"

	"github.com/holiman/uint256"
	"github.com/luxfi/geth/common"

	"github.com/luxfi/udex/utils/json"
	"github.com/luxfi/udex/utils/rpc"
)

// Endpoint is the path the service is served at.
const Endpoint = "/ext/udex"

// Client for interacting with the udex API.
type Client struct {
	uri    string
	client *http.Client
}

// NewClient returns a client for the node at uri, e.g.
// "http://127.0.0.1:9650".
func NewClient(uri string) *Client {
	return &Client{
		uri:    uri + Endpoint,
		client: http.DefaultClient,
	}
}

func (c *Client) call(ctx context.Context, method string, args, reply interface{}) error {
	return rpc.SendJSONRequest(ctx, c.client, c.uri, "udex."+method, args, reply)
}

func (c *Client) Health(ctx context.Context) (*HealthReply, error) {
	reply := &HealthReply{}
	err := c.call(ctx, "health", &HealthArgs{}, reply)
	return reply, err
}

func (c *Client) GetPool(ctx context.Context, registry, tokenA, tokenB common.Address) (common.Address, error) {
	reply := &PoolReply{}
	err := c.call(ctx, "getPool", &PairArgs{
		Registry: registry,
		TokenA:   tokenA,
		TokenB:   tokenB,
	}, reply)
	return reply.Pool, err
}

func (c *Client) PoolAddress(ctx context.Context, registry, tokenA, tokenB common.Address) (common.Address, error) {
	reply := &PoolReply{}
	err := c.call(ctx, "poolAddress", &PairArgs{
		Registry: registry,
		TokenA:   tokenA,
		TokenB:   tokenB,
	}, reply)
	return reply.Pool, err
}

func (c *Client) CreatePool(ctx context.Context, caller, registry, tokenA, tokenB common.Address) (common.Address, error) {
	reply := &PoolReply{}
	err := c.call(ctx, "createPool", &CreatePoolArgs{
		PairArgs: PairArgs{
			Registry: registry,
			TokenA:   tokenA,
			TokenB:   tokenB,
		},
		Caller: caller,
	}, reply)
	return reply.Pool, err
}

// AllPools returns up to limit pools starting at startIndex, and the total
// number of pools.
func (c *Client) AllPools(ctx context.Context, registry common.Address, startIndex uint64, limit int) ([]common.Address, uint64, error) {
	reply := &AllPoolsReply{}
	err := c.call(ctx, "allPools", &AllPoolsArgs{
		Registry:   registry,
		StartIndex: json.Uint64(startIndex),
		Limit:      limit,
	}, reply)
	return reply.Pools, uint64(reply.Count), err
}

func (c *Client) GetReserves(ctx context.Context, pool common.Address) (*GetReservesReply, error) {
	reply := &GetReservesReply{}
	err := c.call(ctx, "getReserves", &PoolArgs{Pool: pool}, reply)
	return reply, err
}

func (c *Client) GetPoolInfo(ctx context.Context, pool common.Address) (*GetPoolInfoReply, error) {
	reply := &GetPoolInfoReply{}
	err := c.call(ctx, "getPoolInfo", &PoolArgs{Pool: pool}, reply)
	return reply, err
}

func (c *Client) TotalSupply(ctx context.Context, asset common.Address) (*uint256.Int, error) {
	reply := &AmountReply{}
	err := c.call(ctx, "totalSupply", &AssetArgs{Asset: asset}, reply)
	return reply.Amount, err
}

func (c *Client) BalanceOf(ctx context.Context, asset, account common.Address) (*uint256.Int, error) {
	reply := &AmountReply{}
	err := c.call(ctx, "balanceOf", &BalanceOfArgs{
		Asset:   asset,
		Account: account,
	}, reply)
	return reply.Amount, err
}

func (c *Client) Allowance(ctx context.Context, asset, owner, spender common.Address) (*uint256.Int, error) {
	reply := &AmountReply{}
	err := c.call(ctx, "allowance", &AllowanceArgs{
		Asset:   asset,
		Owner:   owner,
		Spender: spender,
	}, reply)
	return reply.Amount, err
}

func (c *Client) GetLogs(ctx context.Context, from uint64, limit int) (*GetLogsReply, error) {
	reply := &GetLogsReply{}
	err := c.call(ctx, "getLogs", &GetLogsArgs{
		From:  json.Uint64(from),
		Limit: limit,
	}, reply)
	return reply, err
}
