// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package api provides the JSON-RPC API of the udex VM.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/holiman/uint256"
	"github.com/luxfi/geth/common"
	"github.com/luxfi/geth/common/hexutil"
	"github.com/luxfi/geth/core/types"
	"github.com/luxfi/log"

	"github.com/luxfi/udex/pool"
	"github.com/luxfi/udex/registry"
	"github.com/luxfi/udex/utils/json"
)

// MaxPageSize bounds the number of items returned by a single paged call.
const MaxPageSize = 1024

var ErrInvalidRequest = errors.New("invalid request")

// VM interface for the API service.
type VM interface {
	GetPool(registry, tokenA, tokenB common.Address) (common.Address, error)
	AllPoolsLength(registry common.Address) (uint64, error)
	AllPools(registry common.Address, i uint64) (common.Address, error)
	CreatePool(ctx context.Context, caller, registry, tokenA, tokenB common.Address) (common.Address, error)
	Pool(addr common.Address) (*pool.Info, error)

	TotalSupply(asset common.Address) (*uint256.Int, error)
	BalanceOf(asset, account common.Address) (*uint256.Int, error)
	Allowance(asset, owner, spender common.Address) (*uint256.Int, error)

	Logs(from uint64, limit int) ([]*types.Log, error)
	LogCount() (uint64, error)

	// HealthCheck returns details about the VM's health and a non-nil error
	// if it is unhealthy.
	HealthCheck(context.Context) (interface{}, error)
}

// Service provides the RPC API for the udex VM.
type Service struct {
	vm  VM
	log log.Logger
}

// NewService creates a new API service.
func NewService(vm VM, log log.Logger) *Service {
	return &Service{
		vm:  vm,
		log: log,
	}
}

// ============================================
// Health APIs
// ============================================

// HealthArgs is the argument for the Health API.
type HealthArgs struct{}

// HealthReply is the reply for the Health API.
type HealthReply struct {
	Healthy bool        `json:"healthy"`
	Checks  interface{} `json:"checks"`
	Error   string      `json:"error,omitempty"`
}

// Health reports whether the VM is serving calls.
func (s *Service) Health(r *http.Request, _ *HealthArgs, reply *HealthReply) error {
	checks, err := s.vm.HealthCheck(r.Context())
	reply.Healthy = err == nil
	reply.Checks = checks
	if err != nil {
		reply.Error = err.Error()
	}
	return nil
}

// ============================================
// Registry APIs
// ============================================

// PairArgs names a token pair under a registry.
type PairArgs struct {
	Registry common.Address `json:"registry"`
	TokenA   common.Address `json:"tokenA"`
	TokenB   common.Address `json:"tokenB"`
}

// PoolReply is the reply for APIs returning a pool address.
type PoolReply struct {
	Pool common.Address `json:"pool"`
}

// GetPool returns the pool for a pair, or the zero address if there is none.
func (s *Service) GetPool(_ *http.Request, args *PairArgs, reply *PoolReply) error {
	s.log.Debug("API called",
		"service", "udex",
		"method", "getPool",
		"registry", args.Registry,
	)

	var err error
	reply.Pool, err = s.vm.GetPool(args.Registry, args.TokenA, args.TokenB)
	return err
}

// PoolAddress computes the address the pool for a pair has, or will have,
// without reading state.
func (s *Service) PoolAddress(_ *http.Request, args *PairArgs, reply *PoolReply) error {
	var err error
	reply.Pool, err = registry.PoolAddress(args.Registry, args.TokenA, args.TokenB)
	return err
}

// CreatePoolArgs is the argument for the CreatePool API.
type CreatePoolArgs struct {
	PairArgs
	Caller common.Address `json:"caller"`
}

// CreatePool creates the pool for a pair.
func (s *Service) CreatePool(r *http.Request, args *CreatePoolArgs, reply *PoolReply) error {
	s.log.Debug("API called",
		"service", "udex",
		"method", "createPool",
		"registry", args.Registry,
		"caller", args.Caller,
	)

	var err error
	reply.Pool, err = s.vm.CreatePool(r.Context(), args.Caller, args.Registry, args.TokenA, args.TokenB)
	return err
}

// AllPoolsArgs is the argument for the AllPools API.
type AllPoolsArgs struct {
	Registry   common.Address `json:"registry"`
	StartIndex json.Uint64    `json:"startIndex"`
	Limit      int            `json:"limit"`
}

// AllPoolsReply is the reply for the AllPools API.
type AllPoolsReply struct {
	Pools []common.Address `json:"pools"`
	// Count is the total number of pools in the registry.
	Count json.Uint64 `json:"count"`
}

// AllPools pages through the pools of a registry in creation order.
func (s *Service) AllPools(_ *http.Request, args *AllPoolsArgs, reply *AllPoolsReply) error {
	if args.Limit <= 0 || args.Limit > MaxPageSize {
		return fmt.Errorf("%w: limit %d not in [1, %d]", ErrInvalidRequest, args.Limit, MaxPageSize)
	}

	count, err := s.vm.AllPoolsLength(args.Registry)
	if err != nil {
		return err
	}
	reply.Count = json.Uint64(count)
	reply.Pools = []common.Address{}
	for i := uint64(args.StartIndex); i < count && len(reply.Pools) < args.Limit; i++ {
		addr, err := s.vm.AllPools(args.Registry, i)
		if err != nil {
			return err
		}
		reply.Pools = append(reply.Pools, addr)
	}
	return nil
}

// ============================================
// Pool APIs
// ============================================

// PoolArgs names a pool.
type PoolArgs struct {
	Pool common.Address `json:"pool"`
}

// GetReservesReply is the reply for the GetReserves API.
type GetReservesReply struct {
	Token0   common.Address `json:"token0"`
	Token1   common.Address `json:"token1"`
	Reserve0 *uint256.Int   `json:"reserve0"`
	Reserve1 *uint256.Int   `json:"reserve1"`
}

// GetReserves returns the pair and the recorded reserves of a pool.
func (s *Service) GetReserves(_ *http.Request, args *PoolArgs, reply *GetReservesReply) error {
	info, err := s.vm.Pool(args.Pool)
	if err != nil {
		return err
	}
	reply.Token0 = info.Token0
	reply.Token1 = info.Token1
	reply.Reserve0 = info.Reserve0
	reply.Reserve1 = info.Reserve1
	return nil
}

// GetPoolInfoReply is the reply for the GetPoolInfo API.
type GetPoolInfoReply struct {
	Registry    common.Address `json:"registry"`
	Token0      common.Address `json:"token0"`
	Token1      common.Address `json:"token1"`
	Reserve0    *uint256.Int   `json:"reserve0"`
	Reserve1    *uint256.Int   `json:"reserve1"`
	TotalSupply *uint256.Int   `json:"totalSupply"`
}

// GetPoolInfo returns the whole read surface of a pool.
func (s *Service) GetPoolInfo(_ *http.Request, args *PoolArgs, reply *GetPoolInfoReply) error {
	info, err := s.vm.Pool(args.Pool)
	if err != nil {
		return err
	}
	*reply = GetPoolInfoReply{
		Registry:    info.Factory,
		Token0:      info.Token0,
		Token1:      info.Token1,
		Reserve0:    info.Reserve0,
		Reserve1:    info.Reserve1,
		TotalSupply: info.TotalSupply,
	}
	return nil
}

// ============================================
// Token APIs
// ============================================

// The token APIs serve both tokens and pool shares.

// AssetArgs names a token or a pool.
type AssetArgs struct {
	Asset common.Address `json:"asset"`
}

// AmountReply is the reply for APIs returning an amount.
type AmountReply struct {
	Amount *uint256.Int `json:"amount"`
}

// TotalSupply returns the supply of an asset.
func (s *Service) TotalSupply(_ *http.Request, args *AssetArgs, reply *AmountReply) error {
	var err error
	reply.Amount, err = s.vm.TotalSupply(args.Asset)
	return err
}

// BalanceOfArgs is the argument for the BalanceOf API.
type BalanceOfArgs struct {
	Asset   common.Address `json:"asset"`
	Account common.Address `json:"account"`
}

// BalanceOf returns the balance of an account.
func (s *Service) BalanceOf(_ *http.Request, args *BalanceOfArgs, reply *AmountReply) error {
	var err error
	reply.Amount, err = s.vm.BalanceOf(args.Asset, args.Account)
	return err
}

// AllowanceArgs is the argument for the Allowance API.
type AllowanceArgs struct {
	Asset   common.Address `json:"asset"`
	Owner   common.Address `json:"owner"`
	Spender common.Address `json:"spender"`
}

// Allowance returns what spender may move on behalf of owner.
func (s *Service) Allowance(_ *http.Request, args *AllowanceArgs, reply *AmountReply) error {
	var err error
	reply.Amount, err = s.vm.Allowance(args.Asset, args.Owner, args.Spender)
	return err
}

// ============================================
// Log APIs
// ============================================

// GetLogsArgs is the argument for the GetLogs API.
type GetLogsArgs struct {
	From  json.Uint64 `json:"from"`
	Limit int         `json:"limit"`
}

// Log is a committed event.
type Log struct {
	Index   json.Uint64    `json:"index"`
	Address common.Address `json:"address"`
	Topics  []common.Hash  `json:"topics"`
	Data    hexutil.Bytes  `json:"data"`
}

// GetLogsReply is the reply for the GetLogs API.
type GetLogsReply struct {
	Logs []Log `json:"logs"`
	// Count is the total number of committed events.
	Count json.Uint64 `json:"count"`
}

// GetLogs pages through committed events in commit order.
func (s *Service) GetLogs(_ *http.Request, args *GetLogsArgs, reply *GetLogsReply) error {
	if args.Limit <= 0 || args.Limit > MaxPageSize {
		return fmt.Errorf("%w: limit %d not in [1, %d]", ErrInvalidRequest, args.Limit, MaxPageSize)
	}

	count, err := s.vm.LogCount()
	if err != nil {
		return err
	}
	logs, err := s.vm.Logs(uint64(args.From), args.Limit)
	if err != nil {
		return err
	}

	reply.Count = json.Uint64(count)
	reply.Logs = make([]Log, len(logs))
	for i, l := range logs {
		reply.Logs[i] = Log{
			Index:   json.Uint64(l.Index),
			Address: l.Address,
			Topics:  l.Topics,
			Data:    l.Data,
		}
	}
	return nil
}
