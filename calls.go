// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package udex

import (
	"context"
	"fmt"

	"github.com/holiman/uint256"
	"github.com/luxfi/geth/common"

	"github.com/luxfi/udex/pool"
	"github.com/luxfi/udex/registry"
	"github.com/luxfi/udex/state"
	"github.com/luxfi/udex/token"
)

var (
	_ fungible = token.Token{}
	_ fungible = (*pool.Pool)(nil)
)

// fungible is implemented by tokens and by pool shares.
type fungible interface {
	TotalSupply(tx *state.Tx) (*uint256.Int, error)
	BalanceOf(tx *state.Tx, account common.Address) (*uint256.Int, error)
	Allowance(tx *state.Tx, owner, spender common.Address) (*uint256.Int, error)
	Transfer(tx *state.Tx, sender, to common.Address, amount *uint256.Int) error
	Approve(tx *state.Tx, owner, spender common.Address, amount *uint256.Int) error
	TransferFrom(tx *state.Tx, spender, from, to common.Address, amount *uint256.Int) error
}

type pairKey struct {
	registry common.Address
	token0   common.Address
	token1   common.Address
}

// DeployToken creates a token whose whole initial supply belongs to caller.
func (vm *VM) DeployToken(
	ctx context.Context,
	caller common.Address,
	meta token.Metadata,
	initialSupply *uint256.Int,
) (common.Address, error) {
	var addr common.Address
	_, err := vm.Execute(ctx, caller, "deployToken", func(tx *state.Tx) error {
		t, err := token.Deploy(tx, caller, meta, initialSupply)
		addr = t.Address
		return err
	})
	return addr, err
}

// DeployRegistry creates an empty pool registry.
func (vm *VM) DeployRegistry(ctx context.Context, caller common.Address) (common.Address, error) {
	var addr common.Address
	_, err := vm.Execute(ctx, caller, "deployRegistry", func(tx *state.Tx) error {
		r, err := registry.Deploy(tx, caller, vm.ledger)
		if err != nil {
			return err
		}
		addr = r.Address
		return nil
	})
	if err != nil {
		return common.Address{}, err
	}
	vm.log.Info("registry deployed",
		"registry", addr,
		"deployer", caller,
	)
	return addr, nil
}

// CreatePool creates the pool for a pair under registryAddr.
func (vm *VM) CreatePool(
	ctx context.Context,
	caller common.Address,
	registryAddr common.Address,
	tokenA common.Address,
	tokenB common.Address,
) (common.Address, error) {
	var addr common.Address
	events, err := vm.Execute(ctx, caller, "createPool", func(tx *state.Tx) error {
		r, err := registry.Lookup(tx, registryAddr, vm.ledger)
		if err != nil {
			return err
		}
		addr, err = r.CreatePool(tx, tokenA, tokenB)
		return err
	})
	if err != nil {
		return common.Address{}, err
	}

	for _, e := range events {
		created, ok := e.(registry.PoolCreatedEvent)
		if !ok {
			continue
		}
		vm.pools.Add(pairKey{
			registry: created.Registry,
			token0:   created.Token0,
			token1:   created.Token1,
		}, created.Pool)
		vm.metrics.SetPools(created.Count)
		vm.log.Info("pool created",
			"registry", created.Registry,
			"token0", created.Token0,
			"token1", created.Token1,
			"pool", created.Pool,
			"count", created.Count,
		)
	}
	return addr, nil
}

// GetPool returns the pool for the pair in either order, or the zero address
// if there is none.
func (vm *VM) GetPool(registryAddr, tokenA, tokenB common.Address) (common.Address, error) {
	token0, token1, err := registry.SortTokens(tokenA, tokenB)
	if err != nil {
		// Invalid pairs never have a pool.
		return common.Address{}, nil
	}
	key := pairKey{
		registry: registryAddr,
		token0:   token0,
		token1:   token1,
	}
	var addr common.Address
	err = vm.View(func(tx *state.Tx) error {
		if cached, ok := vm.pools.Get(key); ok {
			addr = cached.(common.Address)
			return nil
		}
		r, err := registry.Lookup(tx, registryAddr, vm.ledger)
		if err != nil {
			return err
		}
		addr, err = r.GetPool(tx, token0, token1)
		if err != nil {
			return err
		}
		if addr != (common.Address{}) {
			vm.pools.Add(key, addr)
		}
		return nil
	})
	return addr, err
}

// AllPoolsLength returns the number of pools created under registryAddr.
func (vm *VM) AllPoolsLength(registryAddr common.Address) (uint64, error) {
	var length uint64
	err := vm.View(func(tx *state.Tx) error {
		r, err := registry.Lookup(tx, registryAddr, vm.ledger)
		if err != nil {
			return err
		}
		length, err = r.AllPoolsLength(tx)
		return err
	})
	return length, err
}

// AllPools returns the i-th pool created under registryAddr, or the zero
// address if i is out of range.
func (vm *VM) AllPools(registryAddr common.Address, i uint64) (common.Address, error) {
	var addr common.Address
	err := vm.View(func(tx *state.Tx) error {
		r, err := registry.Lookup(tx, registryAddr, vm.ledger)
		if err != nil {
			return err
		}
		addr, err = r.AllPools(tx, i)
		return err
	})
	return addr, err
}

// Pool returns a snapshot of the pool at addr.
func (vm *VM) Pool(addr common.Address) (*pool.Info, error) {
	var info *pool.Info
	err := vm.View(func(tx *state.Tx) error {
		p, err := pool.Lookup(tx, addr, vm.ledger)
		if err != nil {
			return err
		}
		info, err = p.Info(tx)
		return err
	})
	return info, err
}

// Reserves returns the recorded reserves of the pool at addr.
func (vm *VM) Reserves(addr common.Address) (*uint256.Int, *uint256.Int, error) {
	var reserve0, reserve1 *uint256.Int
	err := vm.View(func(tx *state.Tx) error {
		p, err := pool.Lookup(tx, addr, vm.ledger)
		if err != nil {
			return err
		}
		reserve0, reserve1, err = p.Reserves(tx)
		return err
	})
	return reserve0, reserve1, err
}

// Mint issues shares to to for the deposits made to the pool since its last
// update.
func (vm *VM) Mint(ctx context.Context, caller, poolAddr, to common.Address) (*uint256.Int, error) {
	var liquidity *uint256.Int
	err := vm.callPool(ctx, caller, poolAddr, "mint", func(tx *state.Tx, p *pool.Pool) error {
		var err error
		liquidity, err = p.Mint(tx, caller, to)
		return err
	})
	return liquidity, err
}

// Burn redeems the shares held by the pool itself and pays the underlying
// tokens to to.
func (vm *VM) Burn(ctx context.Context, caller, poolAddr, to common.Address) (*uint256.Int, *uint256.Int, error) {
	var amount0, amount1 *uint256.Int
	err := vm.callPool(ctx, caller, poolAddr, "burn", func(tx *state.Tx, p *pool.Pool) error {
		var err error
		amount0, amount1, err = p.Burn(tx, caller, to)
		return err
	})
	return amount0, amount1, err
}

// Swap pays out the requested amounts, optionally calls back to, and
// enforces the constant product. A failure leaves no trace of the payout.
func (vm *VM) Swap(
	ctx context.Context,
	caller common.Address,
	poolAddr common.Address,
	amount0Out *uint256.Int,
	amount1Out *uint256.Int,
	to common.Address,
	data []byte,
) error {
	return vm.callPool(ctx, caller, poolAddr, "swap", func(tx *state.Tx, p *pool.Pool) error {
		return p.Swap(tx, caller, amount0Out, amount1Out, to, data)
	})
}

// Skim sends the pool's balances in excess of its reserves to to.
func (vm *VM) Skim(ctx context.Context, caller, poolAddr, to common.Address) error {
	return vm.callPool(ctx, caller, poolAddr, "skim", func(tx *state.Tx, p *pool.Pool) error {
		return p.Skim(tx, to)
	})
}

// Sync sets the pool's reserves to its balances.
func (vm *VM) Sync(ctx context.Context, caller, poolAddr common.Address) error {
	return vm.callPool(ctx, caller, poolAddr, "sync", func(tx *state.Tx, p *pool.Pool) error {
		return p.Sync(tx)
	})
}

func (vm *VM) callPool(
	ctx context.Context,
	caller common.Address,
	poolAddr common.Address,
	op string,
	fn func(*state.Tx, *pool.Pool) error,
) error {
	_, err := vm.Execute(ctx, caller, op, func(tx *state.Tx) error {
		p, err := pool.Lookup(tx, poolAddr, vm.ledger)
		if err != nil {
			return err
		}
		return fn(tx, p)
	})
	return err
}

// TotalSupply returns the supply of a token or of a pool's shares.
func (vm *VM) TotalSupply(asset common.Address) (*uint256.Int, error) {
	var supply *uint256.Int
	err := vm.View(func(tx *state.Tx) error {
		f, err := lookupFungible(tx, asset, vm.ledger)
		if err != nil {
			return err
		}
		supply, err = f.TotalSupply(tx)
		return err
	})
	return supply, err
}

// BalanceOf returns the balance of account in a token or in a pool's shares.
func (vm *VM) BalanceOf(asset, account common.Address) (*uint256.Int, error) {
	var balance *uint256.Int
	err := vm.View(func(tx *state.Tx) error {
		f, err := lookupFungible(tx, asset, vm.ledger)
		if err != nil {
			return err
		}
		balance, err = f.BalanceOf(tx, account)
		return err
	})
	return balance, err
}

// Allowance returns what spender may move on behalf of owner.
func (vm *VM) Allowance(asset, owner, spender common.Address) (*uint256.Int, error) {
	var allowance *uint256.Int
	err := vm.View(func(tx *state.Tx) error {
		f, err := lookupFungible(tx, asset, vm.ledger)
		if err != nil {
			return err
		}
		allowance, err = f.Allowance(tx, owner, spender)
		return err
	})
	return allowance, err
}

// Transfer moves amount of asset from caller to to.
func (vm *VM) Transfer(ctx context.Context, caller, asset, to common.Address, amount *uint256.Int) error {
	_, err := vm.Execute(ctx, caller, "transfer", func(tx *state.Tx) error {
		f, err := lookupFungible(tx, asset, vm.ledger)
		if err != nil {
			return err
		}
		return f.Transfer(tx, caller, to, amount)
	})
	return err
}

// Approve lets spender move up to amount of asset on behalf of caller.
func (vm *VM) Approve(ctx context.Context, caller, asset, spender common.Address, amount *uint256.Int) error {
	_, err := vm.Execute(ctx, caller, "approve", func(tx *state.Tx) error {
		f, err := lookupFungible(tx, asset, vm.ledger)
		if err != nil {
			return err
		}
		return f.Approve(tx, caller, spender, amount)
	})
	return err
}

// TransferFrom moves amount of asset from from to to against caller's
// allowance.
func (vm *VM) TransferFrom(
	ctx context.Context,
	caller common.Address,
	asset common.Address,
	from common.Address,
	to common.Address,
	amount *uint256.Int,
) error {
	_, err := vm.Execute(ctx, caller, "transferFrom", func(tx *state.Tx) error {
		f, err := lookupFungible(tx, asset, vm.ledger)
		if err != nil {
			return err
		}
		return f.TransferFrom(tx, caller, from, to, amount)
	})
	return err
}

func lookupFungible(tx *state.Tx, addr common.Address, ledger token.Ledger) (fungible, error) {
	code, err := tx.Code(addr)
	if err != nil {
		return nil, err
	}
	switch code {
	case token.Code:
		return token.At(addr), nil
	case pool.Code:
		return pool.At(addr, ledger), nil
	default:
		return nil, fmt.Errorf("%w: %s", token.ErrUnknownToken, addr)
	}
}
