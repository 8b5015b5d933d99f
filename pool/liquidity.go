// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pool

import (
	"fmt"

	"github.com/holiman/uint256"
	"github.com/luxfi/geth/common"

	"github.com/luxfi/udex/state"
	"github.com/luxfi/udex/utils/math"
)

// Mint issues shares to to for the tokens deposited since the last call and
// returns the number issued.
//
// The first deposit mints sqrt(amount0*amount1) shares, of which
// MinimumLiquidity go to BurnAddress. Later deposits are credited for the
// smaller of their two proportional contributions; the rest is donated to
// existing holders.
func (p *Pool) Mint(tx *state.Tx, sender, to common.Address) (*uint256.Int, error) {
	unlock, err := tx.Lock(p.Address)
	if err != nil {
		return nil, err
	}
	defer unlock()

	token0, token1, err := p.tokens(tx)
	if err != nil {
		return nil, err
	}
	reserve0, reserve1, err := p.Reserves(tx)
	if err != nil {
		return nil, err
	}
	balance0, balance1, err := p.balances(tx, token0, token1)
	if err != nil {
		return nil, err
	}
	amount0, err := math.Sub256(balance0, reserve0)
	if err != nil {
		return nil, fmt.Errorf("token0 balance below reserve: %w", err)
	}
	amount1, err := math.Sub256(balance1, reserve1)
	if err != nil {
		return nil, fmt.Errorf("token1 balance below reserve: %w", err)
	}

	totalSupply, err := p.shares.TotalSupply(tx)
	if err != nil {
		return nil, err
	}

	var liquidity *uint256.Int
	if totalSupply.IsZero() {
		product, err := math.Mul256(amount0, amount1)
		if err != nil {
			return nil, err
		}
		root := math.Sqrt256(product)
		if !root.Gt(MinimumLiquidity) {
			return nil, fmt.Errorf("%w: sqrt(%s*%s) = %s", ErrBelowMinimumLiquidity, amount0, amount1, root)
		}
		liquidity = new(uint256.Int).Sub(root, MinimumLiquidity)
		if err := p.shares.Mint(tx, BurnAddress, MinimumLiquidity); err != nil {
			return nil, err
		}
	} else {
		liquidity0, err := math.MulDiv(amount0, totalSupply, reserve0)
		if err != nil {
			return nil, err
		}
		liquidity1, err := math.MulDiv(amount1, totalSupply, reserve1)
		if err != nil {
			return nil, err
		}
		liquidity = math.Min256(liquidity0, liquidity1)
	}
	if liquidity.IsZero() {
		return nil, ErrInsufficientLiquidityMinted
	}

	if err := p.shares.Mint(tx, to, liquidity); err != nil {
		return nil, err
	}
	if err := p.update(tx, balance0, balance1); err != nil {
		return nil, err
	}
	if err := tx.Emit(MintEvent{
		Pool:    p.Address,
		Sender:  sender,
		Amount0: amount0,
		Amount1: amount1,
	}); err != nil {
		return nil, err
	}
	return liquidity, nil
}

// Burn redeems every share the pool holds, paying the pro-rata reserves to
// to. Shares must be transferred to the pool before the call.
func (p *Pool) Burn(tx *state.Tx, sender, to common.Address) (*uint256.Int, *uint256.Int, error) {
	unlock, err := tx.Lock(p.Address)
	if err != nil {
		return nil, nil, err
	}
	defer unlock()

	token0, token1, err := p.tokens(tx)
	if err != nil {
		return nil, nil, err
	}
	reserve0, reserve1, err := p.Reserves(tx)
	if err != nil {
		return nil, nil, err
	}
	liquidity, err := p.shares.BalanceOf(tx, p.Address)
	if err != nil {
		return nil, nil, err
	}
	if liquidity.IsZero() {
		return nil, nil, fmt.Errorf("%w: pool holds no shares", ErrInsufficientLiquidityBurned)
	}
	totalSupply, err := p.shares.TotalSupply(tx)
	if err != nil {
		return nil, nil, err
	}

	// Floor division leaves the remainder with the remaining holders.
	amount0, err := math.MulDiv(reserve0, liquidity, totalSupply)
	if err != nil {
		return nil, nil, err
	}
	amount1, err := math.MulDiv(reserve1, liquidity, totalSupply)
	if err != nil {
		return nil, nil, err
	}
	if amount0.IsZero() || amount1.IsZero() {
		return nil, nil, fmt.Errorf("%w: %s shares redeem (%s, %s)", ErrInsufficientLiquidityBurned, liquidity, amount0, amount1)
	}

	if err := p.shares.Burn(tx, p.Address, liquidity); err != nil {
		return nil, nil, err
	}
	if err := p.ledger.Transfer(tx, token0, p.Address, to, amount0); err != nil {
		return nil, nil, err
	}
	if err := p.ledger.Transfer(tx, token1, p.Address, to, amount1); err != nil {
		return nil, nil, err
	}

	balance0, balance1, err := p.balances(tx, token0, token1)
	if err != nil {
		return nil, nil, err
	}
	if err := p.update(tx, balance0, balance1); err != nil {
		return nil, nil, err
	}
	if err := tx.Emit(BurnEvent{
		Pool:    p.Address,
		Sender:  sender,
		Amount0: new(uint256.Int).Set(amount0),
		Amount1: new(uint256.Int).Set(amount1),
		To:      to,
	}); err != nil {
		return nil, nil, err
	}
	return amount0, amount1, nil
}
