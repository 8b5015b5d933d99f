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

// Fees are taken from the input side: of every FeeDenominator units paid in,
// FeeNumerator units count towards the invariant.
const (
	FeeNumerator   = 997
	FeeDenominator = 1000
)

var (
	feeDenominator = uint256.NewInt(FeeDenominator)
	feeTaken       = uint256.NewInt(FeeDenominator - FeeNumerator)
	feeScale       = uint256.NewInt(FeeDenominator * FeeDenominator)
)

// Swap pays amount0Out and amount1Out to to and then requires that the
// tokens sent in, net of fees, keep reserve0*reserve1 from decreasing.
//
// The payout happens first. If data is non-empty, to must be a registered
// Callee and is invoked with data before the check, which allows borrowing
// against the pool within the call. Any failure reverts the payout with the
// rest of the call.
func (p *Pool) Swap(
	tx *state.Tx,
	sender common.Address,
	amount0Out *uint256.Int,
	amount1Out *uint256.Int,
	to common.Address,
	data []byte,
) error {
	if amount0Out.IsZero() && amount1Out.IsZero() {
		return ErrInsufficientOutputAmount
	}

	unlock, err := tx.Lock(p.Address)
	if err != nil {
		return err
	}
	defer unlock()

	token0, token1, err := p.tokens(tx)
	if err != nil {
		return err
	}
	reserve0, reserve1, err := p.Reserves(tx)
	if err != nil {
		return err
	}
	if !amount0Out.Lt(reserve0) || !amount1Out.Lt(reserve1) {
		return fmt.Errorf("%w: want (%s, %s) of (%s, %s)",
			ErrInsufficientLiquidity, amount0Out, amount1Out, reserve0, reserve1)
	}
	if to == token0 || to == token1 {
		return fmt.Errorf("%w: %s is a pool token", ErrInvalidRecipient, to)
	}

	if !amount0Out.IsZero() {
		if err := p.ledger.Transfer(tx, token0, p.Address, to, amount0Out); err != nil {
			return err
		}
	}
	if !amount1Out.IsZero() {
		if err := p.ledger.Transfer(tx, token1, p.Address, to, amount1Out); err != nil {
			return err
		}
	}
	if len(data) > 0 {
		if err := p.callback(tx, sender, amount0Out, amount1Out, to, data); err != nil {
			return err
		}
	}

	balance0, balance1, err := p.balances(tx, token0, token1)
	if err != nil {
		return err
	}
	amount0In := amountIn(balance0, reserve0, amount0Out)
	amount1In := amountIn(balance1, reserve1, amount1Out)
	if amount0In.IsZero() && amount1In.IsZero() {
		return ErrInsufficientInputAmount
	}

	adjusted0, err := adjustedBalance(balance0, amount0In)
	if err != nil {
		return err
	}
	adjusted1, err := adjustedBalance(balance1, amount1In)
	if err != nil {
		return err
	}
	after, err := math.Mul256(adjusted0, adjusted1)
	if err != nil {
		return err
	}
	before, err := math.Mul256(reserve0, reserve1)
	if err != nil {
		return err
	}
	before, err = math.Mul256(before, feeScale)
	if err != nil {
		return err
	}
	if after.Lt(before) {
		return fmt.Errorf("%w: %s < %s", ErrInvariantViolation, after, before)
	}

	if err := p.update(tx, balance0, balance1); err != nil {
		return err
	}
	return tx.Emit(SwapEvent{
		Pool:       p.Address,
		Sender:     sender,
		Amount0In:  amount0In,
		Amount1In:  amount1In,
		Amount0Out: new(uint256.Int).Set(amount0Out),
		Amount1Out: new(uint256.Int).Set(amount1Out),
		To:         to,
	})
}

func (p *Pool) callback(
	tx *state.Tx,
	sender common.Address,
	amount0Out *uint256.Int,
	amount1Out *uint256.Int,
	to common.Address,
	data []byte,
) error {
	impl, ok := tx.External(to)
	if !ok {
		return fmt.Errorf("%w: %s cannot receive a flash swap", ErrInvalidRecipient, to)
	}
	callee, ok := impl.(Callee)
	if !ok {
		return fmt.Errorf("%w: %s cannot receive a flash swap", ErrInvalidRecipient, to)
	}
	return callee.OnSwap(tx, sender, amount0Out, amount1Out, data)
}

// amountIn returns how much of a token arrived beyond what the pool kept
// after paying out amountOut.
func amountIn(balance, reserve, amountOut *uint256.Int) *uint256.Int {
	kept := new(uint256.Int).Sub(reserve, amountOut)
	if balance.Gt(kept) {
		return new(uint256.Int).Sub(balance, kept)
	}
	return new(uint256.Int)
}

// adjustedBalance returns balance*1000 - amountIn*3.
func adjustedBalance(balance, amountIn *uint256.Int) (*uint256.Int, error) {
	scaled, err := math.Mul256(balance, feeDenominator)
	if err != nil {
		return nil, err
	}
	fee, err := math.Mul256(amountIn, feeTaken)
	if err != nil {
		return nil, err
	}
	return math.Sub256(scaled, fee)
}

// Skim sends to any balance in excess of the reserves.
func (p *Pool) Skim(tx *state.Tx, to common.Address) error {
	unlock, err := tx.Lock(p.Address)
	if err != nil {
		return err
	}
	defer unlock()

	token0, token1, err := p.tokens(tx)
	if err != nil {
		return err
	}
	reserve0, reserve1, err := p.Reserves(tx)
	if err != nil {
		return err
	}
	balance0, balance1, err := p.balances(tx, token0, token1)
	if err != nil {
		return err
	}
	excess0, err := math.Sub256(balance0, reserve0)
	if err != nil {
		return err
	}
	excess1, err := math.Sub256(balance1, reserve1)
	if err != nil {
		return err
	}
	if !excess0.IsZero() {
		if err := p.ledger.Transfer(tx, token0, p.Address, to, excess0); err != nil {
			return err
		}
	}
	if !excess1.IsZero() {
		if err := p.ledger.Transfer(tx, token1, p.Address, to, excess1); err != nil {
			return err
		}
	}
	return nil
}

// Sync sets the reserves to the current balances.
func (p *Pool) Sync(tx *state.Tx) error {
	unlock, err := tx.Lock(p.Address)
	if err != nil {
		return err
	}
	defer unlock()

	token0, token1, err := p.tokens(tx)
	if err != nil {
		return err
	}
	balance0, balance1, err := p.balances(tx, token0, token1)
	if err != nil {
		return err
	}
	return p.update(tx, balance0, balance1)
}
