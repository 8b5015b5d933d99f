// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pool

import (
	"github.com/holiman/uint256"
	"github.com/luxfi/geth/common"

	"github.com/luxfi/udex/state"
)

// Liquidity shares live in the token ledger under the pool's own address, so
// they move with the usual transfer and approval semantics.

func (p *Pool) TotalSupply(tx *state.Tx) (*uint256.Int, error) {
	return p.shares.TotalSupply(tx)
}

func (p *Pool) BalanceOf(tx *state.Tx, account common.Address) (*uint256.Int, error) {
	return p.shares.BalanceOf(tx, account)
}

func (p *Pool) Allowance(tx *state.Tx, owner, spender common.Address) (*uint256.Int, error) {
	return p.shares.Allowance(tx, owner, spender)
}

func (p *Pool) Transfer(tx *state.Tx, sender, to common.Address, amount *uint256.Int) error {
	if _, _, err := p.tokens(tx); err != nil {
		return err
	}
	return p.shares.Transfer(tx, sender, to, amount)
}

func (p *Pool) Approve(tx *state.Tx, owner, spender common.Address, amount *uint256.Int) error {
	if _, _, err := p.tokens(tx); err != nil {
		return err
	}
	return p.shares.Approve(tx, owner, spender, amount)
}

func (p *Pool) TransferFrom(tx *state.Tx, spender, from, to common.Address, amount *uint256.Int) error {
	if _, _, err := p.tokens(tx); err != nil {
		return err
	}
	return p.shares.TransferFrom(tx, spender, from, to, amount)
}
