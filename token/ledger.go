// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package token

import (
	"fmt"

	"github.com/holiman/uint256"
	"github.com/luxfi/geth/common"

	"github.com/luxfi/udex/state"
)

// Ledger resolves token addresses to deployed tokens. It is the token side of
// the pool's settlement boundary.
type Ledger struct{}

func (Ledger) BalanceOf(tx *state.Tx, token, account common.Address) (*uint256.Int, error) {
	t, err := Lookup(tx, token)
	if err != nil {
		return nil, err
	}
	return t.BalanceOf(tx, account)
}

func (Ledger) Transfer(tx *state.Tx, token, sender, to common.Address, amount *uint256.Int) error {
	t, err := Lookup(tx, token)
	if err != nil {
		return err
	}
	return t.Transfer(tx, sender, to, amount)
}

// Lookup returns the token at addr, failing if no standalone token is
// deployed there.
func Lookup(tx *state.Tx, addr common.Address) (Token, error) {
	code, err := tx.Code(addr)
	if err != nil {
		return Token{}, err
	}
	if code != Code {
		return Token{}, fmt.Errorf("%w: %s", ErrUnknownToken, addr)
	}
	return At(addr), nil
}
