// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package token implements the fungible token ledger that pools settle
// against. It follows ERC-20 semantics and also backs pool liquidity shares.
package token

import (
	"errors"
	"fmt"

	"github.com/holiman/uint256"
	"github.com/luxfi/geth/common"

	"github.com/luxfi/udex/state"
	"github.com/luxfi/udex/utils/math"
)

// Code marks an address holding a standalone token.
const Code = "erc20"

var (
	ErrInsufficientBalance   = errors.New("insufficient balance")
	ErrInsufficientAllowance = errors.New("insufficient allowance")
	ErrUnknownToken          = errors.New("unknown token")

	slotName     = state.Slot("erc20/name")
	slotSymbol   = state.Slot("erc20/symbol")
	slotDecimals = state.Slot("erc20/decimals")
	slotSupply   = state.Slot("erc20/supply")

	// MaxAllowance is an approval that transfers never decrement.
	MaxAllowance = new(uint256.Int).SetAllOne()
)

// Metadata describes a token.
type Metadata struct {
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals uint8  `json:"decimals"`
}

// Token is a handle on the balances stored at Address. It holds no state of
// its own; every method reads and writes through the given transaction.
type Token struct {
	Address common.Address
}

// At returns a handle for the token at addr.
func At(addr common.Address) Token {
	return Token{Address: addr}
}

// Deploy creates a new token owned by deployer and credits initialSupply to
// it. The address follows from the deployer and its nonce.
func Deploy(tx *state.Tx, deployer common.Address, meta Metadata, initialSupply *uint256.Int) (Token, error) {
	nonce, err := tx.NextNonce(deployer)
	if err != nil {
		return Token{}, err
	}
	t := At(state.CreateAddress(deployer, nonce))
	if err := tx.Deploy(t.Address, Code); err != nil {
		return Token{}, err
	}
	if err := t.SetMetadata(tx, meta); err != nil {
		return Token{}, err
	}
	if err := t.Mint(tx, deployer, initialSupply); err != nil {
		return Token{}, err
	}
	return t, nil
}

// SetMetadata writes the descriptive fields of the token.
func (t Token) SetMetadata(tx *state.Tx, meta Metadata) error {
	if err := tx.Put(t.Address, slotName, []byte(meta.Name)); err != nil {
		return err
	}
	if err := tx.Put(t.Address, slotSymbol, []byte(meta.Symbol)); err != nil {
		return err
	}
	return tx.PutUint(t.Address, slotDecimals, uint256.NewInt(uint64(meta.Decimals)))
}

// Metadata reads the descriptive fields of the token.
func (t Token) Metadata(tx *state.Tx) (Metadata, error) {
	name, err := tx.Get(t.Address, slotName)
	if err != nil {
		return Metadata{}, err
	}
	symbol, err := tx.Get(t.Address, slotSymbol)
	if err != nil {
		return Metadata{}, err
	}
	decimals, err := tx.GetUint(t.Address, slotDecimals)
	if err != nil {
		return Metadata{}, err
	}
	return Metadata{
		Name:     string(name),
		Symbol:   string(symbol),
		Decimals: uint8(decimals.Uint64()),
	}, nil
}

func (t Token) TotalSupply(tx *state.Tx) (*uint256.Int, error) {
	return tx.GetUint(t.Address, slotSupply)
}

func (t Token) BalanceOf(tx *state.Tx, account common.Address) (*uint256.Int, error) {
	return tx.GetUint(t.Address, balanceSlot(account))
}

func (t Token) Allowance(tx *state.Tx, owner, spender common.Address) (*uint256.Int, error) {
	return tx.GetUint(t.Address, allowanceSlot(owner, spender))
}

// Transfer moves amount from sender to to.
func (t Token) Transfer(tx *state.Tx, sender, to common.Address, amount *uint256.Int) error {
	return t.move(tx, sender, to, amount)
}

// Approve sets the amount spender may move out of owner's balance.
func (t Token) Approve(tx *state.Tx, owner, spender common.Address, amount *uint256.Int) error {
	if err := tx.PutUint(t.Address, allowanceSlot(owner, spender), amount); err != nil {
		return err
	}
	return tx.Emit(ApprovalEvent{
		Token:   t.Address,
		Owner:   owner,
		Spender: spender,
		Value:   new(uint256.Int).Set(amount),
	})
}

// TransferFrom moves amount from from to to on behalf of spender, consuming
// spender's allowance unless it is MaxAllowance.
func (t Token) TransferFrom(tx *state.Tx, spender, from, to common.Address, amount *uint256.Int) error {
	allowance, err := t.Allowance(tx, from, spender)
	if err != nil {
		return err
	}
	if !allowance.Eq(MaxAllowance) {
		remaining, err := math.Sub256(allowance, amount)
		if err != nil {
			return fmt.Errorf("%w: %s may spend %s of %s, wants %s",
				ErrInsufficientAllowance, spender, allowance, from, amount)
		}
		if err := tx.PutUint(t.Address, allowanceSlot(from, spender), remaining); err != nil {
			return err
		}
	}
	return t.move(tx, from, to, amount)
}

// Mint creates amount new units for to.
func (t Token) Mint(tx *state.Tx, to common.Address, amount *uint256.Int) error {
	supply, err := t.TotalSupply(tx)
	if err != nil {
		return err
	}
	supply, err = math.Add256(supply, amount)
	if err != nil {
		return err
	}
	balance, err := t.BalanceOf(tx, to)
	if err != nil {
		return err
	}
	balance, err = math.Add256(balance, amount)
	if err != nil {
		return err
	}
	if err := tx.PutUint(t.Address, slotSupply, supply); err != nil {
		return err
	}
	if err := tx.PutUint(t.Address, balanceSlot(to), balance); err != nil {
		return err
	}
	return tx.Emit(TransferEvent{
		Token: t.Address,
		To:    to,
		Value: new(uint256.Int).Set(amount),
	})
}

// Burn destroys amount units held by from.
func (t Token) Burn(tx *state.Tx, from common.Address, amount *uint256.Int) error {
	balance, err := t.BalanceOf(tx, from)
	if err != nil {
		return err
	}
	balance, err = math.Sub256(balance, amount)
	if err != nil {
		return fmt.Errorf("%w: %s holds less than %s", ErrInsufficientBalance, from, amount)
	}
	supply, err := t.TotalSupply(tx)
	if err != nil {
		return err
	}
	supply, err = math.Sub256(supply, amount)
	if err != nil {
		return err
	}
	if err := tx.PutUint(t.Address, balanceSlot(from), balance); err != nil {
		return err
	}
	if err := tx.PutUint(t.Address, slotSupply, supply); err != nil {
		return err
	}
	return tx.Emit(TransferEvent{
		Token: t.Address,
		From:  from,
		Value: new(uint256.Int).Set(amount),
	})
}

func (t Token) move(tx *state.Tx, from, to common.Address, amount *uint256.Int) error {
	fromBalance, err := t.BalanceOf(tx, from)
	if err != nil {
		return err
	}
	fromBalance, err = math.Sub256(fromBalance, amount)
	if err != nil {
		return fmt.Errorf("%w: %s holds less than %s", ErrInsufficientBalance, from, amount)
	}
	if err := tx.PutUint(t.Address, balanceSlot(from), fromBalance); err != nil {
		return err
	}

	// Read after writing the debit so a self-transfer nets to zero.
	toBalance, err := t.BalanceOf(tx, to)
	if err != nil {
		return err
	}
	toBalance, err = math.Add256(toBalance, amount)
	if err != nil {
		return err
	}
	if err := tx.PutUint(t.Address, balanceSlot(to), toBalance); err != nil {
		return err
	}
	return tx.Emit(TransferEvent{
		Token: t.Address,
		From:  from,
		To:    to,
		Value: new(uint256.Int).Set(amount),
	})
}

func balanceSlot(account common.Address) []byte {
	return state.Slot("erc20/balance/", account.Bytes())
}

func allowanceSlot(owner, spender common.Address) []byte {
	return state.Slot("erc20/allowance/", owner.Bytes(), spender.Bytes())
}
