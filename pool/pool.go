// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package pool implements constant-product liquidity pools.
//
// A pool custodies two tokens through the token ledger and issues liquidity
// shares against them. Deposits and swap inputs are transferred to the pool
// before the pool is called; the pool measures them by comparing its actual
// balances with the reserves it recorded at the end of the previous call.
package pool

import (
	"errors"
	"fmt"

	"github.com/holiman/uint256"
	"github.com/luxfi/geth/common"

	"github.com/luxfi/udex/state"
	"github.com/luxfi/udex/token"
	"github.com/luxfi/udex/utils/math"
)

// Code marks an address holding a pool.
const Code = "udex-pool"

var (
	ErrUnauthorized                = errors.New("unauthorized")
	ErrAlreadyInitialized          = fmt.Errorf("%w: pool already initialized", ErrUnauthorized)
	ErrNotInitialized              = errors.New("pool not initialized")
	ErrNotFound                    = errors.New("pool not found")
	ErrZeroToken                   = errors.New("zero token address")
	ErrBelowMinimumLiquidity       = errors.New("below minimum liquidity")
	ErrInsufficientLiquidityMinted = errors.New("insufficient liquidity minted")
	ErrInsufficientLiquidityBurned = errors.New("insufficient liquidity burned")
	ErrInsufficientOutputAmount    = errors.New("insufficient output amount")
	ErrInsufficientInputAmount     = errors.New("insufficient input amount")
	ErrInsufficientLiquidity       = errors.New("insufficient liquidity")
	ErrInvalidRecipient            = errors.New("invalid recipient")
	ErrInvariantViolation          = errors.New("constant product invariant violated")

	// CodeHash identifies the pool template. It is an input of every pool
	// address, so changing it moves every pool.
	CodeHash = state.Keccak256([]byte(Code + "/v1"))

	// MinimumLiquidity is locked forever on the first mint.
	MinimumLiquidity = uint256.NewInt(1000)

	// BurnAddress receives the locked minimum liquidity. Nothing can spend
	// from it.
	BurnAddress = common.Address{}

	// MaxReserve bounds each reserve to 112 bits so the fee-adjusted reserve
	// product always fits in 256 bits.
	MaxReserve = new(uint256.Int).Sub(new(uint256.Int).Lsh(uint256.NewInt(1), 112), uint256.NewInt(1))

	// ShareMetadata describes the liquidity share token of every pool.
	ShareMetadata = token.Metadata{
		Name:     "Udex LP",
		Symbol:   "UDEX-LP",
		Decimals: 18,
	}

	slotFactory  = state.Slot("pool/factory")
	slotToken0   = state.Slot("pool/token0")
	slotToken1   = state.Slot("pool/token1")
	slotReserve0 = state.Slot("pool/reserve0")
	slotReserve1 = state.Slot("pool/reserve1")
)

// Ledger is the token ledger a pool settles against.
type Ledger interface {
	BalanceOf(tx *state.Tx, token, account common.Address) (*uint256.Int, error)
	// Transfer moves amount of token from sender to to. A failure fails the
	// enclosing pool call.
	Transfer(tx *state.Tx, token, sender, to common.Address, amount *uint256.Int) error
}

// Callee is implemented by accounts that receive a flash swap. It runs after
// the pool has paid out and before the invariant is checked.
type Callee interface {
	OnSwap(tx *state.Tx, sender common.Address, amount0Out, amount1Out *uint256.Int, data []byte) error
}

// Pool is a handle on the pool stored at Address.
type Pool struct {
	Address common.Address

	ledger Ledger
	shares token.Token
}

// At returns a handle for the pool at addr without checking that one is
// deployed there.
func At(addr common.Address, ledger Ledger) *Pool {
	return &Pool{
		Address: addr,
		ledger:  ledger,
		shares:  token.At(addr),
	}
}

// Deploy places an uninitialized pool at addr and records factory as its
// creator.
func Deploy(tx *state.Tx, addr, factory common.Address, ledger Ledger) (*Pool, error) {
	if err := tx.Deploy(addr, Code); err != nil {
		return nil, err
	}
	p := At(addr, ledger)
	if err := tx.PutAddress(addr, slotFactory, factory); err != nil {
		return nil, err
	}
	if err := p.shares.SetMetadata(tx, ShareMetadata); err != nil {
		return nil, err
	}
	return p, nil
}

// Lookup returns the pool at addr, failing if no pool is deployed there.
func Lookup(tx *state.Tx, addr common.Address, ledger Ledger) (*Pool, error) {
	code, err := tx.Code(addr)
	if err != nil {
		return nil, err
	}
	if code != Code {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, addr)
	}
	return At(addr, ledger), nil
}

// Initialize sets the pool's token pair. Only the factory may call it, and
// only once. The pair is stored as given.
func (p *Pool) Initialize(tx *state.Tx, sender, token0, token1 common.Address) error {
	factory, err := p.Factory(tx)
	if err != nil {
		return err
	}
	if sender != factory {
		return fmt.Errorf("%w: %s is not the factory", ErrUnauthorized, sender)
	}
	// A zero token0 marks an uninitialized pool.
	if token0 == (common.Address{}) || token1 == (common.Address{}) {
		return ErrZeroToken
	}
	current, err := p.Token0(tx)
	if err != nil {
		return err
	}
	if current != (common.Address{}) {
		return ErrAlreadyInitialized
	}
	if err := tx.PutAddress(p.Address, slotToken0, token0); err != nil {
		return err
	}
	return tx.PutAddress(p.Address, slotToken1, token1)
}

func (p *Pool) Factory(tx *state.Tx) (common.Address, error) {
	return tx.GetAddress(p.Address, slotFactory)
}

func (p *Pool) Token0(tx *state.Tx) (common.Address, error) {
	return tx.GetAddress(p.Address, slotToken0)
}

func (p *Pool) Token1(tx *state.Tx) (common.Address, error) {
	return tx.GetAddress(p.Address, slotToken1)
}

// Reserves returns the balances recorded at the end of the last mutating
// call.
func (p *Pool) Reserves(tx *state.Tx) (*uint256.Int, *uint256.Int, error) {
	reserve0, err := tx.GetUint(p.Address, slotReserve0)
	if err != nil {
		return nil, nil, err
	}
	reserve1, err := tx.GetUint(p.Address, slotReserve1)
	if err != nil {
		return nil, nil, err
	}
	return reserve0, reserve1, nil
}

// Info is a snapshot of a pool.
type Info struct {
	Address     common.Address
	Factory     common.Address
	Token0      common.Address
	Token1      common.Address
	Reserve0    *uint256.Int
	Reserve1    *uint256.Int
	TotalSupply *uint256.Int
}

// Info reads the whole read surface of the pool at once.
func (p *Pool) Info(tx *state.Tx) (*Info, error) {
	var (
		info = &Info{Address: p.Address}
		err  error
	)
	if info.Factory, err = p.Factory(tx); err != nil {
		return nil, err
	}
	if info.Token0, err = p.Token0(tx); err != nil {
		return nil, err
	}
	if info.Token1, err = p.Token1(tx); err != nil {
		return nil, err
	}
	if info.Reserve0, info.Reserve1, err = p.Reserves(tx); err != nil {
		return nil, err
	}
	if info.TotalSupply, err = p.TotalSupply(tx); err != nil {
		return nil, err
	}
	return info, nil
}

// tokens returns the pair, failing if the pool was never initialized.
func (p *Pool) tokens(tx *state.Tx) (common.Address, common.Address, error) {
	token0, err := p.Token0(tx)
	if err != nil {
		return common.Address{}, common.Address{}, err
	}
	if token0 == (common.Address{}) {
		return common.Address{}, common.Address{}, fmt.Errorf("%w: %s", ErrNotInitialized, p.Address)
	}
	token1, err := p.Token1(tx)
	if err != nil {
		return common.Address{}, common.Address{}, err
	}
	return token0, token1, nil
}

func (p *Pool) balances(tx *state.Tx, token0, token1 common.Address) (*uint256.Int, *uint256.Int, error) {
	balance0, err := p.ledger.BalanceOf(tx, token0, p.Address)
	if err != nil {
		return nil, nil, err
	}
	balance1, err := p.ledger.BalanceOf(tx, token1, p.Address)
	if err != nil {
		return nil, nil, err
	}
	return balance0, balance1, nil
}

// update records balance0 and balance1 as the new reserves.
func (p *Pool) update(tx *state.Tx, balance0, balance1 *uint256.Int) error {
	if balance0.Gt(MaxReserve) || balance1.Gt(MaxReserve) {
		return fmt.Errorf("%w: reserve exceeds 112 bits", math.ErrOverflow)
	}
	if err := tx.PutUint(p.Address, slotReserve0, balance0); err != nil {
		return err
	}
	if err := tx.PutUint(p.Address, slotReserve1, balance1); err != nil {
		return err
	}
	return tx.Emit(SyncEvent{
		Pool:     p.Address,
		Reserve0: new(uint256.Int).Set(balance0),
		Reserve1: new(uint256.Int).Set(balance1),
	})
}
