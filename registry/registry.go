// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package registry creates and locates pools. There is at most one pool per
// unordered token pair, and its address can be computed from the registry
// address and the pair alone.
package registry

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/holiman/uint256"
	"github.com/luxfi/geth/common"

	"github.com/luxfi/udex/pool"
	"github.com/luxfi/udex/state"
)

// Code marks an address holding a registry.
const Code = "udex-registry"

var (
	ErrInvalidPair = errors.New("invalid pair")
	ErrPoolExists  = errors.New("pool already exists")
	ErrNotFound    = errors.New("registry not found")

	slotPoolCount = state.Slot("registry/count")
)

// Registry is a handle on the registry stored at Address.
type Registry struct {
	Address common.Address

	ledger pool.Ledger
}

// At returns a handle for the registry at addr without checking that one is
// deployed there.
func At(addr common.Address, ledger pool.Ledger) *Registry {
	return &Registry{
		Address: addr,
		ledger:  ledger,
	}
}

// Deploy creates an empty registry. The address follows from the deployer
// and its nonce.
func Deploy(tx *state.Tx, deployer common.Address, ledger pool.Ledger) (*Registry, error) {
	nonce, err := tx.NextNonce(deployer)
	if err != nil {
		return nil, err
	}
	r := At(state.CreateAddress(deployer, nonce), ledger)
	if err := tx.Deploy(r.Address, Code); err != nil {
		return nil, err
	}
	return r, nil
}

// Lookup returns the registry at addr, failing if none is deployed there.
func Lookup(tx *state.Tx, addr common.Address, ledger pool.Ledger) (*Registry, error) {
	code, err := tx.Code(addr)
	if err != nil {
		return nil, err
	}
	if code != Code {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, addr)
	}
	return At(addr, ledger), nil
}

// SortTokens orders a pair canonically.
func SortTokens(tokenA, tokenB common.Address) (common.Address, common.Address, error) {
	if tokenA == tokenB {
		return common.Address{}, common.Address{}, fmt.Errorf("%w: identical tokens %s", ErrInvalidPair, tokenA)
	}
	token0, token1 := tokenA, tokenB
	if bytes.Compare(token0.Bytes(), token1.Bytes()) > 0 {
		token0, token1 = token1, token0
	}
	if token0 == (common.Address{}) {
		return common.Address{}, common.Address{}, fmt.Errorf("%w: zero address", ErrInvalidPair)
	}
	return token0, token1, nil
}

// Salt is the per-pair input of the pool address.
func Salt(token0, token1 common.Address) common.Hash {
	return state.Keccak256(token0.Bytes(), token1.Bytes())
}

// PoolAddress returns the address the pool for tokenA and tokenB has, or will
// have once created, under registry. Argument order does not matter.
func PoolAddress(registry, tokenA, tokenB common.Address) (common.Address, error) {
	token0, token1, err := SortTokens(tokenA, tokenB)
	if err != nil {
		return common.Address{}, err
	}
	return state.CreateAddress2(registry, Salt(token0, token1), pool.CodeHash), nil
}

// GetPool returns the pool for the pair in either order, or the zero address
// if there is none.
func (r *Registry) GetPool(tx *state.Tx, tokenA, tokenB common.Address) (common.Address, error) {
	return tx.GetAddress(r.Address, pairSlot(tokenA, tokenB))
}

// CreatePool creates, initializes and records the pool for a pair.
func (r *Registry) CreatePool(tx *state.Tx, tokenA, tokenB common.Address) (common.Address, error) {
	token0, token1, err := SortTokens(tokenA, tokenB)
	if err != nil {
		return common.Address{}, err
	}
	existing, err := r.GetPool(tx, token0, token1)
	if err != nil {
		return common.Address{}, err
	}
	if existing != (common.Address{}) {
		return common.Address{}, fmt.Errorf("%w: %s", ErrPoolExists, existing)
	}

	addr := state.CreateAddress2(r.Address, Salt(token0, token1), pool.CodeHash)
	p, err := pool.Deploy(tx, addr, r.Address, r.ledger)
	if errors.Is(err, state.ErrAddressInUse) {
		return common.Address{}, fmt.Errorf("%w: %w", ErrPoolExists, err)
	}
	if err != nil {
		return common.Address{}, err
	}
	if err := p.Initialize(tx, r.Address, token0, token1); err != nil {
		return common.Address{}, err
	}

	if err := tx.PutAddress(r.Address, pairSlot(token0, token1), addr); err != nil {
		return common.Address{}, err
	}
	if err := tx.PutAddress(r.Address, pairSlot(token1, token0), addr); err != nil {
		return common.Address{}, err
	}
	count, err := r.AllPoolsLength(tx)
	if err != nil {
		return common.Address{}, err
	}
	if err := tx.PutAddress(r.Address, indexSlot(count), addr); err != nil {
		return common.Address{}, err
	}
	count++
	if err := tx.PutUint(r.Address, slotPoolCount, uint256.NewInt(count)); err != nil {
		return common.Address{}, err
	}

	if err := tx.Emit(PoolCreatedEvent{
		Registry: r.Address,
		Token0:   token0,
		Token1:   token1,
		Pool:     addr,
		Count:    count,
	}); err != nil {
		return common.Address{}, err
	}
	return addr, nil
}

// AllPoolsLength returns the number of pools created.
func (r *Registry) AllPoolsLength(tx *state.Tx) (uint64, error) {
	count, err := tx.GetUint(r.Address, slotPoolCount)
	if err != nil {
		return 0, err
	}
	return count.Uint64(), nil
}

// AllPools returns the i-th pool in creation order, or the zero address if i
// is out of range.
func (r *Registry) AllPools(tx *state.Tx, i uint64) (common.Address, error) {
	return tx.GetAddress(r.Address, indexSlot(i))
}

func pairSlot(tokenA, tokenB common.Address) []byte {
	return state.Slot("registry/pair/", tokenA.Bytes(), tokenB.Bytes())
}

func indexSlot(i uint64) []byte {
	return state.Slot("registry/index/", binary.BigEndian.AppendUint64(nil, i))
}
