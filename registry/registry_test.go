// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package registry

import (
	"bytes"
	"testing"

	"github.com/holiman/uint256"
	"github.com/luxfi/database/memdb"
	"github.com/luxfi/geth/common"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/udex/pool"
	"github.com/luxfi/udex/state"
	"github.com/luxfi/udex/token"
)

var (
	deployer = common.HexToAddress("0xde9100000000000000000000000000000000000a")
	tokenA   = common.HexToAddress("0x2000000000000000000000000000000000000000")
	tokenB   = common.HexToAddress("0x1000000000000000000000000000000000000000")
	tokenC   = common.HexToAddress("0x3000000000000000000000000000000000000000")
)

func newRegistry(t *testing.T) (*state.Tx, *Registry) {
	tx := state.New(memdb.New()).NewTx(deployer, nil)
	r, err := Deploy(tx, deployer, token.Ledger{})
	require.NoError(t, err)
	return tx, r
}

func TestDeploy(t *testing.T) {
	require := require.New(t)

	tx, r := newRegistry(t)
	require.Equal(state.CreateAddress(deployer, 0), r.Address)

	found, err := Lookup(tx, r.Address, token.Ledger{})
	require.NoError(err)
	require.Equal(r.Address, found.Address)

	_, err = Lookup(tx, tokenA, token.Ledger{})
	require.ErrorIs(err, ErrNotFound)
}

func TestSortTokens(t *testing.T) {
	tests := []struct {
		name         string
		a, b         common.Address
		want0, want1 common.Address
		expectedErr  error
	}{
		{name: "ordered", a: tokenB, b: tokenA, want0: tokenB, want1: tokenA},
		{name: "reversed", a: tokenA, b: tokenB, want0: tokenB, want1: tokenA},
		{name: "identical", a: tokenA, b: tokenA, expectedErr: ErrInvalidPair},
		{name: "zero first", a: common.Address{}, b: tokenA, expectedErr: ErrInvalidPair},
		{name: "zero second", a: tokenA, b: common.Address{}, expectedErr: ErrInvalidPair},
		{name: "both zero", expectedErr: ErrInvalidPair},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)

			token0, token1, err := SortTokens(tt.a, tt.b)
			require.ErrorIs(err, tt.expectedErr)
			if tt.expectedErr != nil {
				return
			}
			require.Equal(tt.want0, token0)
			require.Equal(tt.want1, token1)
		})
	}
}

func TestGetPoolBeforeCreation(t *testing.T) {
	require := require.New(t)

	tx, r := newRegistry(t)
	got, err := r.GetPool(tx, tokenA, tokenB)
	require.NoError(err)
	require.Equal(common.Address{}, got)

	length, err := r.AllPoolsLength(tx)
	require.NoError(err)
	require.Zero(length)
}

func TestCreatePool(t *testing.T) {
	require := require.New(t)

	tx, r := newRegistry(t)
	predicted, err := PoolAddress(r.Address, tokenA, tokenB)
	require.NoError(err)

	addr, err := r.CreatePool(tx, tokenA, tokenB)
	require.NoError(err)
	require.Equal(predicted, addr)

	for _, pair := range [][2]common.Address{{tokenA, tokenB}, {tokenB, tokenA}} {
		got, err := r.GetPool(tx, pair[0], pair[1])
		require.NoError(err)
		require.Equal(addr, got)
	}

	p, err := pool.Lookup(tx, addr, token.Ledger{})
	require.NoError(err)
	factory, err := p.Factory(tx)
	require.NoError(err)
	require.Equal(r.Address, factory)
	token0, err := p.Token0(tx)
	require.NoError(err)
	require.Equal(tokenB, token0)
	token1, err := p.Token1(tx)
	require.NoError(err)
	require.Equal(tokenA, token1)

	// Only the registry could initialize, and it already has.
	require.ErrorIs(p.Initialize(tx, r.Address, tokenB, tokenA), pool.ErrUnauthorized)

	length, err := r.AllPoolsLength(tx)
	require.NoError(err)
	require.Equal(uint64(1), length)
	first, err := r.AllPools(tx, 0)
	require.NoError(err)
	require.Equal(addr, first)

	require.Equal([]state.Event{PoolCreatedEvent{
		Registry: r.Address,
		Token0:   tokenB,
		Token1:   tokenA,
		Pool:     addr,
		Count:    1,
	}}, filterPoolCreated(tx.Events()))
}

func TestCreatePoolTwice(t *testing.T) {
	require := require.New(t)

	tx, r := newRegistry(t)
	addr, err := r.CreatePool(tx, tokenA, tokenB)
	require.NoError(err)

	_, err = r.CreatePool(tx, tokenA, tokenB)
	require.ErrorIs(err, ErrPoolExists)
	_, err = r.CreatePool(tx, tokenB, tokenA)
	require.ErrorIs(err, ErrPoolExists)

	got, err := r.GetPool(tx, tokenA, tokenB)
	require.NoError(err)
	require.Equal(addr, got)
	length, err := r.AllPoolsLength(tx)
	require.NoError(err)
	require.Equal(uint64(1), length)
}

func TestCreatePoolInvalidPair(t *testing.T) {
	require := require.New(t)

	tx, r := newRegistry(t)
	_, err := r.CreatePool(tx, tokenA, tokenA)
	require.ErrorIs(err, ErrInvalidPair)
	_, err = r.CreatePool(tx, tokenA, common.Address{})
	require.ErrorIs(err, ErrInvalidPair)

	length, err := r.AllPoolsLength(tx)
	require.NoError(err)
	require.Zero(length)
}

func TestAllPools(t *testing.T) {
	require := require.New(t)

	tx, r := newRegistry(t)
	pairs := [][2]common.Address{{tokenA, tokenB}, {tokenC, tokenA}, {tokenB, tokenC}}
	var created []common.Address
	for _, pair := range pairs {
		addr, err := r.CreatePool(tx, pair[0], pair[1])
		require.NoError(err)
		created = append(created, addr)
	}

	length, err := r.AllPoolsLength(tx)
	require.NoError(err)
	require.Equal(uint64(len(pairs)), length)
	for i, want := range created {
		got, err := r.AllPools(tx, uint64(i))
		require.NoError(err)
		require.Equal(want, got)
	}

	missing, err := r.AllPools(tx, length)
	require.NoError(err)
	require.Equal(common.Address{}, missing)

	// Every pair gets its own address.
	require.NotEqual(created[0], created[1])
	require.NotEqual(created[1], created[2])
	require.NotEqual(created[0], created[2])
}

func TestPoolAddressIsPureFunction(t *testing.T) {
	require := require.New(t)

	registryA := common.HexToAddress("0x00000000000000000000000000000000000000aa")
	registryB := common.HexToAddress("0x00000000000000000000000000000000000000bb")

	ab, err := PoolAddress(registryA, tokenA, tokenB)
	require.NoError(err)
	ba, err := PoolAddress(registryA, tokenB, tokenA)
	require.NoError(err)
	require.Equal(ab, ba)

	other, err := PoolAddress(registryB, tokenA, tokenB)
	require.NoError(err)
	require.NotEqual(ab, other)

	salt := state.Keccak256(tokenB.Bytes(), tokenA.Bytes())
	require.Equal(salt, Salt(tokenB, tokenA))
	require.Equal(state.CreateAddress2(registryA, salt, pool.CodeHash), ab)

	_, err = PoolAddress(registryA, tokenA, tokenA)
	require.ErrorIs(err, ErrInvalidPair)
}

func TestCreatedPoolTrades(t *testing.T) {
	require := require.New(t)

	tx, r := newRegistry(t)
	meta := token.Metadata{Name: "Test", Symbol: "T", Decimals: 18}
	tok0, err := token.Deploy(tx, deployer, meta, uint256.NewInt(1_000_000))
	require.NoError(err)
	tok1, err := token.Deploy(tx, deployer, meta, uint256.NewInt(1_000_000))
	require.NoError(err)
	if bytes.Compare(tok0.Address.Bytes(), tok1.Address.Bytes()) > 0 {
		tok0, tok1 = tok1, tok0
	}

	addr, err := r.CreatePool(tx, tok1.Address, tok0.Address)
	require.NoError(err)
	p, err := pool.Lookup(tx, addr, token.Ledger{})
	require.NoError(err)

	require.NoError(tok0.Transfer(tx, deployer, addr, uint256.NewInt(40000)))
	require.NoError(tok1.Transfer(tx, deployer, addr, uint256.NewInt(90000)))
	liquidity, err := p.Mint(tx, deployer, deployer)
	require.NoError(err)
	require.Equal(uint256.NewInt(59000), liquidity)
}

func TestPoolCreatedLog(t *testing.T) {
	require := require.New(t)

	registryAddr := common.HexToAddress("0x00000000000000000000000000000000000000aa")
	poolAddr := common.HexToAddress("0x00000000000000000000000000000000000000cc")
	l := PoolCreatedEvent{
		Registry: registryAddr,
		Token0:   tokenB,
		Token1:   tokenA,
		Pool:     poolAddr,
		Count:    7,
	}.Log()
	require.Equal(registryAddr, l.Address)
	require.Equal([]common.Hash{PoolCreatedEventID, state.AddressTopic(tokenB), state.AddressTopic(tokenA)}, l.Topics)
	require.Equal(state.Words(poolAddr, uint64(7)), l.Data)
}

func filterPoolCreated(events []state.Event) []state.Event {
	var filtered []state.Event
	for _, e := range events {
		if _, ok := e.(PoolCreatedEvent); ok {
			filtered = append(filtered, e)
		}
	}
	return filtered
}
