// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pool

import (
	"github.com/holiman/uint256"
	"github.com/luxfi/geth/common"
	"github.com/luxfi/geth/core/types"

	"github.com/luxfi/udex/state"
)

var (
	MintEventID = state.EventID("Mint(address,uint256,uint256)")
	BurnEventID = state.EventID("Burn(address,uint256,uint256,address)")
	SwapEventID = state.EventID("Swap(address,uint256,uint256,uint256,uint256,address)")
	SyncEventID = state.EventID("Sync(uint112,uint112)")
)

type MintEvent struct {
	Pool    common.Address
	Sender  common.Address
	Amount0 *uint256.Int
	Amount1 *uint256.Int
}

func (e MintEvent) Log() *types.Log {
	return &types.Log{
		Address: e.Pool,
		Topics:  []common.Hash{MintEventID, state.AddressTopic(e.Sender)},
		Data:    state.Words(e.Amount0, e.Amount1),
	}
}

type BurnEvent struct {
	Pool    common.Address
	Sender  common.Address
	Amount0 *uint256.Int
	Amount1 *uint256.Int
	To      common.Address
}

func (e BurnEvent) Log() *types.Log {
	return &types.Log{
		Address: e.Pool,
		Topics:  []common.Hash{BurnEventID, state.AddressTopic(e.Sender), state.AddressTopic(e.To)},
		Data:    state.Words(e.Amount0, e.Amount1),
	}
}

type SwapEvent struct {
	Pool       common.Address
	Sender     common.Address
	Amount0In  *uint256.Int
	Amount1In  *uint256.Int
	Amount0Out *uint256.Int
	Amount1Out *uint256.Int
	To         common.Address
}

func (e SwapEvent) Log() *types.Log {
	return &types.Log{
		Address: e.Pool,
		Topics:  []common.Hash{SwapEventID, state.AddressTopic(e.Sender), state.AddressTopic(e.To)},
		Data:    state.Words(e.Amount0In, e.Amount1In, e.Amount0Out, e.Amount1Out),
	}
}

// SyncEvent carries the reserves after every mutating call.
type SyncEvent struct {
	Pool     common.Address
	Reserve0 *uint256.Int
	Reserve1 *uint256.Int
}

func (e SyncEvent) Log() *types.Log {
	return &types.Log{
		Address: e.Pool,
		Topics:  []common.Hash{SyncEventID},
		Data:    state.Words(e.Reserve0, e.Reserve1),
	}
}
