// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package registry

import (
	"github.com/luxfi/geth/common"
	"github.com/luxfi/geth/core/types"

	"github.com/luxfi/udex/state"
)

var PoolCreatedEventID = state.EventID("PoolCreated(address,address,address,uint256)")

// PoolCreatedEvent is emitted once per pool. Count is the number of pools
// after the creation.
type PoolCreatedEvent struct {
	Registry common.Address
	Token0   common.Address
	Token1   common.Address
	Pool     common.Address
	Count    uint64
}

func (e PoolCreatedEvent) Log() *types.Log {
	return &types.Log{
		Address: e.Registry,
		Topics: []common.Hash{
			PoolCreatedEventID,
			state.AddressTopic(e.Token0),
			state.AddressTopic(e.Token1),
		},
		Data: state.Words(e.Pool, e.Count),
	}
}
