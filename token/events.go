// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package token

import (
	"github.com/holiman/uint256"
	"github.com/luxfi/geth/common"
	"github.com/luxfi/geth/core/types"

	"github.com/luxfi/udex/state"
)

var (
	TransferEventID = state.EventID("Transfer(address,address,uint256)")
	ApprovalEventID = state.EventID("Approval(address,address,uint256)")
)

// TransferEvent records a balance movement. Mints have a zero From, burns a zero
// To.
type TransferEvent struct {
	Token common.Address
	From  common.Address
	To    common.Address
	Value *uint256.Int
}

func (e TransferEvent) Log() *types.Log {
	return &types.Log{
		Address: e.Token,
		Topics: []common.Hash{
			TransferEventID,
			state.AddressTopic(e.From),
			state.AddressTopic(e.To),
		},
		Data: state.Words(e.Value),
	}
}

// ApprovalEvent records a new allowance.
type ApprovalEvent struct {
	Token   common.Address
	Owner   common.Address
	Spender common.Address
	Value   *uint256.Int
}

func (e ApprovalEvent) Log() *types.Log {
	return &types.Log{
		Address: e.Token,
		Topics: []common.Hash{
			ApprovalEventID,
			state.AddressTopic(e.Owner),
			state.AddressTopic(e.Spender),
		},
		Data: state.Words(e.Value),
	}
}
