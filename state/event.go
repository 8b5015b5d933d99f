// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import (
	"github.com/holiman/uint256"
	"github.com/luxfi/crypto"
	"github.com/luxfi/geth/common"
	"github.com/luxfi/geth/core/types"
)

// Event is a structured record emitted by a contract. Log renders it in the
// EVM log layout so existing indexers can consume it: topic 0 is the
// Keccak-256 of the event signature, indexed fields follow as topics and the
// rest is packed as 32-byte words.
type Event interface {
	Log() *types.Log
}

// EventID returns the topic identifying an event signature such as
// "Transfer(address,address,uint256)".
func EventID(signature string) common.Hash {
	return common.BytesToHash(crypto.Keccak256([]byte(signature)))
}

// AddressTopic left-pads addr into a topic.
func AddressTopic(addr common.Address) common.Hash {
	return common.BytesToHash(addr.Bytes())
}

// Words packs each value into a 32-byte big-endian word.
func Words(values ...any) []byte {
	data := make([]byte, 0, 32*len(values))
	for _, v := range values {
		var word [32]byte
		switch v := v.(type) {
		case *uint256.Int:
			word = v.Bytes32()
		case common.Address:
			word = AddressTopic(v)
		case uint64:
			word = uint256.NewInt(v).Bytes32()
		default:
			panic("unsupported event word")
		}
		data = append(data, word[:]...)
	}
	return data
}
