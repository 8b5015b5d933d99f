// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import (
	"github.com/luxfi/crypto"
	"github.com/luxfi/geth/common"
	"github.com/luxfi/geth/rlp"
)

// CreateAddress derives the address of the contract that deployer creates
// with the given nonce.
func CreateAddress(deployer common.Address, nonce uint64) common.Address {
	b, err := rlp.EncodeToBytes([]any{deployer, nonce})
	if err != nil {
		// An address and an integer always encode.
		panic(err)
	}
	return common.BytesToAddress(crypto.Keccak256(b)[12:])
}

// CreateAddress2 derives a salted contract address:
//
//	keccak256(0xff ++ creator ++ salt ++ codeHash)[12:]
//
// It depends only on its inputs, so anyone can compute it before the
// contract exists.
func CreateAddress2(creator common.Address, salt common.Hash, codeHash common.Hash) common.Address {
	b := make([]byte, 0, 1+common.AddressLength+2*common.HashLength)
	b = append(b, 0xff)
	b = append(b, creator.Bytes()...)
	b = append(b, salt.Bytes()...)
	b = append(b, codeHash.Bytes()...)
	return common.BytesToAddress(crypto.Keccak256(b)[12:])
}

// Keccak256 hashes the concatenation of data.
func Keccak256(data ...[]byte) common.Hash {
	var size int
	for _, d := range data {
		size += len(d)
	}
	b := make([]byte, 0, size)
	for _, d := range data {
		b = append(b, d...)
	}
	return common.BytesToHash(crypto.Keccak256(b))
}
