// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/holiman/uint256"
	"github.com/luxfi/database"
	"github.com/luxfi/geth/common"
)

var (
	ErrReadOnly     = errors.New("write in read-only view")
	ErrLocked       = errors.New("contract locked")
	ErrAddressInUse = errors.New("address already in use")
)

// Tx is a single call's view of the ledger. Writes are buffered in the
// store's versiondb until the call commits.
type Tx struct {
	store     *Store
	origin    common.Address
	externals map[common.Address]any
	readOnly  bool

	events []Event
	locked map[common.Address]struct{}
}

// Origin is the account that submitted the call.
func (t *Tx) Origin() common.Address {
	return t.origin
}

// Events returns the events emitted so far, in order.
func (t *Tx) Events() []Event {
	return t.events
}

// Emit records an event. Events are only persisted if the call commits.
func (t *Tx) Emit(e Event) error {
	if t.readOnly {
		return ErrReadOnly
	}
	t.events = append(t.events, e)
	return nil
}

// Lock marks contract as executing and returns the matching unlock. A second
// Lock on the same contract before the unlock fails with ErrLocked.
func (t *Tx) Lock(contract common.Address) (func(), error) {
	if t.readOnly {
		return nil, ErrReadOnly
	}
	if _, ok := t.locked[contract]; ok {
		return nil, fmt.Errorf("%w: %s", ErrLocked, contract)
	}
	t.locked[contract] = struct{}{}
	return func() {
		delete(t.locked, contract)
	}, nil
}

// External returns the Go implementation registered for addr, if any.
func (t *Tx) External(addr common.Address) (any, bool) {
	impl, ok := t.externals[addr]
	return impl, ok
}

// Code returns the code kind deployed at addr, or "" if nothing is.
func (t *Tx) Code(addr common.Address) (string, error) {
	b, err := t.store.code.Get(addr.Bytes())
	if errors.Is(err, database.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Deploy claims addr for code. Addresses are never reused.
func (t *Tx) Deploy(addr common.Address, code string) error {
	if t.readOnly {
		return ErrReadOnly
	}
	has, err := t.store.code.Has(addr.Bytes())
	if err != nil {
		return err
	}
	if has {
		return fmt.Errorf("%w: %s", ErrAddressInUse, addr)
	}
	return t.store.code.Put(addr.Bytes(), []byte(code))
}

// NextNonce returns the deployment nonce of account and increments it.
func (t *Tx) NextNonce(account common.Address) (uint64, error) {
	if t.readOnly {
		return 0, ErrReadOnly
	}
	var nonce uint64
	b, err := t.store.nonces.Get(account.Bytes())
	switch {
	case errors.Is(err, database.ErrNotFound):
	case err != nil:
		return 0, err
	case len(b) != 8:
		return 0, fmt.Errorf("%w: nonce of %s is %d bytes", ErrStateCorrupted, account, len(b))
	default:
		nonce = binary.BigEndian.Uint64(b)
	}
	return nonce, t.store.nonces.Put(account.Bytes(), binary.BigEndian.AppendUint64(nil, nonce+1))
}

// Get returns the raw value of slot in contract's storage, or nil if unset.
func (t *Tx) Get(contract common.Address, slot []byte) ([]byte, error) {
	b, err := t.store.storage.Get(storageKey(contract, slot))
	if errors.Is(err, database.ErrNotFound) {
		return nil, nil
	}
	return b, err
}

// Put sets slot in contract's storage. An empty value clears the slot.
func (t *Tx) Put(contract common.Address, slot []byte, value []byte) error {
	if t.readOnly {
		return ErrReadOnly
	}
	key := storageKey(contract, slot)
	if len(value) == 0 {
		return t.store.storage.Delete(key)
	}
	return t.store.storage.Put(key, value)
}

// GetUint returns the integer at slot. Unset slots read as zero.
func (t *Tx) GetUint(contract common.Address, slot []byte) (*uint256.Int, error) {
	b, err := t.Get(contract, slot)
	if err != nil {
		return nil, err
	}
	if len(b) > 32 {
		return nil, fmt.Errorf("%w: %d byte integer", ErrStateCorrupted, len(b))
	}
	return new(uint256.Int).SetBytes(b), nil
}

// PutUint stores v at slot. Zero clears the slot.
func (t *Tx) PutUint(contract common.Address, slot []byte, v *uint256.Int) error {
	return t.Put(contract, slot, v.Bytes())
}

// GetAddress returns the address at slot. Unset slots read as the zero
// address.
func (t *Tx) GetAddress(contract common.Address, slot []byte) (common.Address, error) {
	b, err := t.Get(contract, slot)
	if err != nil {
		return common.Address{}, err
	}
	if len(b) != 0 && len(b) != common.AddressLength {
		return common.Address{}, fmt.Errorf("%w: %d byte address", ErrStateCorrupted, len(b))
	}
	return common.BytesToAddress(b), nil
}

// PutAddress stores addr at slot. The zero address clears the slot.
func (t *Tx) PutAddress(contract common.Address, slot []byte, addr common.Address) error {
	if addr == (common.Address{}) {
		return t.Put(contract, slot, nil)
	}
	return t.Put(contract, slot, addr.Bytes())
}

// Slot builds a storage slot from a name and fixed-width parts.
func Slot(name string, parts ...[]byte) []byte {
	size := len(name)
	for _, p := range parts {
		size += len(p)
	}
	slot := make([]byte, 0, size)
	slot = append(slot, name...)
	for _, p := range parts {
		slot = append(slot, p...)
	}
	return slot
}

func storageKey(contract common.Address, slot []byte) []byte {
	key := make([]byte, 0, common.AddressLength+len(slot))
	key = append(key, contract.Bytes()...)
	return append(key, slot...)
}
