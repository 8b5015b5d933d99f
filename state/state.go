// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package state manages the persistent ledger shared by tokens, pools and the
// pool registry.
//
// All writes go through a versiondb layered over the base database. A call
// either commits every write it buffered, together with the events it
// emitted, or aborts and leaves no trace. Store is not safe for concurrent
// use; the caller serializes access.
package state

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/luxfi/database"
	"github.com/luxfi/database/prefixdb"
	"github.com/luxfi/database/versiondb"
	"github.com/luxfi/geth/common"
	"github.com/luxfi/geth/core/types"
	"github.com/luxfi/geth/rlp"

	"github.com/luxfi/udex/utils/wrappers"
)

var (
	ErrStateCorrupted = errors.New("state corrupted")

	// Database prefixes
	prefixStorage = []byte("storage")
	prefixCode    = []byte("code")
	prefixNonce   = []byte("nonce")
	prefixLog     = []byte("log")
	prefixMeta    = []byte("meta")

	keyLogCount = []byte("logCount")
)

// Store is the transactional ledger.
type Store struct {
	baseDB database.Database
	db     *versiondb.Database

	storage database.Database
	code    database.Database
	nonces  database.Database
	logs    database.Database
	meta    database.Database
}

// New returns a store over db. Closing the store closes db.
func New(db database.Database) *Store {
	vdb := versiondb.New(db)
	return &Store{
		baseDB:  db,
		db:      vdb,
		storage: prefixdb.New(prefixStorage, vdb),
		code:    prefixdb.New(prefixCode, vdb),
		nonces:  prefixdb.New(prefixNonce, vdb),
		logs:    prefixdb.New(prefixLog, vdb),
		meta:    prefixdb.New(prefixMeta, vdb),
	}
}

// NewTx opens a writable view for a call made by origin. externals resolves
// addresses that are served by Go code outside the ledger, such as flash-swap
// callees; it may be nil.
func (s *Store) NewTx(origin common.Address, externals map[common.Address]any) *Tx {
	return &Tx{
		store:     s,
		origin:    origin,
		externals: externals,
		locked:    make(map[common.Address]struct{}),
	}
}

// NewView opens a read-only view. Views only observe committed state as long
// as no write transaction is in flight.
func (s *Store) NewView() *Tx {
	return &Tx{
		store:    s,
		readOnly: true,
	}
}

// Commit persists the buffered writes of tx together with its events. On
// failure nothing is persisted.
func (s *Store) Commit(tx *Tx) error {
	if tx.readOnly {
		return ErrReadOnly
	}
	if err := s.appendLogs(tx.events); err != nil {
		s.db.Abort()
		return err
	}
	if err := s.db.Commit(); err != nil {
		s.db.Abort()
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

// Abort drops every write buffered since the last commit.
func (s *Store) Abort() {
	s.db.Abort()
}

// Close closes the versioned and the base database.
func (s *Store) Close() error {
	s.db.Abort()
	errs := wrappers.Errs{}
	errs.Add(
		s.db.Close(),
		s.baseDB.Close(),
	)
	return errs.Err
}

// LogCount returns the number of committed events.
func (s *Store) LogCount() (uint64, error) {
	b, err := s.meta.Get(keyLogCount)
	if errors.Is(err, database.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	if len(b) != 8 {
		return 0, fmt.Errorf("%w: log count is %d bytes", ErrStateCorrupted, len(b))
	}
	return binary.BigEndian.Uint64(b), nil
}

// Logs returns up to limit committed events starting at index from, in
// commit order. Log.Index carries the global event index.
func (s *Store) Logs(from uint64, limit int) ([]*types.Log, error) {
	count, err := s.LogCount()
	if err != nil {
		return nil, err
	}

	var logs []*types.Log
	for i := from; i < count && len(logs) < limit; i++ {
		b, err := s.logs.Get(logKey(i))
		if err != nil {
			return nil, fmt.Errorf("failed to load log %d: %w", i, err)
		}
		var stored storedLog
		if err := rlp.DecodeBytes(b, &stored); err != nil {
			return nil, fmt.Errorf("%w: log %d: %w", ErrStateCorrupted, i, err)
		}
		logs = append(logs, &types.Log{
			Address: stored.Address,
			Topics:  stored.Topics,
			Data:    stored.Data,
			Index:   uint(i),
		})
	}
	return logs, nil
}

type storedLog struct {
	Address common.Address
	Topics  []common.Hash
	Data    []byte
}

func (s *Store) appendLogs(events []Event) error {
	if len(events) == 0 {
		return nil
	}
	next, err := s.LogCount()
	if err != nil {
		return err
	}
	for _, e := range events {
		l := e.Log()
		b, err := rlp.EncodeToBytes(&storedLog{
			Address: l.Address,
			Topics:  l.Topics,
			Data:    l.Data,
		})
		if err != nil {
			return fmt.Errorf("failed to encode log: %w", err)
		}
		if err := s.logs.Put(logKey(next), b); err != nil {
			return err
		}
		next++
	}
	return s.meta.Put(keyLogCount, binary.BigEndian.AppendUint64(nil, next))
}

func logKey(i uint64) []byte {
	return binary.BigEndian.AppendUint64(nil, i)
}
