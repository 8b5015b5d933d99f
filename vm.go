// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package udex runs a constant-product exchange: tokens, pools and pool
// registries over a single transactional ledger.
//
// Every mutating call runs under the VM's writer lock against a fresh
// transaction. A call either commits all of its writes and events or none
// of them, so a failure anywhere, including in a flash-swap callee, restores
// the state observed before the call.
package udex

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/luxfi/database"
	"github.com/luxfi/geth/common"
	"github.com/luxfi/geth/core/types"
	"github.com/luxfi/log"
	"github.com/prometheus/client_golang/prometheus"

	lru "github.com/hashicorp/golang-lru"

	"github.com/luxfi/udex/config"
	"github.com/luxfi/udex/metrics"
	"github.com/luxfi/udex/state"
	"github.com/luxfi/udex/token"
)

var (
	ErrNotReady           = errors.New("VM not ready")
	ErrAlreadyInitialized = errors.New("VM already initialized")
	ErrInvalidLimit       = errors.New("invalid limit")

	// MaxLogsPerQuery bounds a single Logs call.
	MaxLogsPerQuery = 1024
)

// VM owns the ledger and serializes every call against it.
type VM struct {
	config.Config

	log     log.Logger
	metrics metrics.Metrics

	// Gatherer for the metrics registered by this VM. Nil if metrics are
	// disabled.
	gatherer prometheus.Gatherer

	// lock serializes writers. Views take the read side.
	lock   sync.RWMutex
	status Status

	state  *state.Store
	ledger token.Ledger

	// externals resolves addresses served by Go code, such as flash-swap
	// callees.
	externals map[common.Address]any

	// pools caches committed registry lookups. A pair's pool never changes
	// once created, so entries are never invalidated.
	pools *lru.Cache
}

// New returns an uninitialized VM.
func New(cfg config.Config, logger log.Logger) *VM {
	return &VM{
		Config:    cfg,
		log:       logger,
		metrics:   metrics.NewNoop(),
		externals: make(map[common.Address]any),
	}
}

// Initialize opens the ledger over db and starts serving calls. If registerer
// is non-nil and metrics are enabled, the VM's metrics are registered with it.
// The VM takes ownership of db.
func (vm *VM) Initialize(_ context.Context, db database.Database, registerer *prometheus.Registry) error {
	vm.lock.Lock()
	defer vm.lock.Unlock()

	if vm.status != Uninitialized {
		return fmt.Errorf("%w: %s", ErrAlreadyInitialized, vm.status)
	}

	if vm.MetricsEnabled && registerer != nil {
		m, err := metrics.New(registerer)
		if err != nil {
			return fmt.Errorf("failed to initialize metrics: %w", err)
		}
		vm.metrics = m
		vm.gatherer = registerer
	}

	cacheSize := vm.PoolCacheSize
	if cacheSize <= 0 {
		cacheSize = config.DefaultConfig().PoolCacheSize
	}
	pools, err := lru.New(cacheSize)
	if err != nil {
		return fmt.Errorf("failed to create pool cache: %w", err)
	}
	vm.pools = pools

	vm.state = state.New(db)
	logCount, err := vm.state.LogCount()
	if err != nil {
		return fmt.Errorf("failed to load log count: %w", err)
	}

	vm.status = Ready
	vm.log.Info("udex VM initialized",
		"persistent", vm.DatabaseDir != "",
		"metrics", vm.gatherer != nil,
		"logs", logCount,
	)
	return nil
}

// Shutdown stops serving calls and closes the ledger.
func (vm *VM) Shutdown(context.Context) error {
	vm.lock.Lock()
	defer vm.lock.Unlock()

	if vm.status != Ready {
		vm.status = Stopped
		return nil
	}

	vm.log.Info("Shutting down udex VM")
	vm.status = Stopped
	vm.pools.Purge()
	if err := vm.state.Close(); err != nil {
		return fmt.Errorf("failed to close state: %w", err)
	}
	return nil
}

// Status returns the lifecycle state of the VM.
func (vm *VM) Status() Status {
	vm.lock.RLock()
	defer vm.lock.RUnlock()

	return vm.status
}

// RegisterExternal serves addr with impl for the rest of the VM's life.
// Registering a flash-swap callee lets its address receive swaps with a
// non-empty data payload.
func (vm *VM) RegisterExternal(addr common.Address, impl any) {
	vm.lock.Lock()
	defer vm.lock.Unlock()

	vm.externals[addr] = impl
}

// Execute runs fn as a single call made by caller. If fn returns nil, its
// writes and events are committed and the events are returned. Otherwise
// nothing fn did is kept.
func (vm *VM) Execute(
	ctx context.Context,
	caller common.Address,
	op string,
	fn func(tx *state.Tx) error,
) ([]state.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	vm.lock.Lock()
	defer vm.lock.Unlock()

	if vm.status != Ready {
		return nil, fmt.Errorf("%w: %s", ErrNotReady, vm.status)
	}

	tx := vm.state.NewTx(caller, vm.externals)
	if err := fn(tx); err != nil {
		vm.state.Abort()
		vm.metrics.MarkCall(op, err)
		vm.log.Debug("call reverted",
			"op", op,
			"caller", caller,
			"error", err,
		)
		return nil, err
	}
	if err := vm.state.Commit(tx); err != nil {
		vm.metrics.MarkCall(op, err)
		return nil, err
	}

	events := tx.Events()
	vm.metrics.MarkCall(op, nil)
	vm.metrics.MarkEvents(events)
	vm.log.Debug("call committed",
		"op", op,
		"caller", caller,
		"events", len(events),
	)
	return events, nil
}

// View runs fn against committed state. fn can't write.
func (vm *VM) View(fn func(tx *state.Tx) error) error {
	vm.lock.RLock()
	defer vm.lock.RUnlock()

	if vm.status != Ready {
		return fmt.Errorf("%w: %s", ErrNotReady, vm.status)
	}
	return fn(vm.state.NewView())
}

// Logs returns up to limit committed events starting at index from.
func (vm *VM) Logs(from uint64, limit int) ([]*types.Log, error) {
	if limit <= 0 || limit > MaxLogsPerQuery {
		return nil, fmt.Errorf("%w: %d not in [1, %d]", ErrInvalidLimit, limit, MaxLogsPerQuery)
	}

	vm.lock.RLock()
	defer vm.lock.RUnlock()

	if vm.status != Ready {
		return nil, fmt.Errorf("%w: %s", ErrNotReady, vm.status)
	}
	return vm.state.Logs(from, limit)
}

// LogCount returns the number of committed events.
func (vm *VM) LogCount() (uint64, error) {
	vm.lock.RLock()
	defer vm.lock.RUnlock()

	if vm.status != Ready {
		return 0, fmt.Errorf("%w: %s", ErrNotReady, vm.status)
	}
	return vm.state.LogCount()
}

// HealthCheck returns the VM's status and an error if it isn't serving calls.
func (vm *VM) HealthCheck(context.Context) (interface{}, error) {
	vm.lock.RLock()
	defer vm.lock.RUnlock()

	details := map[string]interface{}{
		"status": vm.status.String(),
	}
	err := vm.checkHealth(details)
	vm.metrics.MarkHealth(err == nil)
	return details, err
}

func (vm *VM) checkHealth(details map[string]interface{}) error {
	if vm.status != Ready {
		return fmt.Errorf("%w: %s", ErrNotReady, vm.status)
	}
	logCount, err := vm.state.LogCount()
	if err != nil {
		return err
	}
	details["logs"] = logCount
	details["cachedPools"] = vm.pools.Len()
	return nil
}
