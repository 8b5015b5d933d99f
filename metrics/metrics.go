// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/luxfi/udex/state"
	"github.com/luxfi/udex/utils/wrappers"
)

const (
	resultCommitted = "committed"
	resultReverted  = "reverted"
)

var (
	_ Metrics = (*metricsImpl)(nil)
	_ Metrics = noop{}
)

type Metrics interface {
	APIInterceptor

	// MarkCall records the outcome of a mutating call. A nil err means the
	// call was committed.
	MarkCall(op string, err error)
	// MarkEvents counts committed events by type.
	MarkEvents(events []state.Event)
	// SetPools records the number of pools created by the registry.
	SetPools(n uint64)
	// MarkHealth records the result of the latest health check.
	MarkHealth(healthy bool)
}

type metricsImpl struct {
	calls  *prometheus.CounterVec
	events *prometheus.CounterVec
	pools  prometheus.Gauge

	// failingChecks is 1 while the latest health check fails
	failingChecks prometheus.Gauge

	APIInterceptor
}

func (m *metricsImpl) MarkCall(op string, err error) {
	result := resultCommitted
	if err != nil {
		result = resultReverted
	}
	m.calls.WithLabelValues(op, result).Inc()
}

func (m *metricsImpl) MarkEvents(events []state.Event) {
	for _, e := range events {
		m.events.WithLabelValues(fmt.Sprintf("%T", e)).Inc()
	}
}

func (m *metricsImpl) SetPools(n uint64) {
	m.pools.Set(float64(n))
}

func (m *metricsImpl) MarkHealth(healthy bool) {
	if healthy {
		m.failingChecks.Set(0)
	} else {
		m.failingChecks.Set(1)
	}
}

func New(registerer prometheus.Registerer) (Metrics, error) {
	m := &metricsImpl{
		calls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "calls",
				Help: "Number of mutating calls by operation and result",
			},
			[]string{"op", "result"},
		),
		events: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "events",
				Help: "Number of committed events by type",
			},
			[]string{"type"},
		),
		pools: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "pools",
			Help: "Number of pools created by the registry",
		}),
		failingChecks: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "checks_failing",
			Help: "number of currently failing health checks",
		}),
	}

	apiInterceptor, err := NewAPIInterceptor(registerer)
	m.APIInterceptor = apiInterceptor

	errs := wrappers.Errs{Err: err}
	errs.Add(
		registerer.Register(m.calls),
		registerer.Register(m.events),
		registerer.Register(m.pools),
		registerer.Register(m.failingChecks),
	)
	return m, errs.Err
}

// NewNoop returns metrics that record nothing.
func NewNoop() Metrics {
	return noop{}
}

type noop struct {
	noopAPIInterceptor
}

func (noop) MarkCall(string, error) {}

func (noop) MarkEvents([]state.Event) {}

func (noop) SetPools(uint64) {}

func (noop) MarkHealth(bool) {}
