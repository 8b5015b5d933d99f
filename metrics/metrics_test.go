// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package metrics

import (
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/rpc/v2"
	"github.com/luxfi/geth/core/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/udex/state"
)

type testEvent struct{}

func (testEvent) Log() *types.Log {
	return &types.Log{}
}

func TestMarkCall(t *testing.T) {
	require := require.New(t)

	m, err := New(prometheus.NewRegistry())
	require.NoError(err)
	impl := m.(*metricsImpl)

	m.MarkCall("swap", nil)
	m.MarkCall("swap", nil)
	m.MarkCall("swap", errors.New("reverted"))
	m.MarkCall("mint", nil)

	require.InDelta(2, testutil.ToFloat64(impl.calls.WithLabelValues("swap", resultCommitted)), 0)
	require.InDelta(1, testutil.ToFloat64(impl.calls.WithLabelValues("swap", resultReverted)), 0)
	require.InDelta(1, testutil.ToFloat64(impl.calls.WithLabelValues("mint", resultCommitted)), 0)
}

func TestMarkEventsAndPools(t *testing.T) {
	require := require.New(t)

	m, err := New(prometheus.NewRegistry())
	require.NoError(err)
	impl := m.(*metricsImpl)

	m.MarkEvents([]state.Event{testEvent{}, testEvent{}})
	require.InDelta(2, testutil.ToFloat64(impl.events.WithLabelValues("metrics.testEvent")), 0)

	m.SetPools(3)
	require.InDelta(3, testutil.ToFloat64(impl.pools), 0)
}

func TestMarkHealth(t *testing.T) {
	require := require.New(t)

	m, err := New(prometheus.NewRegistry())
	require.NoError(err)
	impl := m.(*metricsImpl)
	require.Zero(testutil.ToFloat64(impl.failingChecks))

	m.MarkHealth(false)
	require.InDelta(1, testutil.ToFloat64(impl.failingChecks), 0)
	m.MarkHealth(true)
	require.Zero(testutil.ToFloat64(impl.failingChecks))
}

func TestDoubleRegistration(t *testing.T) {
	require := require.New(t)

	registry := prometheus.NewRegistry()
	_, err := New(registry)
	require.NoError(err)

	_, err = New(registry)
	var alreadyRegistered prometheus.AlreadyRegisteredError
	require.ErrorAs(err, &alreadyRegistered)
}

func TestAPIInterceptor(t *testing.T) {
	require := require.New(t)

	interceptor, err := NewAPIInterceptor(prometheus.NewRegistry())
	require.NoError(err)
	impl := interceptor.(*apiInterceptor)

	info := &rpc.RequestInfo{
		Method:  "udex.getPool",
		Request: httptest.NewRequest("POST", "/ext/udex", nil),
	}
	info.Request = interceptor.InterceptRequest(info)
	interceptor.AfterRequest(info)

	info.Error = errors.New("boom")
	interceptor.AfterRequest(info)

	require.InDelta(2, testutil.ToFloat64(impl.requestDurationCount.WithLabelValues("udex.getPool")), 0)
	require.InDelta(1, testutil.ToFloat64(impl.requestErrors.WithLabelValues("udex.getPool")), 0)

	// Requests that were never intercepted are not measured.
	interceptor.AfterRequest(&rpc.RequestInfo{
		Method:  "udex.health",
		Request: httptest.NewRequest("POST", "/ext/udex", nil),
	})
	require.Zero(testutil.ToFloat64(impl.requestDurationCount.WithLabelValues("udex.health")))
}

func TestNoop(t *testing.T) {
	m := NewNoop()
	m.MarkCall("swap", nil)
	m.MarkEvents([]state.Event{testEvent{}})
	m.SetPools(1)
	m.MarkHealth(false)

	req := httptest.NewRequest("POST", "/ext/udex", nil)
	info := &rpc.RequestInfo{Request: req}
	require.Equal(t, req, m.InterceptRequest(info))
	m.AfterRequest(info)
}
