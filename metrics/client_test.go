// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/udex/utils/rpc"
)

func TestClientGetMetrics(t *testing.T) {
	require := require.New(t)

	gatherer := NewPrefixGatherer()
	registry, err := MakeAndRegister(gatherer, "udex")
	require.NoError(err)
	m, err := New(registry)
	require.NoError(err)
	m.SetPools(3)

	mux := http.NewServeMux()
	mux.Handle(Endpoint, promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	server := httptest.NewServer(mux)
	defer server.Close()

	families, err := NewClient(server.URL).GetMetrics(context.Background())
	require.NoError(err)
	require.Contains(families, "udex_pools")
}

func TestClientGetMetricsStatus(t *testing.T) {
	require := require.New(t)

	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	_, err := NewClient(server.URL).GetMetrics(context.Background())
	require.ErrorIs(err, rpc.ErrUnexpectedStatus)
}

func TestClientGetMetricsEmptyRegistry(t *testing.T) {
	require := require.New(t)

	mux := http.NewServeMux()
	mux.Handle(Endpoint, promhttp.HandlerFor(prometheus.NewRegistry(), promhttp.HandlerOpts{}))
	server := httptest.NewServer(mux)
	defer server.Close()

	families, err := NewClient(server.URL).GetMetrics(context.Background())
	require.NoError(err)
	require.Empty(families)
}
