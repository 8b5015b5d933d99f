// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package metrics

import (
	"context"
	"fmt"
	"net/http"

	"github.com/luxfi/metric"

	"github.com/luxfi/udex/utils/rpc"
)

// Endpoint is the path metrics are served at.
const Endpoint = "/ext/metrics"

// Client for requesting metrics from a remote udex node
type Client struct {
	uri    string
	client *http.Client
}

// NewClient returns a new Metrics API Client
func NewClient(uri string) *Client {
	return &Client{
		uri:    uri + Endpoint,
		client: http.DefaultClient,
	}
}

// GetMetrics returns the metrics from the connected node, keyed by metric
// family name.
func (c *Client) GetMetrics(ctx context.Context) (map[string]*metric.MetricFamily, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, c.uri, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(request)
	if err != nil {
		return nil, fmt.Errorf("failed to issue request: %w", err)
	}
	defer func() {
		_ = rpc.CleanlyCloseBody(resp.Body)
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %d", rpc.ErrUnexpectedStatus, resp.StatusCode)
	}

	var parser metric.TextParser
	return parser.TextToMetricFamilies(resp.Body)
}
