// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package rpc sends JSON-RPC 2.0 requests over HTTP.
package rpc

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gorilla/rpc/v2/json2"
)

var ErrUnexpectedStatus = errors.New("unexpected status code")

// SendJSONRequest calls method at uri with params and decodes the result into
// reply.
func SendJSONRequest(
	ctx context.Context,
	client *http.Client,
	uri string,
	method string,
	params interface{},
	reply interface{},
) error {
	requestBody, err := json2.EncodeClientRequest(method, params)
	if err != nil {
		return fmt.Errorf("failed to encode client params: %w", err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, uri, bytes.NewReader(requestBody))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	request.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(request)
	if err != nil {
		return fmt.Errorf("failed to issue request: %w", err)
	}

	// Return an error for any non successful status code
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drop any error during close to report the original error
		_ = CleanlyCloseBody(resp.Body)
		return fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	if err := json2.DecodeClientResponse(resp.Body, reply); err != nil {
		// Drop any error during close to report the original error
		_ = CleanlyCloseBody(resp.Body)
		return fmt.Errorf("failed to decode client response: %w", err)
	}
	return CleanlyCloseBody(resp.Body)
}

// CleanlyCloseBody drains and closes body so the connection can be reused.
func CleanlyCloseBody(body io.ReadCloser) error {
	if body == nil {
		return nil
	}
	if _, err := io.Copy(io.Discard, body); err != nil {
		_ = body.Close()
		return err
	}
	return body.Close()
}
