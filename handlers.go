// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package udex

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/rpc/v2"

	"github.com/luxfi/udex/api"

	udexjson "github.com/luxfi/udex/utils/json"
)

// CreateHandlers returns the HTTP handlers of the VM keyed by endpoint:
// "udex" serves the JSON-RPC API and "health" the health check.
func (vm *VM) CreateHandlers(context.Context) (map[string]http.Handler, error) {
	codec := udexjson.NewCodec()

	server := rpc.NewServer()
	server.RegisterCodec(codec, "application/json")
	server.RegisterCodec(codec, "application/json;charset=UTF-8")
	server.RegisterInterceptFunc(vm.metrics.InterceptRequest)
	server.RegisterAfterFunc(vm.metrics.AfterRequest)
	if err := server.RegisterService(api.NewService(vm, vm.log), "udex"); err != nil {
		return nil, fmt.Errorf("failed to register udex service: %w", err)
	}

	return map[string]http.Handler{
		"udex":   server,
		"health": http.HandlerFunc(vm.serveHealth),
	}, nil
}

func (vm *VM) serveHealth(w http.ResponseWriter, r *http.Request) {
	checks, err := vm.HealthCheck(r.Context())
	reply := api.HealthReply{
		Healthy: err == nil,
		Checks:  checks,
	}
	status := http.StatusOK
	if err != nil {
		reply.Error = err.Error()
		status = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(reply)
}
