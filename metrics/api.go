// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/rpc/v2"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/luxfi/udex/utils/wrappers"
)

var (
	_ APIInterceptor = (*apiInterceptor)(nil)
	_ APIInterceptor = noopAPIInterceptor{}
)

type requestStartKey struct{}

// APIInterceptor measures JSON-RPC requests. Its methods are registered with
// a gorilla rpc server.
type APIInterceptor interface {
	InterceptRequest(i *rpc.RequestInfo) *http.Request
	AfterRequest(i *rpc.RequestInfo)
}

type apiInterceptor struct {
	requestDurationCount *prometheus.CounterVec
	requestDurationSum   *prometheus.GaugeVec
	requestErrors        *prometheus.CounterVec
}

func NewAPIInterceptor(registerer prometheus.Registerer) (APIInterceptor, error) {
	requestDurationCount := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "request_duration_count",
			Help: "Number of times this type of request was made",
		},
		[]string{"method"},
	)
	requestDurationSum := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "request_duration_sum",
			Help: "Amount of time in nanoseconds that has been spent handling this type of request",
		},
		[]string{"method"},
	)
	requestErrors := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "request_error_count",
			Help: "Number of requests of this type that returned an error",
		},
		[]string{"method"},
	)

	errs := wrappers.Errs{}
	errs.Add(
		registerer.Register(requestDurationCount),
		registerer.Register(requestDurationSum),
		registerer.Register(requestErrors),
	)
	return &apiInterceptor{
		requestDurationCount: requestDurationCount,
		requestDurationSum:   requestDurationSum,
		requestErrors:        requestErrors,
	}, errs.Err
}

func (*apiInterceptor) InterceptRequest(i *rpc.RequestInfo) *http.Request {
	ctx := i.Request.Context()
	ctx = context.WithValue(ctx, requestStartKey{}, time.Now())
	return i.Request.WithContext(ctx)
}

func (a *apiInterceptor) AfterRequest(i *rpc.RequestInfo) {
	start, ok := i.Request.Context().Value(requestStartKey{}).(time.Time)
	if !ok {
		return
	}

	a.requestDurationCount.WithLabelValues(i.Method).Inc()
	a.requestDurationSum.WithLabelValues(i.Method).Add(float64(time.Since(start)))
	if i.Error != nil {
		a.requestErrors.WithLabelValues(i.Method).Inc()
	}
}

type noopAPIInterceptor struct{}

func (noopAPIInterceptor) InterceptRequest(i *rpc.RequestInfo) *http.Request {
	return i.Request
}

func (noopAPIInterceptor) AfterRequest(*rpc.RequestInfo) {}
