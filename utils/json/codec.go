// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package json

import (
	"net/http"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/gorilla/rpc/v2"
	"github.com/gorilla/rpc/v2/json2"
)

var _ rpc.Codec = (*lowercase)(nil)

// NewCodec returns a JSON-RPC 2.0 codec that accepts method names whose
// first letter is lowercase, e.g. "udex.getPool" for Service.GetPool.
func NewCodec() rpc.Codec {
	return lowercase{json2.NewCodec()}
}

type lowercase struct {
	*json2.Codec
}

func (lc lowercase) NewRequest(r *http.Request) rpc.CodecRequest {
	return &request{lc.Codec.NewRequest(r).(*json2.CodecRequest)}
}

type request struct {
	*json2.CodecRequest
}

func (r *request) Method() (string, error) {
	method, err := r.CodecRequest.Method()
	if err != nil {
		return method, err
	}
	return UppercaseMethod(method), nil
}

// UppercaseMethod maps "service.method" to "service.Method". Other inputs are
// returned unchanged.
func UppercaseMethod(method string) string {
	service, function, ok := strings.Cut(method, ".")
	if !ok {
		return method
	}
	first, size := utf8.DecodeRuneInString(function)
	if first == utf8.RuneError {
		return method
	}
	return service + "." + string(unicode.ToUpper(first)) + function[size:]
}
