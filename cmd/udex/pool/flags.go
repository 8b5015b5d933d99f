// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pool

import (
	"fmt"

	"github.com/luxfi/geth/common"
	"github.com/spf13/pflag"
)

const (
	URIKey      = "uri"
	RegistryKey = "registry"
	TokenAKey   = "token-a"
	TokenBKey   = "token-b"
	CallerKey   = "caller"
)

const defaultURI = "http://127.0.0.1:9650"

func AddPairFlags(flags *pflag.FlagSet) {
	flags.String(RegistryKey, "", "Registry address (required)")
	flags.String(TokenAKey, "", "Address of one token of the pair (required)")
	flags.String(TokenBKey, "", "Address of the other token of the pair (required)")
}

func AddURIFlag(flags *pflag.FlagSet) {
	flags.String(URIKey, defaultURI, "API URI of the node to query")
}

type PairConfig struct {
	Registry common.Address
	TokenA   common.Address
	TokenB   common.Address
}

func ParsePairFlags(flags *pflag.FlagSet, args []string) (*PairConfig, error) {
	if err := flags.Parse(args); err != nil {
		return nil, err
	}

	registry, err := getAddress(flags, RegistryKey)
	if err != nil {
		return nil, err
	}
	tokenA, err := getAddress(flags, TokenAKey)
	if err != nil {
		return nil, err
	}
	tokenB, err := getAddress(flags, TokenBKey)
	if err != nil {
		return nil, err
	}
	return &PairConfig{
		Registry: registry,
		TokenA:   tokenA,
		TokenB:   tokenB,
	}, nil
}

func getAddress(flags *pflag.FlagSet, key string) (common.Address, error) {
	s, err := flags.GetString(key)
	if err != nil {
		return common.Address{}, err
	}
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("--%s: %q is not a hex address", key, s)
	}
	return common.HexToAddress(s), nil
}
