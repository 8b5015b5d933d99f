// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pool

import (
	"bytes"
	"strings"
	"testing"

	"github.com/luxfi/geth/common"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/udex/registry"
)

func TestAddressCommand(t *testing.T) {
	require := require.New(t)

	registryAddr := common.HexToAddress("0x00000000000000000000000000000000000000aa")
	tokenA := common.HexToAddress("0x2000000000000000000000000000000000000000")
	tokenB := common.HexToAddress("0x1000000000000000000000000000000000000000")
	want, err := registry.PoolAddress(registryAddr, tokenA, tokenB)
	require.NoError(err)

	cmd := Command()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{
		"address",
		"--" + RegistryKey, registryAddr.Hex(),
		"--" + TokenAKey, tokenA.Hex(),
		"--" + TokenBKey, tokenB.Hex(),
	})
	require.NoError(cmd.Execute())
	require.Equal(want.Hex(), strings.TrimSpace(out.String()))
}

func TestAddressCommandErrors(t *testing.T) {
	tokenA := common.HexToAddress("0x2000000000000000000000000000000000000000").Hex()
	registryAddr := common.HexToAddress("0x00000000000000000000000000000000000000aa").Hex()
	tests := []struct {
		name        string
		args        []string
		expectedErr error
		errContains string
	}{
		{
			name:        "missing registry",
			args:        []string{"--" + TokenAKey, tokenA, "--" + TokenBKey, tokenA},
			errContains: RegistryKey,
		},
		{
			name:        "malformed token",
			args:        []string{"--" + RegistryKey, registryAddr, "--" + TokenAKey, "0x12", "--" + TokenBKey, tokenA},
			errContains: TokenAKey,
		},
		{
			name:        "identical tokens",
			args:        []string{"--" + RegistryKey, registryAddr, "--" + TokenAKey, tokenA, "--" + TokenBKey, tokenA},
			expectedErr: registry.ErrInvalidPair,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)

			cmd := Command()
			cmd.SetOut(&bytes.Buffer{})
			cmd.SetErr(&bytes.Buffer{})
			cmd.SetArgs(append([]string{"address"}, tt.args...))
			err := cmd.Execute()
			require.Error(err)
			if tt.expectedErr != nil {
				require.ErrorIs(err, tt.expectedErr)
			}
			if tt.errContains != "" {
				require.ErrorContains(err, tt.errContains)
			}
		})
	}
}
