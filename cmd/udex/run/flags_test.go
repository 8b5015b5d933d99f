// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package run

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/udex/config"
)

func newFlags() *pflag.FlagSet {
	flags := pflag.NewFlagSet("run", pflag.ContinueOnError)
	AddFlags(flags)
	return flags
}

func TestParseFlagsDefaults(t *testing.T) {
	require := require.New(t)

	c, err := ParseFlags(newFlags(), nil)
	require.NoError(err)
	require.Equal(config.DefaultConfig(), c)
}

func TestParseFlagsOverridesFile(t *testing.T) {
	require := require.New(t)

	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(os.WriteFile(path, []byte(`{"logLevel":"debug","httpPort":9000}`), 0o600))

	c, err := ParseFlags(newFlags(), []string{
		"--" + ConfigFileKey, path,
		"--" + HTTPPortKey, "9100",
		"--" + MetricsEnabledKey + "=false",
	})
	require.NoError(err)
	require.Equal(config.LogLevelDebug, c.LogLevel)
	require.Equal(uint16(9100), c.HTTPPort)
	require.False(c.MetricsEnabled)
	require.Equal(config.DefaultConfig().HTTPHost, c.HTTPHost)
}

func TestParseFlagsInvalid(t *testing.T) {
	require := require.New(t)

	_, err := ParseFlags(newFlags(), []string{"--" + LogLevelKey, "loud"})
	require.ErrorIs(err, config.ErrInvalidLogLevel)

	_, err = ParseFlags(newFlags(), []string{"--" + ConfigFileKey, filepath.Join(t.TempDir(), "missing.json")})
	require.ErrorIs(err, os.ErrNotExist)
}
