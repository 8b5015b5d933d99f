// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package run

import (
	"github.com/spf13/pflag"

	"github.com/luxfi/udex/config"
)

const (
	ConfigFileKey     = "config-file"
	LogLevelKey       = "log-level"
	HTTPHostKey       = "http-host"
	HTTPPortKey       = "http-port"
	DatabaseDirKey    = "db-dir"
	MetricsEnabledKey = "metrics-enabled"
)

func AddFlags(flags *pflag.FlagSet) {
	defaults := config.DefaultConfig()
	flags.String(ConfigFileKey, "", "JSON config file to load before applying flags")
	flags.String(LogLevelKey, defaults.LogLevel, "Log level: debug, info or off")
	flags.String(HTTPHostKey, defaults.HTTPHost, "Address the HTTP API listens on")
	flags.Uint16(HTTPPortKey, defaults.HTTPPort, "Port the HTTP API listens on")
	flags.String(DatabaseDirKey, defaults.DatabaseDir, "Directory to persist state in. Empty keeps state in memory")
	flags.Bool(MetricsEnabledKey, defaults.MetricsEnabled, "Serve prometheus metrics at /ext/metrics")
}

// ParseFlags loads the config file, if any, and overrides it with the flags
// that were set explicitly.
func ParseFlags(flags *pflag.FlagSet, args []string) (config.Config, error) {
	if err := flags.Parse(args); err != nil {
		return config.Config{}, err
	}

	configFile, err := flags.GetString(ConfigFileKey)
	if err != nil {
		return config.Config{}, err
	}
	c, err := config.Load(configFile)
	if err != nil {
		return config.Config{}, err
	}

	if flags.Changed(LogLevelKey) {
		if c.LogLevel, err = flags.GetString(LogLevelKey); err != nil {
			return config.Config{}, err
		}
	}
	if flags.Changed(HTTPHostKey) {
		if c.HTTPHost, err = flags.GetString(HTTPHostKey); err != nil {
			return config.Config{}, err
		}
	}
	if flags.Changed(HTTPPortKey) {
		if c.HTTPPort, err = flags.GetUint16(HTTPPortKey); err != nil {
			return config.Config{}, err
		}
	}
	if flags.Changed(DatabaseDirKey) {
		if c.DatabaseDir, err = flags.GetString(DatabaseDirKey); err != nil {
			return config.Config{}, err
		}
	}
	if flags.Changed(MetricsEnabledKey) {
		if c.MetricsEnabled, err = flags.GetBool(MetricsEnabledKey); err != nil {
			return config.Config{}, err
		}
	}
	return c, c.Verify()
}
