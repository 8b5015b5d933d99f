// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package config defines configuration types for the udex node.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/luxfi/log"
	"github.com/luxfi/log/level"
)

const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelOff   = "off"
)

var (
	ErrInvalidLogLevel = errors.New("invalid log level")
	ErrInvalidPort     = errors.New("invalid port")
	ErrInvalidTimeout  = errors.New("invalid timeout")
	ErrInvalidCache    = errors.New("invalid cache size")
)

// Config contains configuration parameters for the udex node.
type Config struct {
	// LogLevel is one of "debug", "info" or "off".
	LogLevel string `json:"logLevel"`

	// HTTP server
	HTTPHost          string        `json:"httpHost"`
	HTTPPort          uint16        `json:"httpPort"`
	AllowedOrigins    []string      `json:"allowedOrigins"`
	ReadHeaderTimeout time.Duration `json:"readHeaderTimeout"`
	ShutdownTimeout   time.Duration `json:"shutdownTimeout"`

	// DatabaseDir is where state is persisted. Empty keeps state in memory.
	DatabaseDir string `json:"databaseDir"`

	MetricsEnabled bool `json:"metricsEnabled"`

	// PoolCacheSize bounds the number of pair lookups kept in memory.
	PoolCacheSize int `json:"poolCacheSize"`
}

// DefaultConfig returns the default configuration for the udex node.
func DefaultConfig() Config {
	return Config{
		LogLevel: LogLevelInfo,

		HTTPHost:          "127.0.0.1",
		HTTPPort:          9650,
		AllowedOrigins:    []string{"*"},
		ReadHeaderTimeout: 10 * time.Second,
		ShutdownTimeout:   5 * time.Second,

		DatabaseDir: "",

		MetricsEnabled: true,

		PoolCacheSize: 1024,
	}
}

// Load reads a JSON config file on top of the defaults. Fields missing from
// the file keep their default values.
func Load(path string) (Config, error) {
	c := DefaultConfig()
	if path == "" {
		return c, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %q: %w", path, err)
	}
	if err := json.Unmarshal(b, &c); err != nil {
		return Config{}, fmt.Errorf("failed to parse config %q: %w", path, err)
	}
	return c, nil
}

// Verify returns an error if the config can't be used to start a node.
func (c Config) Verify() error {
	switch c.LogLevel {
	case LogLevelDebug, LogLevelInfo, LogLevelOff:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.LogLevel)
	}
	switch {
	case c.HTTPPort == 0:
		return fmt.Errorf("%w: %d", ErrInvalidPort, c.HTTPPort)
	case c.ReadHeaderTimeout < 0:
		return fmt.Errorf("%w: readHeaderTimeout %s", ErrInvalidTimeout, c.ReadHeaderTimeout)
	case c.ShutdownTimeout < 0:
		return fmt.Errorf("%w: shutdownTimeout %s", ErrInvalidTimeout, c.ShutdownTimeout)
	case c.PoolCacheSize <= 0:
		return fmt.Errorf("%w: %d", ErrInvalidCache, c.PoolCacheSize)
	default:
		return nil
	}
}

// Address is the host:port the HTTP server listens on.
func (c Config) Address() string {
	return fmt.Sprintf("%s:%d", c.HTTPHost, c.HTTPPort)
}

// Logger builds the logger selected by LogLevel.
func (c Config) Logger() (log.Logger, error) {
	switch c.LogLevel {
	case LogLevelDebug:
		return log.NewTestLogger(level.Debug), nil
	case LogLevelInfo:
		return log.NewTestLogger(level.Info), nil
	case LogLevelOff:
		return log.NewNoOpLogger(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.LogLevel)
	}
}
