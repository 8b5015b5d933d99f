// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package udex

import (
	"fmt"

	"github.com/luxfi/database"
	"github.com/luxfi/database/badgerdb"
	"github.com/luxfi/database/memdb"
	"github.com/luxfi/log"

	"github.com/luxfi/udex/config"
)

// Factory creates new VM instances.
type Factory struct {
	Config config.Config
}

// New creates a new, uninitialized VM with the given logger.
func (f *Factory) New(logger log.Logger) (*VM, error) {
	if err := f.Config.Verify(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return New(f.Config, logger), nil
}

// OpenDatabase opens the database selected by the config. An empty
// DatabaseDir keeps everything in memory.
func OpenDatabase(c config.Config) (database.Database, error) {
	if c.DatabaseDir == "" {
		return memdb.New(), nil
	}
	db, err := badgerdb.New(
		c.DatabaseDir,
		nil, // configBytes - use default
		"",  // namespace
		nil, // metrics
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open database at %q: %w", c.DatabaseDir, err)
	}
	return db, nil
}
