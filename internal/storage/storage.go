// Package storage opens the configured snapshot store.
package storage

import (
	"fmt"

	"github.com/mesh-intelligence/folio/internal/jsonl"
	"github.com/mesh-intelligence/folio/internal/sqlite"
	"github.com/mesh-intelligence/folio/pkg/types"
)

// Open validates cfg and opens the backend it names.
func Open(cfg types.Config) (types.Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	switch cfg.Backend {
	case types.BackendSQLite:
		s, err := sqlite.Open(cfg.DataDir)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite store: %w", err)
		}
		return s, nil
	default:
		s, err := jsonl.Open(cfg.DataDir)
		if err != nil {
			return nil, fmt.Errorf("opening jsonl store: %w", err)
		}
		return s, nil
	}
}
