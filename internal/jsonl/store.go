// Package jsonl implements types.Store as a directory of JSON Lines files:
// one line per blueprint in blueprints.jsonl, one line per contract in
// contracts.jsonl, and a single meta line in meta.jsonl. Every Save rewrites
// all three files. Each file is first written to a fsynced temp file; only
// when all three are staged are they renamed into place, so a failed write
// leaves the previous snapshot intact. The renames themselves are atomic per
// file only: a crash between two renames can leave files from different
// saves on disk.
package jsonl

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/mesh-intelligence/folio/pkg/types"
)

// File names inside the data directory.
const (
	BlueprintsFile = "blueprints.jsonl"
	ContractsFile  = "contracts.jsonl"
	MetaFile       = "meta.jsonl"
)

// Store is a JSONL-backed snapshot store rooted at a data directory.
type Store struct {
	mu     sync.Mutex
	dir    string
	closed bool
}

// Open prepares dir for use, creating it and any missing data files.
func Open(dir string) (*Store, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}
	for _, name := range []string{BlueprintsFile, ContractsFile, MetaFile} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			continue
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("stat %s: %w", name, err)
		}
		if err := os.WriteFile(path, nil, 0o644); err != nil {
			return nil, fmt.Errorf("creating %s: %w", name, err)
		}
	}
	return &Store{dir: dir}, nil
}

// Dir returns the data directory.
func (s *Store) Dir() string { return s.dir }

// Load reads the snapshot. Malformed lines are skipped; records that parse
// but hold impossible values (bad timestamps, unknown status, a value of the
// wrong domain) fail the load.
func (s *Store) Load() (types.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return types.Snapshot{}, types.ErrStoreClosed
	}

	var snap types.Snapshot

	bpLines, err := readLines(filepath.Join(s.dir, BlueprintsFile))
	if err != nil {
		return types.Snapshot{}, err
	}
	for _, line := range bpLines {
		var rec blueprintJSON
		if err := json.Unmarshal(line, &rec); err != nil {
			continue
		}
		bp, err := rec.toBlueprint()
		if err != nil {
			return types.Snapshot{}, err
		}
		snap.Blueprints = append(snap.Blueprints, bp)
	}

	cLines, err := readLines(filepath.Join(s.dir, ContractsFile))
	if err != nil {
		return types.Snapshot{}, err
	}
	for _, line := range cLines {
		var rec contractJSON
		if err := json.Unmarshal(line, &rec); err != nil {
			continue
		}
		c, err := rec.toContract()
		if err != nil {
			return types.Snapshot{}, err
		}
		snap.Contracts = append(snap.Contracts, c)
	}

	metaLines, err := readLines(filepath.Join(s.dir, MetaFile))
	if err != nil {
		return types.Snapshot{}, err
	}
	for _, line := range metaLines {
		var rec metaJSON
		if err := json.Unmarshal(line, &rec); err != nil {
			continue
		}
		snap.Initialized = rec.Initialized
	}

	return snap, nil
}

// Save rewrites all three files from snap. Meta is renamed last, so a crash
// between renames leaves initialized unset rather than claiming a seed that
// never landed.
func (s *Store) Save(snap types.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return types.ErrStoreClosed
	}

	bps := make([]blueprintJSON, len(snap.Blueprints))
	for i, bp := range snap.Blueprints {
		bps[i] = toBlueprintJSON(bp)
	}
	bpLines, err := encodeAll(bps)
	if err != nil {
		return fmt.Errorf("encoding blueprints: %w", err)
	}

	cs := make([]contractJSON, len(snap.Contracts))
	for i, c := range snap.Contracts {
		cs[i] = toContractJSON(c)
	}
	cLines, err := encodeAll(cs)
	if err != nil {
		return fmt.Errorf("encoding contracts: %w", err)
	}

	metaLines, err := encodeAll([]metaJSON{{
		Initialized: snap.Initialized,
		SavedAt:     formatTime(time.Now()),
	}})
	if err != nil {
		return fmt.Errorf("encoding meta: %w", err)
	}

	var staged []stagedFile
	for _, f := range []struct {
		name  string
		lines []json.RawMessage
	}{
		{BlueprintsFile, bpLines},
		{ContractsFile, cLines},
		{MetaFile, metaLines},
	} {
		sf, err := stage(filepath.Join(s.dir, f.name), f.lines)
		if err != nil {
			discard(staged)
			return fmt.Errorf("writing %s: %w", f.name, err)
		}
		staged = append(staged, sf)
	}

	for i, sf := range staged {
		if err := os.Rename(sf.tmp, sf.target); err != nil {
			discard(staged[i:])
			return fmt.Errorf("renaming %s: %w", filepath.Base(sf.target), err)
		}
	}
	return nil
}

// Close marks the store closed. Idempotent.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
