// Package sqlite implements types.Store on a single SQLite database file
// using the pure-Go modernc.org/sqlite driver. Save replaces every row inside
// one transaction, so a snapshot is either fully written or not at all.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/folio/pkg/types"
)

// DBFile is the database file name inside the data directory.
const DBFile = "folio.db"

// Store is a SQLite-backed snapshot store.
type Store struct {
	mu   sync.Mutex
	path string
	db   *sql.DB
}

// Open opens (creating if needed) the database in dir and applies the
// schema.
func Open(dir string) (*Store, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}
	path := filepath.Join(dir, DBFile)

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	// A single connection keeps PRAGMA settings and serializes writers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}
	for _, ddl := range schemaDDL {
		if _, err := db.Exec(ddl); err != nil {
			db.Close()
			return nil, fmt.Errorf("applying schema: %w", err)
		}
	}
	for _, ddl := range indexDDL {
		if _, err := db.Exec(ddl); err != nil {
			db.Close()
			return nil, fmt.Errorf("creating index: %w", err)
		}
	}
	return &Store{path: path, db: db}, nil
}

// Path returns the database file path.
func (s *Store) Path() string { return s.path }

// Load reads the snapshot.
func (s *Store) Load() (types.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return types.Snapshot{}, types.ErrStoreClosed
	}

	var snap types.Snapshot
	var err error
	if snap.Blueprints, err = s.loadBlueprints(); err != nil {
		return types.Snapshot{}, err
	}
	if snap.Contracts, err = s.loadContracts(); err != nil {
		return types.Snapshot{}, err
	}

	var initialized string
	err = s.db.QueryRow("SELECT value FROM meta WHERE key = ?", metaInitialized).Scan(&initialized)
	switch {
	case err == sql.ErrNoRows:
	case err != nil:
		return types.Snapshot{}, fmt.Errorf("reading meta: %w", err)
	default:
		snap.Initialized = initialized == "true"
	}
	return snap, nil
}

func (s *Store) loadBlueprints() ([]types.Blueprint, error) {
	rows, err := s.db.Query(
		"SELECT blueprint_id, name, description, created_at, updated_at FROM blueprints ORDER BY ordinal")
	if err != nil {
		return nil, fmt.Errorf("querying blueprints: %w", err)
	}
	defer rows.Close()

	var bps []types.Blueprint
	index := make(map[string]int)
	for rows.Next() {
		var bp types.Blueprint
		var createdAt, updatedAt string
		if err := rows.Scan(&bp.BlueprintID, &bp.Name, &bp.Description, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scanning blueprint: %w", err)
		}
		if bp.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, fmt.Errorf("parsing blueprint %s created_at: %w", bp.BlueprintID, err)
		}
		if bp.UpdatedAt, err = parseTime(updatedAt); err != nil {
			return nil, fmt.Errorf("parsing blueprint %s updated_at: %w", bp.BlueprintID, err)
		}
		index[bp.BlueprintID] = len(bps)
		bps = append(bps, bp)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	frows, err := s.db.Query(
		"SELECT blueprint_id, field_id, field_type, label, x, y, required FROM blueprint_fields ORDER BY blueprint_id, ordinal")
	if err != nil {
		return nil, fmt.Errorf("querying blueprint fields: %w", err)
	}
	defer frows.Close()
	for frows.Next() {
		var bpID string
		var f types.BlueprintField
		var ft string
		if err := frows.Scan(&bpID, &f.ID, &ft, &f.Label, &f.Position.X, &f.Position.Y, &f.Required); err != nil {
			return nil, fmt.Errorf("scanning blueprint field: %w", err)
		}
		f.Type = types.FieldType(ft)
		i, ok := index[bpID]
		if !ok {
			continue
		}
		bps[i].Fields = append(bps[i].Fields, f)
	}
	return bps, frows.Err()
}

func (s *Store) loadContracts() ([]types.Contract, error) {
	rows, err := s.db.Query(
		"SELECT contract_id, name, blueprint_id, blueprint_name, status, created_at, updated_at FROM contracts ORDER BY ordinal")
	if err != nil {
		return nil, fmt.Errorf("querying contracts: %w", err)
	}
	defer rows.Close()

	var cs []types.Contract
	index := make(map[string]int)
	for rows.Next() {
		var c types.Contract
		var status, createdAt, updatedAt string
		if err := rows.Scan(&c.ContractID, &c.Name, &c.BlueprintID, &c.BlueprintName, &status, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scanning contract: %w", err)
		}
		if c.Status, err = types.ParseStatus(status); err != nil {
			return nil, fmt.Errorf("contract %s: %w", c.ContractID, err)
		}
		if c.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, fmt.Errorf("parsing contract %s created_at: %w", c.ContractID, err)
		}
		if c.UpdatedAt, err = parseTime(updatedAt); err != nil {
			return nil, fmt.Errorf("parsing contract %s updated_at: %w", c.ContractID, err)
		}
		index[c.ContractID] = len(cs)
		cs = append(cs, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	vrows, err := s.db.Query(
		"SELECT contract_id, field_id, field_type, required, value FROM contract_field_values ORDER BY contract_id, ordinal")
	if err != nil {
		return nil, fmt.Errorf("querying contract field values: %w", err)
	}
	defer vrows.Close()
	for vrows.Next() {
		var cID, ft, valueJSON string
		var fv types.ContractFieldValue
		if err := vrows.Scan(&cID, &fv.FieldID, &ft, &fv.Required, &valueJSON); err != nil {
			return nil, fmt.Errorf("scanning contract field value: %w", err)
		}
		fv.Type = types.FieldType(ft)
		if err := json.Unmarshal([]byte(valueJSON), &fv.Value); err != nil {
			return nil, fmt.Errorf("parsing contract %s field %s value: %w", cID, fv.FieldID, err)
		}
		if fv.Value.Domain() != fv.Type.Domain() {
			return nil, fmt.Errorf("contract %s field %s: %w", cID, fv.FieldID, types.ErrTypeMismatch)
		}
		i, ok := index[cID]
		if !ok {
			continue
		}
		cs[i].FieldValues = append(cs[i].FieldValues, fv)
	}
	return cs, vrows.Err()
}

// Save replaces the stored snapshot inside one transaction.
func (s *Store) Save(snap types.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return types.ErrStoreClosed
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning save transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range []string{
		"DELETE FROM contract_field_values",
		"DELETE FROM contracts",
		"DELETE FROM blueprint_fields",
		"DELETE FROM blueprints",
	} {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("clearing tables: %w", err)
		}
	}

	for i, bp := range snap.Blueprints {
		if _, err := tx.Exec(
			"INSERT INTO blueprints (blueprint_id, ordinal, name, description, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)",
			bp.BlueprintID, i, bp.Name, bp.Description, formatTime(bp.CreatedAt), formatTime(bp.UpdatedAt),
		); err != nil {
			return fmt.Errorf("inserting blueprint %s: %w", bp.BlueprintID, err)
		}
		for j, f := range bp.Fields {
			if _, err := tx.Exec(
				"INSERT INTO blueprint_fields (blueprint_id, field_id, ordinal, field_type, label, x, y, required) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
				bp.BlueprintID, f.ID, j, string(f.Type), f.Label, f.Position.X, f.Position.Y, f.Required,
			); err != nil {
				return fmt.Errorf("inserting field %s of blueprint %s: %w", f.ID, bp.BlueprintID, err)
			}
		}
	}

	for i, c := range snap.Contracts {
		if _, err := tx.Exec(
			"INSERT INTO contracts (contract_id, ordinal, name, blueprint_id, blueprint_name, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
			c.ContractID, i, c.Name, c.BlueprintID, c.BlueprintName, string(c.Status), formatTime(c.CreatedAt), formatTime(c.UpdatedAt),
		); err != nil {
			return fmt.Errorf("inserting contract %s: %w", c.ContractID, err)
		}
		for j, fv := range c.FieldValues {
			value, err := json.Marshal(fv.Value)
			if err != nil {
				return fmt.Errorf("encoding contract %s field %s: %w", c.ContractID, fv.FieldID, err)
			}
			if _, err := tx.Exec(
				"INSERT INTO contract_field_values (contract_id, field_id, ordinal, field_type, required, value) VALUES (?, ?, ?, ?, ?, ?)",
				c.ContractID, fv.FieldID, j, string(fv.Type), fv.Required, string(value),
			); err != nil {
				return fmt.Errorf("inserting field %s of contract %s: %w", fv.FieldID, c.ContractID, err)
			}
		}
	}

	initialized := "false"
	if snap.Initialized {
		initialized = "true"
	}
	if _, err := tx.Exec(
		"INSERT INTO meta (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		metaInitialized, initialized,
	); err != nil {
		return fmt.Errorf("writing meta: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing save transaction: %w", err)
	}
	return nil
}

// Close closes the database. Idempotent.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}
