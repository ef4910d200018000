// Package types defines the blueprint and contract entities, the field type
// registry, the contract status table, the Store interface, and the standard
// errors shared by every folio package.
//
// Entities are plain values. Operations that change them live in
// internal/blueprint and internal/lifecycle and return new values; only the
// application facade (internal/app) talks to a Store.
package types
