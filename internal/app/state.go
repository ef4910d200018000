// Package app is the application state facade. A State owns the in-memory
// snapshot of blueprints and contracts, applies the pure blueprint and
// lifecycle operations to it, and writes the full snapshot to its store
// after every successful mutation.
//
// A State is created explicitly with Open and handed to whatever presents
// it; there is no package-level instance. Mutations are serialized by a
// mutex. Reads return deep copies, so callers can never alter the snapshot
// behind the facade's back.
package app

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/folio/internal/metrics"
	"github.com/mesh-intelligence/folio/pkg/types"
)

// State is the facade over a types.Store.
type State struct {
	mu      sync.Mutex
	store   types.Store
	snap    types.Snapshot
	closed  bool
	now     func() time.Time
	newID   func() string
	log     *slog.Logger
	metrics *metrics.Metrics
}

// Option configures a State.
type Option func(*State)

// WithClock sets the source of timestamps. The default is the current UTC
// time.
func WithClock(now func() time.Time) Option {
	return func(s *State) { s.now = now }
}

// WithIDGenerator sets the source of blueprint and contract IDs. The
// default is NewID.
func WithIDGenerator(newID func() string) Option {
	return func(s *State) { s.newID = newID }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(s *State) { s.log = l }
}

// WithMetrics sets the counters the facade records into. The default is a
// private set from metrics.New.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *State) { s.metrics = m }
}

// NewID returns a time-ordered UUID v7, falling back to a random v4.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

// Open loads the snapshot from store and returns a State serving it. The
// store stays owned by the State; Close closes it.
func Open(store types.Store, opts ...Option) (*State, error) {
	s := &State{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
		newID: NewID,
		log:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		s.metrics = metrics.New()
	}

	snap, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("loading snapshot: %w", err)
	}
	s.snap = snap
	s.log.Debug("snapshot loaded",
		"blueprints", len(snap.Blueprints),
		"contracts", len(snap.Contracts),
		"initialized", snap.Initialized)
	return s, nil
}

// Initialized reports whether the store has been through default seeding.
func (s *State) Initialized() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap.Initialized
}

// Metrics returns the counters the State records into.
func (s *State) Metrics() *metrics.Metrics { return s.metrics }

// Close closes the underlying store. Idempotent. Mutations after Close
// return types.ErrStoreClosed; reads keep serving the last snapshot.
func (s *State) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if err := s.store.Close(); err != nil {
		return fmt.Errorf("closing store: %w", err)
	}
	return nil
}

// begin locks the State for a mutation. The caller must call s.mu.Unlock.
func (s *State) begin() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return types.ErrStoreClosed
	}
	return nil
}

// commit writes next to the store and, only if that succeeds, makes it the
// current snapshot. Caller holds s.mu.
func (s *State) commit(op string, next types.Snapshot) error {
	err := s.store.Save(next)
	s.metrics.Persist(err)
	if err != nil {
		s.log.Error("persist failed", "op", op, "err", err)
		return fmt.Errorf("persisting snapshot: %w", err)
	}
	s.snap = next
	s.log.Debug("snapshot persisted",
		"op", op,
		"blueprints", len(next.Blueprints),
		"contracts", len(next.Contracts))
	return nil
}

// observe records the outcome of op. A nil err with ok false is a
// rejection that returned no error, such as an invalid transition.
func (s *State) observe(op string, ok bool, err error) {
	switch {
	case err == nil && ok:
		s.metrics.Operation(op, metrics.ResultOK)
	case err == nil, isUserError(err):
		s.metrics.Operation(op, metrics.ResultRejected)
	default:
		s.metrics.Operation(op, metrics.ResultError)
	}
}

// isUserError reports whether err stems from the caller's input rather than
// from storage.
func isUserError(err error) bool {
	return types.IsValidation(err) ||
		errors.Is(err, types.ErrNotFound) ||
		errors.Is(err, types.ErrInvalidID)
}

func notFound(kind, id string) error {
	return fmt.Errorf("%s %q: %w", kind, id, types.ErrNotFound)
}
