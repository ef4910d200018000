package app

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/folio/pkg/types"
)

var errDiskFull = errors.New("disk full")

// memStore is an in-memory types.Store that counts saves and can be told to
// fail them.
type memStore struct {
	snap     types.Snapshot
	saves    int
	failSave error
	loadErr  error
	closed   bool
}

func (m *memStore) Load() (types.Snapshot, error) {
	if m.loadErr != nil {
		return types.Snapshot{}, m.loadErr
	}
	return m.snap.Clone(), nil
}

func (m *memStore) Save(s types.Snapshot) error {
	if m.failSave != nil {
		return m.failSave
	}
	m.saves++
	m.snap = s.Clone()
	return nil
}

func (m *memStore) Close() error {
	m.closed = true
	return nil
}

// fakeClock advances one second per reading.
type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

func sequentialIDs(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

func newState(t *testing.T, store *memStore) *State {
	t.Helper()
	clock := &fakeClock{t: time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)}
	s, err := Open(store, WithClock(clock.now), WithIDGenerator(sequentialIDs("id")))
	require.NoError(t, err)
	return s
}

func ndaFields() []types.BlueprintField {
	return []types.BlueprintField{
		{ID: "party", Type: types.FieldText, Label: "Party", Required: true},
		{ID: "agree", Type: types.FieldCheckbox, Label: "Agree", Required: true},
		{ID: "sign", Type: types.FieldSignature, Label: "Signature"},
	}
}

// withContract returns a State holding one NDA blueprint and one contract
// created from it.
func withContract(t *testing.T, store *memStore) (*State, types.Contract) {
	t.Helper()
	s := newState(t, store)
	bp, err := s.CreateBlueprint("NDA", "", ndaFields())
	require.NoError(t, err)
	c, err := s.CreateContract("Acme NDA", bp.BlueprintID)
	require.NoError(t, err)
	return s, c
}

// advanceTo moves c forward until it reaches status.
func advanceTo(t *testing.T, s *State, id string, status types.ContractStatus) {
	t.Helper()
	for {
		c, err := s.GetContract(id)
		require.NoError(t, err)
		if c.Status == status {
			return
		}
		_, ok, err := s.AdvanceContract(id)
		require.NoError(t, err)
		require.True(t, ok, "cannot advance past %s", c.Status)
	}
}
