// Package storetest holds the behavior every types.Store must show. Backend
// packages call Run from their tests.
package storetest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/folio/pkg/types"
)

// Opener returns a fresh store. Reopen must return a store over the same
// durable data as the store it was given, which the caller has closed.
type Opener struct {
	Open   func(t *testing.T) types.Store
	Reopen func(t *testing.T, previous types.Store) types.Store
}

// Sample returns a snapshot exercising every field type, both value
// domains, and non-trivial timestamps.
func Sample() types.Snapshot {
	created := time.Date(2026, 2, 14, 10, 30, 0, 123456789, time.UTC)
	updated := created.Add(26 * time.Hour)
	return types.Snapshot{
		Initialized: true,
		Blueprints: []types.Blueprint{
			{
				BlueprintID: "0194f0c2-aaaa-7000-8000-000000000001",
				Name:        "Non-Disclosure Agreement",
				Description: "Confidentiality agreement",
				Fields: []types.BlueprintField{
					{ID: "party", Type: types.FieldText, Label: "Party", Position: types.Position{X: 30, Y: 20}, Required: true},
					{ID: "effective", Type: types.FieldDate, Label: "Effective Date", Position: types.Position{X: 280.5, Y: 120}},
					{ID: "agree", Type: types.FieldCheckbox, Label: "Agree", Position: types.Position{X: 30, Y: 220}, Required: true},
					{ID: "sign", Type: types.FieldSignature, Label: "Signature", Position: types.Position{X: 30, Y: 320}, Required: true},
				},
				CreatedAt: created,
				UpdatedAt: updated,
			},
			{
				BlueprintID: "0194f0c2-aaaa-7000-8000-000000000002",
				Name:        "Sales Agreement",
				Fields: []types.BlueprintField{
					{ID: "buyer", Type: types.FieldText, Label: "Buyer"},
				},
				CreatedAt: created,
				UpdatedAt: created,
			},
		},
		Contracts: []types.Contract{
			{
				ContractID:    "0194f0c2-bbbb-7000-8000-000000000001",
				Name:          "Acme NDA",
				BlueprintID:   "0194f0c2-aaaa-7000-8000-000000000001",
				BlueprintName: "Non-Disclosure Agreement",
				Status:        types.StatusSent,
				FieldValues: []types.ContractFieldValue{
					{FieldID: "party", Type: types.FieldText, Required: true, Value: types.StringValue("Acme \"Widgets\" Ltd")},
					{FieldID: "effective", Type: types.FieldDate, Value: types.StringValue("2026-03-01")},
					{FieldID: "agree", Type: types.FieldCheckbox, Required: true, Value: types.BoolValue(true)},
					{FieldID: "sign", Type: types.FieldSignature, Required: true, Value: types.StringValue("")},
				},
				CreatedAt: created,
				UpdatedAt: updated,
			},
			{
				ContractID:    "0194f0c2-bbbb-7000-8000-000000000002",
				Name:          "Orphaned",
				BlueprintID:   "deleted-blueprint",
				BlueprintName: "Gone",
				Status:        types.StatusRevoked,
				FieldValues: []types.ContractFieldValue{
					{FieldID: "x", Type: types.FieldCheckbox, Value: types.BoolValue(false)},
				},
				CreatedAt: created,
				UpdatedAt: created,
			},
		},
	}
}

// Run exercises the store contract.
func Run(t *testing.T, o Opener) {
	t.Run("empty store loads empty snapshot", func(t *testing.T) {
		s := o.Open(t)
		defer s.Close()

		snap, err := s.Load()
		require.NoError(t, err)
		assert.Empty(t, snap.Blueprints)
		assert.Empty(t, snap.Contracts)
		assert.False(t, snap.Initialized)
	})

	t.Run("save then load round-trips exactly", func(t *testing.T) {
		s := o.Open(t)
		defer s.Close()

		want := Sample()
		require.NoError(t, s.Save(want))
		got, err := s.Load()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("data survives reopen", func(t *testing.T) {
		s := o.Open(t)
		want := Sample()
		require.NoError(t, s.Save(want))
		require.NoError(t, s.Close())

		s2 := o.Reopen(t, s)
		defer s2.Close()
		got, err := s2.Load()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("save replaces the whole snapshot", func(t *testing.T) {
		s := o.Open(t)
		defer s.Close()

		require.NoError(t, s.Save(Sample()))
		smaller := Sample()
		smaller.Blueprints = smaller.Blueprints[:1]
		smaller.Contracts = nil
		require.NoError(t, s.Save(smaller))

		got, err := s.Load()
		require.NoError(t, err)
		assert.Len(t, got.Blueprints, 1)
		assert.Empty(t, got.Contracts)
		assert.True(t, got.Initialized)
	})

	t.Run("initialized flag persists without blueprints", func(t *testing.T) {
		s := o.Open(t)
		defer s.Close()

		require.NoError(t, s.Save(types.Snapshot{Initialized: true}))
		got, err := s.Load()
		require.NoError(t, err)
		assert.True(t, got.Initialized)
		assert.Empty(t, got.Blueprints)
	})

	t.Run("closed store rejects operations", func(t *testing.T) {
		s := o.Open(t)
		require.NoError(t, s.Close())
		require.NoError(t, s.Close(), "Close must be idempotent")

		_, err := s.Load()
		assert.ErrorIs(t, err, types.ErrStoreClosed)
		assert.ErrorIs(t, s.Save(Sample()), types.ErrStoreClosed)
	})
}
