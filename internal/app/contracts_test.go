package app

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/folio/internal/jsonl"
	"github.com/mesh-intelligence/folio/internal/sqlite"
	"github.com/mesh-intelligence/folio/pkg/types"
)

func TestCreateContract(t *testing.T) {
	store := &memStore{}
	s, c := withContract(t, store)

	assert.Equal(t, "Acme NDA", c.Name)
	assert.Equal(t, "NDA", c.BlueprintName)
	assert.Equal(t, types.StatusCreated, c.Status)
	require.Len(t, c.FieldValues, 3)
	assert.Equal(t, types.StringValue(""), c.FieldValues[0].Value)
	assert.Equal(t, types.BoolValue(false), c.FieldValues[1].Value)
	assert.Equal(t, types.StringValue(""), c.FieldValues[2].Value)
	assert.Equal(t, 2, store.saves)
	assert.Len(t, s.ListContracts(types.FilterAll), 1)
}

func TestCreateContractUnknownBlueprint(t *testing.T) {
	store := &memStore{}
	s := newState(t, store)

	_, err := s.CreateContract("Orphan", "missing")
	assert.ErrorIs(t, err, types.ErrNotFound)
	assert.Empty(t, s.ListContracts(types.FilterAll))
	assert.Zero(t, store.saves)
}

func TestCreateContractEmptyName(t *testing.T) {
	store := &memStore{}
	s := newState(t, store)
	bp, err := s.CreateBlueprint("NDA", "", ndaFields())
	require.NoError(t, err)

	_, err = s.CreateContract("", bp.BlueprintID)
	assert.ErrorIs(t, err, types.ErrInvalidName)
	assert.Equal(t, 1, store.saves)
}

func TestAdvanceThroughFlow(t *testing.T) {
	store := &memStore{}
	s, c := withContract(t, store)

	for _, want := range []types.ContractStatus{
		types.StatusApproved,
		types.StatusSent,
		types.StatusSigned,
		types.StatusLocked,
	} {
		got, ok, err := s.AdvanceContract(c.ContractID)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, want, got.Status)
	}
	saves := store.saves

	got, ok, err := s.AdvanceContract(c.ContractID)
	require.NoError(t, err)
	assert.False(t, ok, "locked contracts cannot advance")
	assert.Equal(t, types.StatusLocked, got.Status)
	assert.Equal(t, saves, store.saves, "a rejected transition must not persist")

	m := s.Metrics()
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Transitions.WithLabelValues("signed", "locked")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Operations.WithLabelValues("advance_contract", "rejected")))
}

func TestRevokeContract(t *testing.T) {
	tests := []struct {
		from   types.ContractStatus
		wantOK bool
	}{
		{types.StatusCreated, true},
		{types.StatusApproved, false},
		{types.StatusSent, true},
		{types.StatusSigned, false},
		{types.StatusLocked, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from), func(t *testing.T) {
			store := &memStore{}
			s, c := withContract(t, store)
			advanceTo(t, s, c.ContractID, tt.from)
			saves := store.saves

			got, ok, err := s.RevokeContract(c.ContractID)
			require.NoError(t, err)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, types.StatusRevoked, got.Status)
				assert.Equal(t, saves+1, store.saves)
			} else {
				assert.Equal(t, tt.from, got.Status)
				assert.Equal(t, saves, store.saves)
			}
		})
	}
}

func TestRevokedContractIsFrozen(t *testing.T) {
	store := &memStore{}
	s, c := withContract(t, store)
	advanceTo(t, s, c.ContractID, types.StatusSent)
	revoked, ok, err := s.RevokeContract(c.ContractID)
	require.NoError(t, err)
	require.True(t, ok)
	saves := store.saves

	_, ok, err = s.AdvanceContract(c.ContractID)
	require.NoError(t, err)
	assert.False(t, ok)
	_, ok, err = s.RevokeContract(c.ContractID)
	require.NoError(t, err)
	assert.False(t, ok)

	got, applied, err := s.SetContractField(c.ContractID, "party", types.StringValue("late edit"))
	require.NoError(t, err)
	assert.False(t, applied)
	assert.Equal(t, revoked, got)
	assert.Equal(t, saves, store.saves)
	assert.Equal(t, 1.0, testutil.ToFloat64(s.Metrics().DroppedEdits))
}

func TestUpdateContractFields(t *testing.T) {
	store := &memStore{}
	s, c := withContract(t, store)

	values := []types.ContractFieldValue{
		{FieldID: "sign", Value: types.StringValue("J. Doe")},
		{FieldID: "party", Value: types.StringValue("Acme")},
		{FieldID: "agree", Value: types.BoolValue(true)},
	}
	got, applied, err := s.UpdateContractFields(c.ContractID, values)
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, "party", got.FieldValues[0].FieldID)
	assert.Equal(t, types.StringValue("Acme"), got.FieldValues[0].Value)
	assert.Equal(t, types.BoolValue(true), got.FieldValues[1].Value)
	assert.True(t, got.UpdatedAt.After(c.UpdatedAt))
	assert.Equal(t, 3, store.saves)

	t.Run("type mismatch", func(t *testing.T) {
		bad := append([]types.ContractFieldValue(nil), values...)
		bad[2].Value = types.StringValue("yes")
		_, _, err := s.UpdateContractFields(c.ContractID, bad)
		assert.ErrorIs(t, err, types.ErrTypeMismatch)
		assert.Equal(t, 3, store.saves)
	})

	t.Run("missing field", func(t *testing.T) {
		_, _, err := s.UpdateContractFields(c.ContractID, values[:2])
		assert.ErrorIs(t, err, types.ErrFieldSetMismatch)
	})

	t.Run("unknown contract", func(t *testing.T) {
		_, _, err := s.UpdateContractFields("missing", values)
		assert.ErrorIs(t, err, types.ErrNotFound)
	})
}

func TestLockedContractIgnoresEdits(t *testing.T) {
	store := &memStore{}
	s, c := withContract(t, store)
	advanceTo(t, s, c.ContractID, types.StatusLocked)
	locked, err := s.GetContract(c.ContractID)
	require.NoError(t, err)
	saves := store.saves

	got, applied, err := s.UpdateContractFields(c.ContractID, []types.ContractFieldValue{
		{FieldID: "party", Value: types.StringValue("x")},
		{FieldID: "agree", Value: types.BoolValue(true)},
		{FieldID: "sign", Value: types.StringValue("x")},
	})
	require.NoError(t, err)
	assert.False(t, applied)
	assert.Equal(t, locked, got)
	assert.Equal(t, locked.UpdatedAt, got.UpdatedAt)
	assert.Equal(t, saves, store.saves)
}

func TestSetContractField(t *testing.T) {
	store := &memStore{}
	s, c := withContract(t, store)

	got, applied, err := s.SetContractField(c.ContractID, "agree", types.BoolValue(true))
	require.NoError(t, err)
	assert.True(t, applied)
	fv, ok := got.FieldValue("agree")
	require.True(t, ok)
	assert.Equal(t, types.BoolValue(true), fv.Value)

	_, _, err = s.SetContractField(c.ContractID, "nope", types.StringValue("x"))
	assert.ErrorIs(t, err, types.ErrFieldNotFound)
	_, _, err = s.SetContractField(c.ContractID, "party", types.BoolValue(true))
	assert.ErrorIs(t, err, types.ErrTypeMismatch)
	assert.Equal(t, 3, store.saves)
}

func TestDeleteContract(t *testing.T) {
	store := &memStore{}
	s, c := withContract(t, store)
	advanceTo(t, s, c.ContractID, types.StatusLocked)

	require.NoError(t, s.DeleteContract(c.ContractID))
	_, err := s.GetContract(c.ContractID)
	assert.ErrorIs(t, err, types.ErrNotFound)
	assert.ErrorIs(t, s.DeleteContract(c.ContractID), types.ErrNotFound)
}

func TestListContractsFilter(t *testing.T) {
	s := newState(t, &memStore{})
	bp, err := s.CreateBlueprint("NDA", "", ndaFields())
	require.NoError(t, err)

	statuses := []types.ContractStatus{types.StatusCreated, types.StatusSent, types.StatusLocked, types.StatusRevoked}
	for _, st := range statuses {
		c, err := s.CreateContract(string(st), bp.BlueprintID)
		require.NoError(t, err)
		if st == types.StatusRevoked {
			_, ok, err := s.RevokeContract(c.ContractID)
			require.NoError(t, err)
			require.True(t, ok)
			continue
		}
		advanceTo(t, s, c.ContractID, st)
	}

	names := func(cs []types.Contract) []string {
		out := make([]string, 0, len(cs))
		for _, c := range cs {
			out = append(out, c.Name)
		}
		return out
	}
	assert.Equal(t, []string{"created", "sent", "locked", "revoked"}, names(s.ListContracts(types.FilterAll)))
	assert.Equal(t, []string{"created", "sent"}, names(s.ListContracts(types.FilterActive)))
	assert.Equal(t, []string{"created", "sent"}, names(s.ListContracts(types.FilterPending)))
	assert.Equal(t, []string{"locked"}, names(s.ListContracts(types.StatusFilter(types.StatusLocked))))
	assert.Empty(t, s.ListContracts(types.StatusFilter(types.StatusSigned)))

	sum := s.Summary()
	assert.Equal(t, 1, sum.Blueprints)
	assert.Equal(t, 4, sum.Contracts)
	assert.Equal(t, 2, sum.Pending)
	assert.Equal(t, 1, sum.Signed)
	assert.Equal(t, 1, sum.Revoked)
}

func TestStateSurvivesRestart(t *testing.T) {
	tests := []struct {
		name string
		open func(dir string) (types.Store, error)
	}{
		{"jsonl", func(dir string) (types.Store, error) { return jsonl.Open(dir) }},
		{"sqlite", func(dir string) (types.Store, error) { return sqlite.Open(dir) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			store, err := tt.open(dir)
			require.NoError(t, err)
			s, err := Open(store)
			require.NoError(t, err)

			_, err = s.InitializeDefaults()
			require.NoError(t, err)
			bp := s.ListBlueprints()[2]
			c, err := s.CreateContract("Acme NDA", bp.BlueprintID)
			require.NoError(t, err)
			_, _, err = s.SetContractField(c.ContractID, "nda_agree", types.BoolValue(true))
			require.NoError(t, err)
			_, _, err = s.AdvanceContract(c.ContractID)
			require.NoError(t, err)
			want, err := s.GetContract(c.ContractID)
			require.NoError(t, err)
			require.NoError(t, s.Close())

			store, err = tt.open(dir)
			require.NoError(t, err)
			reopened, err := Open(store)
			require.NoError(t, err)
			defer reopened.Close()

			got, err := reopened.GetContract(c.ContractID)
			require.NoError(t, err)
			assert.Equal(t, want, got)
			assert.Len(t, reopened.ListBlueprints(), 6)

			n, err := reopened.InitializeDefaults()
			require.NoError(t, err)
			assert.Zero(t, n)
		})
	}
}
