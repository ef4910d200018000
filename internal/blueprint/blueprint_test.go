package blueprint

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/folio/pkg/types"
)

var t0 = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func ndaFields() []types.BlueprintField {
	return []types.BlueprintField{
		{ID: "f1", Type: types.FieldCheckbox, Label: "Agree", Required: true},
		{ID: "f2", Type: types.FieldText, Label: "Party", Position: types.Position{X: 30, Y: 120}},
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		bpName  string
		fields  []types.BlueprintField
		wantErr error
	}{
		{
			name:   "valid blueprint",
			bpName: "NDA",
			fields: ndaFields(),
		},
		{
			name:    "empty name rejected",
			bpName:  "",
			fields:  ndaFields(),
			wantErr: types.ErrInvalidName,
		},
		{
			name:    "whitespace name rejected",
			bpName:  "   ",
			fields:  ndaFields(),
			wantErr: types.ErrInvalidName,
		},
		{
			name:    "no fields rejected",
			bpName:  "NDA",
			fields:  nil,
			wantErr: types.ErrNoFields,
		},
		{
			name:   "duplicate field id rejected",
			bpName: "NDA",
			fields: []types.BlueprintField{
				{ID: "f1", Type: types.FieldText},
				{ID: "f1", Type: types.FieldDate},
			},
			wantErr: types.ErrDuplicateFieldID,
		},
		{
			name:    "empty field id rejected",
			bpName:  "NDA",
			fields:  []types.BlueprintField{{ID: "", Type: types.FieldText}},
			wantErr: types.ErrInvalidFieldID,
		},
		{
			name:    "unknown field type rejected",
			bpName:  "NDA",
			fields:  []types.BlueprintField{{ID: "f1", Type: "radio"}},
			wantErr: types.ErrInvalidFieldType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bp, err := New("bp-1", tt.bpName, "desc", tt.fields, t0)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.True(t, types.IsValidation(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "bp-1", bp.BlueprintID)
			assert.Equal(t, tt.bpName, bp.Name)
			assert.Equal(t, t0, bp.CreatedAt)
			assert.Equal(t, t0, bp.UpdatedAt)
			assert.Equal(t, tt.fields, bp.Fields)
		})
	}
}

func TestNewCopiesFields(t *testing.T) {
	fields := ndaFields()
	bp, err := New("bp-1", "NDA", "", fields, t0)
	require.NoError(t, err)

	fields[0].Label = "changed"
	assert.Equal(t, "Agree", bp.Fields[0].Label)
}

func TestNewRequiresID(t *testing.T) {
	_, err := New("", "NDA", "", ndaFields(), t0)
	assert.ErrorIs(t, err, types.ErrInvalidID)
}

func TestApply(t *testing.T) {
	bp, err := New("bp-1", "NDA", "old", ndaFields(), t0)
	require.NoError(t, err)
	later := t0.Add(time.Hour)

	t.Run("merges name and description", func(t *testing.T) {
		name, desc := "Mutual NDA", "new"
		got, err := Apply(bp, types.BlueprintPatch{Name: &name, Description: &desc}, later)
		require.NoError(t, err)
		assert.Equal(t, "Mutual NDA", got.Name)
		assert.Equal(t, "new", got.Description)
		assert.Equal(t, bp.Fields, got.Fields)
		assert.Equal(t, t0, got.CreatedAt)
		assert.Equal(t, later, got.UpdatedAt)
	})

	t.Run("replaces fields", func(t *testing.T) {
		fields := []types.BlueprintField{{ID: "sig", Type: types.FieldSignature, Label: "Sign"}}
		got, err := Apply(bp, types.BlueprintPatch{Fields: fields}, later)
		require.NoError(t, err)
		require.Len(t, got.Fields, 1)
		assert.Equal(t, "sig", got.Fields[0].ID)
	})

	t.Run("empty name leaves blueprint unchanged", func(t *testing.T) {
		empty := ""
		got, err := Apply(bp, types.BlueprintPatch{Name: &empty}, later)
		assert.ErrorIs(t, err, types.ErrInvalidName)
		assert.Equal(t, bp, got)
	})

	t.Run("empty field list rejected", func(t *testing.T) {
		_, err := Apply(bp, types.BlueprintPatch{Fields: []types.BlueprintField{}}, later)
		assert.ErrorIs(t, err, types.ErrNoFields)
	})

	t.Run("original is not mutated", func(t *testing.T) {
		name := "Other"
		_, err := Apply(bp, types.BlueprintPatch{Name: &name}, later)
		require.NoError(t, err)
		assert.Equal(t, "NDA", bp.Name)
		assert.Equal(t, t0, bp.UpdatedAt)
	})
}

func TestIndex(t *testing.T) {
	bps := []types.Blueprint{{BlueprintID: "a"}, {BlueprintID: "b"}}
	assert.Equal(t, 1, Index(bps, "b"))
	assert.Equal(t, -1, Index(bps, "c"))
}
