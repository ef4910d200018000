package sqlite

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/folio/internal/storetest"
	"github.com/mesh-intelligence/folio/pkg/types"
)

func openTemp(t *testing.T) types.Store {
	t.Helper()
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	return s
}

func TestStoreConformance(t *testing.T) {
	storetest.Run(t, storetest.Opener{
		Open: openTemp,
		Reopen: func(t *testing.T, previous types.Store) types.Store {
			s, err := Open(filepath.Dir(previous.(*Store).Path()))
			require.NoError(t, err)
			return s
		},
	})
}

func TestOpenCreatesDatabase(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	s, err := Open(dir)
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, filepath.Join(dir, DBFile), s.Path())
	_, err = os.Stat(s.Path())
	assert.NoError(t, err)
}

func TestOpenIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, s.Save(storetest.Sample()))
	require.NoError(t, s.Close())

	s2, err := Open(dir)
	require.NoError(t, err)
	defer s2.Close()
	snap, err := s2.Load()
	require.NoError(t, err)
	assert.Len(t, snap.Blueprints, 2)
}

func TestSaveStoresValuesAsJSON(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, s.Save(storetest.Sample()))
	require.NoError(t, s.Close())

	db, err := sql.Open("sqlite", filepath.Join(dir, DBFile))
	require.NoError(t, err)
	defer db.Close()

	tests := []struct {
		fieldID string
		want    string
	}{
		{"party", `"Acme \"Widgets\" Ltd"`},
		{"agree", "true"},
		{"sign", `""`},
	}
	for _, tt := range tests {
		var got string
		err := db.QueryRow(
			"SELECT value FROM contract_field_values WHERE contract_id = ? AND field_id = ?",
			"0194f0c2-bbbb-7000-8000-000000000001", tt.fieldID,
		).Scan(&got)
		require.NoError(t, err, tt.fieldID)
		assert.Equal(t, tt.want, got, tt.fieldID)
	}
}

func TestLoadRejectsImpossibleRows(t *testing.T) {
	tests := []struct {
		name string
		stmt string
	}{
		{
			name: "unknown status",
			stmt: "UPDATE contracts SET status = 'archived' WHERE ordinal = 0",
		},
		{
			name: "bad timestamp",
			stmt: "UPDATE blueprints SET created_at = 'yesterday' WHERE ordinal = 0",
		},
		{
			name: "string in checkbox",
			stmt: "UPDATE contract_field_values SET value = '\"yes\"' WHERE field_id = 'agree'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			s, err := Open(dir)
			require.NoError(t, err)
			defer s.Close()
			require.NoError(t, s.Save(storetest.Sample()))

			_, err = s.db.Exec(tt.stmt)
			require.NoError(t, err)

			_, err = s.Load()
			assert.Error(t, err)
		})
	}
}
