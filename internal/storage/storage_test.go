package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/folio/internal/jsonl"
	"github.com/mesh-intelligence/folio/internal/sqlite"
	"github.com/mesh-intelligence/folio/pkg/types"
)

func TestOpen(t *testing.T) {
	tests := []struct {
		name    string
		backend string
		wantErr error
		check   func(t *testing.T, s types.Store)
	}{
		{
			name:    "jsonl",
			backend: types.BackendJSONL,
			check: func(t *testing.T, s types.Store) {
				assert.IsType(t, &jsonl.Store{}, s)
			},
		},
		{
			name:    "sqlite",
			backend: types.BackendSQLite,
			check: func(t *testing.T, s types.Store) {
				assert.IsType(t, &sqlite.Store{}, s)
			},
		},
		{name: "empty backend", backend: "", wantErr: types.ErrBackendEmpty},
		{name: "unknown backend", backend: "postgres", wantErr: types.ErrBackendUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Open(types.Config{Backend: tt.backend, DataDir: t.TempDir()})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, s)
				return
			}
			require.NoError(t, err)
			defer s.Close()
			tt.check(t, s)

			snap, err := s.Load()
			require.NoError(t, err)
			assert.False(t, snap.Initialized)
		})
	}
}
