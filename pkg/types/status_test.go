package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextStatus(t *testing.T) {
	tests := []struct {
		from   ContractStatus
		want   ContractStatus
		wantOK bool
	}{
		{StatusCreated, StatusApproved, true},
		{StatusApproved, StatusSent, true},
		{StatusSent, StatusSigned, true},
		{StatusSigned, StatusLocked, true},
		{StatusLocked, "", false},
		{StatusRevoked, "", false},
		{"bogus", "", false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from), func(t *testing.T) {
			got, ok := NextStatus(tt.from)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStatusFlowMatchesTable(t *testing.T) {
	for i := 0; i < len(StatusFlow)-1; i++ {
		next, ok := NextStatus(StatusFlow[i])
		require.True(t, ok)
		assert.Equal(t, StatusFlow[i+1], next)
	}
}

func TestCanRevoke(t *testing.T) {
	want := map[ContractStatus]bool{
		StatusCreated:  true,
		StatusApproved: false,
		StatusSent:     true,
		StatusSigned:   false,
		StatusLocked:   false,
		StatusRevoked:  false,
	}
	for st, ok := range want {
		assert.Equal(t, ok, CanRevoke(st), st)
	}
}

func TestIsEditable(t *testing.T) {
	for _, st := range AllStatuses {
		assert.Equal(t, st != StatusLocked && st != StatusRevoked, IsEditable(st), st)
	}
}

func TestParseStatus(t *testing.T) {
	st, err := ParseStatus("sent")
	require.NoError(t, err)
	assert.Equal(t, StatusSent, st)

	_, err = ParseStatus("archived")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestParseStatusFilter(t *testing.T) {
	for _, in := range []string{"", "all", "active", "pending", "created", "revoked"} {
		_, err := ParseStatusFilter(in)
		assert.NoError(t, err, in)
	}
	_, err := ParseStatusFilter("archived")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	f, err := ParseStatusFilter("")
	require.NoError(t, err)
	assert.Equal(t, FilterAll, f)
}
