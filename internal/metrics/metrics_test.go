package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOperation(t *testing.T) {
	m := New()
	m.Operation("create_contract", ResultOK)
	m.Operation("create_contract", ResultOK)
	m.Operation("create_contract", ResultRejected)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Operations.WithLabelValues("create_contract", ResultOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Operations.WithLabelValues("create_contract", ResultRejected)))
}

func TestTransition(t *testing.T) {
	m := New()
	m.Transition("created", "approved")
	m.Transition("sent", "revoked")
	m.Transition("sent", "revoked")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Transitions.WithLabelValues("created", "approved")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Transitions.WithLabelValues("sent", "revoked")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.Transitions))
}

func TestPersist(t *testing.T) {
	m := New()
	m.Persist(nil)
	m.Persist(nil)
	m.Persist(errors.New("disk full"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Persists))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PersistErrors))
}

func TestRegistriesAreIndependent(t *testing.T) {
	a, b := New(), New()
	a.DroppedEdits.Inc()

	assert.Equal(t, 1.0, testutil.ToFloat64(a.DroppedEdits))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.DroppedEdits))
}

func TestWriteTextfile(t *testing.T) {
	m := New()
	m.Seeded.Add(6)
	m.Transition("created", "approved")

	path := filepath.Join(t.TempDir(), "folio.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, "folio_seeded_blueprints_total 6")
	assert.Contains(t, out, `folio_contract_transitions_total{from="created",to="approved"} 1`)
}

func TestWriteTextfileMissingDir(t *testing.T) {
	m := New()
	err := m.WriteTextfile(filepath.Join(t.TempDir(), "missing", "folio.prom"))
	assert.Error(t, err)
}
