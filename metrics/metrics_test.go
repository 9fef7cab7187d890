package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder(t *testing.T) {
	r := NewRecorder()
	r.ObserveStage("solving", 20*time.Millisecond)
	r.RecordIteration(24, 21, map[string]float64{"eta_jump": 0.5, "l2": 1e-3})
	r.RecordIteration(48, 35, map[string]float64{"eta_jump": 0.25})
	r.RecordMarked(7)

	assert.Equal(t, 2., testutil.ToFloat64(r.iterations))
	assert.Equal(t, 48., testutil.ToFloat64(r.cells))
	assert.Equal(t, 35., testutil.ToFloat64(r.ndof))
	assert.Equal(t, 7., testutil.ToFloat64(r.marked))
	assert.Equal(t, 0.25, testutil.ToFloat64(r.errors.WithLabelValues("eta_jump")))
	assert.Equal(t, 1e-3, testutil.ToFloat64(r.errors.WithLabelValues("l2")))
	assert.Equal(t, 1, testutil.CollectAndCount(r.stageDuration))

	// a second recorder registers the same names on its own registry
	assert.NotPanics(t, func() { NewRecorder() })
}

func TestWriteTextfile(t *testing.T) {
	r := NewRecorder()
	r.RecordIteration(6, 8, nil)
	path := filepath.Join(t.TempDir(), "run.prom")
	require.NoError(t, r.WriteTextfile(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "biharmonic_mesh_cells 6")
	assert.Contains(t, string(data), "biharmonic_adaptive_iterations_total 1")
}
