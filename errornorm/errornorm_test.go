package errornorm

import (
	"math"
	"testing"

	"github.com/notargets/biharmonic/mesh"
	"github.com/notargets/biharmonic/partitions"
	"github.com/notargets/biharmonic/space"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newNorms(t *testing.T, n int) *Norms {
	t.Helper()
	m, err := mesh.UnitSquare(n)
	require.NoError(t, err)
	V, err := space.NewLagrange(m, 1)
	require.NoError(t, err)
	grads, err := m.GradLambda()
	require.NoError(t, err)
	layout, err := partitions.Build(m.NumberOfCells(), 16)
	require.NoError(t, err)
	norms, err := New(V, grads, layout)
	require.NoError(t, err)
	return norms
}

func TestNewChecksGradients(t *testing.T) {
	m, err := mesh.UnitSquare(2)
	require.NoError(t, err)
	V, err := space.NewLagrange(m, 1)
	require.NoError(t, err)
	_, err = New(V, make([][3][2]float64, 3), nil)
	assert.Error(t, err)
}

func TestNormsVanishForInterpolatedLinearFields(t *testing.T) {
	norms := newNorms(t, 4)
	u := func(x, y float64) float64 { return 2 + x - 3*y }
	grad := func(x, y float64) [2]float64 { return [2]float64{1, -3} }
	uh := norms.Space.Interpolate(u)
	vh := norms.Space.InterpolateVector(func(x, y float64) [2]float64 { return [2]float64{x, y} })

	e, err := norms.L2Error(u, uh, 4)
	require.NoError(t, err)
	assert.InDelta(t, 0., e, 1e-13)
	e, err = norms.H1SemiError(grad, uh, 4)
	require.NoError(t, err)
	assert.InDelta(t, 0., e, 1e-12)
	e, err = norms.VectorL2Error(func(x, y float64) [2]float64 { return [2]float64{x, y} }, vh, 4)
	require.NoError(t, err)
	assert.InDelta(t, 0., e, 1e-13)
	e, err = norms.DivError(func(x, y float64) float64 { return 2 }, vh, 4)
	require.NoError(t, err)
	assert.InDelta(t, 0., e, 1e-12)
}

func TestKnownValues(t *testing.T) {
	norms := newNorms(t, 3)
	// ‖x·y‖ on the unit square is 1/3
	v, err := norms.L2Norm(func(x, y float64) float64 { return x * y }, 4)
	require.NoError(t, err)
	assert.InDelta(t, 1./3, v, 1e-13)

	// the zero field against x: ‖x‖ = 1/√3
	e, err := norms.L2Error(func(x, y float64) float64 { return x }, norms.Space.NewFunction(), 2)
	require.NoError(t, err)
	assert.InDelta(t, 1/math.Sqrt(3), e, 1e-13)

	_, err = norms.L2Norm(func(x, y float64) float64 { return 1 }, 0)
	assert.Error(t, err)
}

func TestInterpolationErrorDecreasesAtSecondOrder(t *testing.T) {
	u := func(x, y float64) float64 { return math.Sin(math.Pi*x) * math.Sin(math.Pi*y) }
	var prev float64
	for i, n := range []int{8, 16, 32} {
		norms := newNorms(t, n)
		e, err := norms.L2Error(u, norms.Space.Interpolate(u), 6)
		require.NoError(t, err)
		if i > 0 {
			assert.InDelta(t, 2., math.Log2(prev/e), 0.1)
		}
		prev = e
	}
}
