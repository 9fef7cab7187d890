package estimator

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"testing"

	"github.com/notargets/biharmonic/mesh"
	"github.com/notargets/biharmonic/partitions"
	"github.com/notargets/biharmonic/space"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEstimator(t *testing.T, m *mesh.TriMesh, partitionSize int) *Estimator {
	t.Helper()
	V, err := space.NewLagrange(m, 1)
	require.NoError(t, err)
	grads, err := m.GradLambda()
	require.NoError(t, err)
	var layout *partitions.PartitionLayout
	if partitionSize > 0 {
		layout, err = partitions.Build(m.NumberOfCells(), partitionSize)
		require.NoError(t, err)
	}
	est, err := New(V, grads, layout)
	require.NoError(t, err)
	return est
}

func TestAggregate(t *testing.T) {
	rnd := rand.New(rand.NewSource(3))
	for _, scale := range []float64{1e-150, 1e-8, 1, 1e8, 1e150} {
		t.Run(fmt.Sprintf("scale=%g", scale), func(t *testing.T) {
			v := make([]float64, 257)
			var sum float64
			for i := range v {
				v[i] = scale * rnd.Float64()
				sum += (v[i] / scale) * (v[i] / scale)
			}
			want := scale * math.Sqrt(sum)
			assert.InEpsilon(t, want, Aggregate(v), 1e-12)
		})
	}
	assert.Equal(t, 5., Aggregate([]float64{3, 4}))
	assert.Equal(t, 0., Aggregate(make([]float64, 4)))
}

func TestNormalize(t *testing.T) {
	raw := []float64{0.5, 2, 1e-3, 2, 0}
	eta, err := Normalize(raw)
	require.NoError(t, err)
	assert.Equal(t, 1., eta[1])
	assert.Equal(t, 0.25, eta[0])
	mx := 0.
	for _, v := range eta {
		mx = math.Max(mx, v)
	}
	assert.Equal(t, 1., mx)

	for _, bad := range [][]float64{nil, {0, 0, 0}, {1, math.NaN()}, {math.Inf(1), 1}, {-1, -2}} {
		_, err = Normalize(bad)
		assert.True(t, errors.Is(err, ErrDegenerateIndicator), "input %v", bad)
	}
}

func TestSmoothUniformIsFixedPoint(t *testing.T) {
	m, err := mesh.LShape(3)
	require.NoError(t, err)
	require.NoError(t, m.Bisect([]int{0, 5, 17}))
	raw := make([]float64, m.NumberOfCells())
	for k := range raw {
		raw[k] = 3.5
	}
	once, err := Smooth(m, raw)
	require.NoError(t, err)
	twice, err := Smooth(m, once)
	require.NoError(t, err)
	for k := range raw {
		assert.InDelta(t, 1., once[k], 1e-14)
		assert.InDelta(t, 1., twice[k], 1e-14)
		assert.Equal(t, 3.5, raw[k])
	}
}

func TestSmoothSpreadsASpike(t *testing.T) {
	m, err := mesh.UnitSquare(8)
	require.NoError(t, err)
	raw := make([]float64, m.NumberOfCells())
	raw[40] = 7
	eta, err := Smooth(m, raw)
	require.NoError(t, err)
	assert.Equal(t, 7., raw[40])
	var positive int
	for _, v := range eta {
		assert.GreaterOrEqual(t, v, 0.)
		assert.LessOrEqual(t, v, 1.)
		if v > 0 {
			positive++
		}
	}
	assert.Greater(t, positive, 1)
	assert.Less(t, eta[40], 1.)

	_, err = Smooth(m, make([]float64, m.NumberOfCells()))
	assert.True(t, errors.Is(err, ErrDegenerateIndicator))
	_, err = Smooth(m, raw[:3])
	assert.Error(t, err)
}

func TestIndicatorsVanishForLinearSolution(t *testing.T) {
	m, err := mesh.UnitSquare(4)
	require.NoError(t, err)
	est := newEstimator(t, m, 0)
	uh := est.Space.Interpolate(func(x, y float64) float64 { return 1 + 2*x + 3*y })
	rgh := est.Space.InterpolateVector(func(x, y float64) [2]float64 { return [2]float64{2, 3} })
	rlh := est.Space.NewFunction()

	eta, err := est.GradientIndicator(uh, rgh, 4)
	require.NoError(t, err)
	assert.Len(t, eta, m.NumberOfCells())
	assert.InDelta(t, 0., Aggregate(eta), 1e-12)
	for _, v := range []Variant{LaplaceJump, LaplaceDivergence, LaplaceRecovered} {
		eta, err = est.LaplaceIndicator(rgh, rlh, v, 2)
		require.NoError(t, err)
		assert.InDelta(t, 0., Aggregate(eta), 1e-12, v.String())
	}
}

func TestLaplaceVariants(t *testing.T) {
	m, err := mesh.UnitSquare(4)
	require.NoError(t, err)
	est := newEstimator(t, m, 0)
	area := m.Area()
	// ∇·(x, y) = 2 on every cell, recovered Laplacian 2 + x
	rgh := est.Space.InterpolateVector(func(x, y float64) [2]float64 { return [2]float64{x, y} })
	rlh := est.Space.Interpolate(func(x, y float64) float64 { return 2 + x })

	div, err := est.LaplaceIndicator(rgh, rlh, LaplaceDivergence, 2)
	require.NoError(t, err)
	for k := range div {
		assert.InDelta(t, 2*math.Sqrt(area[k]), div[k], 1e-13)
	}
	assert.InDelta(t, 2., Aggregate(div), 1e-13)

	// ‖x‖ = 1/√3 and ‖2 + x‖² = 4 + 2 + 1/3 on the unit square
	jump, err := est.LaplaceIndicator(rgh, rlh, LaplaceJump, 2)
	require.NoError(t, err)
	assert.InDelta(t, 1/math.Sqrt(3), Aggregate(jump), 1e-13)
	rec, err := est.LaplaceIndicator(rgh, rlh, LaplaceRecovered, 2)
	require.NoError(t, err)
	assert.InDelta(t, math.Sqrt(19./3), Aggregate(rec), 1e-13)

	_, err = est.LaplaceIndicator(rgh, rlh, Variant(0), 2)
	assert.Error(t, err)
	assert.Equal(t, "Variant(9)", Variant(9).String())
}

func TestPartitionedIndicatorsMatchSequential(t *testing.T) {
	m, err := mesh.LShape(4)
	require.NoError(t, err)
	seq := newEstimator(t, m, 0)
	par := newEstimator(t, m, 7)
	rnd := rand.New(rand.NewSource(11))
	uh := seq.Space.NewFunction()
	rgh := seq.Space.NewVectorFunction()
	for q := range uh.Values {
		uh.Values[q] = rnd.NormFloat64()
		rgh.Values[q] = [2]float64{rnd.NormFloat64(), rnd.NormFloat64()}
	}
	a, err := seq.GradientIndicator(uh, rgh, 4)
	require.NoError(t, err)
	b, err := par.GradientIndicator(uh, rgh, 4)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestNewChecksGradients(t *testing.T) {
	m, err := mesh.UnitSquare(2)
	require.NoError(t, err)
	V, err := space.NewLagrange(m, 1)
	require.NoError(t, err)
	_, err = New(V, nil, nil)
	assert.Error(t, err)
}
