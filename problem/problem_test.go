package problem

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fdLaplace is the five point Laplacian of f at (x, y)
func fdLaplace(f func(x, y float64) float64, x, y, h float64) float64 {
	return (f(x+h, y) + f(x-h, y) + f(x, y+h) + f(x, y-h) - 4*f(x, y)) / (h * h)
}

func fdGradient(f func(x, y float64) float64, x, y, h float64) [2]float64 {
	return [2]float64{
		(f(x+h, y) - f(x-h, y)) / (2 * h),
		(f(x, y+h) - f(x, y-h)) / (2 * h),
	}
}

func TestParseKind(t *testing.T) {
	for _, kind := range []Kind{Peak, SinSin, LShape, Polynomial} {
		k, err := ParseKind(kind.String())
		require.NoError(t, err)
		assert.Equal(t, kind, k)
		k, err = ParseKind(fmt.Sprint(uint8(kind)))
		require.NoError(t, err)
		assert.Equal(t, kind, k)
	}
	_, err := ParseKind("plate")
	assert.Error(t, err)
	_, err = ParseKind("5")
	assert.Error(t, err)
	assert.False(t, Kind(0).Valid())
	assert.Equal(t, "Kind(9)", Kind(9).String())

	var k Kind
	require.NoError(t, k.UnmarshalText([]byte("LShape")))
	assert.Equal(t, LShape, k)
	_, err = Kind(7).MarshalText()
	assert.Error(t, err)
}

func TestNewRejectsUnknownKind(t *testing.T) {
	_, err := New(Kind(0))
	assert.Error(t, err)
}

func TestDerivativesAreConsistent(t *testing.T) {
	points := map[Kind][][2]float64{
		Peak:       {{0.52, 0.47}, {0.6, 0.45}, {0.5, 0.55}},
		SinSin:     {{0.3, 0.2}, {0.7, 0.9}},
		LShape:     {{-0.3, 0.4}, {0.2, 0.6}, {-0.5, -0.4}},
		Polynomial: {{0.1, 0.8}},
	}
	for kind, pts := range points {
		t.Run(kind.String(), func(t *testing.T) {
			p, err := New(kind)
			require.NoError(t, err)
			for _, pt := range pts {
				x, y := pt[0], pt[1]
				g := p.Gradient(x, y)
				fd := fdGradient(p.Solution, x, y, 1e-6)
				assert.InDelta(t, fd[0], g[0], 1e-5*(1+math.Abs(g[0])))
				assert.InDelta(t, fd[1], g[1], 1e-5*(1+math.Abs(g[1])))

				lap := p.Laplace(x, y)
				assert.InDelta(t, fdLaplace(p.Solution, x, y, 1e-4), lap, 1e-4*(1+math.Abs(lap)))

				f := p.Source(x, y)
				assert.InDelta(t, fdLaplace(p.Laplace, x, y, 1e-3), f, 1e-3*(1+math.Abs(f)))

				assert.Equal(t, p.Solution(x, y), p.Dirichlet(x, y))
				assert.Equal(t, g, p.DirichletGradient(x, y))
			}
		})
	}
}

func TestLShapeClampedOnReentrantEdges(t *testing.T) {
	p := NewLShapeCorner()
	for _, pt := range [][2]float64{{0.5, 0}, {1, 0}, {0, -0.5}, {0, -1}} {
		assert.InDelta(t, 0., p.Solution(pt[0], pt[1]), 1e-12)
		g := p.Gradient(pt[0], pt[1])
		assert.InDelta(t, 0., g[0], 1e-12)
		assert.InDelta(t, 0., g[1], 1e-12)
	}
	assert.Equal(t, 0., p.Solution(0, 0))
	assert.Equal(t, 0., p.Laplace(0, 0))
}

func TestInitMesh(t *testing.T) {
	tests := []struct {
		kind  Kind
		n     int
		cells int
		area  float64
	}{
		{Peak, 0, 2, 1},
		{SinSin, 2, 32, 1},
		{LShape, 1, 24, 3},
		{Polynomial, 1, 8, 1},
	}
	for _, tc := range tests {
		t.Run(fmt.Sprintf("%s/n=%d", tc.kind, tc.n), func(t *testing.T) {
			p, err := New(tc.kind)
			require.NoError(t, err)
			m, err := p.InitMesh(tc.n)
			require.NoError(t, err)
			assert.Equal(t, tc.cells, m.NumberOfCells())
			var area float64
			for _, a := range m.Area() {
				area += a
			}
			assert.InDelta(t, tc.area, area, 1e-12)
			assert.Greater(t, p.DefaultRefinement(), 0)
			assert.NotEmpty(t, p.Name())
		})
	}
	p, _ := New(SinSin)
	_, err := p.InitMesh(-1)
	assert.Error(t, err)
}
