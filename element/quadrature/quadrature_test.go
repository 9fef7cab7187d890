package quadrature

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func factorial(n int) float64 {
	f := 1.
	for i := 2; i <= n; i++ {
		f *= float64(i)
	}
	return f
}

func TestJacobiGQLegendre(t *testing.T) {
	tol := 1.e-13
	X, W, err := JacobiGQ(0, 0, 1)
	require.NoError(t, err)
	require.Len(t, X, 2)
	assert.InDelta(t, -1/math.Sqrt(3), X[0], tol)
	assert.InDelta(t, 1/math.Sqrt(3), X[1], tol)
	assert.InDelta(t, 1., W[0], tol)
	assert.InDelta(t, 1., W[1], tol)
}

func TestJacobiGQExactness(t *testing.T) {
	tol := 1.e-12
	for N := 0; N <= 6; N++ {
		t.Run(fmt.Sprintf("N=%d", N), func(t *testing.T) {
			X, W, err := JacobiGQ(0, 0, N)
			require.NoError(t, err)
			// exact for degree <= 2N+1
			for p := 0; p <= 2*N+1; p++ {
				var sum float64
				for i := range X {
					sum += W[i] * math.Pow(X[i], float64(p))
				}
				expected := 0.
				if p%2 == 0 {
					expected = 2. / float64(p+1)
				}
				assert.InDelta(t, expected, sum, tol, "p=%d", p)
			}
		})
	}
}

func TestJacobiGQRejectsNegativeN(t *testing.T) {
	_, _, err := JacobiGQ(0, 0, -1)
	assert.Error(t, err)
}

func TestTriangleWeightsSumToOne(t *testing.T) {
	for order := 1; order <= 10; order++ {
		tr, err := NewTriangle(order)
		require.NoError(t, err)
		var sum float64
		for q, w := range tr.Weights {
			sum += w
			bc := tr.Points[q]
			assert.InDelta(t, 1., bc[0]+bc[1]+bc[2], 1.e-14)
			for _, b := range bc {
				assert.True(t, b >= -1.e-14 && b <= 1+1.e-14)
			}
		}
		assert.InDelta(t, 1., sum, 1.e-13)
	}
}

func TestTriangleMonomialExactness(t *testing.T) {
	tol := 1.e-12
	for order := 1; order <= 8; order++ {
		t.Run(fmt.Sprintf("order=%d", order), func(t *testing.T) {
			tr, err := NewTriangle(order)
			require.NoError(t, err)
			for p := 0; p <= order; p++ {
				for q := 0; p+q <= order; q++ {
					var sum float64
					for k, w := range tr.Weights {
						xi, eta := tr.Points[k][1], tr.Points[k][2]
						sum += w * math.Pow(xi, float64(p)) * math.Pow(eta, float64(q))
					}
					// normalised by the unit triangle area 1/2
					expected := 2 * factorial(p) * factorial(q) / factorial(p+q+2)
					assert.InDelta(t, expected, sum, tol, "p=%d q=%d", p, q)
				}
			}
		})
	}
}

func TestTriangleCachesRules(t *testing.T) {
	a, err := NewTriangle(4)
	require.NoError(t, err)
	b, err := NewTriangle(4)
	require.NoError(t, err)
	assert.Same(t, a, b)
	_, err = NewTriangle(0)
	assert.Error(t, err)
}
