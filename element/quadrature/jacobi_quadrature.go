package quadrature

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// JacobiGQ returns the N+1 point Gauss rule for the weight (1-x)^α (1+x)^β
// on [-1,1], points ascending. The points are the eigenvalues of the
// symmetric Jacobi matrix and the weights scale the squared first components
// of its eigenvectors (Golub-Welsch).
func JacobiGQ(alpha, beta float64, N int) (X, W []float64, err error) {
	if N < 0 {
		return nil, nil, fmt.Errorf("invalid quadrature size N=%d", N)
	}
	g0 := Gamma0(alpha, beta)
	if N == 0 {
		return []float64{(beta - alpha) / (alpha + beta + 2)}, []float64{g0}, nil
	}
	var (
		n  = N + 1
		ab = alpha + beta
		J  = mat.NewSymDense(n, nil)
	)
	for i := 0; i < n; i++ {
		h := 2*float64(i) + ab
		if h != 0 {
			J.SetSym(i, i, (beta*beta-alpha*alpha)/(h*(h+2)))
		}
		if i == 0 {
			continue
		}
		// off diagonal between rows i-1 and i
		fi := float64(i)
		J.SetSym(i-1, i, 2/h*math.Sqrt(fi*(fi+ab)*(fi+alpha)*(fi+beta)/((h-1)*(h+1))))
	}

	var eig mat.EigenSym
	if ok := eig.Factorize(J, true); !ok {
		return nil, nil, fmt.Errorf("eigenvalue decomposition failed for N=%d", N)
	}
	X = eig.Values(nil)
	var V mat.Dense
	eig.VectorsTo(&V)
	W = make([]float64, n)
	for j := range W {
		v := V.At(0, j)
		W[j] = v * v * g0
	}
	return
}

// Gamma0 is the integral of the Jacobi weight over [-1,1]
func Gamma0(alpha, beta float64) float64 {
	ab1 := alpha + beta + 1
	return math.Pow(2, ab1) / ab1 * math.Gamma(alpha+1) * math.Gamma(beta+1) / math.Gamma(ab1)
}
