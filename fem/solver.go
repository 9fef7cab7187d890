package fem

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// DirectLimit is the largest number of unknowns the auto solver hands to the
// dense Cholesky factorisation
const DirectLimit = 2500

// solvers holds the available linear solvers by name
var solvers = map[string]func(sys *System) ([]float64, error){
	"direct": solveDirect,
	"cg":     solveCG,
}

// Solvers lists the names accepted by Model.Solver besides "auto"
func Solvers() (names []string) {
	for _, name := range []string{"direct", "cg"} {
		if _, ok := solvers[name]; ok {
			names = append(names, name)
		}
	}
	return
}

func solveDirect(sys *System) ([]float64, error) {
	n := len(sys.Interior)
	A := mat.NewSymDense(n, nil)
	sys.K.DoNonZero(func(i, j int, v float64) {
		if i <= j {
			A.SetSym(i, j, v)
		}
	})
	var chol mat.Cholesky
	if ok := chol.Factorize(A); !ok {
		return nil, fmt.Errorf("%w: matrix of order %d is not positive definite", ErrSolve, n)
	}
	x := mat.NewVecDense(n, nil)
	if err := chol.SolveVecTo(x, sys.B); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSolve, err)
	}
	return x.RawVector().Data, nil
}

// CGTolerance is the relative residual at which conjugate gradients stop
const CGTolerance = 1e-10

// solveCG runs Jacobi preconditioned conjugate gradients
func solveCG(sys *System) ([]float64, error) {
	var (
		n     = len(sys.Interior)
		b     = sys.B.RawVector().Data
		diag  = make([]float64, n)
		x     = make([]float64, n)
		r     = make([]float64, n)
		z     = make([]float64, n)
		p     = make([]float64, n)
		ap    = make([]float64, n)
		bnorm = floats.Norm(b, 2)
	)
	sys.K.DoNonZero(func(i, j int, v float64) {
		if i == j {
			diag[i] = v
		}
	})
	for i, d := range diag {
		if !(d > 0) {
			return nil, fmt.Errorf("%w: non-positive diagonal %g at unknown %d", ErrSolve, d, i)
		}
	}
	if bnorm == 0 {
		return x, nil
	}
	copy(r, b)
	floats.DivTo(z, r, diag)
	copy(p, z)
	rz := floats.Dot(r, z)
	maxIter := 10*n + 100
	for it := 0; it < maxIter; it++ {
		sys.K.MulVecTo(ap, false, p)
		pap := floats.Dot(p, ap)
		if !(pap > 0) {
			return nil, fmt.Errorf("%w: matrix is not positive definite (p·Ap = %g)", ErrSolve, pap)
		}
		alpha := rz / pap
		floats.AddScaled(x, alpha, p)
		floats.AddScaled(r, -alpha, ap)
		if floats.Norm(r, 2) <= CGTolerance*bnorm {
			return x, nil
		}
		floats.DivTo(z, r, diag)
		rzNew := floats.Dot(r, z)
		beta := rzNew / rz
		rz = rzNew
		floats.AddScaledTo(p, z, beta, p)
		if math.IsNaN(rz) {
			break
		}
	}
	return nil, fmt.Errorf("%w: conjugate gradients did not converge in %d iterations", ErrSolve, maxIter)
}
