// Package fem implements the recovery based C0 finite element method for the
// clamped biharmonic problem Δ²u = f, u = g and ∇u = ∇g on the boundary.
//
// The discrete problem seeks u_h in P1 minimising
//
//	a(u, u)/2 - (f, u),  a(u, v) = (∇·G∇u, ∇·G∇v) + σ (G∇u - ∇u, G∇v - ∇v)
//
// where G is the gradient recovery operator. The boundary gradient enters
// through G, which takes ∇g at boundary points.
package fem

import (
	"errors"
	"fmt"
	"math"

	"github.com/notargets/biharmonic/element/quadrature"
	"github.com/notargets/biharmonic/problem"
	"github.com/notargets/biharmonic/recovery"
	"github.com/notargets/biharmonic/space"
)

// ErrSolve reports a singular system or a solver that did not converge
var ErrSolve = errors.New("fem: solve failed")

// DefaultLoadOrder is the quadrature order of the load vector
const DefaultLoadOrder = 4

type Model struct {
	Space   *space.Lagrange
	Problem problem.Problem
	Sigma   float64
	// Solver names an entry of the solver table, "auto" picks by size
	Solver    string
	LoadOrder int

	grads    [][3][2]float64
	recovery *recovery.Operator
}

// NewModel prepares the model on the mesh of V. The problem acts as the
// boundary capability of the recovery operator.
func NewModel(V *space.Lagrange, prob problem.Problem, sigma float64,
	weight recovery.Weight) (md *Model, err error) {
	if prob == nil {
		return nil, fmt.Errorf("nil problem")
	}
	if !(sigma > 0) || math.IsInf(sigma, 0) {
		return nil, fmt.Errorf("invalid stabilisation parameter %g", sigma)
	}
	grads, err := V.Mesh.GradLambda()
	if err != nil {
		return nil, err
	}
	op, err := recovery.NewOperator(V, grads, weight, prob)
	if err != nil {
		return nil, err
	}
	md = &Model{
		Space:     V,
		Problem:   prob,
		Sigma:     sigma,
		Solver:    "auto",
		LoadOrder: DefaultLoadOrder,
		grads:     grads,
		recovery:  op,
	}
	return
}

// Recovery returns the gradient/Laplace recovery operator of the model mesh
func (md *Model) Recovery() *recovery.Operator { return md.recovery }

// Grads returns the barycentric gradients of the model mesh
func (md *Model) Grads() [][3][2]float64 { return md.grads }

// Solve assembles and solves the discrete problem
func (md *Model) Solve() (uh space.Function, err error) {
	sys, err := md.Assemble()
	if err != nil {
		return
	}
	solverName := md.Solver
	if solverName == "" || solverName == "auto" {
		solverName = "direct"
		if len(sys.Interior) > DirectLimit {
			solverName = "cg"
		}
	}
	solve, ok := solvers[solverName]
	if !ok {
		return uh, fmt.Errorf("unknown solver %q", md.Solver)
	}
	uh = sys.Fixed
	if len(sys.Interior) == 0 {
		return
	}
	x, err := solve(sys)
	if err != nil {
		return space.Function{}, err
	}
	for i, q := range sys.Interior {
		if math.IsNaN(x[i]) || math.IsInf(x[i], 0) {
			return space.Function{}, fmt.Errorf("%w: non-finite solution value at dof %d", ErrSolve, q)
		}
		uh.Values[q] = x[i]
	}
	return
}

func (md *Model) loadOrder() int {
	if md.LoadOrder < 1 {
		return DefaultLoadOrder
	}
	return md.LoadOrder
}

// load integrates f against the three basis functions of every cell
func (md *Model) load() (b [][3]float64, err error) {
	tr, err := quadrature.NewTriangle(md.loadOrder())
	if err != nil {
		return nil, err
	}
	var (
		m    = md.Space.Mesh
		area = m.Area()
	)
	b = make([][3]float64, m.NumberOfCells())
	for k := range m.Cells {
		for q, bc := range tr.Points {
			x, y := m.Point(k, bc)
			fw := tr.Weights[q] * area[k] * md.Problem.Source(x, y)
			for i := 0; i < 3; i++ {
				b[k][i] += fw * bc[i]
			}
		}
	}
	return
}
