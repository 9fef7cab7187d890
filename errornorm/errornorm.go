// Package errornorm measures discrete fields against closed-form ones. The
// values are diagnostics: they need the exact solution and never drive
// refinement.
package errornorm

import (
	"fmt"
	"math"

	"github.com/notargets/biharmonic/partitions"
	"github.com/notargets/biharmonic/space"
)

type ScalarFunc func(x, y float64) float64

type VectorFunc func(x, y float64) [2]float64

// Norms evaluates L2 type norms on one mesh
type Norms struct {
	Space  *space.Lagrange
	Grads  [][3][2]float64
	Layout *partitions.PartitionLayout
}

func New(V *space.Lagrange, grads [][3][2]float64, layout *partitions.PartitionLayout) (*Norms, error) {
	if len(grads) != V.Mesh.NumberOfCells() {
		return nil, fmt.Errorf("have %d cell gradients for %d cells", len(grads), V.Mesh.NumberOfCells())
	}
	return &Norms{Space: V, Grads: grads, Layout: layout}, nil
}

func (n *Norms) total(order int, fn space.Integrand) (float64, error) {
	vals, err := n.Space.CellIntegrals(n.Layout, order, fn)
	if err != nil {
		return 0, err
	}
	var sum float64
	for _, v := range vals {
		sum += v
	}
	return math.Sqrt(sum), nil
}

// L2Error returns ‖u - uh‖
func (n *Norms) L2Error(u ScalarFunc, uh space.Function, order int) (float64, error) {
	return n.total(order, func(k int, bc [3]float64, x, y float64) float64 {
		d := u(x, y) - uh.ValueAt(k, bc)
		return d * d
	})
}

// H1SemiError returns ‖∇u - ∇uh‖
func (n *Norms) H1SemiError(grad VectorFunc, uh space.Function, order int) (float64, error) {
	return n.total(order, func(k int, bc [3]float64, x, y float64) float64 {
		g, gh := grad(x, y), uh.CellGradient(n.Grads, k)
		return sq(g[0]-gh[0]) + sq(g[1]-gh[1])
	})
}

// VectorL2Error returns ‖v - vh‖
func (n *Norms) VectorL2Error(v VectorFunc, vh space.VectorFunction, order int) (float64, error) {
	return n.total(order, func(k int, bc [3]float64, x, y float64) float64 {
		a, b := v(x, y), vh.ValueAt(k, bc)
		return sq(a[0]-b[0]) + sq(a[1]-b[1])
	})
}

// DivError returns ‖d - ∇·vh‖ with the divergence taken cell by cell
func (n *Norms) DivError(d ScalarFunc, vh space.VectorFunction, order int) (float64, error) {
	return n.total(order, func(k int, bc [3]float64, x, y float64) float64 {
		return sq(d(x, y) - vh.CellDivergence(n.Grads, k))
	})
}

// L2Norm returns ‖f‖
func (n *Norms) L2Norm(f ScalarFunc, order int) (float64, error) {
	return n.total(order, func(k int, bc [3]float64, x, y float64) float64 {
		return sq(f(x, y))
	})
}

func sq(x float64) float64 { return x * x }
