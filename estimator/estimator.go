// Package estimator computes recovery based a posteriori error indicators
// and smooths indicator fields over the mesh.
package estimator

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/notargets/biharmonic/partitions"
	"github.com/notargets/biharmonic/space"
)

// Variant selects the quantity compared by LaplaceIndicator
type Variant uint8

const (
	// LaplaceJump compares ∇·G∇u_h with its recovery G(∇·G∇u_h)
	LaplaceJump Variant = iota + 1
	// LaplaceDivergence measures ∇·G∇u_h alone
	LaplaceDivergence
	// LaplaceRecovered measures G(∇·G∇u_h) alone
	LaplaceRecovered
)

func (v Variant) String() string {
	switch v {
	case LaplaceJump:
		return "laplace_jump"
	case LaplaceDivergence:
		return "laplace_divergence"
	case LaplaceRecovered:
		return "laplace_recovered"
	default:
		return fmt.Sprintf("Variant(%d)", uint8(v))
	}
}

// Estimator evaluates indicators on one mesh
type Estimator struct {
	Space  *space.Lagrange
	Grads  [][3][2]float64
	Layout *partitions.PartitionLayout
}

func New(V *space.Lagrange, grads [][3][2]float64, layout *partitions.PartitionLayout) (*Estimator, error) {
	if len(grads) != V.Mesh.NumberOfCells() {
		return nil, fmt.Errorf("have %d cell gradients for %d cells", len(grads), V.Mesh.NumberOfCells())
	}
	return &Estimator{Space: V, Grads: grads, Layout: layout}, nil
}

// indicator returns η_T = (∫_T d²)^½ per cell, d² supplied by sq
func (e *Estimator) indicator(order int, sq space.Integrand) ([]float64, error) {
	eta, err := e.Space.CellIntegrals(e.Layout, order, sq)
	if err != nil {
		return nil, err
	}
	for k, v := range eta {
		// rounding can leave tiny negative sums of non-negative terms
		eta[k] = math.Sqrt(math.Max(v, 0))
	}
	return eta, nil
}

// GradientIndicator returns ‖∇u_h - G∇u_h‖ on every cell
func (e *Estimator) GradientIndicator(uh space.Function, rgh space.VectorFunction,
	order int) ([]float64, error) {
	return e.indicator(order, func(k int, bc [3]float64, x, y float64) float64 {
		g, r := uh.CellGradient(e.Grads, k), rgh.ValueAt(k, bc)
		dx, dy := g[0]-r[0], g[1]-r[1]
		return dx*dx + dy*dy
	})
}

// LaplaceIndicator returns the cell norms of the second derivative quantity
// selected by variant, built from the recovered gradient rgh and the
// recovered Laplacian rlh
func (e *Estimator) LaplaceIndicator(rgh space.VectorFunction, rlh space.Function,
	variant Variant, order int) ([]float64, error) {
	var sq space.Integrand
	switch variant {
	case LaplaceJump:
		sq = func(k int, bc [3]float64, x, y float64) float64 {
			d := rgh.CellDivergence(e.Grads, k) - rlh.ValueAt(k, bc)
			return d * d
		}
	case LaplaceDivergence:
		sq = func(k int, bc [3]float64, x, y float64) float64 {
			d := rgh.CellDivergence(e.Grads, k)
			return d * d
		}
	case LaplaceRecovered:
		sq = func(k int, bc [3]float64, x, y float64) float64 {
			d := rlh.ValueAt(k, bc)
			return d * d
		}
	default:
		return nil, fmt.Errorf("unknown Laplace indicator variant %d", uint8(variant))
	}
	return e.indicator(order, sq)
}

// Aggregate returns the global estimate (Σ η_T²)^½
func Aggregate(eta []float64) float64 {
	return floats.Norm(eta, 2)
}
