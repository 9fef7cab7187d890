// Package recovery reconstructs continuous P1 derivative fields from a P1
// solution by weighted averaging of cell-wise constant derivatives
package recovery

import (
	"fmt"

	"github.com/james-bowman/sparse"
	"github.com/notargets/biharmonic/problem"
	"github.com/notargets/biharmonic/space"
)

// Operator holds the averaging weights of one mesh. It is invalid once the
// mesh is refined.
type Operator struct {
	Space    *space.Lagrange
	Grads    [][3][2]float64
	Weight   Weight
	Boundary problem.Boundary // nil leaves boundary points averaged

	avg  *sparse.CSR // [points × cells], rows sum to one
	isBd []bool
}

// NewOperator builds the averaging operator on the mesh of V. grads are the
// barycentric gradients from mesh.GradLambda.
func NewOperator(V *space.Lagrange, grads [][3][2]float64, weight Weight,
	boundary problem.Boundary) (op *Operator, err error) {
	var (
		m  = V.Mesh
		np = m.NumberOfPoints()
	)
	if !weight.Valid() {
		return nil, fmt.Errorf("unknown recovery weight %d", uint8(weight))
	}
	if len(grads) != m.NumberOfCells() {
		return nil, fmt.Errorf("have %d cell gradients for %d cells", len(grads), m.NumberOfCells())
	}
	var (
		area  = m.Area()
		total = make([]float64, np)
		dok   = sparse.NewDOK(np, m.NumberOfCells())
	)
	for k, c := range m.Cells {
		w := weight.cellWeight(area[k])
		for _, p := range c {
			total[p] += w
		}
	}
	for k, c := range m.Cells {
		w := weight.cellWeight(area[k])
		for _, p := range c {
			dok.Set(p, k, w/total[p])
		}
	}
	op = &Operator{
		Space:    V,
		Grads:    grads,
		Weight:   weight,
		Boundary: boundary,
		avg:      dok.ToCSR(),
		isBd:     m.BoundaryPoints(),
	}
	return
}

// Averaging returns the [points × cells] averaging matrix
func (op *Operator) Averaging() *sparse.CSR { return op.avg }

// average maps cell values to point values
func (op *Operator) average(cellValues [][2]float64) [][2]float64 {
	pv := make([][2]float64, op.Space.NumberOfGlobalDofs())
	op.avg.DoNonZero(func(p, k int, a float64) {
		pv[p][0] += a * cellValues[k][0]
		pv[p][1] += a * cellValues[k][1]
	})
	return pv
}

// RecoverGradient returns G∇u_h, the averaged cell gradients of uh. With a
// boundary attached, boundary points take the prescribed gradient instead.
func (op *Operator) RecoverGradient(uh space.Function) space.VectorFunction {
	var (
		m     = op.Space.Mesh
		cellG = make([][2]float64, m.NumberOfCells())
	)
	for k := range cellG {
		cellG[k] = uh.CellGradient(op.Grads, k)
	}
	rgh := op.Space.NewVectorFunction()
	rgh.Values = op.average(cellG)
	if op.Boundary != nil {
		for p, bd := range op.isBd {
			if bd {
				rgh.Values[p] = op.Boundary.DirichletGradient(m.X[p], m.Y[p])
			}
		}
	}
	return rgh
}

// RecoverLaplace returns G(∇·G∇u_h), the averaged cell divergence of the
// recovered gradient
func (op *Operator) RecoverLaplace(rgh space.VectorFunction) space.Function {
	cellD := make([][2]float64, op.Space.Mesh.NumberOfCells())
	for k := range cellD {
		cellD[k][0] = rgh.CellDivergence(op.Grads, k)
	}
	rlh := op.Space.NewFunction()
	for p, v := range op.average(cellD) {
		rlh.Values[p] = v[0]
	}
	return rlh
}
