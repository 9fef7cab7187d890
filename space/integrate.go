package space

import (
	"fmt"

	"github.com/notargets/biharmonic/element/quadrature"
	"github.com/notargets/biharmonic/partitions"
)

// Integrand is evaluated at quadrature point bc of cell k, physical
// coordinates (x, y)
type Integrand func(k int, bc [3]float64, x, y float64) float64

// CellIntegrals returns ∫_T fn for every cell T with a triangle rule of the
// given order. Cells are distributed over the partitions of layout, which
// must cover the current mesh; a nil layout runs sequentially.
func (s *Lagrange) CellIntegrals(layout *partitions.PartitionLayout, order int,
	fn Integrand) ([]float64, error) {
	tr, err := quadrature.NewTriangle(order)
	if err != nil {
		return nil, err
	}
	var (
		m    = s.Mesh
		nc   = m.NumberOfCells()
		area = m.Area()
		out  = make([]float64, nc)
	)
	if layout == nil {
		if layout, err = partitions.Build(nc, nc); err != nil {
			return nil, err
		}
	}
	if layout.TotalElements != nc {
		return nil, fmt.Errorf("partition layout covers %d cells, mesh has %d",
			layout.TotalElements, nc)
	}
	layout.ForEach(func(k int) {
		var sum float64
		for q, bc := range tr.Points {
			x, y := m.Point(k, bc)
			sum += tr.Weights[q] * fn(k, bc, x, y)
		}
		out[k] = sum * area[k]
	})
	return out, nil
}
