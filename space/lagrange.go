package space

import (
	"fmt"

	"github.com/notargets/biharmonic/element"
	"github.com/notargets/biharmonic/mesh"
)

// Lagrange is the continuous piecewise linear space on a triangular mesh.
// Degrees of freedom are the mesh points, in point order.
type Lagrange struct {
	Mesh    *mesh.TriMesh
	Element element.ReferenceElement
	Degree  int
}

func NewLagrange(m *mesh.TriMesh, degree int) (*Lagrange, error) {
	if m == nil {
		return nil, fmt.Errorf("nil mesh")
	}
	if degree != 1 {
		return nil, fmt.Errorf("unsupported Lagrange degree %d, only degree 1 is available", degree)
	}
	return &Lagrange{Mesh: m, Element: element.TriP1{}, Degree: degree}, nil
}

func (s *Lagrange) NumberOfGlobalDofs() int {
	return s.Mesh.NumberOfPoints()
}

func (s *Lagrange) NewFunction() Function {
	return Function{Space: s, Values: make([]float64, s.NumberOfGlobalDofs())}
}

func (s *Lagrange) NewVectorFunction() VectorFunction {
	return VectorFunction{Space: s, Values: make([][2]float64, s.NumberOfGlobalDofs())}
}

// Interpolate returns the nodal interpolant of f
func (s *Lagrange) Interpolate(f func(x, y float64) float64) Function {
	uI := s.NewFunction()
	m := s.Mesh
	for p := range uI.Values {
		uI.Values[p] = f(m.X[p], m.Y[p])
	}
	return uI
}

// InterpolateVector returns the nodal interpolant of a vector field
func (s *Lagrange) InterpolateVector(f func(x, y float64) [2]float64) VectorFunction {
	vI := s.NewVectorFunction()
	m := s.Mesh
	for p := range vI.Values {
		vI.Values[p] = f(m.X[p], m.Y[p])
	}
	return vI
}
