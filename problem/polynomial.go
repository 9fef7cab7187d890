package problem

import "github.com/notargets/biharmonic/mesh"

// linear is u = a + bx + cy on the unit square, reproduced exactly by the
// discretisation and by every recovery
type linear struct {
	a, b, c float64
}

func (l *linear) Name() string { return "polynomial" }

func (l *linear) Solution(x, y float64) float64 { return l.a + l.b*x + l.c*y }

func (l *linear) Gradient(x, y float64) [2]float64 { return [2]float64{l.b, l.c} }

func (l *linear) Laplace(x, y float64) float64 { return 0 }

func (l *linear) Source(x, y float64) float64 { return 0 }

func (l *linear) Dirichlet(x, y float64) float64 { return l.Solution(x, y) }

func (l *linear) DirichletGradient(x, y float64) [2]float64 { return l.Gradient(x, y) }

func (l *linear) InitMesh(n int) (*mesh.TriMesh, error) {
	m, err := mesh.UnitSquare(1)
	return refined(m, err, n)
}

func (l *linear) DefaultRefinement() int { return 1 }
