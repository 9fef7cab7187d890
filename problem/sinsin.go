package problem

import (
	"math"

	"github.com/notargets/biharmonic/mesh"
)

// sinSin is u = sin(πx)sin(πy) on the unit square
type sinSin struct{}

func (sinSin) Name() string { return "sinsin" }

func (sinSin) Solution(x, y float64) float64 {
	return math.Sin(math.Pi*x) * math.Sin(math.Pi*y)
}

func (sinSin) Gradient(x, y float64) [2]float64 {
	sx, cx := math.Sincos(math.Pi * x)
	sy, cy := math.Sincos(math.Pi * y)
	return [2]float64{math.Pi * cx * sy, math.Pi * sx * cy}
}

func (s sinSin) Laplace(x, y float64) float64 {
	return -2 * math.Pi * math.Pi * s.Solution(x, y)
}

func (s sinSin) Source(x, y float64) float64 {
	pi2 := math.Pi * math.Pi
	return 4 * pi2 * pi2 * s.Solution(x, y)
}

func (s sinSin) Dirichlet(x, y float64) float64 { return s.Solution(x, y) }

func (s sinSin) DirichletGradient(x, y float64) [2]float64 { return s.Gradient(x, y) }

func (sinSin) InitMesh(n int) (*mesh.TriMesh, error) {
	m, err := mesh.UnitSquare(1)
	return refined(m, err, n)
}

func (sinSin) DefaultRefinement() int { return 4 }
