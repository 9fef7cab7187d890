package problem

import (
	"fmt"
	"math"

	"github.com/notargets/biharmonic/mesh"
)

// PeakProblem has the exponential peak u = exp(-ρ/a) centred on the unit
// square, ρ = (x-1/2)² + (y-1/2)²
type PeakProblem struct {
	solutionBoundary
	A float64
}

func NewPeak(a float64) *PeakProblem {
	p := &PeakProblem{A: a}
	p.solutionBoundary = solutionBoundary{p}
	return p
}

func (p *PeakProblem) Name() string { return fmt.Sprintf("peak(a=%g)", p.A) }

func (p *PeakProblem) rho(x, y float64) float64 {
	return (x-0.5)*(x-0.5) + (y-0.5)*(y-0.5)
}

func (p *PeakProblem) Solution(x, y float64) float64 {
	return math.Exp(-p.rho(x, y) / p.A)
}

func (p *PeakProblem) Gradient(x, y float64) [2]float64 {
	s := -2 * p.Solution(x, y) / p.A
	return [2]float64{s * (x - 0.5), s * (y - 0.5)}
}

func (p *PeakProblem) Laplace(x, y float64) float64 {
	a, r := p.A, p.rho(x, y)
	return p.Solution(x, y) * (4*r/(a*a) - 4/a)
}

func (p *PeakProblem) Source(x, y float64) float64 {
	a, r := p.A, p.rho(x, y)
	a2 := a * a
	return p.Solution(x, y) * (16*r*r/(a2*a2) - 64*r/(a2*a) + 32/a2)
}

func (p *PeakProblem) InitMesh(n int) (*mesh.TriMesh, error) {
	m, err := mesh.UnitSquare(1)
	return refined(m, err, n)
}

func (p *PeakProblem) DefaultRefinement() int { return 4 }
