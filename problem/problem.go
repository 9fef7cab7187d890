// Package problem holds the catalogue of biharmonic boundary-value problems
// Δ²u = f with clamped boundary data u = g, ∇u = ∇g, each with a known
// closed-form solution.
package problem

import (
	"fmt"
	"strings"

	"github.com/notargets/biharmonic/mesh"
)

// Kind selects a predefined problem
type Kind uint8

const (
	Peak Kind = iota + 1
	SinSin
	LShape
	Polynomial
)

var kindNames = map[Kind]string{
	Peak:       "peak",
	SinSin:     "sinsin",
	LShape:     "lshape",
	Polynomial: "polynomial",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Valid reports whether k names a known problem
func (k Kind) Valid() bool {
	_, ok := kindNames[k]
	return ok
}

// ParseKind accepts a problem name or its number
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, name := range kindNames {
		if s == name || s == fmt.Sprint(uint8(k)) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown problem %q", s)
}

func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("unknown problem %d", uint8(k))
	}
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(text []byte) (err error) {
	*k, err = ParseKind(string(text))
	return
}

// Boundary is the clamped Dirichlet data shared by the solver and the
// gradient recovery
type Boundary interface {
	Dirichlet(x, y float64) float64
	DirichletGradient(x, y float64) [2]float64
}

// Exact is the closed-form solution used for diagnostic error norms
type Exact interface {
	Solution(x, y float64) float64
	Gradient(x, y float64) [2]float64
	Laplace(x, y float64) float64
}

type Problem interface {
	Boundary
	Exact
	// Source is the right hand side f = Δ²u
	Source(x, y float64) float64
	// InitMesh returns the base mesh uniformly refined n times, each level
	// halving the mesh size
	InitMesh(n int) (*mesh.TriMesh, error)
	// DefaultRefinement is the level used for InitMesh when none is configured
	DefaultRefinement() int
	Name() string
}

// New builds the problem selected by kind with its standard coefficients
func New(kind Kind) (Problem, error) {
	switch kind {
	case Peak:
		return NewPeak(0.01), nil
	case SinSin:
		return &sinSin{}, nil
	case LShape:
		return NewLShapeCorner(), nil
	case Polynomial:
		return &linear{a: 1, b: 2, c: 3}, nil
	default:
		return nil, fmt.Errorf("unknown problem kind %d", uint8(kind))
	}
}

// solutionBoundary derives the clamped data from the exact solution
type solutionBoundary struct {
	Exact
}

func (b solutionBoundary) Dirichlet(x, y float64) float64 { return b.Solution(x, y) }

func (b solutionBoundary) DirichletGradient(x, y float64) [2]float64 { return b.Gradient(x, y) }

func refined(m *mesh.TriMesh, err error, n int) (*mesh.TriMesh, error) {
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, fmt.Errorf("invalid refinement level %d", n)
	}
	// two bisection sweeps halve the mesh size
	if err = m.Refine(2 * n); err != nil {
		return nil, err
	}
	return m, nil
}
