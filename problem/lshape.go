package problem

import (
	"math"

	"github.com/notargets/biharmonic/mesh"
)

// LShapeCorner is the biharmonic corner singularity u = r^(1+z) g(θ) of the
// L-shaped domain (-1,1)² \ [0,1]×[-1,0]. z is the smallest exponent for the
// clamped plate at the reentrant angle ω = 3π/2, so f = 0 and u ∉ H³.
type LShapeCorner struct {
	solutionBoundary
	Z, Omega float64

	a, b float64
}

func NewLShapeCorner() *LShapeCorner {
	p := &LShapeCorner{Z: 0.544483736782464, Omega: 3 * math.Pi / 2}
	z, w := p.Z, p.Omega
	p.a = math.Sin((z-1)*w)/(z-1) - math.Sin((z+1)*w)/(z+1)
	p.b = math.Cos((z-1)*w) - math.Cos((z+1)*w)
	p.solutionBoundary = solutionBoundary{p}
	return p
}

func (p *LShapeCorner) Name() string { return "lshape" }

// polar returns r and θ ∈ [0, 2π)
func polar(x, y float64) (r, theta float64) {
	r = math.Hypot(x, y)
	theta = math.Atan2(y, x)
	if theta < 0 {
		theta += 2 * math.Pi
	}
	return
}

// angular returns g, g' and g'' at θ
func (p *LShapeCorner) angular(theta float64) (g, g1, g2 float64) {
	var (
		zm, zp = p.Z - 1, p.Z + 1
		sm, cm = math.Sincos(zm * theta)
		sp, cp = math.Sincos(zp * theta)
		pa, pb = p.a, p.b
	)
	g = pa*(cm-cp) - pb*(sm/zm-sp/zp)
	g1 = pa*(-zm*sm+zp*sp) - pb*(cm-cp)
	g2 = pa*(-zm*zm*cm+zp*zp*cp) - pb*(-zm*sm+zp*sp)
	return
}

func (p *LShapeCorner) Solution(x, y float64) float64 {
	r, theta := polar(x, y)
	if r == 0 {
		return 0
	}
	g, _, _ := p.angular(theta)
	return math.Pow(r, 1+p.Z) * g
}

func (p *LShapeCorner) Gradient(x, y float64) [2]float64 {
	r, theta := polar(x, y)
	if r == 0 {
		return [2]float64{}
	}
	var (
		lambda   = 1 + p.Z
		g, g1, _ = p.angular(theta)
		rl       = math.Pow(r, lambda-1)
		ur       = lambda * rl * g // ∂u/∂r
		ut       = rl * g1         // (1/r) ∂u/∂θ
		st, ct   = math.Sincos(theta)
	)
	return [2]float64{ct*ur - st*ut, st*ur + ct*ut}
}

// Laplace is singular at the corner; the origin returns zero
func (p *LShapeCorner) Laplace(x, y float64) float64 {
	r, theta := polar(x, y)
	if r == 0 {
		return 0
	}
	lambda := 1 + p.Z
	g, _, g2 := p.angular(theta)
	return math.Pow(r, lambda-2) * (lambda*lambda*g + g2)
}

func (p *LShapeCorner) Source(x, y float64) float64 { return 0 }

func (p *LShapeCorner) InitMesh(n int) (*mesh.TriMesh, error) {
	m, err := mesh.LShape(1)
	return refined(m, err, n)
}

func (p *LShapeCorner) DefaultRefinement() int { return 1 }
