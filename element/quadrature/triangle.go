package quadrature

import (
	"fmt"
	"sync"
)

// Triangle is a quadrature rule on a triangle in barycentric form. Weights
// sum to one, so the integral over a physical cell is area * Σ w_q f(x_q).
type Triangle struct {
	Order   int
	Points  [][3]float64 // barycentric coordinates of the quadrature points
	Weights []float64
}

var (
	cacheMu sync.Mutex
	cache   = map[int]*Triangle{}
)

// NewTriangle returns a rule exact for polynomials of total degree <= order.
// Points come from collapsed coordinates: Gauss-Legendre along the collapsed
// direction times Gauss-Jacobi(1,0) across it.
func NewTriangle(order int) (tr *Triangle, err error) {
	if order < 1 {
		return nil, fmt.Errorf("invalid triangle quadrature order %d", order)
	}
	cacheMu.Lock()
	defer cacheMu.Unlock()
	if tr = cache[order]; tr != nil {
		return
	}
	var (
		n        = order/2 + 1 // 2n-1 >= order
		xa, wa   []float64
		xb, wb   []float64
		totalLen = n * n
	)
	if xa, wa, err = JacobiGQ(0, 0, n-1); err != nil {
		return nil, err
	}
	if xb, wb, err = JacobiGQ(1, 0, n-1); err != nil {
		return nil, err
	}
	tr = &Triangle{
		Order:   order,
		Points:  make([][3]float64, 0, totalLen),
		Weights: make([]float64, 0, totalLen),
	}
	for j := range xb {
		for i := range xa {
			// unit triangle coordinates (ξ, η) in {ξ,η >= 0, ξ+η <= 1}
			xi := (1 + xa[i]) * (1 - xb[j]) / 4
			eta := (1 + xb[j]) / 2
			tr.Points = append(tr.Points, [3]float64{1 - xi - eta, xi, eta})
			// the (1-b) factor of the Duffy Jacobian lives in the Jacobi weight;
			// 1/8 maps the square, the factor 2 normalises by the reference area
			tr.Weights = append(tr.Weights, wa[i]*wb[j]/4)
		}
	}
	cache[order] = tr
	return
}

// NumPoints returns the number of quadrature points
func (tr *Triangle) NumPoints() int {
	return len(tr.Weights)
}
