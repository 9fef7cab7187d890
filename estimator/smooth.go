package estimator

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/notargets/biharmonic/mesh"
)

// SmoothPasses is the fixed number of averaging passes of Smooth
const SmoothPasses = 10

// ErrDegenerateIndicator reports an indicator that cannot be normalised
var ErrDegenerateIndicator = errors.New("estimator: degenerate indicator")

// Normalize returns raw / max(raw)
func Normalize(raw []float64) ([]float64, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: empty indicator", ErrDegenerateIndicator)
	}
	for k, v := range raw {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: non-finite value %g at cell %d", ErrDegenerateIndicator, v, k)
		}
	}
	mx := floats.Max(raw)
	if !(mx > 0) {
		return nil, fmt.Errorf("%w: maximum %g", ErrDegenerateIndicator, mx)
	}
	eta := make([]float64, len(raw))
	floats.ScaleTo(eta, 1/mx, raw)
	return eta, nil
}

// Smooth diffuses a per-cell indicator over the point-to-cell incidence of
// m. After normalisation each of SmoothPasses passes averages the cell values
// to the points with area weights and sets every cell to the mean of its
// three point values. raw is left untouched.
func Smooth(m *mesh.TriMesh, raw []float64) ([]float64, error) {
	if len(raw) != m.NumberOfCells() {
		return nil, fmt.Errorf("indicator has %d entries for %d cells", len(raw), m.NumberOfCells())
	}
	eta, err := Normalize(raw)
	if err != nil {
		return nil, err
	}
	var (
		area = m.Area()
		q2c  = m.PointToCell()
		np   = m.NumberOfPoints()
		w    = make([]float64, np)
		beta = make([]float64, np)
	)
	q2c.DoNonZero(func(p, k int, v float64) {
		w[p] += v * area[k]
	})
	for pass := 0; pass < SmoothPasses; pass++ {
		for p := range beta {
			beta[p] = 0
		}
		q2c.DoNonZero(func(p, k int, v float64) {
			beta[p] += v * eta[k] * area[k]
		})
		floats.Div(beta, w)
		for k, c := range m.Cells {
			eta[k] = (beta[c[0]] + beta[c[1]] + beta[c[2]]) / 3
		}
	}
	return eta, nil
}
