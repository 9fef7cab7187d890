package report

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tol = 1e-10

func TestRatesOfExactPowerLaw(t *testing.T) {
	ndof := []int{10, 40, 160, 640}
	errs := make([]float64, len(ndof))
	for i, n := range ndof {
		errs[i] = 3 * math.Pow(float64(n), -1.5)
	}
	r, err := Rates(ndof, errs, 20)
	require.NoError(t, err)
	require.True(t, r.Valid)
	assert.InDelta(t, 1.5, r.Order, tol)
	assert.InDelta(t, 3.0, r.HOrder, tol)
	assert.Equal(t, 4, r.Points)
	require.Len(t, r.Steps, 3)
	for _, s := range r.Steps {
		assert.InDelta(t, 1.5, s, tol)
	}
}

func TestRatesWindow(t *testing.T) {
	// first order until the last three samples, which converge at second order
	ndof := []int{1, 2, 4, 8, 16}
	errs := []float64{1, 0.5, 0.25, 0.0625, 0.015625}
	r, err := Rates(ndof, errs, 3)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, r.Order, tol)
	assert.Len(t, r.Steps, 2)

	r, err = Rates(ndof, errs, 100)
	require.NoError(t, err)
	assert.Len(t, r.Steps, 4)
	assert.Less(t, r.Order, 2.0)
}

func TestRatesSkipsNonPositiveErrors(t *testing.T) {
	r, err := Rates([]int{10, 20, 40}, []float64{0, 0.5, 0.25}, 10)
	require.NoError(t, err)
	assert.True(t, r.Valid)
	assert.Equal(t, 2, r.Points)
	assert.InDelta(t, 1.0, r.Order, tol)
	assert.True(t, math.IsNaN(r.Steps[0]))

	r, err = Rates([]int{10, 20}, []float64{0, 0.5}, 10)
	require.NoError(t, err)
	assert.False(t, r.Valid)
	assert.True(t, math.IsNaN(r.Order))
}

func TestRatesErrors(t *testing.T) {
	_, err := Rates([]int{1, 2}, []float64{1}, 5)
	assert.Error(t, err)
	_, err = Rates([]int{1, 2}, []float64{1, 2}, 1)
	assert.Error(t, err)
}

func TestBuildAndTable(t *testing.T) {
	ndof := []int{16, 64, 256}
	rep, err := Build(ndof, []string{"l2", "div"}, []string{"‖u - u_h‖", "‖Δu - ∇·G(∇u_h)‖"},
		[][]float64{{1, 0.25, 0.0625}, {1, 0.5, 0.25}}, 20)
	require.NoError(t, err)
	require.Len(t, rep.Series, 2)
	s, ok := rep.Lookup("div")
	require.True(t, ok)
	assert.InDelta(t, 0.5, s.Rate.Order, tol)
	_, ok = rep.Lookup("h1")
	assert.False(t, ok)

	var buf bytes.Buffer
	require.NoError(t, rep.Table(&buf))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[1], "1.000")
	assert.Contains(t, lines[1], "2.000")
	assert.Contains(t, lines[3], "256")

	_, err = Build(ndof, []string{"l2"}, nil, [][]float64{{1, 1, 1}}, 20)
	assert.Error(t, err)
}
